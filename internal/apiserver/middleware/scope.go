package middleware

import (
	"context"
	"errors"
	"strings"

	"github.com/amoylab/hireloop/internal/apiserver/database"
	"github.com/amoylab/hireloop/internal/common/cnst"
	"github.com/amoylab/hireloop/internal/common/config"
	"github.com/amoylab/hireloop/internal/common/errorx"
	"github.com/amoylab/hireloop/internal/tenancy"
	"github.com/amoylab/hireloop/pkg/logger"
	"github.com/amoylab/hireloop/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// PrincipalSource loads the principal behind an authenticated user id
type PrincipalSource interface {
	Principal(ctx context.Context, userID string) (tenancy.Principal, error)
}

// ScopeDeps wires the tenant scope middleware
type ScopeDeps struct {
	Principals PrincipalSource
	Resolver   *tenancy.Resolver
	DB         database.Database
	Config     config.ScopeConfig
	Metrics    *metrics.Metrics
	Errors     *errorx.ErrorHandler
}

// TenantScope resolves the tenant a request acts within and binds a
// tenant-scoped store to the gin context. It must run after
// JWTAuthMiddleware. The tenant is taken from the configured header, then
// the "tenant" query parameter.
func TenantScope(d ScopeDeps) gin.HandlerFunc {
	mode := tenancy.ModeLenient
	if d.Config.Strict {
		mode = tenancy.ModeStrict
	}
	header := d.Config.Header
	if header == "" {
		header = "X-Tenant"
	}

	return func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		if !ok {
			d.Errors.HandleError(c, errorx.ErrUnauthorized)
			return
		}
		ctx := c.Request.Context()

		principal, err := d.Principals.Principal(ctx, claims.UserID)
		if err != nil {
			d.Metrics.ScopeResolved("denied")
			d.Errors.HandleError(c, err)
			return
		}

		requested := strings.TrimSpace(c.GetHeader(header))
		if requested == "" {
			requested = strings.TrimSpace(c.Query("tenant"))
		}

		decision, err := d.Resolver.Resolve(ctx, principal, requested)
		if err != nil {
			d.Metrics.ScopeResolved(outcomeOf(err))
			d.Errors.HandleError(c, err)
			return
		}

		scope, err := decision.In(mode)
		if err != nil {
			d.Metrics.ScopeResolved(outcomeOf(err))
			d.Errors.HandleError(c, err)
			return
		}
		if _, granted := decision.Authorized(); granted {
			d.Metrics.ScopeResolved("granted")
		} else {
			d.Metrics.ScopeResolved("fallback")
			c.Header("X-Tenant-Fallback", scope.TenantSlug)
		}

		store, err := d.DB.ForTenant(scope.TenantID)
		if err != nil {
			d.Errors.HandleError(c, err)
			return
		}

		lg := logger.FromContext(ctx).With(zap.String("user_id", principal.ID))
		ctx = logger.WithTenant(logger.WithContext(ctx, lg), scope.TenantID, string(scope.Role))
		c.Request = c.Request.WithContext(ctx)
		c.Set(cnst.CtxKeyScope, scope)
		c.Set(cnst.CtxKeyStore, store)
		c.Next()
	}
}

// RequireRole rejects requests whose resolved role is below min
func RequireRole(min tenancy.Role, eh *errorx.ErrorHandler) gin.HandlerFunc {
	return func(c *gin.Context) {
		scope, ok := ScopeFrom(c)
		if !ok || !scope.Role.AtLeast(min) {
			eh.HandleError(c, errorx.ErrInsufficientPermissions.WithDetail("required_role", string(min)))
			return
		}
		c.Next()
	}
}

// ScopeFrom returns the scope stored by TenantScope
func ScopeFrom(c *gin.Context) (tenancy.Context, bool) {
	v, ok := c.Get(cnst.CtxKeyScope)
	if !ok {
		return tenancy.Context{}, false
	}
	scope, ok := v.(tenancy.Context)
	return scope, ok
}

// StoreFrom returns the tenant-scoped store stored by TenantScope
func StoreFrom(c *gin.Context) (*database.TenantStore, bool) {
	v, ok := c.Get(cnst.CtxKeyStore)
	if !ok {
		return nil, false
	}
	store, ok := v.(*database.TenantStore)
	return store, ok
}

func outcomeOf(err error) string {
	switch {
	case errors.Is(err, cnst.ErrForbidden):
		return "forbidden"
	case errors.Is(err, cnst.ErrTenantNotFound):
		return "not_found"
	case errors.Is(err, cnst.ErrAccessDenied):
		return "denied"
	default:
		return "error"
	}
}
