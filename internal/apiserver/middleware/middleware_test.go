package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amoylab/hireloop/internal/apiserver/database"
	"github.com/amoylab/hireloop/internal/auth/jwt"
	"github.com/amoylab/hireloop/internal/common/cnst"
	"github.com/amoylab/hireloop/internal/common/config"
	"github.com/amoylab/hireloop/internal/common/errorx"
	"github.com/amoylab/hireloop/internal/tenancy"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

const testSecret = "this-is-a-very-long-secret-key-for-testing"

type staticPrincipals map[string]tenancy.Principal

func (s staticPrincipals) Principal(_ context.Context, userID string) (tenancy.Principal, error) {
	p, ok := s[userID]
	if !ok {
		return tenancy.Principal{}, cnst.ErrAccessDenied
	}
	return p, nil
}

type noDirectory struct{}

func (noDirectory) TenantByID(context.Context, string) (*tenancy.TenantRef, error) {
	return nil, cnst.ErrTenantNotFound
}

func (noDirectory) TenantBySlug(context.Context, string) (*tenancy.TenantRef, error) {
	return nil, cnst.ErrTenantNotFound
}

func newJWT(t *testing.T) *jwt.Service {
	t.Helper()
	s, err := jwt.NewService(config.JWTConfig{SecretKey: testSecret, Duration: time.Hour})
	require.NoError(t, err)
	return s
}

func perform(r *gin.Engine, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodGet, "/p", nil)
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func TestJWTAuthMiddleware(t *testing.T) {
	gin.SetMode(gin.TestMode)
	svc := newJWT(t)
	eh := errorx.NewErrorHandler(zap.NewNop())

	r := gin.New()
	r.GET("/p", JWTAuthMiddleware(svc, eh), func(c *gin.Context) {
		claims, ok := ClaimsFrom(c)
		require.True(t, ok)
		c.String(http.StatusOK, claims.UserID)
	})

	tok, err := svc.GenerateToken("u-1", "u@example.com")
	require.NoError(t, err)

	tests := []struct {
		name   string
		header string
		status int
	}{
		{"missing", "", http.StatusUnauthorized},
		{"bad scheme", "Token " + tok, http.StatusUnauthorized},
		{"no token", "Bearer ", http.StatusUnauthorized},
		{"invalid", "Bearer invalid", http.StatusUnauthorized},
		{"valid", "Bearer " + tok, http.StatusOK},
		{"lowercase scheme", "bearer " + tok, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			headers := map[string]string{}
			if tt.header != "" {
				headers["Authorization"] = tt.header
			}
			w := perform(r, headers)
			assert.Equal(t, tt.status, w.Code)
			if tt.status == http.StatusOK {
				assert.Equal(t, "u-1", w.Body.String())
			}
		})
	}
}

func TestTenantScope(t *testing.T) {
	gin.SetMode(gin.TestMode)
	ctx := context.Background()
	db, err := database.NewSQLite(&config.DatabaseConfig{Type: "sqlite", DBName: ":memory:"})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	acme := &database.Tenant{Name: "Acme", Slug: "acme"}
	require.NoError(t, db.CreateTenant(ctx, acme))

	principals := staticPrincipals{
		"u-1": {ID: "u-1", Active: true, Memberships: []tenancy.Membership{
			{TenantID: acme.ID, TenantSlug: "acme", TenantName: "Acme", Role: tenancy.RoleViewer, Primary: true},
		}},
		"u-2": {ID: "u-2", Active: true},
	}
	svc := newJWT(t)
	eh := errorx.NewErrorHandler(zap.NewNop())

	build := func(strict bool) *gin.Engine {
		r := gin.New()
		r.GET("/p",
			JWTAuthMiddleware(svc, eh),
			TenantScope(ScopeDeps{
				Principals: principals,
				Resolver:   tenancy.NewResolver(noDirectory{}),
				DB:         db,
				Config:     config.ScopeConfig{Strict: strict},
				Errors:     eh,
			}),
			func(c *gin.Context) {
				scope, ok := ScopeFrom(c)
				require.True(t, ok)
				store, ok := StoreFrom(c)
				require.True(t, ok)
				assert.Equal(t, scope.TenantID, store.TenantID())
				c.String(http.StatusOK, scope.TenantSlug)
			})
		r.GET("/admin", JWTAuthMiddleware(svc, eh), TenantScope(ScopeDeps{
			Principals: principals,
			Resolver:   tenancy.NewResolver(noDirectory{}),
			DB:         db,
			Errors:     eh,
		}), RequireRole(tenancy.RoleAdmin, eh), func(c *gin.Context) { c.Status(http.StatusNoContent) })
		return r
	}
	auth := func(userID string) map[string]string {
		tok, err := svc.GenerateToken(userID, userID+"@example.com")
		require.NoError(t, err)
		return map[string]string{"Authorization": "Bearer " + tok}
	}
	with := func(h map[string]string, k, v string) map[string]string {
		h[k] = v
		return h
	}

	strict := build(true)
	w := perform(strict, auth("u-1"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acme", w.Body.String())

	w = perform(strict, with(auth("u-1"), "X-Tenant", "globex"))
	assert.Equal(t, http.StatusForbidden, w.Code)

	w = perform(strict, auth("u-2"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = perform(strict, auth("unknown"))
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	lenient := build(false)
	w = perform(lenient, with(auth("u-1"), "X-Tenant", "globex"))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "acme", w.Header().Get("X-Tenant-Fallback"))

	req := httptest.NewRequest(http.MethodGet, "/admin", nil)
	req.Header.Set("Authorization", auth("u-1")["Authorization"])
	rec := httptest.NewRecorder()
	lenient.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusForbidden, rec.Code)
}
