// Package identity turns an authenticated user id into a tenancy.Principal
// and answers platform-wide tenant lookups.
package identity

import (
	"context"
	"errors"
	"fmt"

	"github.com/amoylab/hireloop/internal/apiserver/cache"
	"github.com/amoylab/hireloop/internal/apiserver/database"
	"github.com/amoylab/hireloop/internal/common/cnst"
	"github.com/amoylab/hireloop/internal/tenancy"
	"go.uber.org/zap"
)

// Provider loads principals from the database through an optional cache. It
// also implements tenancy.Directory.
type Provider struct {
	db     database.Database
	cache  *cache.MembershipCache
	logger *zap.Logger
}

var _ tenancy.Directory = (*Provider)(nil)

func NewProvider(db database.Database, c *cache.MembershipCache, logger *zap.Logger) *Provider {
	return &Provider{db: db, cache: c, logger: logger.Named("identity")}
}

// Principal returns the principal for userID. Unknown users are reported as
// cnst.ErrAccessDenied. Memberships in inactive tenants are left out.
func (p *Provider) Principal(ctx context.Context, userID string) (tenancy.Principal, error) {
	if p.cache != nil {
		if cached, ok := p.cache.Get(ctx, userID); ok {
			return *cached, nil
		}
	}

	user, err := p.db.GetUserByID(ctx, userID)
	if errors.Is(err, cnst.ErrNotFound) {
		return tenancy.Principal{}, fmt.Errorf("%w: unknown user %s", cnst.ErrAccessDenied, userID)
	}
	if err != nil {
		return tenancy.Principal{}, err
	}

	ms, err := p.db.ListMemberships(ctx, userID)
	if err != nil {
		return tenancy.Principal{}, err
	}

	principal := tenancy.Principal{
		ID:           user.ID,
		Email:        user.Email,
		Active:       user.IsActive,
		IsSuperAdmin: user.GlobalRole == database.GlobalRoleSuperAdmin,
		Memberships:  make([]tenancy.Membership, 0, len(ms)),
	}
	for _, m := range ms {
		if m.Tenant == nil || !m.Tenant.IsActive {
			continue
		}
		principal.Memberships = append(principal.Memberships, tenancy.Membership{
			TenantID:   m.TenantID,
			TenantSlug: m.Tenant.Slug,
			TenantName: m.Tenant.Name,
			Role:       tenancy.ParseRole(m.Role),
			Primary:    m.IsPrimary,
		})
	}

	if p.cache != nil {
		if err := p.cache.Set(ctx, principal); err != nil {
			p.logger.Warn("failed to cache principal", zap.String("user_id", userID), zap.Error(err))
		}
	}
	return principal, nil
}

// Invalidate drops any cached copy of the user's principal.
func (p *Provider) Invalidate(ctx context.Context, userID string) error {
	if p.cache == nil {
		return nil
	}
	return p.cache.Invalidate(ctx, userID)
}

func (p *Provider) TenantByID(ctx context.Context, id string) (*tenancy.TenantRef, error) {
	t, err := p.db.GetTenantByID(ctx, id)
	return refOf(t, id, err)
}

func (p *Provider) TenantBySlug(ctx context.Context, slug string) (*tenancy.TenantRef, error) {
	t, err := p.db.GetTenantBySlug(ctx, slug)
	return refOf(t, slug, err)
}

func refOf(t *database.Tenant, key string, err error) (*tenancy.TenantRef, error) {
	if err != nil {
		return nil, err
	}
	if !t.IsActive {
		return nil, fmt.Errorf("%w: %s is inactive", cnst.ErrTenantNotFound, key)
	}
	return &tenancy.TenantRef{ID: t.ID, Slug: t.Slug, Name: t.Name}, nil
}
