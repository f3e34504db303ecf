package database

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amoylab/hireloop/internal/common/cnst"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// store implements Database on top of gorm. The driver specific
// constructors only differ in the dialector they open.
type store struct {
	db *gorm.DB
}

func openStore(dialector gorm.Dialector) (*store, error) {
	gormDB, err := gorm.Open(dialector, &gorm.Config{
		Logger:         gormlogger.Default.LogMode(gormlogger.Warn),
		TranslateError: true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	if err := gormDB.AutoMigrate(Models()...); err != nil {
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}
	return &store{db: gormDB}, nil
}

// Close closes the database connection
func (s *store) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

func (s *store) ForTenant(tenantID string, opts ...Option) (*TenantStore, error) {
	return ForTenant(s.db, tenantID, opts...)
}

func (s *store) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return getDBFromContext(ctx, s.db).Transaction(func(tx *gorm.DB) error {
		return fn(ContextWithTransaction(ctx, tx))
	})
}

func (s *store) Bootstrap(ctx context.Context, superAdminEmails []string) (*Tenant, error) {
	var tenant *Tenant
	err := s.Transaction(ctx, func(ctx context.Context) error {
		var err error
		tenant, err = bootstrap(getDBFromContext(ctx, s.db), superAdminEmails)
		return err
	})
	return tenant, err
}

func (s *store) CreateTenant(ctx context.Context, tenant *Tenant) error {
	tenant.Slug = strings.ToLower(strings.TrimSpace(tenant.Slug))
	return getDBFromContext(ctx, s.db).Create(tenant).Error
}

// GetTenantByID returns an error wrapping cnst.ErrTenantNotFound on a miss
func (s *store) GetTenantByID(ctx context.Context, id string) (*Tenant, error) {
	tenant, err := Raw[Tenant](s.db).ByID(ctx, id)
	if errors.Is(err, cnst.ErrNotFound) {
		return nil, fmt.Errorf("%w: %s", cnst.ErrTenantNotFound, id)
	}
	return tenant, err
}

// GetTenantBySlug returns an error wrapping cnst.ErrTenantNotFound on a miss
func (s *store) GetTenantBySlug(ctx context.Context, slug string) (*Tenant, error) {
	var tenant Tenant
	err := getDBFromContext(ctx, s.db).
		Where("slug = ?", strings.ToLower(strings.TrimSpace(slug))).
		Take(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: %s", cnst.ErrTenantNotFound, slug)
	}
	if err != nil {
		return nil, err
	}
	return &tenant, nil
}

func (s *store) ListTenants(ctx context.Context) ([]*Tenant, error) {
	var tenants []*Tenant
	err := getDBFromContext(ctx, s.db).
		Order("created_at asc").
		Find(&tenants).Error
	return tenants, err
}

func (s *store) UpdateTenantScoring(ctx context.Context, id, plan, mode, overrides string) error {
	res := getDBFromContext(ctx, s.db).
		Model(&Tenant{}).
		Where("id = ?", id).
		Updates(map[string]any{
			"plan":              plan,
			"scoring_mode":      mode,
			"scoring_overrides": overrides,
		})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", cnst.ErrTenantNotFound, id)
	}
	return nil
}

func (s *store) SetTenantActive(ctx context.Context, id string, active bool) error {
	res := getDBFromContext(ctx, s.db).Model(&Tenant{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: %s", cnst.ErrTenantNotFound, id)
	}
	return nil
}

func (s *store) CreateUser(ctx context.Context, user *User) error {
	user.Email = strings.ToLower(strings.TrimSpace(user.Email))
	if user.GlobalRole == "" {
		user.GlobalRole = GlobalRoleUser
	}
	return getDBFromContext(ctx, s.db).Create(user).Error
}

// GetUserByID returns an error wrapping cnst.ErrNotFound on a miss
func (s *store) GetUserByID(ctx context.Context, id string) (*User, error) {
	return Raw[User](s.db).ByID(ctx, id)
}

// GetUserByEmail returns an error wrapping cnst.ErrNotFound on a miss
func (s *store) GetUserByEmail(ctx context.Context, email string) (*User, error) {
	var user User
	err := getDBFromContext(ctx, s.db).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Take(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("%w: user %s", cnst.ErrNotFound, email)
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *store) SetUserActive(ctx context.Context, id string, active bool) error {
	res := getDBFromContext(ctx, s.db).Model(&User{}).Where("id = ?", id).Update("is_active", active)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return fmt.Errorf("%w: user %s", cnst.ErrNotFound, id)
	}
	return nil
}

// AddMembership adds a membership. A primary membership demotes the user's
// previous primary one.
func (s *store) AddMembership(ctx context.Context, m *Membership) error {
	return s.Transaction(ctx, func(ctx context.Context) error {
		db := getDBFromContext(ctx, s.db)
		if m.IsPrimary {
			if err := db.Model(&Membership{}).
				Where("user_id = ?", m.UserID).
				Update("is_primary", false).Error; err != nil {
				return err
			}
		}
		return db.Create(m).Error
	})
}

func (s *store) ListMemberships(ctx context.Context, userID string) ([]*Membership, error) {
	var ms []*Membership
	err := getDBFromContext(ctx, s.db).
		Preload("Tenant").
		Where("user_id = ?", userID).
		Order("created_at asc").
		Find(&ms).Error
	return ms, err
}

func (s *store) SetPrimaryMembership(ctx context.Context, userID, tenantID string) error {
	return s.Transaction(ctx, func(ctx context.Context) error {
		db := getDBFromContext(ctx, s.db)
		res := db.Model(&Membership{}).
			Where("user_id = ? AND tenant_id = ?", userID, tenantID).
			Update("is_primary", true)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return fmt.Errorf("%w: user %s is not a member of tenant %s", cnst.ErrForbidden, userID, tenantID)
		}
		return db.Model(&Membership{}).
			Where("user_id = ? AND tenant_id <> ?", userID, tenantID).
			Update("is_primary", false).Error
	})
}
