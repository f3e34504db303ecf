package database

import (
	"errors"
	"strings"

	"gorm.io/gorm"
)

const (
	DefaultTenantSlug = "default"
	defaultTenantName = "Default"
)

// bootstrap makes sure the default tenant exists and that every configured
// super-admin has an account with an owner membership in it
func bootstrap(db *gorm.DB, superAdminEmails []string) (*Tenant, error) {
	var tenant Tenant
	err := db.Where("slug = ?", DefaultTenantSlug).Take(&tenant).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		tenant = Tenant{
			Name:        defaultTenantName,
			Slug:        DefaultTenantSlug,
			Plan:        "free",
			ScoringMode: "hybrid",
			IsActive:    true,
		}
		err = db.Create(&tenant).Error
	}
	if err != nil {
		return nil, err
	}

	for _, email := range superAdminEmails {
		email = strings.ToLower(strings.TrimSpace(email))
		if email == "" {
			continue
		}
		user, err := ensureSuperAdmin(db, email)
		if err != nil {
			return nil, err
		}
		if err := ensureOwner(db, user.ID, tenant.ID); err != nil {
			return nil, err
		}
	}
	return &tenant, nil
}

func ensureSuperAdmin(db *gorm.DB, email string) (*User, error) {
	var user User
	err := db.Where("email = ?", email).Take(&user).Error
	switch {
	case errors.Is(err, gorm.ErrRecordNotFound):
		user = User{Email: email, IsActive: true, GlobalRole: GlobalRoleSuperAdmin}
		return &user, db.Create(&user).Error
	case err != nil:
		return nil, err
	}
	if user.GlobalRole != GlobalRoleSuperAdmin {
		if err := db.Model(&user).Update("global_role", GlobalRoleSuperAdmin).Error; err != nil {
			return nil, err
		}
	}
	return &user, nil
}

func ensureOwner(db *gorm.DB, userID, tenantID string) error {
	var count int64
	if err := db.Model(&Membership{}).Where("user_id = ?", userID).Count(&count).Error; err != nil {
		return err
	}
	var existing int64
	if err := db.Model(&Membership{}).
		Where("user_id = ? AND tenant_id = ?", userID, tenantID).
		Count(&existing).Error; err != nil {
		return err
	}
	if existing > 0 {
		return nil
	}
	return db.Create(&Membership{
		UserID:    userID,
		TenantID:  tenantID,
		Role:      "owner",
		IsPrimary: count == 0,
	}).Error
}
