package database

import (
	"context"
)

// Database defines the platform-wide operations. Tenant-owned data is only
// reachable through ForTenant.
type Database interface {
	// Close closes the database connection.
	Close() error

	// ForTenant returns a store bound to tenantID.
	ForTenant(tenantID string, opts ...Option) (*TenantStore, error)

	// Transaction runs fn in a transaction. Store calls made with the context
	// passed to fn join it.
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error

	// Bootstrap creates the default tenant and promotes the given emails to
	// super-admins. It is idempotent.
	Bootstrap(ctx context.Context, superAdminEmails []string) (*Tenant, error)

	// CreateTenant creates a new tenant.
	CreateTenant(ctx context.Context, tenant *Tenant) error

	// GetTenantByID gets a tenant by id.
	GetTenantByID(ctx context.Context, id string) (*Tenant, error)

	// GetTenantBySlug gets a tenant by slug.
	GetTenantBySlug(ctx context.Context, slug string) (*Tenant, error)

	// ListTenants lists all tenants.
	ListTenants(ctx context.Context) ([]*Tenant, error)

	// UpdateTenantScoring replaces a tenant's plan, scoring mode and overrides.
	UpdateTenantScoring(ctx context.Context, id, plan, mode, overrides string) error

	// SetTenantActive enables or disables a tenant.
	SetTenantActive(ctx context.Context, id string, active bool) error

	// CreateUser creates a new user.
	CreateUser(ctx context.Context, user *User) error

	// GetUserByID gets a user by id.
	GetUserByID(ctx context.Context, id string) (*User, error)

	// GetUserByEmail gets a user by email.
	GetUserByEmail(ctx context.Context, email string) (*User, error)

	// SetUserActive enables or disables a user.
	SetUserActive(ctx context.Context, id string, active bool) error

	// AddMembership adds a user to a tenant.
	AddMembership(ctx context.Context, m *Membership) error

	// ListMemberships lists a user's memberships with their tenants loaded.
	ListMemberships(ctx context.Context, userID string) ([]*Membership, error)

	// SetPrimaryMembership marks one membership primary and clears the rest.
	SetPrimaryMembership(ctx context.Context, userID, tenantID string) error
}

