// Package tenancy decides which single tenant an authenticated principal is
// acting within for a request.
package tenancy

import (
	"context"
	"strings"
)

// Role is a principal's role inside one tenant
type Role string

const (
	RoleOwner     Role = "owner"
	RoleAdmin     Role = "admin"
	RoleRecruiter Role = "recruiter"
	RoleViewer    Role = "viewer"
)

var roleRank = map[Role]int{
	RoleViewer:    1,
	RoleRecruiter: 2,
	RoleAdmin:     3,
	RoleOwner:     4,
}

// ParseRole normalizes a stored role; unknown roles become viewer.
func ParseRole(s string) Role {
	r := Role(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := roleRank[r]; ok {
		return r
	}
	return RoleViewer
}

// AtLeast reports whether r grants at least the privileges of min.
func (r Role) AtLeast(min Role) bool {
	return roleRank[r] >= roleRank[min]
}

// Membership links a principal to one tenant
type Membership struct {
	TenantID   string `json:"tenantId"`
	TenantSlug string `json:"tenantSlug"`
	TenantName string `json:"tenantName"`
	Role       Role   `json:"role"`
	Primary    bool   `json:"primary"`
}

// Principal is the authenticated actor as supplied by the identity layer.
// It is trusted as already verified.
type Principal struct {
	ID           string       `json:"id"`
	Email        string       `json:"email"`
	Active       bool         `json:"active"`
	IsSuperAdmin bool         `json:"isSuperAdmin"`
	Memberships  []Membership `json:"memberships"`
}

// TenantRef is the minimal tenant identity returned by a Directory
type TenantRef struct {
	ID   string
	Slug string
	Name string
}

// Directory looks tenants up across the whole platform. Implementations
// return an error wrapping cnst.ErrTenantNotFound when nothing matches.
type Directory interface {
	TenantByID(ctx context.Context, id string) (*TenantRef, error)
	TenantBySlug(ctx context.Context, slug string) (*TenantRef, error)
}

// Context is the resolved tenant scope for one request
type Context struct {
	TenantID     string `json:"tenantId"`
	Role         Role   `json:"role"`
	TenantName   string `json:"tenantName"`
	TenantSlug   string `json:"tenantSlug"`
	IsSuperAdmin bool   `json:"isSuperAdmin"`
}
