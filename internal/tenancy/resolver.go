package tenancy

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/amoylab/hireloop/internal/common/cnst"
	"github.com/google/uuid"
)

// Mode selects how a denied request is turned into a response
type Mode int

const (
	// ModeLenient falls back to the principal's primary tenant
	ModeLenient Mode = iota
	// ModeStrict reports the denial
	ModeStrict
)

// DenyReason explains why the requested tenant was not granted
type DenyReason string

const (
	DenyNotMember DenyReason = "not_member"
	DenyNotFound  DenyReason = "not_found"
)

// Denial describes a refused tenant request. Fallback is the principal's
// primary (or first) membership, nil when they have none.
type Denial struct {
	Reason    DenyReason
	Requested string
	Fallback  *Context
}

// Err converts the denial into the matching sentinel error.
func (d *Denial) Err() error {
	if d.Reason == DenyNotFound {
		return fmt.Errorf("%w: %q", cnst.ErrTenantNotFound, d.Requested)
	}
	return fmt.Errorf("%w: not a member of tenant %q", cnst.ErrForbidden, d.Requested)
}

// Decision is either an authorized Context or a Denial.
type Decision struct {
	authorized *Context
	denial     *Denial
}

// Authorized returns the granted context, if any.
func (d Decision) Authorized() (Context, bool) {
	if d.authorized == nil {
		return Context{}, false
	}
	return *d.authorized, true
}

// Denied returns the denial, if any.
func (d Decision) Denied() (*Denial, bool) {
	return d.denial, d.denial != nil
}

// Strict returns the granted context or the denial as an error.
func (d Decision) Strict() (Context, error) {
	if d.authorized != nil {
		return *d.authorized, nil
	}
	return Context{}, d.denial.Err()
}

// Lenient returns the granted context, else the fallback membership. It only
// fails when there is nothing to fall back to.
func (d Decision) Lenient() (Context, error) {
	if d.authorized != nil {
		return *d.authorized, nil
	}
	if d.denial.Fallback != nil {
		return *d.denial.Fallback, nil
	}
	return Context{}, d.denial.Err()
}

// In applies the given mode.
func (d Decision) In(mode Mode) (Context, error) {
	if mode == ModeStrict {
		return d.Strict()
	}
	return d.Lenient()
}

// Resolver maps a principal and an optional tenant request to one tenant.
// It holds no mutable state and is safe for concurrent use.
type Resolver struct {
	dir Directory
}

// NewResolver creates a resolver. The directory is only consulted for
// platform super-admins.
func NewResolver(dir Directory) *Resolver {
	return &Resolver{dir: dir}
}

// ResolveScope resolves and applies mode in one step.
func (r *Resolver) ResolveScope(ctx context.Context, p Principal, requested string, mode Mode) (Context, error) {
	d, err := r.Resolve(ctx, p, requested)
	if err != nil {
		return Context{}, err
	}
	return d.In(mode)
}

// Resolve decides which tenant p may act within. requested may be a tenant id
// (UUID), a slug, or empty for "my default tenant".
//
// The returned error is reserved for AccessDenied and directory failures;
// membership and existence refusals come back as a Denial so the caller can
// pick strict or lenient handling.
func (r *Resolver) Resolve(ctx context.Context, p Principal, requested string) (Decision, error) {
	if !p.Active {
		return Decision{}, fmt.Errorf("%w: principal %s is inactive", cnst.ErrAccessDenied, p.ID)
	}
	if len(p.Memberships) == 0 && !p.IsSuperAdmin {
		return Decision{}, fmt.Errorf("%w: principal %s has no tenant memberships", cnst.ErrAccessDenied, p.ID)
	}

	fallback := defaultMembership(p)
	requested = strings.TrimSpace(requested)
	if requested == "" {
		if fallback == nil {
			return Decision{}, fmt.Errorf("%w: no tenant requested and no memberships", cnst.ErrAccessDenied)
		}
		return Decision{authorized: fallback}, nil
	}

	byID := false
	if id, ok := canonicalID(requested); ok {
		requested, byID = id, true
	}
	if m := findMembership(p.Memberships, requested, byID); m != nil {
		return Decision{authorized: contextFor(*m, p.IsSuperAdmin)}, nil
	}

	if !p.IsSuperAdmin {
		// Existence is never checked here so a non-member cannot tell a
		// missing tenant from a foreign one.
		return Decision{denial: &Denial{Reason: DenyNotMember, Requested: requested, Fallback: fallback}}, nil
	}

	ref, err := r.lookup(ctx, requested, byID)
	if err != nil {
		if errors.Is(err, cnst.ErrTenantNotFound) {
			return Decision{denial: &Denial{Reason: DenyNotFound, Requested: requested, Fallback: fallback}}, nil
		}
		return Decision{}, err
	}
	return Decision{authorized: &Context{
		TenantID:     ref.ID,
		Role:         RoleAdmin,
		TenantName:   ref.Name,
		TenantSlug:   ref.Slug,
		IsSuperAdmin: true,
	}}, nil
}

func (r *Resolver) lookup(ctx context.Context, requested string, byID bool) (*TenantRef, error) {
	if r.dir == nil {
		return nil, errors.New("tenant directory is not configured")
	}
	var (
		ref *TenantRef
		err error
	)
	if byID {
		ref, err = r.dir.TenantByID(ctx, requested)
	} else {
		ref, err = r.dir.TenantBySlug(ctx, requested)
	}
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, fmt.Errorf("%w: %q", cnst.ErrTenantNotFound, requested)
	}
	return ref, nil
}

// IsStableID reports whether s has the format of a tenant id.
func IsStableID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}

// canonicalID returns the lower-case hyphenated form of s when s is a UUID in
// any encoding uuid.Parse accepts (braced, urn or without hyphens).
func canonicalID(s string) (string, bool) {
	id, err := uuid.Parse(s)
	if err != nil {
		return "", false
	}
	return id.String(), true
}

func defaultMembership(p Principal) *Context {
	if len(p.Memberships) == 0 {
		return nil
	}
	for _, m := range p.Memberships {
		if m.Primary {
			return contextFor(m, p.IsSuperAdmin)
		}
	}
	return contextFor(p.Memberships[0], p.IsSuperAdmin)
}

func findMembership(ms []Membership, requested string, byID bool) *Membership {
	for i := range ms {
		key := ms[i].TenantSlug
		if byID {
			key = ms[i].TenantID
		}
		if key != "" && strings.EqualFold(key, requested) {
			return &ms[i]
		}
	}
	return nil
}

func contextFor(m Membership, superAdmin bool) *Context {
	return &Context{
		TenantID:     m.TenantID,
		Role:         ParseRole(string(m.Role)),
		TenantName:   m.TenantName,
		TenantSlug:   m.TenantSlug,
		IsSuperAdmin: superAdmin,
	}
}
