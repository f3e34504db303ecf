package cnst

import "errors"

var (
	// ErrAccessDenied is returned when a principal has no tenant to act within
	ErrAccessDenied = errors.New("access denied")
	// ErrForbidden is returned when a principal is not a member of the requested tenant
	ErrForbidden = errors.New("forbidden")
	// ErrTenantNotFound is returned when a requested tenant does not exist
	ErrTenantNotFound = errors.New("tenant not found")
	// ErrCrossTenantWrite is returned when a write targets a tenant other than the bound one
	ErrCrossTenantWrite = errors.New("cross-tenant write")
	// ErrCrossTenantReference is returned when a record links rows owned by different tenants
	ErrCrossTenantReference = errors.New("cross-tenant reference")
	// ErrNotFound is returned when no visible record matches a lookup
	ErrNotFound = errors.New("record not found")
	// ErrImmutableRecord is returned when an append-only record is modified
	ErrImmutableRecord = errors.New("record is immutable")
)
