package dto

import (
	"encoding/json"

	"github.com/amoylab/hireloop/internal/tenancy"
)

// TenantContextResponse describes the scope a request was resolved to
type TenantContextResponse struct {
	Scope       tenancy.Context      `json:"scope"`
	Memberships []tenancy.Membership `json:"memberships"`
}

// UpdateScoringRequest replaces a tenant's scoring settings. Overrides is
// stored verbatim and read leniently at scoring time.
type UpdateScoringRequest struct {
	Plan      string          `json:"plan" binding:"omitempty,oneof=free pro enterprise"`
	Mode      string          `json:"mode" binding:"omitempty,oneof=exec volume hybrid"`
	Overrides json.RawMessage `json:"overrides,omitempty"`
}
