package handler

import (
	"net/http"

	"github.com/amoylab/hireloop/internal/common/dto"
	"github.com/amoylab/hireloop/internal/common/errorx"
	"github.com/amoylab/hireloop/internal/scoring/profile"
	"github.com/gin-gonic/gin"
	"github.com/tidwall/gjson"
	"go.uber.org/zap"
)

// GetTenantContext returns the resolved scope and every tenant the caller
// may switch to
func (h *Handler) GetTenantContext(c *gin.Context) {
	scope, _, ok := h.scoped(c)
	if !ok {
		return
	}
	principal, err := h.identity.Principal(c.Request.Context(), h.actorID(c))
	if err != nil {
		h.errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, dto.TenantContextResponse{
		Scope:       scope,
		Memberships: principal.Memberships,
	})
}

// GetScoringConfig returns the merged scoring configuration of the tenant
func (h *Handler) GetScoringConfig(c *gin.Context) {
	scope, _, ok := h.scoped(c)
	if !ok {
		return
	}
	tenant, err := h.db.GetTenantByID(c.Request.Context(), scope.TenantID)
	if err != nil {
		h.errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, profile.MergeJSON(tenant.ScoringMode, tenant.Plan, []byte(tenant.ScoringOverrides)))
}

// UpdateScoringConfig stores new scoring settings for the tenant. Empty
// plan or mode keep the current value.
func (h *Handler) UpdateScoringConfig(c *gin.Context) {
	scope, _, ok := h.scoped(c)
	if !ok {
		return
	}
	var req dto.UpdateScoringRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.HandleError(c, errorx.ErrInvalidInput.WithDetail("reason", err.Error()))
		return
	}
	overrides := string(req.Overrides)
	if overrides != "" && (!gjson.Valid(overrides) || !gjson.Parse(overrides).IsObject()) {
		h.errors.HandleError(c, errorx.ValidationError("overrides", "must be a JSON object"))
		return
	}

	ctx := c.Request.Context()
	tenant, err := h.db.GetTenantByID(ctx, scope.TenantID)
	if err != nil {
		h.errors.HandleError(c, err)
		return
	}
	plan, mode := tenant.Plan, tenant.ScoringMode
	if req.Plan != "" {
		plan = req.Plan
	}
	if req.Mode != "" {
		mode = req.Mode
	}
	if err := h.db.UpdateTenantScoring(ctx, tenant.ID, plan, mode, overrides); err != nil {
		h.errors.HandleError(c, err)
		return
	}

	h.logger.Info("scoring settings updated",
		zap.String("tenant_id", tenant.ID),
		zap.String("plan", plan),
		zap.String("mode", mode),
		zap.String("actor_id", h.actorID(c)))
	c.JSON(http.StatusOK, profile.MergeJSON(mode, plan, []byte(overrides)))
}
