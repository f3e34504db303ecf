package handler

import (
	"errors"
	"net/http"

	"github.com/amoylab/hireloop/internal/apiserver/database"
	"github.com/amoylab/hireloop/internal/common/dto"
	"github.com/amoylab/hireloop/internal/common/errorx"
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// CreateCandidate adds a candidate to the tenant's pool
func (h *Handler) CreateCandidate(c *gin.Context) {
	_, store, ok := h.scoped(c)
	if !ok {
		return
	}
	var req dto.CreateCandidateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.HandleError(c, errorx.ErrInvalidInput.WithDetail("reason", err.Error()))
		return
	}

	cand := &database.Candidate{
		Email:       req.Email,
		Name:        req.Name,
		Location:    req.Location,
		LinkedInURL: req.LinkedInURL,
	}
	if err := store.Candidates().Create(c.Request.Context(), cand); err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			h.errors.HandleError(c, errorx.ValidationError("email", "candidate already exists"))
			return
		}
		h.errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.IDResponse{ID: cand.ID})
}

// CreateApplication links a candidate to a job. Both must belong to the
// resolved tenant.
func (h *Handler) CreateApplication(c *gin.Context) {
	_, store, ok := h.scoped(c)
	if !ok {
		return
	}
	var req dto.CreateApplicationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.HandleError(c, errorx.ErrInvalidInput.WithDetail("reason", err.Error()))
		return
	}

	app := &database.Application{
		JobID:          req.JobID,
		CandidateID:    req.CandidateID,
		CVRef:          req.CVRef,
		HasCoverLetter: req.HasCoverLetter,
		Location:       req.Location,
		LinkedInURL:    req.LinkedInURL,
	}
	if err := store.Applications().Create(c.Request.Context(), app); err != nil {
		h.errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, dto.IDResponse{ID: app.ID})
}

// ScoreApplication runs the evaluator and records a new scoring event
func (h *Handler) ScoreApplication(c *gin.Context) {
	scope, store, ok := h.scoped(c)
	if !ok {
		return
	}
	ctx := c.Request.Context()
	tenant, err := h.db.GetTenantByID(ctx, scope.TenantID)
	if err != nil {
		h.errors.HandleError(c, err)
		return
	}
	ev, err := h.scoring.ScoreApplication(ctx, store, tenant, c.Param("id"))
	if err != nil {
		h.errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, ev)
}

// ListScores returns the application's scoring history, newest first
func (h *Handler) ListScores(c *gin.Context) {
	_, store, ok := h.scoped(c)
	if !ok {
		return
	}
	events, err := h.scoring.History(c.Request.Context(), store, c.Param("id"))
	if err != nil {
		h.errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, events)
}
