package handler

import (
	"context"
	"net/http"

	"github.com/amoylab/hireloop/internal/apiserver/database"
	"github.com/amoylab/hireloop/internal/common/dto"
	"github.com/amoylab/hireloop/internal/common/errorx"
	"github.com/gin-gonic/gin"
)

const defaultPageSize = 50

// ListJobs lists the tenant's jobs, newest first
func (h *Handler) ListJobs(c *gin.Context) {
	_, store, ok := h.scoped(c)
	if !ok {
		return
	}
	var q dto.ListJobsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		h.errors.HandleError(c, errorx.ErrInvalidInput.WithDetail("reason", err.Error()))
		return
	}
	if q.Limit == 0 {
		q.Limit = defaultPageSize
	}

	filter := database.Filter{}
	if q.Status != "" {
		filter["status"] = q.Status
	}
	jobs, err := store.Jobs().FindMany(c.Request.Context(), database.Query{
		Filter: filter,
		Order:  "created_at desc",
		Limit:  q.Limit,
		Offset: q.Offset,
	})
	if err != nil {
		h.errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusOK, jobs)
}

// CreateJob opens a job in the resolved tenant
func (h *Handler) CreateJob(c *gin.Context) {
	_, store, ok := h.scoped(c)
	if !ok {
		return
	}
	var req dto.CreateJobRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.errors.HandleError(c, errorx.ErrInvalidInput.WithDetail("reason", err.Error()))
		return
	}

	job := &database.Job{
		Title:          req.Title,
		Location:       req.Location,
		RequiredSkills: req.RequiredSkills,
		HiringMode:     req.HiringMode,
		Visibility:     req.Visibility,
	}

	ctx := c.Request.Context()
	err := h.db.Transaction(ctx, func(ctx context.Context) error {
		if err := store.Jobs().Create(ctx, job); err != nil {
			return err
		}
		return store.ActivityLogs().Create(ctx, &database.ActivityLog{
			ActorID:    h.actorID(c),
			Action:     "job.created",
			EntityType: "job",
			EntityID:   job.ID,
		})
	})
	if err != nil {
		h.errors.HandleError(c, err)
		return
	}
	c.JSON(http.StatusCreated, job)
}
