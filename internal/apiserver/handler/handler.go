package handler

import (
	"github.com/amoylab/hireloop/internal/apiserver/database"
	"github.com/amoylab/hireloop/internal/apiserver/identity"
	"github.com/amoylab/hireloop/internal/apiserver/middleware"
	"github.com/amoylab/hireloop/internal/common/errorx"
	"github.com/amoylab/hireloop/internal/scoring"
	"github.com/amoylab/hireloop/internal/tenancy"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Handler serves the tenant-scoped recruiting API
type Handler struct {
	db       database.Database
	identity *identity.Provider
	scoring  *scoring.Service
	errors   *errorx.ErrorHandler
	logger   *zap.Logger
}

func NewHandler(db database.Database, id *identity.Provider, svc *scoring.Service, eh *errorx.ErrorHandler, logger *zap.Logger) *Handler {
	return &Handler{
		db:       db,
		identity: id,
		scoring:  svc,
		errors:   eh,
		logger:   logger.Named("handler"),
	}
}

// scoped returns the resolved scope and store set by middleware.TenantScope.
// It writes an error response and returns ok=false when they are missing.
func (h *Handler) scoped(c *gin.Context) (tenancy.Context, *database.TenantStore, bool) {
	scope, ok := middleware.ScopeFrom(c)
	if !ok {
		h.errors.HandleError(c, errorx.ErrUnauthorized)
		return tenancy.Context{}, nil, false
	}
	store, ok := middleware.StoreFrom(c)
	if !ok {
		h.errors.HandleError(c, errorx.ErrInternalServer)
		return tenancy.Context{}, nil, false
	}
	return scope, store, true
}

func (h *Handler) actorID(c *gin.Context) string {
	if claims, ok := middleware.ClaimsFrom(c); ok {
		return claims.UserID
	}
	return ""
}

// Routes registers the tenant-scoped endpoints on r. r must already run
// JWTAuthMiddleware and TenantScope.
func (h *Handler) Routes(r gin.IRoutes) {
	recruiter := middleware.RequireRole(tenancy.RoleRecruiter, h.errors)
	admin := middleware.RequireRole(tenancy.RoleAdmin, h.errors)

	r.GET("/tenant/context", h.GetTenantContext)
	r.GET("/tenant/scoring", h.GetScoringConfig)
	r.PUT("/tenant/scoring", admin, h.UpdateScoringConfig)

	r.GET("/jobs", h.ListJobs)
	r.POST("/jobs", recruiter, h.CreateJob)
	r.POST("/candidates", recruiter, h.CreateCandidate)
	r.POST("/applications", recruiter, h.CreateApplication)
	r.POST("/applications/:id/score", recruiter, h.ScoreApplication)
	r.GET("/applications/:id/scores", h.ListScores)
}
