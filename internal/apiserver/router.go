// Package apiserver assembles the HTTP surface of the recruiting API.
package apiserver

import (
	"net/http"

	"github.com/amoylab/hireloop/internal/apiserver/database"
	"github.com/amoylab/hireloop/internal/apiserver/handler"
	"github.com/amoylab/hireloop/internal/apiserver/identity"
	"github.com/amoylab/hireloop/internal/apiserver/middleware"
	"github.com/amoylab/hireloop/internal/auth/jwt"
	"github.com/amoylab/hireloop/internal/common/config"
	"github.com/amoylab/hireloop/internal/common/errorx"
	"github.com/amoylab/hireloop/internal/scoring"
	"github.com/amoylab/hireloop/internal/tenancy"
	"github.com/amoylab/hireloop/pkg/metrics"
	"github.com/gin-gonic/gin"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"
	"go.uber.org/zap"
)

// Deps are the collaborators the router is built from. Metrics may be nil.
type Deps struct {
	Config   *config.APIServerConfig
	DB       database.Database
	JWT      *jwt.Service
	Identity *identity.Provider
	Metrics  *metrics.Metrics
	Logger   *zap.Logger
}

// NewRouter builds the gin engine: health and metrics endpoints at the root
// and the tenant-scoped API under /api.
func NewRouter(d Deps) *gin.Engine {
	eh := errorx.NewErrorHandler(d.Logger)

	r := gin.New()
	r.Use(eh.RecoveryMiddleware())
	if d.Config.Tracing.Enabled {
		r.Use(otelgin.Middleware(d.Config.Tracing.ServiceName))
	}
	r.Use(middleware.AccessLog(d.Logger))
	if d.Metrics != nil {
		r.Use(d.Metrics.Middleware())
		r.GET(d.Config.Metrics.Path, gin.WrapH(d.Metrics.Handler()))
	}

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})

	api := r.Group("/api",
		middleware.JWTAuthMiddleware(d.JWT, eh),
		middleware.TenantScope(middleware.ScopeDeps{
			Principals: d.Identity,
			Resolver:   tenancy.NewResolver(d.Identity),
			DB:         d.DB,
			Config:     d.Config.Scope,
			Metrics:    d.Metrics,
			Errors:     eh,
		}),
	)

	h := handler.NewHandler(d.DB, d.Identity, scoring.NewService(d.Logger, d.Metrics), eh, d.Logger)
	h.Routes(api)
	return r
}
