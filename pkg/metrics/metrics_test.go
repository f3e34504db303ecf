package metrics

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/amoylab/hireloop/internal/common/config"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, m *Metrics) string {
	t.Helper()
	rec := httptest.NewRecorder()
	m.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestMetrics_MiddlewareCountsRoutes(t *testing.T) {
	gin.SetMode(gin.TestMode)
	m := New(config.MetricsConfig{Namespace: "hl"})

	r := gin.New()
	r.Use(m.Middleware())
	r.GET("/api/jobs/:id", func(c *gin.Context) { c.Status(http.StatusNoContent) })

	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/jobs/42", nil))
	r.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/nowhere", nil))

	body := scrape(t, m)
	assert.Contains(t, body, `hl_http_requests_total{method="GET",route="/api/jobs/:id",status="204"} 1`)
	assert.Contains(t, body, `hl_http_requests_total{method="GET",route="unmatched",status="404"} 1`)
}

func TestMetrics_DomainCounters(t *testing.T) {
	m := New(config.MetricsConfig{Namespace: "hl"})
	m.ScopeResolved("granted")
	m.ScopeResolved("granted")
	m.ScopeResolved("forbidden")
	m.ScoreDone("exec", "A", time.Now())

	body := scrape(t, m)
	assert.Contains(t, body, `hl_tenant_scope_resolutions_total{outcome="granted"} 2`)
	assert.Contains(t, body, `hl_tenant_scope_resolutions_total{outcome="forbidden"} 1`)
	assert.Contains(t, body, `hl_scoring_evaluations_total{mode="exec",tier="A"} 1`)
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.ScopeResolved("granted")
		m.ScoreDone("exec", "A", time.Now())
	})
}
