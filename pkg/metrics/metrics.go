package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/amoylab/hireloop/internal/common/config"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

type Metrics struct {
	registry   *prometheus.Registry
	namespace  string
	httpReqCnt *prometheus.CounterVec
	httpDur    *prometheus.HistogramVec
	httpInfl   *prometheus.GaugeVec
	scopeCnt   *prometheus.CounterVec
	scoreCnt   *prometheus.CounterVec
	scoreDur   *prometheus.HistogramVec
}

func New(cfg config.MetricsConfig) *Metrics {
	ns := cfg.Namespace
	r := prometheus.NewRegistry()
	// Register standard process and Go collectors
	r.MustRegister(collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	r.MustRegister(collectors.NewGoCollector())

	httpReqCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "http_requests_total"}, []string{"method", "route", "status"})
	httpDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "http_request_duration_seconds", Buckets: cfg.Buckets}, []string{"method", "route", "status"})
	httpInfl := prometheus.NewGaugeVec(prometheus.GaugeOpts{Namespace: ns, Name: "http_requests_inflight"}, []string{"route"})
	r.MustRegister(httpReqCnt, httpDur, httpInfl)

	// outcome: granted, fallback, forbidden, not_found, denied
	scopeCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "tenant_scope_resolutions_total"}, []string{"outcome"})
	r.MustRegister(scopeCnt)

	scoreCnt := prometheus.NewCounterVec(prometheus.CounterOpts{Namespace: ns, Name: "scoring_evaluations_total"}, []string{"mode", "tier"})
	scoreDur := prometheus.NewHistogramVec(prometheus.HistogramOpts{Namespace: ns, Name: "scoring_duration_seconds", Buckets: cfg.Buckets}, []string{"mode"})
	r.MustRegister(scoreCnt, scoreDur)

	return &Metrics{
		registry:   r,
		namespace:  ns,
		httpReqCnt: httpReqCnt,
		httpDur:    httpDur,
		httpInfl:   httpInfl,
		scopeCnt:   scopeCnt,
		scoreCnt:   scoreCnt,
		scoreDur:   scoreDur,
	}
}

// ScopeResolved counts one tenant scope resolution by outcome
func (m *Metrics) ScopeResolved(outcome string) {
	if m == nil {
		return
	}
	m.scopeCnt.WithLabelValues(outcome).Inc()
}

// ScoreDone records one evaluation
func (m *Metrics) ScoreDone(mode, tier string, since time.Time) {
	if m == nil {
		return
	}
	m.scoreCnt.WithLabelValues(mode, tier).Inc()
	m.scoreDur.WithLabelValues(mode).Observe(time.Since(since).Seconds())
}

func (m *Metrics) Middleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		route := c.FullPath()
		if route == "" {
			route = "unmatched"
		}
		m.httpInfl.WithLabelValues(route).Inc()
		start := time.Now()
		c.Next()
		status := strconv.Itoa(c.Writer.Status())
		m.httpReqCnt.WithLabelValues(c.Request.Method, route, status).Inc()
		m.httpDur.WithLabelValues(c.Request.Method, route, status).Observe(time.Since(start).Seconds())
		m.httpInfl.WithLabelValues(route).Dec()
	}
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Registry exposes the underlying registry, mainly for tests
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}
