package server

import (
	"net/http"
	"strconv"
	"time"

	prom "github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the preview server's Prometheus instruments on a private
// registry so tests can run multiple servers without collisions.
type Metrics struct {
	registry      *prom.Registry
	httpRequests  *prom.CounterVec
	pagesRendered prom.Gauge
	buildDuration prom.Histogram
	buildOutcomes *prom.CounterVec
}

// NewMetrics constructs and registers the server metrics.
func NewMetrics(reg *prom.Registry) *Metrics {
	if reg == nil {
		reg = prom.NewRegistry()
	}
	m := &Metrics{registry: reg}
	m.httpRequests = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "mdsite",
		Name:      "http_requests_total",
		Help:      "Requests served by the preview server",
	}, []string{"code"})
	m.pagesRendered = prom.NewGauge(prom.GaugeOpts{
		Namespace: "mdsite",
		Name:      "pages_rendered",
		Help:      "Page count of the most recent successful build",
	})
	m.buildDuration = prom.NewHistogram(prom.HistogramOpts{
		Namespace: "mdsite",
		Name:      "build_duration_seconds",
		Help:      "Total build duration",
		Buckets:   prom.DefBuckets,
	})
	m.buildOutcomes = prom.NewCounterVec(prom.CounterOpts{
		Namespace: "mdsite",
		Name:      "build_outcomes_total",
		Help:      "Build outcomes by final status",
	}, []string{"outcome"})
	reg.MustRegister(m.httpRequests, m.pagesRendered, m.buildDuration, m.buildOutcomes)
	return m
}

// RecordBuild records one build outcome. pages is ignored unless the build
// succeeded.
func (m *Metrics) RecordBuild(outcome string, elapsed time.Duration, pages int) {
	m.buildOutcomes.WithLabelValues(outcome).Inc()
	m.buildDuration.Observe(elapsed.Seconds())
	if outcome == "success" {
		m.pagesRendered.Set(float64(pages))
	}
}

// Handler exposes the registry in Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// statusRecorder captures the response code for the request counter.
type statusRecorder struct {
	http.ResponseWriter
	code int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.code = code
	r.ResponseWriter.WriteHeader(code)
}

func (m *Metrics) instrument(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rec := &statusRecorder{ResponseWriter: w, code: http.StatusOK}
		next.ServeHTTP(rec, r)
		m.httpRequests.WithLabelValues(strconv.Itoa(rec.code)).Inc()
	})
}
