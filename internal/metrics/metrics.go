// Package metrics exposes Prometheus instrumentation for the diagram server.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Result labels.
const (
	ResultSuccess = "success"
	ResultError   = "error"

	LoginAccepted  = "accepted"
	LoginRejected  = "rejected"
	LoginThrottled = "throttled"
)

// Registry holds all metrics for the application.
type Registry struct {
	RendersTotal       *prometheus.CounterVec
	RenderDuration     prometheus.Histogram
	RenderCacheHits    prometheus.Counter
	LoginAttemptsTotal *prometheus.CounterVec
	GraphNodes         prometheus.Gauge
	GraphEdges         prometheus.Gauge
	ActiveSessions     prometheus.Gauge

	registry *prometheus.Registry
}

// NewRegistry creates a registry with all metrics initialized.
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	r := &Registry{registry: reg}
	f := promauto.With(reg)

	r.RendersTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelgraph_renders_total",
			Help: "Total number of graph renders by result",
		},
		[]string{"result"},
	)

	r.RenderDuration = f.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "modelgraph_render_duration_seconds",
			Help:    "Time to build and render the graph document",
			Buckets: prometheus.DefBuckets,
		},
	)

	r.RenderCacheHits = f.NewCounter(
		prometheus.CounterOpts{
			Name: "modelgraph_render_cache_hits_total",
			Help: "Number of requests served from the cached document",
		},
	)

	r.LoginAttemptsTotal = f.NewCounterVec(
		prometheus.CounterOpts{
			Name: "modelgraph_login_attempts_total",
			Help: "Password submissions by outcome",
		},
		[]string{"result"},
	)

	r.GraphNodes = f.NewGauge(
		prometheus.GaugeOpts{
			Name: "modelgraph_graph_nodes",
			Help: "Number of nodes in the last rendered graph",
		},
	)

	r.GraphEdges = f.NewGauge(
		prometheus.GaugeOpts{
			Name: "modelgraph_graph_edges",
			Help: "Number of edges in the last rendered graph",
		},
	)

	r.ActiveSessions = f.NewGauge(
		prometheus.GaugeOpts{
			Name: "modelgraph_active_sessions",
			Help: "Number of live browser sessions",
		},
	)

	return r
}

// RecordRender records one render attempt.
func (r *Registry) RecordRender(err error, duration time.Duration, nodes, edges int) {
	r.RenderDuration.Observe(duration.Seconds())
	if err != nil {
		r.RendersTotal.WithLabelValues(ResultError).Inc()
		return
	}
	r.RendersTotal.WithLabelValues(ResultSuccess).Inc()
	r.GraphNodes.Set(float64(nodes))
	r.GraphEdges.Set(float64(edges))
}

// RecordLogin records a password submission outcome.
func (r *Registry) RecordLogin(result string) {
	r.LoginAttemptsTotal.WithLabelValues(result).Inc()
}

// Handler returns an HTTP handler serving the registry in the Prometheus format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{})
}
