// Package metrics provides Prometheus instrumentation for the mapforge
// server. The compiler itself stays metrics-free; the server records
// outcomes around it.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus collectors used by the server.
type Metrics struct {
	// Compilation metrics
	CompilationsTotal *prometheus.CounterVec
	CompileDuration   *prometheus.HistogramVec
	PropertiesSkipped prometheus.Counter

	// HTTP request metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// New creates and registers all collectors on the default registerer.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith creates the collectors and registers them on reg. Tests pass a
// private registry to keep runs independent.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	m := &Metrics{}

	m.CompilationsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mapforge_compilations_total",
			Help: "Total number of mapping compilations",
		},
		[]string{"entity", "status"},
	)

	m.CompileDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mapforge_compile_duration_seconds",
			Help:    "Duration of mapping compilations in seconds",
			Buckets: []float64{.0001, .0005, .001, .005, .01, .025, .05, .1, .25, .5, 1},
		},
		[]string{"entity"},
	)

	m.PropertiesSkipped = factory.NewCounter(
		prometheus.CounterOpts{
			Name: "mapforge_properties_skipped_total",
			Help: "Total number of properties dropped from mappings with a warning",
		},
	)

	m.HTTPRequestsTotal = factory.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mapforge_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"route", "status"},
	)

	m.HTTPRequestDuration = factory.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mapforge_http_request_duration_seconds",
			Help:    "Duration of HTTP requests in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"route"},
	)

	return m
}

// RecordCompilation records one compilation attempt with its outcome.
func (m *Metrics) RecordCompilation(entity string, status string, duration time.Duration) {
	m.CompilationsTotal.WithLabelValues(entity, status).Inc()
	m.CompileDuration.WithLabelValues(entity).Observe(duration.Seconds())
}

// AddPropertiesSkipped bumps the skipped-property counter by n.
func (m *Metrics) AddPropertiesSkipped(n int) {
	if n <= 0 {
		return
	}

	m.PropertiesSkipped.Add(float64(n))
}

// RecordHTTPRequest records one handled HTTP request.
func (m *Metrics) RecordHTTPRequest(route string, status string, duration time.Duration) {
	m.HTTPRequestsTotal.WithLabelValues(route, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(route).Observe(duration.Seconds())
}
