// ABOUTME: Prometheus collectors for phr.
// ABOUTME: Counts API requests, added records, rendered reports and classifications.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "phr"

// Metrics holds the collectors on a private registry.
// All methods are safe to call on a nil *Metrics.
type Metrics struct {
	registry *prometheus.Registry

	requests        *prometheus.CounterVec
	requestDuration *prometheus.HistogramVec
	recordsAdded    *prometheus.CounterVec
	reports         *prometheus.CounterVec
	classifications *prometheus.CounterVec
}

// New creates Metrics with Go runtime and process collectors registered.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	f := promauto.With(reg)

	return &Metrics{
		registry: reg,
		requests: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "http_requests_total",
			Help:      "HTTP API requests by route, method and status code.",
		}, []string{"route", "method", "status"}),
		requestDuration: f.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "http_request_duration_seconds",
			Help:      "HTTP API request latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method"}),
		recordsAdded: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "records_added_total",
			Help:      "Health records appended, by source.",
		}, []string{"source"}),
		reports: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reports_rendered_total",
			Help:      "Reports rendered, by format.",
		}, []string{"format"}),
		classifications: f.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "classifications_total",
			Help:      "Readings classified, by metric and status.",
		}, []string{"metric", "status"}),
	}
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.NotFoundHandler()
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.requestDuration.WithLabelValues(route, method).Observe(d.Seconds())
}

// RecordAdded counts an appended record.
func (m *Metrics) RecordAdded(source string) {
	if m == nil {
		return
	}
	m.recordsAdded.WithLabelValues(source).Inc()
}

// ReportRendered counts a rendered report.
func (m *Metrics) ReportRendered(format string) {
	if m == nil {
		return
	}
	m.reports.WithLabelValues(format).Inc()
}

// Classified counts one classified reading.
func (m *Metrics) Classified(metric, status string) {
	if m == nil {
		return
	}
	m.classifications.WithLabelValues(metric, status).Inc()
}
