// Package metrics holds the Prometheus instruments of the reconciler.
//
// All methods are safe on a nil *Metrics, which records nothing.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "transfer_reconciler"

// Metrics holds all Prometheus metrics for the service.
type Metrics struct {
	// Registry owns these metrics and backs the /metrics endpoint.
	Registry *prometheus.Registry

	reconcileRuns     *prometheus.CounterVec
	reconcileDuration prometheus.Histogram
	transfersDetected *prometheus.GaugeVec
	skippedMalformed  prometheus.Gauge
	overrides         *prometheus.CounterVec
	httpRequests      *prometheus.CounterVec
	httpDuration      *prometheus.HistogramVec
}

// New creates a dedicated registry and registers all metrics in it, together
// with the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	factory := promauto.With(reg)

	return &Metrics{
		Registry: reg,

		reconcileRuns: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "reconciliation_runs_total",
				Help:      "Full reconciliation passes by outcome.",
			},
			[]string{"status"},
		),
		reconcileDuration: factory.NewHistogram(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "reconciliation_duration_seconds",
				Help:      "Duration of full reconciliation passes.",
				Buckets:   prometheus.DefBuckets,
			},
		),
		transfersDetected: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "transfers_detected",
				Help:      "Transfers found by the last successful reconciliation, by type.",
			},
			[]string{"transfer_type"},
		),
		skippedMalformed: factory.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "transactions_skipped_malformed",
				Help:      "Records the last reconciliation could not consider for pairing.",
			},
		),
		overrides: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "inclusion_overrides_total",
				Help:      "Inclusion overrides applied to transfers, by decision.",
			},
			[]string{"decision"},
		),
		httpRequests: factory.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "http_requests_total",
				Help:      "HTTP requests by method, route and status code.",
			},
			[]string{"method", "route", "status"},
		),
		httpDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Name:      "http_request_duration_seconds",
				Help:      "HTTP request latency by method and route.",
				Buckets:   prometheus.DefBuckets,
			},
			[]string{"method", "route"},
		),
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{Registry: m.Registry})
}

// ObserveReconciliation records one reconciliation pass.
func (m *Metrics) ObserveReconciliation(d time.Duration, err error) {
	if m == nil {
		return
	}
	status := "success"
	if err != nil {
		status = "error"
	}
	m.reconcileRuns.WithLabelValues(status).Inc()
	m.reconcileDuration.Observe(d.Seconds())
}

// SetDetected publishes the transfer counts of the last successful pass.
func (m *Metrics) SetDetected(user, self, skipped int) {
	if m == nil {
		return
	}
	m.transfersDetected.WithLabelValues("user").Set(float64(user))
	m.transfersDetected.WithLabelValues("self").Set(float64(self))
	m.skippedMalformed.Set(float64(skipped))
}

// IncrOverride counts an applied inclusion override.
func (m *Metrics) IncrOverride(include bool) {
	if m == nil {
		return
	}
	decision := "exclude"
	if include {
		decision = "include"
	}
	m.overrides.WithLabelValues(decision).Inc()
}

// ObserveHTTP records one served HTTP request.
func (m *Metrics) ObserveHTTP(method, route, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, status).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(d.Seconds())
}
