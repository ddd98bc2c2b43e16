// Package metrics exposes Prometheus instrumentation for ledger operations.
package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Ledger records outcomes, latency and transaction retries per operation.
// A nil *Ledger is valid and records nothing.
type Ledger struct {
	registry   *prometheus.Registry
	operations *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	retries    *prometheus.CounterVec
}

// New creates the collectors on a dedicated registry.
func New() *Ledger {
	m := &Ledger{
		registry: prometheus.NewRegistry(),
		operations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rewards",
			Subsystem: "ledger",
			Name:      "operations_total",
			Help:      "Ledger operations segmented by operation and outcome.",
		}, []string{"operation", "outcome"}),
		latency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "rewards",
			Subsystem: "ledger",
			Name:      "operation_duration_seconds",
			Help:      "Latency distribution for ledger operations, retries included.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation"}),
		retries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "rewards",
			Subsystem: "ledger",
			Name:      "tx_retries_total",
			Help:      "Transactions replayed after a serialization conflict or lock timeout.",
		}, []string{"operation"}),
	}
	m.registry.MustRegister(m.operations, m.latency, m.retries)
	return m
}

// Observe records the outcome label and duration of one operation.
func (m *Ledger) Observe(operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.operations.WithLabelValues(operation, outcome).Inc()
	m.latency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

// Retry counts one transaction replay.
func (m *Ledger) Retry(operation string) {
	if m == nil {
		return
	}
	m.retries.WithLabelValues(operation).Inc()
}

// Registry returns the registry holding the ledger collectors.
func (m *Ledger) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Ledger) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
