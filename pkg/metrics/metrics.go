// Package metrics counts what a setup run did, in Prometheus form. A run is
// a short-lived process, so metrics are written to a node_exporter textfile
// collector file at the end of the run instead of being served.
package metrics

import (
	"time"

	"github.com/arthur-debert/macsetup/pkg/types"
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "macsetup"

// Metrics holds the run collectors. The zero value and nil are no-ops.
type Metrics struct {
	items       *prometheus.CounterVec
	retries     *prometheus.CounterVec
	runs        *prometheus.CounterVec
	runDuration *prometheus.GaugeVec
	lastRun     prometheus.Gauge

	registry *prometheus.Registry
}

// New creates Metrics registered on a private registry.
func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		items: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "items_total",
				Help:      "Install items processed, by category and outcome",
			},
			[]string{"category", "status"},
		),
		retries: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "retries_total",
				Help:      "Retries scheduled after transient failures",
			},
			[]string{"category"},
		),
		runs: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "runs_total",
				Help:      "Setup runs, by terminal status",
			},
			[]string{"status"},
		),
		runDuration: prometheus.NewGaugeVec(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "run_duration_seconds",
				Help:      "Duration of the last setup run",
			},
			[]string{"status"},
		),
		lastRun: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Namespace: namespace,
				Name:      "last_run_timestamp_seconds",
				Help:      "Unix time the last setup run finished",
			},
		),
	}
	registry.MustRegister(m.items, m.retries, m.runs, m.runDuration, m.lastRun)
	return m
}

// ObserveItem counts one item outcome.
func (m *Metrics) ObserveItem(c types.Category, status types.OutcomeStatus) {
	if m == nil || m.registry == nil {
		return
	}
	m.items.WithLabelValues(string(c), string(status)).Inc()
}

// ObserveRetry counts one scheduled retry.
func (m *Metrics) ObserveRetry(c types.Category) {
	if m == nil || m.registry == nil {
		return
	}
	m.retries.WithLabelValues(string(c)).Inc()
}

// ObserveRun records the terminal status and duration of a run.
func (m *Metrics) ObserveRun(status types.RunStatus, d time.Duration) {
	if m == nil || m.registry == nil {
		return
	}
	m.runs.WithLabelValues(string(status)).Inc()
	m.runDuration.WithLabelValues(string(status)).Set(d.Seconds())
	m.lastRun.SetToCurrentTime()
}

// Registry exposes the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry {
	if m == nil {
		return nil
	}
	return m.registry
}

// WriteTextfile writes all metrics to path atomically, in the text format
// the node_exporter textfile collector reads. An empty path is a no-op.
func (m *Metrics) WriteTextfile(path string) error {
	if m == nil || m.registry == nil || path == "" {
		return nil
	}
	return prometheus.WriteToTextfile(path, m.registry)
}
