package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the sync collectors on a private registry so several
// orchestrators (tests, the API server) can coexist in one process.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	Registry *prometheus.Registry

	RowsTotal        *prometheus.CounterVec
	RemoteCallsTotal *prometheus.CounterVec
	RunsTotal        *prometheus.CounterVec
	RunDuration      prometheus.Histogram
	LastRunTimestamp prometheus.Gauge
}

func NewMetrics() *Metrics {
	m := &Metrics{
		Registry: prometheus.NewRegistry(),
		RowsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hoodsync_rows_total",
				Help: "Feed rows processed, by outcome",
			},
			[]string{"outcome"},
		),
		RemoteCallsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hoodsync_remote_calls_total",
				Help: "Hood API calls, by function and result",
			},
			[]string{"function", "result"},
		),
		RunsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "hoodsync_runs_total",
				Help: "Sync runs, by final status",
			},
			[]string{"status"},
		),
		RunDuration: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "hoodsync_run_duration_seconds",
				Help:    "Wall time of a sync run",
				Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
			},
		),
		LastRunTimestamp: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "hoodsync_last_run_timestamp_seconds",
				Help: "Unix time the last run finished",
			},
		),
	}

	m.Registry.MustRegister(m.RowsTotal, m.RemoteCallsTotal, m.RunsTotal, m.RunDuration, m.LastRunTimestamp)
	return m
}

func (m *Metrics) ObserveRow(outcome string) {
	if m == nil {
		return
	}
	m.RowsTotal.WithLabelValues(outcome).Inc()
}

func (m *Metrics) ObserveRemoteCall(function, result string) {
	if m == nil {
		return
	}
	m.RemoteCallsTotal.WithLabelValues(function, result).Inc()
}

func (m *Metrics) ObserveRun(status string, took time.Duration) {
	if m == nil {
		return
	}
	m.RunsTotal.WithLabelValues(status).Inc()
	m.RunDuration.Observe(took.Seconds())
	m.LastRunTimestamp.SetToCurrentTime()
}

// Handler exposes the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return promhttp.Handler()
	}
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
