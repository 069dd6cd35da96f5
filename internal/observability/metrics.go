// Package observability provides Prometheus metrics for monitoring.
package observability

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds all Prometheus metrics for the application. Each
// instance carries its own registry, so tests can build as many as
// they need without duplicate-registration panics.
type Metrics struct {
	registry *prometheus.Registry

	// Sync metrics
	SyncPassesTotal  *prometheus.CounterVec
	SyncRoundsTotal  prometheus.Counter
	RowsStoredTotal  *prometheus.CounterVec
	SwapsRowsSkipped prometheus.Counter
	SyncPassDuration prometheus.Histogram

	// Health metrics
	LastSuccessfulSync prometheus.Gauge
	WatermarkTimestamp prometheus.Gauge

	// HTTP metrics
	HTTPRequestsTotal   *prometheus.CounterVec
	HTTPRequestDuration *prometheus.HistogramVec
}

// NewMetrics creates a Metrics instance with all metrics registered.
func NewMetrics(namespace string) *Metrics {
	if namespace == "" {
		namespace = "thorchain_history"
	}

	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,

		SyncPassesTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "passes_total",
			Help:      "Total number of sync passes by status",
		}, []string{"status"}),
		SyncRoundsTotal: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "rounds_total",
			Help:      "Total number of fetch-and-store rounds",
		}),
		RowsStoredTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "rows_stored_total",
			Help:      "Total number of history rows stored by series",
		}, []string{"series"}),
		SwapsRowsSkipped: factory.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "swaps_rows_skipped_total",
			Help:      "Total number of swaps rows skipped on insert failure",
		}),
		SyncPassDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "sync",
			Name:      "pass_duration_seconds",
			Help:      "Sync pass duration in seconds",
			Buckets:   []float64{1, 5, 10, 30, 60, 120, 300, 600},
		}),

		LastSuccessfulSync: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "last_successful_sync_timestamp",
			Help:      "Unix timestamp of the last completed sync pass",
		}),
		WatermarkTimestamp: factory.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "health",
			Name:      "watermark_timestamp",
			Help:      "Unix timestamp of the stored depth/price watermark",
		}),

		HTTPRequestsTotal: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests by path and status",
		}, []string{"path", "status"}),
		HTTPRequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request duration in seconds",
			Buckets:   prometheus.DefBuckets,
		}, []string{"path"}),
	}
}

// Handler returns the HTTP handler serving this instance's registry.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// RecordPass records the outcome of one sync pass.
func (m *Metrics) RecordPass(status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.SyncPassesTotal.WithLabelValues(status).Inc()
	m.SyncPassDuration.Observe(elapsed.Seconds())
	if status == "ok" {
		m.LastSuccessfulSync.SetToCurrentTime()
	}
}

// RecordRows records stored row counts for one pass.
func (m *Metrics) RecordRows(depths, earnings, runePool, swaps, swapsSkipped int) {
	if m == nil {
		return
	}
	m.RowsStoredTotal.WithLabelValues("depth").Add(float64(depths))
	m.RowsStoredTotal.WithLabelValues("earnings").Add(float64(earnings))
	m.RowsStoredTotal.WithLabelValues("runepool").Add(float64(runePool))
	m.RowsStoredTotal.WithLabelValues("swaps").Add(float64(swaps))
	m.SwapsRowsSkipped.Add(float64(swapsSkipped))
}

// RecordRound counts one fetch-and-store round.
func (m *Metrics) RecordRound() {
	if m == nil {
		return
	}
	m.SyncRoundsTotal.Inc()
}

// RecordWatermark updates the watermark gauge.
func (m *Metrics) RecordWatermark(at time.Time) {
	if m == nil {
		return
	}
	m.WatermarkTimestamp.Set(float64(at.Unix()))
}

// RecordHTTPRequest records one served request.
func (m *Metrics) RecordHTTPRequest(path, status string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.HTTPRequestsTotal.WithLabelValues(path, status).Inc()
	m.HTTPRequestDuration.WithLabelValues(path).Observe(elapsed.Seconds())
}
