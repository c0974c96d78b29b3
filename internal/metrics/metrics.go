// Package metrics exposes Prometheus instrumentation for the scan pipeline.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds all Prometheus metrics for the scan-and-alert engine.
// Components accept a nil *Metrics and skip instrumentation, which keeps
// unit tests free of the global registry.
type Metrics struct {
	ScansTotal       prometheus.Counter
	ScanDuration     prometheus.Histogram
	SymbolsScanned   prometheus.Counter
	DataUnavailable  prometheus.Counter
	FetchDuration    prometheus.Histogram
	AlertsTotal      *prometheus.CounterVec // labels: kind
	AlertsSuppressed prometheus.Counter
	DispatchFailures prometheus.Counter
}

// NewMetrics registers and returns all Prometheus metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		ScansTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quantterminal_scans_total",
			Help: "Total watchlist scans executed",
		}),
		ScanDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quantterminal_scan_duration_seconds",
			Help:    "Wall-clock duration of a full watchlist scan",
			Buckets: prometheus.DefBuckets,
		}),
		SymbolsScanned: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quantterminal_symbols_scanned_total",
			Help: "Symbols evaluated across all scans",
		}),
		DataUnavailable: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quantterminal_data_unavailable_total",
			Help: "Symbols skipped because the price series was empty or too short",
		}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "quantterminal_fetch_duration_seconds",
			Help:    "Price history fetch latency per symbol",
			Buckets: prometheus.DefBuckets,
		}),
		AlertsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "quantterminal_alerts_total",
			Help: "Alert events emitted (by kind)",
		}, []string{"kind"}),
		AlertsSuppressed: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quantterminal_alerts_suppressed_total",
			Help: "Alert events suppressed by the per-symbol cooldown",
		}),
		DispatchFailures: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "quantterminal_dispatch_failures_total",
			Help: "Notification dispatch attempts that failed",
		}),
	}

	prometheus.MustRegister(
		m.ScansTotal,
		m.ScanDuration,
		m.SymbolsScanned,
		m.DataUnavailable,
		m.FetchDuration,
		m.AlertsTotal,
		m.AlertsSuppressed,
		m.DispatchFailures,
	)

	return m
}
