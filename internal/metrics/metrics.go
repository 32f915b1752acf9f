// Package metrics exposes Prometheus instrumentation for decision cycles.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	SymbolsScanned = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_symbols_scanned_total",
		Help: "Symbols scored, by cycle cadence.",
	}, []string{"cadence"})

	ScanErrors = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_scan_errors_total",
		Help: "Symbols that degraded to a scan-error result.",
	}, []string{"cadence"})

	AlertsSent = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_alerts_sent_total",
		Help: "Alerts delivered, by kind.",
	}, []string{"kind"})

	CyclesSkipped = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "advisor_cycles_skipped_total",
		Help: "Cycles skipped because the previous run of the same cadence was still active.",
	}, []string{"cadence"})

	CycleDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "advisor_cycle_duration_seconds",
		Help:    "Wall time of a full decision cycle.",
		Buckets: prometheus.ExponentialBuckets(0.5, 2, 10),
	}, []string{"cadence"})
)

// Serve starts the Prometheus endpoint on addr. Blocks; run in a goroutine.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	log.Info().Str("addr", addr).Msg("metrics listener starting")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("metrics listener stopped")
	}
}
