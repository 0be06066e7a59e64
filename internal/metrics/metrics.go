// Package metrics exposes Prometheus instrumentation and the health
// endpoint.
package metrics

import (
	"context"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"
)

var (
	// WagersPlaced counts accepted wager placements.
	WagersPlaced = promauto.NewCounter(prometheus.CounterOpts{
		Name: "riftbook_wagers_placed_total",
		Help: "Number of wagers placed.",
	})

	// WagersResolved counts wagers settled to won or lost.
	WagersResolved = promauto.NewCounter(prometheus.CounterOpts{
		Name: "riftbook_wagers_resolved_total",
		Help: "Number of wagers settled.",
	})

	// ReconcileTicks counts reconciliation loop ticks.
	ReconcileTicks = promauto.NewCounter(prometheus.CounterOpts{
		Name: "riftbook_reconcile_ticks_total",
		Help: "Number of reconciliation ticks executed.",
	})

	// ReconcileErrors counts per-game-group reconciliation failures.
	ReconcileErrors = promauto.NewCounter(prometheus.CounterOpts{
		Name: "riftbook_reconcile_errors_total",
		Help: "Number of reconciliation group failures.",
	})

	// SettlementsPublished counts settlement events handed to the notifier.
	SettlementsPublished = promauto.NewCounter(prometheus.CounterOpts{
		Name: "riftbook_settlements_published_total",
		Help: "Number of settlement events published.",
	})
)

// Pinger is anything with a health-checkable connection.
type Pinger interface {
	HealthCheck(ctx context.Context) error
}

// Serve starts the metrics/health HTTP server. It blocks, so run it in a
// goroutine.
func Serve(addr string, db Pinger) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	mux.HandleFunc("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		ctx, cancel := context.WithTimeout(context.Background(), 500*time.Millisecond)
		defer cancel()
		if err := db.HealthCheck(ctx); err != nil {
			http.Error(w, "db", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	log.Info().Str("addr", addr).Msg("Metrics server listening")
	if err := http.ListenAndServe(addr, mux); err != nil {
		log.Error().Err(err).Msg("Metrics server stopped")
	}
}
