// Package metrics registers the Prometheus collectors for the planning
// engine. All collectors are registered on the default registry and
// exposed through promhttp on /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// AutosaveRuns counts debounced persistence runs by outcome
	// ("ok", "error").
	AutosaveRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tripplanner",
		Name:      "autosave_runs_total",
		Help:      "Debounced itinerary save runs by outcome.",
	}, []string{"status"})

	// RecomputeRuns counts travel-time recomputation runs by outcome
	// ("ok", "unchanged", "skipped", "stale", "error").
	RecomputeRuns = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tripplanner",
		Name:      "travel_time_recompute_runs_total",
		Help:      "Travel-time recomputation runs by outcome.",
	}, []string{"status"})

	// BulkReplacements counts atomic itinerary replacements by trigger
	// and outcome.
	BulkReplacements = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tripplanner",
		Name:      "bulk_replacements_total",
		Help:      "Atomic itinerary replacements by trigger and outcome.",
	}, []string{"reason", "status"})

	// OpenSessions tracks the number of editing sessions currently held
	// in memory.
	OpenSessions = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "tripplanner",
		Name:      "open_sessions",
		Help:      "Editing sessions currently open.",
	})

	// HTTPRequests counts API requests by route and status class.
	HTTPRequests = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: "tripplanner",
		Name:      "http_requests_total",
		Help:      "API requests by route and status class.",
	}, []string{"route", "status"})
)
