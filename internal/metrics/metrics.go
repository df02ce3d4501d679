// Package metrics holds the Prometheus collectors for MoodFlicks.
//
// Collectors are registered on the default registry at package init via
// promauto. Components record through the helpers below rather than touching
// the vectors directly.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "moodflicks"

var (
	// Progression
	PointsAwarded = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "points_awarded_total",
			Help:      "Total points awarded, by reason",
		},
		[]string{"reason"}, // "watch", "rate", "share", "mood", "quiz", "random", "bonus"
	)

	AchievementsUnlocked = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "achievements_unlocked_total",
			Help:      "Total achievements unlocked, by achievement code",
		},
		[]string{"achievement"},
	)

	GuardRejections = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "guard_rejections_total",
			Help:      "Operations refused by a duplicate or re-entrancy guard",
		},
		[]string{"operation"},
	)

	// Persistence
	PersistFailures = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "persist_failures_total",
			Help:      "Failed medium reads and writes absorbed by the key/value store",
		},
		[]string{"op"}, // "load", "save", "encode", "decode"
	)

	// Catalog
	CatalogRequests = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "catalog_requests_total",
			Help:      "Movie catalog requests, by endpoint and outcome",
		},
		[]string{"endpoint", "outcome"}, // outcome: "ok", "not_found", "error", "open"
	)

	CatalogDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "catalog_request_duration_seconds",
			Help:      "Duration of movie catalog requests in seconds",
			Buckets:   prometheus.DefBuckets,
		},
		[]string{"endpoint"},
	)

	CatalogCircuitState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Namespace: namespace,
			Name:      "catalog_circuit_state",
			Help:      "Catalog circuit breaker state (0=closed, 1=half-open, 2=open)",
		},
	)
)

// RecordPoints counts an award. Non-positive amounts are ignored.
func RecordPoints(reason string, amount int) {
	if amount <= 0 {
		return
	}
	PointsAwarded.WithLabelValues(reason).Add(float64(amount))
}

// RecordAchievement counts an unlocked achievement.
func RecordAchievement(code string) {
	AchievementsUnlocked.WithLabelValues(code).Inc()
}

// RecordGuardRejection counts an operation refused by a guard.
func RecordGuardRejection(operation string) {
	GuardRejections.WithLabelValues(operation).Inc()
}

// RecordPersistFailure counts an absorbed persistence failure.
func RecordPersistFailure(op string) {
	PersistFailures.WithLabelValues(op).Inc()
}

// RecordCatalogRequest records the outcome and latency of a catalog call.
func RecordCatalogRequest(endpoint, outcome string, d time.Duration) {
	CatalogRequests.WithLabelValues(endpoint, outcome).Inc()
	CatalogDuration.WithLabelValues(endpoint).Observe(d.Seconds())
}

// SetCircuitState publishes the catalog breaker state.
func SetCircuitState(state int) {
	CatalogCircuitState.Set(float64(state))
}
