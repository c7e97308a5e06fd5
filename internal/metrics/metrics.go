// Package metrics exposes Prometheus collectors for the recommendation pipeline.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Recommendation outcomes.
const (
	OutcomeSuccess     = "success"
	OutcomeUnavailable = "unavailable"
	OutcomeGeneration  = "generation_failure"
	OutcomeParse       = "parse_failure"
	OutcomeUnexpected  = "unexpected_failure"
)

// Catalog lookup outcomes.
const (
	LookupHit   = "hit"
	LookupMiss  = "miss"
	LookupError = "error"
)

var (
	// RecommendationsTotal counts orchestration calls by outcome.
	RecommendationsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumina_recommendations_total",
			Help: "Total number of recommendation requests by outcome",
		},
		[]string{"outcome"},
	)

	// GenerationDuration tracks the latency of the generative model call.
	GenerationDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "lumina_generation_duration_seconds",
			Help:    "Duration of generative model calls in seconds",
			Buckets: []float64{0.25, 0.5, 1, 2, 4, 8, 16, 32},
		},
	)

	// CatalogLookupsTotal counts metadata lookups by source and outcome.
	CatalogLookupsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "lumina_catalog_lookups_total",
			Help: "Total number of catalog metadata lookups by source and outcome",
		},
		[]string{"source", "outcome"},
	)
)

func RecordRecommendation(outcome string) {
	RecommendationsTotal.WithLabelValues(outcome).Inc()
}

func RecordGeneration(d time.Duration) {
	GenerationDuration.Observe(d.Seconds())
}

func RecordLookup(source, outcome string) {
	CatalogLookupsTotal.WithLabelValues(source, outcome).Inc()
}
