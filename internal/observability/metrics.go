package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	// FallbacksTotal counts tolerant-call fallbacks by pipeline stage
	// (answer, skill, synthesis, health).
	FallbacksTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_fallbacks_total",
			Help: "Total number of fallback substitutions by pipeline stage",
		},
		[]string{"stage"},
	)

	// CacheEventsTotal counts analysis result cache hits and misses.
	CacheEventsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "analysis_cache_events_total",
			Help: "Analysis result cache hits and misses",
		},
		[]string{"event"},
	)

	// ProvidersDisabledTotal counts health-monitor disable transitions.
	ProvidersDisabledTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "providers_disabled_total",
			Help: "Providers disabled by the health monitor",
		},
		[]string{"provider"},
	)

	// OverallScoreHistogram tracks the distribution of overall scores.
	OverallScoreHistogram = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "analysis_overall_score",
			Help:    "Distribution of overall interview scores [0,100]",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
	)
)

var registerOnce sync.Once

// RegisterMetrics registers the pipeline collectors on the default registry.
// Safe to call more than once.
func RegisterMetrics() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			FallbacksTotal,
			CacheEventsTotal,
			ProvidersDisabledTotal,
			OverallScoreHistogram,
		)
	})
}
