// Package metrics exposes Prometheus collectors for the FishCast service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	RequestCounter = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_http_requests_total",
			Help: "Total HTTP requests by route, method and status.",
		},
		[]string{"route", "method", "status"},
	)

	ProviderCalls = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_provider_calls_total",
			Help: "Upstream provider calls by provider and outcome.",
		},
		[]string{"provider", "outcome"},
	)

	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fishcast_cache_lookups_total",
			Help: "Cache lookups by kind and result.",
		},
		[]string{"kind", "result"},
	)

	Scores = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fishcast_score",
			Help:    "Distribution of computed fishing scores.",
			Buckets: []float64{20, 40, 60, 80, 100},
		},
	)

	DegradedResults = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "fishcast_degraded_results_total",
			Help: "Results returned with the degraded fallback score.",
		},
	)
)

func init() {
	prometheus.MustRegister(RequestCounter, ProviderCalls, CacheLookups, Scores, DegradedResults)
}

// Outcome returns the label value for an upstream call result.
func Outcome(err error) string {
	if err != nil {
		return "error"
	}
	return "ok"
}
