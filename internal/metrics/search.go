package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search Prometheus metrics.
var (
	SearchesTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "shelfrank",
			Name:      "searches_total",
			Help:      "Total number of search queries",
		},
		[]string{"mode", "outcome"}, // mode: "ranked" / "fallback"; outcome: "hit" / "empty"
	)

	SearchDuration = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shelfrank",
			Name:      "search_duration_seconds",
			Help:      "Search query duration in seconds",
			Buckets:   []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	SearchResultCount = prometheus.NewHistogram(
		prometheus.HistogramOpts{
			Namespace: "shelfrank",
			Name:      "search_result_count",
			Help:      "Number of results returned per search",
			Buckets:   []float64{0, 1, 2, 5, 10, 20, 50},
		},
	)

	CatalogItems = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "shelfrank",
			Name:      "catalog_items",
			Help:      "Number of items in the active catalog snapshot",
		},
	)

	TokenSavingsPercent = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "shelfrank",
			Name:      "catalog_token_savings_percent",
			Help:      "Estimated token reduction of the compact catalog projection",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(SearchesTotal)
	prometheus.MustRegister(SearchDuration)
	prometheus.MustRegister(SearchResultCount)
	prometheus.MustRegister(CatalogItems)
	prometheus.MustRegister(TokenSavingsPercent)
	searchMetricsRegistered = true
}

// ObserveSearch records one search query outcome.
func ObserveSearch(keywords, results int, elapsedSeconds float64) {
	mode := "ranked"
	if keywords == 0 {
		mode = "fallback"
	}
	outcome := "hit"
	if results == 0 {
		outcome = "empty"
	}
	SearchesTotal.WithLabelValues(mode, outcome).Inc()
	SearchDuration.Observe(elapsedSeconds)
	SearchResultCount.Observe(float64(results))
}
