package metrics

import "github.com/prometheus/client_golang/prometheus"

// Record store and change event Prometheus metrics.
var (
	StoreOperationsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "speeches",
			Name:      "store_operations_total",
			Help:      "Total number of record store operations",
		},
		[]string{"operation", "status"}, // status: ok / not_found / error
	)

	StoreOperationDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "speeches",
			Name:      "store_operation_duration_seconds",
			Help:      "Record store operation duration in seconds",
			Buckets:   []float64{0.0005, 0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		},
		[]string{"operation"},
	)

	StoreSearchResults = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "speeches",
			Name:      "store_search_results",
			Help:      "Number of records returned by list and search operations",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		},
		[]string{"operation"},
	)

	EventsPublishedTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "speeches",
			Name:      "events_published_total",
			Help:      "Speech change events handed to the broker",
		},
		[]string{"type", "status"},
	)
)

var storeMetricsRegistered bool

// RegisterStoreMetrics registers store and event metrics. Must be called once from main.
func RegisterStoreMetrics() {
	if storeMetricsRegistered {
		return
	}
	prometheus.MustRegister(StoreOperationsTotal)
	prometheus.MustRegister(StoreOperationDuration)
	prometheus.MustRegister(StoreSearchResults)
	prometheus.MustRegister(EventsPublishedTotal)
	storeMetricsRegistered = true
}
