package metrics

import "github.com/prometheus/client_golang/prometheus"

// Search pipeline Prometheus metrics.
var (
	RoutingDecisionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ingredix",
			Name:      "routing_decisions_total",
			Help:      "Routing decisions by search mode",
		},
		[]string{"mode"},
	)

	CollectionSearchFailuresTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ingredix",
			Name:      "collection_search_failures_total",
			Help:      "Non-fatal per-collection search failures",
		},
		[]string{"collection"},
	)

	MergeDedupDropsTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "ingredix",
			Name:      "merge_dedup_drops_total",
			Help:      "Catalog duplicates dropped in favor of in-stock copies",
		},
	)
)

var searchMetricsRegistered bool

// RegisterSearchMetrics registers Prometheus search metrics. Must be called once from main.
func RegisterSearchMetrics() {
	if searchMetricsRegistered {
		return
	}
	prometheus.MustRegister(RoutingDecisionsTotal)
	prometheus.MustRegister(CollectionSearchFailuresTotal)
	prometheus.MustRegister(MergeDedupDropsTotal)
	searchMetricsRegistered = true
}
