package services

import "github.com/prometheus/client_golang/prometheus"

// lifecycleOps counts tenant lifecycle operations by operation and outcome.
// Cardinality stays bounded: six operations, two outcomes.
var lifecycleOps = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "tenant_lifecycle_operations_total",
		Help: "Total tenant lifecycle operations by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

func init() {
	prometheus.MustRegister(lifecycleOps)
}
