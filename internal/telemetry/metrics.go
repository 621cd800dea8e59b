package telemetry

import "github.com/prometheus/client_golang/prometheus"

var PodsScheduledTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "orbit",
		Subsystem: "scheduler",
		Name:      "pods_scheduled_total",
		Help:      "Total number of pods successfully placed on a node, by scheduling policy.",
	},
	[]string{"policy"},
)

var SchedulingFailuresTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "orbit",
		Subsystem: "scheduler",
		Name:      "scheduling_failures_total",
		Help:      "Total number of failed scheduling attempts, by error code.",
	},
	[]string{"reason"},
)

var PodsPreemptedTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "orbit",
		Subsystem: "scheduler",
		Name:      "pods_preempted_total",
		Help:      "Total number of pods evicted to make room for a higher-priority pod.",
	},
)

var NodesByStatus = prometheus.NewGaugeVec(
	prometheus.GaugeOpts{
		Namespace: "orbit",
		Subsystem: "nodes",
		Name:      "status",
		Help:      "Current number of nodes in each status.",
	},
	[]string{"status"},
)

var NodeUnhealthyTransitionsTotal = prometheus.NewCounter(
	prometheus.CounterOpts{
		Namespace: "orbit",
		Subsystem: "nodes",
		Name:      "unhealthy_transitions_total",
		Help:      "Total number of nodes transitioning to unhealthy due to a missed heartbeat.",
	},
)

var NamespaceQuotaRejectionsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "orbit",
		Subsystem: "namespace",
		Name:      "quota_rejections_total",
		Help:      "Total number of resource allocations rejected by namespace quota, by axis.",
	},
	[]string{"namespace", "axis"},
)

var SecretOperationsTotal = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: "orbit",
		Subsystem: "secrets",
		Name:      "operations_total",
		Help:      "Total number of secret manager operations, by operation and outcome.",
	},
	[]string{"operation", "outcome"},
)

// All returns every orbit-specific metric for registration.
func All() []prometheus.Collector {
	return []prometheus.Collector{
		PodsScheduledTotal,
		SchedulingFailuresTotal,
		PodsPreemptedTotal,
		NodesByStatus,
		NodeUnhealthyTransitionsTotal,
		NamespaceQuotaRejectionsTotal,
		SecretOperationsTotal,
	}
}
