package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initSchedulingMetrics() {
	r.PartialScansTotal = promauto.With(r.registry).NewCounter(
		prometheus.CounterOpts{
			Name: "meshplan_scheduling_partial_scans_total",
			Help: "Reachability scans cut short by budget or cancellation",
		},
	)

	r.ReachabilityVisits = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "meshplan_scheduling_visits",
			Help:    "BFS node visits spent per reachability scan",
			Buckets: prometheus.ExponentialBuckets(10, 10, 6),
		},
	)

	r.BatchSize = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "meshplan_batch_size",
			Help:    "Snapshots per batch run",
			Buckets: []float64{1, 2, 5, 10, 25, 50, 100},
		},
	)
}
