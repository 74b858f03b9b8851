package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initRunMetrics() {
	r.RunsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshplan_runs_total",
			Help: "Total number of pipeline runs by health status",
		},
		[]string{"status"},
	)

	r.RunDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "meshplan_run_duration_seconds",
			Help:    "Pipeline run duration in seconds",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		},
	)

	r.DecisionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshplan_decisions_total",
			Help: "Routing decisions emitted, by verdict",
		},
		[]string{"accepted"},
	)

	r.ValidationIssuesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshplan_validation_issues_total",
			Help: "Snapshot validation issues, by code",
		},
		[]string{"code"},
	)

	r.DriftObservations = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "meshplan_drift_observations_total",
			Help: "Drift observations, by classification",
		},
		[]string{"drift"},
	)

	r.HealthScore = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "meshplan_health_score",
			Help: "Mesh health score of the most recent run",
		},
	)
}
