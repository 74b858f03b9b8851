package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// Registry holds the pipeline's metrics on a private Prometheus registry
type Registry struct {
	// Run metrics
	RunsTotal             *prometheus.CounterVec
	RunDuration           prometheus.Histogram
	DecisionsTotal        *prometheus.CounterVec
	ValidationIssuesTotal *prometheus.CounterVec
	DriftObservations     *prometheus.CounterVec
	HealthScore           prometheus.Gauge

	// Scheduling metrics
	PartialScansTotal  prometheus.Counter
	ReachabilityVisits prometheus.Histogram
	BatchSize          prometheus.Histogram

	registry *prometheus.Registry
}

// RunObservation is what one pipeline run reports
type RunObservation struct {
	Status          string
	DurationSeconds float64
	Accepted        int
	Rejected        int
	IssueCodes      map[string]int
	DriftKinds      map[string]int
	HealthScore     float64
	PartialScan     bool
	Visits          int64
}

var (
	defaultRegistry *Registry
	once            sync.Once
)

// DefaultRegistry returns the process-wide registry
func DefaultRegistry() *Registry {
	once.Do(func() {
		defaultRegistry = NewRegistry()
	})
	return defaultRegistry
}

// NewRegistry creates a registry with every metric initialized
func NewRegistry() *Registry {
	r := &Registry{
		registry: prometheus.NewRegistry(),
	}

	r.initRunMetrics()
	r.initSchedulingMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}
