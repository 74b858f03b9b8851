package metrics

import (
	"fmt"
	"io"
	"strconv"

	"github.com/prometheus/common/expfmt"
)

// RecordRun records the outcome of one pipeline run
func (r *Registry) RecordRun(obs RunObservation) {
	r.RunsTotal.WithLabelValues(obs.Status).Inc()
	r.RunDuration.Observe(obs.DurationSeconds)

	r.DecisionsTotal.WithLabelValues(strconv.FormatBool(true)).Add(float64(obs.Accepted))
	r.DecisionsTotal.WithLabelValues(strconv.FormatBool(false)).Add(float64(obs.Rejected))

	for code, n := range obs.IssueCodes {
		r.ValidationIssuesTotal.WithLabelValues(code).Add(float64(n))
	}
	for kind, n := range obs.DriftKinds {
		r.DriftObservations.WithLabelValues(kind).Add(float64(n))
	}

	r.HealthScore.Set(obs.HealthScore)

	if obs.PartialScan {
		r.PartialScansTotal.Inc()
	}
	r.ReachabilityVisits.Observe(float64(obs.Visits))
}

// RecordBatch records the size of a batch run
func (r *Registry) RecordBatch(size int) {
	r.BatchSize.Observe(float64(size))
}

// WriteText writes every gathered metric in the Prometheus text format
func (r *Registry) WriteText(w io.Writer) error {
	families, err := r.registry.Gather()
	if err != nil {
		return fmt.Errorf("gather metrics: %w", err)
	}
	for _, family := range families {
		if _, err := expfmt.MetricFamilyToText(w, family); err != nil {
			return fmt.Errorf("write metric %s: %w", family.GetName(), err)
		}
	}
	return nil
}
