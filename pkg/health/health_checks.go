package health

import "fmt"

// Check names used by the pipeline
const (
	CheckStructure  = "structure"
	CheckValidation = "validation"
	CheckDrift      = "drift"
	CheckScheduling = "scheduling"
)

// Validation score below which a failed report is unhealthy rather than degraded
const MinDegradedScore = 0.5

// StructureCheck reports graph shape errors. An empty graph is unhealthy;
// any other structural error degrades the run.
func StructureCheck(getState func() (nodes int, errors []string)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    CheckStructure,
			Details: make(map[string]any),
		}

		nodes, errors := getState()
		check.Details["nodes"] = nodes
		check.Details["errors"] = len(errors)

		switch {
		case nodes == 0:
			check.Status = StatusUnhealthy
			check.Message = "Graph has no nodes"
		case len(errors) > 0:
			check.Status = StatusDegraded
			check.Message = errors[0]
		default:
			check.Status = StatusHealthy
			check.Message = "Graph structure valid"
		}

		return check
	}
}

// ValidationCheck reports the snapshot validation outcome
func ValidationCheck(getReport func() (ok bool, score float64, issues int)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    CheckValidation,
			Details: make(map[string]any),
		}

		ok, score, issues := getReport()
		check.Details["score"] = score
		check.Details["issues"] = issues

		switch {
		case ok:
			check.Status = StatusHealthy
			check.Message = "Snapshot valid"
		case score >= MinDegradedScore:
			check.Status = StatusDegraded
			check.Message = fmt.Sprintf("%d validation issues", issues)
		default:
			check.Status = StatusUnhealthy
			check.Message = fmt.Sprintf("%d validation issues, score %.2f", issues, score)
		}

		return check
	}
}

// DriftCheck reports the highest per-intent drift score. Drift at or above
// acceptLimit degrades the run; drift above warnAbove makes it unhealthy.
func DriftCheck(getMax func() (maxDrift float64, intents int), acceptLimit, warnAbove float64) CheckFunc {
	return func() Check {
		check := Check{
			Name:    CheckDrift,
			Details: make(map[string]any),
		}

		maxDrift, intents := getMax()
		check.Details["max_drift"] = maxDrift
		check.Details["intents"] = intents

		switch {
		case intents == 0:
			check.Status = StatusHealthy
			check.Message = "No intents evaluated"
		case maxDrift > warnAbove:
			check.Status = StatusUnhealthy
			check.Message = fmt.Sprintf("Drift %.2f above %.2f", maxDrift, warnAbove)
		case maxDrift >= acceptLimit:
			check.Status = StatusDegraded
			check.Message = fmt.Sprintf("Drift %.2f blocks acceptance", maxDrift)
		default:
			check.Status = StatusHealthy
			check.Message = "Drift within limits"
		}

		return check
	}
}

// SchedulingCheck reports the reachability scan. A scan cut short by its
// budget degrades the run.
func SchedulingCheck(getState func() (coverage float64, partial bool, visits int64)) CheckFunc {
	return func() Check {
		check := Check{
			Name:    CheckScheduling,
			Details: make(map[string]any),
		}

		coverage, partial, visits := getState()
		check.Details["coverage"] = coverage
		check.Details["partial"] = partial
		check.Details["visits"] = visits

		if partial {
			check.Status = StatusDegraded
			check.Message = "Reachability scan incomplete"
		} else {
			check.Status = StatusHealthy
			check.Message = "Reachability scan complete"
		}

		return check
	}
}
