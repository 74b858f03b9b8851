package insights

import (
	"sort"
	"time"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// WindowAggregate summarises the readiness windows of a set of waves
type WindowAggregate struct {
	Waves             int       `json:"waves"`
	TotalCommands     int       `json:"totalCommands"`
	EarliestStart     time.Time `json:"earliestStart"`
	LatestDeadline    time.Time `json:"latestDeadline"`
	SpanMinutes       float64   `json:"spanMinutes"`
	MeanWindowMinutes float64   `json:"meanWindowMinutes"`
	Overlaps          int       `json:"overlaps"`
}

// SchedulingWindows aggregates wave timing. Each wave is treated as the
// interval [StartAt, DeadlineAt]; Overlaps counts consecutive waves (by
// start) whose intervals intersect.
func SchedulingWindows(waves []mesh.Wave) WindowAggregate {
	agg := WindowAggregate{Waves: len(waves)}
	if len(waves) == 0 {
		return agg
	}

	sorted := make([]mesh.Wave, len(waves))
	copy(sorted, waves)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].StartAt.Before(sorted[j].StartAt)
	})

	agg.EarliestStart = sorted[0].StartAt
	agg.LatestDeadline = sorted[0].DeadlineAt

	totalMinutes := 0.0
	for i, wave := range sorted {
		agg.TotalCommands += wave.CommandCount
		if wave.DeadlineAt.After(agg.LatestDeadline) {
			agg.LatestDeadline = wave.DeadlineAt
		}
		if wave.DeadlineAt.After(wave.StartAt) {
			totalMinutes += wave.DeadlineAt.Sub(wave.StartAt).Minutes()
		}
		if i > 0 && wave.StartAt.Before(sorted[i-1].DeadlineAt) {
			agg.Overlaps++
		}
	}

	if agg.LatestDeadline.After(agg.EarliestStart) {
		agg.SpanMinutes = agg.LatestDeadline.Sub(agg.EarliestStart).Minutes()
	}
	agg.MeanWindowMinutes = totalMinutes / float64(len(sorted))
	return agg
}
