package drift

import (
	"fmt"
	"time"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// HistoryEvaluator derives drift from the observations recorded on the
// snapshot. Policies without recorded history are delegated to Fallback;
// when Fallback is nil they produce no observation.
type HistoryEvaluator struct {
	Fallback Evaluator
	Now      func() time.Time
}

// NewHistoryEvaluator creates a history evaluator that falls back to fallback
func NewHistoryEvaluator(fallback Evaluator) *HistoryEvaluator {
	return &HistoryEvaluator{Fallback: fallback, Now: time.Now}
}

// Evaluate averages each policy's recorded score deltas. The averaged delta
// is classified the same way synthetic pressure is.
func (e *HistoryEvaluator) Evaluate(snapshot mesh.Snapshot, intent mesh.RuntimeIntent) []mesh.DriftObservation {
	type tally struct {
		sum   float64
		count int
	}
	history := make(map[mesh.PolicyID]*tally)
	for _, d := range snapshot.Drifts {
		t, ok := history[d.PolicyID]
		if !ok {
			t = &tally{}
			history[d.PolicyID] = t
		}
		t.sum += d.ScoreDelta
		t.count++
	}

	var fallback map[mesh.PolicyID]mesh.DriftObservation
	if e.Fallback != nil {
		fallback = make(map[mesh.PolicyID]mesh.DriftObservation)
		for _, o := range e.Fallback.Evaluate(snapshot, intent) {
			fallback[o.PolicyID] = o
		}
	}

	now := time.Now
	if e.Now != nil {
		now = e.Now
	}
	at := now()

	observations := make([]mesh.DriftObservation, 0, len(snapshot.Policies))
	for _, policy := range snapshot.Policies {
		if t, ok := history[policy.ID]; ok {
			mean := t.sum / float64(t.count)
			observations = append(observations, mesh.DriftObservation{
				At:         at,
				Drift:      Classify(mean),
				ScoreDelta: mean,
				PolicyID:   policy.ID,
				Reason:     fmt.Sprintf("mean of %d recorded observations", t.count),
			})
			continue
		}
		if o, ok := fallback[policy.ID]; ok {
			observations = append(observations, o)
		}
	}
	return observations
}
