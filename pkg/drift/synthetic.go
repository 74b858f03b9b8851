package drift

import (
	"fmt"
	"time"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// Synthetic pressure model
const (
	basePressure     = 0.1
	pressureStep     = 0.07
	criticalPressure = 1.4
)

// SyntheticEvaluator models drift without telemetry: each successive policy
// carries a little more pressure, and critical intents amplify it.
type SyntheticEvaluator struct {
	// Now stamps observations; time.Now when nil
	Now func() time.Time
}

// NewSyntheticEvaluator creates a synthetic evaluator using the wall clock
func NewSyntheticEvaluator() *SyntheticEvaluator {
	return &SyntheticEvaluator{Now: time.Now}
}

// Evaluate returns one observation per snapshot policy, in policy order
func (e *SyntheticEvaluator) Evaluate(snapshot mesh.Snapshot, intent mesh.RuntimeIntent) []mesh.DriftObservation {
	now := time.Now
	if e != nil && e.Now != nil {
		now = e.Now
	}
	at := now()
	balance := ScoreNodeBalance(snapshot)

	observations := make([]mesh.DriftObservation, 0, len(snapshot.Policies))
	for i, policy := range snapshot.Policies {
		pressure := SyntheticPressure(i, intent.Priority)
		observations = append(observations, mesh.DriftObservation{
			At:         at,
			Drift:      Classify(pressure),
			ScoreDelta: pressure - balance,
			PolicyID:   policy.ID,
			Reason:     fmt.Sprintf("synthetic pressure %.2f against balance %.2f", pressure, balance),
		})
	}
	return observations
}

// SyntheticPressure is the modelled pressure of the policy at index i
func SyntheticPressure(i int, priority mesh.Priority) float64 {
	pressure := basePressure + pressureStep*float64(i)
	if priority == mesh.PriorityCritical {
		pressure *= criticalPressure
	}
	return pressure
}
