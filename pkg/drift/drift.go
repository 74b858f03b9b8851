// Package drift evaluates how policy pressure moves relative to the
// network's node balance. Evaluation strategies are pluggable through the
// Evaluator interface.
package drift

import (
	"github.com/dd0wney/cluso-commandmesh/pkg/insights"
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// Evaluator produces drift observations for one intent against a snapshot.
// Implementations must be safe for concurrent use.
type Evaluator interface {
	Evaluate(snapshot mesh.Snapshot, intent mesh.RuntimeIntent) []mesh.DriftObservation
}

// Func adapts a plain function to the Evaluator interface
type Func func(snapshot mesh.Snapshot, intent mesh.RuntimeIntent) []mesh.DriftObservation

// Evaluate calls f
func (f Func) Evaluate(snapshot mesh.Snapshot, intent mesh.RuntimeIntent) []mesh.DriftObservation {
	return f(snapshot, intent)
}

// Classification thresholds
const (
	DegradingAbove = 0.4
	NeutralAbove   = 0.2
)

// Classify maps a pressure value to a drift kind
func Classify(pressure float64) mesh.DriftKind {
	switch {
	case pressure > DegradingAbove:
		return mesh.DriftDegrading
	case pressure > NeutralAbove:
		return mesh.DriftNeutral
	default:
		return mesh.DriftImproving
	}
}

var roleWeights = map[mesh.Role]float64{
	mesh.RoleIngest:   1.0,
	mesh.RolePlan:     0.8,
	mesh.RoleSimulate: 0.95,
	mesh.RoleExecute:  1.2,
	mesh.RoleAudit:    0.7,
}

// RoleWeight returns the balance weight of a role, 0 for unknown roles
func RoleWeight(role mesh.Role) float64 {
	return roleWeights[role]
}

// ScoreNodeBalance is the mean role weight of the snapshot's nodes, scaled
// up by half the snapshot's policy pressure. A snapshot without nodes
// scores 0.
func ScoreNodeBalance(snapshot mesh.Snapshot) float64 {
	if len(snapshot.Nodes) == 0 {
		return 0
	}

	total := 0.0
	for _, node := range snapshot.Nodes {
		total += RoleWeight(node.Role)
	}
	mean := total / float64(len(snapshot.Nodes))
	return mean * (1 + insights.SnapshotPressure(snapshot)/2)
}

// TotalDelta sums the score deltas of a set of observations
func TotalDelta(observations []mesh.DriftObservation) float64 {
	total := 0.0
	for _, o := range observations {
		total += o.ScoreDelta
	}
	return total
}
