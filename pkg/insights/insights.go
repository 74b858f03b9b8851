// Package insights computes the aggregate scores the validator, drift
// evaluator and pipeline share: edge health, policy pressure and the
// scheduling-window aggregate.
package insights

import (
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// Edge health thresholds
const (
	MaxHealthyErrorRatePercent = 2.0
	MaxHealthyLatencyMsP95     = 1200.0
)

// EdgeHealth summarises how many edges are within health thresholds
type EdgeHealth struct {
	TotalEdges   int     `json:"totalEdges"`
	HealthyEdges int     `json:"healthyEdges"`
	HealthyRatio float64 `json:"healthyRatio"`
}

// IsHealthyEdge reports whether an edge's error rate and p95 latency are
// within thresholds
func IsHealthyEdge(edge mesh.Edge) bool {
	return edge.Meta.ErrorRatePercent <= MaxHealthyErrorRatePercent &&
		edge.Meta.LatencyMsP95 <= MaxHealthyLatencyMsP95
}

// ComputeEdgeHealth counts healthy edges. An empty edge list is fully healthy.
func ComputeEdgeHealth(edges []mesh.Edge) EdgeHealth {
	health := EdgeHealth{TotalEdges: len(edges), HealthyRatio: 1}
	for _, edge := range edges {
		if IsHealthyEdge(edge) {
			health.HealthyEdges++
		}
	}
	if health.TotalEdges > 0 {
		health.HealthyRatio = float64(health.HealthyEdges) / float64(health.TotalEdges)
	}
	return health
}
