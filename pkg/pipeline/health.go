package pipeline

import (
	"github.com/dd0wney/cluso-commandmesh/pkg/insights"
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// MeshHealth condenses edge health and policy pressure into one score
type MeshHealth struct {
	Score          float64             `json:"score" yaml:"score"`
	DecisionRate   float64             `json:"decisionRate" yaml:"decisionRate"`
	EdgeHealth     insights.EdgeHealth `json:"edgeHealth" yaml:"edgeHealth"`
	PolicyPressure float64             `json:"policyPressure" yaml:"policyPressure"`
}

// CalculateMeshHealth scores a snapshot.
//
//	Score        = (1 - (1-healthyRatio)*0.5) * max(0, 1 - pressure/2)
//	DecisionRate = clamp(Score*100, 0, 1)
func CalculateMeshHealth(snapshot mesh.Snapshot) MeshHealth {
	edgeHealth := insights.ComputeEdgeHealth(snapshot.Edges)
	pressure := insights.SnapshotPressure(snapshot)

	score := (1 - (1-edgeHealth.HealthyRatio)*0.5) * mesh.MaxOf(0, 1-pressure/2)

	return MeshHealth{
		Score:          score,
		DecisionRate:   mesh.Clamp(score*100, 0, 1),
		EdgeHealth:     edgeHealth,
		PolicyPressure: pressure,
	}
}
