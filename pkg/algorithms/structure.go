package algorithms

import (
	"fmt"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
	"github.com/dd0wney/cluso-commandmesh/pkg/topology"
)

// StructureReport is the outcome of ValidateGraphStructure
type StructureReport struct {
	OK     bool     `json:"ok"`
	Errors []string `json:"errors"`
}

// ValidateGraphStructure checks the shape of a command graph.
// Source existence is only implied through adjacency entries.
func ValidateGraphStructure(graph *topology.CommandGraph) StructureReport {
	errors := make([]string, 0)

	if graph.NodeCount() == 0 {
		errors = append(errors, "graph has no nodes")
	}

	for _, edge := range graph.Edges() {
		if !graph.HasNode(edge.To) {
			errors = append(errors, fmt.Sprintf("edge %s targets unknown node %s", edge.ID, edge.To))
		}
		if !inUnitRange(edge.Confidence) {
			errors = append(errors, fmt.Sprintf("edge %s confidence %.2f outside [0,1]", edge.ID, edge.Confidence))
		}
		if !inUnitRange(edge.PolicyWeight) {
			errors = append(errors, fmt.Sprintf("edge %s policy weight %.2f outside [0,1]", edge.ID, edge.PolicyWeight))
		}
	}

	return StructureReport{
		OK:     len(errors) == 0,
		Errors: errors,
	}
}

// FormatGraphSummary reports node and edge totals and the most populated role
func FormatGraphSummary(graph *topology.CommandGraph) string {
	dominant := mesh.Role("none")
	dominantCount := 0
	for _, role := range mesh.AllRoles() {
		if n := len(graph.NodesByRole[role]); n > dominantCount {
			dominant = role
			dominantCount = n
		}
	}

	return fmt.Sprintf("nodes=%d edges=%d dominant-role=%s(%d)",
		graph.NodeCount(), graph.EdgeCount, dominant, dominantCount)
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}
