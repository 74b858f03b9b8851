package algorithms

import (
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
	"github.com/dd0wney/cluso-commandmesh/pkg/topology"
)

// Cycle represents a detected cycle as a sequence of node IDs
type Cycle []mesh.NodeID

// DetectCycles finds cycles in the command graph using DFS with three-color marking
//
// Algorithm: Uses depth-first search with three colors:
//   - WHITE (0): Unvisited node
//   - GRAY (1): Currently visiting (node is in the recursion stack)
//   - BLACK (2): Finished visiting (all descendants have been explored)
//
// When we encounter a GRAY node during DFS, we've found a back edge, which indicates a cycle.
func DetectCycles(graph *topology.CommandGraph) []Cycle {
	color := make(map[mesh.NodeID]int)
	parent := make(map[mesh.NodeID]mesh.NodeID)
	cycles := make([]Cycle, 0)

	// DFS from each unvisited node to cover disconnected components
	for _, nodeID := range graph.Nodes() {
		if color[nodeID] == white {
			dfsDetectCycle(graph, nodeID, color, parent, &cycles)
		}
	}

	return cycles
}

const (
	white = 0
	gray  = 1
	black = 2
)

func dfsDetectCycle(
	graph *topology.CommandGraph,
	nodeID mesh.NodeID,
	color map[mesh.NodeID]int,
	parent map[mesh.NodeID]mesh.NodeID,
	cycles *[]Cycle,
) {
	color[nodeID] = gray

	for _, edge := range graph.Adjacency[nodeID] {
		neighborID := edge.To

		// Self-loop
		if neighborID == nodeID {
			*cycles = append(*cycles, Cycle{nodeID})
			continue
		}

		switch color[neighborID] {
		case white:
			parent[neighborID] = nodeID
			dfsDetectCycle(graph, neighborID, color, parent, cycles)
		case gray:
			// Back edge
			*cycles = append(*cycles, extractCycle(neighborID, nodeID, parent))
		}
		// BLACK is a forward/cross edge
	}

	color[nodeID] = black
}

// extractCycle walks parent pointers from end back to start
func extractCycle(start, end mesh.NodeID, parent map[mesh.NodeID]mesh.NodeID) Cycle {
	cycle := Cycle{start}

	current := end
	for current != start {
		cycle = append(cycle, current)
		p, exists := parent[current]
		if !exists {
			break
		}
		current = p
	}

	return cycle
}

// CycleStats provides statistics about detected cycles
type CycleStats struct {
	TotalCycles   int     `json:"totalCycles"`
	ShortestCycle int     `json:"shortestCycle"`
	LongestCycle  int     `json:"longestCycle"`
	AverageLength float64 `json:"averageLength"`
	SelfLoops     int     `json:"selfLoops"`
}

// AnalyzeCycles computes statistics about detected cycles
func AnalyzeCycles(cycles []Cycle) CycleStats {
	if len(cycles) == 0 {
		return CycleStats{}
	}

	stats := CycleStats{
		TotalCycles:   len(cycles),
		ShortestCycle: len(cycles[0]),
		LongestCycle:  len(cycles[0]),
	}

	totalLength := 0
	for _, cycle := range cycles {
		length := len(cycle)
		totalLength += length

		if length == 1 {
			stats.SelfLoops++
		}
		if length < stats.ShortestCycle {
			stats.ShortestCycle = length
		}
		if length > stats.LongestCycle {
			stats.LongestCycle = length
		}
	}

	stats.AverageLength = float64(totalLength) / float64(len(cycles))
	return stats
}

// HasCycle reports whether the command graph contains any cycle
func HasCycle(graph *topology.CommandGraph) bool {
	return len(DetectCycles(graph)) > 0
}
