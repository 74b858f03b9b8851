package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
	"github.com/dd0wney/cluso-commandmesh/pkg/topology"
)

// DegreeCentrality computes degree centrality for all nodes: in-degree plus
// out-degree over n-1. A single-node graph scores 0.
func DegreeCentrality(graph *topology.CommandGraph) map[mesh.NodeID]float64 {
	nodes := graph.Nodes()

	degree := make(map[mesh.NodeID]int, len(nodes))
	for _, edge := range graph.Edges() {
		degree[edge.From]++
		degree[edge.To]++
	}

	centrality := make(map[mesh.NodeID]float64, len(nodes))
	for _, id := range nodes {
		if len(nodes) > 1 {
			centrality[id] = float64(degree[id]) / float64(len(nodes)-1)
		} else {
			centrality[id] = 0.0
		}
	}
	return centrality
}

// RankedNode is a node with its centrality score
type RankedNode struct {
	NodeID mesh.NodeID `json:"nodeId"`
	Score  float64     `json:"score"`
}

// TopHubs returns the n most connected nodes, highest score first and
// ties by id. Nodes without edges are left out.
func TopHubs(graph *topology.CommandGraph, n int) []RankedNode {
	ranked := make([]RankedNode, 0)
	for id, score := range DegreeCentrality(graph) {
		if score > 0 {
			ranked = append(ranked, RankedNode{NodeID: id, Score: score})
		}
	}

	sort.Slice(ranked, func(i, j int) bool {
		if ranked[i].Score != ranked[j].Score {
			return ranked[i].Score > ranked[j].Score
		}
		return ranked[i].NodeID < ranked[j].NodeID
	})

	if n >= 0 && len(ranked) > n {
		ranked = ranked[:n]
	}
	return ranked
}
