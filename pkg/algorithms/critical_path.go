package algorithms

import (
	"sort"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
	"github.com/dd0wney/cluso-commandmesh/pkg/topology"
)

// CriticalPath returns the heuristic execution priority order starting at
// start: a depth-first walk that follows the highest PolicyWeight edge first
// (ties keep edge order), recorded in post-order and then reversed.
//
// This is not an optimal critical path. Nodes reachable from start appear
// once; unreachable nodes are omitted.
func CriticalPath(graph *topology.CommandGraph, start mesh.NodeID) []mesh.NodeID {
	visited := make(map[mesh.NodeID]bool)
	order := make([]mesh.NodeID, 0)

	var visit func(id mesh.NodeID)
	visit = func(id mesh.NodeID) {
		visited[id] = true

		edges := make([]mesh.Edge, len(graph.Adjacency[id]))
		copy(edges, graph.Adjacency[id])
		sort.SliceStable(edges, func(i, j int) bool {
			return edges[i].PolicyWeight > edges[j].PolicyWeight
		})

		for _, edge := range edges {
			if !visited[edge.To] {
				visit(edge.To)
			}
		}

		order = append(order, id)
	}

	visit(start)

	for i, j := 0, len(order)-1; i < j; i, j = i+1, j-1 {
		order[i], order[j] = order[j], order[i]
	}

	return order
}

// CriticalPathRoot picks the node a critical path should start from: the
// first ingest node, or the first node of the graph.
func CriticalPathRoot(graph *topology.CommandGraph) (mesh.NodeID, bool) {
	if ingest := graph.NodesByRole[mesh.RoleIngest]; len(ingest) > 0 {
		return ingest[0], true
	}
	for _, role := range mesh.AllRoles() {
		if ids := graph.NodesByRole[role]; len(ids) > 0 {
			return ids[0], true
		}
	}
	return "", false
}
