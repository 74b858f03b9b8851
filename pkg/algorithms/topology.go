package algorithms

import (
	"fmt"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
	"github.com/dd0wney/cluso-commandmesh/pkg/topology"
)

// IsDAG checks if the command graph has no cycles
func IsDAG(graph *topology.CommandGraph) bool {
	return !HasCycle(graph)
}

// TopologicalSort returns the nodes in dispatch order using Kahn's algorithm.
// For every edge u->v, u comes before v. Nodes that become ready together
// keep graph order. Edges to unknown nodes are ignored.
//
// Returns an error if the graph contains a cycle.
func TopologicalSort(graph *topology.CommandGraph) ([]mesh.NodeID, error) {
	nodes := graph.Nodes()

	inDegree := make(map[mesh.NodeID]int, len(nodes))
	for _, id := range nodes {
		inDegree[id] = 0
	}
	for _, edge := range graph.Edges() {
		if _, ok := inDegree[edge.To]; ok {
			inDegree[edge.To]++
		}
	}

	// Queue of nodes with in-degree 0
	queue := make([]mesh.NodeID, 0)
	for _, id := range nodes {
		if inDegree[id] == 0 {
			queue = append(queue, id)
		}
	}

	sorted := make([]mesh.NodeID, 0, len(nodes))
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		sorted = append(sorted, current)

		for _, edge := range graph.Outgoing(current) {
			if _, ok := inDegree[edge.To]; !ok {
				continue
			}
			inDegree[edge.To]--
			if inDegree[edge.To] == 0 {
				queue = append(queue, edge.To)
			}
		}
	}

	if len(sorted) != len(nodes) {
		return nil, fmt.Errorf("graph contains cycles: %d of %d nodes ordered", len(sorted), len(nodes))
	}
	return sorted, nil
}

// IsConnected checks weak connectivity, treating edges as undirected.
// Empty and single-node graphs are connected.
func IsConnected(graph *topology.CommandGraph) bool {
	nodes := graph.Nodes()
	if len(nodes) <= 1 {
		return true
	}

	neighbors := make(map[mesh.NodeID][]mesh.NodeID, len(nodes))
	for _, edge := range graph.Edges() {
		neighbors[edge.From] = append(neighbors[edge.From], edge.To)
		neighbors[edge.To] = append(neighbors[edge.To], edge.From)
	}

	visited := map[mesh.NodeID]bool{nodes[0]: true}
	queue := []mesh.NodeID{nodes[0]}
	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]
		for _, next := range neighbors[current] {
			if !visited[next] && graph.HasNode(next) {
				visited[next] = true
				queue = append(queue, next)
			}
		}
	}

	return len(visited) == len(nodes)
}
