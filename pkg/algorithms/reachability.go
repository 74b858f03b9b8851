package algorithms

import (
	"sync/atomic"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
	"github.com/dd0wney/cluso-commandmesh/pkg/topology"
)

// IsNodeReachable reports whether target can be reached from start by
// following outgoing edges. A node always reaches itself.
func IsNodeReachable(graph *topology.CommandGraph, start, target mesh.NodeID) bool {
	if start == target {
		return true
	}

	visited := map[mesh.NodeID]bool{start: true}
	queue := []mesh.NodeID{start}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, edge := range graph.Adjacency[current] {
			if edge.To == target {
				return true
			}
			if visited[edge.To] {
				continue
			}
			visited[edge.To] = true
			queue = append(queue, edge.To)
		}
	}

	return false
}

// Budget caps the number of node visits a traversal may spend.
// A nil Budget or a MaxVisits of 0 is unlimited. Safe for concurrent use.
type Budget struct {
	MaxVisits int64
	used      atomic.Int64
}

// NewBudget creates a budget allowing maxVisits node visits
func NewBudget(maxVisits int) *Budget {
	return &Budget{MaxVisits: int64(maxVisits)}
}

// Spend consumes one visit, returning false once the budget is exhausted
func (b *Budget) Spend() bool {
	if b == nil {
		return true
	}
	used := b.used.Add(1)
	if b.MaxVisits <= 0 {
		return true
	}
	return used <= b.MaxVisits
}

// Used returns the number of visits spent so far
func (b *Budget) Used() int64 {
	if b == nil {
		return 0
	}
	return b.used.Load()
}

// Exhausted reports whether no visits remain
func (b *Budget) Exhausted() bool {
	if b == nil || b.MaxVisits <= 0 {
		return false
	}
	return b.used.Load() >= b.MaxVisits
}

// ReachableSet returns every node reachable from start, excluding start.
// The second return value is false if the budget ran out before the BFS
// completed; the set then holds what was discovered so far.
func ReachableSet(graph *topology.CommandGraph, start mesh.NodeID, budget *Budget) (map[mesh.NodeID]bool, bool) {
	reached := make(map[mesh.NodeID]bool)
	visited := map[mesh.NodeID]bool{start: true}
	queue := []mesh.NodeID{start}

	for len(queue) > 0 {
		if !budget.Spend() {
			return reached, false
		}

		current := queue[0]
		queue = queue[1:]

		for _, edge := range graph.Adjacency[current] {
			if visited[edge.To] {
				continue
			}
			visited[edge.To] = true
			reached[edge.To] = true
			queue = append(queue, edge.To)
		}
	}

	return reached, true
}
