package algorithms

import (
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
	"github.com/dd0wney/cluso-commandmesh/pkg/topology"
)

// Group is a strongly connected set of nodes
type Group struct {
	ID    int           `json:"id"`
	Nodes []mesh.NodeID `json:"nodes"`
}

// Size returns the number of nodes in the group
func (g Group) Size() int { return len(g.Nodes) }

// tarjanState holds per-node state during Tarjan's DFS.
type tarjanState struct {
	index   int
	lowlink int
	onStack bool
}

// StronglyConnectedGroups finds all SCCs using Tarjan's algorithm in O(V+E) time.
// Only outgoing edges are followed. Groups larger than one node are feedback
// loops in the command network.
func StronglyConnectedGroups(graph *topology.CommandGraph) []Group {
	nodeIDs := graph.Nodes()
	state := make(map[mesh.NodeID]*tarjanState, len(nodeIDs))
	var stack []mesh.NodeID
	indexCounter := 0
	groups := make([]Group, 0)

	var strongconnect func(u mesh.NodeID)
	strongconnect = func(u mesh.NodeID) {
		state[u] = &tarjanState{
			index:   indexCounter,
			lowlink: indexCounter,
			onStack: true,
		}
		indexCounter++
		stack = append(stack, u)

		for _, edge := range graph.Adjacency[u] {
			v := edge.To
			if _, exists := state[v]; !exists {
				strongconnect(v)
				if state[v].lowlink < state[u].lowlink {
					state[u].lowlink = state[v].lowlink
				}
			} else if state[v].onStack {
				if state[v].index < state[u].lowlink {
					state[u].lowlink = state[v].index
				}
			}
		}

		// u is a root node: pop the stack to form an SCC
		if state[u].lowlink == state[u].index {
			var members []mesh.NodeID
			for {
				w := stack[len(stack)-1]
				stack = stack[:len(stack)-1]
				state[w].onStack = false
				members = append(members, w)
				if w == u {
					break
				}
			}
			groups = append(groups, Group{ID: len(groups), Nodes: members})
		}
	}

	for _, nodeID := range nodeIDs {
		if _, exists := state[nodeID]; !exists {
			strongconnect(nodeID)
		}
	}

	return groups
}

// FeedbackLoops returns the groups with more than one node
func FeedbackLoops(groups []Group) []Group {
	loops := make([]Group, 0)
	for _, g := range groups {
		if g.Size() > 1 {
			loops = append(loops, g)
		}
	}
	return loops
}
