// Package topology turns a command network snapshot into a role-indexed
// adjacency graph.
package topology

import (
	"sort"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// CommandGraph is the adjacency view of a snapshot
type CommandGraph struct {
	NodesByRole     map[mesh.Role][]mesh.NodeID `json:"nodesByRole"`
	Adjacency       map[mesh.NodeID][]mesh.Edge `json:"adjacency"`
	ActivePolicyIDs []mesh.PolicyID             `json:"activePolicyIds"`
	EdgeCount       int                         `json:"edgeCount"`
	order           []mesh.NodeID
}

// BuildGraph groups nodes by role and indexes outgoing edges by source.
// Every snapshot node gets an adjacency entry. Edges from unknown sources are
// kept under their source key.
func BuildGraph(snapshot mesh.Snapshot) *CommandGraph {
	graph := &CommandGraph{
		NodesByRole:     BuildRoleIndex(snapshot.Nodes),
		Adjacency:       make(map[mesh.NodeID][]mesh.Edge, len(snapshot.Nodes)),
		ActivePolicyIDs: make([]mesh.PolicyID, 0, len(snapshot.Policies)),
		EdgeCount:       snapshot.EdgeCount(),
		order:           make([]mesh.NodeID, 0, len(snapshot.Nodes)),
	}

	for _, node := range snapshot.Nodes {
		if _, exists := graph.Adjacency[node.ID]; exists {
			continue
		}
		graph.Adjacency[node.ID] = []mesh.Edge{}
		graph.order = append(graph.order, node.ID)
	}

	for _, edge := range snapshot.Edges {
		if _, exists := graph.Adjacency[edge.From]; !exists {
			graph.order = append(graph.order, edge.From)
		}
		graph.Adjacency[edge.From] = append(graph.Adjacency[edge.From], edge)
	}

	for _, policy := range snapshot.Policies {
		if policy.Enabled {
			graph.ActivePolicyIDs = append(graph.ActivePolicyIDs, policy.ID)
		}
	}

	return graph
}

// NodeCount returns the number of role-indexed nodes
func (g *CommandGraph) NodeCount() int {
	total := 0
	for _, ids := range g.NodesByRole {
		total += len(ids)
	}
	return total
}

// HasNode reports whether id has an adjacency entry
func (g *CommandGraph) HasNode(id mesh.NodeID) bool {
	_, ok := g.Adjacency[id]
	return ok
}

// Nodes returns every adjacency key in insertion order
func (g *CommandGraph) Nodes() []mesh.NodeID {
	if len(g.order) == len(g.Adjacency) {
		out := make([]mesh.NodeID, len(g.order))
		copy(out, g.order)
		return out
	}

	// Graphs assembled by hand have no insertion order
	out := make([]mesh.NodeID, 0, len(g.Adjacency))
	for id := range g.Adjacency {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// Edges returns every edge, grouped by source in node order
func (g *CommandGraph) Edges() []mesh.Edge {
	edges := make([]mesh.Edge, 0, g.EdgeCount)
	for _, id := range g.Nodes() {
		edges = append(edges, g.Adjacency[id]...)
	}
	return edges
}

// Outgoing returns the edges leaving id
func (g *CommandGraph) Outgoing(id mesh.NodeID) []mesh.Edge {
	return g.Adjacency[id]
}

// ComputeRoleCounts tallies nodes per role. Every role is present.
func ComputeRoleCounts(nodes []mesh.Node) map[mesh.Role]int {
	counts := make(map[mesh.Role]int, len(mesh.AllRoles()))
	for _, role := range mesh.AllRoles() {
		counts[role] = 0
	}
	for _, node := range nodes {
		counts[node.Role]++
	}
	return counts
}

// BuildRoleIndex groups node ids by role, preserving snapshot order
func BuildRoleIndex(nodes []mesh.Node) map[mesh.Role][]mesh.NodeID {
	index := make(map[mesh.Role][]mesh.NodeID)
	for _, node := range nodes {
		index[node.Role] = append(index[node.Role], node.ID)
	}
	return index
}
