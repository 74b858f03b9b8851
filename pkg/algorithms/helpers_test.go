package algorithms

import (
	"fmt"
	"testing"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh/meshtest"
	"github.com/dd0wney/cluso-commandmesh/pkg/topology"
)

// link is a from/to/weight triple used to describe test graphs
type link struct {
	from, to mesh.NodeID
	weight   float64
}

// setupTestGraph builds a command graph with the given nodes and links.
// Every node is an execute node.
func setupTestGraph(t *testing.T, nodes []mesh.NodeID, links ...link) *topology.CommandGraph {
	t.Helper()

	snapshot := mesh.Snapshot{NetworkID: "test"}
	for _, id := range nodes {
		snapshot.Nodes = append(snapshot.Nodes, meshtest.Node(id, mesh.RoleExecute))
	}
	for i, l := range links {
		id := mesh.EdgeID(fmt.Sprintf("%s-%s-%d", l.from, l.to, i))
		snapshot.Edges = append(snapshot.Edges, meshtest.Edge(id, l.from, l.to, l.weight))
	}
	return topology.BuildGraph(snapshot)
}

func ids(names ...string) []mesh.NodeID {
	out := make([]mesh.NodeID, len(names))
	for i, n := range names {
		out[i] = mesh.NodeID(n)
	}
	return out
}
