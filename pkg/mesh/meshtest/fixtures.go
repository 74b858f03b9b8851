// Package meshtest builds snapshots and intents for tests.
package meshtest

import (
	"time"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// BaseTime is the fixed timestamp used by fixtures
var BaseTime = time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)

// Node builds a node with the given id and role
func Node(id mesh.NodeID, role mesh.Role) mesh.Node {
	return mesh.Node{
		ID:    id,
		Label: string(id),
		Role:  role,
		State: mesh.StateActive,
		Metadata: mesh.NodeMetadata{
			Owner:       "ops",
			Region:      "eu-west",
			MaxInFlight: 4,
		},
	}
}

// Edge builds a healthy edge between two nodes
func Edge(id mesh.EdgeID, from, to mesh.NodeID, weight float64) mesh.Edge {
	return mesh.Edge{
		ID:           id,
		From:         from,
		To:           to,
		ChannelID:    "ch1",
		Direction:    "forward",
		Confidence:   0.9,
		PolicyWeight: weight,
		Meta: mesh.EdgeMeta{
			Capacity:         10,
			LatencyMsP95:     500,
			ErrorRatePercent: 1,
			Encrypted:        true,
			Protocol:         "grpc",
		},
	}
}

// Policy builds an enabled policy
func Policy(id mesh.PolicyID) mesh.PolicyRule {
	return mesh.PolicyRule{
		ID:           id,
		Name:         string(id),
		Enabled:      true,
		WindowHours:  2,
		MaxLatencyMs: 1500,
		Channels:     []mesh.ChannelID{"ch1"},
	}
}

// ScenarioA is three nodes {A: ingest, B: execute, C: audit}, one healthy
// edge A->B and one policy.
func ScenarioA() mesh.Snapshot {
	return mesh.Snapshot{
		NetworkID: "net-a",
		Timestamp: BaseTime,
		Nodes: []mesh.Node{
			Node("A", mesh.RoleIngest),
			Node("B", mesh.RoleExecute),
			Node("C", mesh.RoleAudit),
		},
		Edges:    []mesh.Edge{Edge("e-ab", "A", "B", 0.5)},
		Policies: []mesh.PolicyRule{Policy("p-1")},
		ActiveRunbookExecution: &mesh.RunbookExecution{
			RunID:     "run-1",
			RunbookID: "rb-failover",
			StartedAt: BaseTime,
			Phase:     "execute",
		},
	}
}

// Chain builds a snapshot whose nodes form a line n0 -> n1 -> ... -> n(count-1)
func Chain(count int) mesh.Snapshot {
	s := mesh.Snapshot{
		NetworkID: "net-chain",
		Timestamp: BaseTime,
		Policies:  []mesh.PolicyRule{Policy("p-1")},
		ActiveRunbookExecution: &mesh.RunbookExecution{
			RunID: "run-chain",
		},
	}
	roles := mesh.AllRoles()
	for i := 0; i < count; i++ {
		s.Nodes = append(s.Nodes, Node(NodeName(i), roles[i%len(roles)]))
		if i > 0 {
			s.Edges = append(s.Edges, Edge(mesh.EdgeID("e-"+string(NodeName(i))), NodeName(i-1), NodeName(i), 0.5))
		}
	}
	return s
}

// NodeName returns the id used by Chain for index i
func NodeName(i int) mesh.NodeID {
	const letters = "abcdefghijklmnopqrstuvwxyz"
	name := ""
	for {
		name = string(letters[i%len(letters)]) + name
		i = i/len(letters) - 1
		if i < 0 {
			break
		}
	}
	return mesh.NodeID(name)
}

// Intent builds an intent with one wave per node slice
func Intent(id mesh.IntentID, priority mesh.Priority, waves ...[]mesh.NodeID) mesh.RuntimeIntent {
	intent := mesh.RuntimeIntent{
		ID:               id,
		Tenant:           "tenant-1",
		RunbookRunID:     "run-1",
		CommandNetworkID: "net-a",
		Priority:         priority,
		TargetWindow: mesh.PlanWindow{
			FromUTC: BaseTime,
			ToUTC:   BaseTime.Add(time.Hour),
		},
		CreatedAt: BaseTime,
	}
	for i, nodes := range waves {
		intent.Waves = append(intent.Waves, mesh.Wave{
			Index:        i,
			NodeIDs:      nodes,
			StartAt:      BaseTime.Add(time.Duration(i) * 10 * time.Minute),
			DeadlineAt:   BaseTime.Add(time.Duration(i+1) * 10 * time.Minute),
			CommandCount: 1,
		})
	}
	return intent
}
