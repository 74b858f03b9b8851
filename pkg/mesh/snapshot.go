package mesh

import (
	"strings"
	"time"
)

// Snapshot is an immutable point-in-time view of a command network.
// It is passed by value into every pipeline call and never modified.
type Snapshot struct {
	NetworkID              NetworkID          `json:"networkId" yaml:"networkId" validate:"required"`
	Timestamp              time.Time          `json:"timestamp" yaml:"timestamp"`
	Nodes                  []Node             `json:"nodes" yaml:"nodes" validate:"dive"`
	Edges                  []Edge             `json:"edges" yaml:"edges" validate:"dive"`
	Policies               []PolicyRule       `json:"policies" yaml:"policies" validate:"dive"`
	Waves                  []Wave             `json:"waves" yaml:"waves" validate:"dive"`
	Drifts                 []DriftObservation `json:"drifts" yaml:"drifts" validate:"dive"`
	ActiveRunbookExecution *RunbookExecution  `json:"activeRunbookExecution,omitempty" yaml:"activeRunbookExecution,omitempty"`
}

// NodeIndex maps node ids to nodes
func (s Snapshot) NodeIndex() map[NodeID]Node {
	index := make(map[NodeID]Node, len(s.Nodes))
	for _, node := range s.Nodes {
		index[node.ID] = node
	}
	return index
}

// PolicyIndex maps policy ids to policies
func (s Snapshot) PolicyIndex() map[PolicyID]PolicyRule {
	index := make(map[PolicyID]PolicyRule, len(s.Policies))
	for _, policy := range s.Policies {
		index[policy.ID] = policy
	}
	return index
}

// EdgeCount returns the number of edges, dangling ones included
func (s Snapshot) EdgeCount() int {
	return len(s.Edges)
}

// FirstPolicyID returns the id of the first policy, or NoPolicy
func (s Snapshot) FirstPolicyID() PolicyID {
	if len(s.Policies) == 0 {
		return NoPolicy
	}
	return s.Policies[0].ID
}

// ConstraintPrefix returns the policy reference of an edge constraint,
// the text before the first ':'.
func ConstraintPrefix(constraint string) string {
	prefix, _, _ := strings.Cut(constraint, ":")
	return strings.TrimSpace(prefix)
}

// DefaultConstraint is the fallback constraint accepted on any edge
const DefaultConstraint = "default"
