package insights

import (
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// Pressure factors
const (
	TightLatencyCeilingMs = 2000.0
	tightLatencyPressure  = 1.0
	looseLatencyPressure  = 0.4
	auditRelief           = 0.1
	shortWindowRelief     = 0.25
	shortWindowHours      = 1.0
)

// RulePressure scores how strained a single policy is. Tight latency
// ceilings and few channels raise it; audit requirements and sub-hour
// windows lower it.
func RulePressure(policy mesh.PolicyRule) float64 {
	pressure := looseLatencyPressure
	if policy.MaxLatencyMs <= TightLatencyCeilingMs {
		pressure = tightLatencyPressure
	}

	pressure += 1 / float64(mesh.MaxOf(1, len(policy.Channels)))

	if policy.RequireAudit {
		pressure -= auditRelief
	}
	if policy.WindowHours < shortWindowHours {
		pressure -= shortWindowRelief
	}
	return pressure
}

// PolicyPressure aggregates rule pressure across the network: the summed
// rule pressure spread over the nodes the policies govern. A network
// without policies has no pressure.
//
// The node-count divisor is load-bearing: one tight single-channel policy
// over three nodes yields 2/3, under constraints.MaxPolicyPressure (1.2).
// The raw sum of 2.0 would flag that snapshot as over-pressured and fail
// its validation.
func PolicyPressure(policies []mesh.PolicyRule, nodeCount int) float64 {
	if len(policies) == 0 {
		return 0
	}

	total := 0.0
	for _, policy := range policies {
		total += RulePressure(policy)
	}
	return total / float64(mesh.MaxOf(1, nodeCount))
}

// SnapshotPressure is PolicyPressure over a snapshot's policies and nodes
func SnapshotPressure(snapshot mesh.Snapshot) float64 {
	return PolicyPressure(snapshot.Policies, len(snapshot.Nodes))
}
