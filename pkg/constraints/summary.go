package constraints

import (
	"sort"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// PolicyDecisionSummary counts decisions made under one policy
type PolicyDecisionSummary struct {
	PolicyID mesh.PolicyID `json:"policyId"`
	Total    int           `json:"total"`
	Accepted int           `json:"accepted"`
	Ratio    float64       `json:"ratio"`
}

// DecisionSummary tallies routing decisions
type DecisionSummary struct {
	Total         int                     `json:"total"`
	AcceptedCount int                     `json:"acceptedCount"`
	RejectCount   int                     `json:"rejectCount"`
	ByPolicy      []PolicyDecisionSummary `json:"byPolicy"`
}

// SummarizeDecisions groups decisions per policy. AcceptedCount + RejectCount
// always equals Total; ByPolicy is sorted by policy id.
func SummarizeDecisions(decisions []mesh.RoutingDecision) DecisionSummary {
	summary := DecisionSummary{
		Total:    len(decisions),
		ByPolicy: make([]PolicyDecisionSummary, 0),
	}

	byPolicy := make(map[mesh.PolicyID]*PolicyDecisionSummary)
	for _, decision := range decisions {
		entry, ok := byPolicy[decision.PolicyID]
		if !ok {
			entry = &PolicyDecisionSummary{PolicyID: decision.PolicyID}
			byPolicy[decision.PolicyID] = entry
		}
		entry.Total++
		if decision.Accepted {
			entry.Accepted++
			summary.AcceptedCount++
		}
	}
	summary.RejectCount = summary.Total - summary.AcceptedCount

	for _, entry := range byPolicy {
		entry.Ratio = float64(entry.Accepted) / float64(entry.Total)
		summary.ByPolicy = append(summary.ByPolicy, *entry)
	}
	sort.Slice(summary.ByPolicy, func(i, j int) bool {
		return summary.ByPolicy[i].PolicyID < summary.ByPolicy[j].PolicyID
	})

	return summary
}
