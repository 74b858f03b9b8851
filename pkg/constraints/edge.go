package constraints

import (
	"fmt"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// EdgeIntegrityConstraint checks each edge's endpoints, value ranges and
// policy references. Issues are emitted per edge, in edge order.
type EdgeIntegrityConstraint struct{}

// Name returns a human-readable name for this constraint
func (c *EdgeIntegrityConstraint) Name() string {
	return "EdgeIntegrity"
}

// Validate checks every edge of the snapshot
func (c *EdgeIntegrityConstraint) Validate(snapshot mesh.Snapshot) mesh.Issues {
	nodes := snapshot.NodeIndex()
	policies := snapshot.PolicyIndex()
	issues := make(mesh.Issues, 0)

	for _, edge := range snapshot.Edges {
		if _, ok := nodes[edge.From]; !ok {
			issue := newIssue(mesh.IssueNodeUnreachable,
				fmt.Sprintf("edge %s source %s is not in the snapshot", edge.ID, edge.From))
			issue.EdgeID, issue.NodeID = edge.ID, edge.From
			issues = append(issues, issue)
		}

		if _, ok := nodes[edge.To]; !ok {
			issue := newIssue(mesh.IssueEdgeInvalid,
				fmt.Sprintf("edge %s target %s is not in the snapshot", edge.ID, edge.To))
			issue.EdgeID, issue.NodeID = edge.ID, edge.To
			issues = append(issues, issue)
		}

		if !inUnitRange(edge.Confidence) || !inUnitRange(edge.PolicyWeight) {
			issue := newIssue(mesh.IssueEdgeInvalid,
				fmt.Sprintf("edge %s confidence %.2f or policy weight %.2f outside [0,1]",
					edge.ID, edge.Confidence, edge.PolicyWeight))
			issue.EdgeID = edge.ID
			issues = append(issues, issue)
		}

		if ref, ok := unknownPolicyReference(edge.Constraints, policies); ok {
			issue := newIssue(mesh.IssuePolicyViolation,
				fmt.Sprintf("edge %s references unknown policy %q", edge.ID, ref))
			issue.EdgeID = edge.ID
			issues = append(issues, issue)
		}
	}

	return issues
}

// unknownPolicyReference returns the first constraint whose prefix is neither
// a known policy id nor the default fallback.
func unknownPolicyReference(refs []string, policies map[mesh.PolicyID]mesh.PolicyRule) (string, bool) {
	for _, ref := range refs {
		prefix := mesh.ConstraintPrefix(ref)
		if prefix == mesh.DefaultConstraint {
			continue
		}
		if _, ok := policies[mesh.PolicyID(prefix)]; ok {
			continue
		}
		return ref, true
	}
	return "", false
}

func inUnitRange(v float64) bool {
	return v >= 0 && v <= 1
}
