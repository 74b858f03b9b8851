package constraints

import (
	"fmt"

	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// ValidateRuntimeIntents checks intents against the snapshot they target.
//
// It reports a run mismatch when the snapshot has no active runbook
// execution, one unreachable-node issue per (intent, node) pair that names a
// node missing from the snapshot, and a policy violation when the snapshot
// carries no policies.
func ValidateRuntimeIntents(snapshot mesh.Snapshot, intents []mesh.RuntimeIntent) mesh.Issues {
	issues := make(mesh.Issues, 0)

	if snapshot.ActiveRunbookExecution == nil {
		issues = append(issues, newIssue(mesh.IssueRunMismatch,
			fmt.Sprintf("snapshot %s has no active runbook execution", snapshot.NetworkID)))
	}

	nodes := snapshot.NodeIndex()
	for _, intent := range intents {
		for _, nodeID := range intent.NodeIDs() {
			if _, ok := nodes[nodeID]; ok {
				continue
			}
			issues = append(issues, mesh.Issue{
				Code:     mesh.IssueNodeUnreachable,
				Class:    mesh.ClassIntent,
				Message:  fmt.Sprintf("intent %s targets unknown node %s", intent.ID, nodeID),
				NodeID:   nodeID,
				IntentID: intent.ID,
			})
		}
	}

	if len(snapshot.Policies) == 0 {
		issues = append(issues, newIssue(mesh.IssuePolicyViolation,
			fmt.Sprintf("snapshot %s has no policies", snapshot.NetworkID)))
	}

	return issues
}
