package constraints

import (
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// Constraint is the interface that all snapshot constraints implement.
// Constraints never fail: problems are returned as issues.
type Constraint interface {
	// Validate checks the constraint against the snapshot
	// Returns a list of issues (empty if valid)
	Validate(snapshot mesh.Snapshot) mesh.Issues

	// Name returns a human-readable name for the constraint
	Name() string
}

// Scoring and threshold constants
const (
	// IssuePenalty is subtracted from a report's score per issue
	IssuePenalty = 0.08
	// MaxPolicyPressure is the aggregate policy pressure above which a
	// snapshot is in policy violation
	MaxPolicyPressure = 1.2
	// MinEdgeHealthRatio is the healthy-edge ratio below which a snapshot's
	// edges are considered invalid
	MinEdgeHealthRatio = 0.75
)

// classFor maps an issue code to its class. Node references from intents are
// intent issues; everything else follows the code.
func classFor(code mesh.IssueCode) mesh.IssueClass {
	switch code {
	case mesh.IssuePolicyViolation:
		return mesh.ClassPolicy
	case mesh.IssueRunMismatch:
		return mesh.ClassIntent
	default:
		return mesh.ClassStructural
	}
}

func newIssue(code mesh.IssueCode, message string) mesh.Issue {
	return mesh.Issue{Code: code, Class: classFor(code), Message: message}
}
