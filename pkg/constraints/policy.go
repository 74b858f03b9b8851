package constraints

import (
	"fmt"

	"github.com/dd0wney/cluso-commandmesh/pkg/insights"
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// PolicyPressureConstraint flags snapshots whose aggregate policy pressure
// exceeds Limit
type PolicyPressureConstraint struct {
	Limit float64
}

// Name returns a human-readable name for this constraint
func (c *PolicyPressureConstraint) Name() string {
	return fmt.Sprintf("PolicyPressure(<=%.2f)", c.Limit)
}

// Validate computes the snapshot's policy pressure
func (c *PolicyPressureConstraint) Validate(snapshot mesh.Snapshot) mesh.Issues {
	pressure := insights.SnapshotPressure(snapshot)
	if pressure <= c.Limit {
		return nil
	}
	return mesh.Issues{newIssue(mesh.IssuePolicyViolation,
		fmt.Sprintf("policy pressure %.2f exceeds %.2f", pressure, c.Limit))}
}

// EdgeHealthConstraint flags snapshots whose healthy-edge ratio falls below
// MinRatio
type EdgeHealthConstraint struct {
	MinRatio float64
}

// Name returns a human-readable name for this constraint
func (c *EdgeHealthConstraint) Name() string {
	return fmt.Sprintf("EdgeHealth(>=%.2f)", c.MinRatio)
}

// Validate computes the snapshot's edge health
func (c *EdgeHealthConstraint) Validate(snapshot mesh.Snapshot) mesh.Issues {
	health := insights.ComputeEdgeHealth(snapshot.Edges)
	if health.HealthyRatio >= c.MinRatio {
		return nil
	}
	return mesh.Issues{newIssue(mesh.IssueEdgeInvalid,
		fmt.Sprintf("edge health %.2f below %.2f (%d/%d healthy)",
			health.HealthyRatio, c.MinRatio, health.HealthyEdges, health.TotalEdges))}
}
