package constraints

import (
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// Validator manages a set of constraints and validates snapshots against them
type Validator struct {
	constraints []Constraint
}

// NewValidator creates a new empty validator
func NewValidator() *Validator {
	return &Validator{
		constraints: make([]Constraint, 0),
	}
}

// DefaultValidator returns a validator with the standard snapshot checks:
// edge integrity, policy pressure and edge health, in that order.
func DefaultValidator() *Validator {
	v := NewValidator()
	v.AddConstraints([]Constraint{
		&EdgeIntegrityConstraint{},
		&PolicyPressureConstraint{Limit: MaxPolicyPressure},
		&EdgeHealthConstraint{MinRatio: MinEdgeHealthRatio},
	})
	return v
}

// AddConstraint adds a constraint to the validator
func (v *Validator) AddConstraint(constraint Constraint) {
	v.constraints = append(v.constraints, constraint)
}

// AddConstraints adds multiple constraints to the validator
func (v *Validator) AddConstraints(constraints []Constraint) {
	v.constraints = append(v.constraints, constraints...)
}

// Validate runs all constraints against the snapshot and scores the result
func (v *Validator) Validate(snapshot mesh.Snapshot) mesh.ValidationReport {
	issues := make(mesh.Issues, 0)
	for _, constraint := range v.constraints {
		issues = append(issues, constraint.Validate(snapshot)...)
	}
	return ReportFromIssues(snapshot.NetworkID, issues)
}

// GetConstraints returns all constraints in the validator
func (v *Validator) GetConstraints() []Constraint {
	return v.constraints
}

// ValidateSnapshot validates a snapshot with the default constraints
func ValidateSnapshot(snapshot mesh.Snapshot) mesh.ValidationReport {
	return DefaultValidator().Validate(snapshot)
}

// ReportFromIssues builds a scored report. The score drops by IssuePenalty
// per issue and never goes below zero.
func ReportFromIssues(id mesh.NetworkID, issues mesh.Issues) mesh.ValidationReport {
	if issues == nil {
		issues = mesh.Issues{}
	}
	return mesh.ValidationReport{
		SnapshotID: id,
		OK:         len(issues) == 0,
		Issues:     issues,
		Score:      Score(len(issues)),
	}
}

// Score converts an issue count into a score in [0, 1]
func Score(issueCount int) float64 {
	return mesh.MaxOf(0, 1-float64(issueCount)*IssuePenalty)
}
