package mesh

// IssueCode tags a validation issue
type IssueCode string

const (
	IssueEdgeInvalid     IssueCode = "edge_invalid"
	IssuePolicyViolation IssueCode = "policy_violation"
	IssueRunMismatch     IssueCode = "run_mismatch"
	IssueNodeUnreachable IssueCode = "node_unreachable"
)

// IssueClass groups issue codes by where they originate
type IssueClass string

const (
	ClassStructural IssueClass = "structural"
	ClassPolicy     IssueClass = "policy"
	ClassIntent     IssueClass = "intent"
)

// Issue is a non-fatal problem found while validating a snapshot or intent
type Issue struct {
	Code     IssueCode  `json:"code" yaml:"code"`
	Class    IssueClass `json:"class" yaml:"class"`
	Message  string     `json:"message" yaml:"message"`
	NodeID   NodeID     `json:"nodeId,omitempty" yaml:"nodeId,omitempty"`
	EdgeID   EdgeID     `json:"edgeId,omitempty" yaml:"edgeId,omitempty"`
	PolicyID PolicyID   `json:"policyId,omitempty" yaml:"policyId,omitempty"`
	IntentID IntentID   `json:"intentId,omitempty" yaml:"intentId,omitempty"`
}

// Issues is a list of issues with filtering helpers
type Issues []Issue

// ByCode returns the issues carrying the given code
func (is Issues) ByCode(code IssueCode) Issues {
	filtered := make(Issues, 0)
	for _, issue := range is {
		if issue.Code == code {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

// ByClass returns the issues of the given class
func (is Issues) ByClass(class IssueClass) Issues {
	filtered := make(Issues, 0)
	for _, issue := range is {
		if issue.Class == class {
			filtered = append(filtered, issue)
		}
	}
	return filtered
}

// Messages returns the message of every issue, in order
func (is Issues) Messages() []string {
	messages := make([]string, len(is))
	for i, issue := range is {
		messages[i] = issue.Message
	}
	return messages
}

// CountByCode tallies issues per code
func (is Issues) CountByCode() map[IssueCode]int {
	counts := make(map[IssueCode]int)
	for _, issue := range is {
		counts[issue.Code]++
	}
	return counts
}

// ValidationReport is the scored outcome of validating a snapshot
type ValidationReport struct {
	SnapshotID NetworkID `json:"snapshotId" yaml:"snapshotId"`
	OK         bool      `json:"ok" yaml:"ok"`
	Issues     Issues    `json:"issues" yaml:"issues"`
	Score      float64   `json:"score" yaml:"score"`
}
