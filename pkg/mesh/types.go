package mesh

import "time"

// Role describes the function a node performs in the command network
type Role string

const (
	RoleIngest   Role = "ingest"
	RolePlan     Role = "plan"
	RoleSimulate Role = "simulate"
	RoleExecute  Role = "execute"
	RoleAudit    Role = "audit"
)

// AllRoles returns every role in pipeline order
func AllRoles() []Role {
	return []Role{RoleIngest, RolePlan, RoleSimulate, RoleExecute, RoleAudit}
}

// NodeState is the lifecycle state of a node
type NodeState string

const (
	StateQueued     NodeState = "queued"
	StateActive     NodeState = "active"
	StateSuppressed NodeState = "suppressed"
	StateCompleted  NodeState = "completed"
	StateFailed     NodeState = "failed"
)

// Priority of a runtime intent
type Priority string

const (
	PriorityLow      Priority = "low"
	PriorityMedium   Priority = "medium"
	PriorityHigh     Priority = "high"
	PriorityCritical Priority = "critical"
)

// DriftKind classifies the direction a policy's pressure is moving
type DriftKind string

const (
	DriftImproving DriftKind = "improving"
	DriftNeutral   DriftKind = "neutral"
	DriftDegrading DriftKind = "degrading"
)

// NodeMetadata carries ownership and capacity hints for a node
type NodeMetadata struct {
	Owner                  string  `json:"owner" yaml:"owner"`
	Region                 string  `json:"region" yaml:"region"`
	AvailabilitySLOMinutes int     `json:"availabilitySloMinutes" yaml:"availabilitySloMinutes"`
	MaxInFlight            int     `json:"maxInFlight" yaml:"maxInFlight"`
	Criticality            float64 `json:"criticality" yaml:"criticality"`
}

// Node is a single participant in the command network
type Node struct {
	ID               NodeID       `json:"nodeId" yaml:"nodeId" validate:"required"`
	Label            string       `json:"label" yaml:"label"`
	Role             Role         `json:"role" yaml:"role" validate:"required,oneof=ingest plan simulate execute audit"`
	State            NodeState    `json:"state" yaml:"state" validate:"omitempty,oneof=queued active suppressed completed failed"`
	ReadinessSignals []string     `json:"readinessSignals,omitempty" yaml:"readinessSignals,omitempty"`
	Metadata         NodeMetadata `json:"metadata" yaml:"metadata"`
}

// EdgeMeta describes the transport characteristics of an edge
type EdgeMeta struct {
	Capacity         int     `json:"capacity" yaml:"capacity"`
	LatencyMsP95     float64 `json:"latencyMsP95" yaml:"latencyMsP95"`
	ErrorRatePercent float64 `json:"errorRatePercent" yaml:"errorRatePercent"`
	Encrypted        bool    `json:"encrypted" yaml:"encrypted"`
	Protocol         string  `json:"protocol" yaml:"protocol"`
}

// Edge is a directed command channel between two nodes.
// Constraints reference policy ids ("<policyId>:<rule>") or the literal "default".
type Edge struct {
	ID           EdgeID    `json:"edgeId" yaml:"edgeId" validate:"required"`
	From         NodeID    `json:"from" yaml:"from" validate:"required"`
	To           NodeID    `json:"to" yaml:"to" validate:"required"`
	ChannelID    ChannelID `json:"channelId" yaml:"channelId"`
	Direction    string    `json:"direction" yaml:"direction"`
	Confidence   float64   `json:"confidence" yaml:"confidence"`
	PolicyWeight float64   `json:"policyWeight" yaml:"policyWeight"`
	Constraints  []string  `json:"constraints,omitempty" yaml:"constraints,omitempty"`
	Meta         EdgeMeta  `json:"meta" yaml:"meta"`
}

// PolicyRule constrains which roles and channels may carry commands
type PolicyRule struct {
	ID           PolicyID    `json:"policyId" yaml:"policyId" validate:"required"`
	Name         string      `json:"name" yaml:"name"`
	Enabled      bool        `json:"enabled" yaml:"enabled"`
	WindowHours  float64     `json:"windowHours" yaml:"windowHours"`
	AllowedRoles []Role      `json:"allowedRoles,omitempty" yaml:"allowedRoles,omitempty" validate:"dive,oneof=ingest plan simulate execute audit"`
	MaxLatencyMs float64     `json:"maxLatencyMs" yaml:"maxLatencyMs"`
	RequireAudit bool        `json:"requireAudit" yaml:"requireAudit"`
	Channels     []ChannelID `json:"channels,omitempty" yaml:"channels,omitempty"`
}

// ReadinessWindow is the time range within which a wave is expected to run
type ReadinessWindow struct {
	From time.Time `json:"from" yaml:"from"`
	To   time.Time `json:"to" yaml:"to"`
}

// Minutes returns the length of the window in minutes (never negative)
func (w ReadinessWindow) Minutes() float64 {
	if w.To.Before(w.From) {
		return 0
	}
	return w.To.Sub(w.From).Minutes()
}

// Wave is a time-boxed batch of commands targeting a set of nodes
type Wave struct {
	Index           int             `json:"waveIndex" yaml:"waveIndex" validate:"gte=0"`
	NodeIDs         []NodeID        `json:"nodeIds" yaml:"nodeIds"`
	StartAt         time.Time       `json:"startAt" yaml:"startAt"`
	DeadlineAt      time.Time       `json:"deadlineAt" yaml:"deadlineAt"`
	CommandCount    int             `json:"commandCount" yaml:"commandCount"`
	ReadinessWindow ReadinessWindow `json:"readinessWindow" yaml:"readinessWindow"`
}

// PlanWindow is the target execution window of an intent
type PlanWindow struct {
	FromUTC  time.Time `json:"fromUtc" yaml:"fromUtc"`
	ToUTC    time.Time `json:"toUtc" yaml:"toUtc"`
	Runbooks []string  `json:"runbooks,omitempty" yaml:"runbooks,omitempty"`
}

// RunbookExecution identifies the runbook run a snapshot is bound to
type RunbookExecution struct {
	RunID     RunID     `json:"runId" yaml:"runId"`
	RunbookID string    `json:"runbookId" yaml:"runbookId"`
	StartedAt time.Time `json:"startedAt" yaml:"startedAt"`
	Phase     string    `json:"phase" yaml:"phase"`
}

// RuntimeIntent is a request to run a runbook across a set of waves
type RuntimeIntent struct {
	ID               IntentID   `json:"intentId" yaml:"intentId" validate:"required"`
	Tenant           string     `json:"tenant" yaml:"tenant"`
	RunbookRunID     RunID      `json:"runbookRunId" yaml:"runbookRunId"`
	CommandNetworkID NetworkID  `json:"commandNetworkId" yaml:"commandNetworkId"`
	TargetWindow     PlanWindow `json:"targetWindow" yaml:"targetWindow"`
	Priority         Priority   `json:"priority" yaml:"priority" validate:"required,oneof=low medium high critical"`
	IsEmergency      bool       `json:"isEmergency" yaml:"isEmergency"`
	Waves            []Wave     `json:"waves" yaml:"waves" validate:"dive"`
	CreatedAt        time.Time  `json:"createdAt" yaml:"createdAt"`
}

// NodeIDs returns the distinct node ids referenced by the intent's waves,
// in first-seen order.
func (ri RuntimeIntent) NodeIDs() []NodeID {
	seen := make(map[NodeID]bool)
	ids := make([]NodeID, 0)
	for _, wave := range ri.Waves {
		for _, id := range wave.NodeIDs {
			if seen[id] {
				continue
			}
			seen[id] = true
			ids = append(ids, id)
		}
	}
	return ids
}

// RoutingDecision is the verdict assigned to one node of an intent wave
type RoutingDecision struct {
	NodeID   NodeID   `json:"nodeId" yaml:"nodeId"`
	PolicyID PolicyID `json:"policyId" yaml:"policyId"`
	Accepted bool     `json:"accepted" yaml:"accepted"`
	Reason   string   `json:"reason" yaml:"reason"`
	Score    float64  `json:"score" yaml:"score"`
}

// DriftObservation records how a policy's pressure moved relative to the
// node balance baseline
type DriftObservation struct {
	At         time.Time `json:"at" yaml:"at"`
	Drift      DriftKind `json:"drift" yaml:"drift" validate:"omitempty,oneof=improving neutral degrading"`
	ScoreDelta float64   `json:"scoreDelta" yaml:"scoreDelta"`
	PolicyID   PolicyID  `json:"policyId" yaml:"policyId"`
	Reason     string    `json:"reason" yaml:"reason"`
}
