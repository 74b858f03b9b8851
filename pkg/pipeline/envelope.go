package pipeline

import (
	"time"

	"github.com/google/uuid"

	"github.com/dd0wney/cluso-commandmesh/pkg/health"
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// EnvelopeKind identifies pipeline decision envelopes
const EnvelopeKind = "command-mesh.decisions"

// Envelope confidence bounds
const (
	MinConfidence = 0.4
	MaxConfidence = 1.0
)

// SignalPayload summarises one pipeline run
type SignalPayload struct {
	Policies     int           `json:"policies" yaml:"policies"`
	Decisions    int           `json:"decisions" yaml:"decisions"`
	Accepted     int           `json:"accepted" yaml:"accepted"`
	Rejected     int           `json:"rejected" yaml:"rejected"`
	Warnings     []string      `json:"warnings" yaml:"warnings"`
	Health       MeshHealth    `json:"health" yaml:"health"`
	Status       health.Status `json:"status" yaml:"status"`
	CriticalPath []mesh.NodeID `json:"criticalPath" yaml:"criticalPath"`
	Cycles       int           `json:"cycles" yaml:"cycles"`
}

// SignalEnvelope is the transport record a run emits
type SignalEnvelope struct {
	ID         string         `json:"id" yaml:"id"`
	NetworkID  mesh.NetworkID `json:"networkId" yaml:"networkId"`
	Kind       string         `json:"kind" yaml:"kind"`
	Confidence float64        `json:"confidence" yaml:"confidence"`
	EmittedAt  time.Time      `json:"emittedAt" yaml:"emittedAt"`
	Payload    SignalPayload  `json:"payload" yaml:"payload"`
}

// NewSignalEnvelope wraps a payload. Confidence is the health score clamped
// to [MinConfidence, MaxConfidence]; EmittedAt is completedAt plus the
// target window.
func NewSignalEnvelope(networkID mesh.NetworkID, payload SignalPayload, completedAt time.Time, targetWindow time.Duration) SignalEnvelope {
	return SignalEnvelope{
		ID:         uuid.NewString(),
		NetworkID:  networkID,
		Kind:       EnvelopeKind,
		Confidence: mesh.Clamp(payload.Health.Score, MinConfidence, MaxConfidence),
		EmittedAt:  completedAt.Add(targetWindow),
		Payload:    payload,
	}
}
