// Package pipeline orchestrates a command network run: it builds the graph,
// validates the snapshot, scores intents into routing decisions, scans
// reachability, and emits a signal envelope.
//
// A run never fails on a degenerate snapshot. Problems surface as warnings,
// issues, lower scores and a degraded status.
package pipeline

import (
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/trace"

	"github.com/dd0wney/cluso-commandmesh/pkg/algorithms"
	"github.com/dd0wney/cluso-commandmesh/pkg/constraints"
	"github.com/dd0wney/cluso-commandmesh/pkg/drift"
	"github.com/dd0wney/cluso-commandmesh/pkg/health"
	"github.com/dd0wney/cluso-commandmesh/pkg/insights"
	"github.com/dd0wney/cluso-commandmesh/pkg/logging"
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
	"github.com/dd0wney/cluso-commandmesh/pkg/metrics"
	"github.com/dd0wney/cluso-commandmesh/pkg/pubsub"
	"github.com/dd0wney/cluso-commandmesh/pkg/scheduler"
	"github.com/dd0wney/cluso-commandmesh/pkg/topology"
)

const tracerName = "github.com/dd0wney/cluso-commandmesh/pkg/pipeline"

// Schedule is the scheduling view of a run
type Schedule struct {
	Waves   []mesh.Wave                `json:"waves" yaml:"waves"`
	Windows insights.WindowAggregate   `json:"windows" yaml:"windows"`
	Health  scheduler.SchedulingHealth `json:"health" yaml:"health"`
}

// Result is everything one run produces
type Result struct {
	RunID       string                                    `json:"runId" yaml:"runId"`
	StartedAt   time.Time                                 `json:"startedAt" yaml:"startedAt"`
	CompletedAt time.Time                                 `json:"completedAt" yaml:"completedAt"`
	Graph       *topology.CommandGraph                    `json:"graph" yaml:"graph"`
	Structure   algorithms.StructureReport                `json:"structure" yaml:"structure"`
	Validation  mesh.ValidationReport                     `json:"validation" yaml:"validation"`
	Decisions   []mesh.RoutingDecision                    `json:"decisions" yaml:"decisions"`
	Summary     constraints.DecisionSummary               `json:"summary" yaml:"summary"`
	Drift       map[mesh.IntentID][]mesh.DriftObservation `json:"drift" yaml:"drift"`
	Schedule    Schedule                                  `json:"schedule" yaml:"schedule"`
	WaveLoads   []scheduler.WaveLoad                      `json:"waveLoads" yaml:"waveLoads"`
	Health      MeshHealth                                `json:"health" yaml:"health"`
	Checks      health.Response                           `json:"checks" yaml:"checks"`
	Envelope    SignalEnvelope                            `json:"envelope" yaml:"envelope"`
	Warnings    []string                                  `json:"warnings" yaml:"warnings"`
}

// Status is the aggregated health status of the run
func (r Result) Status() health.Status {
	return r.Envelope.Payload.Status
}

// Pipeline runs snapshots through every stage. It holds no per-run state and
// is safe for concurrent use.
type Pipeline struct {
	config    Config
	logger    logging.Logger
	metrics   *metrics.Registry
	evaluator drift.Evaluator
	validator *constraints.Validator
	tracer    trace.Tracer
	bus       *pubsub.Bus[SignalEnvelope]
	now       func() time.Time
}

// Option configures a Pipeline
type Option func(*Pipeline)

// WithLogger sets the logger
func WithLogger(logger logging.Logger) Option {
	return func(p *Pipeline) {
		p.logger = logger
	}
}

// WithMetrics records every run into registry
func WithMetrics(registry *metrics.Registry) Option {
	return func(p *Pipeline) {
		p.metrics = registry
	}
}

// WithEvaluator replaces the synthetic drift evaluator
func WithEvaluator(evaluator drift.Evaluator) Option {
	return func(p *Pipeline) {
		p.evaluator = evaluator
	}
}

// WithValidator replaces the default snapshot validator
func WithValidator(validator *constraints.Validator) Option {
	return func(p *Pipeline) {
		p.validator = validator
	}
}

// WithTracer sets the tracer used for stage spans
func WithTracer(tracer trace.Tracer) Option {
	return func(p *Pipeline) {
		p.tracer = tracer
	}
}

// WithPublisher publishes each run's envelope on bus, using the network id
// as topic
func WithPublisher(bus *pubsub.Bus[SignalEnvelope]) Option {
	return func(p *Pipeline) {
		p.bus = bus
	}
}

// WithClock sets the time source for run and observation timestamps
func WithClock(now func() time.Time) Option {
	return func(p *Pipeline) {
		p.now = now
	}
}

// New creates a pipeline. Zero config fields take their defaults; the
// resulting config must validate.
func New(config Config, opts ...Option) (*Pipeline, error) {
	config = config.WithDefaults()
	if err := config.Validate(); err != nil {
		return nil, err
	}
	return newPipeline(config, opts...), nil
}

func newPipeline(config Config, opts ...Option) *Pipeline {
	p := &Pipeline{config: config}
	for _, opt := range opts {
		opt(p)
	}

	if p.now == nil {
		p.now = time.Now
	}
	p.logger = logging.Or(p.logger).With(logging.Component("pipeline"))
	if p.evaluator == nil {
		p.evaluator = &drift.SyntheticEvaluator{Now: p.now}
	}
	if p.validator == nil {
		p.validator = constraints.DefaultValidator()
	}
	if p.tracer == nil {
		p.tracer = otel.Tracer(tracerName)
	}
	return p
}

// Config returns the pipeline's effective configuration
func (p *Pipeline) Config() Config {
	return p.config
}
