package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/dd0wney/cluso-commandmesh/pkg/algorithms"
	"github.com/dd0wney/cluso-commandmesh/pkg/constraints"
	"github.com/dd0wney/cluso-commandmesh/pkg/drift"
	"github.com/dd0wney/cluso-commandmesh/pkg/health"
	"github.com/dd0wney/cluso-commandmesh/pkg/insights"
	"github.com/dd0wney/cluso-commandmesh/pkg/logging"
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
	"github.com/dd0wney/cluso-commandmesh/pkg/metrics"
	"github.com/dd0wney/cluso-commandmesh/pkg/scheduler"
	"github.com/dd0wney/cluso-commandmesh/pkg/topology"
)

// Stage names, also used as span names
const (
	StageBuildGraph = "build_graph"
	StageValidate   = "validate"
	StageIntents    = "intents"
	StageSchedule   = "schedule"
	StageHealth     = "health"
)

// RunMeshPipeline runs a snapshot with the default configuration, no
// logging and no metrics.
func RunMeshPipeline(snapshot mesh.Snapshot, intents []mesh.RuntimeIntent) Result {
	p := newPipeline(DefaultConfig(), WithLogger(logging.NewNopLogger()))
	return p.Run(context.Background(), snapshot, intents)
}

// intentOutcome is the scoring of one intent
type intentOutcome struct {
	observations []mesh.DriftObservation
	driftScore   float64
	penalty      int
	accepted     bool
}

// Run processes one snapshot. The context only bounds the reachability
// scan; a cancelled run still returns a complete, partially scanned result.
func (p *Pipeline) Run(ctx context.Context, snapshot mesh.Snapshot, intents []mesh.RuntimeIntent) Result {
	result := Result{
		RunID:     uuid.NewString(),
		StartedAt: p.now(),
		Decisions: make([]mesh.RoutingDecision, 0),
		Drift:     make(map[mesh.IntentID][]mesh.DriftObservation, len(intents)),
		Warnings:  make([]string, 0),
	}
	logger := p.logger.With(
		logging.String("pipeline_run", result.RunID),
		logging.NetworkID(snapshot.NetworkID),
	)

	ctx, span := p.tracer.Start(ctx, "pipeline.run", trace.WithAttributes(
		attribute.String("network_id", string(snapshot.NetworkID)),
		attribute.Int("nodes", len(snapshot.Nodes)),
		attribute.Int("edges", len(snapshot.Edges)),
		attribute.Int("intents", len(intents)),
	))
	defer span.End()

	// Graph
	_, end := p.startStage(ctx, logger, StageBuildGraph)
	result.Graph = topology.BuildGraph(snapshot)
	result.Structure = algorithms.ValidateGraphStructure(result.Graph)
	result.Warnings = append(result.Warnings, result.Structure.Errors...)
	end(
		attribute.Int("nodes", result.Graph.NodeCount()),
		attribute.Int("edges", result.Graph.EdgeCount),
		attribute.Int("structure_errors", len(result.Structure.Errors)),
	)

	// Validation
	_, end = p.startStage(ctx, logger, StageValidate)
	result.Validation = p.validator.Validate(snapshot)
	result.Warnings = append(result.Warnings, result.Validation.Issues.Messages()...)
	end(
		attribute.Bool("ok", result.Validation.OK),
		attribute.Float64("score", result.Validation.Score),
		attribute.Int("issues", len(result.Validation.Issues)),
	)

	// Intents
	_, end = p.startStage(ctx, logger, StageIntents)
	maxDrift := 0.0
	policyID := snapshot.FirstPolicyID()
	for i, intent := range intents {
		outcome := p.scoreIntent(snapshot, intent, result.Validation.OK)
		result.Drift[intent.ID] = outcome.observations
		if i == 0 || outcome.driftScore > maxDrift {
			maxDrift = outcome.driftScore
		}
		if outcome.driftScore > p.config.DriftWarnThreshold {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"intent %s drift score %.2f exceeds %.2f", intent.ID, outcome.driftScore, p.config.DriftWarnThreshold))
		}
		result.Decisions = append(result.Decisions, routeIntent(intent, outcome, policyID)...)
	}
	result.Summary = constraints.SummarizeDecisions(result.Decisions)
	end(
		attribute.Int("decisions", result.Summary.Total),
		attribute.Int("accepted", result.Summary.AcceptedCount),
		attribute.Float64("max_drift", maxDrift),
	)

	// Scheduling
	scheduleCtx, end := p.startStage(ctx, logger, StageSchedule)
	result.Schedule = p.schedule(scheduleCtx, result.Graph, intents)
	if result.Schedule.Health.Partial {
		result.Warnings = append(result.Warnings, fmt.Sprintf(
			"reachability scan incomplete after %d visits", result.Schedule.Health.Visits))
	}
	result.WaveLoads = scheduler.EstimateWaveLoads(snapshot.Waves, snapshot.Edges)
	end(
		attribute.Int("waves", len(result.Schedule.Waves)),
		attribute.Float64("coverage", result.Schedule.Health.CoverageScore),
		attribute.Bool("partial", result.Schedule.Health.Partial),
		attribute.Int64("visits", result.Schedule.Health.Visits),
	)

	// Health
	_, end = p.startStage(ctx, logger, StageHealth)
	result.Health = CalculateMeshHealth(snapshot)
	result.Checks = p.checkRun(result, maxDrift, len(intents))
	end(
		attribute.String("status", string(result.Checks.Status)),
		attribute.Float64("score", result.Health.Score),
	)

	criticalPath := make([]mesh.NodeID, 0)
	if root, ok := algorithms.CriticalPathRoot(result.Graph); ok {
		criticalPath = algorithms.CriticalPath(result.Graph, root)
	}

	result.CompletedAt = p.now()
	result.Envelope = NewSignalEnvelope(snapshot.NetworkID, SignalPayload{
		Policies:     len(snapshot.Policies),
		Decisions:    result.Summary.Total,
		Accepted:     result.Summary.AcceptedCount,
		Rejected:     result.Summary.RejectCount,
		Warnings:     append([]string(nil), result.Warnings...),
		Health:       result.Health,
		Status:       result.Checks.Status,
		CriticalPath: criticalPath,
		Cycles:       len(algorithms.DetectCycles(result.Graph)),
	}, result.CompletedAt, time.Duration(p.config.TargetWindowSeconds)*time.Second)

	span.SetAttributes(
		attribute.String("status", string(result.Checks.Status)),
		attribute.Float64("confidence", result.Envelope.Confidence),
	)
	p.record(result)
	p.publish(logger, result.Envelope)
	p.logRun(logger, result)

	return result
}

// scoreIntent evaluates drift and runtime validity for one intent
func (p *Pipeline) scoreIntent(snapshot mesh.Snapshot, intent mesh.RuntimeIntent, snapshotOK bool) intentOutcome {
	observations := p.evaluator.Evaluate(snapshot, intent)
	if observations == nil {
		observations = make([]mesh.DriftObservation, 0)
	}
	score := drift.TotalDelta(observations)
	penalty := len(constraints.ValidateRuntimeIntents(snapshot, []mesh.RuntimeIntent{intent}))

	return intentOutcome{
		observations: observations,
		driftScore:   score,
		penalty:      penalty,
		accepted:     snapshotOK && penalty == 0 && score < p.config.DriftAcceptLimit,
	}
}

// routeIntent emits one decision per node of every wave, in wave order
func routeIntent(intent mesh.RuntimeIntent, outcome intentOutcome, policyID mesh.PolicyID) []mesh.RoutingDecision {
	score := mesh.Clamp(100-outcome.driftScore*25-float64(outcome.penalty)*10, 0, 100)

	decisions := make([]mesh.RoutingDecision, 0)
	for _, wave := range intent.Waves {
		for _, nodeID := range wave.NodeIDs {
			decisions = append(decisions, mesh.RoutingDecision{
				NodeID:   nodeID,
				PolicyID: policyID,
				Accepted: outcome.accepted,
				Reason:   fmt.Sprintf("wave-%d priority=%s policy=%s", wave.Index, intent.Priority, policyID),
				Score:    score,
			})
		}
	}
	return decisions
}

// schedule places intents into their target windows and scans reachability
// from the intents' nodes
func (p *Pipeline) schedule(ctx context.Context, graph *topology.CommandGraph, intents []mesh.RuntimeIntent) Schedule {
	windows := make([]mesh.PlanWindow, 0, len(intents))
	nodeIDs := make([]mesh.NodeID, 0)
	seen := make(map[mesh.NodeID]bool)
	for _, intent := range intents {
		windows = append(windows, intent.TargetWindow)
		for _, id := range intent.NodeIDs() {
			if !seen[id] {
				seen[id] = true
				nodeIDs = append(nodeIDs, id)
			}
		}
	}

	waves := scheduler.ScheduleWaveWindows(windows, intents)
	return Schedule{
		Waves:   waves,
		Windows: insights.SchedulingWindows(waves),
		Health: scheduler.BuildSchedulingHealth(ctx, graph.Adjacency, nodeIDs, scheduler.Options{
			MaxVisits: p.config.ScanBudget,
			Workers:   p.config.ScanWorkers,
		}),
	}
}

// checkRun aggregates the run's health checks; the worst status wins
func (p *Pipeline) checkRun(result Result, maxDrift float64, intents int) health.Response {
	checker := health.NewHealthChecker().WithClock(p.now)

	checker.RegisterCheck(health.CheckStructure, health.StructureCheck(func() (int, []string) {
		return result.Graph.NodeCount(), result.Structure.Errors
	}))
	checker.RegisterCheck(health.CheckValidation, health.ValidationCheck(func() (bool, float64, int) {
		return result.Validation.OK, result.Validation.Score, len(result.Validation.Issues)
	}))
	checker.RegisterCheck(health.CheckDrift, health.DriftCheck(func() (float64, int) {
		return maxDrift, intents
	}, p.config.DriftAcceptLimit, p.config.DriftWarnThreshold))
	checker.RegisterCheck(health.CheckScheduling, health.SchedulingCheck(func() (float64, bool, int64) {
		s := result.Schedule.Health
		return s.CoverageScore, s.Partial, s.Visits
	}))

	return checker.Check()
}

func (p *Pipeline) startStage(ctx context.Context, logger logging.Logger, stage string) (context.Context, func(...attribute.KeyValue)) {
	ctx, span := p.tracer.Start(ctx, "pipeline."+stage)
	timer := logging.StartTimer(logger, "Stage complete", logging.Stage(stage))

	return ctx, func(attrs ...attribute.KeyValue) {
		span.SetAttributes(attrs...)
		span.End()
		timer.End()
	}
}

func (p *Pipeline) record(result Result) {
	if p.metrics == nil {
		return
	}

	issueCodes := make(map[string]int)
	for code, n := range result.Validation.Issues.CountByCode() {
		issueCodes[string(code)] = n
	}
	driftKinds := make(map[string]int)
	for _, observations := range result.Drift {
		for _, obs := range observations {
			driftKinds[string(obs.Drift)]++
		}
	}

	p.metrics.RecordRun(metrics.RunObservation{
		Status:          string(result.Checks.Status),
		DurationSeconds: result.CompletedAt.Sub(result.StartedAt).Seconds(),
		Accepted:        result.Summary.AcceptedCount,
		Rejected:        result.Summary.RejectCount,
		IssueCodes:      issueCodes,
		DriftKinds:      driftKinds,
		HealthScore:     result.Health.Score,
		PartialScan:     result.Schedule.Health.Partial,
		Visits:          result.Schedule.Health.Visits,
	})
}

func (p *Pipeline) logRun(logger logging.Logger, result Result) {
	fields := []logging.Field{
		logging.String("status", string(result.Checks.Status)),
		logging.Count(result.Summary.Total),
		logging.Int("accepted", result.Summary.AcceptedCount),
		logging.Int("warnings", len(result.Warnings)),
		logging.Score(result.Health.Score),
		logging.Latency(result.CompletedAt.Sub(result.StartedAt)),
	}

	if result.Checks.Status != health.StatusHealthy {
		fields = append(fields, logging.Any("failing_checks", result.Checks.Unhealthy()))
		logger.Warn("Pipeline run degraded", fields...)
		return
	}
	logger.Info("Pipeline run complete", fields...)
}

func (p *Pipeline) publish(logger logging.Logger, envelope SignalEnvelope) {
	if p.bus == nil {
		return
	}
	delivered := p.bus.Publish(string(envelope.NetworkID), envelope)
	logger.Debug("Envelope published",
		logging.String("envelope_id", envelope.ID),
		logging.Int("subscribers", delivered),
	)
}
