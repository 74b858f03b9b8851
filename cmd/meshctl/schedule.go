package main

import (
	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-commandmesh/pkg/codec"
	"github.com/dd0wney/cluso-commandmesh/pkg/insights"
	"github.com/dd0wney/cluso-commandmesh/pkg/logging"
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
	"github.com/dd0wney/cluso-commandmesh/pkg/scheduler"
	"github.com/dd0wney/cluso-commandmesh/pkg/topology"
)

// scheduleOutput is what the schedule command prints
type scheduleOutput struct {
	Waves     []mesh.Wave                `json:"waves" yaml:"waves"`
	Windows   insights.WindowAggregate   `json:"windows" yaml:"windows"`
	Health    scheduler.SchedulingHealth `json:"health" yaml:"health"`
	WaveLoads []scheduler.WaveLoad       `json:"waveLoads" yaml:"waveLoads"`
}

func newScheduleCmd(a *app) *cobra.Command {
	var (
		snapshotPath string
		intentsPath  string
	)

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Assign intents to waves and score reachability coverage",
		Long: `Schedule places every intent into the plan windows of all intents,
round-robin by start time, estimates load for the snapshot's waves and
scans reachability from the intents' nodes. The scan honours the
scan_budget and scan_workers config settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := a.loadSnapshot(snapshotPath)
			if err != nil {
				return err
			}
			intents, err := a.loadIntents(intentsPath)
			if err != nil {
				return err
			}

			windows := make([]mesh.PlanWindow, 0, len(intents))
			nodeIDs := make([]mesh.NodeID, 0)
			for _, intent := range intents {
				windows = append(windows, intent.TargetWindow)
				nodeIDs = append(nodeIDs, intent.NodeIDs()...)
			}

			waves := scheduler.ScheduleWaveWindows(windows, intents)
			graph := topology.BuildGraph(snapshot)
			out := scheduleOutput{
				Waves:   waves,
				Windows: insights.SchedulingWindows(waves),
				Health: scheduler.BuildSchedulingHealth(cmd.Context(), graph.Adjacency, dedupe(nodeIDs), scheduler.Options{
					MaxVisits: a.config.ScanBudget,
					Workers:   a.config.ScanWorkers,
				}),
				WaveLoads: scheduler.EstimateWaveLoads(snapshot.Waves, snapshot.Edges),
			}

			if out.Health.Partial {
				a.logger.Warn("Reachability scan incomplete", logging.Int64("visits", out.Health.Visits))
			}
			if err := a.write(cmd, out, codec.KindResult); err != nil {
				return err
			}
			return a.finish(cmd)
		},
	}

	cmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "", "Snapshot file")
	cmd.Flags().StringVarP(&intentsPath, "intents", "i", "", "Runtime intents file")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}

func dedupe(ids []mesh.NodeID) []mesh.NodeID {
	seen := make(map[mesh.NodeID]bool, len(ids))
	out := make([]mesh.NodeID, 0, len(ids))
	for _, id := range ids {
		if !seen[id] {
			seen[id] = true
			out = append(out, id)
		}
	}
	return out
}
