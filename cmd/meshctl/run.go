package main

import (
	"errors"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-commandmesh/pkg/codec"
	"github.com/dd0wney/cluso-commandmesh/pkg/drift"
	"github.com/dd0wney/cluso-commandmesh/pkg/logging"
	"github.com/dd0wney/cluso-commandmesh/pkg/pipeline"
)

func newRunCmd(a *app) *cobra.Command {
	var (
		snapshots []string
		intents   string
		history   bool
	)

	cmd := &cobra.Command{
		Use:   "run",
		Short: "Run snapshots through the full pipeline",
		Long: `Run builds the graph, validates the snapshot, scores every intent into
routing decisions, scans reachability and prints the pipeline result.

Several --snapshot flags run as a batch against the same intents; the
output is then a list of results in flag order.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if len(snapshots) == 0 {
				return errors.New("at least one --snapshot is required")
			}

			runIntents, err := a.loadIntents(intents)
			if err != nil {
				return err
			}

			opts := []pipeline.Option{
				pipeline.WithLogger(a.logger),
				pipeline.WithMetrics(a.registry),
			}
			if history {
				opts = append(opts, pipeline.WithEvaluator(drift.NewHistoryEvaluator(drift.NewSyntheticEvaluator())))
			}
			p, err := pipeline.New(a.config, opts...)
			if err != nil {
				return err
			}

			jobs := make([]pipeline.Job, 0, len(snapshots))
			for _, path := range snapshots {
				snapshot, err := a.loadSnapshot(path)
				if err != nil {
					return err
				}
				jobs = append(jobs, pipeline.Job{Snapshot: snapshot, Intents: runIntents})
			}

			if len(jobs) == 1 {
				result := p.Run(cmd.Context(), jobs[0].Snapshot, jobs[0].Intents)
				if err := a.write(cmd, result, codec.KindResult); err != nil {
					return err
				}
				return a.finish(cmd)
			}

			results, err := p.RunBatch(cmd.Context(), jobs)
			if err != nil {
				return err
			}
			a.logger.Info("Batch complete", logging.Count(len(results)))
			if err := a.write(cmd, results, codec.KindResult); err != nil {
				return err
			}
			return a.finish(cmd)
		},
	}

	cmd.Flags().StringSliceVarP(&snapshots, "snapshot", "s", nil, "Snapshot file (repeatable)")
	cmd.Flags().StringVarP(&intents, "intents", "i", "", "Runtime intents file")
	cmd.Flags().BoolVar(&history, "history", false, "Score drift from the snapshot's recorded drifts, falling back to the synthetic model")
	return cmd
}
