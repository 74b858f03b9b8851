package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-commandmesh/pkg/algorithms"
	"github.com/dd0wney/cluso-commandmesh/pkg/codec"
	"github.com/dd0wney/cluso-commandmesh/pkg/constraints"
	"github.com/dd0wney/cluso-commandmesh/pkg/logging"
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
	"github.com/dd0wney/cluso-commandmesh/pkg/topology"
)

// ErrValidationFailed is returned by validate --strict when issues were found
var ErrValidationFailed = errors.New("validation failed")

// validateOutput is what the validate command prints
type validateOutput struct {
	Structure     algorithms.StructureReport `json:"structure" yaml:"structure"`
	Validation    mesh.ValidationReport      `json:"validation" yaml:"validation"`
	IntentIssues  mesh.Issues                `json:"intentIssues" yaml:"intentIssues"`
	IssuesByClass map[mesh.IssueClass]int    `json:"issuesByClass" yaml:"issuesByClass"`
}

func newValidateCmd(a *app) *cobra.Command {
	var (
		snapshotPath string
		intentsPath  string
		strict       bool
	)

	cmd := &cobra.Command{
		Use:   "validate",
		Short: "Validate a snapshot and, optionally, intents against it",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := a.loadSnapshot(snapshotPath)
			if err != nil {
				return err
			}
			intents, err := a.loadIntents(intentsPath)
			if err != nil {
				return err
			}

			out := validateOutput{
				Structure:     algorithms.ValidateGraphStructure(topology.BuildGraph(snapshot)),
				Validation:    constraints.ValidateSnapshot(snapshot),
				IntentIssues:  make(mesh.Issues, 0),
				IssuesByClass: make(map[mesh.IssueClass]int),
			}
			if len(intents) > 0 {
				out.IntentIssues = constraints.ValidateRuntimeIntents(snapshot, intents)
			}
			for _, issue := range append(out.Validation.Issues, out.IntentIssues...) {
				out.IssuesByClass[issue.Class]++
			}

			a.logger.Info("Snapshot validated",
				logging.NetworkID(snapshot.NetworkID),
				logging.Score(out.Validation.Score),
				logging.Int("issues", len(out.Validation.Issues)),
				logging.Int("intent_issues", len(out.IntentIssues)),
			)

			if err := a.write(cmd, out, codec.KindResult); err != nil {
				return err
			}
			if err := a.finish(cmd); err != nil {
				return err
			}

			failed := !out.Structure.OK || !out.Validation.OK || len(out.IntentIssues) > 0
			if strict && failed {
				return fmt.Errorf("%w: %d snapshot issues, %d intent issues",
					ErrValidationFailed, len(out.Validation.Issues), len(out.IntentIssues))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "", "Snapshot file")
	cmd.Flags().StringVarP(&intentsPath, "intents", "i", "", "Runtime intents file")
	cmd.Flags().BoolVar(&strict, "strict", false, "Exit non-zero when any issue is found")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}
