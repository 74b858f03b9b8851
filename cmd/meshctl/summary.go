package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dd0wney/cluso-commandmesh/pkg/algorithms"
	"github.com/dd0wney/cluso-commandmesh/pkg/drift"
	"github.com/dd0wney/cluso-commandmesh/pkg/insights"
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
	"github.com/dd0wney/cluso-commandmesh/pkg/pipeline"
	"github.com/dd0wney/cluso-commandmesh/pkg/topology"
)

func newSummaryCmd(a *app) *cobra.Command {
	var snapshotPath string

	cmd := &cobra.Command{
		Use:   "summary",
		Short: "Print a short text summary of a snapshot's graph",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			snapshot, err := a.loadSnapshot(snapshotPath)
			if err != nil {
				return err
			}

			graph := topology.BuildGraph(snapshot)
			w := cmd.OutOrStdout()

			fmt.Fprintf(w, "network  %s\n", snapshot.NetworkID)
			fmt.Fprintf(w, "graph    %s\n", algorithms.FormatGraphSummary(graph))

			counts := topology.ComputeRoleCounts(snapshot.Nodes)
			roles := make([]string, 0, len(counts))
			for _, role := range mesh.AllRoles() {
				roles = append(roles, fmt.Sprintf("%s=%d", role, counts[role]))
			}
			fmt.Fprintf(w, "roles    %s\n", strings.Join(roles, " "))

			edgeHealth := insights.ComputeEdgeHealth(snapshot.Edges)
			fmt.Fprintf(w, "edges    %d/%d healthy (%.2f)\n", edgeHealth.HealthyEdges, edgeHealth.TotalEdges, edgeHealth.HealthyRatio)

			health := pipeline.CalculateMeshHealth(snapshot)
			fmt.Fprintf(w, "health   score=%.3f pressure=%.3f balance=%.3f\n",
				health.Score, health.PolicyPressure, drift.ScoreNodeBalance(snapshot))

			if root, ok := algorithms.CriticalPathRoot(graph); ok {
				fmt.Fprintf(w, "critical %s\n", joinIDs(algorithms.CriticalPath(graph, root)))
			}

			if order, err := algorithms.TopologicalSort(graph); err == nil {
				fmt.Fprintf(w, "order    %s\n", joinIDs(order))
			}
			if !algorithms.IsConnected(graph) {
				fmt.Fprintf(w, "islands  graph is not connected\n")
			}

			hubs := algorithms.TopHubs(graph, 3)
			if len(hubs) > 0 {
				parts := make([]string, len(hubs))
				for i, hub := range hubs {
					parts[i] = fmt.Sprintf("%s=%.2f", hub.NodeID, hub.Score)
				}
				fmt.Fprintf(w, "hubs     %s\n", strings.Join(parts, " "))
			}

			stats := algorithms.AnalyzeCycles(algorithms.DetectCycles(graph))
			fmt.Fprintf(w, "cycles   %d (self-loops %d)\n", stats.TotalCycles, stats.SelfLoops)
			for _, loop := range algorithms.FeedbackLoops(algorithms.StronglyConnectedGroups(graph)) {
				fmt.Fprintf(w, "loop     %s\n", joinIDs(loop.Nodes))
			}

			return a.finish(cmd)
		},
	}

	cmd.Flags().StringVarP(&snapshotPath, "snapshot", "s", "", "Snapshot file")
	_ = cmd.MarkFlagRequired("snapshot")
	return cmd
}

func joinIDs(ids []mesh.NodeID) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = string(id)
	}
	return strings.Join(parts, " -> ")
}
