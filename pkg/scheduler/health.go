package scheduler

import (
	"context"
	"sort"

	"github.com/dd0wney/cluso-commandmesh/pkg/algorithms"
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
	"github.com/dd0wney/cluso-commandmesh/pkg/parallel"
	"github.com/dd0wney/cluso-commandmesh/pkg/topology"
)

// NodeReachability is how many other nodes one node can reach
type NodeReachability struct {
	NodeID    mesh.NodeID `json:"nodeId"`
	Reachable int         `json:"reachable"`
	// Complete is false when the scan from this node ran out of budget
	Complete bool `json:"complete"`
}

// SchedulingHealth is the outcome of BuildSchedulingHealth
type SchedulingHealth struct {
	Reachability  []NodeReachability `json:"reachability"`
	CoverageScore float64            `json:"coverageScore"`
	// Partial is set when cancellation or the visit budget cut the scan short
	Partial bool  `json:"partial"`
	Visits  int64 `json:"visits"`
}

// Options bounds the all-pairs reachability scan
type Options struct {
	// MaxVisits caps BFS node visits across all sources; 0 is unlimited
	MaxVisits int
	// Workers > 1 scans sources concurrently
	Workers int
}

type sourceScan struct {
	reachable int
	complete  bool
	scanned   bool
}

// BuildSchedulingHealth scans reachability from every node in adjacency and
// scores how well the graph covers the intent-referenced nodeIDs. Edge
// targets without an adjacency entry are not nodes and never count.
//
// Coverage for one intent node is its distinct one-hop targets divided by
// len(nodeIDs), capped at 1; CoverageScore is the mean over nodeIDs.
// The reachability list is sorted by reachable count descending, then id.
// Sources never scanned because of cancellation or budget exhaustion are
// left out and the result is marked Partial.
func BuildSchedulingHealth(ctx context.Context, adjacency map[mesh.NodeID][]mesh.Edge, nodeIDs []mesh.NodeID, opts Options) SchedulingHealth {
	graph := &topology.CommandGraph{Adjacency: adjacency}
	sources := graph.Nodes()
	budget := algorithms.NewBudget(opts.MaxVisits)

	scan := func(ctx context.Context, source mesh.NodeID) sourceScan {
		if ctx.Err() != nil || budget.Exhausted() {
			return sourceScan{}
		}
		reached, complete := algorithms.ReachableSet(graph, source, budget)
		return sourceScan{reachable: countNodes(graph, reached), complete: complete, scanned: true}
	}

	var scans []sourceScan
	if opts.Workers > 1 {
		// on cancellation Map still returns the scans that finished
		scans, _ = parallel.Map(ctx, opts.Workers, sources, scan)
	} else {
		scans = make([]sourceScan, len(sources))
		for i, source := range sources {
			scans[i] = scan(ctx, source)
		}
	}

	health := SchedulingHealth{
		Reachability:  make([]NodeReachability, 0, len(sources)),
		CoverageScore: coverageScore(adjacency, nodeIDs),
		Visits:        budget.Used(),
	}
	if opts.MaxVisits > 0 && health.Visits > int64(opts.MaxVisits) {
		health.Visits = int64(opts.MaxVisits)
	}

	for i, s := range scans {
		if !s.scanned || !s.complete {
			health.Partial = true
		}
		if !s.scanned {
			continue
		}
		health.Reachability = append(health.Reachability, NodeReachability{
			NodeID:    sources[i],
			Reachable: s.reachable,
			Complete:  s.complete,
		})
	}

	sort.SliceStable(health.Reachability, func(i, j int) bool {
		a, b := health.Reachability[i], health.Reachability[j]
		if a.Reachable != b.Reachable {
			return a.Reachable > b.Reachable
		}
		return a.NodeID < b.NodeID
	})

	return health
}

func coverageScore(adjacency map[mesh.NodeID][]mesh.Edge, nodeIDs []mesh.NodeID) float64 {
	if len(nodeIDs) == 0 {
		return 0
	}

	total := 0.0
	for _, id := range nodeIDs {
		targets := make(map[mesh.NodeID]bool)
		for _, edge := range adjacency[id] {
			if _, known := adjacency[edge.To]; known {
				targets[edge.To] = true
			}
		}
		total += mesh.Clamp(float64(len(targets))/float64(len(nodeIDs)), 0, 1)
	}
	return total / float64(len(nodeIDs))
}

// countNodes counts the reached ids that are graph nodes
func countNodes(graph *topology.CommandGraph, reached map[mesh.NodeID]bool) int {
	n := 0
	for id := range reached {
		if graph.HasNode(id) {
			n++
		}
	}
	return n
}
