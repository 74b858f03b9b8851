package pipeline

import (
	"context"

	"golang.org/x/sync/errgroup"

	"github.com/dd0wney/cluso-commandmesh/pkg/logging"
	"github.com/dd0wney/cluso-commandmesh/pkg/mesh"
)

// Job is one snapshot and its intents
type Job struct {
	Snapshot mesh.Snapshot        `json:"snapshot" yaml:"snapshot"`
	Intents  []mesh.RuntimeIntent `json:"intents" yaml:"intents"`
}

// RunBatch runs independent jobs concurrently, at most Config.Workers at a
// time. Results are returned in job order. The only error is the context's:
// once it is cancelled no further jobs start.
func (p *Pipeline) RunBatch(ctx context.Context, jobs []Job) ([]Result, error) {
	results := make([]Result, len(jobs))
	if p.metrics != nil {
		p.metrics.RecordBatch(len(jobs))
	}

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.config.Workers)

	for i, job := range jobs {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = p.Run(gCtx, job.Snapshot, job.Intents)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		p.logger.Warn("Batch cancelled", logging.Count(len(jobs)), logging.Error(err))
		return nil, err
	}

	p.logger.Debug("Batch complete", logging.Count(len(jobs)))
	return results, nil
}
