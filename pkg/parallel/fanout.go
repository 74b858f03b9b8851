package parallel

import (
	"context"
	"fmt"
	"sync"

	"github.com/dd0wney/cluso-commandmesh/pkg/logging"
)

// Map applies fn to every item using a pool of workers and returns the
// results in input order.
//
// Items not yet started when ctx is cancelled are skipped and ctx.Err() is
// returned alongside whatever results were produced. A panic in fn is
// returned as an error for that run; the other items still complete.
func Map[T, R any](ctx context.Context, workers int, items []T, fn func(context.Context, T) R, opts ...Option) ([]R, error) {
	results := make([]R, len(items))
	if len(items) == 0 {
		return results, ctx.Err()
	}
	if workers > len(items) {
		workers = len(items)
	}

	pool, err := NewWorkerPool(workers, opts...)
	if err != nil {
		return nil, err
	}

	var (
		mu       sync.Mutex
		firstErr error
	)
	fail := func(err error) {
		mu.Lock()
		defer mu.Unlock()
		if firstErr == nil {
			firstErr = err
		}
	}

	for i, item := range items {
		i, item := i, item
		pool.Submit(func() {
			if ctx.Err() != nil {
				return
			}
			defer func() {
				if r := recover(); r != nil {
					pool.logger.Error("map task panicked", logging.Int("index", i), logging.Any("panic", fmt.Sprint(r)))
					fail(fmt.Errorf("parallel: item %d panicked: %v", i, r))
				}
			}()
			results[i] = fn(ctx, item)
		})
	}
	pool.Close()

	if err := ctx.Err(); err != nil {
		return results, err
	}
	return results, firstErr
}
