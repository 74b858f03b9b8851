// Package parallel runs independent units of work, such as per-node
// reachability scans, on a bounded set of goroutines.
package parallel

import (
	"errors"
	"fmt"
	"math"
	"sync"
	"sync/atomic"

	"github.com/dd0wney/cluso-commandmesh/pkg/logging"
)

// WorkerPool manages a pool of worker goroutines
type WorkerPool struct {
	workers   int
	taskQueue chan func()
	wg        sync.WaitGroup
	once      sync.Once
	mu        sync.RWMutex // guards taskQueue against close during send
	closed    bool
	logger    logging.Logger
	panics    atomic.Int64
}

// ErrTooManyWorkers is returned when the worker count exceeds the maximum allowed.
var ErrTooManyWorkers = errors.New("worker count exceeds maximum")

// MaxWorkers is the maximum number of workers allowed in a pool.
const MaxWorkers = math.MaxInt / 2

// Option configures a WorkerPool
type Option func(*WorkerPool)

// WithLogger sets the logger used to report recovered task panics
func WithLogger(logger logging.Logger) Option {
	return func(wp *WorkerPool) {
		wp.logger = logger
	}
}

// NewWorkerPool creates a pool with the given number of workers.
// Counts below one are raised to one; counts above MaxWorkers are rejected.
func NewWorkerPool(workers int, opts ...Option) (*WorkerPool, error) {
	if workers <= 0 {
		workers = 1
	}

	if workers > MaxWorkers {
		return nil, fmt.Errorf("%w: %d exceeds %d", ErrTooManyWorkers, workers, MaxWorkers)
	}

	pool := &WorkerPool{
		workers:   workers,
		taskQueue: make(chan func(), workers*2),
		logger:    logging.NewNopLogger(),
	}
	for _, opt := range opts {
		opt(pool)
	}

	pool.start()
	return pool, nil
}

func (wp *WorkerPool) start() {
	for i := 0; i < wp.workers; i++ {
		wp.wg.Add(1)
		go wp.worker(i)
	}
}

func (wp *WorkerPool) worker(id int) {
	defer wp.wg.Done()

	for task := range wp.taskQueue {
		wp.run(id, task)
	}
}

// run executes one task; a panicking task is logged and does not kill the worker
func (wp *WorkerPool) run(id int, task func()) {
	defer func() {
		if r := recover(); r != nil {
			wp.panics.Add(1)
			wp.logger.Error("worker task panicked",
				logging.Component("parallel"),
				logging.Int("worker", id),
				logging.Any("panic", fmt.Sprint(r)))
		}
	}()
	task()
}

// Submit queues a task. It returns false if the pool is closed.
func (wp *WorkerPool) Submit(task func()) bool {
	wp.mu.RLock()
	defer wp.mu.RUnlock()

	if wp.closed {
		return false
	}

	wp.taskQueue <- task
	return true
}

// Workers returns the number of worker goroutines
func (wp *WorkerPool) Workers() int {
	return wp.workers
}

// Panics returns how many tasks panicked so far
func (wp *WorkerPool) Panics() int64 {
	return wp.panics.Load()
}

// Close stops accepting tasks and waits for queued tasks to finish.
// It is safe to call more than once.
func (wp *WorkerPool) Close() {
	wp.once.Do(func() {
		wp.mu.Lock()
		wp.closed = true
		close(wp.taskQueue)
		wp.mu.Unlock()
	})
	wp.wg.Wait()
}

// Wait is an alias for Close
func (wp *WorkerPool) Wait() {
	wp.Close()
}
