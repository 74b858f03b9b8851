package parallel

import (
	"errors"
	"math"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/dd0wney/cluso-commandmesh/pkg/logging"
)

func newPool(t *testing.T, workers int, opts ...Option) *WorkerPool {
	t.Helper()
	pool, err := NewWorkerPool(workers, opts...)
	if err != nil {
		t.Fatalf("NewWorkerPool(%d) failed: %v", workers, err)
	}
	return pool
}

// TestWorkerPoolBasicOperations tests basic worker pool functionality
func TestWorkerPoolBasicOperations(t *testing.T) {
	pool := newPool(t, 4)

	var executed atomic.Bool
	if !pool.Submit(func() { executed.Store(true) }) {
		t.Error("Task submission failed")
	}

	pool.Close()

	if !executed.Load() {
		t.Error("Task was not executed")
	}
}

func TestWorkerPoolSizing(t *testing.T) {
	tests := []struct {
		requested int
		expected  int
	}{
		{-5, 1},
		{0, 1},
		{1, 1},
		{16, 16},
	}

	for _, tt := range tests {
		pool := newPool(t, tt.requested)
		if pool.Workers() != tt.expected {
			t.Errorf("NewWorkerPool(%d).Workers() = %d, want %d", tt.requested, pool.Workers(), tt.expected)
		}
		if cap(pool.taskQueue) != tt.expected*2 {
			t.Errorf("queue capacity = %d, want %d", cap(pool.taskQueue), tt.expected*2)
		}
		pool.Close()
	}
}

func TestWorkerPoolOverflow(t *testing.T) {
	_, err := NewWorkerPool(math.MaxInt)
	if !errors.Is(err, ErrTooManyWorkers) {
		t.Errorf("Expected ErrTooManyWorkers, got %v", err)
	}
}

// TestWorkerPoolConcurrentSubmissions tests concurrent task submissions
func TestWorkerPoolConcurrentSubmissions(t *testing.T) {
	pool := newPool(t, 10)

	numTasks := 100
	var counter int64

	var wg sync.WaitGroup
	for i := 0; i < numTasks; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Submit(func() {
				atomic.AddInt64(&counter, 1)
			})
		}()
	}

	wg.Wait()
	pool.Close()

	if counter != int64(numTasks) {
		t.Errorf("Expected counter %d, got %d", numTasks, counter)
	}
}

// TestWorkerPoolCloseRace checks that closing while submitting doesn't panic
func TestWorkerPoolCloseRace(t *testing.T) {
	for iteration := 0; iteration < 50; iteration++ {
		pool := newPool(t, 4)

		var wg sync.WaitGroup
		for i := 0; i < 10; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				for j := 0; j < 10; j++ {
					pool.Submit(func() {
						time.Sleep(time.Millisecond)
					})
				}
			}()
		}

		time.Sleep(2 * time.Millisecond)
		pool.Close()
		wg.Wait()
	}
}

func TestWorkerPoolSubmitAfterClose(t *testing.T) {
	pool := newPool(t, 4)
	pool.Close()

	if pool.Submit(func() { t.Error("This task should never execute") }) {
		t.Error("Task submission after close should return false")
	}
}

// TestWorkerPoolConcurrentClose tests concurrent close calls
func TestWorkerPoolConcurrentClose(t *testing.T) {
	pool := newPool(t, 4)
	for i := 0; i < 20; i++ {
		pool.Submit(func() { time.Sleep(time.Millisecond) })
	}

	var wg sync.WaitGroup
	for i := 0; i < 10; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			pool.Close()
		}()
	}
	wg.Wait()
	pool.Wait()
}

// TestWorkerPoolWithPanic tests that panics in tasks don't crash the pool
func TestWorkerPoolWithPanic(t *testing.T) {
	rec := logging.NewRecorder()
	pool := newPool(t, 2, WithLogger(rec))

	var counter int64
	for i := 0; i < 5; i++ {
		pool.Submit(func() { panic("intentional panic") })
	}
	for i := 0; i < 10; i++ {
		pool.Submit(func() { atomic.AddInt64(&counter, 1) })
	}
	pool.Close()

	if counter != 10 {
		t.Errorf("Expected counter 10, got %d", counter)
	}
	if pool.Panics() != 5 {
		t.Errorf("Panics() = %d, want 5", pool.Panics())
	}
	if got := len(rec.AtLevel(logging.ErrorLevel)); got != 5 {
		t.Errorf("logged %d panics, want 5", got)
	}
}

func BenchmarkWorkerPoolThroughput(b *testing.B) {
	pool, _ := NewWorkerPool(10)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		pool.Submit(func() {})
	}
	pool.Close()
}
