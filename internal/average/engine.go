package average

import (
	"context"
	"fmt"
	"log/slog"
	"sync"

	"github.com/gradebook/gradebook/internal/metrics"
	"github.com/gradebook/gradebook/internal/record"
)

// Source is the record snapshot provider the engine computes over. The
// CSV-backed record.Store satisfies it.
type Source interface {
	List() ([]record.Record, error)
}

// Engine runs the worker pool. Sizing (worker count and queue capacity)
// comes from configuration and can be changed between invocations via
// Resize; a running invocation keeps the sizing it started with.
type Engine struct {
	mu        sync.Mutex
	workers   int
	queueSize int
	metrics   *metrics.Registry
}

// New creates an Engine with the given pool sizing. reg may be nil.
func New(workers, queueSize int, reg *metrics.Registry) *Engine {
	return &Engine{workers: workers, queueSize: queueSize, metrics: reg}
}

// Resize updates the pool sizing used by subsequent invocations. Zero or
// negative values are ignored, keeping the previous sizing.
func (e *Engine) Resize(workers, queueSize int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	if workers > 0 {
		e.workers = workers
	}
	if queueSize > 0 {
		e.queueSize = queueSize
	}
}

// Sizing returns the current worker count and queue capacity.
func (e *Engine) Sizing() (workers, queueSize int) {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.workers, e.queueSize
}

// Compute snapshots all records from src, distributes them over a fresh
// worker pool, and returns the per-roll-number averages.
//
// The result map holds one entry per record whose three scores all parsed;
// records that did not parse are absent, never nil. Per-record parse
// failures therefore never fail the operation — only a snapshot read error
// or a snapshot larger than the queue capacity does.
//
// The pool is spawned per invocation and fully joined before Compute
// returns; there is no cancellation mid-pool, so ctx is consulted only
// before any work starts.
func (e *Engine) Compute(ctx context.Context, src Source) (map[string]Result, error) {
	workers, queueSize := e.Sizing()

	if err := ctx.Err(); err != nil {
		return nil, fmt.Errorf("average: compute: %w", err)
	}

	recs, err := src.List()
	if err != nil {
		return nil, fmt.Errorf("average: snapshot records: %w", err)
	}

	q := NewQueue(queueSize)
	if err := q.Fill(recs); err != nil {
		return nil, err
	}

	results := NewResults()

	// An empty snapshot needs no pool at all.
	if len(recs) > 0 {
		var wg sync.WaitGroup
		wg.Add(workers)
		for i := 1; i <= workers; i++ {
			go func(id int) {
				defer wg.Done()
				runWorker(id, q, results)
			}(i)
		}
		wg.Wait()
	}

	computed := results.Len()
	skipped := len(recs) - computed
	e.metrics.ComputeFinished(computed, skipped)

	slog.Info("average: computation finished",
		"records", len(recs),
		"computed", computed,
		"skipped", skipped,
		"workers", workers,
	)
	return results.Snapshot(), nil
}

// runWorker drains the queue until empty. Each taken record is computed
// exactly once; skipped records are logged and leave no result entry.
func runWorker(id int, q *Queue, results *Results) {
	for {
		rec, ok := q.Take()
		if !ok {
			return
		}
		out := computeRecord(rec)
		if out.Skipped {
			slog.Warn("average: skipping record",
				"worker", id, "rollno", out.RollNo, "reason", out.Reason)
			continue
		}
		results.Set(out.RollNo, Result{Average: out.Average})
		slog.Debug("average: computed record",
			"worker", id, "rollno", out.RollNo, "average", out.Average)
	}
}
