// Package pool executes a sync plan across a fixed set of concurrent
// workers while preserving the plan's batch ordering.
package pool

import (
	"context"
	"sync"
	"sync/atomic"

	"github.com/m0dd0/FolderSync/internal/domain"
	"github.com/m0dd0/FolderSync/internal/logger"
	"github.com/m0dd0/FolderSync/internal/progress"
)

// Executor performs a single plan operation
type Executor interface {
	Apply(ctx context.Context, op domain.Operation) error
}

// Pool distributes plan batches over worker goroutines. Operations of
// the current batch are handed out in contiguous chunks of OpsPerThread;
// a worker runs its chunk sequentially, then pulls the next one until
// the batch is drained. All workers join a barrier before the next batch
// starts, which is what enforces the plan's dependency order.
type Pool struct {
	cfg      domain.SyncConfig
	exec     Executor
	reporter progress.Reporter
}

// New creates a pool, validating the configuration
func New(cfg domain.SyncConfig, exec Executor) (*Pool, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &Pool{
		cfg:      cfg,
		exec:     exec,
		reporter: progress.NullReporter{},
	}, nil
}

// SetReporter sets the progress reporter for subsequent runs
func (p *Pool) SetReporter(r progress.Reporter) {
	if r != nil {
		p.reporter = r
	}
}

// Run executes the plan and returns the aggregated result. Per-operation
// failures are recorded into the result and never abort the run; the only
// early exit is context cancellation, which is honored between batches so
// the running batch always completes. On cancellation the partial result
// is returned together with ctx.Err().
func (p *Pool) Run(ctx context.Context, plan *domain.SyncPlan) (*domain.SyncResult, error) {
	acc := &accumulator{reporter: p.reporter}
	p.reporter.SetTotal(plan.OperationCount())

	for i, batch := range plan.Batches {
		if err := ctx.Err(); err != nil {
			logger.Get().Warn("sync canceled, remaining batches skipped",
				"completed_batches", i,
				"total_batches", len(plan.Batches),
			)
			return acc.result(), err
		}
		p.runBatch(ctx, batch, acc)
	}

	p.reporter.Finish()
	return acc.result(), nil
}

// runBatch drains one batch through the worker set and waits for the
// inter-batch barrier
func (p *Pool) runBatch(ctx context.Context, batch domain.Batch, acc *accumulator) {
	chunkSize := p.cfg.OpsPerThread

	workers := p.cfg.Threads
	if needed := (len(batch) + chunkSize - 1) / chunkSize; workers > needed {
		workers = needed
	}
	if workers == 0 {
		return
	}

	chunks := make(chan domain.Batch)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for chunk := range chunks {
				for _, op := range chunk {
					p.apply(ctx, op, acc)
				}
			}
		}()
	}

	for start := 0; start < len(batch); start += chunkSize {
		end := start + chunkSize
		if end > len(batch) {
			end = len(batch)
		}
		chunks <- batch[start:end]
	}
	close(chunks)

	wg.Wait()
}

func (p *Pool) apply(ctx context.Context, op domain.Operation, acc *accumulator) {
	if err := p.exec.Apply(ctx, op); err != nil {
		logger.Get().Warn("operation failed",
			"op", string(op.Type),
			"path", op.Path,
			"error", err,
		)
		acc.recordError(&domain.OperationError{Op: op.Type, Path: op.Path, Err: err})
		return
	}
	acc.recordSuccess(op)
}

// accumulator is the only shared mutable state between workers: atomic
// counters plus a mutex-guarded error slice.
type accumulator struct {
	created  atomic.Uint64
	updated  atomic.Uint64
	deleted  atomic.Uint64
	reporter progress.Reporter

	mu     sync.Mutex
	errors []*domain.OperationError
}

func (a *accumulator) recordSuccess(op domain.Operation) {
	switch op.Type {
	case domain.OpCreateDir, domain.OpCopyFile:
		a.created.Add(1)
	case domain.OpUpdateFile:
		a.updated.Add(1)
	case domain.OpDeleteFile, domain.OpDeleteDir:
		a.deleted.Add(1)
	}
	a.reporter.Complete(op.Path)
}

func (a *accumulator) recordError(opErr *domain.OperationError) {
	a.mu.Lock()
	a.errors = append(a.errors, opErr)
	a.mu.Unlock()
	a.reporter.Error(opErr.Path, opErr.Err)
}

func (a *accumulator) result() *domain.SyncResult {
	a.mu.Lock()
	defer a.mu.Unlock()
	return &domain.SyncResult{
		Created: a.created.Load(),
		Updated: a.updated.Load(),
		Deleted: a.deleted.Load(),
		Errors:  a.errors,
	}
}
