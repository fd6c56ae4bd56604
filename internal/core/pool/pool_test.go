package pool

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/m0dd0/FolderSync/internal/domain"
)

// recordingExec records applied operations in completion order and can
// be told to fail or to cancel a context on specific paths
type recordingExec struct {
	mu      sync.Mutex
	applied []domain.Operation
	fail    map[string]error
	onApply func(op domain.Operation)
}

func (e *recordingExec) Apply(ctx context.Context, op domain.Operation) error {
	if e.onApply != nil {
		e.onApply(op)
	}
	if err, ok := e.fail[op.Path]; ok {
		return err
	}
	e.mu.Lock()
	e.applied = append(e.applied, op)
	e.mu.Unlock()
	return nil
}

func (e *recordingExec) appliedPaths() []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	paths := make([]string, len(e.applied))
	for i, op := range e.applied {
		paths[i] = op.Path
	}
	return paths
}

func op(t domain.OpType, path string) domain.Operation {
	return domain.Operation{Type: t, Path: path, Depth: domain.PathDepth(path)}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := New(domain.SyncConfig{Threads: 0, OpsPerThread: 1}, &recordingExec{})

	var cfgErr *domain.ConfigError
	if !errors.As(err, &cfgErr) {
		t.Fatalf("expected *ConfigError, got %v", err)
	}
}

func TestRun_Counters(t *testing.T) {
	exec := &recordingExec{}
	p, err := New(domain.SyncConfig{Threads: 4, OpsPerThread: 2}, exec)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}

	plan := &domain.SyncPlan{Batches: []domain.Batch{
		{op(domain.OpCreateDir, "a")},
		{op(domain.OpCopyFile, "a/new.txt"), op(domain.OpUpdateFile, "a/changed.txt")},
		{op(domain.OpDeleteFile, "b/gone.txt")},
		{op(domain.OpDeleteDir, "b")},
	}}

	result, err := p.Run(context.Background(), plan)
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Created != 2 {
		t.Errorf("expected Created 2, got %d", result.Created)
	}
	if result.Updated != 1 {
		t.Errorf("expected Updated 1, got %d", result.Updated)
	}
	if result.Deleted != 2 {
		t.Errorf("expected Deleted 2, got %d", result.Deleted)
	}
	if !result.OK() {
		t.Errorf("expected no errors, got %v", result.Errors)
	}
}

func TestRun_ErrorsDoNotAbort(t *testing.T) {
	cause := errors.New("disk full")
	exec := &recordingExec{fail: map[string]error{"bad.txt": cause}}
	p, _ := New(domain.SyncConfig{Threads: 2, OpsPerThread: 1}, exec)

	batch := domain.Batch{}
	for i := 0; i < 10; i++ {
		batch = append(batch, op(domain.OpCopyFile, fmt.Sprintf("ok-%d.txt", i)))
	}
	batch = append(batch, op(domain.OpCopyFile, "bad.txt"))

	result, err := p.Run(context.Background(), &domain.SyncPlan{Batches: []domain.Batch{batch}})
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if len(result.Errors) != 1 {
		t.Fatalf("expected 1 error, got %d", len(result.Errors))
	}
	opErr := result.Errors[0]
	if opErr.Path != "bad.txt" || opErr.Op != domain.OpCopyFile {
		t.Errorf("unexpected error record: %+v", opErr)
	}
	if !errors.Is(opErr, cause) {
		t.Errorf("error record should unwrap to the cause")
	}
	if result.Created != 10 {
		t.Errorf("all other operations must still run, got Created %d", result.Created)
	}
}

func TestRun_BarrierBetweenBatches(t *testing.T) {
	exec := &recordingExec{}
	p, _ := New(domain.SyncConfig{Threads: 8, OpsPerThread: 3}, exec)

	var first, second domain.Batch
	firstPaths := make(map[string]bool)
	for i := 0; i < 20; i++ {
		path := fmt.Sprintf("first/%d", i)
		first = append(first, op(domain.OpCopyFile, path))
		firstPaths[path] = true
		second = append(second, op(domain.OpCopyFile, fmt.Sprintf("second/%d", i)))
	}

	if _, err := p.Run(context.Background(), &domain.SyncPlan{Batches: []domain.Batch{first, second}}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	paths := exec.appliedPaths()
	if len(paths) != 40 {
		t.Fatalf("expected 40 applied operations, got %d", len(paths))
	}
	for i, path := range paths[:20] {
		if !firstPaths[path] {
			t.Fatalf("operation %d (%s) from second batch ran before the barrier", i, path)
		}
	}
}

func TestRun_SingleThreadPreservesBatchOrder(t *testing.T) {
	exec := &recordingExec{}
	p, _ := New(domain.SyncConfig{Threads: 1, OpsPerThread: 2}, exec)

	batch := domain.Batch{}
	for i := 0; i < 7; i++ {
		batch = append(batch, op(domain.OpCopyFile, fmt.Sprintf("f-%d", i)))
	}

	if _, err := p.Run(context.Background(), &domain.SyncPlan{Batches: []domain.Batch{batch}}); err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	paths := exec.appliedPaths()
	for i, path := range paths {
		want := fmt.Sprintf("f-%d", i)
		if path != want {
			t.Errorf("position %d: expected %s, got %s", i, want, path)
		}
	}
}

func TestRun_CanceledBeforeStart(t *testing.T) {
	exec := &recordingExec{}
	p, _ := New(domain.SyncConfig{Threads: 2, OpsPerThread: 1}, exec)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	plan := &domain.SyncPlan{Batches: []domain.Batch{{op(domain.OpCopyFile, "x")}}}
	result, err := p.Run(ctx, plan)

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if len(exec.appliedPaths()) != 0 {
		t.Errorf("no operations may run after cancellation")
	}
	if result == nil {
		t.Errorf("partial result must still be returned")
	}
}

func TestRun_CancellationFinishesCurrentBatch(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())

	exec := &recordingExec{}
	exec.onApply = func(op domain.Operation) {
		// cancel while the first batch is in flight
		if op.Path == "first/0" {
			cancel()
		}
	}
	p, _ := New(domain.SyncConfig{Threads: 2, OpsPerThread: 1}, exec)

	first := domain.Batch{op(domain.OpCopyFile, "first/0"), op(domain.OpCopyFile, "first/1")}
	second := domain.Batch{op(domain.OpCopyFile, "second/0")}

	result, err := p.Run(ctx, &domain.SyncPlan{Batches: []domain.Batch{first, second}})

	if !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if result.Created != 2 {
		t.Errorf("current batch must finish, got Created %d", result.Created)
	}
	for _, path := range exec.appliedPaths() {
		if path == "second/0" {
			t.Errorf("batch after cancellation must not be submitted")
		}
	}
}
