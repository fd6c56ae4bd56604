package domain

// Default worker pool parameters, applied when a config leaves them unset.
const (
	DefaultThreads      = 100
	DefaultOpsPerThread = 10
)

// SyncConfig holds the worker pool parameters for one sync run.
// It is a pure value: passed explicitly, never mutated after construction.
type SyncConfig struct {
	// Threads is the number of concurrent workers
	Threads int

	// OpsPerThread is the number of operations handed to a worker
	// before it requests more work from the current batch
	OpsPerThread int
}

// DefaultSyncConfig returns the documented default pool parameters
func DefaultSyncConfig() SyncConfig {
	return SyncConfig{
		Threads:      DefaultThreads,
		OpsPerThread: DefaultOpsPerThread,
	}
}

// Validate checks the pool parameters, returning a *ConfigError on failure
func (c SyncConfig) Validate() error {
	if c.Threads <= 0 {
		return &ConfigError{Field: "threads", Reason: "must be greater than zero"}
	}
	if c.OpsPerThread <= 0 {
		return &ConfigError{Field: "ops_per_thread", Reason: "must be greater than zero"}
	}
	return nil
}

// SyncResult summarizes one execution of a sync plan. It is assembled
// incrementally by the worker pool and owned by the orchestrator once
// returned.
type SyncResult struct {
	// Created counts directories created and files copied
	Created uint64

	// Updated counts files overwritten because they differed
	Updated uint64

	// Deleted counts files and directories removed
	Deleted uint64

	// Errors holds the per-path failures, in completion order.
	// A non-empty slice means some paths did not converge; all
	// independent paths were still processed.
	Errors []*OperationError
}

// OK returns true if every operation succeeded
func (r *SyncResult) OK() bool {
	return len(r.Errors) == 0
}
