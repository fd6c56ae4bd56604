package domain

// OpType represents the type of a planned filesystem operation
type OpType string

const (
	OpCreateDir  OpType = "create_dir"
	OpCopyFile   OpType = "copy_file"
	OpUpdateFile OpType = "update_file"
	OpDeleteFile OpType = "delete_file"
	OpDeleteDir  OpType = "delete_dir"
)

// IsDelete returns true for deletion operations
func (t OpType) IsDelete() bool {
	return t == OpDeleteFile || t == OpDeleteDir
}

// Operation is a single filesystem mutation needed to remove one difference.
// Operations are independent value records; no operation references another.
type Operation struct {
	// Type of operation to perform
	Type OpType

	// Path is the relative path being operated on
	Path string

	// Depth is the number of path separators, used for batch ordering
	Depth int

	// Size in bytes of the source file for copy/update (0 otherwise)
	Size int64
}

// Batch is a group of operations that are mutually independent and safe
// to execute in any interleaving.
type Batch []Operation

// SyncPlan is an ordered sequence of operation batches. Batch order encodes
// dependency order: every operation in batch i must finish before any
// operation in batch i+1 starts. A plan is immutable once built and is
// consumed exactly once by the worker pool.
type SyncPlan struct {
	Batches []Batch

	// Stats summary
	Stats PlanStats
}

// PlanStats provides summary statistics for a sync plan
type PlanStats struct {
	DirsToCreate  int
	FilesToCopy   int
	FilesToUpdate int
	FilesToDelete int
	DirsToDelete  int
	Unchanged     int
	BytesToCopy   int64
}

// Empty returns true if the plan contains no operations
func (p *SyncPlan) Empty() bool {
	return p.OperationCount() == 0
}

// OperationCount returns the total number of operations across all batches
func (p *SyncPlan) OperationCount() int {
	n := 0
	for _, b := range p.Batches {
		n += len(b)
	}
	return n
}
