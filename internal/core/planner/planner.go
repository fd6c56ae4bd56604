// Package planner computes the minimal ordered operation plan that turns
// a target tree into a mirror of a source tree.
package planner

import (
	"sort"
	"strings"

	"github.com/m0dd0/FolderSync/internal/core/diff"
	"github.com/m0dd0/FolderSync/internal/domain"
)

// BuildPlan diffs two snapshots and returns the batched operation plan.
//
// Batch order encodes dependency order:
//  1. stale-entry deletions for paths whose kind changed, deep before
//     shallow, so a replacement never collides with a half-finished
//     deletion
//  2. creations and updates, shallow before deep, so a directory exists
//     before anything is written inside it
//  3. remaining deletions, deep before shallow, so a directory's contents
//     are removed before the directory itself
//
// Within one batch all operations are mutually independent; members are
// sorted by path so the same inputs always yield the same plan.
func BuildPlan(source, target domain.TreeSnapshot, cmp diff.Comparer) *domain.SyncPlan {
	plan := &domain.SyncPlan{}

	// Paths present in both trees with a different kind. The stale
	// target entry (and everything below it, if it is a directory)
	// must be gone before the new entry is created.
	kindChanged := make(map[string]bool)
	for path, src := range source {
		if tgt, ok := target[path]; ok && src.Type != tgt.Type {
			kindChanged[path] = true
		}
	}

	var preDeletes, creates, postDeletes []domain.Operation

	for path, src := range source {
		tgt, exists := target[path]

		switch {
		case !exists || kindChanged[path]:
			if exists {
				preDeletes = append(preDeletes, deleteOp(tgt))
				countDelete(&plan.Stats, tgt)
			}
			if src.IsDir() {
				creates = append(creates, domain.Operation{
					Type:  domain.OpCreateDir,
					Path:  path,
					Depth: src.Depth(),
				})
				plan.Stats.DirsToCreate++
			} else {
				creates = append(creates, domain.Operation{
					Type:  domain.OpCopyFile,
					Path:  path,
					Depth: src.Depth(),
					Size:  src.Size,
				})
				plan.Stats.FilesToCopy++
				plan.Stats.BytesToCopy += src.Size
			}

		case src.IsFile():
			equal, err := cmp.Equal(src, tgt)
			if err != nil {
				// an unreadable file counts as modified; the copy
				// surfaces the real error during execution
				equal = false
			}
			if equal {
				plan.Stats.Unchanged++
				continue
			}
			creates = append(creates, domain.Operation{
				Type:  domain.OpUpdateFile,
				Path:  path,
				Depth: src.Depth(),
				Size:  src.Size,
			})
			plan.Stats.FilesToUpdate++
			plan.Stats.BytesToCopy += src.Size

		default:
			// directory present on both sides, nothing to do
			plan.Stats.Unchanged++
		}
	}

	for path, tgt := range target {
		if _, exists := source[path]; exists {
			continue
		}
		op := deleteOp(tgt)
		countDelete(&plan.Stats, tgt)
		if underKindChange(path, kindChanged) {
			// orphaned descendant of a replaced directory: must be
			// removed before the replacement is created
			preDeletes = append(preDeletes, op)
		} else {
			postDeletes = append(postDeletes, op)
		}
	}

	plan.Batches = append(plan.Batches, batchByDepth(preDeletes, true)...)
	plan.Batches = append(plan.Batches, batchByDepth(creates, false)...)
	plan.Batches = append(plan.Batches, batchByDepth(postDeletes, true)...)

	return plan
}

func deleteOp(tgt domain.Entry) domain.Operation {
	opType := domain.OpDeleteFile
	if tgt.IsDir() {
		opType = domain.OpDeleteDir
	}
	return domain.Operation{
		Type:  opType,
		Path:  tgt.Path,
		Depth: tgt.Depth(),
	}
}

func countDelete(stats *domain.PlanStats, tgt domain.Entry) {
	if tgt.IsDir() {
		stats.DirsToDelete++
	} else {
		stats.FilesToDelete++
	}
}

// underKindChange reports whether the path, or any of its ancestors,
// is being replaced by an entry of the other kind
func underKindChange(path string, kindChanged map[string]bool) bool {
	if len(kindChanged) == 0 {
		return false
	}
	for {
		if kindChanged[path] {
			return true
		}
		idx := strings.LastIndexByte(path, '/')
		if idx < 0 {
			return false
		}
		path = path[:idx]
	}
}

// batchByDepth groups operations into one batch per depth. Creations run
// shallow first, deletions deep first.
func batchByDepth(ops []domain.Operation, deepFirst bool) []domain.Batch {
	if len(ops) == 0 {
		return nil
	}

	byDepth := make(map[int]domain.Batch)
	for _, op := range ops {
		byDepth[op.Depth] = append(byDepth[op.Depth], op)
	}

	depths := make([]int, 0, len(byDepth))
	for d := range byDepth {
		depths = append(depths, d)
	}
	sort.Ints(depths)
	if deepFirst {
		for i, j := 0, len(depths)-1; i < j; i, j = i+1, j-1 {
			depths[i], depths[j] = depths[j], depths[i]
		}
	}

	batches := make([]domain.Batch, 0, len(depths))
	for _, d := range depths {
		batch := byDepth[d]
		sort.Slice(batch, func(i, j int) bool {
			return batch[i].Path < batch[j].Path
		})
		batches = append(batches, batch)
	}
	return batches
}
