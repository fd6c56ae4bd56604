// Package service composes the scanner, planner and worker pool into the
// engine's single entry point.
package service

import (
	"context"
	"time"

	"github.com/m0dd0/FolderSync/internal/core/diff"
	"github.com/m0dd0/FolderSync/internal/core/planner"
	"github.com/m0dd0/FolderSync/internal/core/pool"
	"github.com/m0dd0/FolderSync/internal/core/scanner"
	"github.com/m0dd0/FolderSync/internal/domain"
	"github.com/m0dd0/FolderSync/internal/fsio"
	"github.com/m0dd0/FolderSync/internal/logger"
	"github.com/m0dd0/FolderSync/internal/progress"
)

// SyncService runs one-way mirror syncs
type SyncService struct {
	cfg      domain.SyncConfig
	compare  string
	ignore   []string
	reporter progress.Reporter
}

// NewSyncService creates a sync service with the given pool parameters.
// Invalid parameters fail immediately with a *domain.ConfigError, before
// any scan occurs.
func NewSyncService(cfg domain.SyncConfig) (*SyncService, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &SyncService{cfg: cfg}, nil
}

// SetComparePolicy selects the file equality policy ("metadata" or
// "content"). The default is metadata comparison.
func (s *SyncService) SetComparePolicy(policy string) {
	s.compare = policy
}

// SetIgnorePatterns sets glob patterns excluded from both trees.
// Ignored paths are never touched in the target.
func (s *SyncService) SetIgnorePatterns(patterns []string) {
	s.ignore = patterns
}

// SetProgressReporter sets the progress reporter for execution
func (s *SyncService) SetProgressReporter(reporter progress.Reporter) {
	s.reporter = reporter
}

// Plan scans both trees and computes the operation plan without touching
// the target. Either scan failure aborts with a *domain.ScanError.
func (s *SyncService) Plan(sourceRoot, targetRoot string) (*domain.SyncPlan, error) {
	log := logger.Get()

	cmp, err := diff.ForPolicy(s.compare, sourceRoot, targetRoot)
	if err != nil {
		return nil, err
	}

	scan := scanner.New(s.ignore...)

	start := time.Now()
	source, err := scan.Scan(sourceRoot)
	if err != nil {
		log.Error("source scan failed", "root", sourceRoot, "error", err)
		return nil, err
	}

	target, err := scan.Scan(targetRoot)
	if err != nil {
		log.Error("target scan failed", "root", targetRoot, "error", err)
		return nil, err
	}

	plan := planner.BuildPlan(source, target, cmp)

	log.Info("sync plan created",
		"source_entries", len(source),
		"target_entries", len(target),
		"dirs_to_create", plan.Stats.DirsToCreate,
		"files_to_copy", plan.Stats.FilesToCopy,
		"files_to_update", plan.Stats.FilesToUpdate,
		"deletions", plan.Stats.FilesToDelete+plan.Stats.DirsToDelete,
		"unchanged", plan.Stats.Unchanged,
		"bytes_to_copy", plan.Stats.BytesToCopy,
		"duration", time.Since(start),
	)

	return plan, nil
}

// Execute runs a previously computed plan against the two roots
func (s *SyncService) Execute(ctx context.Context, sourceRoot, targetRoot string, plan *domain.SyncPlan) (*domain.SyncResult, error) {
	log := logger.Get()

	exec, err := fsio.NewExecutor(sourceRoot, targetRoot)
	if err != nil {
		return nil, err
	}

	workers, err := pool.New(s.cfg, exec)
	if err != nil {
		return nil, err
	}
	if s.reporter != nil {
		workers.SetReporter(s.reporter)
	}

	start := time.Now()
	result, err := workers.Run(ctx, plan)
	if err != nil {
		return result, err
	}

	log.Info("sync execution completed",
		"created", result.Created,
		"updated", result.Updated,
		"deleted", result.Deleted,
		"failed", len(result.Errors),
		"duration", time.Since(start),
	)

	return result, nil
}

// Sync plans and executes in one call
func (s *SyncService) Sync(ctx context.Context, sourceRoot, targetRoot string) (*domain.SyncResult, error) {
	plan, err := s.Plan(sourceRoot, targetRoot)
	if err != nil {
		return nil, err
	}
	return s.Execute(ctx, sourceRoot, targetRoot, plan)
}

// SyncFolders makes targetRoot an exact one-way mirror of sourceRoot.
//
// Fatal conditions (invalid config, failed scan) return an error with no
// operations performed. Per-operation failures never abort the run; they
// are collected into the returned result so a sync of many files with a
// few failures still converges everywhere else.
func SyncFolders(ctx context.Context, sourceRoot, targetRoot string, cfg domain.SyncConfig) (*domain.SyncResult, error) {
	svc, err := NewSyncService(cfg)
	if err != nil {
		return nil, err
	}
	return svc.Sync(ctx, sourceRoot, targetRoot)
}
