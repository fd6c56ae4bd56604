// Package fsio applies plan operations to the local filesystem.
package fsio

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/m0dd0/FolderSync/internal/domain"
)

// Executor performs single plan operations beneath a source and target
// root. All paths it receives are relative; resolution is confined to
// the respective root.
type Executor struct {
	sourceRoot string
	targetRoot string
}

// NewExecutor creates an executor for the two roots.
// Both must be existing directories.
func NewExecutor(sourceRoot, targetRoot string) (*Executor, error) {
	absSource, err := checkRoot(sourceRoot)
	if err != nil {
		return nil, fmt.Errorf("source root: %w", err)
	}
	absTarget, err := checkRoot(targetRoot)
	if err != nil {
		return nil, fmt.Errorf("target root: %w", err)
	}

	return &Executor{sourceRoot: absSource, targetRoot: absTarget}, nil
}

func checkRoot(root string) (string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return "", err
	}
	info, err := os.Stat(abs)
	if err != nil {
		return "", mapError(err)
	}
	if !info.IsDir() {
		return "", domain.ErrNotDirectory
	}
	return abs, nil
}

// Apply executes one operation. A started operation always runs to
// completion; cancellation happens between batches in the pool, never
// mid-write, so a truncated file is never left at a final path.
func (e *Executor) Apply(ctx context.Context, op domain.Operation) error {
	switch op.Type {
	case domain.OpCreateDir:
		return e.createDir(op.Path)
	case domain.OpCopyFile, domain.OpUpdateFile:
		return e.copyFile(op.Path)
	case domain.OpDeleteFile, domain.OpDeleteDir:
		return e.delete(op.Path)
	default:
		return fmt.Errorf("unknown operation type: %s", op.Type)
	}
}

func (e *Executor) createDir(rel string) error {
	dst, err := resolve(e.targetRoot, rel)
	if err != nil {
		return err
	}
	return mapError(os.MkdirAll(dst, 0755))
}

// copyFile copies a source file to the target, propagating the source
// modification time. The write goes to a temp file in the destination
// directory first and is renamed into place, so a crashed copy never
// leaves a truncated file at the final path.
func (e *Executor) copyFile(rel string) error {
	src, err := resolve(e.sourceRoot, rel)
	if err != nil {
		return err
	}
	dst, err := resolve(e.targetRoot, rel)
	if err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return mapError(err)
	}
	defer in.Close()

	info, err := in.Stat()
	if err != nil {
		return mapError(err)
	}

	tmp := dst + ".foldersync.tmp"
	out, err := os.Create(tmp)
	if err != nil {
		return mapError(err)
	}

	_, copyErr := io.Copy(out, in)
	closeErr := out.Close()

	if copyErr != nil {
		os.Remove(tmp)
		return mapError(copyErr)
	}
	if closeErr != nil {
		os.Remove(tmp)
		return mapError(closeErr)
	}

	// mirror contract: target mtime must equal source mtime
	if err := os.Chtimes(tmp, info.ModTime(), info.ModTime()); err != nil {
		os.Remove(tmp)
		return mapError(err)
	}

	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return mapError(err)
	}

	return nil
}

// delete removes a file or an empty directory. Directory contents are
// removed by deeper batches before the directory's own deletion runs.
func (e *Executor) delete(rel string) error {
	dst, err := resolve(e.targetRoot, rel)
	if err != nil {
		return err
	}
	return mapError(os.Remove(dst))
}

// resolve safely resolves a relative path within root, rejecting
// anything that would escape it
func resolve(root, rel string) (string, error) {
	if rel == "" || rel == "." {
		return root, nil
	}

	rel = filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(rel) {
		return "", domain.ErrPathEscapesRoot
	}

	full := filepath.Join(root, rel)

	back, err := filepath.Rel(root, full)
	if err != nil || back == ".." || strings.HasPrefix(back, ".."+string(filepath.Separator)) {
		return "", domain.ErrPathEscapesRoot
	}

	return full, nil
}

// mapError converts OS errors to domain errors
func mapError(err error) error {
	if err == nil {
		return nil
	}

	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %v", domain.ErrNotFound, err)
	}
	if os.IsPermission(err) {
		return fmt.Errorf("%w: %v", domain.ErrPermissionDenied, err)
	}
	if os.IsExist(err) {
		return fmt.Errorf("%w: %v", domain.ErrAlreadyExists, err)
	}

	var pathErr *os.PathError
	if errors.As(err, &pathErr) && strings.Contains(pathErr.Err.Error(), "not empty") {
		return fmt.Errorf("%w: %v", domain.ErrDirectoryNotEmpty, err)
	}

	return err
}
