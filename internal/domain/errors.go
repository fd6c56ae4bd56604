package domain

import (
	"errors"
	"fmt"
)

// Filesystem errors - mapped from OS errors by the executor
var (
	// ErrNotFound indicates the requested path does not exist
	ErrNotFound = errors.New("path not found")

	// ErrAlreadyExists indicates the path already exists
	ErrAlreadyExists = errors.New("path already exists")

	// ErrPermissionDenied indicates insufficient permissions
	ErrPermissionDenied = errors.New("permission denied")

	// ErrNotDirectory indicates expected a directory but got a file
	ErrNotDirectory = errors.New("not a directory")

	// ErrDirectoryNotEmpty indicates a directory delete hit remaining children
	ErrDirectoryNotEmpty = errors.New("directory not empty")

	// ErrPathEscapesRoot indicates a relative path resolved outside its root
	ErrPathEscapesRoot = errors.New("path escapes root")
)

// Config errors
var (
	// ErrConfigNotFound indicates config file not found
	ErrConfigNotFound = errors.New("config file not found")

	// ErrConfigInvalid indicates config file is malformed
	ErrConfigInvalid = errors.New("invalid config")
)

// ScanError reports a tree scan that could not complete: a missing root or
// an unlistable subtree. It is fatal to the whole sync; a partial scan is
// untrustworthy for diffing, so no operations are attempted.
type ScanError struct {
	// Path is the root or subdirectory that failed, relative to the
	// scanned root (empty for the root itself)
	Path string

	// Err is the underlying cause
	Err error
}

func (e *ScanError) Error() string {
	if e.Path == "" {
		return fmt.Sprintf("scan failed: %v", e.Err)
	}
	return fmt.Sprintf("scan failed at %q: %v", e.Path, e.Err)
}

func (e *ScanError) Unwrap() error {
	return e.Err
}

// ConfigError reports invalid pool parameters. It is fatal before any
// scan occurs.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%v: %s %s", ErrConfigInvalid, e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error {
	return ErrConfigInvalid
}

// OperationError reports a single failed create/copy/update/delete.
// It is non-fatal: the worker records it into the result and execution
// continues for all other operations.
type OperationError struct {
	// Op is the operation type that failed
	Op OpType

	// Path is the relative path the operation targeted
	Path string

	// Err is the underlying cause
	Err error
}

func (e *OperationError) Error() string {
	return fmt.Sprintf("%s %q: %v", e.Op, e.Path, e.Err)
}

func (e *OperationError) Unwrap() error {
	return e.Err
}
