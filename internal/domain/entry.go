package domain

import (
	"strings"
	"time"
)

// EntryType represents the type of a filesystem entry
type EntryType int

const (
	EntryFile EntryType = iota
	EntryDirectory
)

// String returns a human-readable name for the entry type
func (t EntryType) String() string {
	switch t {
	case EntryFile:
		return "file"
	case EntryDirectory:
		return "directory"
	default:
		return "unknown"
	}
}

// Entry represents metadata about a file or directory
type Entry struct {
	// Path is the relative path from the scanned root, forward slashes
	Path string

	// Type indicates if this is a file or a directory
	Type EntryType

	// Size in bytes (0 for directories)
	Size int64

	// ModTime is the last modification time (zero for directories)
	ModTime time.Time
}

// IsDir returns true if this is a directory
func (e Entry) IsDir() bool {
	return e.Type == EntryDirectory
}

// IsFile returns true if this is a regular file
func (e Entry) IsFile() bool {
	return e.Type == EntryFile
}

// Depth returns the number of path separators in the entry path
func (e Entry) Depth() int {
	return PathDepth(e.Path)
}

// PathDepth returns the number of separators in a relative slash path.
// Top-level entries have depth 0.
func PathDepth(path string) int {
	return strings.Count(path, "/")
}

// TreeSnapshot maps relative paths to their metadata for one scanned tree.
// A snapshot is built once by the scanner and never mutated afterwards.
type TreeSnapshot map[string]Entry
