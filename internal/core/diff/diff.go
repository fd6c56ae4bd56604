package diff

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/cespare/xxhash/v2"

	"github.com/m0dd0/FolderSync/internal/domain"
)

// Comparer decides whether the target copy of a file can be kept as is.
// Both entries are regular files at the same relative path; kind
// mismatches and missing entries are handled by the planner before a
// comparer is consulted.
type Comparer interface {
	Equal(src, tgt domain.Entry) (bool, error)
}

// MetadataComparer compares size and modification time without reading
// file bytes. It is the default policy: fast, but coarse filesystem
// timestamp resolution or clock skew can hide a real change.
type MetadataComparer struct{}

// NewMetadataComparer creates the default comparer
func NewMetadataComparer() *MetadataComparer {
	return &MetadataComparer{}
}

// Equal reports metadata equality. ModTime.Equal handles
// platform-specific timestamp precision.
func (c *MetadataComparer) Equal(src, tgt domain.Entry) (bool, error) {
	return src.Size == tgt.Size && src.ModTime.Equal(tgt.ModTime), nil
}

// ContentComparer compares file contents via streaming xxhash digests.
// Size is checked first so differently sized files never get read.
type ContentComparer struct {
	// SourceRoot and TargetRoot anchor the relative entry paths
	SourceRoot string
	TargetRoot string
}

// NewContentComparer creates a content comparer for the two roots
func NewContentComparer(sourceRoot, targetRoot string) *ContentComparer {
	return &ContentComparer{SourceRoot: sourceRoot, TargetRoot: targetRoot}
}

// Equal reports content equality by hashing both files
func (c *ContentComparer) Equal(src, tgt domain.Entry) (bool, error) {
	if src.Size != tgt.Size {
		return false, nil
	}

	srcSum, err := hashFile(filepath.Join(c.SourceRoot, filepath.FromSlash(src.Path)))
	if err != nil {
		return false, err
	}
	tgtSum, err := hashFile(filepath.Join(c.TargetRoot, filepath.FromSlash(tgt.Path)))
	if err != nil {
		return false, err
	}

	return srcSum == tgtSum, nil
}

// hashFile computes the xxhash digest of a file's contents
func hashFile(path string) (uint64, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, err
	}
	defer f.Close()

	h := xxhash.New()
	if _, err := io.Copy(h, f); err != nil {
		return 0, err
	}

	return h.Sum64(), nil
}

// ForPolicy returns the comparer for a named policy ("metadata" or
// "content"). The roots are only needed for the content policy.
func ForPolicy(policy, sourceRoot, targetRoot string) (Comparer, error) {
	switch policy {
	case "", "metadata":
		return NewMetadataComparer(), nil
	case "content":
		return NewContentComparer(sourceRoot, targetRoot), nil
	default:
		return nil, fmt.Errorf("%w: unknown compare policy: %s", domain.ErrConfigInvalid, policy)
	}
}
