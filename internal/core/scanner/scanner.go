// Package scanner walks a directory tree into a point-in-time metadata
// snapshot used for diffing.
package scanner

import (
	"os"
	"path"
	"path/filepath"

	"github.com/m0dd0/FolderSync/internal/domain"
)

// Scanner builds tree snapshots of a local directory root
type Scanner struct {
	// Ignore lists glob patterns; matching paths are skipped entirely,
	// including the subtree below a matching directory
	Ignore []string
}

// New creates a scanner with the given ignore patterns
func New(ignore ...string) *Scanner {
	return &Scanner{Ignore: ignore}
}

// Scan walks the tree rooted at root and returns its snapshot.
// The walk is iterative via an explicit work stack, so depth is bounded
// by memory rather than the call stack. Regular files record size and
// mtime, directories record their presence, everything else (symlinks,
// devices, sockets) is skipped silently. A missing root or an unlistable
// subdirectory is fatal and returns a *domain.ScanError: a scan that
// cannot complete is untrustworthy for diffing.
func (s *Scanner) Scan(root string) (domain.TreeSnapshot, error) {
	absRoot, err := filepath.Abs(root)
	if err != nil {
		return nil, &domain.ScanError{Err: err}
	}

	info, err := os.Stat(absRoot)
	if err != nil {
		return nil, &domain.ScanError{Err: err}
	}
	if !info.IsDir() {
		return nil, &domain.ScanError{Err: domain.ErrNotDirectory}
	}

	snapshot := make(domain.TreeSnapshot)

	// stack of directory paths relative to root, "" meaning the root
	stack := []string{""}

	for len(stack) > 0 {
		dir := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		entries, err := os.ReadDir(filepath.Join(absRoot, filepath.FromSlash(dir)))
		if err != nil {
			return nil, &domain.ScanError{Path: dir, Err: err}
		}

		for _, entry := range entries {
			rel := path.Join(dir, entry.Name())
			if s.ignored(rel) {
				continue
			}

			switch {
			case entry.IsDir():
				snapshot[rel] = domain.Entry{
					Path: rel,
					Type: domain.EntryDirectory,
				}
				stack = append(stack, rel)

			case entry.Type().IsRegular():
				fi, err := entry.Info()
				if err != nil {
					return nil, &domain.ScanError{Path: rel, Err: err}
				}
				snapshot[rel] = domain.Entry{
					Path:    rel,
					Type:    domain.EntryFile,
					Size:    fi.Size(),
					ModTime: fi.ModTime(),
				}

			default:
				// symlink, device, socket: not part of the mirror
			}
		}
	}

	return snapshot, nil
}

// ignored checks a relative path against the ignore patterns, matching
// both the base name and the full path
func (s *Scanner) ignored(rel string) bool {
	for _, pattern := range s.Ignore {
		if matched, err := path.Match(pattern, path.Base(rel)); err == nil && matched {
			return true
		}
		if matched, err := path.Match(pattern, rel); err == nil && matched {
			return true
		}
	}
	return false
}
