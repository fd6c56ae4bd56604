package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/m0dd0/FolderSync/internal/domain"
	"github.com/m0dd0/FolderSync/internal/testutil"
)

func TestScan_BasicTree(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFileAt(t, root, "a.txt", []byte("hello"), testutil.Mtime(0))
	testutil.WriteFileAt(t, root, "sub/b.txt", []byte("world!"), testutil.Mtime(1))
	testutil.MkdirAll(t, root, "sub/empty")

	snapshot, err := New().Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if len(snapshot) != 4 {
		t.Fatalf("expected 4 entries, got %d: %v", len(snapshot), snapshot)
	}

	file, ok := snapshot["a.txt"]
	if !ok || !file.IsFile() {
		t.Fatalf("expected file entry for a.txt, got %+v", file)
	}
	if file.Size != 5 {
		t.Errorf("expected size 5 for a.txt, got %d", file.Size)
	}
	if !file.ModTime.Equal(testutil.Mtime(0)) {
		t.Errorf("expected mtime %v, got %v", testutil.Mtime(0), file.ModTime)
	}

	nested, ok := snapshot["sub/b.txt"]
	if !ok || !nested.IsFile() {
		t.Fatalf("expected file entry for sub/b.txt")
	}
	if nested.Depth() != 1 {
		t.Errorf("expected depth 1 for sub/b.txt, got %d", nested.Depth())
	}

	for _, dir := range []string{"sub", "sub/empty"} {
		entry, ok := snapshot[dir]
		if !ok || !entry.IsDir() {
			t.Errorf("expected directory entry for %s", dir)
		}
	}
}

func TestScan_MissingRoot(t *testing.T) {
	_, err := New().Scan(filepath.Join(t.TempDir(), "does-not-exist"))

	var scanErr *domain.ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("expected *ScanError, got %v", err)
	}
}

func TestScan_RootIsFile(t *testing.T) {
	root := t.TempDir()
	path := testutil.WriteFile(t, root, "file.txt", []byte("x"))

	_, err := New().Scan(path)

	var scanErr *domain.ScanError
	if !errors.As(err, &scanErr) {
		t.Fatalf("expected *ScanError for file root, got %v", err)
	}
	if !errors.Is(err, domain.ErrNotDirectory) {
		t.Errorf("expected ErrNotDirectory cause, got %v", err)
	}
}

func TestScan_SkipsSymlinks(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("symlink creation requires privileges on windows")
	}

	root := t.TempDir()
	testutil.WriteFile(t, root, "real.txt", []byte("x"))
	testutil.MkdirAll(t, root, "realdir")
	if err := os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}
	if err := os.Symlink(filepath.Join(root, "realdir"), filepath.Join(root, "linkdir")); err != nil {
		t.Fatalf("failed to create symlink: %v", err)
	}

	snapshot, err := New().Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	if _, ok := snapshot["link.txt"]; ok {
		t.Errorf("file symlink should be skipped")
	}
	if _, ok := snapshot["linkdir"]; ok {
		t.Errorf("directory symlink should be skipped")
	}
	if len(snapshot) != 2 {
		t.Errorf("expected 2 entries, got %d", len(snapshot))
	}
}

func TestScan_IgnorePatterns(t *testing.T) {
	root := t.TempDir()
	testutil.WriteFile(t, root, "keep.txt", []byte("x"))
	testutil.WriteFile(t, root, "skip.tmp", []byte("x"))
	testutil.WriteFile(t, root, ".git/config", []byte("x"))
	testutil.WriteFile(t, root, "sub/also.tmp", []byte("x"))

	snapshot, err := New("*.tmp", ".git").Scan(root)
	if err != nil {
		t.Fatalf("Scan failed: %v", err)
	}

	for _, path := range []string{"skip.tmp", "sub/also.tmp", ".git", ".git/config"} {
		if _, ok := snapshot[path]; ok {
			t.Errorf("expected %s to be ignored", path)
		}
	}
	if _, ok := snapshot["keep.txt"]; !ok {
		t.Errorf("expected keep.txt in snapshot")
	}
	if _, ok := snapshot["sub"]; !ok {
		t.Errorf("expected sub in snapshot")
	}
}

func TestScan_DeepTree(t *testing.T) {
	root := t.TempDir()
	rel := ""
	for i := 0; i < 64; i++ {
		rel = filepath.Join(rel, "d")
	}
	testutil.MkdirAll(t, root, filepath.ToSlash(rel))

	snapshot, err := New().Scan(root)
	if err != nil {
		t.Fatalf("Scan failed on deep tree: %v", err)
	}
	if len(snapshot) != 64 {
		t.Errorf("expected 64 directory entries, got %d", len(snapshot))
	}
}
