// Package testutil provides shared helpers for building and checking
// directory trees in tests.
package testutil

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

// WriteFile creates a file (and its parent directories) with the given
// content, returning its absolute path
func WriteFile(t *testing.T, root, rel string, content []byte) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		t.Fatalf("failed to create parent dirs for %s: %v", rel, err)
	}
	if err := os.WriteFile(path, content, 0644); err != nil {
		t.Fatalf("failed to create test file %s: %v", rel, err)
	}

	return path
}

// WriteFileAt creates a file like WriteFile and pins its mtime
func WriteFileAt(t *testing.T, root, rel string, content []byte, mtime time.Time) string {
	t.Helper()

	path := WriteFile(t, root, rel, content)
	if err := os.Chtimes(path, mtime, mtime); err != nil {
		t.Fatalf("failed to set mtime on %s: %v", rel, err)
	}

	return path
}

// MkdirAll creates a directory (and parents) under root
func MkdirAll(t *testing.T, root, rel string) string {
	t.Helper()

	path := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(path, 0755); err != nil {
		t.Fatalf("failed to create test dir %s: %v", rel, err)
	}

	return path
}

// AssertMirrored fails the test unless target is an exact mirror of
// source: same relative paths, same kinds, and for files same content
// and mtime
func AssertMirrored(t *testing.T, source, target string) {
	t.Helper()

	assertSubset(t, source, target, "source entry missing in target")
	assertSubset(t, target, source, "target entry not present in source")
}

func assertSubset(t *testing.T, from, to, msg string) {
	t.Helper()

	err := filepath.Walk(from, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(from, path)
		if err != nil {
			return err
		}
		if rel == "." {
			return nil
		}

		other := filepath.Join(to, rel)
		otherInfo, statErr := os.Stat(other)
		if statErr != nil {
			t.Errorf("%s: %s (%v)", msg, rel, statErr)
			return nil
		}

		if info.IsDir() != otherInfo.IsDir() {
			t.Errorf("kind mismatch at %s: dir=%v vs dir=%v", rel, info.IsDir(), otherInfo.IsDir())
			return nil
		}

		if !info.IsDir() {
			if info.Size() != otherInfo.Size() {
				t.Errorf("size mismatch at %s: %d vs %d", rel, info.Size(), otherInfo.Size())
			}
			if !info.ModTime().Equal(otherInfo.ModTime()) {
				t.Errorf("mtime mismatch at %s: %v vs %v", rel, info.ModTime(), otherInfo.ModTime())
			}
			want, _ := os.ReadFile(path)
			got, _ := os.ReadFile(other)
			if string(want) != string(got) {
				t.Errorf("content mismatch at %s", rel)
			}
		}

		return nil
	})
	if err != nil {
		t.Fatalf("walk %s: %v", from, err)
	}
}

// Mtime returns a fixed, second-aligned timestamp offset by n seconds.
// Second alignment avoids filesystem timestamp truncation surprises.
func Mtime(n int) time.Time {
	return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC).Add(time.Duration(n) * time.Second)
}
