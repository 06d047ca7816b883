// Package testutil provides test helpers and fixtures for reclaim tests.
// All file operations use t.TempDir() for safe, isolated testing.
package testutil

import (
	"crypto/rand"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"
)

// Fixture holds paths to a disposable directory tree that scan and
// cleanup tests operate on.
type Fixture struct {
	T       *testing.T
	RootDir string // Root temp directory (auto-cleaned)
}

// NewFixture creates a fixture rooted in a fresh temp directory.
func NewFixture(t *testing.T) *Fixture {
	t.Helper()
	return &Fixture{T: t, RootDir: t.TempDir()}
}

// Path resolves a relative path against the fixture root.
func (f *Fixture) Path(relPath string) string {
	return filepath.Join(f.RootDir, relPath)
}

// CreateFile creates a file with the given content and returns its path.
// Parent directories are created as needed.
func (f *Fixture) CreateFile(relPath string, content []byte) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		f.T.Fatalf("failed to create parent directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(fullPath, content, 0644); err != nil {
		f.T.Fatalf("failed to create file %s: %v", relPath, err)
	}
	return fullPath
}

// CreateFileOfSize creates a file of exactly size zero-filled bytes.
func (f *Fixture) CreateFileOfSize(relPath string, size int64) string {
	f.T.Helper()
	return f.CreateFile(relPath, make([]byte, size))
}

// CreateRandomFile creates a file of the given size with random content.
func (f *Fixture) CreateRandomFile(relPath string, size int) string {
	f.T.Helper()

	content := make([]byte, size)
	if _, err := rand.Read(content); err != nil {
		f.T.Fatalf("failed to generate random content: %v", err)
	}
	return f.CreateFile(relPath, content)
}

// CreateFileWithAge creates a file and backdates its mtime.
func (f *Fixture) CreateFileWithAge(relPath string, content []byte, age time.Duration) string {
	f.T.Helper()

	fullPath := f.CreateFile(relPath, content)
	past := time.Now().Add(-age)
	if err := os.Chtimes(fullPath, past, past); err != nil {
		f.T.Fatalf("failed to backdate %s: %v", relPath, err)
	}
	return fullPath
}

// CreateDir creates a directory (and parents) under the fixture root.
func (f *Fixture) CreateDir(relPath string) string {
	f.T.Helper()

	fullPath := f.Path(relPath)
	if err := os.MkdirAll(fullPath, 0755); err != nil {
		f.T.Fatalf("failed to create directory %s: %v", relPath, err)
	}
	return fullPath
}

// CreateReadOnlyDir creates a directory that cannot be written to and
// registers a cleanup that restores it so t.TempDir can remove the tree.
func (f *Fixture) CreateReadOnlyDir(relPath string) string {
	return f.createDirWithMode(relPath, 0500)
}

// CreateUnreadableDir creates a directory whose entries cannot be listed.
func (f *Fixture) CreateUnreadableDir(relPath string) string {
	return f.createDirWithMode(relPath, 0000)
}

func (f *Fixture) createDirWithMode(relPath string, mode os.FileMode) string {
	f.T.Helper()

	fullPath := f.CreateDir(relPath)
	if err := os.Chmod(fullPath, mode); err != nil {
		f.T.Fatalf("failed to chmod %s: %v", relPath, err)
	}
	f.T.Cleanup(func() {
		os.Chmod(fullPath, 0755)
	})
	return fullPath
}

// CreateSymlink creates a symlink at linkPath pointing at target.
// Both are relative to the fixture root.
func (f *Fixture) CreateSymlink(target, linkPath string) string {
	f.T.Helper()

	fullLink := f.Path(linkPath)
	if err := os.MkdirAll(filepath.Dir(fullLink), 0755); err != nil {
		f.T.Fatalf("failed to create parent directory for %s: %v", linkPath, err)
	}
	if err := os.Symlink(f.Path(target), fullLink); err != nil {
		f.T.Fatalf("failed to create symlink %s: %v", linkPath, err)
	}
	return fullLink
}

// CreateCircularSymlinks creates two directories that link to each
// other, for traversal cycle tests.
func (f *Fixture) CreateCircularSymlinks(dirA, dirB string) (string, string) {
	f.T.Helper()

	a := f.CreateDir(dirA)
	b := f.CreateDir(dirB)
	if err := os.Symlink(b, filepath.Join(a, "loop")); err != nil {
		f.T.Fatalf("failed to create symlink in %s: %v", dirA, err)
	}
	if err := os.Symlink(a, filepath.Join(b, "loop")); err != nil {
		f.T.Fatalf("failed to create symlink in %s: %v", dirB, err)
	}
	return a, b
}

// PopulateNodeModules fills a plausible node_modules tree under relPath
// and returns its total size in bytes.
func (f *Fixture) PopulateNodeModules(relPath string) int64 {
	f.T.Helper()

	files := map[string]int{
		"node_modules/lodash/lodash.js":       4096,
		"node_modules/lodash/package.json":    512,
		"node_modules/react/index.js":         1024,
		"node_modules/react/cjs/react.dev.js": 8192,
		"node_modules/.package-lock.json":     2048,
	}
	var total int64
	for name, size := range files {
		f.CreateFileOfSize(filepath.Join(relPath, name), int64(size))
		total += int64(size)
	}
	return total
}

// PopulateVenv fills a plausible Python virtualenv under relPath and
// returns its total size in bytes.
func (f *Fixture) PopulateVenv(relPath string) int64 {
	f.T.Helper()

	files := map[string]int{
		".venv/bin/python":                            128,
		".venv/bin/pip":                               128,
		".venv/lib/python3.12/site-packages/six.py":   2048,
		".venv/lib/python3.12/site-packages/flask.py": 4096,
		".venv/pyvenv.cfg":                            256,
	}
	var total int64
	for name, size := range files {
		f.CreateFileOfSize(filepath.Join(relPath, name), int64(size))
		total += int64(size)
	}
	return total
}

// DirSize walks path and sums regular file sizes.
func DirSize(path string) (int64, error) {
	var total int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.Mode().IsRegular() {
			total += info.Size()
		}
		return nil
	})
	return total, err
}

// SkipIfRoot skips tests whose assertions depend on permission errors,
// which root never sees.
func SkipIfRoot(t *testing.T) {
	t.Helper()
	if os.Getuid() == 0 {
		t.Skip("test requires non-root user")
	}
}

// ManyPaths returns n distinct paths under root, without creating them.
func ManyPaths(root string, n int) []string {
	paths := make([]string, n)
	for i := range paths {
		paths[i] = filepath.Join(root, fmt.Sprintf("item-%05d", i))
	}
	return paths
}
