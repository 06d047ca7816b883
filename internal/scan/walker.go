package scan

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"sync/atomic"
)

// visitor receives traversal callbacks. Callbacks run concurrently and must
// be safe for parallel use.
type visitor struct {
	// dir is called for each subdirectory before descent. Returning false
	// stops descent into that subtree.
	dir func(path string, depth int) bool
	// file is called for each regular file with its metadata.
	file func(path string, info fs.FileInfo)
}

// walker is the shared parallel traversal engine behind every scanner.
// Fan-out is bounded by a semaphore channel; when no worker slot is free the
// current goroutine descends inline rather than queueing unbounded work.
// Cancellation is checked at every directory boundary.
type walker struct {
	req      Request
	sem      chan struct{}
	wg       sync.WaitGroup
	mu       sync.Mutex
	warnings []string
	dirs     atomic.Int64
	progress func(path string, processed int)

	visitMu sync.Mutex
	visited map[string]bool // resolved symlink targets, cycle guard
}

// defaultWorkerLimit bounds parallelism to the available CPU parallelism.
func defaultWorkerLimit() int {
	return runtime.NumCPU()
}

func newWalker(req Request, workers int, progress func(string, int)) *walker {
	if workers <= 0 {
		workers = defaultWorkerLimit()
	}
	return &walker{
		req:      req.withDefaults(),
		sem:      make(chan struct{}, workers),
		progress: progress,
		visited:  make(map[string]bool),
	}
}

// run traverses the request root and blocks until every worker finishes.
// On cancellation it returns ErrCancelled; callbacks already delivered
// remain valid partial results.
func (w *walker) run(ctx context.Context, v visitor) ([]string, error) {
	w.walkDir(ctx, w.req.Root.String(), 0, v)
	w.wg.Wait()

	if ctx.Err() != nil {
		return w.warnings, ErrCancelled
	}
	return w.warnings, nil
}

func (w *walker) walkDir(ctx context.Context, dir string, depth int, v visitor) {
	if ctx.Err() != nil {
		return
	}

	if w.progress != nil {
		w.progress(dir, int(w.dirs.Add(1)))
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		// Permission denied or the directory vanished mid-scan. Both are
		// normal, recoverable conditions: record and continue.
		w.warn(dir, err)
		return
	}

	for _, entry := range entries {
		name := entry.Name()
		path := filepath.Join(dir, name)

		if w.excluded(name, path) {
			continue
		}

		switch {
		case entry.IsDir():
			w.enterDir(ctx, path, depth+1, v)

		case entry.Type()&fs.ModeSymlink != 0:
			if !w.req.FollowSymlinks {
				continue
			}
			w.followSymlink(ctx, path, depth, v)

		case entry.Type().IsRegular():
			info, err := entry.Info()
			if err != nil {
				// File disappeared between ReadDir and Info; skip.
				continue
			}
			if v.file != nil {
				v.file(path, info)
			}
		}
	}
}

func (w *walker) enterDir(ctx context.Context, path string, depth int, v visitor) {
	if depth > w.req.MaxDepth {
		return
	}
	if v.dir != nil && !v.dir(path, depth) {
		return
	}

	select {
	case w.sem <- struct{}{}:
		w.wg.Add(1)
		go func() {
			defer func() {
				<-w.sem
				w.wg.Done()
			}()
			w.walkDir(ctx, path, depth, v)
		}()
	default:
		w.walkDir(ctx, path, depth, v)
	}
}

// followSymlink descends into a symlinked directory at most once per
// resolved target, which breaks link cycles.
func (w *walker) followSymlink(ctx context.Context, path string, depth int, v visitor) {
	info, err := os.Stat(path)
	if err != nil {
		w.warn(path, err)
		return
	}
	if !info.IsDir() {
		if v.file != nil {
			v.file(path, info)
		}
		return
	}

	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		w.warn(path, err)
		return
	}

	w.visitMu.Lock()
	seen := w.visited[resolved]
	w.visited[resolved] = true
	w.visitMu.Unlock()
	if seen {
		return
	}

	w.enterDir(ctx, path, depth+1, v)
}

func (w *walker) excluded(name, path string) bool {
	for _, pattern := range w.req.ExcludePatterns {
		if matched, _ := filepath.Match(pattern, name); matched {
			return true
		}
		if strings.Contains(path, pattern) {
			return true
		}
	}
	return false
}

func (w *walker) warn(path string, err error) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.warnings = append(w.warnings, fmt.Sprintf("%s: %v", path, err))
}
