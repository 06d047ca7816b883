package scan

import (
	"context"
	"io/fs"
	"sort"
	"sync"
)

// LargeFileScanner collects individual files at or above the requested
// size threshold. Traversal discipline is identical to the bloat
// classifier; only the per-file predicate differs.
type LargeFileScanner struct {
	workers  int
	Progress func(path string, processed int)
}

// NewLargeFileScanner creates a scanner with the given worker bound.
func NewLargeFileScanner(workers int) *LargeFileScanner {
	return &LargeFileScanner{workers: workers}
}

// Scan returns every regular file under req.Root whose size is at least
// req.MinSizeBytes.
func (s *LargeFileScanner) Scan(ctx context.Context, req Request) ([]LargeFileEntry, []string, error) {
	var mu sync.Mutex
	var entries []LargeFileEntry

	w := newWalker(req, s.workers, s.Progress)
	warnings, err := w.run(ctx, visitor{
		file: func(path string, info fs.FileInfo) {
			if info.Size() < req.MinSizeBytes {
				return
			}
			mu.Lock()
			entries = append(entries, LargeFileEntry{
				Path:         path,
				SizeBytes:    info.Size(),
				ModifiedTime: info.ModTime(),
			})
			mu.Unlock()
		},
	})

	sort.Slice(entries, func(i, j int) bool {
		if entries[i].SizeBytes != entries[j].SizeBytes {
			return entries[i].SizeBytes > entries[j].SizeBytes
		}
		return entries[i].Path < entries[j].Path
	})

	return entries, warnings, err
}
