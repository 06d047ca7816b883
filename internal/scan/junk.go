package scan

import (
	"context"
	"io/fs"
	"path/filepath"
	"sort"
	"sync"
)

// JunkFileScanner collects small system and editor artifacts matched by
// the junk pattern table. Unlike the large-file scanner it applies no
// minimum size: zero-byte marker files are exactly what it exists to find.
type JunkFileScanner struct {
	workers  int
	Progress func(path string, processed int)
}

// NewJunkFileScanner creates a scanner with the given worker bound.
func NewJunkFileScanner(workers int) *JunkFileScanner {
	return &JunkFileScanner{workers: workers}
}

// Scan returns every file under req.Root whose name matches a junk
// pattern. req.MinSizeBytes is deliberately ignored.
func (s *JunkFileScanner) Scan(ctx context.Context, req Request) ([]JunkFileEntry, []string, error) {
	var mu sync.Mutex
	var entries []JunkFileEntry

	w := newWalker(req, s.workers, s.Progress)
	warnings, err := w.run(ctx, visitor{
		file: func(path string, info fs.FileInfo) {
			pattern, ok := matchJunk(filepath.Base(path))
			if !ok {
				return
			}
			mu.Lock()
			entries = append(entries, JunkFileEntry{
				Path:           path,
				SizeBytes:      info.Size(),
				PatternMatched: pattern,
				Safety:         SafetySafe,
			})
			mu.Unlock()
		},
	})

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Path < entries[j].Path
	})

	return entries, warnings, err
}
