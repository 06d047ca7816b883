package scan

import (
	"context"
	"path/filepath"
	"sort"
	"sync"
)

// BloatClassifier walks a tree in parallel and aggregates directories that
// match the bloat signature table, sized per subtree via the size probe.
type BloatClassifier struct {
	workers int
	// Progress receives per-directory traversal updates; may be nil.
	Progress func(path string, processed int)
}

// NewBloatClassifier creates a classifier with the given worker bound.
// workers <= 0 means one worker per CPU.
func NewBloatClassifier(workers int) *BloatClassifier {
	return &BloatClassifier{workers: workers}
}

// Classify traverses req.Root and returns per-category aggregates.
// A matched directory is sized as a whole and never descended into, so a
// signature match nested inside another match is counted exactly once,
// under its outermost parent. Categories whose total falls below
// req.MinSizeBytes are omitted.
func (c *BloatClassifier) Classify(ctx context.Context, req Request) ([]BloatCategoryResult, []string, error) {
	var mu sync.Mutex
	categories := make(map[string]*BloatCategoryResult)

	w := newWalker(req, c.workers, c.Progress)
	warnings, err := w.run(ctx, visitor{
		dir: func(path string, depth int) bool {
			sig, ok := matchBloat(filepath.Base(path))
			if !ok {
				return true
			}

			size, probeErr := probeSize(ctx, path)
			// A cancelled probe still contributes its partial size; the
			// walker notices the cancellation at the next boundary.
			if probeErr != nil && probeErr != ErrCancelled {
				return false
			}

			mu.Lock()
			cat, exists := categories[sig.CategoryID]
			if !exists {
				cat = &BloatCategoryResult{CategoryID: sig.CategoryID}
				categories[sig.CategoryID] = cat
			}
			cat.Entries = append(cat.Entries, BloatEntry{
				Path:      path,
				SizeBytes: size,
				Kind:      sig.Kind,
				Safety:    sig.Safety,
			})
			cat.TotalSizeBytes += size
			mu.Unlock()

			return false
		},
	})

	results := make([]BloatCategoryResult, 0, len(categories))
	for _, cat := range categories {
		if req.MinSizeBytes > 0 && cat.TotalSizeBytes < req.MinSizeBytes {
			continue
		}
		sort.Slice(cat.Entries, func(i, j int) bool {
			return cat.Entries[i].Path < cat.Entries[j].Path
		})
		results = append(results, *cat)
	}
	sort.Slice(results, func(i, j int) bool {
		return results[i].CategoryID < results[j].CategoryID
	})

	return results, warnings, err
}
