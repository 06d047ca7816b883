package scan

import (
	"context"
	"io/fs"
	"path/filepath"
)

// probeSize computes the recursive size of a directory tree from metadata
// alone, without reading file contents. Unreadable subtrees contribute
// nothing; cancellation is honored at directory boundaries and returns the
// partial sum alongside ErrCancelled.
func probeSize(ctx context.Context, root string) (int64, error) {
	var total int64

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if ctx.Err() != nil {
				return filepath.SkipAll
			}
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}
		info, err := d.Info()
		if err != nil {
			return nil
		}
		total += info.Size()
		return nil
	})
	if err != nil {
		return total, err
	}
	if ctx.Err() != nil {
		return total, ErrCancelled
	}
	return total, nil
}
