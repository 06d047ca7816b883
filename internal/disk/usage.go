// Package disk reports volume-level usage for the filesystem hosting a
// scan root, so reports can put reclaimable bytes next to free space.
package disk

import (
	"fmt"

	gdisk "github.com/shirou/gopsutil/v4/disk"
)

// Usage describes the volume hosting a path.
type Usage struct {
	Path        string
	TotalBytes  uint64
	FreeBytes   uint64
	UsedBytes   uint64
	UsedPercent float64
}

// ForPath returns usage statistics for the volume containing path.
func ForPath(path string) (*Usage, error) {
	stat, err := gdisk.Usage(path)
	if err != nil {
		return nil, fmt.Errorf("disk usage for %s: %w", path, err)
	}
	return &Usage{
		Path:        path,
		TotalBytes:  stat.Total,
		FreeBytes:   stat.Free,
		UsedBytes:   stat.Used,
		UsedPercent: stat.UsedPercent,
	}, nil
}
