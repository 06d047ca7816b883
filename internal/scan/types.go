// Package scan implements the read-only side of the engine: parallel
// directory traversal with categorization, large-file and junk-file
// collection, and content-addressed duplicate detection. Scanners never
// mutate the filesystem.
package scan

import (
	"time"

	"reclaim/internal/security"
)

// SafetyLevel classifies how risky deleting an item is. It is assigned once
// at classification time from the matching signature and never recomputed.
type SafetyLevel string

const (
	SafetySafe      SafetyLevel = "safe"
	SafetyReview    SafetyLevel = "review"
	SafetyDangerous SafetyLevel = "dangerous"
)

// Request describes one scan. It is immutable once a scan starts.
type Request struct {
	Root            security.ValidatedPath
	MinSizeBytes    int64
	MaxDepth        int
	FollowSymlinks  bool
	ExcludePatterns []string
}

// DefaultMaxDepth bounds traversal when the request leaves MaxDepth unset.
const DefaultMaxDepth = 32

func (r Request) withDefaults() Request {
	if r.MaxDepth <= 0 {
		r.MaxDepth = DefaultMaxDepth
	}
	return r
}

// LargeFileEntry is a file at or above the requested size threshold.
type LargeFileEntry struct {
	Path         string
	SizeBytes    int64
	ModifiedTime time.Time
}

// BloatEntry is one matched wasteful directory.
type BloatEntry struct {
	Path      string
	SizeBytes int64
	Kind      string
	Safety    SafetyLevel
}

// BloatCategoryResult aggregates matched directories for one category.
type BloatCategoryResult struct {
	CategoryID     string
	TotalSizeBytes int64
	Entries        []BloatEntry
}

// JunkFileEntry is a small system or editor artifact matched by name.
// Junk patterns are pre-vetted, so Safety is always SafetySafe.
type JunkFileEntry struct {
	Path           string
	SizeBytes      int64
	PatternMatched string
	Safety         SafetyLevel
}

// DuplicateFile is one member of a duplicate group.
type DuplicateFile struct {
	Path      string
	SizeBytes int64
}

// DuplicateGroup holds files with byte-identical content. Invariants: at
// least two files, all the same size and hash, and
// SavableBytes == SizeBytes * (len(Files) - 1).
type DuplicateGroup struct {
	ContentHash  string
	Files        []DuplicateFile
	SavableBytes int64
}
