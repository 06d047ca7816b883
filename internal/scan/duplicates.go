package scan

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"io"
	"io/fs"
	"os"
	"sort"
	"sync"

	"golang.org/x/sync/errgroup"
)

// DefaultMaxHashableSize caps the total I/O a duplicate scan can incur.
// Files larger than this are excluded from detection entirely.
const DefaultMaxHashableSize int64 = 1 << 30 // 1 GiB

// hashChunkSize bounds memory per hashing worker; files are never loaded
// whole.
const hashChunkSize = 256 * 1024

// DuplicateDetector finds byte-identical files in two phases: a cheap
// size-bucket pre-filter, then chunked SHA-256 hashing of the surviving
// candidates.
type DuplicateDetector struct {
	workers     int
	maxHashable int64
	Progress    func(path string, processed int)
}

// NewDuplicateDetector creates a detector. maxHashable <= 0 selects
// DefaultMaxHashableSize; workers <= 0 means one worker per CPU.
func NewDuplicateDetector(workers int, maxHashable int64) *DuplicateDetector {
	if maxHashable <= 0 {
		maxHashable = DefaultMaxHashableSize
	}
	return &DuplicateDetector{workers: workers, maxHashable: maxHashable}
}

// candidate is a file eligible for hashing. seq preserves traversal order
// so group membership is reported in the order files were discovered.
type candidate struct {
	path string
	size int64
	seq  int
}

// Detect returns one group per set of files with identical content.
// Singleton size buckets are discarded without any I/O: a file whose size
// is unique cannot have a duplicate.
func (d *DuplicateDetector) Detect(ctx context.Context, req Request) ([]DuplicateGroup, []string, error) {
	minSize := req.MinSizeBytes
	if minSize < 1 {
		minSize = 1 // empty files are all identical and all worthless to dedupe
	}

	// Phase 1: bucket by exact byte size.
	var mu sync.Mutex
	var seq int
	buckets := make(map[int64][]candidate)

	w := newWalker(req, d.workers, d.Progress)
	warnings, err := w.run(ctx, visitor{
		file: func(path string, info fs.FileInfo) {
			size := info.Size()
			if size < minSize || size > d.maxHashable {
				return
			}
			mu.Lock()
			buckets[size] = append(buckets[size], candidate{path: path, size: size, seq: seq})
			seq++
			mu.Unlock()
		},
	})
	if err != nil && !errors.Is(err, ErrCancelled) {
		return nil, warnings, err
	}
	cancelled := errors.Is(err, ErrCancelled)

	// Phase 2: hash candidates in multi-member buckets, bounded in parallel.
	type hashed struct {
		candidate
		hash string
	}
	var hmu sync.Mutex
	bySignature := make(map[string][]hashed)

	g, gctx := errgroup.WithContext(ctx)
	limit := d.workers
	if limit <= 0 {
		limit = defaultWorkerLimit()
	}
	g.SetLimit(limit)

	for _, bucket := range buckets {
		if len(bucket) < 2 {
			continue
		}
		if cancelled {
			break
		}
		for _, cand := range bucket {
			cand := cand
			if gctx.Err() != nil {
				cancelled = true
				break
			}
			g.Go(func() error {
				sum, hashErr := hashFile(gctx, cand.path)
				if hashErr != nil {
					// File vanished or became unreadable mid-scan; it simply
					// fails to join a group.
					if !errors.Is(hashErr, context.Canceled) && gctx.Err() == nil {
						w.warn(cand.path, hashErr)
					}
					return nil
				}
				hmu.Lock()
				bySignature[sum] = append(bySignature[sum], hashed{candidate: cand, hash: sum})
				hmu.Unlock()
				return nil
			})
		}
	}
	_ = g.Wait()
	if ctx.Err() != nil {
		cancelled = true
	}

	// Emit groups. Sub-groups of one are same-size files with different
	// content; they are discarded here.
	var groups []DuplicateGroup
	for sum, members := range bySignature {
		if len(members) < 2 {
			continue
		}
		sort.Slice(members, func(i, j int) bool { return members[i].seq < members[j].seq })

		files := make([]DuplicateFile, 0, len(members))
		for _, m := range members {
			files = append(files, DuplicateFile{Path: m.path, SizeBytes: m.size})
		}
		groups = append(groups, DuplicateGroup{
			ContentHash:  sum,
			Files:        files,
			SavableBytes: members[0].size * int64(len(members)-1),
		})
	}
	sort.Slice(groups, func(i, j int) bool {
		return groups[i].SavableBytes > groups[j].SavableBytes
	})

	warnings = w.warnings
	if cancelled {
		return groups, warnings, ErrCancelled
	}
	return groups, warnings, nil
}

// hashFile computes the SHA-256 of a file in fixed-size chunks, checking
// for cancellation between chunks so a multi-gigabyte read can be
// abandoned promptly.
func hashFile(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	h := sha256.New()
	buf := make([]byte, hashChunkSize)
	for {
		if err := ctx.Err(); err != nil {
			return "", err
		}
		n, err := f.Read(buf)
		if n > 0 {
			h.Write(buf[:n])
		}
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
	}

	return hex.EncodeToString(h.Sum(nil)), nil
}
