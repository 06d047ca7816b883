package scan

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"reclaim/internal/disk"
	"reclaim/internal/logger"
	"reclaim/internal/progress"
)

// Kind identifies a scan type.
type Kind string

const (
	KindBloat      Kind = "bloat"
	KindLargeFiles Kind = "large-files"
	KindJunk       Kind = "junk"
	KindDuplicates Kind = "duplicates"
)

// Handle identifies a running scan for cancellation.
type Handle string

// Snapshot is an immutable aggregate of one finished scan. The coordinator
// hands it to the caller wholesale and retains nothing; a new scan produces
// a new snapshot rather than mutating a previous one.
type Snapshot struct {
	Handle     Handle
	Kind       Kind
	Root       string
	StartedAt  time.Time
	FinishedAt time.Time
	Partial    bool
	Warnings   []string
	Volume     *disk.Usage

	Bloat      []BloatCategoryResult
	LargeFiles []LargeFileEntry
	Junk       []JunkFileEntry
	Duplicates []DuplicateGroup
}

// TotalSizeBytes sums the sizes relevant to the snapshot's kind. For
// duplicates this is the savable total, not the raw footprint.
func (s *Snapshot) TotalSizeBytes() int64 {
	var total int64
	switch s.Kind {
	case KindBloat:
		for _, cat := range s.Bloat {
			total += cat.TotalSizeBytes
		}
	case KindLargeFiles:
		for _, e := range s.LargeFiles {
			total += e.SizeBytes
		}
	case KindJunk:
		for _, e := range s.Junk {
			total += e.SizeBytes
		}
	case KindDuplicates:
		for _, g := range s.Duplicates {
			total += g.SavableBytes
		}
	}
	return total
}

// Coordinator serializes scans per (kind, root), owns their cancellation,
// and throttles progress fan-out. It is the only type the caller layer
// talks to on the scanning side.
type Coordinator struct {
	workers     int
	maxHashable int64
	reporter    *progress.Reporter

	// OnScanStart, when set, receives each scan's handle as soon as its
	// slot is acquired and before traversal begins. A controller driving
	// scans from another goroutine holds onto the handle to cancel the
	// scan later; without it the handle would only surface in the finished
	// snapshot.
	OnScanStart func(Handle)

	mu       sync.Mutex
	inflight map[string]context.CancelFunc
	handles  map[Handle]string
}

// NewCoordinator creates a coordinator. workers <= 0 means one worker per
// CPU; maxHashable <= 0 selects DefaultMaxHashableSize.
func NewCoordinator(workers int, maxHashable int64, reporter *progress.Reporter) *Coordinator {
	if reporter == nil {
		reporter = progress.NewReporter(0)
	}
	return &Coordinator{
		workers:     workers,
		maxHashable: maxHashable,
		reporter:    reporter,
		inflight:    make(map[string]context.CancelFunc),
		handles:     make(map[Handle]string),
	}
}

// Reporter exposes the progress stream for subscription.
func (c *Coordinator) Reporter() *progress.Reporter { return c.reporter }

// ScanBloat classifies wasteful directories under the request root.
func (c *Coordinator) ScanBloat(ctx context.Context, req Request) (*Snapshot, error) {
	return c.run(ctx, KindBloat, req, func(ctx context.Context, snap *Snapshot) ([]string, error) {
		cl := NewBloatClassifier(c.workers)
		cl.Progress = c.progressFunc(KindBloat)
		results, warnings, err := cl.Classify(ctx, req)
		snap.Bloat = results
		return warnings, err
	})
}

// ScanLargeFiles collects files above the request size threshold.
func (c *Coordinator) ScanLargeFiles(ctx context.Context, req Request) (*Snapshot, error) {
	return c.run(ctx, KindLargeFiles, req, func(ctx context.Context, snap *Snapshot) ([]string, error) {
		s := NewLargeFileScanner(c.workers)
		s.Progress = c.progressFunc(KindLargeFiles)
		entries, warnings, err := s.Scan(ctx, req)
		snap.LargeFiles = entries
		return warnings, err
	})
}

// ScanJunk collects junk-pattern files regardless of size.
func (c *Coordinator) ScanJunk(ctx context.Context, req Request) (*Snapshot, error) {
	return c.run(ctx, KindJunk, req, func(ctx context.Context, snap *Snapshot) ([]string, error) {
		s := NewJunkFileScanner(c.workers)
		s.Progress = c.progressFunc(KindJunk)
		entries, warnings, err := s.Scan(ctx, req)
		snap.Junk = entries
		return warnings, err
	})
}

// ScanDuplicates groups byte-identical files under the request root.
func (c *Coordinator) ScanDuplicates(ctx context.Context, req Request) (*Snapshot, error) {
	return c.run(ctx, KindDuplicates, req, func(ctx context.Context, snap *Snapshot) ([]string, error) {
		d := NewDuplicateDetector(c.workers, c.maxHashable)
		d.Progress = c.progressFunc(KindDuplicates)
		groups, warnings, err := d.Detect(ctx, req)
		snap.Duplicates = groups
		return warnings, err
	})
}

// Cancel requests cancellation of a running scan. It returns false when the
// handle is unknown or the scan already finished.
func (c *Coordinator) Cancel(h Handle) bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	key, ok := c.handles[h]
	if !ok {
		return false
	}
	cancel, ok := c.inflight[key]
	if !ok {
		return false
	}
	cancel()
	return true
}

// run acquires the per-(kind, root) slot, executes the scan, and assembles
// the snapshot. A second scan of the same kind against the same root while
// one is active is rejected with ErrScanInFlight rather than queued or
// restarted.
func (c *Coordinator) run(ctx context.Context, kind Kind, req Request, fn func(context.Context, *Snapshot) ([]string, error)) (*Snapshot, error) {
	if req.Root.IsZero() {
		return nil, &Error{Op: string(kind), Root: "", Err: ErrInvalidRoot}
	}
	root := req.Root.String()
	key := string(kind) + "\x00" + root

	scanCtx, cancel := context.WithCancel(ctx)
	defer cancel()

	handle := Handle(uuid.NewString())

	c.mu.Lock()
	if _, busy := c.inflight[key]; busy {
		c.mu.Unlock()
		return nil, &Error{Op: string(kind), Root: root, Err: ErrScanInFlight}
	}
	c.inflight[key] = cancel
	c.handles[handle] = key
	c.mu.Unlock()

	if c.OnScanStart != nil {
		c.OnScanStart(handle)
	}

	defer func() {
		c.mu.Lock()
		delete(c.inflight, key)
		delete(c.handles, handle)
		c.mu.Unlock()
	}()

	snap := &Snapshot{
		Handle:    handle,
		Kind:      kind,
		Root:      root,
		StartedAt: time.Now(),
	}
	if usage, err := disk.ForPath(root); err == nil {
		snap.Volume = usage
	}

	logger.Debug("scan started", "kind", string(kind), "root", root, "handle", string(handle))

	warnings, err := fn(scanCtx, snap)
	snap.Warnings = warnings
	snap.FinishedAt = time.Now()

	if err != nil {
		if err == ErrCancelled || scanCtx.Err() != nil {
			// Cancellation is not a failure: everything aggregated so far is
			// returned, flagged partial.
			snap.Partial = true
			logger.Info("scan cancelled", "kind", string(kind), "root", root)
		} else {
			return nil, &Error{Op: string(kind), Root: root, Err: err}
		}
	}

	c.reporter.Publish(progress.Event{
		Phase:     progress.PhaseComplete,
		Kind:      string(kind),
		TotalSize: snap.TotalSizeBytes(),
	})

	return snap, nil
}

func (c *Coordinator) progressFunc(kind Kind) func(string, int) {
	return func(path string, processed int) {
		c.reporter.Publish(progress.Event{
			Phase:          progress.PhaseScanning,
			Kind:           string(kind),
			ItemsProcessed: processed,
			CurrentPath:    path,
		})
	}
}
