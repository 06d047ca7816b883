package cleanup

import (
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"reclaim/internal/logger"
	"reclaim/internal/platform"
	"reclaim/internal/progress"
	"reclaim/internal/security"
)

// Request is a deletion batch. Paths must come from the path validator;
// there is no way to build a ValidatedPath around it. UseTrash is accepted
// for interface compatibility but deletion is always trash-based in this
// version regardless of its value.
type Request struct {
	Paths    []security.ValidatedPath
	UseTrash bool
	Category string
}

// ItemFailure is one failed batch item with a classified, human-actionable
// reason.
type ItemFailure struct {
	Path   string
	Class  FailureClass
	Reason string
}

// Report summarizes one executed batch.
type Report struct {
	Deleted []string
	Skipped []string
	Failed  []ItemFailure

	FreedBytes int64
	DryRun     bool
}

// Options configures an Executor. Zero fields fall back to defaults.
type Options struct {
	MaxItems      int
	MaxBytes      int64
	RetryAttempts int
	RetryDelay    time.Duration
	DryRun        bool
}

// Defaults for the batch limits and the cloud-sync retry policy.
const (
	DefaultMaxItems      = 10000
	DefaultMaxBytes      = 100 << 30 // 100 GiB
	DefaultRetryAttempts = 3
	DefaultRetryDelay    = 500 * time.Millisecond
)

// Executor performs trash-based removal of a validated batch. A batch that
// begins runs to completion item by item; there is no mid-batch
// cancellation, because a half-finished batch with a missing audit trail is
// a worse failure mode than a slow one.
type Executor struct {
	info     *platform.Info
	trash    Trasher
	audit    *AuditLog
	reporter *progress.Reporter

	maxItems      int
	maxBytes      int64
	retryAttempts int
	retryDelay    time.Duration
	dryRun        bool

	sleep func(time.Duration) // injectable for retry tests
}

// NewExecutor creates an Executor writing audit records to audit and
// moving items through trash.
func NewExecutor(info *platform.Info, trash Trasher, audit *AuditLog, opts Options) *Executor {
	if opts.MaxItems <= 0 {
		opts.MaxItems = DefaultMaxItems
	}
	if opts.MaxBytes <= 0 {
		opts.MaxBytes = DefaultMaxBytes
	}
	if opts.RetryAttempts <= 0 {
		opts.RetryAttempts = DefaultRetryAttempts
	}
	if opts.RetryDelay <= 0 {
		opts.RetryDelay = DefaultRetryDelay
	}
	return &Executor{
		info:          info,
		trash:         trash,
		audit:         audit,
		reporter:      progress.NewReporter(0),
		maxItems:      opts.MaxItems,
		maxBytes:      opts.MaxBytes,
		retryAttempts: opts.RetryAttempts,
		retryDelay:    opts.RetryDelay,
		dryRun:        opts.DryRun,
		sleep:         time.Sleep,
	}
}

// SetReporter replaces the progress reporter.
func (e *Executor) SetReporter(r *progress.Reporter) {
	if r != nil {
		e.reporter = r
	}
}

// Execute runs the batch. Precondition violations reject the whole batch
// before any mutation; per-item failures are recorded and do not stop the
// remaining items. Items are processed in input order so audit entries are
// reproducible for a given batch.
func (e *Executor) Execute(req Request) (*Report, error) {
	if int64(len(req.Paths)) > int64(e.maxItems) {
		return nil, &BatchError{Kind: TooManyItems, Limit: int64(e.maxItems), Actual: int64(len(req.Paths))}
	}

	sizes := make([]int64, len(req.Paths))
	var total int64
	for i, p := range req.Paths {
		// Size from current on-disk metadata; items that vanished since
		// selection contribute nothing and will be skipped below.
		sizes[i] = itemSize(p.String())
		total += sizes[i]
	}
	if total > e.maxBytes {
		return nil, &BatchError{Kind: BatchTooLarge, Limit: e.maxBytes, Actual: total}
	}

	report := &Report{DryRun: e.dryRun}

	if e.dryRun {
		// Simulate only: no filesystem mutation, no audit records.
		for i, p := range req.Paths {
			report.Deleted = append(report.Deleted, p.String())
			report.FreedBytes += sizes[i]
		}
		return report, nil
	}

	for i, p := range req.Paths {
		e.executeItem(p.String(), sizes[i], req.Category, report)
		e.reporter.Publish(progress.Event{
			Phase:          progress.PhaseCleaning,
			Kind:           req.Category,
			ItemsProcessed: i + 1,
			CurrentPath:    p.String(),
			TotalSize:      report.FreedBytes,
		})
	}

	e.reporter.Publish(progress.Event{
		Phase:     progress.PhaseComplete,
		Kind:      req.Category,
		TotalSize: report.FreedBytes,
	})

	return report, nil
}

// executeItem trashes one item and appends exactly one audit record,
// whatever the outcome.
func (e *Executor) executeItem(path string, size int64, category string, report *Report) {
	// Re-check existence immediately before acting; the item may have
	// disappeared since it was selected.
	if _, err := os.Lstat(path); err != nil {
		if os.IsNotExist(err) {
			report.Skipped = append(report.Skipped, path)
			e.auditAppend(path, size, OutcomeSkipped, category, "already absent")
			return
		}
		item := classify(path, err)
		report.Failed = append(report.Failed, ItemFailure{Path: path, Class: item.Class, Reason: item.Hint()})
		e.auditAppend(path, size, OutcomeFailed, category, item.Hint())
		return
	}

	// Cloud-synced storage gets the retry ladder; local paths one attempt.
	attempts := 1
	if e.info.IsCloudSynced(path) {
		attempts = e.retryAttempts
	}
	r := newRetrier(attempts, e.retryDelay)
	r.sleep = e.sleep

	err := r.do(func() error {
		if moveErr := e.trash.Move(path); moveErr != nil {
			return moveErr
		}
		// Post-condition: the path must be gone from its original location.
		// A trash call that reports success while the item remains is
		// treated as a failure, not trusted.
		if _, statErr := os.Lstat(path); statErr == nil {
			return &ItemError{Path: path, Class: FailureOther, Err: errSilentNoOp}
		}
		return nil
	})

	if err != nil {
		item := classify(path, err)
		logger.Warn("trash move failed", "path", path, "attempts", r.Attempts(), "class", string(item.Class))
		report.Failed = append(report.Failed, ItemFailure{Path: path, Class: item.Class, Reason: item.Hint()})
		e.auditAppend(path, size, OutcomeFailed, category, item.Hint())
		return
	}

	report.Deleted = append(report.Deleted, path)
	report.FreedBytes += size
	e.auditAppend(path, size, OutcomeDeleted, category, "")
}

func (e *Executor) auditAppend(path string, size int64, outcome Outcome, category, reason string) {
	rec := Record{
		Path:      path,
		SizeBytes: size,
		Outcome:   outcome,
		Category:  category,
		Reason:    reason,
	}
	if err := e.audit.Append(rec); err != nil {
		// The audit trail is the one artifact this component must not lose
		// silently; surface the problem in the debug log at least.
		logger.Error("audit append failed", "path", path, "error", err.Error())
	}
}

// itemSize returns the on-disk footprint of a file or directory tree from
// metadata, zero when it cannot be determined.
func itemSize(path string) int64 {
	info, err := os.Lstat(path)
	if err != nil {
		return 0
	}
	if !info.IsDir() {
		return info.Size()
	}

	var total int64
	filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if err != nil || d.IsDir() || !d.Type().IsRegular() {
			return nil
		}
		if fi, err := d.Info(); err == nil {
			total += fi.Size()
		}
		return nil
	})
	return total
}
