// Package cleanup is the only component that mutates the filesystem. It
// validates deletion batches against hard limits, moves items to the
// platform trash with retry for flaky storage backends, verifies each
// removal, and appends an immutable audit record per item.
package cleanup

import (
	"context"
	"errors"
	"fmt"
	"os"
	"syscall"
)

// BatchErrorKind distinguishes the batch-level precondition failures.
type BatchErrorKind string

const (
	TooManyItems  BatchErrorKind = "too_many_items"
	BatchTooLarge BatchErrorKind = "batch_too_large"
)

// BatchError rejects a whole batch before any deletion starts. It is fully
// recoverable: the caller resubmits a smaller batch.
type BatchError struct {
	Kind   BatchErrorKind
	Limit  int64
	Actual int64
}

func (e *BatchError) Error() string {
	switch e.Kind {
	case TooManyItems:
		return fmt.Sprintf("batch has %d items, limit is %d", e.Actual, e.Limit)
	case BatchTooLarge:
		return fmt.Sprintf("batch totals %d bytes, limit is %d", e.Actual, e.Limit)
	default:
		return "batch rejected"
	}
}

// FailureClass buckets a per-item failure for remediation hints.
type FailureClass string

const (
	FailurePermission FailureClass = "permission"
	FailureTimeout    FailureClass = "timeout"
	FailureOther      FailureClass = "other"
)

// ItemError is a per-item deletion failure with a classified cause. It is
// reported as data in the batch report, never raised past the batch.
type ItemError struct {
	Path  string
	Class FailureClass
	Err   error
}

func (e *ItemError) Error() string {
	return fmt.Sprintf("%s: %v", e.Path, e.Err)
}

func (e *ItemError) Unwrap() error { return e.Err }

// Hint returns a human-actionable remediation suggestion instead of a raw
// system error string.
func (e *ItemError) Hint() string {
	switch e.Class {
	case FailurePermission:
		return "permission denied; retry from your native file browser or adjust the file's permissions"
	case FailureTimeout:
		return "the storage backend did not respond in time; if this file is cloud-synced, wait for sync to finish and retry"
	default:
		return "could not move the file to trash; retry from your native file browser"
	}
}

// errSilentNoOp marks a trash call that reported success while the item
// remained at its original location.
var errSilentNoOp = errors.New("item still present after trash move")

// classify buckets an error into a FailureClass by inspecting well-known
// error values and syscall errnos.
func classify(path string, err error) *ItemError {
	var already *ItemError
	if errors.As(err, &already) {
		return already
	}

	item := &ItemError{Path: path, Class: FailureOther, Err: err}

	if os.IsPermission(err) {
		item.Class = FailurePermission
		return item
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		item.Class = FailureTimeout
		return item
	}

	var errno syscall.Errno
	if errors.As(err, &errno) {
		switch errno {
		case syscall.EACCES, syscall.EPERM, syscall.EROFS:
			item.Class = FailurePermission
		case syscall.ETIMEDOUT, syscall.EAGAIN, syscall.EBUSY:
			item.Class = FailureTimeout
		}
	}
	return item
}
