package scan

import (
	"errors"
	"fmt"
)

// ErrCancelled marks a scan interrupted by its context. Results returned
// alongside it are valid partial aggregates, not garbage; the coordinator
// tags the snapshot partial instead of reporting a failure.
var ErrCancelled = errors.New("scan cancelled")

// ErrScanInFlight is returned when a scan of the same kind is already
// running against the same root.
var ErrScanInFlight = errors.New("scan already in flight for this root")

// ErrInvalidRoot is returned when a request carries a zero ValidatedPath.
var ErrInvalidRoot = errors.New("scan root was never validated")

// Error wraps a scan failure with the operation that produced it.
type Error struct {
	Op   string
	Root string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s %s: %v", e.Op, e.Root, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }
