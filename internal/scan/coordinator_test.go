package scan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reclaim/internal/progress"
	"reclaim/internal/testutil"
)

func TestCoordinatorRejectsZeroRoot(t *testing.T) {
	c := NewCoordinator(1, 0, nil)
	_, err := c.ScanJunk(context.Background(), Request{})
	require.ErrorIs(t, err, ErrInvalidRoot)
}

func TestCoordinatorRejectsInFlightDuplicate(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileOfSize("x.bin", 1)
	req := fixtureRequest(t, f)

	c := NewCoordinator(1, 0, nil)

	// Occupy the (kind, root) slot as a running scan would.
	key := string(KindJunk) + "\x00" + req.Root.String()
	c.mu.Lock()
	c.inflight[key] = func() {}
	c.mu.Unlock()

	_, err := c.ScanJunk(context.Background(), req)
	require.ErrorIs(t, err, ErrScanInFlight)

	// A different kind against the same root is not blocked.
	snap, err := c.ScanLargeFiles(context.Background(), req)
	require.NoError(t, err)
	assert.False(t, snap.Partial)

	// Releasing the slot lets the same kind run again.
	c.mu.Lock()
	delete(c.inflight, key)
	c.mu.Unlock()
	_, err = c.ScanJunk(context.Background(), req)
	require.NoError(t, err)
}

func TestCoordinatorCancelledScanIsPartialNotFailed(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileOfSize("huge/file.bin", 64)
	req := fixtureRequest(t, f)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := NewCoordinator(1, 0, nil)
	snap, err := c.ScanBloat(ctx, req)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.True(t, snap.Partial)
	assert.NotEmpty(t, snap.Handle)
	assert.False(t, snap.FinishedAt.Before(snap.StartedAt))
}

func TestCoordinatorCancelUnknownHandle(t *testing.T) {
	c := NewCoordinator(1, 0, nil)
	assert.False(t, c.Cancel(Handle("no-such-scan")))
}

func TestCoordinatorCancelByHandleStopsRunningScan(t *testing.T) {
	f := testutil.NewFixture(t)
	f.PopulateNodeModules("proj")
	req := fixtureRequest(t, f)

	c := NewCoordinator(1, 0, nil)

	// The start hook fires after the slot is acquired and before traversal,
	// so cancelling here is guaranteed to hit a scan that is still running.
	var started Handle
	c.OnScanStart = func(h Handle) {
		started = h
		assert.True(t, c.Cancel(h))
	}

	snap, err := c.ScanJunk(context.Background(), req)
	require.NoError(t, err)
	require.NotNil(t, snap)
	assert.True(t, snap.Partial)
	assert.Equal(t, started, snap.Handle)

	// The handle is released once the scan winds down.
	assert.False(t, c.Cancel(started))
}

func TestCoordinatorSnapshotAggregates(t *testing.T) {
	f := testutil.NewFixture(t)
	nmSize := f.PopulateNodeModules("proj")
	req := fixtureRequest(t, f)

	c := NewCoordinator(2, 0, progress.NewReporter(0))
	snap, err := c.ScanBloat(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, KindBloat, snap.Kind)
	assert.Equal(t, req.Root.String(), snap.Root)
	assert.Equal(t, nmSize, snap.TotalSizeBytes())
	assert.False(t, snap.Partial)

	// Finished scans release their handle.
	assert.False(t, c.Cancel(snap.Handle))
}

func TestSnapshotTotalSizePerKind(t *testing.T) {
	snap := &Snapshot{
		Kind: KindDuplicates,
		Duplicates: []DuplicateGroup{
			{SavableBytes: 100},
			{SavableBytes: 250},
		},
	}
	assert.Equal(t, int64(350), snap.TotalSizeBytes())

	snap = &Snapshot{
		Kind: KindJunk,
		Junk: []JunkFileEntry{{SizeBytes: 5}, {SizeBytes: 7}},
	}
	assert.Equal(t, int64(12), snap.TotalSizeBytes())
}

func TestCoordinatorPublishesCompletionEvent(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileOfSize("j/.DS_Store", 10)
	req := fixtureRequest(t, f)

	r := progress.NewReporter(0)
	ch := r.Subscribe()

	c := NewCoordinator(1, 0, r)
	_, err := c.ScanJunk(context.Background(), req)
	require.NoError(t, err)

	// Completion events bypass the throttle, so one must be buffered.
	found := false
	for done := false; !done; {
		select {
		case ev := <-ch:
			if ev.Phase == progress.PhaseComplete {
				found = true
			}
		default:
			done = true
		}
	}
	assert.True(t, found)
}
