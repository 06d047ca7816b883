package scan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reclaim/internal/testutil"
)

func TestLargeFileScanThreshold(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileOfSize("media/movie.mkv", 5000)
	f.CreateFileOfSize("media/clip.mp4", 1000) // exactly at threshold
	f.CreateFileOfSize("docs/notes.txt", 999)

	req := fixtureRequest(t, f)
	req.MinSizeBytes = 1000

	entries, warnings, err := NewLargeFileScanner(2).Scan(context.Background(), req)
	require.NoError(t, err)
	assert.Empty(t, warnings)
	require.Len(t, entries, 2)

	// Largest first.
	assert.Equal(t, f.Path("media/movie.mkv"), entries[0].Path)
	assert.Equal(t, int64(5000), entries[0].SizeBytes)
	assert.Equal(t, f.Path("media/clip.mp4"), entries[1].Path)
	assert.False(t, entries[0].ModifiedTime.IsZero())
}

func TestLargeFileScanTieBreaksByPath(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileOfSize("b.iso", 2048)
	f.CreateFileOfSize("a.iso", 2048)

	req := fixtureRequest(t, f)
	req.MinSizeBytes = 1

	entries, _, err := NewLargeFileScanner(1).Scan(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, f.Path("a.iso"), entries[0].Path)
	assert.Equal(t, f.Path("b.iso"), entries[1].Path)
}

func TestLargeFileScanIgnoresSymlinksByDefault(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileOfSize("real/blob.bin", 4096)
	f.CreateSymlink("real/blob.bin", "link.bin")

	req := fixtureRequest(t, f)
	req.MinSizeBytes = 1

	entries, _, err := NewLargeFileScanner(1).Scan(context.Background(), req)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, f.Path("real/blob.bin"), entries[0].Path)
}
