package scan

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reclaim/internal/testutil"
)

func TestProbeSizeSumsTree(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileOfSize("tree/a.bin", 100)
	f.CreateFileOfSize("tree/sub/b.bin", 200)
	f.CreateFileOfSize("tree/sub/deep/c.bin", 300)

	size, err := probeSize(context.Background(), f.Path("tree"))
	require.NoError(t, err)
	assert.Equal(t, int64(600), size)
}

func TestProbeSizeCancelled(t *testing.T) {
	f := testutil.NewFixture(t)
	f.CreateFileOfSize("tree/a.bin", 100)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := probeSize(ctx, f.Path("tree"))
	require.ErrorIs(t, err, ErrCancelled)
}
