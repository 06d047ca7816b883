package reporter

import (
	"bytes"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"reclaim/internal/cleanup"
	"reclaim/internal/scan"
)

func sampleSnapshot() *scan.Snapshot {
	now := time.Now()
	return &scan.Snapshot{
		Handle:     "h-1",
		Kind:       scan.KindBloat,
		Root:       "/home/dev/code",
		StartedAt:  now.Add(-2 * time.Second),
		FinishedAt: now,
		Bloat: []scan.BloatCategoryResult{
			{
				CategoryID:     "dependencies",
				TotalSizeBytes: 512 * 1024 * 1024,
				Entries: []scan.BloatEntry{
					{Path: "/home/dev/code/app/node_modules", SizeBytes: 512 * 1024 * 1024, Safety: scan.SafetySafe},
				},
			},
		},
	}
}

func TestSnapshotSummary(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, FormatSummary).Snapshot(sampleSnapshot()))

	out := buf.String()
	assert.Contains(t, out, "/home/dev/code")
	assert.Contains(t, out, "dependencies")
	assert.Contains(t, out, "512 MiB")
	assert.NotContains(t, out, "partial")
}

func TestSnapshotSummaryFlagsPartialResults(t *testing.T) {
	snap := sampleSnapshot()
	snap.Partial = true

	var buf bytes.Buffer
	require.NoError(t, New(&buf, FormatSummary).Snapshot(snap))
	assert.Contains(t, buf.String(), "partial")
}

func TestSnapshotTable(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, FormatTable).Snapshot(sampleSnapshot()))

	out := buf.String()
	assert.Contains(t, out, "PATH")
	assert.Contains(t, out, "/home/dev/code/app/node_modules")
	assert.Contains(t, out, "safe")
}

func TestSnapshotJSONRoundTrips(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, New(&buf, FormatJSON).Snapshot(sampleSnapshot()))

	var decoded scan.Snapshot
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))
	assert.Equal(t, scan.KindBloat, decoded.Kind)
	require.Len(t, decoded.Bloat, 1)
	assert.Equal(t, "dependencies", decoded.Bloat[0].CategoryID)
}

func TestUnsupportedFormat(t *testing.T) {
	var buf bytes.Buffer
	err := New(&buf, OutputFormat("csv")).Snapshot(sampleSnapshot())
	require.Error(t, err)
}

func TestCleanupSummary(t *testing.T) {
	report := &cleanup.Report{
		Deleted:    []string{"/a", "/b"},
		Skipped:    []string{"/c"},
		Failed:     []cleanup.ItemFailure{{Path: "/d", Class: cleanup.FailurePermission, Reason: "permission denied"}},
		FreedBytes: 2048,
	}

	var buf bytes.Buffer
	require.NoError(t, New(&buf, FormatSummary).Cleanup(report))

	out := buf.String()
	assert.Contains(t, out, "Deleted 2 items")
	assert.Contains(t, out, "2.0 KiB")
	assert.Contains(t, out, "Skipped 1 items")
	assert.Contains(t, out, "FAILED /d")
}

func TestCleanupSummaryDryRun(t *testing.T) {
	report := &cleanup.Report{Deleted: []string{"/a"}, FreedBytes: 10, DryRun: true}

	var buf bytes.Buffer
	require.NoError(t, New(&buf, FormatSummary).Cleanup(report))
	assert.Contains(t, buf.String(), "Would delete 1 items")
}
