// Package reporter renders scan snapshots and cleanup reports for the CLI
// boundary in several formats.
package reporter

import (
	"encoding/json"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"reclaim/internal/cleanup"
	"reclaim/internal/scan"
)

// OutputFormat represents the output format type
type OutputFormat string

const (
	FormatSummary OutputFormat = "summary"
	FormatTable   OutputFormat = "table"
	FormatJSON    OutputFormat = "json"
	FormatYAML    OutputFormat = "yaml"
)

// Reporter handles report generation
type Reporter struct {
	writer io.Writer
	format OutputFormat
}

// New creates a new Reporter
func New(writer io.Writer, format OutputFormat) *Reporter {
	return &Reporter{writer: writer, format: format}
}

// Snapshot renders one scan snapshot.
func (r *Reporter) Snapshot(snap *scan.Snapshot) error {
	switch r.format {
	case FormatJSON:
		return r.encodeJSON(snap)
	case FormatYAML:
		return r.encodeYAML(snap)
	case FormatTable:
		return r.snapshotTable(snap)
	case FormatSummary:
		return r.snapshotSummary(snap)
	default:
		return fmt.Errorf("unsupported format: %s", r.format)
	}
}

// Cleanup renders a cleanup report.
func (r *Reporter) Cleanup(report *cleanup.Report) error {
	switch r.format {
	case FormatJSON:
		return r.encodeJSON(report)
	case FormatYAML:
		return r.encodeYAML(report)
	default:
		return r.cleanupSummary(report)
	}
}

func (r *Reporter) encodeJSON(v any) error {
	enc := json.NewEncoder(r.writer)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func (r *Reporter) encodeYAML(v any) error {
	enc := yaml.NewEncoder(r.writer)
	defer enc.Close()
	return enc.Encode(v)
}

func (r *Reporter) snapshotSummary(snap *scan.Snapshot) error {
	fmt.Fprintf(r.writer, "=== %s scan: %s ===\n", snap.Kind, snap.Root)
	if snap.Partial {
		fmt.Fprintln(r.writer, "NOTE: scan was cancelled; results are partial")
	}

	switch snap.Kind {
	case scan.KindBloat:
		for _, cat := range snap.Bloat {
			fmt.Fprintf(r.writer, "  %s: %d entries, %s\n",
				cat.CategoryID, len(cat.Entries), humanize.IBytes(uint64(cat.TotalSizeBytes)))
		}
	case scan.KindLargeFiles:
		fmt.Fprintf(r.writer, "  %d files at or above threshold\n", len(snap.LargeFiles))
	case scan.KindJunk:
		fmt.Fprintf(r.writer, "  %d junk files\n", len(snap.Junk))
	case scan.KindDuplicates:
		fmt.Fprintf(r.writer, "  %d duplicate groups\n", len(snap.Duplicates))
	}

	fmt.Fprintf(r.writer, "Reclaimable: %s", humanize.IBytes(uint64(snap.TotalSizeBytes())))
	if snap.Volume != nil {
		fmt.Fprintf(r.writer, " (volume free: %s of %s)",
			humanize.IBytes(snap.Volume.FreeBytes), humanize.IBytes(snap.Volume.TotalBytes))
	}
	fmt.Fprintln(r.writer)

	if len(snap.Warnings) > 0 {
		fmt.Fprintf(r.writer, "Warnings: %d subtrees skipped\n", len(snap.Warnings))
	}
	fmt.Fprintf(r.writer, "Elapsed: %s\n", snap.FinishedAt.Sub(snap.StartedAt).Round(time.Millisecond))
	return nil
}

func (r *Reporter) snapshotTable(snap *scan.Snapshot) error {
	switch snap.Kind {
	case scan.KindBloat:
		fmt.Fprintf(r.writer, "%-12s  %-10s  %-9s  %s\n", "SIZE", "CATEGORY", "SAFETY", "PATH")
		for _, cat := range snap.Bloat {
			for _, e := range cat.Entries {
				fmt.Fprintf(r.writer, "%-12s  %-10s  %-9s  %s\n",
					humanize.IBytes(uint64(e.SizeBytes)), cat.CategoryID, e.Safety, e.Path)
			}
		}
	case scan.KindLargeFiles:
		fmt.Fprintf(r.writer, "%-12s  %-20s  %s\n", "SIZE", "MODIFIED", "PATH")
		for _, e := range snap.LargeFiles {
			fmt.Fprintf(r.writer, "%-12s  %-20s  %s\n",
				humanize.IBytes(uint64(e.SizeBytes)), humanize.Time(e.ModifiedTime), e.Path)
		}
	case scan.KindJunk:
		fmt.Fprintf(r.writer, "%-12s  %-16s  %s\n", "SIZE", "PATTERN", "PATH")
		for _, e := range snap.Junk {
			fmt.Fprintf(r.writer, "%-12s  %-16s  %s\n",
				humanize.IBytes(uint64(e.SizeBytes)), e.PatternMatched, e.Path)
		}
	case scan.KindDuplicates:
		for _, g := range snap.Duplicates {
			fmt.Fprintf(r.writer, "group %s (savable %s):\n",
				shortHash(g.ContentHash), humanize.IBytes(uint64(g.SavableBytes)))
			for _, f := range g.Files {
				fmt.Fprintf(r.writer, "  %s\n", f.Path)
			}
		}
	}
	return nil
}

func (r *Reporter) cleanupSummary(report *cleanup.Report) error {
	verb := "Deleted"
	if report.DryRun {
		verb = "Would delete"
	}
	fmt.Fprintf(r.writer, "%s %d items (%s freed)\n",
		verb, len(report.Deleted), humanize.IBytes(uint64(report.FreedBytes)))
	if len(report.Skipped) > 0 {
		fmt.Fprintf(r.writer, "Skipped %d items (already absent)\n", len(report.Skipped))
	}
	for _, f := range report.Failed {
		fmt.Fprintf(r.writer, "FAILED %s: %s\n", f.Path, f.Reason)
	}
	return nil
}

func shortHash(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}
