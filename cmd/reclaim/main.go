package main

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"reclaim/internal/cleanup"
	"reclaim/internal/config"
	"reclaim/internal/disk"
	"reclaim/internal/logger"
	"reclaim/internal/platform"
	"reclaim/internal/progress"
	"reclaim/internal/reporter"
	"reclaim/internal/scan"
	"reclaim/internal/security"
)

var (
	Version   = "0.1.0"
	GitCommit = "unknown"
	BuildTime = "unknown"
)

var (
	configPath string
	debugLog   bool
	outputFmt  string
	minSize    string
	maxDepth   int
	followSyms bool
	excludes   []string
	liveOutput bool
	dryRun     bool
	skipPrompt bool
	category   string
	fromFile   string
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "reclaim",
	Short: "Find and reclaim wasted disk space",
	Long: `Reclaim scans a directory tree for recoverable disk space:
  - Development bloat (node_modules, build output, virtualenvs, tool caches)
  - Large forgotten files above a size threshold
  - Junk files (.DS_Store, editor swap files, temp artifacts)
  - Duplicate files with byte-identical content

Deletion is always trash-based and every action is written to an
append-only audit log.`,
	Version: fmt.Sprintf("%s (commit: %s, built: %s)", Version, GitCommit, BuildTime),
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		info, err := platform.GetInfo()
		if err != nil {
			return err
		}
		return logger.Init(info.DataDir, debugLog)
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		logger.Close()
	},
}

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan a directory tree without making changes",
}

var bloatCmd = &cobra.Command{
	Use:   "bloat [path]",
	Short: "Find development bloat directories (node_modules, build output, caches)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, args, scan.KindBloat)
	},
}

var largeCmd = &cobra.Command{
	Use:   "large [path]",
	Short: "Find files at or above the size threshold",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, args, scan.KindLargeFiles)
	},
}

var junkCmd = &cobra.Command{
	Use:   "junk [path]",
	Short: "Find junk files (.DS_Store, swap files, temp artifacts)",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, args, scan.KindJunk)
	},
}

var duplicatesCmd = &cobra.Command{
	Use:     "duplicates [path]",
	Aliases: []string{"dupes"},
	Short:   "Find files with byte-identical content",
	Args:    cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScan(cmd, args, scan.KindDuplicates)
	},
}

var cleanCmd = &cobra.Command{
	Use:   "clean [path...]",
	Short: "Move the given paths to trash and record them in the audit log",
	Long: `Moves each path to the platform trash directory. Paths can be given as
arguments or read one per line from a file with --from. Every path is
validated against the protected-path list before anything is touched.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runClean(cmd, args)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status [path]",
	Short: "Show volume usage for a path",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		target := "."
		if len(args) == 1 {
			target = args[0]
		}
		abs, err := filepath.Abs(target)
		if err != nil {
			return err
		}
		usage, err := disk.ForPath(abs)
		if err != nil {
			return err
		}
		fmt.Printf("Volume for %s\n", abs)
		fmt.Printf("  Total: %s\n", humanize.IBytes(usage.TotalBytes))
		fmt.Printf("  Used:  %s (%.1f%%)\n", humanize.IBytes(usage.UsedBytes), usage.UsedPercent)
		fmt.Printf("  Free:  %s\n", humanize.IBytes(usage.FreeBytes))
		return nil
	},
}

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show past cleanup actions from the audit log",
	RunE: func(cmd *cobra.Command, args []string) error {
		info, err := platform.GetInfo()
		if err != nil {
			return err
		}
		audit, err := cleanup.OpenAuditLog(filepath.Join(info.DataDir, "audit.log"))
		if err != nil {
			return err
		}
		records, err := audit.Records()
		if err != nil {
			return err
		}
		if len(records) == 0 {
			fmt.Println("No cleanup history.")
			return nil
		}
		for _, rec := range records {
			fmt.Printf("%s  %-8s  %-12s  %s\n",
				rec.Timestamp.Format("2006-01-02 15:04:05"), rec.Outcome,
				humanize.IBytes(uint64(rec.SizeBytes)), rec.Path)
		}
		return nil
	},
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write the default config file if none exists",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.EnsureConfigExists()
		if err != nil {
			return err
		}
		fmt.Println("Config file:", path)
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := config.Load(configPath)
		if err != nil {
			return err
		}
		enc := yaml.NewEncoder(os.Stdout)
		defer enc.Close()
		return enc.Encode(cfg)
	},
}

func runScan(cmd *cobra.Command, args []string, kind scan.Kind) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	info, err := platform.GetInfo()
	if err != nil {
		return fmt.Errorf("failed to get platform info: %w", err)
	}

	target := "."
	if len(args) == 1 {
		target = args[0]
	}
	validator := security.NewValidator(info, cfg.ProtectedPaths...)
	root, err := validator.Validate(target)
	if err != nil {
		return err
	}

	req, err := buildRequest(cmd, cfg, root)
	if err != nil {
		return err
	}

	maxHashable, err := cfg.Limits.MaxHashableBytes()
	if err != nil {
		return err
	}
	coord := scan.NewCoordinator(cfg.Limits.WorkerCount, maxHashable, progress.NewReporter(0))

	if liveOutput {
		stopLive := startLiveOutput(coord.Reporter())
		defer stopLive()
	}

	var snap *scan.Snapshot
	ctx := cmd.Context()
	switch kind {
	case scan.KindBloat:
		snap, err = coord.ScanBloat(ctx, req)
	case scan.KindLargeFiles:
		snap, err = coord.ScanLargeFiles(ctx, req)
	case scan.KindJunk:
		snap, err = coord.ScanJunk(ctx, req)
	case scan.KindDuplicates:
		snap, err = coord.ScanDuplicates(ctx, req)
	}
	if err != nil {
		return err
	}

	return reporter.New(os.Stdout, reporter.OutputFormat(outputFmt)).Snapshot(snap)
}

func buildRequest(cmd *cobra.Command, cfg *config.Config, root security.ValidatedPath) (scan.Request, error) {
	minBytes, err := cfg.Scan.MinFileSizeBytes()
	if err != nil {
		return scan.Request{}, err
	}
	if cmd.Flags().Changed("min") {
		parsed, err := humanize.ParseBytes(minSize)
		if err != nil {
			return scan.Request{}, fmt.Errorf("invalid --min value %q: %w", minSize, err)
		}
		minBytes = int64(parsed)
	}

	depth := cfg.Scan.MaxDepth
	if cmd.Flags().Changed("depth") {
		depth = maxDepth
	}
	follow := cfg.Scan.FollowSymlinks
	if cmd.Flags().Changed("follow-symlinks") {
		follow = followSyms
	}

	return scan.Request{
		Root:            root,
		MinSizeBytes:    minBytes,
		MaxDepth:        depth,
		FollowSymlinks:  follow,
		ExcludePatterns: append(append([]string{}, cfg.ExcludePatterns...), excludes...),
	}, nil
}

func runClean(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	info, err := platform.GetInfo()
	if err != nil {
		return fmt.Errorf("failed to get platform info: %w", err)
	}

	raw := append([]string{}, args...)
	if fromFile != "" {
		listed, err := readPathList(fromFile)
		if err != nil {
			return err
		}
		raw = append(raw, listed...)
	}
	if len(raw) == 0 {
		return fmt.Errorf("nothing to clean: give paths as arguments or use --from")
	}

	validator := security.NewValidator(info, cfg.ProtectedPaths...)
	paths := make([]security.ValidatedPath, 0, len(raw))
	// Selection files routinely repeat paths; the cached variant makes
	// re-validation of duplicates free.
	for _, p := range raw {
		vp, err := validator.ValidateCached(p)
		if err != nil {
			return err
		}
		paths = append(paths, vp)
	}

	if !dryRun && !skipPrompt {
		if !confirm(fmt.Sprintf("Move %d items to trash?", len(paths))) {
			fmt.Println("Aborted.")
			return nil
		}
	}

	opts, err := executorOptions(cfg)
	if err != nil {
		return err
	}
	opts.DryRun = dryRun

	audit, err := cleanup.OpenAuditLog(filepath.Join(info.DataDir, "audit.log"))
	if err != nil {
		return err
	}
	exec := cleanup.NewExecutor(info, cleanup.NewTrasher(info), audit, opts)

	report, err := exec.Execute(cleanup.Request{
		Paths:    paths,
		UseTrash: true,
		Category: category,
	})
	if err != nil {
		return err
	}
	return reporter.New(os.Stdout, reporter.OutputFormat(outputFmt)).Cleanup(report)
}

func executorOptions(cfg *config.Config) (cleanup.Options, error) {
	maxBytes, err := cfg.Limits.MaxBatchBytes()
	if err != nil {
		return cleanup.Options{}, err
	}
	delay, err := cfg.Retry.DelayDuration()
	if err != nil {
		return cleanup.Options{}, err
	}
	return cleanup.Options{
		MaxItems:      cfg.Limits.MaxBatchItems,
		MaxBytes:      maxBytes,
		RetryAttempts: cfg.Retry.Attempts,
		RetryDelay:    delay,
	}, nil
}

func readPathList(path string) ([]string, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read path list: %w", err)
	}
	defer file.Close()

	var paths []string
	sc := bufio.NewScanner(file)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		paths = append(paths, line)
	}
	return paths, sc.Err()
}

func confirm(prompt string) bool {
	fmt.Printf("%s [y/N]: ", prompt)
	sc := bufio.NewScanner(os.Stdin)
	if !sc.Scan() {
		return false
	}
	answer := strings.ToLower(strings.TrimSpace(sc.Text()))
	return answer == "y" || answer == "yes"
}

// startLiveOutput prints throttled progress events to stderr until the
// returned stop function is called.
func startLiveOutput(r *progress.Reporter) func() {
	ch := r.Subscribe()
	done := make(chan struct{})
	go func() {
		defer close(done)
		for ev := range ch {
			if ev.Phase == progress.PhaseComplete {
				fmt.Fprintf(os.Stderr, "\r%-100s\n", fmt.Sprintf("done: %d items", ev.ItemsProcessed))
				continue
			}
			fmt.Fprintf(os.Stderr, "\r%-100s", fmt.Sprintf("[%s] %d items  %s", ev.Phase, ev.ItemsProcessed, ev.CurrentPath))
		}
	}()
	return func() {
		r.Unsubscribe(ch)
		<-done
	}
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "config file path")
	rootCmd.PersistentFlags().BoolVar(&debugLog, "debug", false, "write debug logs to the data directory")
	rootCmd.PersistentFlags().StringVar(&outputFmt, "output", "summary", "output format (summary, table, json, yaml)")

	scanCmd.PersistentFlags().StringVar(&minSize, "min", "", "minimum size threshold (e.g. 100MiB, 1GB)")
	scanCmd.PersistentFlags().IntVar(&maxDepth, "depth", 0, "maximum traversal depth")
	scanCmd.PersistentFlags().BoolVar(&followSyms, "follow-symlinks", false, "follow symlinked directories")
	scanCmd.PersistentFlags().StringArrayVar(&excludes, "exclude", nil, "glob pattern to skip (repeatable)")
	scanCmd.PersistentFlags().BoolVarP(&liveOutput, "live", "l", false, "show live scanning progress")

	cleanCmd.Flags().BoolVar(&dryRun, "dry-run", false, "show what would be deleted without actually deleting")
	cleanCmd.Flags().BoolVarP(&skipPrompt, "yes", "y", false, "skip confirmation prompt")
	cleanCmd.Flags().StringVar(&category, "category", "", "category label recorded in the audit log")
	cleanCmd.Flags().StringVar(&fromFile, "from", "", "file with one path per line to clean")

	scanCmd.AddCommand(bloatCmd, largeCmd, junkCmd, duplicatesCmd)
	configCmd.AddCommand(configInitCmd, configShowCmd)
	rootCmd.AddCommand(scanCmd, cleanCmd, statusCmd, historyCmd, configCmd)
}
