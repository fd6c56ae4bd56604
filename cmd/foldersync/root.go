package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/m0dd0/FolderSync/internal/config"
	"github.com/m0dd0/FolderSync/internal/domain"
	"github.com/m0dd0/FolderSync/internal/logger"
	"github.com/m0dd0/FolderSync/internal/progress"
	"github.com/m0dd0/FolderSync/internal/service"
)

type rootOptions struct {
	configPath   string
	threads      int
	opsPerThread int
	compare      string
	ignore       []string
	dryRun       bool
	quiet        bool
	logLevel     string
	logFormat    string
	logFile      string
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}

	cmd := &cobra.Command{
		Use:   "foldersync <source> <target>",
		Short: "Mirror a target directory tree from a source tree",
		Long: `foldersync makes the target directory an exact one-way mirror of the
source directory, performing only the filesystem operations needed to
eliminate differences and running them concurrently.`,
		Args:          cobra.ExactArgs(2),
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd, opts, args[0], args[1])
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.configPath, "config", "", "config file (default: searched in platform config dirs)")
	flags.IntVar(&opts.threads, "threads", 0, "number of concurrent workers")
	flags.IntVar(&opts.opsPerThread, "ops-per-thread", 0, "operations grouped per scheduling unit")
	flags.StringVar(&opts.compare, "compare", "", "file equality policy: metadata or content")
	flags.StringSliceVar(&opts.ignore, "ignore", nil, "glob patterns excluded from both trees")
	flags.BoolVar(&opts.dryRun, "dry-run", false, "print the plan without executing it")
	flags.BoolVarP(&opts.quiet, "quiet", "q", false, "suppress the progress bar")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level: debug, info, warn, error")
	flags.StringVar(&opts.logFormat, "log-format", "", "log format: text or json")
	flags.StringVar(&opts.logFile, "log-file", "", "also write logs to this rotating file")

	return cmd
}

func run(cmd *cobra.Command, opts *rootOptions, sourceRoot, targetRoot string) error {
	cfg, err := config.Load(opts.configPath)
	if err != nil {
		return err
	}
	applyFlagOverrides(cmd, opts, cfg)
	if err := cfg.Validate(); err != nil {
		return err
	}

	if err := initLogger(cfg); err != nil {
		return err
	}
	defer logger.Shutdown()

	svc, err := service.NewSyncService(cfg.SyncConfig())
	if err != nil {
		return err
	}
	svc.SetComparePolicy(cfg.Compare)
	svc.SetIgnorePatterns(cfg.Ignore)

	plan, err := svc.Plan(sourceRoot, targetRoot)
	if err != nil {
		return err
	}

	if opts.dryRun {
		printPlan(cmd, plan)
		return nil
	}

	if !opts.quiet {
		svc.SetProgressReporter(progress.NewBarReporter(cmd.ErrOrStderr()))
	}

	result, err := svc.Execute(cmd.Context(), sourceRoot, targetRoot, plan)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "created: %d, updated: %d, deleted: %d, unchanged: %d\n",
		result.Created, result.Updated, result.Deleted, plan.Stats.Unchanged)

	if !result.OK() {
		fmt.Fprintf(out, "%d path(s) failed to sync:\n", len(result.Errors))
		for _, opErr := range result.Errors {
			fmt.Fprintf(out, "  %s\n", opErr)
		}
		return fmt.Errorf("sync completed with %d error(s)", len(result.Errors))
	}

	return nil
}

// applyFlagOverrides layers explicitly set flags over the config file
func applyFlagOverrides(cmd *cobra.Command, opts *rootOptions, cfg *config.Config) {
	flags := cmd.Flags()
	if flags.Changed("threads") {
		cfg.Threads = opts.threads
	}
	if flags.Changed("ops-per-thread") {
		cfg.OpsPerThread = opts.opsPerThread
	}
	if flags.Changed("compare") {
		cfg.Compare = opts.compare
	}
	if flags.Changed("ignore") {
		cfg.Ignore = opts.ignore
	}
	if flags.Changed("log-level") {
		cfg.Logging.Level = opts.logLevel
	}
	if flags.Changed("log-format") {
		cfg.Logging.Format = opts.logFormat
	}
	if flags.Changed("log-file") {
		cfg.Logging.File = opts.logFile
	}
}

func initLogger(cfg *config.Config) error {
	logCfg := logger.Config{
		Level:  logger.ParseLevel(cfg.Logging.Level),
		Format: logger.ParseFormat(cfg.Logging.Format),
	}
	if cfg.Logging.File != "" {
		logCfg.File = logger.FileConfig{
			Enabled:    true,
			Path:       cfg.Logging.File,
			MaxSizeMB:  10,
			MaxAgeDays: 30,
			MaxBackups: 5,
		}
	}
	return logger.Init(logCfg)
}

func printPlan(cmd *cobra.Command, plan *domain.SyncPlan) {
	out := cmd.OutOrStdout()
	if plan.Empty() {
		fmt.Fprintln(out, "trees are already in sync, nothing to do")
		return
	}
	for i, batch := range plan.Batches {
		fmt.Fprintf(out, "batch %d:\n", i+1)
		for _, op := range batch {
			fmt.Fprintf(out, "  %-11s %s\n", op.Type, op.Path)
		}
	}
	fmt.Fprintf(out, "%d operation(s) in %d batch(es), %s to copy\n",
		plan.OperationCount(), len(plan.Batches), progress.FormatBytes(plan.Stats.BytesToCopy))
}
