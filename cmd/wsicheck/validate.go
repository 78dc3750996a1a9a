package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"slices"
	"strings"
	"syscall"

	"github.com/simonhull/wsicheck"
	"github.com/simonhull/wsicheck/internal/config"
	"github.com/simonhull/wsicheck/internal/history"
	"github.com/simonhull/wsicheck/internal/report"
	"github.com/spf13/cobra"
)

// errNotClean is returned when at least one file needs attention, so the
// process exits non-zero.
var errNotClean = errors.New("one or more files need attention")

// NewValidateCmd creates the validate command.
func NewValidateCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate [file or directory]...",
		Short: "Check every JPEG tile of one or more slides",
		Long: `Validate locates every tile of each slide and checks that it is a
structurally complete JPEG stream inside the file.

Directories are searched recursively for .svs, .tif, .tiff, .scn and .bif
files. The exit status is non-zero when any file has a damaged tile, a
container warning, or cannot be read at all.

Examples:
  # Check one slide
  wsicheck validate slide.svs

  # Check only the full-resolution level of every slide in a directory
  wsicheck validate --first-only slides/

  # Write a Markdown report
  wsicheck validate --markdown -o report.md slides/

  # Skip slides that passed before and have not changed
  wsicheck validate --skip-unchanged slides/`,
		Args: cobra.MinimumNArgs(1),
		RunE: runValidateCmd,
	}

	cmd.Flags().IntP("workers", "w", 0,
		"Tile validation workers per file (0 uses one per CPU)")
	cmd.Flags().Bool("first-only", false,
		"Validate only the first directory (full-resolution level)")
	cmd.Flags().Bool("strict", false,
		"Treat container warnings as errors")
	cmd.Flags().Bool("ignore-warnings", false,
		"Drop container warnings from reports")
	cmd.Flags().Int("max-directories", config.DefaultMaxDirectories,
		"Stop following the directory chain after this many directories")
	cmd.Flags().Int("max-problems", config.DefaultMaxProblems,
		"Problem tiles listed per file in text output (0 lists all)")

	cmd.Flags().StringP("config", "c", "",
		"Configuration file path (default: .wsicheck.yaml, XDG config dir, home directory)")

	cmd.Flags().BoolP("json", "j", false,
		"Output one JSON object per file (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output a Markdown report (mutually exclusive with --json)")
	cmd.Flags().StringP("output", "o", "",
		"Write report to specified file path (creates directories if needed)")

	cmd.Flags().Bool("no-history", false,
		"Do not record this run in the history database")
	cmd.Flags().Bool("skip-unchanged", false,
		"Skip files whose fingerprint matches an earlier clean run")
	cmd.Flags().String("db-dir", "",
		"Directory of the history database (default: XDG data directory)")

	return cmd
}

func runValidateCmd(cmd *cobra.Command, args []string) error {
	cfg, err := buildConfig(cmd, args)
	if err != nil {
		return err
	}

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	return runValidate(ctx, cmd.OutOrStdout(), cmd.ErrOrStderr(), cfg, logger)
}

// buildConfig layers defaults, the configuration file and explicitly set
// flags.
func buildConfig(cmd *cobra.Command, args []string) (*config.Config, error) {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	cfg.ConfigFilePath, err = flags.GetString("config")
	if err != nil {
		return nil, err
	}

	// An explicit path that does not exist is an error; a missing default
	// file is not.
	configPath := config.FindConfigFile(cfg.ConfigFilePath)
	switch {
	case configPath != "":
		cf, err := config.LoadConfigFile(configPath)
		if err != nil {
			return nil, fmt.Errorf("failed to load config file %s: %w", configPath, err)
		}
		cf.Apply(cfg)
	case cfg.ConfigFilePath != "":
		return nil, fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
	}

	ints := map[string]*int{
		"workers":         &cfg.Workers,
		"max-directories": &cfg.MaxDirectories,
		"max-problems":    &cfg.MaxProblems,
	}
	for name, dst := range ints {
		if flags.Changed(name) {
			if *dst, err = flags.GetInt(name); err != nil {
				return nil, err
			}
		}
	}

	bools := map[string]*bool{
		"first-only":      &cfg.FirstDirectoryOnly,
		"strict":          &cfg.Strict,
		"ignore-warnings": &cfg.IgnoreWarnings,
		"no-history":      &cfg.NoHistory,
		"skip-unchanged":  &cfg.SkipUnchanged,
	}
	for name, dst := range bools {
		if flags.Changed(name) {
			if *dst, err = flags.GetBool(name); err != nil {
				return nil, err
			}
		}
	}

	// --json and --markdown replace a format chosen in the file.
	if flags.Changed("json") || flags.Changed("markdown") {
		if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
			return nil, err
		}
		if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
			return nil, err
		}
	}

	if cfg.ReportFile, err = flags.GetString("output"); err != nil {
		return nil, err
	}

	if flags.Changed("db-dir") {
		if cfg.DBDir, err = flags.GetString("db-dir"); err != nil {
			return nil, err
		}
	}

	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Targets = args

	return cfg, nil
}

// libraryOptions translates the configuration into library options.
func libraryOptions(cfg *config.Config, logger *slog.Logger) []wsicheck.Option {
	opts := []wsicheck.Option{
		wsicheck.WithLogger(logger),
		wsicheck.WithMaxDirectories(cfg.MaxDirectories),
		wsicheck.WithWorkers(cfg.Workers),
	}
	if cfg.FirstDirectoryOnly {
		opts = append(opts, wsicheck.WithFirstDirectoryOnly())
	}
	if cfg.Strict {
		opts = append(opts, wsicheck.WithStrictParsing())
	}
	if cfg.IgnoreWarnings {
		opts = append(opts, wsicheck.WithIgnoreWarnings())
	}
	return opts
}

func runValidate(ctx context.Context, stdout, stderr io.Writer, cfg *config.Config, logger *slog.Logger) (err error) {
	targets, err := expandTargets(cfg.Targets)
	if err != nil {
		return err
	}
	if len(targets) == 0 {
		return errors.New("no slide files found")
	}

	var store *history.Store
	if !cfg.NoHistory {
		store, err = history.Open(cfg.DBDir)
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}
		defer store.Close()
		logger.Debug("history opened", "path", store.Path())
	}

	fingerprints := make(map[string]string, len(targets))
	pending := make([]string, 0, len(targets))
	for _, path := range targets {
		if store == nil {
			pending = append(pending, path)
			continue
		}

		fp, err := history.Fingerprint(path)
		if err != nil {
			// The validation itself reports the unreadable file.
			logger.Debug("fingerprint failed", "path", path, "error", err)
			pending = append(pending, path)
			continue
		}
		fingerprints[path] = fp

		if cfg.SkipUnchanged {
			unchanged, err := store.Unchanged(ctx, historyKey(path), fp)
			if err != nil {
				return err
			}
			if unchanged {
				fmt.Fprintf(stderr, "%s: unchanged since last clean run, skipped\n", path)
				continue
			}
		}
		pending = append(pending, path)
	}

	results, err := wsicheck.ValidateMany(ctx, pending, libraryOptions(cfg, logger)...)
	if err != nil {
		return err
	}

	out, closeOut, err := openOutput(stdout, cfg.ReportFile)
	if err != nil {
		return err
	}
	defer func() {
		if cerr := closeOut(); cerr != nil {
			err = errors.Join(err, fmt.Errorf("failed to close report file: %w", cerr))
		}
	}()
	writer := newWriter(out, cfg)

	failed := 0
	for _, res := range results {
		if res.Err != nil || !res.Report.OK() {
			failed++
		}

		if res.Err != nil {
			_, err = writer.WriteFailure(res.Path, res.Err)
		} else {
			_, err = writer.Write(res.Report)
		}
		if err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}

		if store != nil {
			if err := recordRun(ctx, store, res, fingerprints[res.Path]); err != nil {
				logger.Error("failed to record run", "path", res.Path, "error", err)
			}
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errNotClean, failed, len(results))
	}
	return nil
}

// expandTargets replaces directories with the slide files below them.
func expandTargets(args []string) ([]string, error) {
	exts := wsicheck.FormatTIFF.Extensions()

	var targets []string
	for _, arg := range args {
		info, err := os.Stat(arg)
		if err != nil || !info.IsDir() {
			// Missing files are reported per file by the validator.
			targets = append(targets, arg)
			continue
		}

		err = filepath.WalkDir(arg, func(path string, d fs.DirEntry, err error) error {
			if err != nil {
				return err
			}
			if d.Type().IsRegular() && slices.Contains(exts, strings.ToLower(filepath.Ext(path))) {
				targets = append(targets, path)
			}
			return nil
		})
		if err != nil {
			return nil, fmt.Errorf("failed to scan %s: %w", arg, err)
		}
	}
	return targets, nil
}

// openOutput returns stdout or the created report file.
func openOutput(stdout io.Writer, path string) (io.Writer, func() error, error) {
	if path == "" {
		return stdout, func() error { return nil }, nil
	}

	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o750); err != nil {
			return nil, nil, fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o600) //nolint:gosec // user-chosen report path
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create output file: %w", err)
	}
	return f, f.Close, nil
}

func newWriter(out io.Writer, cfg *config.Config) report.Writer {
	switch {
	case cfg.JSONReport:
		return report.NewJSONWriter(out)
	case cfg.MarkdownReport:
		return report.NewMarkdownWriter(out)
	default:
		return report.NewTextWriter(out,
			report.WithVerbose(cfg.Verbose),
			report.WithMaxProblems(cfg.MaxProblems),
		)
	}
}

// historyKey is the absolute path, so runs from different working
// directories line up.
func historyKey(path string) string {
	if abs, err := filepath.Abs(path); err == nil {
		return abs
	}
	return path
}

func recordRun(ctx context.Context, store *history.Store, res wsicheck.Result, fingerprint string) error {
	run := &history.Run{
		Path:        historyKey(res.Path),
		Fingerprint: fingerprint,
	}

	if res.Err != nil {
		run.Error = res.Err.Error()
		return store.Record(ctx, run)
	}

	var buf bytes.Buffer
	if _, err := report.NewJSONWriter(&buf).Write(res.Report); err != nil {
		return err
	}

	run.Size = res.Report.Size
	run.OK = res.Report.OK()
	run.TotalTiles = res.Report.TotalTiles
	run.InvalidCount = res.Report.InvalidCount()
	run.Warnings = len(res.Report.Warnings)
	run.ReportJSON = strings.TrimSuffix(buf.String(), "\n")
	return store.Record(ctx, run)
}
