package main

import (
	"fmt"
	"log/slog"

	"github.com/simonhull/wsicheck"
	"github.com/simonhull/wsicheck/internal/config"
	"github.com/simonhull/wsicheck/internal/mmap"
	"github.com/simonhull/wsicheck/internal/slidemeta"
	"github.com/spf13/cobra"
)

// NewInspectCmd creates the inspect command.
func NewInspectCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "inspect [file]...",
		Short: "Print the directory structure of slides without checking tiles",
		Long: `Inspect parses the container only: byte order, every directory with its
size, tiling, compression and JPEGTables, and descriptive tags such as the
scanner make and software.

Examples:
  wsicheck inspect slide.svs
  wsicheck inspect --json slide.svs`,
		Args: cobra.MinimumNArgs(1),
		RunE: runInspectCmd,
	}

	cmd.Flags().BoolP("json", "j", false,
		"Output JSON (mutually exclusive with --markdown)")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output Markdown (mutually exclusive with --json)")
	cmd.Flags().Bool("first-only", false,
		"Read only the first directory")
	cmd.Flags().Int("max-directories", config.DefaultMaxDirectories,
		"Stop following the directory chain after this many directories")

	return cmd
}

func runInspectCmd(cmd *cobra.Command, args []string) error {
	cfg := config.NewConfig()
	flags := cmd.Flags()

	var err error
	if cfg.JSONReport, err = flags.GetBool("json"); err != nil {
		return err
	}
	if cfg.MarkdownReport, err = flags.GetBool("markdown"); err != nil {
		return err
	}
	if cfg.FirstDirectoryOnly, err = flags.GetBool("first-only"); err != nil {
		return err
	}
	if cfg.MaxDirectories, err = flags.GetInt("max-directories"); err != nil {
		return err
	}
	cfg.Verbose = getVerboseFlag(cmd)
	cfg.Targets = args
	cfg.NoHistory = true

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(cfg.Verbose)
	writer := newWriter(cmd.OutOrStdout(), cfg)
	opts := libraryOptions(cfg, logger)

	failed := 0
	for _, path := range args {
		layout, err := wsicheck.InspectFile(path, opts...)
		if err != nil {
			failed++
			if _, err := writer.WriteFailure(path, err); err != nil {
				return err
			}
			continue
		}

		if _, err := writer.WriteLayout(path, layout, describe(path, logger)); err != nil {
			return err
		}
	}

	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", errNotClean, failed, len(args))
	}
	return nil
}

// describe reads the descriptive tags of path. Failures only cost the
// tags, never the layout.
func describe(path string, logger *slog.Logger) []slidemeta.Tag {
	f, err := mmap.Open(path)
	if err != nil {
		logger.Debug("descriptive tags unavailable", "path", path, "error", err)
		return nil
	}
	defer f.Close()

	var tags []slidemeta.Tag
	err = mmap.Guard(func() {
		tags, err = slidemeta.Describe(f.Bytes())
	})
	if err != nil {
		logger.Debug("descriptive tags unavailable", "path", path, "error", err)
		return nil
	}
	return tags
}
