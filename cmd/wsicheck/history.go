package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"text/tabwriter"
	"time"

	"github.com/simonhull/wsicheck/internal/config"
	"github.com/simonhull/wsicheck/internal/history"
	"github.com/spf13/cobra"
)

// NewHistoryCmd creates the history command.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [file]",
		Short: "List recorded validation runs",
		Long: `History lists runs recorded by "wsicheck validate", newest first.

With a file argument only that file's runs are listed; --report prints the
stored JSON report of its latest run.

Examples:
  wsicheck history
  wsicheck history -n 5 slide.svs
  wsicheck history --report slide.svs`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().IntP("limit", "n", 20, "Maximum number of runs to list (0 lists all)")
	cmd.Flags().Bool("report", false, "Print the stored report of the latest run")
	cmd.Flags().String("db-dir", "",
		"Directory of the history database (default: XDG data directory)")

	return cmd
}

func runHistoryCmd(cmd *cobra.Command, args []string) error {
	flags := cmd.Flags()

	limit, err := flags.GetInt("limit")
	if err != nil {
		return err
	}
	showReport, err := flags.GetBool("report")
	if err != nil {
		return err
	}
	dbDir, err := flags.GetString("db-dir")
	if err != nil {
		return err
	}
	if dbDir == "" {
		dbDir = config.XDGDataDir()
	}

	var path string
	if len(args) == 1 {
		path = historyKey(args[0])
	}
	if showReport && path == "" {
		return errors.New("--report needs a file argument")
	}

	store, err := history.Open(dbDir)
	if err != nil {
		return fmt.Errorf("failed to open history: %w", err)
	}
	defer store.Close()

	out := cmd.OutOrStdout()

	if showReport {
		run, err := store.Latest(cmd.Context(), path)
		if err != nil {
			return fmt.Errorf("%s: %w", args[0], err)
		}
		if run.ReportJSON == "" {
			fmt.Fprintf(out, "%s: %s\n", args[0], run.Error)
			return nil
		}
		fmt.Fprintln(out, run.ReportJSON)
		return nil
	}

	runs, err := store.List(cmd.Context(), path, limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No recorded runs.")
		return nil
	}

	tw := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CHECKED\tRESULT\tTILES\tINVALID\tWARNINGS\tFILE")
	for _, run := range runs {
		result := "ok"
		switch {
		case run.Error != "":
			result = "error"
		case !run.OK:
			result = "fail"
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%d\t%d\t%s\n",
			run.CheckedAt.Local().Format(time.DateTime),
			result,
			run.TotalTiles,
			run.InvalidCount,
			run.Warnings,
			filepath.Base(run.Path),
		)
	}
	return tw.Flush()
}
