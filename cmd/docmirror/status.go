package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/refdocs/docmirror/internal/config"
	"github.com/refdocs/docmirror/internal/database"
)

// NewStatusCmd creates the status command.
func NewStatusCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show recent mirror runs",
		Long: `Status lists the most recent mirror runs recorded in the local
history database, including their outcome counters and, with
--failures, the targets that failed in each run.

Example:
  docmirror status
  docmirror status --limit 5 --failures`,
		RunE: runStatusCmd,
	}

	cmd.Flags().IntP("limit", "l", 10, "Number of runs to show")
	cmd.Flags().Bool("failures", false, "List the failed targets of each run")
	cmd.Flags().String("db-dir", config.XDGDataDir(), "Directory of the history database")

	return cmd
}

// runStatusCmd executes the status command.
func runStatusCmd(cmd *cobra.Command, _ []string) error {
	limit, err := cmd.Flags().GetInt("limit")
	if err != nil {
		return err
	}
	showFailures, err := cmd.Flags().GetBool("failures")
	if err != nil {
		return err
	}
	dbDir, err := cmd.Flags().GetString("db-dir")
	if err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	// Status only reads; never create an empty database just to report
	// that there is no history.
	db, err := database.Open(dbDir, database.Options{CreateIfNotExists: false, EnableWAL: true})
	if err != nil {
		return fmt.Errorf("no run history found (run a mirror command first): %w", err)
	}
	defer db.Close()

	runs, err := db.RecentRuns(cmd.Context(), limit)
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No runs recorded.")
		return nil
	}

	out := cmd.OutOrStdout()
	for _, run := range runs {
		fmt.Fprintf(out, "#%d %s  %s  downloaded=%d skipped=%d failed=%d total=%d (%s)\n",
			run.ID,
			run.Command,
			run.StartedAt.Local().Format("2006-01-02 15:04:05"),
			run.Summary.Downloaded,
			run.Summary.Skipped,
			run.Summary.Failed,
			run.Summary.Total,
			run.FinishedAt.Sub(run.StartedAt).Round(time.Second),
		)

		if showFailures && run.Summary.Failed > 0 {
			failures, err := db.RunFailures(cmd.Context(), run.ID)
			if err != nil {
				return err
			}
			for _, rec := range failures {
				fmt.Fprintf(out, "    FAIL %s (%d attempts): %s\n", rec.URL, rec.Attempts, rec.Error)
			}
		}
	}

	return nil
}
