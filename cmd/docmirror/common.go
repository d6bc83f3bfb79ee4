package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/url"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/refdocs/docmirror/internal/config"
	"github.com/refdocs/docmirror/internal/database"
	"github.com/refdocs/docmirror/internal/fetch"
	internallog "github.com/refdocs/docmirror/internal/log"
	"github.com/refdocs/docmirror/internal/mirror"
	"github.com/refdocs/docmirror/internal/model"
	"github.com/refdocs/docmirror/internal/report"
	"github.com/refdocs/docmirror/internal/target"
)

// getVerboseFlag retrieves the verbose flag from the command or its parent.
func getVerboseFlag(cmd *cobra.Command) bool {
	verbose, err := cmd.Flags().GetBool("verbose")
	if err != nil {
		verbose, err = cmd.Root().PersistentFlags().GetBool("verbose")
		if err != nil {
			return false
		}
	}
	return verbose
}

// setupLogger creates the redacting structured logger used by every
// command. Config files can carry Authorization headers, so log output
// always goes through the redact handler.
func setupLogger(verbose bool) *slog.Logger {
	level := slog.LevelWarn
	if verbose {
		level = slog.LevelDebug
	}
	return internallog.NewLogger(os.Stderr, level)
}

// signalContext returns a context cancelled on SIGINT/SIGTERM.
func signalContext(logger *slog.Logger) (context.Context, context.CancelFunc) {
	ctx, cancel := context.WithCancel(context.Background())

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, os.Interrupt, syscall.SIGTERM)
	go func() {
		<-sigCh
		logger.Info("received shutdown signal, cancelling...")
		cancel()
	}()

	return ctx, cancel
}

// loadHostConfigs loads the optional per-host configuration file into
// cfg. An explicitly given path that does not exist is a setup error;
// a missing default file just yields an empty configuration.
func loadHostConfigs(cfg *config.Config) error {
	explicit := cfg.ConfigFilePath != ""
	path := config.FindConfigFile(cfg.ConfigFilePath)

	if path == "" {
		if explicit {
			return fmt.Errorf("configuration file not found: %s", cfg.ConfigFilePath)
		}
		cfg.HostConfigs = &config.File{Hosts: make(map[string]config.HostConfig)}
		return nil
	}

	hostConfigs, err := config.LoadConfigFile(path)
	if err != nil {
		return fmt.Errorf("failed to load config file %s: %w", path, err)
	}
	cfg.HostConfigs = hostConfigs
	return nil
}

// hostOf returns the hostname of a URL, or "" when it has none.
func hostOf(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return ""
	}
	return u.Host
}

// applyHostConfig merges the per-host settings for the first target's
// host into cfg. Bulk runs target a single reference host, so the
// first URL determines which overrides apply.
func applyHostConfig(cfg *config.Config, targets []target.Target) {
	if len(targets) == 0 {
		return
	}

	hc := cfg.HostConfigs.ForHost(hostOf(targets[0].URL))
	if hc.UserAgent != "" {
		cfg.UserAgent = hc.UserAgent
	}
	if len(hc.Headers) > 0 {
		cfg.Headers = hc.Headers
	}
	if len(cfg.ExcludeTags) == 0 && len(hc.ExcludeTags) > 0 {
		cfg.ExcludeTags = hc.ExcludeTags
	}
}

// runBulk executes the shared bulk download pipeline: run the
// orchestrator over the targets, record history, emit the summary, and
// translate failures into a non-zero exit.
func runBulk(ctx context.Context, cfg *config.Config, fetcher fetch.Fetcher, runName string, markdownRoute bool, targets []target.Target, logger *slog.Logger) error {
	if err := os.MkdirAll(cfg.OutDir, 0750); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}

	orch := mirror.New(fetcher, cfg.OutDir, runName,
		mirror.WithConcurrency(cfg.Jobs),
		mirror.WithRetries(cfg.Retries),
		mirror.WithForce(cfg.Force),
		mirror.WithMarkdownRoute(markdownRoute),
		mirror.WithAttemptTimeout(cfg.Timeout),
		mirror.WithLogger(logger),
	)

	runReport, runErr := orch.Run(ctx, targets)

	// History and report output are best-effort: a bookkeeping failure
	// must not mask the run outcome.
	if cfg.SaveHistory {
		saveRunHistory(ctx, cfg, runReport, logger)
	}
	if cfg.ReportFile != "" {
		if err := writeMarkdownReport(cfg.ReportFile, runReport); err != nil {
			logger.Error("failed to write report file", "path", cfg.ReportFile, "error", err)
		}
	}

	// The machine-readable summary always goes to stdout, even when
	// some targets failed.
	if _, err := report.NewJSONWriter(os.Stdout).Write(runReport); err != nil {
		return err
	}

	if runErr != nil {
		return runErr
	}
	if runReport.Summary.HasFailures() {
		return fmt.Errorf("%d of %d target(s) failed", runReport.Summary.Failed, runReport.Summary.Total)
	}
	return nil
}

// saveRunHistory records the run in the history database.
func saveRunHistory(ctx context.Context, cfg *config.Config, runReport *model.RunReport, logger *slog.Logger) {
	db, err := database.Open(cfg.DBDir, database.DefaultOptions())
	if err != nil {
		logger.Error("failed to open history database", "dir", cfg.DBDir, "error", err)
		return
	}
	defer db.Close()

	runID, err := db.SaveRun(ctx, runReport)
	if err != nil {
		logger.Error("failed to save run history", "error", err)
		return
	}
	logger.Info("run recorded", "runID", runID, "db", db.Path())
}

// writeMarkdownReport writes the markdown run report to path, creating
// parent directories as needed.
func writeMarkdownReport(path string, runReport *model.RunReport) error {
	dir := filepath.Dir(path)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create report directory: %w", err)
		}
	}

	f, err := os.Create(path) //nolint:gosec // User-provided report path is intentional
	if err != nil {
		return fmt.Errorf("failed to create report file: %w", err)
	}
	defer f.Close()

	_, err = report.NewMarkdownWriter(f).Write(runReport)
	return err
}
