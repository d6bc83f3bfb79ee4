package main

import (
	"fmt"
	"log/slog"
	"net/http"

	"github.com/spf13/cobra"

	"github.com/refdocs/docmirror/internal/config"
	"github.com/refdocs/docmirror/internal/fetch"
	"github.com/refdocs/docmirror/internal/target"
)

// NewFetchCmd creates the fetch command.
func NewFetchCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fetch",
		Short: "Bulk download pages via the plaintext .md route",
		Long: `Fetch downloads every URL in the list through the direct
plaintext route: ReadMe-hosted references expose each page at
<url>.md, which is often more reliable than browser rendering or
third-party scraping and embeds the endpoint's OpenAPI snippet.

The run is resumable: pages whose .md file already exists are skipped
unless --force is given. Throttling and transient server errors are
retried with jittered exponential backoff.

Examples:
  # Mirror all endpoint pages
  docmirror fetch --urls docs/urls_endpoints.txt --out docs/pages_md

  # Slow, single-worker run with a larger retry budget
  docmirror fetch --urls docs/urls_endpoints.txt --jobs 1 --retries 5`,
		RunE: runFetchCmd,
	}

	cmd.Flags().StringP("urls", "u", "docs/urls_endpoints.txt", "Path to the newline-delimited URL list")
	cmd.Flags().StringP("out", "o", "docs/pages_md", "Output directory for mirrored pages")
	cmd.Flags().IntP("jobs", "j", config.DefaultJobs, "Number of parallel downloads")
	cmd.Flags().IntP("retries", "r", config.DefaultRetries, "Retries per URL on transient failures")
	cmd.Flags().DurationP("timeout", "t", config.DefaultTimeout, "Timeout for each download attempt")
	cmd.Flags().BoolP("force", "f", false, "Re-download pages even if the .md file exists")
	cmd.Flags().IntP("limit", "l", 0, "Process at most this many URLs (0 = no limit)")
	cmd.Flags().String("user-agent", config.DefaultUserAgent, "User-Agent header for requests")
	cmd.Flags().String("report", "", "Write a markdown run report to this file")
	cmd.Flags().StringP("config", "c", "", "Configuration file path (default: .docmirror in the current directory)")

	return cmd
}

// runFetchCmd executes the fetch command.
func runFetchCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildFetchConfig(cmd)
	if err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("configuration error: %w", err)
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	targets, err := target.LoadList(cfg.URLsFile, cfg.Limit)
	if err != nil {
		return err
	}
	applyHostConfig(cfg, targets)

	fetcher := fetch.NewPlaintextFetcher(
		fetch.WithHTTPClient(&http.Client{Timeout: cfg.Timeout}),
		fetch.WithUserAgent(cfg.UserAgent),
		fetch.WithHeaders(cfg.Headers),
	)

	// The plaintext route serves each page at <url>.md.
	return runBulk(ctx, cfg, fetcher, "fetch", true, targets, logger)
}

// buildFetchConfig creates a Config from the fetch command flags.
func buildFetchConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.NewConfig()

	var err error
	if cfg.URLsFile, err = cmd.Flags().GetString("urls"); err != nil {
		return nil, err
	}
	if cfg.OutDir, err = cmd.Flags().GetString("out"); err != nil {
		return nil, err
	}
	if cfg.Jobs, err = cmd.Flags().GetInt("jobs"); err != nil {
		return nil, err
	}
	if cfg.Retries, err = cmd.Flags().GetInt("retries"); err != nil {
		return nil, err
	}
	if cfg.Timeout, err = cmd.Flags().GetDuration("timeout"); err != nil {
		return nil, err
	}
	if cfg.Force, err = cmd.Flags().GetBool("force"); err != nil {
		return nil, err
	}
	if cfg.Limit, err = cmd.Flags().GetInt("limit"); err != nil {
		return nil, err
	}
	if cfg.UserAgent, err = cmd.Flags().GetString("user-agent"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("report"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}

	if err := loadHostConfigs(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
