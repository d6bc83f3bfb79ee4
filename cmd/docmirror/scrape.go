package main

import (
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/refdocs/docmirror/internal/config"
	"github.com/refdocs/docmirror/internal/fetch"
	"github.com/refdocs/docmirror/internal/target"
)

// NewScrapeCmd creates the scrape command.
func NewScrapeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "scrape",
		Short: "Bulk download pages through the external scraping CLI",
		Long: `Scrape downloads every URL in the list through the external
scraping CLI and writes, per page, the converted markdown as
<path>.md and the raw backend response as <path>.json.

The run is resumable: pages whose .md file already exists are skipped
unless --force is given. The backend's cache is used on the first
attempt and bypassed on retries, since cached entries can be truncated.

Examples:
  # Mirror all discovered pages
  docmirror scrape --urls docs/urls.txt --out docs/pages

  # Re-download everything, four pages at a time
  docmirror scrape --urls docs/urls.txt --out docs/pages --jobs 4 --force

  # Keep markdown and html for each page
  docmirror scrape --urls docs/urls.txt --formats markdown,html`,
		RunE: runScrapeCmd,
	}

	cmd.Flags().StringP("urls", "u", "docs/urls.txt", "Path to the newline-delimited URL list")
	cmd.Flags().StringP("out", "o", "docs/pages", "Output directory for mirrored pages")
	cmd.Flags().IntP("jobs", "j", config.DefaultScrapeJobs,
		"Number of parallel scrape processes (higher values can cause truncated output on large pages)")
	cmd.Flags().IntP("retries", "r", config.DefaultScrapeRetries, "Retries per URL on transient failures")
	cmd.Flags().DurationP("timeout", "t", 2*time.Minute, "Timeout for each scrape attempt")
	cmd.Flags().Duration("max-age", config.DefaultMaxAge, "Accept cached scrape results up to this age (0 disables the cache)")
	cmd.Flags().Bool("only-main-content", false,
		"Ask the backend to strip page chrome (faster, but often loses the endpoint URL and method)")
	cmd.Flags().String("formats", "markdown", "Comma-separated backend formats (first one is saved as .md)")
	cmd.Flags().String("exclude-tags", "", "Comma-separated HTML tags the backend drops (default: script,style when chrome is kept)")
	cmd.Flags().String("scrape-command", "firecrawl", "Scraping CLI executable")
	cmd.Flags().BoolP("force", "f", false, "Re-download pages even if the .md file exists")
	cmd.Flags().IntP("limit", "l", 0, "Process at most this many URLs (0 = no limit)")
	cmd.Flags().String("report", "", "Write a markdown run report to this file")
	cmd.Flags().StringP("config", "c", "", "Configuration file path (default: .docmirror in the current directory)")

	return cmd
}

// runScrapeCmd executes the scrape command.
func runScrapeCmd(cmd *cobra.Command, _ []string) error {
	cfg, err := buildScrapeConfig(cmd)
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

	fetcher := fetch.NewScrapeFetcher(
		fetch.WithScrapeCommand(cfg.ScrapeCommand),
		fetch.WithFormats(cfg.Formats),
		fetch.WithOnlyMainContent(cfg.OnlyMainContent),
		fetch.WithExcludeTags(cfg.ExcludeTags),
		fetch.WithMaxAge(cfg.MaxAge),
	)

	return runBulk(ctx, cfg, fetcher, "scrape", false, targets, logger)
}

// buildScrapeConfig creates a Config from the scrape command flags.
func buildScrapeConfig(cmd *cobra.Command) (*config.Config, error) {
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
	if cfg.MaxAge, err = cmd.Flags().GetDuration("max-age"); err != nil {
		return nil, err
	}
	if cfg.OnlyMainContent, err = cmd.Flags().GetBool("only-main-content"); err != nil {
		return nil, err
	}
	formats, err := cmd.Flags().GetString("formats")
	if err != nil {
		return nil, err
	}
	cfg.Formats = splitList(formats)
	excludeTags, err := cmd.Flags().GetString("exclude-tags")
	if err != nil {
		return nil, err
	}
	cfg.ExcludeTags = splitList(excludeTags)
	if cfg.ScrapeCommand, err = cmd.Flags().GetString("scrape-command"); err != nil {
		return nil, err
	}
	if cfg.Force, err = cmd.Flags().GetBool("force"); err != nil {
		return nil, err
	}
	if cfg.Limit, err = cmd.Flags().GetInt("limit"); err != nil {
		return nil, err
	}
	if cfg.ReportFile, err = cmd.Flags().GetString("report"); err != nil {
		return nil, err
	}
	if cfg.ConfigFilePath, err = cmd.Flags().GetString("config"); err != nil {
		return nil, err
	}

	if len(cfg.Formats) == 0 {
		cfg.Formats = []string{"markdown"}
	}

	if err := loadHostConfigs(cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

// splitList splits a comma-separated flag value into trimmed,
// non-empty items.
func splitList(s string) []string {
	items := make([]string, 0)
	for _, item := range strings.Split(s, ",") {
		if trimmed := strings.TrimSpace(item); trimmed != "" {
			items = append(items, trimmed)
		}
	}
	return items
}
