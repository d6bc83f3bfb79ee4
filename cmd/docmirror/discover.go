package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/refdocs/docmirror/internal/config"
	"github.com/refdocs/docmirror/internal/discover"
	"github.com/refdocs/docmirror/internal/fetch"
)

// NewDiscoverCmd creates the discover command.
func NewDiscoverCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "discover",
		Short: "Extract documentation URLs from the reference sidebar",
		Long: `Discover scrapes the reference index page, extracts every
documentation link from its sidebar, and classifies endpoint pages by
their slug naming convention (<method>_<operation>).

It writes three files under the output directory:
  urls.txt               all documentation URLs
  urls_endpoints.txt     endpoint reference pages
  urls_non_endpoints.txt everything else

The scraped index HTML is cached under <out>/_discovery so repeated
runs do not hit the backend again. Prefer the reference index URL:
some endpoint pages are too large to scrape as HTML.

Example:
  docmirror discover --url https://open-api.docs.example.com/reference`,
		RunE: runDiscoverCmd,
	}

	cmd.Flags().String("url", "", "Reference index page URL (required)")
	cmd.Flags().StringP("out", "o", "docs", "Output directory for URL lists")
	cmd.Flags().Duration("max-age", config.DefaultMaxAge, "Accept cached scrape results up to this age")
	cmd.Flags().DurationP("timeout", "t", 2*time.Minute, "Timeout for the index scrape")
	cmd.Flags().String("scrape-command", "firecrawl", "Scraping CLI executable")

	return cmd
}

// runDiscoverCmd executes the discover command.
func runDiscoverCmd(cmd *cobra.Command, _ []string) error {
	indexURL, err := cmd.Flags().GetString("url")
	if err != nil {
		return err
	}
	if indexURL == "" {
		return errors.New("no index URL specified: use --url")
	}

	outDir, err := cmd.Flags().GetString("out")
	if err != nil {
		return err
	}
	maxAge, err := cmd.Flags().GetDuration("max-age")
	if err != nil {
		return err
	}
	timeout, err := cmd.Flags().GetDuration("timeout")
	if err != nil {
		return err
	}
	scrapeCommand, err := cmd.Flags().GetString("scrape-command")
	if err != nil {
		return err
	}

	logger := setupLogger(getVerboseFlag(cmd))
	slog.SetDefault(logger)

	ctx, cancel := signalContext(logger)
	defer cancel()

	ctx, cancelTimeout := context.WithTimeout(ctx, timeout)
	defer cancelTimeout()

	// The sidebar needs the full page HTML; main-content extraction
	// would drop the navigation the links live in.
	fetcher := fetch.NewScrapeFetcher(
		fetch.WithScrapeCommand(scrapeCommand),
		fetch.WithFormats([]string{"html"}),
		fetch.WithOnlyMainContent(false),
		fetch.WithMaxAge(maxAge),
	)

	d := discover.NewDiscoverer(fetcher, outDir, discover.WithLogger(logger))
	result, err := d.Discover(ctx, indexURL)
	if err != nil {
		return fmt.Errorf("discovery failed: %w", err)
	}

	// Machine-readable counts, same contract as the bulk summary.
	out, err := json.Marshal(result.Counts())
	if err != nil {
		return err
	}
	fmt.Fprintln(cmd.OutOrStdout(), string(out))
	return nil
}
