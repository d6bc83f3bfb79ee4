package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for docmirror.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "docmirror",
		Short: "Mirror API reference documentation to local files",
		Long: `docmirror mirrors ReadMe-hosted API reference documentation.

It discovers page URLs from the reference sidebar, classifies endpoint
pages by their slug naming convention, and bulk downloads pages either
through an external scraping CLI (scrape) or through the direct
plaintext route (fetch). Runs are resumable: pages that already exist
locally are skipped unless --force is given.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewDiscoverCmd())
	cmd.AddCommand(NewScrapeCmd())
	cmd.AddCommand(NewFetchCmd())
	cmd.AddCommand(NewStatusCmd())
	cmd.AddCommand(NewVersionCmd())

	return cmd
}

// Execute runs the root command.
func Execute() {
	if err := NewRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
