// Package main provides the entry point for the sitecensus CLI.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// NewRootCmd creates the root command for sitecensus.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sitecensus",
		Short: "Collect and classify organization website content",
		Long: `sitecensus crawls an organization's website within a fixed page budget,
filters links for relevance, classifies collected pages against a content
taxonomy, and produces a scored collection report.

With an API key configured, link filtering and classification use the
judge model; without one, filtering is disabled and classification falls
back to keyword matching.`,
		Version:       getVersion(),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	// Global flags that apply to all commands
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose logging")

	// Add subcommands
	cmd.AddCommand(NewCollectCmd())
	cmd.AddCommand(NewHistoryCmd())
	cmd.AddCommand(NewInitCmd())
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
