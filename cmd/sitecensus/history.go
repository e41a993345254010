package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"sitecensus/internal/config"
	"sitecensus/internal/crawler"
	"sitecensus/internal/database"
	"sitecensus/internal/report"
)

// NewHistoryCmd creates the history command.
// This command inspects past collection runs stored in the database.
func NewHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history [url]",
		Short: "Inspect stored collection runs",
		Long: `History lists and retrieves collection runs saved in the database.

Without arguments it lists every collected site. With a URL it lists
that site's runs, newest first. Use --id to print a stored run as a
full report.

Examples:
  # List all collected sites
  sitecensus history

  # List runs for a site
  sitecensus history https://example.edu

  # Print a stored run as JSON
  sitecensus history --id 5 --json

  # Re-render a stored run as Markdown
  sitecensus history --id 5 --markdown`,
		Args: cobra.MaximumNArgs(1),
		RunE: runHistoryCmd,
	}

	cmd.Flags().Int64P("id", "i", 0,
		"Print the stored run with this ID (use the listing to see IDs)")
	cmd.Flags().BoolP("json", "j", false,
		"Output the stored run in JSON format")
	cmd.Flags().BoolP("markdown", "m", false,
		"Output the stored run in Markdown format")

	return cmd
}

// runHistoryCmd executes the history command.
func runHistoryCmd(cmd *cobra.Command, args []string) error {
	runID, err := cmd.Flags().GetInt64("id")
	if err != nil {
		return err
	}

	// Open the history database read-only; a missing database means
	// nothing has been collected yet.
	opts := database.DefaultOptions()
	opts.CreateIfNotExists = false

	db, err := database.Open(config.XDGDataDir(), opts)
	if err != nil {
		return fmt.Errorf("no collection history available: %w", err)
	}
	defer db.Close()

	ctx := context.Background()

	// Print one stored run
	if runID > 0 {
		return printStoredRun(ctx, cmd, db, runID)
	}

	// List runs for a site
	if len(args) == 1 {
		return listRunHistory(ctx, db, crawler.Normalize(args[0]))
	}

	// List all collected sites
	return listSources(ctx, db)
}

// listSources prints every site with stored runs.
func listSources(ctx context.Context, db *database.CollectDB) error {
	sources, err := db.ListSources(ctx)
	if err != nil {
		return err
	}

	if len(sources) == 0 {
		fmt.Println("No collection runs stored.")
		return nil
	}

	fmt.Printf("Collected sites (%d):\n", len(sources))
	for _, source := range sources {
		fmt.Printf("  %s\n", source)
	}
	return nil
}

// listRunHistory prints the run metadata for one site, newest first.
func listRunHistory(ctx context.Context, db *database.CollectDB, sourceURL string) error {
	runs, err := db.GetRunHistory(ctx, sourceURL)
	if err != nil {
		return err
	}

	if len(runs) == 0 {
		return fmt.Errorf("no runs stored for %s", sourceURL)
	}

	fmt.Printf("Runs for %s:\n\n", sourceURL)
	fmt.Printf("  %-5s %-20s %-25s %7s %7s %8s\n", "ID", "Date", "Organization", "Pages", "OK", "Words")
	for _, run := range runs {
		fmt.Printf("  %-5d %-20s %-25s %7d %7d %8d\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			truncateString(run.Organization, 25),
			run.PageCount,
			run.SuccessfulPages,
			run.TotalWords,
		)
	}
	return nil
}

// printStoredRun renders one stored run in the requested format.
func printStoredRun(ctx context.Context, cmd *cobra.Command, db *database.CollectDB, runID int64) error {
	jsonOutput, err := cmd.Flags().GetBool("json")
	if err != nil {
		return err
	}
	markdownOutput, err := cmd.Flags().GetBool("markdown")
	if err != nil {
		return err
	}
	if jsonOutput && markdownOutput {
		return errors.New("--json and --markdown are mutually exclusive")
	}

	result, err := db.GetResultByID(ctx, runID)
	if err != nil {
		return err
	}
	if result == nil {
		return fmt.Errorf("no run with ID %d", runID)
	}

	var writer report.Writer
	switch {
	case jsonOutput:
		writer = report.NewJSONWriter(os.Stdout, report.WithPrettyPrint())
	case markdownOutput:
		writer = report.NewMarkdownWriter(os.Stdout)
	default:
		writer = report.NewSimpleWriter(os.Stdout)
	}

	_, err = writer.Write(result)
	return err
}

// truncateString truncates a string to maxLen characters with ellipsis.
func truncateString(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	if maxLen <= 3 {
		return s[:maxLen]
	}
	return s[:maxLen-3] + "..."
}
