package main

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"sitecensus/internal/config"
)

//go:embed templates/taxonomy.yaml
var taxonomyTemplate embed.FS

// NewInitCmd creates the init command.
func NewInitCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "init",
		Short: "Initialize a starter taxonomy file",
		Long: `Init creates a taxonomy.yaml file in the current directory.

The generated file includes:
- A complete example taxonomy for educational-institution websites
- The {organization} placeholder convention
- Documentation for the file layout

Examples:
  # Create taxonomy.yaml in current directory
  sitecensus init

  # Create the taxonomy at a specific path
  sitecensus init -o mytaxonomy.yaml

  # Force overwrite existing file
  sitecensus init -f`,
		RunE: runInitCmd,
	}

	cmd.Flags().StringP("output", "o", config.DefaultTaxonomyFile,
		"Output file path for the taxonomy")
	cmd.Flags().BoolP("force", "f", false,
		"Overwrite existing taxonomy file")

	return cmd
}

// runInitCmd executes the init command.
func runInitCmd(cmd *cobra.Command, _ []string) error {
	outputPath, err := cmd.Flags().GetString("output")
	if err != nil {
		return err
	}

	force, err := cmd.Flags().GetBool("force")
	if err != nil {
		return err
	}

	// Check if file already exists
	if !force {
		if _, err := os.Stat(outputPath); err == nil {
			return fmt.Errorf("taxonomy file already exists: %s (use -f to overwrite)", outputPath)
		}
	}

	// Read template from embedded filesystem
	content, err := taxonomyTemplate.ReadFile("templates/taxonomy.yaml")
	if err != nil {
		return fmt.Errorf("failed to read taxonomy template: %w", err)
	}

	// Create parent directories if needed
	dir := filepath.Dir(outputPath)
	if dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0750); err != nil {
			return fmt.Errorf("failed to create directory: %w", err)
		}
	}

	// Write taxonomy file
	if err := os.WriteFile(outputPath, content, 0600); err != nil {
		return fmt.Errorf("failed to write taxonomy file: %w", err)
	}

	fmt.Printf("Created taxonomy file: %s\n", outputPath)
	fmt.Println("\nEdit this file to match the organization you are collecting:")
	fmt.Println("  - Rename sections and subsections for your domain")
	fmt.Println("  - Keep {organization} where the site name should appear")
	fmt.Println("  - Definitions guide the judge; make them concrete")

	return nil
}
