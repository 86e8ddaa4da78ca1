// ABOUTME: CLI commands for exporting and importing health records.
// ABOUTME: Supports JSON and YAML export; import merges JSON without duplicates.
package main

import (
	"fmt"
	"os"

	"github.com/harperreed/phr/internal/storage"
	"github.com/spf13/cobra"
)

var exportOutput string

var exportCmd = &cobra.Command{
	Use:   "export <format>",
	Short: "Export health records",
	Long: `Export the current user's records.

FORMATS:

  json       Full JSON export (suitable for backup/restore)
  yaml       YAML export (human-readable)

EXAMPLES:

  phr export json                        # Export to stdout
  phr export json -o backup.json         # Save to file
  phr export yaml -u alice`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"json", "yaml"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		snapshot, err := storage.GetAllData(svc.Repository(), currentUser())
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		var data []byte
		switch args[0] {
		case "json":
			data, err = snapshot.JSON()
		case "yaml":
			data, err = snapshot.YAML()
		default:
			return fmt.Errorf("unknown format: %s (use json or yaml)", args[0])
		}
		if err != nil {
			return fmt.Errorf("export failed: %w", err)
		}

		if exportOutput != "" {
			if err := os.WriteFile(exportOutput, data, 0600); err != nil {
				return fmt.Errorf("failed to write file: %w", err)
			}
			success(out, "Exported %d records to %s", len(snapshot.Records), exportOutput)
			return nil
		}
		fmt.Fprintln(out, string(data))
		return nil
	},
}

var importCmd = &cobra.Command{
	Use:   "import <file>",
	Short: "Import health records from JSON",
	Long: `Import records from a JSON file written by 'phr export json'.

Records already stored (same date, readings and notes) are skipped, so
importing the same file twice is safe. Records go to the current user,
whatever user the file was exported from.

EXAMPLES:

  phr import backup.json
  phr import backup.json -u bob`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		data, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("failed to read file: %w", err)
		}
		snapshot, err := storage.ParseJSON(data)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}

		added, err := svc.Import(currentUser(), snapshot.Records)
		if err != nil {
			return fmt.Errorf("import failed: %w", err)
		}
		success(out, "Imported %d records from %s", added, args[0])
		if skipped := len(snapshot.Records) - added; skipped > 0 {
			faint.Fprintf(out, "  %d already present\n", skipped)
		}
		return nil
	},
}

func init() {
	exportCmd.Flags().StringVarP(&exportOutput, "output", "o", "", "output file (default: stdout)")

	rootCmd.AddCommand(exportCmd)
	rootCmd.AddCommand(importCmd)
}
