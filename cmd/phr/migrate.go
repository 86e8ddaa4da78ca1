// ABOUTME: CLI command for migrating records between storage backends.
// ABOUTME: Copies every user's records from the active backend to another one.
package main

import (
	"fmt"

	"github.com/harperreed/phr/internal/storage"
	"github.com/spf13/cobra"
)

var (
	migrateTo     string
	migrateDryRun bool
	migrateForce  bool
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Copy records to another storage backend",
	Long: `Copy every user's records from the active backend to another one.

A destination that already holds records is refused unless --force is
given; records already present there are then skipped. Source data is
never modified.

USAGE:

  phr migrate --to sqlite --dry-run   # Preview what would be copied
  phr migrate --to sqlite             # Copy CSV records into phr.db
  phr migrate --to csv --backend sqlite
  phr migrate --to sqlite --force     # Merge into an existing phr.db

AFTER MIGRATION:

  Set "backend: sqlite" in the config file (or PHR_BACKEND=sqlite) to use
  the new backend.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		dstCfg := *cfg
		dstCfg.Backend = migrateTo
		if dstCfg.GetBackend() == cfg.GetBackend() {
			return fmt.Errorf("destination backend %q is already the active backend", migrateTo)
		}
		dst, err := dstCfg.OpenStorage(logger)
		if err != nil {
			return fmt.Errorf("failed to open destination: %w", err)
		}
		defer dst.Close()

		if !migrateDryRun && !migrateForce {
			existing, err := dst.Users()
			if err != nil {
				return fmt.Errorf("failed to inspect destination: %w", err)
			}
			if len(existing) > 0 {
				return fmt.Errorf("destination %s already holds records for %d users; use --force to merge",
					dstCfg.GetBackend(), len(existing))
			}
		}

		if migrateDryRun {
			yellow.Fprintln(out, "Dry run mode - no changes will be made")
			fmt.Fprintln(out)
		}

		summary, err := storage.MigrateData(svc.Repository(), dst, migrateDryRun)
		if err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}

		verb := "Migrated"
		if migrateDryRun {
			verb = "Would migrate"
		}
		success(out, "%s %d records for %d users from %s to %s",
			verb, summary.Records, summary.Users, cfg.GetBackend(), dstCfg.GetBackend())
		if summary.Skipped > 0 {
			faint.Fprintf(out, "  %d already present\n", summary.Skipped)
		}
		return nil
	},
}

func init() {
	migrateCmd.Flags().StringVar(&migrateTo, "to", "sqlite", "destination backend: csv or sqlite")
	migrateCmd.Flags().BoolVar(&migrateDryRun, "dry-run", false, "preview migration without making changes")
	migrateCmd.Flags().BoolVar(&migrateForce, "force", false, "merge into a destination that already has records")
	rootCmd.AddCommand(migrateCmd)
}
