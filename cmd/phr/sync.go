// ABOUTME: CLI commands for Charm-based backup of health records.
// ABOUTME: Supports link, push, pull, status and wipe.
package main

import (
	"bufio"
	"fmt"
	"os"
	"os/exec"
	"strings"

	"github.com/fatih/color"
	"github.com/harperreed/phr/internal/charm"
	"github.com/spf13/cobra"
)

var syncCmd = &cobra.Command{
	Use:     "sync",
	Aliases: []string{"s"},
	Short:   "Back up health records with Charm Cloud",
	Long: `Back up and restore health records using Charm Cloud.

Your data is E2E encrypted with your SSH key before upload.
The server never sees your unencrypted health data.

GETTING STARTED:

  1. Link your device (creates/uses SSH key automatically):
     phr sync link

  2. Push this user's records:
     phr sync push

  3. On another device, link with the same account and pull:
     phr sync pull

COMMANDS:

  link        Link this device to your Charm account
  push        Upload the current user's records
  pull        Add remote records missing locally
  status      Show account and backup info
  wipe        Delete the current user's cloud backup`,
}

var syncLinkCmd = &cobra.Command{
	Use:         "link",
	Short:       "Link this device to Charm",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		charmCmd := exec.Command("charm", "link")
		charmCmd.Stdin = os.Stdin
		charmCmd.Stdout = os.Stdout
		charmCmd.Stderr = os.Stderr

		if err := charmCmd.Run(); err != nil {
			return fmt.Errorf("failed to link: %w\n\nMake sure 'charm' CLI is installed: go install github.com/charmbracelet/charm@latest", err)
		}
		color.Green("\n✓ Device linked to Charm")
		fmt.Println("Run 'phr sync push' to back up your records.")
		return nil
	},
}

var syncPushCmd = &cobra.Command{
	Use:   "push",
	Short: "Upload the current user's records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := charm.Open("", "")
		if err != nil {
			return err
		}
		defer client.Close()

		user := currentUser()
		records, err := svc.Records(user, zeroTime, zeroTime)
		if err != nil {
			return err
		}
		if err := client.PushRecords(user, records); err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "Pushed %d records for %s", len(records), user)
		return nil
	},
}

var syncPullCmd = &cobra.Command{
	Use:   "pull",
	Short: "Add remote records missing locally",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := charm.Open("", "")
		if err != nil {
			return err
		}
		defer client.Close()

		user := currentUser()
		remote, err := client.PullRecords(user)
		if err != nil {
			return err
		}
		added, err := svc.Import(user, remote)
		if err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "Pulled %d new records for %s (%d remote)", added, user, len(remote))
		return nil
	},
}

var syncStatusCmd = &cobra.Command{
	Use:         "status",
	Short:       "Show sync status",
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		client, err := charm.Open("", "")
		if err != nil {
			warn(out, "Charm unavailable: %v", err)
			return nil
		}
		defer client.Close()

		id, err := client.ID()
		if err != nil {
			yellow.Fprintln(out, "Not linked to Charm")
			fmt.Fprintln(out, "\nRun 'phr sync link' to connect to Charm.")
			return nil
		}

		fmt.Fprintln(out, "Charm ID:", id)
		fmt.Fprintln(out, "Server:", client.Host())
		if client.IsReadOnly() {
			warn(out, "Database is locked by another process; showing read-only view")
		}
		fmt.Fprintln(out)

		users, err := client.Users()
		if err != nil {
			return err
		}
		success(out, "Connected to Charm")
		fmt.Fprintf(out, "  Backed up users: %d\n", len(users))
		for _, u := range users {
			fmt.Fprintf(out, "    %s\n", u)
		}
		return nil
	},
}

var syncWipeYes bool

var syncWipeCmd = &cobra.Command{
	Use:   "wipe",
	Short: "Delete the current user's cloud backup",
	Long: `Delete the current user's record backup from Charm Cloud.

Local records are not touched. Run 'phr sync push' to back them up again.`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		user := currentUser()

		if !syncWipeYes {
			fmt.Fprintf(out, "This will PERMANENTLY DELETE the cloud backup for %s.\n", user)
			fmt.Fprint(out, "Type 'wipe' to confirm: ")
			confirm, _ := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
			if strings.TrimSpace(confirm) != "wipe" {
				fmt.Fprintln(out, "Canceled.")
				return nil
			}
		}

		client, err := charm.Open("", "")
		if err != nil {
			return err
		}
		defer client.Close()

		if err := client.DeleteRecords(user); err != nil {
			return fmt.Errorf("wipe failed: %w", err)
		}
		success(out, "Deleted cloud backup for %s", user)
		return nil
	},
}

func init() {
	syncWipeCmd.Flags().BoolVarP(&syncWipeYes, "yes", "y", false, "skip the confirmation prompt")

	syncCmd.AddCommand(syncLinkCmd)
	syncCmd.AddCommand(syncPushCmd)
	syncCmd.AddCommand(syncPullCmd)
	syncCmd.AddCommand(syncStatusCmd)
	syncCmd.AddCommand(syncWipeCmd)
	rootCmd.AddCommand(syncCmd)
}
