// ABOUTME: CLI command for listing users with stored records.
package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var usersCmd = &cobra.Command{
	Use:   "users",
	Short: "List users with records",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		users, err := svc.Users()
		if err != nil {
			return fmt.Errorf("failed to list users: %w", err)
		}
		if len(users) == 0 {
			fmt.Fprintln(out, "No users yet.")
			return nil
		}

		current := currentUser()
		for _, u := range users {
			records, err := svc.Records(u, zeroTime, zeroTime)
			if err != nil {
				return err
			}
			marker := "  "
			if u == current {
				marker = green.Sprint("* ")
			}
			fmt.Fprintf(out, "%s%s %s\n", marker, padRight(u, 20), faint.Sprintf("%d records", len(records)))
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(usersCmd)
}
