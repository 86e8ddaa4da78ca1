// ABOUTME: CLI commands for viewing and overriding healthy ranges.
// ABOUTME: Overrides are stored per user in the badger profile store.
package main

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/harperreed/phr/internal/vitals"
	"github.com/spf13/cobra"
)

var errNoProfiles = errors.New("profile store unavailable (is another phr process running?)")

var thresholdsCmd = &cobra.Command{
	Use:     "thresholds",
	Aliases: []string{"th"},
	Short:   "Show or change healthy ranges",
	Long: `Healthy ranges decide whether a reading is low, healthy or high.

Ranges come from the built-in defaults, then the config file's
"thresholds" section, then per-user overrides saved with 'thresholds set'.

METRICS:

  systolic, diastolic, sugar, pulse

EXAMPLES:

  phr thresholds show
  phr thresholds set sugar 70 180 -u alice
  phr thresholds reset -u alice`,
}

var thresholdsShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show ranges in effect for the current user",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		user := currentUser()

		t, err := svc.Thresholds(user)
		if err != nil {
			return err
		}
		custom := vitals.Thresholds{}
		if profiles != nil {
			if custom, err = profiles.Thresholds(user); err != nil {
				return err
			}
		}

		bold.Fprintf(out, "Healthy ranges for %s\n", user)
		for _, m := range t.Metrics() {
			r := t[m]
			line := fmt.Sprintf("  %s %6.1f - %-6.1f", padRight(string(m), 10), r.Low, r.High)
			if _, ok := custom[m]; ok {
				line += faint.Sprint(" (custom)")
			}
			fmt.Fprintln(out, line)
		}
		return nil
	},
}

var thresholdsSetCmd = &cobra.Command{
	Use:   "set <metric> <low> <high>",
	Short: "Override one metric's range for the current user",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if profiles == nil {
			return errNoProfiles
		}
		low, err := strconv.ParseFloat(args[1], 64)
		if err != nil {
			return fmt.Errorf("invalid low value: %s", args[1])
		}
		high, err := strconv.ParseFloat(args[2], 64)
		if err != nil {
			return fmt.Errorf("invalid high value: %s", args[2])
		}

		user := currentUser()
		if err := profiles.SetRange(user, vitals.Metric(args[0]), vitals.Range{Low: low, High: high}); err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "%s range for %s set to %g - %g", args[0], user, low, high)
		return nil
	},
}

var thresholdsResetCmd = &cobra.Command{
	Use:   "reset",
	Short: "Remove the current user's overrides",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if profiles == nil {
			return errNoProfiles
		}
		user := currentUser()
		if err := profiles.Reset(user); err != nil {
			return err
		}
		success(cmd.OutOrStdout(), "Ranges for %s reset to configured values", user)
		return nil
	},
}

func init() {
	thresholdsCmd.AddCommand(thresholdsShowCmd)
	thresholdsCmd.AddCommand(thresholdsSetCmd)
	thresholdsCmd.AddCommand(thresholdsResetCmd)
	rootCmd.AddCommand(thresholdsCmd)
}
