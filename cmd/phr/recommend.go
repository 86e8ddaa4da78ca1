// ABOUTME: CLI command for window-mode recommendations.
// ABOUTME: Summarizes the trailing window and highlights the latest records.
package main

import (
	"fmt"

	"github.com/harperreed/phr/internal/recommend"
	"github.com/spf13/cobra"
)

var recommendCmd = &cobra.Command{
	Use:     "recommend",
	Aliases: []string{"rec", "r"},
	Short:   "Show health recommendations",
	Long: `Show recommendations for the current user.

The summary averages each metric over the trailing window (30 days by
default, set window_days in config) anchored at the most recent record.
Daily highlights follow for the latest records in that window.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		rec, err := svc.Recommendations(currentUser())
		if noRecords(out, err) {
			return nil
		}
		if err != nil {
			return err
		}

		bold.Fprintf(out, "Health Recommendations for %s\n", rec.User)
		fmt.Fprintln(out, faint.Sprintf("Last %d days: %s to %s (%d records)",
			rec.WindowDays, rec.From.Format("2006-01-02"), rec.To.Format("2006-01-02"), rec.Records))
		fmt.Fprintln(out)

		bold.Fprintln(out, "Summary")
		if len(rec.Summary) == 0 {
			faint.Fprintf(out, "  %s\n", recommend.NoReadingsMsg)
		}
		for _, line := range rec.Summary {
			statusColor(line.Status).Fprintf(out, "  • %s\n", line.Text)
		}

		if len(rec.Highlights) > 0 {
			fmt.Fprintln(out)
			bold.Fprintln(out, "Recent Records")
			for _, h := range rec.Highlights {
				fmt.Fprintf(out, "  %s %s\n", faint.Sprint(h.Date.Format("2006-01-02 15:04")), h.Text)
			}
		}

		fmt.Fprintln(out)
		faint.Fprintln(out, rec.Disclaimer)
		return nil
	},
}

func init() {
	rootCmd.AddCommand(recommendCmd)
}
