// ABOUTME: CLI command for listing health records.
// ABOUTME: Shows the most recent records first, optionally within a date range.
package main

import (
	"fmt"

	"github.com/harperreed/phr/internal/vitals"
	"github.com/spf13/cobra"
)

var (
	listFrom  string
	listTo    string
	listLimit int
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls", "l"},
	Short:   "List health records",
	Long: `List recent health records, most recent first.

OUTPUT FORMAT:

  Each line shows: DATE  BP  SUGAR  PULSE  (NOTES)

  Values outside the healthy range are colored: red for high, blue for low.

EXAMPLES:

  phr list                         # Last 20 records
  phr list -n 50                   # Last 50 records
  phr list --from 2025-01-01       # Everything since January 1st
  phr list -u alice --to 2025-02-01`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		from, to, err := parseRange(listFrom, listTo)
		if err != nil {
			return err
		}
		user := currentUser()
		records, err := svc.Records(user, from, to)
		if err != nil {
			return fmt.Errorf("failed to list records: %w", err)
		}
		if len(records) == 0 {
			fmt.Fprintln(out, "No records found.")
			return nil
		}

		t, err := svc.Thresholds(user)
		if err != nil {
			return err
		}

		shown := 0
		for i := len(records) - 1; i >= 0; i-- {
			if listLimit > 0 && shown >= listLimit {
				break
			}
			r := records[i]
			shown++

			bp := padRight(orDash(r.BloodPressure), 9)
			if sys, dia, ok := vitals.ParseBloodPressure(r.BloodPressure); ok {
				bp = statusColor(t.ClassifyBloodPressure(float64(sys), float64(dia))).Sprint(bp)
			}
			sugar := statusColor(t.Classify(vitals.MetricSugar, r.SugarLevel)).Sprint(padRight(formatOptional(r.SugarLevel), 7))
			pulse := statusColor(t.Classify(vitals.MetricPulse, r.PulseRate)).Sprint(padRight(formatOptional(r.PulseRate), 5))

			notes := ""
			if r.Notes != "" {
				notes = faint.Sprintf(" (%s)", truncate(r.Notes, 30))
			}
			fmt.Fprintf(out, "%s  %s %s %s%s\n",
				faint.Sprint(r.Timestamp.Format("2006-01-02 15:04")),
				bp, sugar, pulse, notes)
		}
		return nil
	},
}

func init() {
	listCmd.Flags().StringVar(&listFrom, "from", "", "only records on or after this date")
	listCmd.Flags().StringVar(&listTo, "to", "", "only records on or before this date")
	listCmd.Flags().IntVarP(&listLimit, "limit", "n", 20, "max number of results")
	rootCmd.AddCommand(listCmd)
}
