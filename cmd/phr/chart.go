// ABOUTME: CLI command for terminal charts.
// ABOUTME: Draws a status-colored sparkline per metric with lipgloss.
package main

import (
	"errors"
	"fmt"

	"github.com/harperreed/phr/internal/chart"
	"github.com/spf13/cobra"
)

var (
	chartFrom  string
	chartTo    string
	chartWidth int
)

var chartCmd = &cobra.Command{
	Use:   "chart <bp|sugar|pulse|systolic|diastolic>",
	Short: "Chart a metric over time",
	Long: `Chart a metric over time as a sparkline. Each tick is colored by its
classification: green healthy, blue low, red high. Blood pressure draws
systolic and diastolic separately.

EXAMPLES:

  phr chart bp
  phr chart sugar --from 2025-01-01 --width 40`,
	Args:      cobra.ExactArgs(1),
	ValidArgs: []string{"bp", "sugar", "pulse", "systolic", "diastolic"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		from, to, err := parseRange(chartFrom, chartTo)
		if err != nil {
			return err
		}
		user := currentUser()
		records, err := svc.Records(user, from, to)
		if err != nil {
			return err
		}
		t, err := svc.Thresholds(user)
		if err != nil {
			return err
		}

		c := chart.New(out, t)
		if chartWidth > 0 {
			c.Width = chartWidth
		}
		rendered, err := c.RenderMetric(records, args[0])
		if errors.Is(err, chart.ErrNoData) {
			fmt.Fprintln(out, "No valid data to plot for the selected range.")
			return nil
		}
		if err != nil {
			return err
		}
		fmt.Fprintln(out, rendered)
		return nil
	},
}

func init() {
	chartCmd.Flags().StringVar(&chartFrom, "from", "", "start date")
	chartCmd.Flags().StringVar(&chartTo, "to", "", "end date")
	chartCmd.Flags().IntVar(&chartWidth, "width", chart.DefaultWidth, "chart width in columns")
	rootCmd.AddCommand(chartCmd)
}
