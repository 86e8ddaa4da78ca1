// ABOUTME: CLI commands for descriptive statistics, outliers and BMI.
// ABOUTME: Statistics cover a date range that defaults to all data.
package main

import (
	"errors"
	"fmt"

	"github.com/harperreed/phr/internal/analytics"
	"github.com/harperreed/phr/internal/report"
	"github.com/spf13/cobra"
)

var (
	statsFrom string
	statsTo   string

	bmiHeight float64
	bmiWeight float64
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show mean, median, min and max per metric",
	Long: `Show descriptive statistics for sugar, pulse, systolic and diastolic
readings. Blood pressure components come from well-formed readings only.

EXAMPLES:

  phr stats
  phr stats --from 2025-01-01 --to 2025-01-31`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		from, to, err := parseRange(statsFrom, statsTo)
		if err != nil {
			return err
		}
		a, err := svc.Analytics(currentUser(), from, to)
		if noRecords(out, err) {
			return nil
		}
		if errors.Is(err, report.ErrEmptyRange) {
			fmt.Fprintln(out, "No records in the selected range.")
			return nil
		}
		if err != nil {
			return err
		}

		bold.Fprintf(out, "Statistics for %s\n", a.User)
		fmt.Fprintln(out, faint.Sprintf("%s to %s (%d records)",
			a.From.Format("2006-01-02"), a.To.Format("2006-01-02"), a.Records))
		fmt.Fprintln(out)

		fmt.Fprintf(out, "%s %8s %8s %8s %8s\n", padRight("Metric", 22), "Mean", "Median", "Min", "Max")
		for _, s := range a.Stats {
			if !s.HasData() {
				fmt.Fprintf(out, "%s %s\n", padRight(s.Label, 22), faint.Sprint("no data"))
				continue
			}
			fmt.Fprintf(out, "%s %8.2f %8.2f %8.2f %8.2f\n", padRight(s.Label, 22), s.Mean, s.Median, s.Min, s.Max)
		}

		fmt.Fprintln(out)
		bold.Fprintln(out, "General Health Guidelines")
		for _, g := range a.Guidelines {
			fmt.Fprintf(out, "  • %s\n", g)
		}
		return nil
	},
}

var outliersCmd = &cobra.Command{
	Use:   "outliers",
	Short: "List readings outside the healthy range",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		from, to, err := parseRange(statsFrom, statsTo)
		if err != nil {
			return err
		}
		a, err := svc.Analytics(currentUser(), from, to)
		if noRecords(out, err) {
			return nil
		}
		if errors.Is(err, report.ErrEmptyRange) {
			fmt.Fprintln(out, "No records in the selected range.")
			return nil
		}
		if err != nil {
			return err
		}

		if len(a.Outliers) == 0 {
			success(out, "All readings are within the healthy range")
			return nil
		}
		for _, o := range a.Outliers {
			statusColor(o.Status).Fprintf(out, "%s  %s %g (%s)\n",
				faint.Sprint(o.Date.Format("2006-01-02 15:04")),
				padRight(analytics.Labels[o.Metric], 22), o.Value, o.Status)
		}
		return nil
	},
}

var bmiCmd = &cobra.Command{
	Use:   "bmi",
	Short: "Calculate body mass index",
	Long: `Calculate BMI from height in meters and weight in kilograms.

Example:
  phr bmi --height 1.75 --weight 70`,
	Args:        cobra.NoArgs,
	Annotations: map[string]string{skipStorage: "true"},
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		bmi, err := analytics.BMI(bmiHeight, bmiWeight)
		if err != nil {
			return err
		}
		category := analytics.ClassifyBMI(bmi)

		c := yellow
		if category.Healthy {
			c = green
		}
		fmt.Fprintf(out, "BMI: %.2f ", bmi)
		c.Fprintf(out, "(%s)\n", category.Name)
		fmt.Fprintln(out, category.Advice)
		return nil
	},
}

func init() {
	for _, c := range []*cobra.Command{statsCmd, outliersCmd} {
		c.Flags().StringVar(&statsFrom, "from", "", "start date (default: first record)")
		c.Flags().StringVar(&statsTo, "to", "", "end date (default: last record)")
		rootCmd.AddCommand(c)
	}

	bmiCmd.Flags().Float64Var(&bmiHeight, "height", 0, "height in meters")
	bmiCmd.Flags().Float64Var(&bmiWeight, "weight", 0, "weight in kilograms")
	_ = bmiCmd.MarkFlagRequired("height")
	_ = bmiCmd.MarkFlagRequired("weight")
	rootCmd.AddCommand(bmiCmd)
}
