// ABOUTME: CLI command for adding a health record.
// ABOUTME: Validates input, stores it and prints the daily recommendation.
package main

import (
	"fmt"
	"time"

	"github.com/harperreed/phr/internal/models"
	"github.com/spf13/cobra"
)

var (
	addBP    string
	addSugar float64
	addPulse float64
	addNotes string
	addDate  string
)

var addCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"a"},
	Short:   "Add a health record",
	Long: `Add a health record. Any combination of readings may be given, but at
least one is required.

Examples:
  phr add --bp 120/80
  phr add --sugar 95 --pulse 72 --notes "fasting"
  phr add --bp 135/88 --date "2025-01-31 08:00"
  phr add -u alice --sugar 150`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		ts := time.Now()
		if addDate != "" {
			t, err := parseTime(addDate)
			if err != nil {
				return fmt.Errorf("invalid timestamp: %s", addDate)
			}
			ts = t
		}

		r := models.NewRecord(ts).WithRawBloodPressure(addBP).WithNotes(addNotes)
		if cmd.Flags().Changed("sugar") {
			r.WithSugar(addSugar)
		}
		if cmd.Flags().Changed("pulse") {
			r.WithPulse(addPulse)
		}

		user := currentUser()
		if err := svc.AddRecord(user, r); err != nil {
			return fmt.Errorf("failed to add record: %w", err)
		}

		success(out, "Added record for %s", user)
		fmt.Fprintf(out, "  %s BP %s  sugar %s  pulse %s\n",
			faint.Sprint(r.Timestamp.Format("2006-01-02 15:04")),
			orDash(r.BloodPressure),
			formatOptional(r.SugarLevel),
			formatOptional(r.PulseRate))

		daily, err := svc.Daily(user, r)
		if err != nil {
			return err
		}
		fmt.Fprintln(out)
		for _, c := range daily.Clauses {
			if daily.AllHealthy {
				break
			}
			statusColor(c.Status).Fprintln(out, "  "+c.Text)
		}
		if daily.AllHealthy {
			green.Fprintln(out, "  "+daily.Text)
		}
		return nil
	},
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

func init() {
	addCmd.Flags().StringVar(&addBP, "bp", "", "blood pressure as systolic/diastolic, e.g. 120/80")
	addCmd.Flags().Float64Var(&addSugar, "sugar", 0, "blood sugar in mg/dL")
	addCmd.Flags().Float64Var(&addPulse, "pulse", 0, "pulse rate in bpm")
	addCmd.Flags().StringVar(&addNotes, "notes", "", "notes for the record")
	addCmd.Flags().StringVar(&addDate, "date", "", "timestamp (YYYY-MM-DD HH:MM), default now")
	rootCmd.AddCommand(addCmd)
}
