// ABOUTME: CLI command for generating health reports.
// ABOUTME: Writes PDF, XLSX or Markdown files named after the date range.
package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/harperreed/phr/internal/report"
	"github.com/spf13/cobra"
)

var (
	reportFormat string
	reportFrom   string
	reportTo     string
	reportOutput string
)

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Generate a health report",
	Long: `Generate a report with summary averages and every record in the range
alongside its classification and daily recommendation.

FORMATS:

  pdf        Landscape A4 PDF (default)
  xlsx       Excel workbook with Records and Summary sheets
  md         Markdown document

The file is named health_report_<from>_<to>.<ext> unless --output is given.
A directory given to --output receives the default file name.

EXAMPLES:

  phr report
  phr report --format xlsx --from 2025-01-01 --to 2025-03-31
  phr report --format md -o reports/`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()

		renderer, err := report.ForFormat(reportFormat)
		if err != nil {
			return err
		}
		from, to, err := parseRange(reportFrom, reportTo)
		if err != nil {
			return err
		}

		rep, err := svc.Report(currentUser(), from, to)
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

		path := reportOutput
		name := rep.FileName(renderer.Extension())
		if path == "" {
			path = name
		} else if info, err := os.Stat(path); err == nil && info.IsDir() {
			path = filepath.Join(path, name)
		}

		f, err := os.OpenFile(path, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0600)
		if err != nil {
			return fmt.Errorf("failed to create report: %w", err)
		}
		if err := svc.RenderReport(f, rep, renderer.Extension()); err != nil {
			f.Close()
			return fmt.Errorf("failed to render report: %w", err)
		}
		if err := f.Close(); err != nil {
			return err
		}

		success(out, "Report written to %s", path)
		fmt.Fprintf(out, "  %d records, %s to %s\n",
			len(rep.Rows), rep.From.Format(report.DateLayout), rep.To.Format(report.DateLayout))
		return nil
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", "pdf", "report format: pdf, xlsx or md")
	reportCmd.Flags().StringVar(&reportFrom, "from", "", "start date (default: first record)")
	reportCmd.Flags().StringVar(&reportTo, "to", "", "end date (default: last record)")
	reportCmd.Flags().StringVarP(&reportOutput, "output", "o", "", "output file or directory")
	rootCmd.AddCommand(reportCmd)
}
