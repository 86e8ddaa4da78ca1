// ABOUTME: XLSX report renderer built on excelize.
// ABOUTME: Writes a summary sheet and a records sheet with status styling.
package report

import (
	"fmt"
	"io"

	"github.com/harperreed/phr/internal/analytics"
	"github.com/harperreed/phr/internal/storage"
	"github.com/harperreed/phr/internal/vitals"
	"github.com/xuri/excelize/v2"
)

// XLSX renders a workbook with a records sheet and a summary sheet.
type XLSX struct{}

func (XLSX) Extension() string { return "xlsx" }
func (XLSX) ContentType() string {
	return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
}

const (
	recordsSheet = "Records"
	summarySheet = "Summary"
)

var statusHeaders = []string{"Systolic", "Diastolic", "Sugar", "Pulse"}

// Render writes the workbook to w.
func (XLSX) Render(w io.Writer, r *Report) error {
	f := excelize.NewFile()
	defer f.Close()

	index, err := f.NewSheet(recordsSheet)
	if err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if _, err := f.NewSheet(summarySheet); err != nil {
		return fmt.Errorf("create sheet: %w", err)
	}
	if err := f.DeleteSheet("Sheet1"); err != nil {
		return fmt.Errorf("delete default sheet: %w", err)
	}
	f.SetActiveSheet(index)

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{
			Type:    "pattern",
			Color:   []string{"#E6F3FF"},
			Pattern: 1,
		},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return fmt.Errorf("create header style: %w", err)
	}

	headers := append(append([]string{}, tableHeaders...), statusHeaders...)
	if err := writeRow(f, recordsSheet, 1, toAny(headers)); err != nil {
		return err
	}
	last, _ := excelize.CoordinatesToCellName(len(headers), 1)
	if err := f.SetCellStyle(recordsSheet, "A1", last, headerStyle); err != nil {
		return fmt.Errorf("set header style: %w", err)
	}

	for i, row := range r.Rows {
		rec := row.Record
		values := []any{
			storage.FormatTimestamp(rec.Timestamp),
			rec.BloodPressure,
			optional(rec.SugarLevel),
			optional(rec.PulseRate),
			rec.Notes,
			row.Recommendation,
		}
		for _, m := range []vitals.Metric{vitals.MetricSystolic, vitals.MetricDiastolic, vitals.MetricSugar, vitals.MetricPulse} {
			values = append(values, string(row.Classification[m]))
		}
		if err := writeRow(f, recordsSheet, i+2, values); err != nil {
			return err
		}
	}

	widths := map[string]float64{"A": 20, "B": 15, "C": 12, "D": 12, "E": 40, "F": 80}
	for col, width := range widths {
		if err := f.SetColWidth(recordsSheet, col, col, width); err != nil {
			return fmt.Errorf("set column width: %w", err)
		}
	}
	if err := f.SetPanes(recordsSheet, &excelize.Panes{
		Freeze:      true,
		YSplit:      1,
		TopLeftCell: "A2",
		ActivePane:  "bottomLeft",
	}); err != nil {
		return fmt.Errorf("freeze panes: %w", err)
	}

	if err := writeSummary(f, r, headerStyle); err != nil {
		return err
	}

	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

func writeSummary(f *excelize.File, r *Report, headerStyle int) error {
	rows := [][]any{
		{"User", r.User},
		{"Report Date", r.GeneratedAt.Format(DateLayout)},
		{"From", r.From.Format(DateLayout)},
		{"To", r.To.Format(DateLayout)},
		{},
		{"Metric", "Count", "Mean", "Median", "Min", "Max"},
	}
	for _, s := range r.Averages {
		if !s.HasData() {
			rows = append(rows, []any{analytics.Labels[s.Metric], 0})
			continue
		}
		rows = append(rows, []any{analytics.Labels[s.Metric], s.Count, s.Mean, s.Median, s.Min, s.Max})
	}
	for i, values := range rows {
		if err := writeRow(f, summarySheet, i+1, values); err != nil {
			return err
		}
	}
	if err := f.SetCellStyle(summarySheet, "A6", "F6", headerStyle); err != nil {
		return fmt.Errorf("set header style: %w", err)
	}
	return f.SetColWidth(summarySheet, "A", "A", 22)
}

func writeRow(f *excelize.File, sheet string, row int, values []any) error {
	for col, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, row)
		if err != nil {
			return fmt.Errorf("convert coordinates: %w", err)
		}
		if err := f.SetCellValue(sheet, cell, v); err != nil {
			return fmt.Errorf("set cell %s: %w", cell, err)
		}
	}
	return nil
}

func optional(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func toAny(values []string) []any {
	out := make([]any, len(values))
	for i, v := range values {
		out[i] = v
	}
	return out
}
