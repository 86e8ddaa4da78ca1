// ABOUTME: Markdown report renderer.
// ABOUTME: Emits a summary list and a records table.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/harperreed/phr/internal/storage"
)

// Markdown renders the report as a Markdown document.
type Markdown struct{}

func (Markdown) Extension() string   { return "md" }
func (Markdown) ContentType() string { return "text/markdown; charset=utf-8" }

// Render writes the document to w.
func (Markdown) Render(w io.Writer, r *Report) error {
	var b strings.Builder

	b.WriteString("# Personal Health Record Report\n\n")
	if r.User != "" {
		fmt.Fprintf(&b, "Report for: %s\n\n", r.User)
	}

	b.WriteString("## Summary of Health Metrics\n\n")
	for _, line := range r.SummaryLines() {
		if line == "" {
			b.WriteString("\n")
			continue
		}
		fmt.Fprintf(&b, "- %s\n", line)
	}

	b.WriteString("\n## Daily Health Records and Recommendations\n\n")
	b.WriteString("| " + strings.Join(tableHeaders, " | ") + " |\n")
	b.WriteString("|" + strings.Repeat(" --- |", len(tableHeaders)) + "\n")
	for _, row := range r.Rows {
		rec := row.Record
		cells := []string{
			storage.FormatTimestamp(rec.Timestamp),
			rec.BloodPressure,
			formatValue(rec.SugarLevel),
			formatValue(rec.PulseRate),
			rec.Notes,
			row.Recommendation,
		}
		for i, c := range cells {
			cells[i] = escapeCell(c)
		}
		b.WriteString("| " + strings.Join(cells, " | ") + " |\n")
	}

	_, err := io.WriteString(w, b.String())
	return err
}

func escapeCell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.ReplaceAll(s, "\n", " ")
}
