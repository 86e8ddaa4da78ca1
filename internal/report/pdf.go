// ABOUTME: PDF report renderer built on fpdf.
// ABOUTME: Landscape table of records with summary averages and page footer.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/go-pdf/fpdf"
	"github.com/harperreed/phr/internal/storage"
)

// PDF renders a landscape A4 report.
type PDF struct{}

func (PDF) Extension() string   { return "pdf" }
func (PDF) ContentType() string { return "application/pdf" }

var pdfColumnWidths = []float64{40, 25, 25, 25, 55, 105}

// Render writes the PDF to w.
func (PDF) Render(w io.Writer, r *Report) error {
	pdf := fpdf.New("L", "mm", "A4", "")
	tr := pdf.UnicodeTranslatorFromDescriptor("")

	pdf.SetHeaderFunc(func() {
		pdf.SetFont("Arial", "B", 15)
		pdf.CellFormat(0, 10, "Personal Health Record Report", "", 1, "C", false, 0, "")
		if r.User != "" {
			pdf.SetFont("Arial", "", 10)
			pdf.CellFormat(0, 5, tr("Report for: "+r.User), "", 1, "C", false, 0, "")
		}
		pdf.Ln(5)
	})
	pdf.SetFooterFunc(func() {
		pdf.SetY(-15)
		pdf.SetFont("Arial", "I", 8)
		pdf.CellFormat(0, 10, fmt.Sprintf("Page %d/{nb}", pdf.PageNo()), "", 0, "C", false, 0, "")
	})
	pdf.AliasNbPages("")
	pdf.AddPage()

	chapterTitle(pdf, "Summary of Health Metrics")
	pdf.SetFont("Arial", "", 10)
	pdf.MultiCell(0, 5, strings.Join(r.SummaryLines(), "\n"), "", "L", false)
	pdf.Ln(5)

	chapterTitle(pdf, "Daily Health Records and Recommendations")
	pdf.SetFont("Arial", "B", 9)
	for i, h := range tableHeaders {
		pdf.CellFormat(pdfColumnWidths[i], 10, h, "1", 0, "C", false, 0, "")
	}
	pdf.Ln(-1)

	pdf.SetFont("Arial", "", 8)
	for _, row := range r.Rows {
		rec := row.Record
		values := []string{
			storage.FormatTimestamp(rec.Timestamp),
			rec.BloodPressure,
			formatValue(rec.SugarLevel),
			formatValue(rec.PulseRate),
			truncate(rec.Notes, 35, 32),
			truncate(row.Recommendation, 80, 77),
		}
		for i, v := range values {
			pdf.CellFormat(pdfColumnWidths[i], 10, tr(v), "1", 0, "L", false, 0, "")
		}
		pdf.Ln(-1)
	}

	if err := pdf.Error(); err != nil {
		return fmt.Errorf("build pdf: %w", err)
	}
	if err := pdf.Output(w); err != nil {
		return fmt.Errorf("write pdf: %w", err)
	}
	return nil
}

func chapterTitle(pdf *fpdf.Fpdf, title string) {
	pdf.SetFont("Arial", "B", 12)
	pdf.CellFormat(0, 10, title, "", 1, "L", false, 0, "")
	pdf.Ln(5)
}
