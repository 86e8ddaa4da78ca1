// ABOUTME: Tests for report building and the PDF, XLSX and Markdown renderers.
// ABOUTME: Verifies summaries, truncation and output formats.
package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/harperreed/phr/internal/models"
	"github.com/harperreed/phr/internal/recommend"
	"github.com/harperreed/phr/internal/vitals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func day(d, h int) time.Time {
	return time.Date(2025, 3, d, h, 0, 0, 0, time.Local)
}

func sample() []*models.HealthRecord {
	return []*models.HealthRecord{
		models.NewRecord(day(1, 8)).WithBloodPressure(118, 78).WithSugar(92).WithPulse(76),
		models.NewRecord(day(2, 8)).WithBloodPressure(135, 88).WithSugar(98).WithPulse(92).
			WithNotes("Felt dizzy after climbing the stairs at work today"),
		models.NewRecord(day(3, 8)).WithRawBloodPressure("n/a").WithSugar(150),
		models.NewRecord(day(5, 8)).WithBloodPressure(122, 80),
	}
}

func TestBuildDefaultsToFullSpan(t *testing.T) {
	r, err := Build("alice", sample(), nil, time.Time{}, time.Time{})
	require.NoError(t, err)

	assert.Equal(t, "alice", r.User)
	assert.Len(t, r.Rows, 4)
	assert.Equal(t, "2025-03-01", r.From.Format(DateLayout))
	assert.Equal(t, "2025-03-05", r.To.Format(DateLayout))
	assert.Equal(t, "health_report_2025-03-01_2025-03-05.pdf", r.FileName("pdf"))

	first := r.Rows[0]
	assert.Equal(t, recommend.AllHealthyMessage, first.Recommendation)
	assert.Equal(t, vitals.StatusHealthy, first.Classification[vitals.MetricSystolic])

	second := r.Rows[1]
	assert.Equal(t, vitals.StatusHigh, second.Classification[vitals.MetricSystolic])
	assert.Equal(t, vitals.StatusHigh, second.Classification[vitals.MetricDiastolic])
	assert.Contains(t, second.Recommendation, "BP (135/88 mmHg) is high.")

	third := r.Rows[2]
	assert.Equal(t, vitals.StatusMissing, third.Classification[vitals.MetricSystolic])
	assert.Equal(t, vitals.StatusMissing, third.Classification[vitals.MetricPulse])
	assert.Equal(t, vitals.StatusHigh, third.Classification[vitals.MetricSugar])
}

func TestBuildFiltersInclusiveDays(t *testing.T) {
	r, err := Build("alice", sample(), nil, day(2, 23), day(3, 0))
	require.NoError(t, err)
	assert.Len(t, r.Rows, 2)
}

func TestBuildEmptyRange(t *testing.T) {
	_, err := Build("alice", sample(), nil, day(20, 0), day(21, 0))
	assert.ErrorIs(t, err, ErrEmptyRange)

	_, err = Build("alice", nil, nil, time.Time{}, time.Time{})
	assert.ErrorIs(t, err, ErrEmptyRange)
}

func TestSummaryLines(t *testing.T) {
	r, err := Build("alice", sample(), nil, time.Time{}, time.Time{})
	require.NoError(t, err)

	lines := r.SummaryLines()
	assert.Contains(t, lines, "Data from 2025-03-01 to 2025-03-05")
	assert.Contains(t, lines, "Average Sugar Level: 113.33 mg/dL")
	assert.Contains(t, lines, "Average Pulse Rate: 84.00 bpm")
	assert.Contains(t, lines, "Average Systolic BP: 125.00 mmHg")
	assert.Contains(t, lines, "Average Diastolic BP: 82.00 mmHg")
}

func TestSummaryLinesSkipEmptyMetrics(t *testing.T) {
	records := []*models.HealthRecord{models.NewRecord(day(1, 8)).WithSugar(90)}
	r, err := Build("bob", records, nil, time.Time{}, time.Time{})
	require.NoError(t, err)

	joined := strings.Join(r.SummaryLines(), "\n")
	assert.Contains(t, joined, "Average Sugar Level: 90.00 mg/dL")
	assert.NotContains(t, joined, "Pulse")
	assert.NotContains(t, joined, "Systolic")
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 35, 32))
	exact := strings.Repeat("a", 35)
	assert.Equal(t, exact, truncate(exact, 35, 32))
	assert.Equal(t, strings.Repeat("a", 32)+"...", truncate(exact+"b", 35, 32))
	assert.Equal(t, strings.Repeat("é", 77)+"...", truncate(strings.Repeat("é", 90), 80, 77))
}

func TestForFormat(t *testing.T) {
	for format, ext := range map[string]string{"": "pdf", "PDF": "pdf", "xlsx": "xlsx", "excel": "xlsx", "md": "md", "markdown": "md"} {
		r, err := ForFormat(format)
		require.NoError(t, err, format)
		assert.Equal(t, ext, r.Extension())
		assert.NotEmpty(t, r.ContentType())
	}
	_, err := ForFormat("docx")
	assert.Error(t, err)
}

func TestPDFRender(t *testing.T) {
	r, err := Build("alice", sample(), nil, time.Time{}, time.Time{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, PDF{}.Render(&buf, r))
	assert.True(t, bytes.HasPrefix(buf.Bytes(), []byte("%PDF-")))
}

func TestPDFRenderManyRowsPaginates(t *testing.T) {
	var records []*models.HealthRecord
	start := day(1, 0)
	for i := 0; i < 60; i++ {
		records = append(records, models.NewRecord(start.Add(time.Duration(i)*time.Hour)).WithBloodPressure(120, 80))
	}
	r, err := Build("alice", records, nil, time.Time{}, time.Time{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, PDF{}.Render(&buf, r))
	assert.Greater(t, bytes.Count(buf.Bytes(), []byte("/Type /Page\n")), 1)
}

func TestXLSXRender(t *testing.T) {
	r, err := Build("alice", sample(), nil, time.Time{}, time.Time{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, XLSX{}.Render(&buf, r))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{recordsSheet, summarySheet}, f.GetSheetList())

	header, err := f.GetCellValue(recordsSheet, "A1")
	require.NoError(t, err)
	assert.Equal(t, "Date", header)

	bp, err := f.GetCellValue(recordsSheet, "B3")
	require.NoError(t, err)
	assert.Equal(t, "135/88", bp)

	pulse, err := f.GetCellValue(recordsSheet, "D4")
	require.NoError(t, err)
	assert.Empty(t, pulse)

	status, err := f.GetCellValue(recordsSheet, "G3")
	require.NoError(t, err)
	assert.Equal(t, "high", status)

	user, err := f.GetCellValue(summarySheet, "B1")
	require.NoError(t, err)
	assert.Equal(t, "alice", user)
}

func TestMarkdownRender(t *testing.T) {
	r, err := Build("alice", sample(), nil, time.Time{}, time.Time{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Markdown{}.Render(&buf, r))
	out := buf.String()

	assert.Contains(t, out, "# Personal Health Record Report")
	assert.Contains(t, out, "Report for: alice")
	assert.Contains(t, out, "| Date | Blood Pressure | Sugar Level | Pulse Rate | Notes | Recommendation |")
	assert.Contains(t, out, "| 2025-03-01 08:00:00 | 118/78 | 92 | 76 |  | "+recommend.AllHealthyMessage+" |")
	assert.Contains(t, out, "Felt dizzy after climbing the stairs at work today")
	assert.Equal(t, 4+2, strings.Count(out, "\n| "), "header, separator and one line per row")
}

func TestMarkdownEscapesPipes(t *testing.T) {
	records := []*models.HealthRecord{models.NewRecord(day(1, 8)).WithSugar(90).WithNotes("a|b\nc")}
	r, err := Build("alice", records, nil, time.Time{}, time.Time{})
	require.NoError(t, err)

	var buf bytes.Buffer
	require.NoError(t, Markdown{}.Render(&buf, r))
	assert.Contains(t, buf.String(), `a\|b c`)
}
