// ABOUTME: Report model over a date range of health records.
// ABOUTME: Rows carry per-metric classification and the daily recommendation text.
package report

import (
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
	"github.com/harperreed/phr/internal/analytics"
	"github.com/harperreed/phr/internal/models"
	"github.com/harperreed/phr/internal/recommend"
	"github.com/harperreed/phr/internal/vitals"
)

// ErrEmptyRange is returned when no records fall in the requested range.
var ErrEmptyRange = errors.New("no records in the selected date range")

// DateLayout is how range bounds appear in titles and file names.
const DateLayout = "2006-01-02"

// Row is one record with its derived classification and recommendation.
type Row struct {
	Record         *models.HealthRecord
	Classification map[vitals.Metric]vitals.Status
	Recommendation string
}

// Report is everything a renderer needs.
type Report struct {
	ID          uuid.UUID
	User        string
	GeneratedAt time.Time
	From        time.Time
	To          time.Time
	Averages    []analytics.Stats
	Rows        []Row
}

// Build assembles a report for records whose day lies in [from, to].
// A zero bound defaults to the span of the data.
func Build(user string, records []*models.HealthRecord, t vitals.Thresholds, from, to time.Time) (*Report, error) {
	if len(records) == 0 {
		return nil, ErrEmptyRange
	}
	first, last := models.Span(records)
	if from.IsZero() {
		from = first
	}
	if to.IsZero() {
		to = last
	}

	selected := models.FilterByDate(records, from, to)
	if len(selected) == 0 {
		return nil, fmt.Errorf("%w: %s to %s", ErrEmptyRange, from.Format(DateLayout), to.Format(DateLayout))
	}

	gen := recommend.NewGenerator(t)
	rows := make([]Row, 0, len(selected))
	for _, r := range selected {
		rows = append(rows, Row{
			Record:         r,
			Classification: classify(gen.Thresholds(), r),
			Recommendation: gen.Daily(r).Text,
		})
	}

	return &Report{
		ID:          uuid.New(),
		User:        user,
		GeneratedAt: time.Now(),
		From:        from,
		To:          to,
		Averages:    analytics.Compute(selected),
		Rows:        rows,
	}, nil
}

func classify(t vitals.Thresholds, r *models.HealthRecord) map[vitals.Metric]vitals.Status {
	out := make(map[vitals.Metric]vitals.Status, len(vitals.AllMetrics))
	for _, m := range vitals.AllMetrics {
		out[m] = t.Classify(m, analytics.Value(r, m))
	}
	return out
}

// FileName is the conventional download name for the report.
func (r *Report) FileName(ext string) string {
	return fmt.Sprintf("health_report_%s_%s.%s", r.From.Format(DateLayout), r.To.Format(DateLayout), ext)
}

var averageLabels = map[vitals.Metric]string{
	vitals.MetricSugar:     "Average Sugar Level: %.2f mg/dL",
	vitals.MetricPulse:     "Average Pulse Rate: %.2f bpm",
	vitals.MetricSystolic:  "Average Systolic BP: %.2f mmHg",
	vitals.MetricDiastolic: "Average Diastolic BP: %.2f mmHg",
}

// SummaryLines are the header lines every format opens with.
func (r *Report) SummaryLines() []string {
	lines := []string{
		"Report Date: " + r.GeneratedAt.Format(DateLayout),
		fmt.Sprintf("Data from %s to %s", r.From.Format(DateLayout), r.To.Format(DateLayout)),
		"",
	}
	for _, s := range r.Averages {
		if s.HasData() {
			lines = append(lines, fmt.Sprintf(averageLabels[s.Metric], s.Mean))
		}
	}
	return lines
}

// Renderer writes a report in one output format.
type Renderer interface {
	Render(w io.Writer, r *Report) error
	Extension() string
	ContentType() string
}

// ForFormat returns the renderer for "pdf", "xlsx" or "md".
func ForFormat(format string) (Renderer, error) {
	switch strings.ToLower(format) {
	case "", "pdf":
		return PDF{}, nil
	case "xlsx", "excel":
		return XLSX{}, nil
	case "md", "markdown":
		return Markdown{}, nil
	default:
		return nil, fmt.Errorf("unknown report format: %q", format)
	}
}

var tableHeaders = []string{"Date", "Blood Pressure", "Sugar Level", "Pulse Rate", "Notes", "Recommendation"}

func formatValue(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}

// truncate shortens s to keep runes plus "..." when it exceeds limit runes.
func truncate(s string, limit, keep int) string {
	if utf8.RuneCountInString(s) <= limit {
		return s
	}
	return string([]rune(s)[:keep]) + "..."
}
