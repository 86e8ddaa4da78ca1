// ABOUTME: Terminal trend charts for health metrics.
// ABOUTME: Renders per-metric sparklines colored by healthy-range status.
package chart

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/harperreed/phr/internal/analytics"
	"github.com/harperreed/phr/internal/models"
	"github.com/harperreed/phr/internal/vitals"
)

// ErrNoData is returned when nothing in range can be plotted.
var ErrNoData = errors.New("no valid data to plot for the selected range")

// DefaultWidth is the sparkline width when none is configured.
const DefaultWidth = 60

var ticks = []rune("▁▂▃▄▅▆▇█")

// Point is one plotted reading.
type Point struct {
	Time  time.Time
	Value float64
}

// Series is a metric's readings in chronological order.
type Series struct {
	Metric vitals.Metric
	Label  string
	Points []Point
}

// SeriesFor extracts metric's present values from records.
// Records whose value is absent (including unparsable blood pressure) are skipped.
func SeriesFor(records []*models.HealthRecord, metric vitals.Metric) Series {
	s := Series{Metric: metric, Label: analytics.Labels[metric]}
	for _, r := range records {
		if v := analytics.Value(r, metric); v != nil {
			s.Points = append(s.Points, Point{Time: r.Timestamp, Value: *v})
		}
	}
	return s
}

// Values returns the point values.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Points))
	for i, p := range s.Points {
		out[i] = p.Value
	}
	return out
}

// Sparkline maps values onto block characters scaled between their min and max.
func Sparkline(values []float64) string {
	if len(values) == 0 {
		return ""
	}
	lo, hi := values[0], values[0]
	for _, v := range values {
		lo = math.Min(lo, v)
		hi = math.Max(hi, v)
	}

	var b strings.Builder
	for _, v := range values {
		b.WriteRune(tickFor(v, lo, hi))
	}
	return b.String()
}

func tickFor(v, lo, hi float64) rune {
	if hi == lo {
		return ticks[len(ticks)/2]
	}
	i := int((v - lo) / (hi - lo) * float64(len(ticks)-1))
	if i < 0 || i >= len(ticks) {
		return ticks[len(ticks)/2]
	}
	return ticks[i]
}

// Downsample averages points into at most width buckets.
func Downsample(points []Point, width int) []Point {
	if width <= 0 || len(points) <= width {
		return points
	}
	out := make([]Point, 0, width)
	for b := 0; b < width; b++ {
		start := b * len(points) / width
		end := (b + 1) * len(points) / width
		var sum float64
		for _, p := range points[start:end] {
			sum += p.Value
		}
		out = append(out, Point{Time: points[end-1].Time, Value: sum / float64(end-start)})
	}
	return out
}

// Chart renders series as styled text.
type Chart struct {
	Width      int
	Thresholds vitals.Thresholds

	title   lipgloss.Style
	faint   lipgloss.Style
	byState map[vitals.Status]lipgloss.Style
}

// New creates a Chart that styles output for w.
func New(w io.Writer, t vitals.Thresholds) *Chart {
	if t == nil {
		t = vitals.DefaultThresholds()
	}
	r := lipgloss.NewRenderer(w)
	return &Chart{
		Width:      DefaultWidth,
		Thresholds: t,
		title:      r.NewStyle().Bold(true),
		faint:      r.NewStyle().Faint(true),
		byState: map[vitals.Status]lipgloss.Style{
			vitals.StatusLow:     r.NewStyle().Foreground(lipgloss.Color("12")),
			vitals.StatusHealthy: r.NewStyle().Foreground(lipgloss.Color("10")),
			vitals.StatusHigh:    r.NewStyle().Foreground(lipgloss.Color("9")),
		},
	}
}

// Render draws one series: a title, the sparkline and its range.
func (c *Chart) Render(s Series) (string, error) {
	if len(s.Points) == 0 {
		return "", fmt.Errorf("%s: %w", s.Label, ErrNoData)
	}

	points := Downsample(s.Points, c.Width)
	values := make([]float64, len(points))
	for i, p := range points {
		values[i] = p.Value
	}
	spark := []rune(Sparkline(values))

	var line strings.Builder
	for i, p := range points {
		status := c.Thresholds.ClassifyValue(s.Metric, p.Value)
		style, ok := c.byState[status]
		if !ok {
			line.WriteRune(spark[i])
			continue
		}
		line.WriteString(style.Render(string(spark[i])))
	}

	stats := analytics.Summarize(s.Metric, s.Values())
	first, last := s.Points[0], s.Points[len(s.Points)-1]
	footer := fmt.Sprintf("%s → %s  min %.1f  max %.1f  last %.1f  (%d readings)",
		first.Time.Format("2006-01-02"), last.Time.Format("2006-01-02"),
		stats.Min, stats.Max, last.Value, stats.Count)

	return lipgloss.JoinVertical(lipgloss.Left,
		c.title.Render(s.Label),
		line.String(),
		c.faint.Render(footer),
	), nil
}

// RenderMetric charts metric over records. Blood pressure renders both
// systolic and diastolic.
func (c *Chart) RenderMetric(records []*models.HealthRecord, metric string) (string, error) {
	var metrics []vitals.Metric
	switch metric {
	case "bp", "blood_pressure":
		metrics = []vitals.Metric{vitals.MetricSystolic, vitals.MetricDiastolic}
	default:
		if !vitals.IsValidMetric(metric) {
			return "", fmt.Errorf("unknown metric: %q", metric)
		}
		metrics = []vitals.Metric{vitals.Metric(metric)}
	}

	var blocks []string
	for _, m := range metrics {
		out, err := c.Render(SeriesFor(records, m))
		if err != nil {
			return "", err
		}
		blocks = append(blocks, out)
	}
	return strings.Join(blocks, "\n\n"), nil
}
