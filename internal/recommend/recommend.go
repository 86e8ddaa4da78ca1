// ABOUTME: Narrative recommendations built from classified health records.
// ABOUTME: Daily mode describes one record; summary mode averages a trailing window.
package recommend

import (
	"fmt"
	"strings"
	"time"

	"github.com/harperreed/phr/internal/models"
	"github.com/harperreed/phr/internal/vitals"
)

// Fixed narrative texts.
const (
	AllHealthyMessage   = "All recorded metrics are within the healthy range. Keep it up!"
	InsufficientDataMsg = "Not enough recent data to generate specific recommendations."
	NoReadingsMsg       = "No readings recorded in this window."
	Disclaimer          = "These recommendations are for informational purposes only."
)

// DefaultWindowDays is the trailing window used by summary mode.
const DefaultWindowDays = 30

// DefaultHighlights is how many recent records get a daily highlight.
const DefaultHighlights = 5

// Clause is one metric's sentence in a daily recommendation.
type Clause struct {
	Metric  string        `json:"metric"`
	Status  vitals.Status `json:"status"`
	Invalid bool          `json:"invalid,omitempty"`
	Text    string        `json:"text"`
}

// Daily is the recommendation for a single record.
type Daily struct {
	Clauses    []Clause `json:"clauses"`
	AllHealthy bool     `json:"all_healthy"`
	Text       string   `json:"text"`
}

// SummaryLine is one narrative line of the window summary.
type SummaryLine struct {
	Metric string        `json:"metric"`
	Status vitals.Status `json:"status"`
	Text   string        `json:"text"`
}

// Highlight is a dated daily recommendation.
type Highlight struct {
	Date time.Time `json:"date"`
	Text string    `json:"text"`
}

// Generator composes recommendation text using injected thresholds.
type Generator struct {
	thresholds vitals.Thresholds
}

// NewGenerator creates a Generator. Nil thresholds fall back to the defaults.
func NewGenerator(t vitals.Thresholds) *Generator {
	if t == nil {
		t = vitals.DefaultThresholds()
	}
	return &Generator{thresholds: t}
}

// Thresholds returns the ranges the generator classifies against.
func (g *Generator) Thresholds() vitals.Thresholds {
	return g.thresholds
}

// Daily builds the recommendation for a single record.
func (g *Generator) Daily(r *models.HealthRecord) Daily {
	clauses := []Clause{
		g.bloodPressureClause(r.BloodPressure),
		g.valueClause("Sugar", vitals.MetricSugar, r.SugarLevel, models.UnitSugar),
		g.valueClause("Pulse", vitals.MetricPulse, r.PulseRate, models.UnitPulse),
	}

	allHealthy := true
	for _, c := range clauses {
		if c.Status == vitals.StatusMissing {
			continue
		}
		if c.Status != vitals.StatusHealthy {
			allHealthy = false
			break
		}
	}

	d := Daily{Clauses: clauses, AllHealthy: allHealthy}
	if allHealthy {
		d.Text = AllHealthyMessage
		return d
	}
	texts := make([]string, len(clauses))
	for i, c := range clauses {
		texts[i] = c.Text
	}
	d.Text = strings.Join(texts, " ")
	return d
}

func (g *Generator) bloodPressureClause(bp string) Clause {
	c := Clause{Metric: "BP", Status: vitals.StatusMissing}
	if strings.TrimSpace(bp) == "" {
		c.Text = "BP data missing."
		return c
	}
	sys, dia, ok := vitals.ParseBloodPressure(bp)
	if !ok {
		c.Invalid = true
		c.Text = "BP data format invalid."
		return c
	}
	c.Status = g.thresholds.ClassifyBloodPressure(float64(sys), float64(dia))
	c.Text = fmt.Sprintf("BP (%s %s) is %s.", strings.TrimSpace(bp), models.UnitBloodPressure, c.Status)
	return c
}

func (g *Generator) valueClause(label string, metric vitals.Metric, v *float64, unit string) Clause {
	c := Clause{Metric: label, Status: g.thresholds.Classify(metric, v)}
	if c.Status == vitals.StatusMissing {
		c.Text = label + " data missing."
		return c
	}
	c.Text = fmt.Sprintf("%s (%.0f %s) is %s.", label, *v, unit, c.Status)
	return c
}

// Window returns the records within days of the latest record's timestamp.
// The anchor is the data, not the wall clock.
func Window(records []*models.HealthRecord, days int) []*models.HealthRecord {
	if len(records) == 0 {
		return nil
	}
	if days <= 0 {
		days = DefaultWindowDays
	}
	_, latest := models.Span(records)
	start := latest.AddDate(0, 0, -days)

	var out []*models.HealthRecord
	for _, r := range records {
		if !r.Timestamp.Before(start) {
			out = append(out, r)
		}
	}
	return out
}

// Summary averages each metric over the window and describes the result.
// An empty window yields exactly one insufficient-data line.
func (g *Generator) Summary(window []*models.HealthRecord) []SummaryLine {
	if len(window) == 0 {
		return []SummaryLine{{Status: vitals.StatusMissing, Text: InsufficientDataMsg}}
	}

	var lines []SummaryLine

	var sysSum, diaSum float64
	var bpCount int
	var sugar, pulse []float64
	for _, r := range window {
		if sys, dia, ok := vitals.ParseBloodPressure(r.BloodPressure); ok {
			sysSum += float64(sys)
			diaSum += float64(dia)
			bpCount++
		}
		if vitals.Present(r.SugarLevel) {
			sugar = append(sugar, *r.SugarLevel)
		}
		if vitals.Present(r.PulseRate) {
			pulse = append(pulse, *r.PulseRate)
		}
	}

	if bpCount > 0 {
		avgSys := sysSum / float64(bpCount)
		avgDia := diaSum / float64(bpCount)
		status := g.thresholds.ClassifyBloodPressure(avgSys, avgDia)
		prefix := fmt.Sprintf("Avg BP (%.0f/%.0f): ", avgSys, avgDia)
		lines = append(lines, SummaryLine{
			Metric: "BP",
			Status: status,
			Text:   prefix + advice(status, bpAdvice),
		})
	}

	if len(sugar) > 0 {
		avg := mean(sugar)
		status := g.thresholds.ClassifyValue(vitals.MetricSugar, avg)
		lines = append(lines, SummaryLine{
			Metric: "Sugar",
			Status: status,
			Text:   fmt.Sprintf("Avg Sugar (%.0f %s): ", avg, models.UnitSugar) + advice(status, sugarAdvice),
		})
	}

	if len(pulse) > 0 {
		avg := mean(pulse)
		status := g.thresholds.ClassifyValue(vitals.MetricPulse, avg)
		lines = append(lines, SummaryLine{
			Metric: "Pulse",
			Status: status,
			Text:   fmt.Sprintf("Avg Pulse (%.0f %s): ", avg, models.UnitPulse) + advice(status, pulseAdvice),
		})
	}

	return lines
}

// Highlights returns daily recommendations for the last n records of window.
func (g *Generator) Highlights(window []*models.HealthRecord, n int) []Highlight {
	if n <= 0 {
		n = DefaultHighlights
	}
	start := len(window) - n
	if start < 0 {
		start = 0
	}
	out := make([]Highlight, 0, len(window)-start)
	for _, r := range window[start:] {
		out = append(out, Highlight{Date: r.Timestamp, Text: g.Daily(r).Text})
	}
	return out
}

type adviceSet struct {
	high string
	low  string
}

var (
	bpAdvice = adviceSet{
		high: "Elevated. Consider reducing sodium and consulting your doctor.",
		low:  "Low. Ensure hydration and discuss with your doctor if symptomatic.",
	}
	sugarAdvice = adviceSet{
		high: "Elevated. Limit refined carbohydrates and discuss with your doctor.",
		low:  "Low. Eat regular meals and discuss with your doctor if symptomatic.",
	}
	pulseAdvice = adviceSet{
		high: "Elevated. Review caffeine intake and consult your doctor if it persists.",
		low:  "Low. Discuss with your doctor if you feel dizzy or tired.",
	}
)

func advice(s vitals.Status, a adviceSet) string {
	switch s {
	case vitals.StatusHigh:
		return a.high
	case vitals.StatusLow:
		return a.low
	default:
		return "Healthy range."
	}
}

func mean(values []float64) float64 {
	var sum float64
	for _, v := range values {
		sum += v
	}
	return sum / float64(len(values))
}
