// ABOUTME: Summary statistics and out-of-range detection for health records.
// ABOUTME: Computes mean/median/min/max per metric using derived BP components.
package analytics

import (
	"sort"
	"time"

	"github.com/harperreed/phr/internal/models"
	"github.com/harperreed/phr/internal/vitals"
)

// Stats summarises one metric across a set of records.
type Stats struct {
	Metric vitals.Metric `json:"metric"`
	Label  string        `json:"label"`
	Count  int           `json:"count"`
	Mean   float64       `json:"mean"`
	Median float64       `json:"median"`
	Min    float64       `json:"min"`
	Max    float64       `json:"max"`
}

// HasData reports whether any value contributed to the stats.
func (s Stats) HasData() bool {
	return s.Count > 0
}

// Labels are the display names for each metric, with units.
var Labels = map[vitals.Metric]string{
	vitals.MetricSugar:     "Sugar Level (mg/dL)",
	vitals.MetricPulse:     "Pulse Rate (bpm)",
	vitals.MetricSystolic:  "Systolic BP",
	vitals.MetricDiastolic: "Diastolic BP",
}

// MetricOrder is the order metrics appear in analytics output.
var MetricOrder = []vitals.Metric{
	vitals.MetricSugar,
	vitals.MetricPulse,
	vitals.MetricSystolic,
	vitals.MetricDiastolic,
}

// Guidelines are general reference ranges shown alongside the statistics.
var Guidelines = []string{
	"Blood Sugar: 70 - 100 mg/dL (Fasting)",
	"Pulse Rate: 60 - 100 bpm (At rest)",
	"Blood Pressure: Less than 120/80 mmHg (Ideal)",
}

// Values extracts the present values of metric from records, in order.
func Values(records []*models.HealthRecord, metric vitals.Metric) []float64 {
	var out []float64
	for _, r := range records {
		if v := Value(r, metric); v != nil {
			out = append(out, *v)
		}
	}
	return out
}

// Value returns the record's value for metric, or nil when absent.
// Non-finite numbers count as absent.
func Value(r *models.HealthRecord, metric vitals.Metric) *float64 {
	switch metric {
	case vitals.MetricSugar:
		if vitals.Present(r.SugarLevel) {
			return r.SugarLevel
		}
		return nil
	case vitals.MetricPulse:
		if vitals.Present(r.PulseRate) {
			return r.PulseRate
		}
		return nil
	case vitals.MetricSystolic:
		sys, _ := vitals.SplitBloodPressure(r.BloodPressure)
		return sys
	case vitals.MetricDiastolic:
		_, dia := vitals.SplitBloodPressure(r.BloodPressure)
		return dia
	}
	return nil
}

// Compute returns statistics for every metric in MetricOrder.
func Compute(records []*models.HealthRecord) []Stats {
	out := make([]Stats, 0, len(MetricOrder))
	for _, m := range MetricOrder {
		out = append(out, Summarize(m, Values(records, m)))
	}
	return out
}

// Summarize computes statistics over values.
func Summarize(metric vitals.Metric, values []float64) Stats {
	s := Stats{Metric: metric, Label: Labels[metric], Count: len(values)}
	if len(values) == 0 {
		return s
	}

	sorted := append([]float64(nil), values...)
	sort.Float64s(sorted)

	var sum float64
	for _, v := range sorted {
		sum += v
	}
	s.Mean = sum / float64(len(sorted))
	s.Min = sorted[0]
	s.Max = sorted[len(sorted)-1]

	mid := len(sorted) / 2
	if len(sorted)%2 == 0 {
		s.Median = (sorted[mid-1] + sorted[mid]) / 2
	} else {
		s.Median = sorted[mid]
	}
	return s
}

// Outlier is a reading outside its healthy range.
type Outlier struct {
	Date   time.Time     `json:"date"`
	Metric vitals.Metric `json:"metric"`
	Value  float64       `json:"value"`
	Status vitals.Status `json:"status"`
}

// Outliers lists readings that classify as Low or High, grouped by metric in
// MetricOrder and chronological within each metric.
func Outliers(records []*models.HealthRecord, t vitals.Thresholds) []Outlier {
	var out []Outlier
	for _, m := range MetricOrder {
		for _, r := range records {
			v := Value(r, m)
			status := t.Classify(m, v)
			if status == vitals.StatusLow || status == vitals.StatusHigh {
				out = append(out, Outlier{Date: r.Timestamp, Metric: m, Value: *v, Status: status})
			}
		}
	}
	return out
}
