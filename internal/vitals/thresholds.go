// ABOUTME: Healthy-range thresholds and the per-metric range classifier.
// ABOUTME: Thresholds are plain data so they can come from config or user profiles.
package vitals

import (
	"fmt"
	"math"
	"sort"
)

// Metric names a classified health metric.
type Metric string

const (
	MetricSystolic  Metric = "systolic"
	MetricDiastolic Metric = "diastolic"
	MetricSugar     Metric = "sugar"
	MetricPulse     Metric = "pulse"
)

// AllMetrics lists the classified metrics in display order.
var AllMetrics = []Metric{MetricSystolic, MetricDiastolic, MetricSugar, MetricPulse}

// IsValidMetric checks if a string names a classified metric.
func IsValidMetric(s string) bool {
	for _, m := range AllMetrics {
		if string(m) == s {
			return true
		}
	}
	return false
}

// Status is the qualitative classification of a reading.
type Status string

const (
	StatusMissing Status = "missing"
	StatusLow     Status = "low"
	StatusHealthy Status = "healthy"
	StatusHigh    Status = "high"
)

// Range holds inclusive healthy bounds.
type Range struct {
	Low  float64 `json:"low" yaml:"low" mapstructure:"low"`
	High float64 `json:"high" yaml:"high" mapstructure:"high"`
}

// Thresholds maps each metric to its healthy range.
type Thresholds map[Metric]Range

// DefaultThresholds returns the built-in healthy ranges.
func DefaultThresholds() Thresholds {
	return Thresholds{
		MetricSystolic:  {Low: 90, High: 130},
		MetricDiastolic: {Low: 60, High: 85},
		MetricSugar:     {Low: 70, High: 140},
		MetricPulse:     {Low: 60, High: 100},
	}
}

// Present reports whether v holds a finite reading.
func Present(v *float64) bool {
	return v != nil && !math.IsNaN(*v) && !math.IsInf(*v, 0)
}

// Classify returns the status of value for metric.
// A nil or non-finite value, or a metric without a range, is Missing.
func (t Thresholds) Classify(metric Metric, value *float64) Status {
	if !Present(value) {
		return StatusMissing
	}
	r, ok := t[metric]
	if !ok {
		return StatusMissing
	}
	switch {
	case *value < r.Low:
		return StatusLow
	case *value > r.High:
		return StatusHigh
	default:
		return StatusHealthy
	}
}

// ClassifyValue is Classify for a present value.
func (t Thresholds) ClassifyValue(metric Metric, value float64) Status {
	return t.Classify(metric, &value)
}

// ClassifyBloodPressure classifies a systolic/diastolic pair.
// High wins over Low, so 140/55 is High.
func (t Thresholds) ClassifyBloodPressure(systolic, diastolic float64) Status {
	sys := t.ClassifyValue(MetricSystolic, systolic)
	dia := t.ClassifyValue(MetricDiastolic, diastolic)
	switch {
	case sys == StatusHigh || dia == StatusHigh:
		return StatusHigh
	case sys == StatusLow || dia == StatusLow:
		return StatusLow
	case sys == StatusMissing || dia == StatusMissing:
		// Only reachable with a set that fails Validate.
		return StatusMissing
	default:
		return StatusHealthy
	}
}

// Merge returns a copy of t with ranges from over replacing its own.
func (t Thresholds) Merge(over Thresholds) Thresholds {
	out := make(Thresholds, len(t)+len(over))
	for m, r := range t {
		out[m] = r
	}
	for m, r := range over {
		out[m] = r
	}
	return out
}

// Validate checks that every metric has a sane range.
func (t Thresholds) Validate() error {
	for _, m := range AllMetrics {
		r, ok := t[m]
		if !ok {
			return fmt.Errorf("missing threshold for %s", m)
		}
		if r.Low < 0 || r.High < 0 {
			return fmt.Errorf("threshold for %s must be non-negative", m)
		}
		if r.Low > r.High {
			return fmt.Errorf("threshold for %s: low %.0f exceeds high %.0f", m, r.Low, r.High)
		}
	}
	for m := range t {
		if !IsValidMetric(string(m)) {
			return fmt.Errorf("unknown metric in thresholds: %s", m)
		}
	}
	return nil
}

// Metrics returns the metrics present in t, sorted by name.
func (t Thresholds) Metrics() []Metric {
	out := make([]Metric, 0, len(t))
	for m := range t {
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
