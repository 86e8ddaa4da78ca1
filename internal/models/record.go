// ABOUTME: HealthRecord model for logged blood pressure, sugar and pulse readings.
// ABOUTME: Records are immutable once stored; derived BP fields are never persisted.
package models

import (
	"fmt"
	"time"
)

// Units used when displaying record values.
const (
	UnitBloodPressure = "mmHg"
	UnitSugar         = "mg/dL"
	UnitPulse         = "bpm"
)

// HealthRecord represents one timestamped health observation.
type HealthRecord struct {
	Timestamp     time.Time `json:"date" yaml:"date"`
	BloodPressure string    `json:"blood_pressure" yaml:"blood_pressure"`
	SugarLevel    *float64  `json:"sugar_level,omitempty" yaml:"sugar_level,omitempty"`
	PulseRate     *float64  `json:"pulse_rate,omitempty" yaml:"pulse_rate,omitempty"`
	Notes         string    `json:"notes,omitempty" yaml:"notes,omitempty"`
}

// NewRecord creates an empty record at the given timestamp.
// A zero timestamp is replaced with the current time.
func NewRecord(ts time.Time) *HealthRecord {
	if ts.IsZero() {
		ts = time.Now()
	}
	return &HealthRecord{Timestamp: ts}
}

// WithBloodPressure sets blood pressure in the conventional "sys/dia" form.
func (r *HealthRecord) WithBloodPressure(systolic, diastolic int) *HealthRecord {
	r.BloodPressure = fmt.Sprintf("%d/%d", systolic, diastolic)
	return r
}

// WithRawBloodPressure stores the blood pressure text as given.
func (r *HealthRecord) WithRawBloodPressure(bp string) *HealthRecord {
	r.BloodPressure = bp
	return r
}

// WithSugar sets the sugar level in mg/dL.
func (r *HealthRecord) WithSugar(v float64) *HealthRecord {
	r.SugarLevel = &v
	return r
}

// WithPulse sets the pulse rate in bpm.
func (r *HealthRecord) WithPulse(v float64) *HealthRecord {
	r.PulseRate = &v
	return r
}

// WithNotes sets notes on the record.
func (r *HealthRecord) WithNotes(notes string) *HealthRecord {
	r.Notes = notes
	return r
}

// Key returns a string identifying the record by all of its fields.
// Timestamps compare at second precision, the precision records are stored with.
func (r *HealthRecord) Key() string {
	return fmt.Sprintf("%s|%s|%s|%s|%s",
		r.Timestamp.UTC().Truncate(time.Second).Format(time.RFC3339),
		r.BloodPressure,
		formatOptional(r.SugarLevel),
		formatOptional(r.PulseRate),
		r.Notes)
}

func formatOptional(v *float64) string {
	if v == nil {
		return ""
	}
	return fmt.Sprintf("%g", *v)
}

// FilterByDate returns the records whose calendar day lies within [from, to].
// A zero from or to leaves that side of the range open.
func FilterByDate(records []*HealthRecord, from, to time.Time) []*HealthRecord {
	var out []*HealthRecord
	for _, r := range records {
		day := dayOf(r.Timestamp)
		if !from.IsZero() && day.Before(dayOf(from)) {
			continue
		}
		if !to.IsZero() && day.After(dayOf(to)) {
			continue
		}
		out = append(out, r)
	}
	return out
}

// Span returns the earliest and latest timestamps in records.
// Both are zero when records is empty.
func Span(records []*HealthRecord) (first, last time.Time) {
	for i, r := range records {
		if i == 0 || r.Timestamp.Before(first) {
			first = r.Timestamp
		}
		if i == 0 || r.Timestamp.After(last) {
			last = r.Timestamp
		}
	}
	return first, last
}

func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
