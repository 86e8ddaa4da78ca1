// ABOUTME: Schema validation for rows read from the flat record file.
// ABOUTME: Classifies each row as valid (possibly with warnings) or droppable.
package storage

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/harperreed/phr/internal/models"
	"github.com/harperreed/phr/internal/vitals"
)

var (
	// ErrUnparsableDate marks a row whose date cannot be read; the row is dropped.
	ErrUnparsableDate = errors.New("unparsable date")
	// ErrInvalidNumber marks a numeric column that is not a non-negative number.
	ErrInvalidNumber = errors.New("invalid number")
	// ErrColumnCount marks a row with the wrong number of columns.
	ErrColumnCount = errors.New("wrong column count")
)

// Columns is the bit-exact header of the record file.
var Columns = []string{"date", "blood_pressure", "sugar_level", "pulse_rate", "notes"}

// TimeLayout is the layout dates are written with.
const TimeLayout = "2006-01-02 15:04:05"

var readLayouts = []string{
	TimeLayout,
	"2006-01-02 15:04:05.999999999",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04:05.999999999",
	time.RFC3339Nano,
	"2006-01-02 15:04",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseTimestamp parses an ISO-style date or date-time.
func ParseTimestamp(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	for _, layout := range readLayouts {
		if t, err := time.ParseInLocation(layout, s, time.Local); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: %q", ErrUnparsableDate, s)
}

// FormatTimestamp renders t the way it is persisted, in local time.
func FormatTimestamp(t time.Time) string {
	return t.In(time.Local).Format(TimeLayout)
}

// RowResult is the outcome of validating one row.
type RowResult struct {
	Line     int
	Record   *models.HealthRecord
	Dropped  bool
	Warnings []error
}

// ValidateRow converts raw CSV fields into a record.
// Rows with an unparsable date or more columns than the header are dropped.
// Short rows are padded with empty trailing columns. Other problems are kept
// as warnings and the affected value is treated as absent.
func ValidateRow(line int, fields []string) RowResult {
	res := RowResult{Line: line}
	if len(fields) > len(Columns) {
		res.Dropped = true
		res.Warnings = append(res.Warnings, fmt.Errorf("%w: got %d, want %d", ErrColumnCount, len(fields), len(Columns)))
		return res
	}
	if len(fields) < len(Columns) {
		res.Warnings = append(res.Warnings, fmt.Errorf("%w: got %d, want %d", ErrColumnCount, len(fields), len(Columns)))
		padded := make([]string, len(Columns))
		copy(padded, fields)
		fields = padded
	}

	ts, err := ParseTimestamp(fields[0])
	if err != nil {
		res.Dropped = true
		res.Warnings = append(res.Warnings, err)
		return res
	}

	r := models.NewRecord(ts)
	r.BloodPressure = strings.TrimSpace(fields[1])
	r.Notes = fields[4]

	if err := vitals.CheckBloodPressure(r.BloodPressure); err != nil {
		res.Warnings = append(res.Warnings, fmt.Errorf("blood_pressure: %w", err))
	}

	var warn error
	r.SugarLevel, warn = parseOptional("sugar_level", fields[2])
	if warn != nil {
		res.Warnings = append(res.Warnings, warn)
	}
	r.PulseRate, warn = parseOptional("pulse_rate", fields[3])
	if warn != nil {
		res.Warnings = append(res.Warnings, warn)
	}

	res.Record = r
	return res
}

func parseOptional(column, s string) (*float64, error) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "nan") {
		return nil, fmt.Errorf("%s: %w", column, vitals.ErrMissingMetric)
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v < 0 || math.IsInf(v, 0) || math.IsNaN(v) {
		return nil, fmt.Errorf("%s: %w: %q", column, ErrInvalidNumber, s)
	}
	return &v, nil
}

// EncodeRow converts a record into CSV fields.
func EncodeRow(r *models.HealthRecord) []string {
	return []string{
		FormatTimestamp(r.Timestamp),
		r.BloodPressure,
		formatNumber(r.SugarLevel),
		formatNumber(r.PulseRate),
		r.Notes,
	}
}

func formatNumber(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', -1, 64)
}
