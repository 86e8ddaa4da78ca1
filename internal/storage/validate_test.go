// ABOUTME: Tests for row validation and timestamp handling.
// ABOUTME: Covers dropped rows, warnings and row encoding.
package storage

import (
	"testing"
	"time"

	"github.com/harperreed/phr/internal/models"
	"github.com/harperreed/phr/internal/vitals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		input   string
		wantErr bool
	}{
		{"2025-01-31 08:30:00", false},
		{"2025-01-31 08:30:00.123456", false},
		{"2025-01-31T08:30:00", false},
		{"2025-01-31T08:30:00Z", false},
		{"2025-01-31T08:30:00+05:00", false},
		{"2025-01-31 08:30", false},
		{"2025-01-31", false},
		{" 2025-01-31 ", false},
		{"31-01-2025", true},
		{"not a date", true},
		{"", true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrUnparsableDate)
				return
			}
			require.NoError(t, err)
			assert.False(t, got.IsZero())
		})
	}
}

func TestFormatTimestampRoundTrip(t *testing.T) {
	ts := time.Date(2025, 6, 15, 7, 5, 9, 0, time.Local)
	got, err := ParseTimestamp(FormatTimestamp(ts))
	require.NoError(t, err)
	assert.True(t, got.Equal(ts))
}

func TestValidateRow(t *testing.T) {
	res := ValidateRow(2, []string{"2025-01-01 10:00:00", "120/80", "95", "70", "note"})
	require.False(t, res.Dropped)
	require.NotNil(t, res.Record)
	assert.Empty(t, res.Warnings)

	res = ValidateRow(3, []string{"garbage", "120/80", "95", "70", ""})
	assert.True(t, res.Dropped)
	require.Len(t, res.Warnings, 1)
	assert.ErrorIs(t, res.Warnings[0], ErrUnparsableDate)

	res = ValidateRow(4, []string{"2025-01-01", "120/80", "95", "70", "note", "extra"})
	assert.True(t, res.Dropped)
	assert.ErrorIs(t, res.Warnings[0], ErrColumnCount)
}

func TestValidateRowShortRowIsPadded(t *testing.T) {
	res := ValidateRow(7, []string{"2024-01-01 08:00:00", "120/80", "92", "76"})
	require.False(t, res.Dropped)
	require.NotNil(t, res.Record)
	require.Len(t, res.Warnings, 1)
	assert.ErrorIs(t, res.Warnings[0], ErrColumnCount)
	assert.Equal(t, "120/80", res.Record.BloodPressure)
	require.NotNil(t, res.Record.PulseRate)
	assert.Equal(t, 76.0, *res.Record.PulseRate)
	assert.Empty(t, res.Record.Notes)

	res = ValidateRow(8, []string{"2024-01-01"})
	require.False(t, res.Dropped)
	assert.Nil(t, res.Record.SugarLevel)
	assert.Empty(t, res.Record.BloodPressure)

	res = ValidateRow(9, []string{"soon", "120/80"})
	assert.True(t, res.Dropped)
}

func TestValidateRowRejectsNonFinite(t *testing.T) {
	for _, v := range []string{"inf", "+Inf", "-Inf", "Infinity", "NaN"} {
		t.Run(v, func(t *testing.T) {
			res := ValidateRow(10, []string{"2025-01-01", "120/80", v, v, ""})
			require.False(t, res.Dropped)
			assert.Nil(t, res.Record.SugarLevel)
			assert.Nil(t, res.Record.PulseRate)
			require.Len(t, res.Warnings, 2)
		})
	}
}

func TestValidateRowWarnings(t *testing.T) {
	res := ValidateRow(5, []string{"2025-01-01", "120-80", "sweet", "", ""})
	require.False(t, res.Dropped)
	require.Len(t, res.Warnings, 3)
	assert.ErrorIs(t, res.Warnings[0], vitals.ErrMalformedBloodPressure)
	assert.ErrorIs(t, res.Warnings[1], ErrInvalidNumber)
	assert.ErrorIs(t, res.Warnings[2], vitals.ErrMissingMetric)
	assert.Nil(t, res.Record.SugarLevel)
	assert.Equal(t, "120-80", res.Record.BloodPressure)
}

func TestValidateRowNegativeNumber(t *testing.T) {
	res := ValidateRow(6, []string{"2025-01-01", "120/80", "-5", "70", ""})
	require.False(t, res.Dropped)
	assert.Nil(t, res.Record.SugarLevel)
	require.NotNil(t, res.Record.PulseRate)
}

func TestEncodeRow(t *testing.T) {
	r := models.NewRecord(time.Date(2025, 1, 2, 3, 4, 5, 0, time.Local)).
		WithBloodPressure(121, 79).WithSugar(101.5).WithNotes("x")
	assert.Equal(t, []string{"2025-01-02 03:04:05", "121/79", "101.5", "", "x"}, EncodeRow(r))
}
