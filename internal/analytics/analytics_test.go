// ABOUTME: Tests for statistics, outliers and BMI.
// ABOUTME: Checks per-metric summaries against known values.
package analytics

import (
	"testing"
	"time"

	"github.com/harperreed/phr/internal/models"
	"github.com/harperreed/phr/internal/vitals"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sample() []*models.HealthRecord {
	day := func(d int) time.Time { return time.Date(2025, 2, d, 9, 0, 0, 0, time.UTC) }
	return []*models.HealthRecord{
		models.NewRecord(day(1)).WithBloodPressure(120, 80).WithSugar(90).WithPulse(70),
		models.NewRecord(day(2)).WithBloodPressure(140, 90).WithSugar(150),
		models.NewRecord(day(3)).WithRawBloodPressure("n/a").WithPulse(55),
		models.NewRecord(day(4)).WithBloodPressure(110, 70).WithSugar(100).WithPulse(80),
	}
}

func TestCompute(t *testing.T) {
	stats := Compute(sample())
	require.Len(t, stats, 4)

	sugar := stats[0]
	assert.Equal(t, vitals.MetricSugar, sugar.Metric)
	assert.Equal(t, "Sugar Level (mg/dL)", sugar.Label)
	assert.Equal(t, 3, sugar.Count)
	assert.InDelta(t, 113.333, sugar.Mean, 0.001)
	assert.Equal(t, 100.0, sugar.Median)
	assert.Equal(t, 90.0, sugar.Min)
	assert.Equal(t, 150.0, sugar.Max)

	pulse := stats[1]
	assert.Equal(t, 3, pulse.Count)
	assert.Equal(t, 70.0, pulse.Median)

	sys := stats[2]
	assert.Equal(t, 3, sys.Count)
	assert.InDelta(t, 123.333, sys.Mean, 0.001)

	dia := stats[3]
	assert.Equal(t, 80.0, dia.Median)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(vitals.MetricPulse, nil)
	assert.False(t, s.HasData())
	assert.Equal(t, "Pulse Rate (bpm)", s.Label)
}

func TestSummarizeEvenMedian(t *testing.T) {
	s := Summarize(vitals.MetricSugar, []float64{100, 80, 90, 120})
	assert.Equal(t, 95.0, s.Median)
	assert.Equal(t, 97.5, s.Mean)
}

func TestSummarizeDoesNotReorderInput(t *testing.T) {
	in := []float64{3, 1, 2}
	Summarize(vitals.MetricSugar, in)
	assert.Equal(t, []float64{3, 1, 2}, in)
}

func TestOutliers(t *testing.T) {
	out := Outliers(sample(), vitals.DefaultThresholds())

	require.Len(t, out, 4)
	assert.Equal(t, vitals.MetricSugar, out[0].Metric)
	assert.Equal(t, 150.0, out[0].Value)
	assert.Equal(t, vitals.StatusHigh, out[0].Status)
	assert.Equal(t, vitals.MetricPulse, out[1].Metric)
	assert.Equal(t, vitals.StatusLow, out[1].Status)
	assert.Equal(t, vitals.MetricSystolic, out[2].Metric)
	assert.Equal(t, vitals.MetricDiastolic, out[3].Metric)
}

func TestOutliersCustomThresholds(t *testing.T) {
	strict := vitals.DefaultThresholds().Merge(vitals.Thresholds{
		vitals.MetricSystolic:  {Low: 90, High: 120},
		vitals.MetricDiastolic: {Low: 60, High: 80},
	})
	out := Outliers(sample(), strict)
	assert.Len(t, out, 4)

	none := Outliers(nil, strict)
	assert.Empty(t, none)
}

func TestBMI(t *testing.T) {
	bmi, err := BMI(1.80, 81)
	require.NoError(t, err)
	assert.InDelta(t, 25.0, bmi, 0.001)

	_, err = BMI(0, 80)
	assert.ErrorIs(t, err, ErrInvalidBody)
	_, err = BMI(1.7, -1)
	assert.ErrorIs(t, err, ErrInvalidBody)
}

func TestClassifyBMI(t *testing.T) {
	assert.Equal(t, Underweight, ClassifyBMI(18.4))
	assert.Equal(t, Normal, ClassifyBMI(18.5))
	assert.Equal(t, Normal, ClassifyBMI(24.9))
	assert.Equal(t, Overweight, ClassifyBMI(25))
	assert.Equal(t, Obesity, ClassifyBMI(30))
	assert.True(t, Normal.Healthy)
}
