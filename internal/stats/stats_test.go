package stats

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummarize(t *testing.T) {
	s := Summarize([]float64{4, 1, 3, 2})

	assert.Equal(t, 4, s.Count)
	assert.InDelta(t, 2.5, s.Mean, 1e-12)
	// sample std of 1..4 is sqrt(5/3)
	assert.InDelta(t, math.Sqrt(5.0/3.0), s.Std, 1e-12)
	assert.Equal(t, 1.0, s.Min)
	assert.InDelta(t, 1.75, s.P25, 1e-12)
	assert.InDelta(t, 2.5, s.P50, 1e-12)
	assert.InDelta(t, 3.25, s.P75, 1e-12)
	assert.Equal(t, 4.0, s.Max)
}

func TestSummarizeSkipsMissing(t *testing.T) {
	s := Summarize([]float64{math.NaN(), 10, math.NaN(), 20})

	assert.Equal(t, 2, s.Count)
	assert.InDelta(t, 15, s.Mean, 1e-12)
	assert.InDelta(t, 15, s.P50, 1e-12)
}

func TestSummarizeSingleValue(t *testing.T) {
	s := Summarize([]float64{7})

	assert.Equal(t, 1, s.Count)
	assert.Equal(t, 7.0, s.Mean)
	assert.True(t, math.IsNaN(s.Std), "std of one value should be NaN")
	assert.Equal(t, 7.0, s.P25)
	assert.Equal(t, 7.0, s.Max)
}

func TestSummarizeEmpty(t *testing.T) {
	s := Summarize(nil)

	assert.Equal(t, 0, s.Count)
	assert.True(t, math.IsNaN(s.Mean))
	assert.True(t, math.IsNaN(s.Max))
}

func TestQuantile(t *testing.T) {
	sorted := []float64{10, 20, 30, 40, 50}

	tests := []struct {
		p    float64
		want float64
	}{
		{0, 10},
		{0.25, 20},
		{0.5, 30},
		{0.9, 46},
		{1, 50},
	}
	for _, tt := range tests {
		assert.InDelta(t, tt.want, Quantile(tt.p, sorted), 1e-12, "p=%v", tt.p)
	}
}

func TestMeanAndMax(t *testing.T) {
	require.True(t, math.IsNaN(Mean(nil)))
	assert.InDelta(t, 2.0, Mean([]float64{1, math.NaN(), 3}), 1e-12)
	assert.Equal(t, 3.0, Max([]float64{1, math.NaN(), 3}))
	assert.True(t, math.IsNaN(Max([]float64{math.NaN()})))
}
