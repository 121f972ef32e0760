package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Summary holds the descriptive statistics of one numeric column.
type Summary struct {
	Count int
	Mean  float64
	Std   float64 // sample standard deviation (n-1 denominator)
	Min   float64
	P25   float64
	P50   float64
	P75   float64
	Max   float64
}

// Present returns the non-NaN values of x in their original order.
func Present(x []float64) []float64 {
	out := make([]float64, 0, len(x))
	for _, v := range x {
		if !math.IsNaN(v) {
			out = append(out, v)
		}
	}
	return out
}

// Mean returns the mean of the present values, or NaN if there are none.
func Mean(x []float64) float64 {
	vals := Present(x)
	if len(vals) == 0 {
		return math.NaN()
	}
	return stat.Mean(vals, nil)
}

// Max returns the largest present value, or NaN if there are none.
func Max(x []float64) float64 {
	vals := Present(x)
	if len(vals) == 0 {
		return math.NaN()
	}
	return floats.Max(vals)
}

// Quantile returns the p-quantile of sorted using linear interpolation
// between the two closest ranks. sorted must be ascending and NaN free.
func Quantile(p float64, sorted []float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	if n == 1 {
		return sorted[0]
	}
	h := p * float64(n-1)
	lo := int(math.Floor(h))
	if lo >= n-1 {
		return sorted[n-1]
	}
	frac := h - float64(lo)
	return sorted[lo] + frac*(sorted[lo+1]-sorted[lo])
}

// Summarize computes count, mean, sample std, min, quartiles and max.
// Std is NaN for fewer than two values; all fields but Count are NaN for an
// empty input.
func Summarize(x []float64) Summary {
	vals := Present(x)
	if len(vals) == 0 {
		nan := math.NaN()
		return Summary{Mean: nan, Std: nan, Min: nan, P25: nan, P50: nan, P75: nan, Max: nan}
	}

	sorted := make([]float64, len(vals))
	copy(sorted, vals)
	sort.Float64s(sorted)

	s := Summary{
		Count: len(vals),
		Min:   sorted[0],
		P25:   Quantile(0.25, sorted),
		P50:   Quantile(0.50, sorted),
		P75:   Quantile(0.75, sorted),
		Max:   sorted[len(sorted)-1],
	}
	if len(vals) < 2 {
		s.Mean = vals[0]
		s.Std = math.NaN()
		return s
	}
	s.Mean, s.Std = stat.MeanStdDev(vals, nil)
	return s
}
