package processor

import (
	"math"
	"slices"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
)

// Describe holds the descriptive statistics of a numeric column.
type Describe struct {
	Count int
	Mean  float64
	Std   float64 // sample standard deviation, NaN for fewer than two values
	Min   float64
	Q1    float64
	Q2    float64
	Q3    float64
	Max   float64
}

// DescribeValues computes count, mean, sample standard deviation, min,
// quartiles and max. It returns false for an empty slice.
func DescribeValues(values []float64) (Describe, bool) {
	if len(values) == 0 {
		return Describe{}, false
	}
	sorted := slices.Clone(values)
	slices.Sort(sorted)

	mean, std := stat.MeanStdDev(sorted, nil)
	if len(sorted) < 2 {
		std = math.NaN()
	}
	return Describe{
		Count: len(sorted),
		Mean:  mean,
		Std:   std,
		Min:   floats.Min(sorted),
		Q1:    Quantile(sorted, 0.25),
		Q2:    Quantile(sorted, 0.5),
		Q3:    Quantile(sorted, 0.75),
		Max:   floats.Max(sorted),
	}, true
}

// Quantile returns the p-quantile of sorted values using linear interpolation
// between closest ranks, position p*(n-1).
func Quantile(sorted []float64, p float64) float64 {
	n := len(sorted)
	if n == 0 {
		return math.NaN()
	}
	pos := p * float64(n-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return sorted[lo] + (sorted[hi]-sorted[lo])*frac
}
