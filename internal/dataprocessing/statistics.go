package dataprocessing

import (
	"errors"
	"math"
	"sort"

	"esccli/pkg/contracts/domain"
)

// errEmptySample is returned by the reducers; callers attach the band and metric
var errEmptySample = errors.New("empty sample")

// Summarize returns min, max, mean, median and population standard deviation
// of sample. Mean and standard deviation are rounded to two decimals; the
// deviation is taken from the rounded mean. sample is not modified.
func Summarize(sample []float64) (domain.StatSummary, error) {
	if len(sample) == 0 {
		return domain.StatSummary{}, errEmptySample
	}
	mean := roundTo(sum(sample)/float64(len(sample)), 2)
	return domain.StatSummary{
		Min:    minOf(sample),
		Max:    maxOf(sample),
		Mean:   mean,
		Median: medianOf(sample),
		StdDev: roundTo(populationStdDev(sample, mean), 2),
	}, nil
}

// TruncatedMean is the integer mean of values with the remainder discarded
func TruncatedMean(values []int) (int, error) {
	if len(values) == 0 {
		return 0, errEmptySample
	}
	total := 0
	for _, v := range values {
		total += v
	}
	return total / len(values), nil
}

func sum(values []float64) float64 {
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total
}

func minOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func maxOf(values []float64) float64 {
	m := values[0]
	for _, v := range values[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// medianOf sorts a private copy
func medianOf(values []float64) float64 {
	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	n := len(sorted)
	if n%2 == 0 {
		return (sorted[n/2-1] + sorted[n/2]) / 2
	}
	return sorted[n/2]
}

// populationStdDev divides by n, not n-1
func populationStdDev(values []float64, mean float64) float64 {
	total := 0.0
	for _, v := range values {
		d := v - mean
		total += d * d
	}
	return math.Sqrt(total / float64(len(values)))
}

// roundTo rounds half up (toward positive infinity) at the given decimal place
func roundTo(v float64, places int) float64 {
	factor := math.Pow(10, float64(places))
	return math.Floor(v*factor+0.5) / factor
}
