// Package stats provides the stateless numeric primitives the analysis
// engine is built on: central tendency, dispersion, least-squares trend
// fitting and recency-weighted averaging.
//
// All functions are pure. Errors are reserved for contract violations
// (empty input where a value is required, mismatched argument lengths);
// callers that can observe "not enough data" as a valid state guard
// before calling.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"

	"github.com/insightdash/insight"
)

// Mean returns the arithmetic mean of values.
//
// Returns EEMPTYINPUT on an empty sequence.
func Mean(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, insight.Errorf(insight.EEMPTYINPUT, "mean of empty sequence")
	}
	return stat.Mean(values, nil), nil
}

// Median returns the median of values, interpolating between the two
// middle values for even lengths.
//
// Returns EEMPTYINPUT on an empty sequence.
func Median(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, insight.Errorf(insight.EEMPTYINPUT, "median of empty sequence")
	}

	sorted := make([]float64, len(values))
	copy(sorted, values)
	sort.Float64s(sorted)

	mid := len(sorted) / 2
	if len(sorted)%2 == 1 {
		return sorted[mid], nil
	}
	return (sorted[mid-1] + sorted[mid]) / 2, nil
}

// StdDev returns the sample standard deviation of values (ddof=1). A
// single value has no dispersion and yields 0 rather than dividing by
// zero.
//
// Returns EEMPTYINPUT on an empty sequence.
func StdDev(values []float64) (float64, error) {
	if len(values) == 0 {
		return 0, insight.Errorf(insight.EEMPTYINPUT, "stddev of empty sequence")
	}
	if len(values) == 1 {
		return 0, nil
	}
	return stat.StdDev(values, nil), nil
}

// LinearTrend fits a least-squares line over the (x, y) pairs and returns
// its slope and intercept. No iterative training is involved, this is the
// closed-form fit.
//
// Returns ELENGTHMISMATCH if xs and ys differ in length and
// EINSUFFICIENTDATA for fewer than 2 points.
func LinearTrend(xs, ys []float64) (slope, intercept float64, err error) {
	if len(xs) != len(ys) {
		return 0, 0, insight.Errorf(insight.ELENGTHMISMATCH, "linear trend: %d x values against %d y values", len(xs), len(ys))
	}
	if len(xs) < 2 {
		return 0, 0, insight.Errorf(insight.EINSUFFICIENTDATA, "linear trend needs at least 2 points, got %d", len(xs))
	}

	intercept, slope = stat.LinearRegression(xs, ys, nil, false)
	return slope, intercept, nil
}

// IndexTrend fits a least-squares line over (index, value) pairs, the
// form the trend engine uses on chronologically ordered scores.
func IndexTrend(values []float64) (slope, intercept float64, err error) {
	xs := make([]float64, len(values))
	for i := range xs {
		xs[i] = float64(i)
	}
	return LinearTrend(xs, values)
}

// WeightedMovingAverage returns the weighted mean of values. Weights need
// not sum to 1, normalization happens internally, so uniformly rescaling
// the weight vector leaves the result unchanged.
//
// Returns ELENGTHMISMATCH if values and weights differ in length and
// EEMPTYINPUT on empty input.
func WeightedMovingAverage(values, weights []float64) (float64, error) {
	if len(values) != len(weights) {
		return 0, insight.Errorf(insight.ELENGTHMISMATCH, "weighted average: %d values against %d weights", len(values), len(weights))
	}
	if len(values) == 0 {
		return 0, insight.Errorf(insight.EEMPTYINPUT, "weighted average of empty sequence")
	}

	var wsum float64
	for _, w := range weights {
		wsum += w
	}
	if wsum == 0 {
		return 0, insight.Errorf(insight.EINVALID, "weighted average: weights sum to zero")
	}

	return stat.Mean(values, weights), nil
}

// RecencyWeights returns a linear ramp of n weights increasing toward the
// most recent value, normalized to sum 1. n=0 yields nil.
func RecencyWeights(n int) []float64 {
	if n <= 0 {
		return nil
	}

	weights := make([]float64, n)
	total := float64(n*(n+1)) / 2
	for i := range weights {
		weights[i] = float64(i+1) / total
	}
	return weights
}

// Clamp bounds v to [lo, hi].
func Clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
