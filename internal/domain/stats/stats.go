// Package stats provides the population-relative statistics used by the
// player summarization models.
package stats

import (
	"math"
	"sort"

	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/gonum/stat/distuv"
)

// Score mapping constants: the population median maps to 10 and one
// standard deviation of the latent normal spans 4 points.
const (
	scoreMu    = 10.0
	scoreSigma = 4.0
	scoreMin   = 0.0
	scoreMax   = 20.0

	// percentileEpsilon keeps percentiles away from exactly 0 or 1 so
	// the inverse CDF stays finite.
	percentileEpsilon = 1e-6

	// neutralPercentile is the fallback when a population is empty.
	neutralPercentile = 0.5
)

// standardNormal is the latent distribution behind the 0-20 scale.
var standardNormal = distuv.Normal{Mu: 0, Sigma: 1} //nolint:gochecknoglobals // immutable distribution parameters

// Percentile returns the fraction of population values strictly less
// than value. NaN population entries are ignored; an empty or all-NaN
// population yields the neutral 0.5.
func Percentile(value float64, population []float64) float64 {
	var valid, below int
	for _, v := range population {
		if math.IsNaN(v) {
			continue
		}
		valid++
		if v < value {
			below++
		}
	}

	if valid == 0 {
		return neutralPercentile
	}

	return float64(below) / float64(valid)
}

// ScoreOutOf20 converts a percentile to a 0-20 rating via the inverse
// normal CDF. The percentile is clamped away from 0 and 1 first and the
// result is clamped to the scale bounds.
func ScoreOutOf20(percentile float64) float64 {
	p := math.Min(math.Max(percentile, percentileEpsilon), 1-percentileEpsilon)
	z := standardNormal.Quantile(p)
	score := scoreMu + scoreSigma*z
	return math.Min(math.Max(score, scoreMin), scoreMax)
}

// QuantileRank returns the percentile rank of each value within the
// slice, with average ranks for ties, clipped to [0, 1]. NaN inputs
// produce NaN outputs and do not count toward the population size.
func QuantileRank(values []float64) []float64 {
	ranks := make([]float64, len(values))

	type indexed struct {
		value float64
		pos   int
	}

	valid := make([]indexed, 0, len(values))
	for i, v := range values {
		if math.IsNaN(v) {
			ranks[i] = math.NaN()
			continue
		}
		valid = append(valid, indexed{value: v, pos: i})
	}

	if len(valid) == 0 {
		return ranks
	}

	sort.Slice(valid, func(i, j int) bool { return valid[i].value < valid[j].value })

	n := float64(len(valid))
	for i := 0; i < len(valid); {
		j := i
		for j < len(valid) && valid[j].value == valid[i].value {
			j++
		}
		// Average rank across the tie group, 1-based.
		avgRank := float64(i+1+j) / 2.0
		pct := avgRank / n
		pct = math.Min(math.Max(pct, 0), 1)
		for k := i; k < j; k++ {
			ranks[valid[k].pos] = pct
		}
		i = j
	}

	return ranks
}

// Median returns the linear-interpolated median of the non-NaN values,
// or 0 when no valid values exist.
func Median(values []float64) float64 {
	valid := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}

	if len(valid) == 0 {
		return 0
	}

	sort.Float64s(valid)
	return stat.Quantile(0.5, stat.LinInterp, valid, nil)
}

// Mean returns the mean of the non-NaN values and whether any existed.
func Mean(values []float64) (float64, bool) {
	var sum float64
	var n int
	for _, v := range values {
		if math.IsNaN(v) {
			continue
		}
		sum += v
		n++
	}

	if n == 0 {
		return 0, false
	}

	return sum / float64(n), true
}

// Sigmoid maps a raw affinity to (0, 1).
func Sigmoid(x float64) float64 {
	return 1.0 / (1.0 + math.Exp(-x))
}

// BetaSmoothed returns the regularized win rate (wins+alpha)/(wins+losses+alpha+beta),
// pulling low-sample ratios toward alpha/(alpha+beta).
func BetaSmoothed(wins, losses, alpha, beta float64) float64 {
	return (wins + alpha) / (wins + losses + alpha + beta)
}
