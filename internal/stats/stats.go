// Package stats holds the pure numeric kernel behind the insight engine.
// Every function is stateless and deterministic; callers decide what the
// numbers mean.
package stats

import (
	"math"

	"github.com/lifelens/lifelens-insights/internal/models"
)

// minTrendPoints is the shortest series a trend can be read from.
const minTrendPoints = 2

// stabilityThresholdPercent is the band within which a change counts as
// stable regardless of sign.
const stabilityThresholdPercent = 5.0

// anomalyStdDevs is the z-score cutoff for outlier detection.
const anomalyStdDevs = 2.0

// minAnomalyPoints guards against calling outliers on tiny samples.
const minAnomalyPoints = 5

// minCorrelationPoints is the shortest overlap Pearson runs on.
const minCorrelationPoints = 3

// Correlation returns the Pearson coefficient over the first
// min(len(a), len(b)) elements of each series. It returns 0 when fewer
// than three points overlap or either series has zero variance.
//
// Alignment is purely positional, not timestamp-based, so series with
// different missing-value patterns correlate approximately.
func Correlation(a, b []float64) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}
	if n < minCorrelationPoints {
		return 0
	}

	var sumA, sumB float64
	for i := 0; i < n; i++ {
		sumA += a[i]
		sumB += b[i]
	}
	meanA := sumA / float64(n)
	meanB := sumB / float64(n)

	var cov, varA, varB float64
	for i := 0; i < n; i++ {
		da := a[i] - meanA
		db := b[i] - meanB
		cov += da * db
		varA += da * da
		varB += db * db
	}
	if varA == 0 || varB == 0 {
		return 0
	}
	return cov / math.Sqrt(varA*varB)
}

// Trend splits the sequence at its midpoint and expresses the percentage
// change from the first half's mean to the second half's. Changes under
// the stability band are reported as stable with the raw percentage.
func Trend(values []float64) (models.TrendDirection, float64) {
	if len(values) < minTrendPoints {
		return models.TrendStable, 0
	}

	mid := len(values) / 2
	firstMean := mean(values[:mid])
	secondMean := mean(values[mid:])
	if firstMean == 0 {
		return models.TrendStable, 0
	}

	change := (secondMean - firstMean) / firstMean * 100
	change = math.Round(change*10) / 10

	if math.Abs(change) < stabilityThresholdPercent {
		return models.TrendStable, change
	}
	if change > 0 {
		return models.TrendUp, change
	}
	return models.TrendDown, change
}

// Anomalies returns the indices of values at least two standard
// deviations from the sample mean. Sequences shorter than five points
// yield no anomalies.
func Anomalies(values []float64) []int {
	if len(values) < minAnomalyPoints {
		return nil
	}

	m := mean(values)
	sd := stdDev(values, m)
	if sd == 0 {
		return nil
	}

	var indices []int
	for i, v := range values {
		if math.Abs(v-m) >= anomalyStdDevs*sd {
			indices = append(indices, i)
		}
	}
	return indices
}

func mean(values []float64) float64 {
	if len(values) == 0 {
		return 0
	}
	total := 0.0
	for _, v := range values {
		total += v
	}
	return total / float64(len(values))
}

func stdDev(values []float64, mean float64) float64 {
	if len(values) == 0 {
		return 0
	}
	sum := 0.0
	for _, v := range values {
		diff := v - mean
		sum += diff * diff
	}
	return math.Sqrt(sum / float64(len(values)))
}

// Round2 rounds to two decimal places; used when publishing correlation
// coefficients.
func Round2(v float64) float64 {
	return math.Round(v*100) / 100
}
