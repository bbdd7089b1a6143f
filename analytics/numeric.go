package analytics

import (
	"math"
	"sort"
)

// Trend is the least-squares fit of a value series against its indices
type Trend struct {
	Slope     float64 `json:"slope"`
	Intercept float64 `json:"intercept"`
	R2        float64 `json:"r2"`
}

// Outlier is a value flagged by DetectOutliers, with its position in the
// original input
type Outlier struct {
	Index int     `json:"index"`
	Value float64 `json:"value"`
}

// Pearson returns the Pearson correlation coefficient of two equal-length
// series. Defined as 0 for fewer than two points, mismatched lengths, or
// any degenerate input that would otherwise yield NaN.
func Pearson(xs, ys []float64) float64 {
	n := len(xs)
	if n < 2 || n != len(ys) {
		return 0
	}

	var sumX, sumY float64
	for i := 0; i < n; i++ {
		sumX += xs[i]
		sumY += ys[i]
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX, varY float64
	for i := 0; i < n; i++ {
		dx := xs[i] - meanX
		dy := ys[i] - meanY
		cov += dx * dy
		varX += dx * dx
		varY += dy * dy
	}

	denom := math.Sqrt(varX * varY)
	if denom == 0 {
		return 0
	}

	r := cov / denom
	if math.IsNaN(r) {
		return 0
	}
	return r
}

// LinearTrend fits values against their indices (x = 0..n-1). R² is
// defined as 0 when the series has no variance.
func LinearTrend(values []float64) Trend {
	n := len(values)
	if n < 2 {
		return Trend{}
	}

	var sumX, sumY float64
	for i, v := range values {
		sumX += float64(i)
		sumY += v
	}
	meanX := sumX / float64(n)
	meanY := sumY / float64(n)

	var cov, varX float64
	for i, v := range values {
		dx := float64(i) - meanX
		cov += dx * (v - meanY)
		varX += dx * dx
	}

	slope := cov / varX // varX > 0 for n >= 2 with distinct indices
	intercept := meanY - slope*meanX

	var ssRes, ssTot float64
	for i, v := range values {
		fit := intercept + slope*float64(i)
		ssRes += (v - fit) * (v - fit)
		ssTot += (v - meanY) * (v - meanY)
	}

	trend := Trend{Slope: slope, Intercept: intercept}
	if ssTot > 0 {
		trend.R2 = 1 - ssRes/ssTot
	}
	return trend
}

// DetectOutliers flags values outside [Q1 − 1.5·IQR, Q3 + 1.5·IQR].
// Quartiles use the floor-index method over the sorted series.
func DetectOutliers(values []float64) []Outlier {
	n := len(values)
	if n == 0 {
		return nil
	}

	sorted := make([]float64, n)
	copy(sorted, values)
	sort.Float64s(sorted)

	q1 := sorted[n/4]
	q3 := sorted[(3*n)/4]
	iqr := q3 - q1
	lower := q1 - 1.5*iqr
	upper := q3 + 1.5*iqr

	var outliers []Outlier
	for i, v := range values {
		if v < lower || v > upper {
			outliers = append(outliers, Outlier{Index: i, Value: v})
		}
	}
	return outliers
}
