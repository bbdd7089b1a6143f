package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPearson(t *testing.T) {
	assert.InDelta(t, 1.0, Pearson([]float64{1, 2, 3}, []float64{2, 4, 6}), 1e-9)
	assert.InDelta(t, -1.0, Pearson([]float64{1, 2, 3}, []float64{6, 4, 2}), 1e-9)
}

func TestPearsonDegenerateInputs(t *testing.T) {
	assert.Equal(t, 0.0, Pearson(nil, nil))
	assert.Equal(t, 0.0, Pearson([]float64{1}, []float64{2}))
	assert.Equal(t, 0.0, Pearson([]float64{1, 2}, []float64{1, 2, 3}), "mismatched lengths")
	assert.Equal(t, 0.0, Pearson([]float64{5, 5, 5}, []float64{1, 2, 3}), "zero variance")
}

func TestLinearTrend(t *testing.T) {
	trend := LinearTrend([]float64{1, 3, 5, 7})

	assert.InDelta(t, 2.0, trend.Slope, 1e-9)
	assert.InDelta(t, 1.0, trend.Intercept, 1e-9)
	assert.InDelta(t, 1.0, trend.R2, 1e-9)
}

func TestLinearTrendConstantSeries(t *testing.T) {
	trend := LinearTrend([]float64{4, 4, 4})

	assert.Equal(t, 0.0, trend.Slope)
	assert.Equal(t, 4.0, trend.Intercept)
	assert.Equal(t, 0.0, trend.R2, "no variance means R2 is defined as 0")
}

func TestLinearTrendTooFewPoints(t *testing.T) {
	assert.Equal(t, Trend{}, LinearTrend(nil))
	assert.Equal(t, Trend{}, LinearTrend([]float64{42}))
}

func TestDetectOutliers(t *testing.T) {
	outliers := DetectOutliers([]float64{1, 2, 3, 4, 100})

	require.Len(t, outliers, 1)
	assert.Equal(t, 4, outliers[0].Index)
	assert.Equal(t, 100.0, outliers[0].Value)
}

func TestDetectOutliersCleanSeries(t *testing.T) {
	assert.Empty(t, DetectOutliers([]float64{1, 2, 3, 4, 5}))
	assert.Empty(t, DetectOutliers(nil))
	assert.Empty(t, DetectOutliers([]float64{7}))
}
