package analytics

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDescribeScenario(t *testing.T) {
	scores := []float64{40, 55, 70, 70, 100}

	stats := Describe("4E", scores)

	assert.Equal(t, 5, stats.Count)
	assert.InDelta(t, 67.0, stats.Mean, 1e-9)
	assert.InDelta(t, 70.0, stats.Median, 1e-9)
	assert.InDelta(t, 70.0, stats.Mode, 1e-9)
	assert.InDelta(t, 19.8997, stats.StdDev, 1e-4)
	assert.InDelta(t, 80.0, PassRate(scores, 50), 1e-9)
}

func TestMedianEvenLength(t *testing.T) {
	assert.InDelta(t, 62.5, Median([]float64{55, 70, 40, 100}), 1e-9)
}

func TestMedianDoesNotMutateInput(t *testing.T) {
	scores := []float64{90, 10, 50}
	Median(scores)
	assert.Equal(t, []float64{90, 10, 50}, scores)
}

func TestModeTieKeepsFirstEncountered(t *testing.T) {
	assert.Equal(t, 80.0, Mode([]float64{80, 60, 60, 80}))
	assert.Equal(t, 60.0, Mode([]float64{60, 80, 80, 60}))
}

func TestEmptyInputYieldsZeroValues(t *testing.T) {
	stats := Describe("", nil)

	assert.Equal(t, 0, stats.Count)
	assert.Zero(t, stats.Mean)
	assert.Zero(t, stats.Median)
	assert.Zero(t, stats.Mode)
	assert.Zero(t, stats.StdDev)
	assert.Zero(t, PassRate(nil, 50))
	assert.False(t, stats.Mean != stats.Mean, "mean must never be NaN")
}

func TestPassRateBoundaryIncludesPassMark(t *testing.T) {
	assert.InDelta(t, 50.0, PassRate([]float64{50, 49}, 50), 1e-9)
}
