// Package testkit builds synthetic observation grids with known trends
// for exercising the regression pipeline in tests.
package testkit

import (
	"math/rand"
	"time"

	"gridtrend/domain/grid"
)

// StepSeconds is the synthetic sampling interval (30 days)
const StepSeconds int64 = 30 * 86400

// MonthlyAxis returns a strictly increasing axis of n 30-day steps
// starting 2000-01-01 UTC.
func MonthlyAxis(n int) *grid.TimeAxis {
	start := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC).Unix()
	epochs := make([]int64, n)
	for i := range epochs {
		epochs[i] = start + int64(i)*StepSeconds
	}
	return grid.NewTimeAxis(epochs)
}

// NewGrid allocates an all-missing grid with evenly spaced coordinates
// inside a small Atlantic box.
func NewGrid(nt, ny, nx int) *grid.Grid {
	lats := make([]float64, ny)
	for i := range lats {
		lats[i] = 40.0 + float64(i)*0.25
	}
	lons := make([]float64, nx)
	for i := range lons {
		lons[i] = -30.0 + float64(i)*0.25
	}
	return grid.New(nt, ny, nx, lats, lons)
}

// SetSeries writes a full per-pixel series into the grid at (row, col)
func SetSeries(g *grid.Grid, y, x int, series []float64) {
	for t, v := range series {
		g.SetAt(t, y, x, v)
	}
}

// LinearSeries returns start, start+step, ... of length n
func LinearSeries(n int, start, step float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = start + float64(i)*step
	}
	return out
}

// ConstantSeries returns n copies of v
func ConstantSeries(n int, v float64) []float64 {
	out := make([]float64, n)
	for i := range out {
		out[i] = v
	}
	return out
}

// TrendWithAR1Noise returns a + b*t with additive AR(1) noise of the given
// correlation and innovation standard deviation, evaluated on the axis.
func TrendWithAR1Noise(rng *rand.Rand, axis *grid.TimeAxis, intercept, slopePerSecond, rho, sd float64) []float64 {
	seconds := axis.Seconds()
	out := make([]float64, len(seconds))
	noise := 0.0
	for i, t := range seconds {
		noise = rho*noise + rng.NormFloat64()*sd
		out[i] = intercept + slopePerSecond*t + noise
	}
	return out
}
