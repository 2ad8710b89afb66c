// Package engine applies the AR(1)-GLS fit independently to every spatial
// cell of a grid and assembles the per-cell scalars into result layers.
package engine

import (
	"context"
	"math"
	"sync"

	"golang.org/x/sync/semaphore"

	"gridtrend/adapters/stats/gls"
	"gridtrend/domain/grid"
	"gridtrend/domain/trend"
	"gridtrend/internal/errors"
)

// TrendEngine runs per-cell regressions with bounded parallelism. Cells
// are independent, so each goroutine writes only its own (row, col) slot
// of the pre-sized output layers and no locking is needed.
type TrendEngine struct {
	sem      *semaphore.Weighted
	capacity int
}

// Result holds the two output layers plus run counters
type Result struct {
	Slopes  *trend.Layer // value units per second
	PValues *trend.Layer
	Fitted  int // cells with a defined result
	Skipped int // cells undefined from insufficient data or singular fits
}

// NewTrendEngine creates an engine bounded to capacity concurrent fits
func NewTrendEngine(capacity int) *TrendEngine {
	if capacity < 1 {
		capacity = 1
	}
	return &TrendEngine{
		sem:      semaphore.NewWeighted(int64(capacity)),
		capacity: capacity,
	}
}

// Run fits every cell of the grid against the time axis. Structural
// mismatches between grid and axis abort before any cell is fit; per-cell
// failures become NaN in both layers and never abort the run. Run returns
// only after every cell has completed.
func (e *TrendEngine) Run(ctx context.Context, g *grid.Grid, axis *grid.TimeAxis) (*Result, error) {
	if err := g.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeMalformedInput, err)
	}
	if err := axis.Validate(); err != nil {
		return nil, errors.WithCode(errors.CodeMalformedInput, err)
	}
	if err := g.ValidateAgainst(axis); err != nil {
		return nil, errors.WithCode(errors.CodeMalformedInput, err)
	}

	res := &Result{
		Slopes:  trend.NewLayer(g.NY, g.NX),
		PValues: trend.NewLayer(g.NY, g.NX),
	}
	seconds := axis.Seconds()

	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		fitted  int
		skipped int
	)

	for y := 0; y < g.NY; y++ {
		for x := 0; x < g.NX; x++ {
			if err := e.sem.Acquire(ctx, 1); err != nil {
				wg.Wait()
				return nil, errors.Wrap(err, "regression phase interrupted")
			}
			wg.Add(1)
			go func(y, x int) {
				defer wg.Done()
				defer e.sem.Release(1)

				cell := e.fitCell(seconds, g.Series(y, x))
				res.Slopes.Set(y, x, cell.Slope)
				res.PValues.Set(y, x, cell.PValue)

				mu.Lock()
				if math.IsNaN(cell.Slope) {
					skipped++
				} else {
					fitted++
				}
				mu.Unlock()
			}(y, x)
		}
	}
	wg.Wait()

	res.Fitted = fitted
	res.Skipped = skipped
	return res, nil
}

// fitCell converts per-cell fit failures into the undefined marker.
// Insufficient data and singular fits are expected over ocean masks and
// land cells and stay silent at the run level.
func (e *TrendEngine) fitCell(seconds, series []float64) trend.CellResult {
	fit, err := gls.FitAR1(seconds, series)
	if err != nil {
		return trend.Undefined()
	}
	return trend.CellResult{Slope: fit.Slope, PValue: fit.PValue}
}
