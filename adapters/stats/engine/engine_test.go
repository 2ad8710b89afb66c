package engine

import (
	"context"
	"math"
	"testing"

	"gridtrend/domain/grid"
	"gridtrend/internal/errors"
	"gridtrend/internal/testkit"
)

func TestTrendEngine_MixedGrid(t *testing.T) {
	axis := testkit.MonthlyAxis(5)
	g := testkit.NewGrid(5, 3, 3)

	// Rising cell, a nearly-empty cell, a constant cell; the rest stay
	// all-missing like an ocean mask.
	testkit.SetSeries(g, 0, 0, testkit.LinearSeries(5, 10.0, 0.2))
	testkit.SetSeries(g, 1, 1, []float64{math.NaN(), math.NaN(), 10.0, math.NaN(), math.NaN()})
	testkit.SetSeries(g, 2, 2, testkit.ConstantSeries(5, 4.0))

	eng := NewTrendEngine(4)
	res, err := eng.Run(context.Background(), g, axis)
	if err != nil {
		t.Fatalf("unexpected engine error: %v", err)
	}

	if math.IsNaN(res.Slopes.At(0, 0)) {
		t.Error("rising cell should have a defined slope")
	}
	if res.Slopes.At(0, 0) <= 0 {
		t.Errorf("rising cell slope should be positive, got %v", res.Slopes.At(0, 0))
	}
	if !math.IsNaN(res.Slopes.At(1, 1)) || !math.IsNaN(res.PValues.At(1, 1)) {
		t.Error("cell with a single valid observation must be undefined")
	}
	if !math.IsNaN(res.Slopes.At(0, 1)) {
		t.Error("all-missing cell must be undefined")
	}
	if res.Fitted == 0 {
		t.Error("expected at least one fitted cell")
	}
	if res.Fitted+res.Skipped != 9 {
		t.Errorf("expected 9 cells accounted for, got %d fitted + %d skipped", res.Fitted, res.Skipped)
	}
}

func TestTrendEngine_AxisMismatchIsFatal(t *testing.T) {
	axis := testkit.MonthlyAxis(4)
	g := testkit.NewGrid(5, 2, 2)

	eng := NewTrendEngine(2)
	_, err := eng.Run(context.Background(), g, axis)
	if err == nil {
		t.Fatal("expected a structural error for grid/axis mismatch")
	}
	if code := errors.GetCode(err); code != errors.CodeMalformedInput {
		t.Errorf("expected code %s, got %s", errors.CodeMalformedInput, code)
	}
}

func TestTrendEngine_NonMonotonicAxisIsFatal(t *testing.T) {
	axis := grid.NewTimeAxis([]int64{100, 200, 150, 300, 400})
	g := testkit.NewGrid(5, 2, 2)

	eng := NewTrendEngine(2)
	_, err := eng.Run(context.Background(), g, axis)
	if err == nil {
		t.Fatal("expected a structural error for non-monotonic axis")
	}
	if code := errors.GetCode(err); code != errors.CodeMalformedInput {
		t.Errorf("expected code %s, got %s", errors.CodeMalformedInput, code)
	}
}

func TestTrendEngine_CapacityOne(t *testing.T) {
	axis := testkit.MonthlyAxis(6)
	g := testkit.NewGrid(6, 2, 2)
	for y := 0; y < 2; y++ {
		for x := 0; x < 2; x++ {
			testkit.SetSeries(g, y, x, testkit.LinearSeries(6, 5.0, 0.1*float64(y+x+1)))
		}
	}

	eng := NewTrendEngine(1)
	res, err := eng.Run(context.Background(), g, axis)
	if err != nil {
		t.Fatalf("unexpected engine error: %v", err)
	}
	if res.Fitted != 4 {
		t.Errorf("expected all 4 cells fitted, got %d", res.Fitted)
	}
}
