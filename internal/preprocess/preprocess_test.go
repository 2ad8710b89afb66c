package preprocess

import (
	"math"
	"testing"

	"gridtrend/internal/testkit"
)

func TestMask_ThresholdBoundary(t *testing.T) {
	g := testkit.NewGrid(5, 1, 1)
	testkit.SetSeries(g, 0, 0, []float64{280.0, -54.0, -53.9, -99.0, 290.5})

	masked := Mask(g, -54.0)

	if !math.IsNaN(masked.At(1, 0, 0)) {
		t.Error("value at the threshold boundary must become missing")
	}
	if !math.IsNaN(masked.At(3, 0, 0)) {
		t.Error("sentinel value below the threshold must become missing")
	}
	if masked.At(2, 0, 0) != -53.9 {
		t.Errorf("-53.9 is an extreme but valid value, got %v", masked.At(2, 0, 0))
	}
	if masked.At(0, 0, 0) != 280.0 || masked.At(4, 0, 0) != 290.5 {
		t.Error("values above the threshold must be unchanged")
	}

	// Source grid must be untouched
	if g.At(1, 0, 0) != -54.0 || g.At(3, 0, 0) != -99.0 {
		t.Error("masking must not mutate the source grid")
	}
}

func TestToCelsius_RoundsToTwoDecimals(t *testing.T) {
	g := testkit.NewGrid(4, 1, 1)
	testkit.SetSeries(g, 0, 0, []float64{283.456, 273.15, 300.004, math.NaN()})

	celsius := ToCelsius(g)

	cases := []struct {
		idx  int
		want float64
	}{
		{0, 10.31},
		{1, 0.0},
		{2, 26.85},
	}
	for _, tc := range cases {
		if got := celsius.At(tc.idx, 0, 0); got != tc.want {
			t.Errorf("celsius[%d] = %v, want %v", tc.idx, got, tc.want)
		}
	}
	if !math.IsNaN(celsius.At(3, 0, 0)) {
		t.Error("missing values must stay missing through conversion")
	}
}

func TestMaskThenConvert_RoundTripLaw(t *testing.T) {
	kelvins := []float64{271.35, 285.0, 301.27, -54.0, -52.0}
	g := testkit.NewGrid(len(kelvins), 1, 1)
	testkit.SetSeries(g, 0, 0, kelvins)

	celsius := ToCelsius(Mask(g, -54.0))

	for i, k := range kelvins {
		got := celsius.At(i, 0, 0)
		if k <= -54.0 {
			if !math.IsNaN(got) {
				t.Errorf("kelvin %v at or below threshold should be missing, got %v", k, got)
			}
			continue
		}
		want := math.Round((k-KelvinOffset)*100) / 100
		if got != want {
			t.Errorf("celsius for kelvin %v = %v, want %v", k, got, want)
		}
	}
}

func TestSummarize(t *testing.T) {
	g := testkit.NewGrid(4, 1, 2)
	testkit.SetSeries(g, 0, 0, []float64{1, 2, 3, 4})
	// cell (0,1) stays all missing

	p, err := Summarize(g)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if p.ValidCount != 4 {
		t.Errorf("valid count = %d, want 4", p.ValidCount)
	}
	if p.MissingRate != 0.5 {
		t.Errorf("missing rate = %v, want 0.5", p.MissingRate)
	}
	if p.Mean != 2.5 || p.Min != 1 || p.Max != 4 || p.Median != 2.5 {
		t.Errorf("unexpected summary: %+v", p)
	}
}

func TestSummarize_AllMissing(t *testing.T) {
	g := testkit.NewGrid(3, 2, 2)
	p, err := Summarize(g)
	if err != nil {
		t.Fatalf("all-missing grid should summarize without error: %v", err)
	}
	if p.ValidCount != 0 || p.MissingRate != 1 {
		t.Errorf("unexpected summary for all-missing grid: %+v", p)
	}
}
