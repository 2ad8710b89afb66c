package trend

import (
	"math"
	"testing"
)

func TestBinLabel_Boundaries(t *testing.T) {
	cases := []struct {
		p    float64
		want string
	}{
		{1e-6, "< 0.0001"},
		{0.0001, "< 0.0001"}, // upper boundary belongs to the lower bin
		{0.0005, "0.0001 - 0.001"},
		{0.001, "0.0001 - 0.001"},
		{0.005, "0.001 - 0.01"},
		{0.01, "0.001 - 0.01"},
		{0.02, "0.01 - 0.05"},
		{0.05, "0.01 - 0.05"}, // exactly 0.05 is not "0.05 - 0.1"
		{0.07, "0.05 - 0.1"},
		{0.1, "0.05 - 0.1"},
		{0.2, "> 0.1"},
		{1.0, "> 0.1"},
	}

	for _, tc := range cases {
		if got := BinLabel(tc.p); got != tc.want {
			t.Errorf("BinLabel(%v) = %q, want %q", tc.p, got, tc.want)
		}
	}
}

func TestBinLabel_UndefinedIsNotDropped(t *testing.T) {
	if got := BinLabel(math.NaN()); got != UndefinedBin {
		t.Errorf("NaN p-value should map to %q, got %q", UndefinedBin, got)
	}
}

func TestBinLabel_CoversExactlyOneBin(t *testing.T) {
	labels := BinLabels()
	if len(labels) != 6 {
		t.Fatalf("expected 6 bin labels, got %d", len(labels))
	}
	seen := make(map[string]bool)
	for _, p := range []float64{1e-9, 1e-4, 5e-4, 5e-3, 0.03, 0.08, 0.5} {
		label := BinLabel(p)
		seen[label] = true
		found := false
		for _, l := range labels {
			if l == label {
				found = true
			}
		}
		if !found {
			t.Errorf("BinLabel(%v) = %q is not one of the six documented labels", p, label)
		}
	}
	if len(seen) != 6 {
		t.Errorf("sample p-values should exercise all 6 bins, hit %d", len(seen))
	}
}

func TestSecondsPerDecade_Exact(t *testing.T) {
	if SecondsPerDecade != 315576000 {
		t.Errorf("SecondsPerDecade must be exactly 365.25*10*86400 = 315576000, got %v", float64(SecondsPerDecade))
	}
}

func TestLayer_ScalePreservesUndefined(t *testing.T) {
	l := NewLayer(2, 2)
	l.Set(0, 0, 2e-9)
	l.Set(1, 1, -1e-9)

	scaled := l.Scale(SecondsPerDecade)
	if got, want := scaled.At(0, 0), 2e-9*315576000.0; got != want {
		t.Errorf("scaled value = %v, want exactly %v", got, want)
	}
	if got, want := scaled.At(1, 1), -1e-9*315576000.0; got != want {
		t.Errorf("scaled value = %v, want exactly %v", got, want)
	}
	if !math.IsNaN(scaled.At(0, 1)) {
		t.Error("undefined cells must stay undefined after scaling")
	}
	if !math.IsNaN(l.At(0, 1)) || l.At(0, 0) != 2e-9 {
		t.Error("scaling must not mutate the source layer")
	}
}
