package trend

import "math"

// UndefinedBin is the label assigned to undefined (NaN) p-values
const UndefinedBin = "NA"

// Significance bins use half-open intervals (lo, hi]: a p-value lands in
// the first bin whose upper boundary it does not exceed, so exactly 0.05
// belongs to "0.01 - 0.05".
var (
	binUpper = []float64{0.0001, 0.001, 0.01, 0.05, 0.1, math.Inf(1)}

	binLabels = []string{
		"< 0.0001",
		"0.0001 - 0.001",
		"0.001 - 0.01",
		"0.01 - 0.05",
		"0.05 - 0.1",
		"> 0.1",
	}
)

// BinLabels returns the six ordered significance bin labels
func BinLabels() []string {
	out := make([]string, len(binLabels))
	copy(out, binLabels)
	return out
}

// BinLabel classifies a p-value into one of the six significance bins.
// NaN maps to UndefinedBin rather than being dropped.
func BinLabel(p float64) string {
	if math.IsNaN(p) {
		return UndefinedBin
	}
	for i, upper := range binUpper {
		if p <= upper {
			return binLabels[i]
		}
	}
	return binLabels[len(binLabels)-1]
}
