// Package trend holds the derived per-pixel regression outputs: scalar
// result layers with the grid's spatial shape, and the long-format tables
// consumed downstream. NaN is the undefined marker for cells where the
// fit had insufficient data or was singular.
package trend

import "math"

// SecondsPerDecade converts a per-second slope to degrees per decade.
// 365.25 days x 10 years x 86400 seconds, exact by convention.
const SecondsPerDecade = 365.25 * 10 * 86400

// CellResult is the regression outcome for one spatial cell. Slope is in
// native units per second of elapsed time; PValue is dimensionless. Either
// field may be NaN when the cell's fit is undefined.
type CellResult struct {
	Slope  float64
	PValue float64
}

// Undefined returns a result with both fields set to the undefined marker
func Undefined() CellResult {
	return CellResult{Slope: math.NaN(), PValue: math.NaN()}
}

// Layer is a 2D array of per-cell scalars with the same spatial shape as
// the source grid. Read-only after construction.
type Layer struct {
	NY   int
	NX   int
	Vals []float64
}

// NewLayer allocates a layer with every cell set to NaN
func NewLayer(ny, nx int) *Layer {
	vals := make([]float64, ny*nx)
	for i := range vals {
		vals[i] = math.NaN()
	}
	return &Layer{NY: ny, NX: nx, Vals: vals}
}

// At returns the scalar at (row, col)
func (l *Layer) At(y, x int) float64 {
	return l.Vals[y*l.NX+x]
}

// Set stores a scalar at (row, col)
func (l *Layer) Set(y, x int, v float64) {
	l.Vals[y*l.NX+x] = v
}

// Scale returns a new layer with every defined cell multiplied by factor.
// NaN cells stay NaN.
func (l *Layer) Scale(factor float64) *Layer {
	out := NewLayer(l.NY, l.NX)
	for i, v := range l.Vals {
		if !math.IsNaN(v) {
			out.Vals[i] = v * factor
		}
	}
	return out
}

// Row is one record of a long-format table: a scalar value at a spatial
// coordinate, optionally tagged with a significance bin label.
type Row struct {
	Value float64
	X     float64
	Y     float64
	Bin   string
}

// Table is the externally consumed tabular artifact: one row per spatial
// cell with a defined coordinate.
type Table struct {
	ValueColumn string
	Binned      bool
	Rows        []Row
}
