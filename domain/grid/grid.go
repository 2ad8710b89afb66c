// Package grid holds the gridded observation model: a 3D raster of
// temperature readings (time x row x col) plus its shared time axis.
// Missing observations are represented as NaN throughout.
package grid

import (
	"fmt"
	"math"
)

// Grid is a 3-dimensional observation array indexed by (time, row, col).
// Data is stored time-major: Data[t*NY*NX + y*NX + x]. All time steps share
// identical spatial dimensions. Lats has NY entries, Lons has NX entries.
type Grid struct {
	NT   int
	NY   int
	NX   int
	Lats []float64
	Lons []float64
	Data []float64
}

// New allocates a grid of the given shape with every cell set to NaN
func New(nt, ny, nx int, lats, lons []float64) *Grid {
	data := make([]float64, nt*ny*nx)
	for i := range data {
		data[i] = math.NaN()
	}
	return &Grid{NT: nt, NY: ny, NX: nx, Lats: lats, Lons: lons, Data: data}
}

// At returns the observation at (time, row, col)
func (g *Grid) At(t, y, x int) float64 {
	return g.Data[t*g.NY*g.NX+y*g.NX+x]
}

// SetAt stores an observation at (time, row, col)
func (g *Grid) SetAt(t, y, x int, v float64) {
	g.Data[t*g.NY*g.NX+y*g.NX+x] = v
}

// Series extracts the per-pixel time series at (row, col). The returned
// slice is a fresh copy of length NT; missing observations stay NaN.
func (g *Grid) Series(y, x int) []float64 {
	s := make([]float64, g.NT)
	for t := 0; t < g.NT; t++ {
		s[t] = g.At(t, y, x)
	}
	return s
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	out := &Grid{NT: g.NT, NY: g.NY, NX: g.NX}
	out.Lats = append([]float64(nil), g.Lats...)
	out.Lons = append([]float64(nil), g.Lons...)
	out.Data = append([]float64(nil), g.Data...)
	return out
}

// Validate checks the grid's structural invariants: positive dimensions,
// data length matching NT*NY*NX, coordinate vectors matching the spatial
// shape, and longitudes normalized to [-180, 180].
func (g *Grid) Validate() error {
	if g.NT <= 0 || g.NY <= 0 || g.NX <= 0 {
		return fmt.Errorf("grid dimensions must be positive, got (%d, %d, %d)", g.NT, g.NY, g.NX)
	}
	if len(g.Data) != g.NT*g.NY*g.NX {
		return fmt.Errorf("grid data length %d does not match dimensions %dx%dx%d", len(g.Data), g.NT, g.NY, g.NX)
	}
	if len(g.Lats) != g.NY {
		return fmt.Errorf("latitude vector length %d does not match row count %d", len(g.Lats), g.NY)
	}
	if len(g.Lons) != g.NX {
		return fmt.Errorf("longitude vector length %d does not match column count %d", len(g.Lons), g.NX)
	}
	for _, lon := range g.Lons {
		if lon < -180 || lon > 180 {
			return fmt.Errorf("longitude %v outside normalized range [-180, 180]", lon)
		}
	}
	return nil
}

// ValidateAgainst checks that the grid's time dimension matches the axis
func (g *Grid) ValidateAgainst(axis *TimeAxis) error {
	if g.NT != axis.Len() {
		return fmt.Errorf("grid has %d time steps but time axis has %d", g.NT, axis.Len())
	}
	return nil
}
