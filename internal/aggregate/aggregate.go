// Package aggregate assembles per-cell regression scalars into the
// externally consumed tabular artifacts: a slope table rescaled to degrees
// per decade and a p-value table with significance bins.
package aggregate

import (
	"math"

	"gridtrend/domain/grid"
	"gridtrend/domain/trend"
)

// SlopeTable rescales a per-second slope layer to degrees Celsius per
// decade and flattens it to long format (sst, x, y).
func SlopeTable(slopes *trend.Layer, g *grid.Grid) *trend.Table {
	decadal := slopes.Scale(trend.SecondsPerDecade)
	return flatten(decadal, g, "sst", false)
}

// PValueTable flattens a p-value layer to long format (pval, x, y, bins),
// classifying every p-value into one of the six significance bins.
// Undefined p-values carry the undefined bin label rather than being
// dropped.
func PValueTable(pvalues *trend.Layer, g *grid.Grid) *trend.Table {
	return flatten(pvalues, g, "pval", true)
}

// flatten emits one row per cell with a defined spatial coordinate. Cells
// whose coordinate is itself undefined (outside the valid raster mask) are
// dropped; undefined values at defined coordinates are kept as NaN rows.
func flatten(layer *trend.Layer, g *grid.Grid, valueColumn string, binned bool) *trend.Table {
	table := &trend.Table{
		ValueColumn: valueColumn,
		Binned:      binned,
		Rows:        make([]trend.Row, 0, layer.NY*layer.NX),
	}
	for y := 0; y < layer.NY; y++ {
		for x := 0; x < layer.NX; x++ {
			lon := g.Lons[x]
			lat := g.Lats[y]
			if math.IsNaN(lon) || math.IsNaN(lat) {
				continue
			}
			row := trend.Row{
				Value: layer.At(y, x),
				X:     lon,
				Y:     lat,
			}
			if binned {
				row.Bin = trend.BinLabel(row.Value)
			}
			table.Rows = append(table.Rows, row)
		}
	}
	return table
}
