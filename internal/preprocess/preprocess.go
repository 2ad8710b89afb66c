// Package preprocess performs the elementwise cleaning pass over the raw
// observation grid: missing-sentinel masking and Kelvin-to-Celsius
// conversion. Both transforms produce new grids and leave the source
// untouched; the masked-Kelvin and masked-Celsius grids are each retained
// for downstream archival.
package preprocess

import (
	"math"

	mstats "github.com/montanaflynn/stats"

	"gridtrend/domain/grid"
)

// KelvinOffset converts Kelvin readings to Celsius
const KelvinOffset = 273.15

// Mask replaces every raw value at or below threshold with the missing
// marker. The threshold sits below the source's exact missing sentinel to
// guard against floating-point roundoff around it.
func Mask(g *grid.Grid, threshold float64) *grid.Grid {
	out := g.Clone()
	for i, v := range out.Data {
		if !math.IsNaN(v) && v <= threshold {
			out.Data[i] = math.NaN()
		}
	}
	return out
}

// ToCelsius converts every defined value from Kelvin to Celsius, rounded
// to 2 decimal places. The rounding is a convention of the source data,
// not a floating-point concern.
func ToCelsius(g *grid.Grid) *grid.Grid {
	out := g.Clone()
	for i, v := range out.Data {
		if !math.IsNaN(v) {
			out.Data[i] = round2(v - KelvinOffset)
		}
	}
	return out
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// Profile summarizes the defined values of a grid for run-level QC logging
type Profile struct {
	ValidCount  int
	MissingRate float64
	Mean        float64
	StdDev      float64
	Min         float64
	Max         float64
	Median      float64
}

// Summarize computes the QC profile over all defined cells of the grid
func Summarize(g *grid.Grid) (Profile, error) {
	valid := make([]float64, 0, len(g.Data))
	for _, v := range g.Data {
		if !math.IsNaN(v) {
			valid = append(valid, v)
		}
	}

	p := Profile{
		ValidCount:  len(valid),
		MissingRate: 1 - float64(len(valid))/float64(len(g.Data)),
	}
	if len(valid) == 0 {
		return p, nil
	}

	var err error
	if p.Mean, err = mstats.Mean(valid); err != nil {
		return p, err
	}
	if p.StdDev, err = mstats.StandardDeviation(valid); err != nil {
		return p, err
	}
	if p.Min, err = mstats.Min(valid); err != nil {
		return p, err
	}
	if p.Max, err = mstats.Max(valid); err != nil {
		return p, err
	}
	if p.Median, err = mstats.Median(valid); err != nil {
		return p, err
	}
	return p, nil
}
