// Package gridio persists grids and their time axis as a single
// gob-encoded file. The cleaned intermediate grids are written back in
// this same format with dimensions identical to the input.
package gridio

import (
	"encoding/gob"
	"os"

	"gridtrend/domain/grid"
	"gridtrend/internal/errors"
)

// Store reads and writes gob grid files
type Store struct{}

// NewStore creates a grid store
func NewStore() *Store {
	return &Store{}
}

// fileGrid is the on-disk envelope: grid payload plus its time axis
type fileGrid struct {
	NT, NY, NX int
	Lats       []float64
	Lons       []float64
	Epochs     []int64
	Data       []float64
}

// Load reads a grid file and validates its structure. Structural problems
// (shape mismatches, non-monotonic time axis) are fatal MALFORMED_INPUT
// errors since every downstream cell would be misaligned.
func (s *Store) Load(path string) (*grid.Grid, *grid.TimeAxis, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, errors.IOError("failed to open grid file", err)
	}
	defer f.Close()

	var fg fileGrid
	if err := gob.NewDecoder(f).Decode(&fg); err != nil {
		return nil, nil, errors.IOError("failed to decode grid file", err)
	}

	g := &grid.Grid{NT: fg.NT, NY: fg.NY, NX: fg.NX, Lats: fg.Lats, Lons: fg.Lons, Data: fg.Data}
	axis := grid.NewTimeAxis(fg.Epochs)

	if err := g.Validate(); err != nil {
		return nil, nil, errors.WithCode(errors.CodeMalformedInput, err)
	}
	if err := axis.Validate(); err != nil {
		return nil, nil, errors.WithCode(errors.CodeMalformedInput, err)
	}
	if err := g.ValidateAgainst(axis); err != nil {
		return nil, nil, errors.WithCode(errors.CodeMalformedInput, err)
	}
	return g, axis, nil
}

// Save writes a grid and its axis to path, overwriting any existing file
func (s *Store) Save(path string, g *grid.Grid, axis *grid.TimeAxis) error {
	f, err := os.Create(path)
	if err != nil {
		return errors.IOError("failed to create grid file", err)
	}
	defer f.Close()

	fg := fileGrid{
		NT: g.NT, NY: g.NY, NX: g.NX,
		Lats: g.Lats, Lons: g.Lons,
		Epochs: axis.Epochs,
		Data:   g.Data,
	}
	if err := gob.NewEncoder(f).Encode(&fg); err != nil {
		return errors.IOError("failed to encode grid file", err)
	}
	return nil
}
