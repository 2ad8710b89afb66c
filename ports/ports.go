// Package ports defines the interfaces between the pipeline and its
// storage and output adapters.
package ports

import (
	"context"

	"gridtrend/domain/grid"
	"gridtrend/domain/run"
	"gridtrend/domain/trend"
)

// GridStore loads and saves gridded datasets with their time axis
type GridStore interface {
	Load(path string) (*grid.Grid, *grid.TimeAxis, error)
	Save(path string, g *grid.Grid, axis *grid.TimeAxis) error
}

// TableWriter persists a long-format result table
type TableWriter interface {
	WriteTable(path string, table *trend.Table) error
}

// Archive stores run manifests and result tables in durable storage
type Archive interface {
	SaveRun(ctx context.Context, manifest *run.Manifest) error
	SaveTable(ctx context.Context, runID string, table *trend.Table) error
	Close() error
}
