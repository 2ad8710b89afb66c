// Package postgres archives run manifests and result tables for later
// comparison across runs. Archival is optional: the pipeline only uses it
// when a database URL is configured.
package postgres

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"

	"gridtrend/domain/run"
	"gridtrend/domain/trend"
	"gridtrend/ports"
)

const schema = `
CREATE TABLE IF NOT EXISTS runs (
	run_id           TEXT PRIMARY KEY,
	grid_file        TEXT NOT NULL,
	grid_fingerprint TEXT NOT NULL,
	manifest         JSONB NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL DEFAULT now()
);

CREATE TABLE IF NOT EXISTS run_cells (
	run_id       TEXT NOT NULL REFERENCES runs(run_id),
	value_column TEXT NOT NULL,
	value        DOUBLE PRECISION,
	x            DOUBLE PRECISION NOT NULL,
	y            DOUBLE PRECISION NOT NULL,
	bin          TEXT
);

CREATE INDEX IF NOT EXISTS run_cells_run_idx ON run_cells (run_id, value_column);
`

// archive implements the ports.Archive interface
type archive struct {
	db *sqlx.DB
}

// NewArchive connects to Postgres and ensures the archival schema exists
func NewArchive(ctx context.Context, url string) (ports.Archive, error) {
	db, err := sqlx.ConnectContext(ctx, "postgres", url)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to archive database: %w", err)
	}
	if _, err := db.ExecContext(ctx, schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to create archive schema: %w", err)
	}
	return &archive{db: db}, nil
}

// SaveRun inserts the run manifest
func (a *archive) SaveRun(ctx context.Context, manifest *run.Manifest) error {
	manifestJSON, err := json.Marshal(manifest)
	if err != nil {
		return fmt.Errorf("failed to marshal manifest: %w", err)
	}

	query := `INSERT INTO runs (run_id, grid_file, grid_fingerprint, manifest)
		VALUES ($1, $2, $3, $4)`
	_, err = a.db.ExecContext(ctx, query,
		manifest.RunID.String(), manifest.GridFile, manifest.GridFingerprint, manifestJSON,
	)
	if err != nil {
		return fmt.Errorf("failed to insert run: %w", err)
	}
	return nil
}

// SaveTable bulk-inserts a result table keyed by run. Undefined values are
// stored as SQL NULL.
func (a *archive) SaveTable(ctx context.Context, runID string, table *trend.Table) error {
	tx, err := a.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin archive transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PreparexContext(ctx,
		`INSERT INTO run_cells (run_id, value_column, value, x, y, bin)
		 VALUES ($1, $2, $3, $4, $5, $6)`)
	if err != nil {
		return fmt.Errorf("failed to prepare cell insert: %w", err)
	}
	defer stmt.Close()

	for _, row := range table.Rows {
		var value interface{}
		if !math.IsNaN(row.Value) {
			value = row.Value
		}
		var bin interface{}
		if table.Binned {
			bin = row.Bin
		}
		if _, err := stmt.ExecContext(ctx, runID, table.ValueColumn, value, row.X, row.Y, bin); err != nil {
			return fmt.Errorf("failed to insert cell row: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit archive transaction: %w", err)
	}
	return nil
}

// Close releases the database connection
func (a *archive) Close() error {
	return a.db.Close()
}
