// Package pipeline orchestrates one batch run: load, validate, clean,
// regress, aggregate, write.
package pipeline

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"time"

	"gridtrend/adapters/excel"
	"gridtrend/adapters/stats/engine"
	"gridtrend/domain/run"
	"gridtrend/domain/trend"
	"gridtrend/internal"
	"gridtrend/internal/aggregate"
	"gridtrend/internal/config"
	"gridtrend/internal/errors"
	"gridtrend/internal/preprocess"
	"gridtrend/ports"
)

// CodeVersion is stamped into every run manifest
const CodeVersion = "gridtrend/1.0"

// Pipeline wires the configuration to the storage and output adapters
type Pipeline struct {
	cfg     *config.Config
	store   ports.GridStore
	tables  ports.TableWriter
	archive ports.Archive // nil disables archival
	log     *internal.Logger
}

// New creates a pipeline. archive may be nil when no database is configured.
func New(cfg *config.Config, store ports.GridStore, tables ports.TableWriter, archive ports.Archive, log *internal.Logger) *Pipeline {
	return &Pipeline{cfg: cfg, store: store, tables: tables, archive: archive, log: log}
}

// Execute performs the full batch run and returns its manifest. Structural
// input failures abort immediately; per-cell numerical failures surface
// only as missing values in the output tables.
func (p *Pipeline) Execute(ctx context.Context) (*run.Manifest, error) {
	if err := os.MkdirAll(p.cfg.Paths.OutDir, 0o755); err != nil {
		return nil, errors.IOError("failed to create output directory", err)
	}

	phaseStart := time.Now()
	g, axis, err := p.store.Load(p.cfg.Paths.GridFile)
	if err != nil {
		return nil, err
	}
	manifest := run.NewManifest(
		p.cfg.Paths.GridFile, g, axis,
		p.cfg.Grid.MissingThreshold, p.cfg.Grid.BBox,
		p.cfg.Grid.DateStart, p.cfg.Grid.DateEnd,
		p.cfg.Engine.WorkerCapacity, CodeVersion,
	)
	manifest.AddPhase("load", time.Since(phaseStart))
	p.log.Info("run %s: loaded grid %dx%dx%d from %s", manifest.RunID, g.NT, g.NY, g.NX, p.cfg.Paths.GridFile)

	// Cleaning phase: mask, then convert. Both intermediate grids are
	// written back out in the input's gridded format.
	phaseStart = time.Now()
	masked := preprocess.Mask(g, p.cfg.Grid.MissingThreshold)
	if err := p.store.Save(p.outPath("masked_kelvin.grid"), masked, axis); err != nil {
		return nil, err
	}
	celsius := preprocess.ToCelsius(masked)
	if err := p.store.Save(p.outPath("masked_celsius.grid"), celsius, axis); err != nil {
		return nil, err
	}
	manifest.AddPhase("preprocess", time.Since(phaseStart))

	if profile, err := preprocess.Summarize(celsius); err == nil {
		p.log.Info("run %s: celsius grid QC: valid=%d missing=%.3f mean=%.2f sd=%.2f min=%.2f max=%.2f",
			manifest.RunID, profile.ValidCount, profile.MissingRate, profile.Mean, profile.StdDev, profile.Min, profile.Max)
	} else {
		p.log.Warn("run %s: QC profile failed: %v", manifest.RunID, err)
	}

	// Regression phase: embarrassingly parallel per-cell fits with a
	// barrier before aggregation.
	phaseStart = time.Now()
	eng := engine.NewTrendEngine(p.cfg.Engine.WorkerCapacity)
	result, err := eng.Run(ctx, celsius, axis)
	if err != nil {
		return nil, err
	}
	manifest.AddPhase("regression", time.Since(phaseStart))
	p.log.Info("run %s: regression complete: fitted=%d undefined=%d", manifest.RunID, result.Fitted, result.Skipped)

	// Aggregation phase: rescale, flatten, bin, write.
	phaseStart = time.Now()
	slopeTable := aggregate.SlopeTable(result.Slopes, celsius)
	pvalTable := aggregate.PValueTable(result.PValues, celsius)

	if err := p.tables.WriteTable(p.outPath("sst_trend.csv"), slopeTable); err != nil {
		return nil, err
	}
	if err := p.tables.WriteTable(p.outPath("sst_pval.csv"), pvalTable); err != nil {
		return nil, err
	}
	if p.cfg.Paths.ExcelFile != "" {
		if err := p.writeWorkbook(slopeTable, pvalTable); err != nil {
			return nil, err
		}
	}
	manifest.AddPhase("aggregate", time.Since(phaseStart))

	if p.archive != nil {
		phaseStart = time.Now()
		if err := p.archiveRun(ctx, manifest, slopeTable, pvalTable); err != nil {
			return nil, err
		}
		manifest.AddPhase("archive", time.Since(phaseStart))
	}

	if err := p.writeManifest(manifest); err != nil {
		return nil, err
	}
	p.log.Info("run %s: complete", manifest.RunID)
	return manifest, nil
}

func (p *Pipeline) outPath(name string) string {
	return filepath.Join(p.cfg.Paths.OutDir, name)
}

func (p *Pipeline) writeWorkbook(tables ...*trend.Table) error {
	wb := excel.NewWorkbookWriter()
	for _, t := range tables {
		if err := wb.AddTable(t); err != nil {
			return err
		}
	}
	return wb.Save(p.cfg.Paths.ExcelFile)
}

func (p *Pipeline) archiveRun(ctx context.Context, manifest *run.Manifest, tables ...*trend.Table) error {
	if err := p.archive.SaveRun(ctx, manifest); err != nil {
		return errors.StorageError("failed to archive run manifest", err)
	}
	for _, t := range tables {
		if err := p.archive.SaveTable(ctx, manifest.RunID.String(), t); err != nil {
			return errors.StorageError("failed to archive result table", err)
		}
	}
	return nil
}

func (p *Pipeline) writeManifest(manifest *run.Manifest) error {
	data, err := json.MarshalIndent(manifest, "", "  ")
	if err != nil {
		return errors.IOError("failed to marshal run manifest", err)
	}
	if err := os.WriteFile(p.outPath("run_manifest.json"), data, 0o644); err != nil {
		return errors.IOError("failed to write run manifest", err)
	}
	return nil
}
