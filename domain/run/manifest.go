// Package run records the identity and parameters of one batch execution
// so a completed run can be audited or reproduced as a whole re-run.
package run

import (
	"fmt"
	"hash/fnv"
	"time"

	"gridtrend/domain/core"
	"gridtrend/domain/grid"
)

// Manifest is the truth source for one pipeline run: what grid was
// processed, with which parameters, and how long each phase took.
type Manifest struct {
	RunID            core.RunID     `json:"run_id"`
	GridFile         string         `json:"grid_file"`
	GridFingerprint  string         `json:"grid_fingerprint"`
	MissingThreshold float64        `json:"missing_threshold"`
	BBox             BBox           `json:"bbox"`
	DateStart        string         `json:"date_start"`
	DateEnd          string         `json:"date_end"`
	WorkerCapacity   int            `json:"worker_capacity"`
	CodeVersion      string         `json:"code_version"`
	Phases           []PhaseTiming  `json:"phases"`
	CreatedAt        core.Timestamp `json:"created_at"`
}

// BBox is the spatial bounding box the input grid was cropped to upstream
type BBox struct {
	XMin float64 `json:"xmin"`
	XMax float64 `json:"xmax"`
	YMin float64 `json:"ymin"`
	YMax float64 `json:"ymax"`
}

// Validate rejects inverted bounding boxes
func (b BBox) Validate() error {
	if b.XMin > b.XMax {
		return fmt.Errorf("bounding box xmin %v exceeds xmax %v", b.XMin, b.XMax)
	}
	if b.YMin > b.YMax {
		return fmt.Errorf("bounding box ymin %v exceeds ymax %v", b.YMin, b.YMax)
	}
	return nil
}

// PhaseTiming records the wall-clock duration of one pipeline phase
type PhaseTiming struct {
	Name     string        `json:"name"`
	Duration time.Duration `json:"duration"`
}

// NewManifest creates a manifest for a fresh run
func NewManifest(gridFile string, g *grid.Grid, axis *grid.TimeAxis, threshold float64, bbox BBox, dateStart, dateEnd string, capacity int, codeVersion string) *Manifest {
	return &Manifest{
		RunID:            core.NewRunID(),
		GridFile:         gridFile,
		GridFingerprint:  Fingerprint(g, axis),
		MissingThreshold: threshold,
		BBox:             bbox,
		DateStart:        dateStart,
		DateEnd:          dateEnd,
		WorkerCapacity:   capacity,
		CodeVersion:      codeVersion,
		CreatedAt:        core.Now(),
	}
}

// AddPhase appends a phase timing to the manifest
func (m *Manifest) AddPhase(name string, d time.Duration) {
	m.Phases = append(m.Phases, PhaseTiming{Name: name, Duration: d})
}

// Fingerprint hashes the grid's shape, coordinates and time axis into a
// stable hex digest. Two runs over the same cropped grid share a
// fingerprint even when cell values differ.
func Fingerprint(g *grid.Grid, axis *grid.TimeAxis) string {
	h := fnv.New64a()
	fmt.Fprintf(h, "%d|%d|%d", g.NT, g.NY, g.NX)
	for _, lat := range g.Lats {
		fmt.Fprintf(h, "|%v", lat)
	}
	for _, lon := range g.Lons {
		fmt.Fprintf(h, "|%v", lon)
	}
	for _, e := range axis.Epochs {
		fmt.Fprintf(h, "|%d", e)
	}
	return fmt.Sprintf("%016x", h.Sum64())
}
