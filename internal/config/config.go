package config

import (
	"os"
	"strconv"
	"time"

	"gridtrend/domain/run"
	"gridtrend/internal/errors"
)

// Config represents the complete run configuration. A run is a single
// batch invocation parameterized entirely by this structure; there is no
// interactive surface.
type Config struct {
	Paths    PathConfig
	Grid     GridConfig
	Engine   EngineConfig
	Database DatabaseConfig
}

// PathConfig holds file system paths for inputs and outputs
type PathConfig struct {
	GridFile  string // input gridded dataset (required)
	OutDir    string // directory receiving tables, cleaned grids, manifest
	ExcelFile string // optional workbook path; empty disables Excel output
}

// GridConfig holds the spatial/temporal window and masking parameters
type GridConfig struct {
	MissingThreshold float64 // raw values at or below this become missing
	BBox             run.BBox
	DateStart        string // inclusive, YYYY-MM-DD
	DateEnd          string // inclusive, YYYY-MM-DD
}

// EngineConfig holds regression engine settings
type EngineConfig struct {
	WorkerCapacity int // bound on concurrent per-cell fits
}

// DatabaseConfig holds the optional Postgres archival target
type DatabaseConfig struct {
	URL string // empty disables archival
}

// DefaultMissingThreshold guards against floating-point roundoff around
// the source's exact missing sentinel of -52.
const DefaultMissingThreshold = -54.0

// Load reads configuration from environment variables and validates it
func Load() (*Config, error) {
	gridFile := os.Getenv("GRID_FILE")
	if gridFile == "" {
		return nil, errors.ConfigInvalid("GRID_FILE is required")
	}

	cfg := &Config{
		Paths: PathConfig{
			GridFile:  gridFile,
			OutDir:    getEnvOrDefault("OUT_DIR", "./out"),
			ExcelFile: getEnvOrDefault("EXCEL_FILE", ""),
		},
		Grid: GridConfig{
			MissingThreshold: getEnvFloatOrDefault("MISSING_THRESHOLD", DefaultMissingThreshold),
			BBox: run.BBox{
				XMin: getEnvFloatOrDefault("BBOX_XMIN", -180),
				XMax: getEnvFloatOrDefault("BBOX_XMAX", 180),
				YMin: getEnvFloatOrDefault("BBOX_YMIN", -90),
				YMax: getEnvFloatOrDefault("BBOX_YMAX", 90),
			},
			DateStart: getEnvOrDefault("DATE_START", ""),
			DateEnd:   getEnvOrDefault("DATE_END", ""),
		},
		Engine: EngineConfig{
			WorkerCapacity: getEnvIntOrDefault("WORKER_CAPACITY", 8),
		},
		Database: DatabaseConfig{
			URL: getEnvOrDefault("DATABASE_URL", ""),
		},
	}

	if err := validateConfig(cfg); err != nil {
		return nil, errors.Wrap(err, "configuration validation failed")
	}

	return cfg, nil
}

func validateConfig(cfg *Config) error {
	if cfg.Paths.OutDir == "" {
		return errors.ConfigInvalid("output directory is required")
	}
	if cfg.Engine.WorkerCapacity < 1 {
		return errors.ConfigInvalid("worker capacity must be at least 1")
	}
	if err := cfg.Grid.BBox.Validate(); err != nil {
		return errors.ConfigInvalid(err.Error())
	}
	if cfg.Grid.DateStart != "" && cfg.Grid.DateEnd != "" {
		start, err := time.Parse("2006-01-02", cfg.Grid.DateStart)
		if err != nil {
			return errors.ConfigInvalid("DATE_START must be YYYY-MM-DD")
		}
		end, err := time.Parse("2006-01-02", cfg.Grid.DateEnd)
		if err != nil {
			return errors.ConfigInvalid("DATE_END must be YYYY-MM-DD")
		}
		if end.Before(start) {
			return errors.ConfigInvalid("DATE_END precedes DATE_START")
		}
	}
	return nil
}

// Helper functions for environment variable parsing
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvIntOrDefault(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvFloatOrDefault(key string, defaultValue float64) float64 {
	if value := os.Getenv(key); value != "" {
		if floatValue, err := strconv.ParseFloat(value, 64); err == nil {
			return floatValue
		}
	}
	return defaultValue
}
