package main

import (
	"context"
	"os"

	"github.com/joho/godotenv"

	"gridtrend/adapters/csvout"
	"gridtrend/adapters/gridio"
	"gridtrend/adapters/postgres"
	"gridtrend/internal"
	"gridtrend/internal/config"
	"gridtrend/internal/errors"
	"gridtrend/internal/pipeline"
	"gridtrend/ports"
)

func main() {
	// .env is optional; real deployments set the environment directly
	_ = godotenv.Load()

	log := internal.DefaultLogger

	cfg, err := config.Load()
	if err != nil {
		log.Error("configuration error [%s]: %v", errors.GetCode(err), err)
		os.Exit(1)
	}

	ctx := context.Background()

	var archive ports.Archive
	if cfg.Database.URL != "" {
		archive, err = postgres.NewArchive(ctx, cfg.Database.URL)
		if err != nil {
			log.Error("archive connection failed: %v", err)
			os.Exit(1)
		}
		defer archive.Close()
	}

	p := pipeline.New(cfg, gridio.NewStore(), csvout.NewWriter(), archive, log)
	manifest, err := p.Execute(ctx)
	if err != nil {
		log.Error("run failed [%s]: %v", errors.GetCode(err), err)
		os.Exit(1)
	}

	log.Info("outputs for run %s written to %s", manifest.RunID, cfg.Paths.OutDir)
}
