package main

import (
	"log"

	"go.uber.org/zap"

	"go-visit-pipeline/internal/api"
	"go-visit-pipeline/internal/config"
	"go-visit-pipeline/internal/history"
	"go-visit-pipeline/internal/pipeline"
	"go-visit-pipeline/internal/store"
)

// Minimal API-only entrypoint with default configuration. The full CLI
// (config files, watcher, exports) lives in cmd/pipeline.
func main() {
	cfg := config.Default()

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	hs, err := history.OpenSQLite(cfg.HistoryDB)
	if err != nil {
		logger.Fatal("failed to open history store", zap.Error(err))
	}
	defer hs.Close()

	runs, err := store.Open(cfg.RunsDB)
	if err != nil {
		logger.Fatal("failed to open run store", zap.Error(err))
	}
	defer runs.Close()

	svc := pipeline.NewService(cfg, hs, runs, logger)
	r := api.NewRouter(svc, hs, runs, logger)
	if err := r.Start(cfg.HTTPAddr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
