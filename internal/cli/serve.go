package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"go-visit-pipeline/internal/api"
	"go-visit-pipeline/internal/history"
	"go-visit-pipeline/internal/pipeline"
	"go-visit-pipeline/internal/store"
	"go-visit-pipeline/internal/watch"
)

var serveWatch bool

// serveCmd starts the HTTP API and, optionally, the drop directory
// watcher.
var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the report API server",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig()
		if err != nil {
			return err
		}
		if serveWatch {
			cfg.EnableWatcher = true
		}

		log, err := newLogger(cfg)
		if err != nil {
			return err
		}
		defer log.Sync()

		hs, err := history.OpenSQLite(cfg.HistoryDB)
		if err != nil {
			return err
		}
		defer hs.Close()

		runs, err := store.Open(cfg.RunsDB)
		if err != nil {
			return err
		}
		defer runs.Close()

		svc := pipeline.NewService(cfg, hs, runs, log)

		ctx, cancel := context.WithCancel(context.Background())
		defer cancel()

		watcher := watch.New(cfg, svc, log)
		if cfg.EnableWatcher {
			if err := watcher.Backfill(ctx); err != nil {
				log.Warn("drop directory backfill failed", zap.Error(err))
			}
			if err := watcher.Start(ctx); err != nil {
				return fmt.Errorf("failed to start watcher: %w", err)
			}
		}

		r := api.NewRouter(svc, hs, runs, log)
		fmt.Printf("🚀 Server starting on %s\n", cfg.HTTPAddr)
		fmt.Printf("📖 Swagger docs at http://localhost%s/swagger/index.html\n", cfg.HTTPAddr)
		return r.Start(cfg.HTTPAddr)
	},
}

func init() {
	serveCmd.Flags().BoolVar(&serveWatch, "watch", false, "watch the drop directory for new batch files")
	rootCmd.AddCommand(serveCmd)
}
