// Package watch monitors the drop directory for new batch files and
// feeds them through the pipeline service.
package watch

import (
	"context"
	"errors"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"go-visit-pipeline/internal/config"
	"go-visit-pipeline/internal/model"
	"go-visit-pipeline/internal/pipeline"
)

// settleDelay is how long a batch file must stay quiet (no further
// writes) before it is considered fully copied and safe to ingest.
const settleDelay = 2 * time.Second

// Watcher monitors the configured drop directory for new batch files
// and runs each through the service. Because runs are serialized, a
// file arriving mid-run is rejected and logged rather than queued.
type Watcher struct {
	cfg    config.Config
	svc    *pipeline.Service
	log    *zap.Logger
	settle time.Duration

	mu      sync.Mutex
	pending map[string]*time.Timer
}

func New(cfg config.Config, svc *pipeline.Service, log *zap.Logger) *Watcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		cfg:     cfg,
		svc:     svc,
		log:     log,
		settle:  settleDelay,
		pending: make(map[string]*time.Timer),
	}
}

func (w *Watcher) Start(ctx context.Context) error {
	if !w.cfg.EnableWatcher {
		w.log.Info("drop directory watcher disabled")
		return nil
	}
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	go func() {
		defer watcher.Close()
		for {
			select {
			case <-ctx.Done():
				return
			case evt := <-watcher.Events:
				if evt.Op&(fsnotify.Create|fsnotify.Write|fsnotify.Rename) != 0 && w.isBatchFile(evt.Name) {
					w.schedule(ctx, evt.Name)
				}
			case err := <-watcher.Errors:
				w.log.Error("watcher error", zap.Error(err))
			}
		}
	}()
	w.log.Info("watching drop directory", zap.String("dir", w.cfg.DropDir))
	return watcher.Add(w.cfg.DropDir)
}

// schedule defers processing until the file has seen no writes for the
// settle window. A file still being copied keeps firing Write events,
// each of which pushes its timer back.
func (w *Watcher) schedule(ctx context.Context, path string) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if t, ok := w.pending[path]; ok {
		t.Reset(w.settle)
		return
	}
	w.pending[path] = time.AfterFunc(w.settle, func() {
		w.mu.Lock()
		delete(w.pending, path)
		w.mu.Unlock()
		if ctx.Err() != nil {
			return
		}
		w.process(ctx, path)
	})
}

func (w *Watcher) process(ctx context.Context, path string) {
	result, err := w.svc.RunFile(ctx, path)
	switch {
	case err == nil:
		w.log.Info("processed dropped file",
			zap.String("file", filepath.Base(path)),
			zap.String("run_id", result.RunID),
			zap.Int("records", len(result.Classified)),
		)
	case errors.Is(err, model.ErrRunInFlight):
		w.log.Warn("dropped file skipped, run in flight", zap.String("file", filepath.Base(path)))
	default:
		w.log.Error("failed to process dropped file",
			zap.String("file", filepath.Base(path)), zap.Error(err))
	}
}

func (w *Watcher) isBatchFile(path string) bool {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv", ".json":
		return true
	default:
		return false
	}
}

// Backfill processes batch files already present in the drop directory.
func (w *Watcher) Backfill(ctx context.Context) error {
	entries, err := filepath.Glob(filepath.Join(w.cfg.DropDir, "*"))
	if err != nil {
		return err
	}
	for _, e := range entries {
		if w.isBatchFile(e) {
			w.process(ctx, e)
		}
	}
	return nil
}
