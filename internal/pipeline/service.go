package pipeline

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"go-visit-pipeline/internal/config"
	"go-visit-pipeline/internal/history"
	"go-visit-pipeline/internal/ingest"
	"go-visit-pipeline/internal/model"
	"go-visit-pipeline/internal/store"
)

// Service runs batches one at a time and records each run in the run
// store. Runs are strictly serialized: a second submission while one is
// in flight fails with model.ErrRunInFlight rather than queueing.
type Service struct {
	cfg     config.Config
	runner  *Runner
	runs    *store.Store
	history history.Store
	export  *ExportWriter
	log     *zap.Logger

	mu   sync.Mutex
	busy bool
}

func NewService(cfg config.Config, hs history.Store, runs *store.Store, log *zap.Logger) *Service {
	if log == nil {
		log = zap.NewNop()
	}
	s := &Service{
		cfg:     cfg,
		runner:  NewRunner(hs, log),
		runs:    runs,
		history: hs,
		log:     log,
	}
	if cfg.ExportDir != "" {
		s.export = NewExportWriter(cfg.ExportDir)
	}
	return s
}

func (s *Service) acquire() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.busy {
		return false
	}
	s.busy = true
	return true
}

func (s *Service) release() {
	s.mu.Lock()
	s.busy = false
	s.mu.Unlock()
}

// RunBatch processes an already-loaded batch under a fresh run ID and
// persists the outcome. Extra warnings (e.g. from ingest) are prepended
// to the run's warning list.
func (s *Service) RunBatch(ctx context.Context, records []model.Record, source string, extraWarnings []model.Warning) (*RunResult, error) {
	if !s.acquire() {
		return nil, model.ErrRunInFlight
	}
	defer s.release()

	runID := uuid.New().String()
	if err := s.runs.CreateRun(ctx, runID, source, len(records)); err != nil {
		return nil, err
	}

	result, err := s.runner.Run(ctx, runID, records)
	if err != nil {
		reason := "pipeline failure"
		if errors.Is(err, model.ErrEmptyBatch) {
			reason = model.ErrEmptyBatch.Error()
		}
		if markErr := s.runs.MarkRunFailed(ctx, runID, reason); markErr != nil {
			s.log.Error("failed to mark run failed", zap.String("run_id", runID), zap.Error(markErr))
		}
		return nil, err
	}

	result.Warnings = append(append([]model.Warning(nil), extraWarnings...), result.Warnings...)

	if err := s.runs.SaveWarnings(ctx, runID, result.Warnings); err != nil {
		return nil, err
	}
	if err := s.runs.SaveResult(ctx, runID, result.Aggregation, result.ExportRows, result.Cancellations); err != nil {
		return nil, err
	}
	if err := s.runs.MarkRunCompleted(ctx, runID, len(result.Classified)); err != nil {
		return nil, err
	}

	if s.export != nil {
		path, err := s.export.Write(runID, s.cfg.ExportFormat, result.Aggregation, result.ExportRows)
		if err != nil {
			s.log.Error("export write failed", zap.String("run_id", runID), zap.Error(err))
		} else {
			s.log.Info("export written", zap.String("run_id", runID), zap.String("path", path))
		}
	}

	return result, nil
}

// RunFile loads a batch file and processes it. Load warnings carry
// through to the run's warning list.
func (s *Service) RunFile(ctx context.Context, path string) (*RunResult, error) {
	records, warnings, err := ingest.LoadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}
	return s.RunBatch(ctx, records, path, warnings)
}

// Runs exposes the run store for read access (API handlers).
func (s *Service) Runs() *store.Store { return s.runs }

// History exposes the history store for read and reset access.
func (s *Service) History() history.Store { return s.history }
