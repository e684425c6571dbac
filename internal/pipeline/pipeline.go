// Package pipeline implements the processing stages for appointment
// batches: classification against visit history, review flag
// detection, aggregation, and export row construction.
package pipeline

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"go-visit-pipeline/internal/history"
	"go-visit-pipeline/internal/model"
)

// RunResult is the complete output of one pipeline run.
type RunResult struct {
	RunID         string
	Classified    []model.ClassifiedRecord
	Flags         []model.ReviewFlag
	Cancellations []model.CancellationEntry
	Aggregation   model.AggregationResult
	ExportRows    []model.ExportRow
	Warnings      []model.Warning
	StartedAt     time.Time
	FinishedAt    time.Time
}

// Runner wires the pipeline stages together over a shared history
// store. It carries no per-run state; serialization of runs is the
// caller's concern.
type Runner struct {
	history history.Store
	log     *zap.Logger
}

func NewRunner(hs history.Store, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{history: hs, log: log}
}

// screenRecords drops records the pipeline cannot process and collects
// a warning for each. Status warnings are the loader's job; records
// with an unrecognized status are kept here. They simply never classify
// as completed and never match a review pattern.
func screenRecords(records []model.Record) ([]model.Record, []model.Warning) {
	usable := make([]model.Record, 0, len(records))
	var warnings []model.Warning
	for i, rec := range records {
		switch {
		case rec.CallerID == "":
			warnings = append(warnings, model.Warning{
				Row: i + 1, Reason: "missing caller ID",
			})
		case rec.Date.IsZero():
			warnings = append(warnings, model.Warning{
				Row: i + 1, CallerID: rec.CallerID, Reason: "missing appointment date",
			})
		default:
			usable = append(usable, rec)
		}
	}
	return usable, warnings
}

// Run executes the full pipeline over a batch. Returns
// model.ErrEmptyBatch (wrapped) when no usable records remain after
// screening. Store failures abort the run and leave no partial result.
func (r *Runner) Run(ctx context.Context, runID string, records []model.Record) (*RunResult, error) {
	started := time.Now().UTC()

	usable, warnings := screenRecords(records)
	if len(usable) == 0 {
		return nil, fmt.Errorf("run %s: %w", runID, model.ErrEmptyBatch)
	}

	classifier := NewClassifier(r.history, r.log)
	classified, err := classifier.Classify(ctx, usable)
	if err != nil {
		return nil, fmt.Errorf("run %s: classify: %w", runID, err)
	}

	flags := DetectFlags(classified)
	cancellations, err := CancellationList(ctx, r.history, flags)
	if err != nil {
		return nil, fmt.Errorf("run %s: cancellation list: %w", runID, err)
	}

	result := &RunResult{
		RunID:         runID,
		Classified:    classified,
		Flags:         flags,
		Cancellations: cancellations,
		Aggregation:   Aggregate(classified),
		ExportRows:    BuildExportRows(classified, flags),
		Warnings:      warnings,
		StartedAt:     started,
		FinishedAt:    time.Now().UTC(),
	}

	r.log.Info("pipeline run finished",
		zap.String("run_id", runID),
		zap.Int("records", len(records)),
		zap.Int("usable", len(usable)),
		zap.Int("flags", len(flags)),
		zap.Int("warnings", len(warnings)),
		zap.Duration("elapsed", result.FinishedAt.Sub(started)),
	)
	return result, nil
}
