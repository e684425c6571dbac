package pipeline

import (
	"context"
	"sort"

	"go.uber.org/zap"

	"go-visit-pipeline/internal/history"
	"go-visit-pipeline/internal/model"
)

// Classifier derives attendance and visit ordinals for a batch against
// the caller visit history. It is the only component that mutates the
// history store.
type Classifier struct {
	history history.Store
	log     *zap.Logger
}

func NewClassifier(hs history.Store, log *zap.Logger) *Classifier {
	if log == nil {
		log = zap.NewNop()
	}
	return &Classifier{history: hs, log: log}
}

// Classify processes a batch of validated records. The input is sorted
// by (caller ID, appointment date, application timestamp) first, so
// ordinal assignment never depends on upload order. Output cardinality
// equals input cardinality.
//
// Completed records (scheduled and visited) read the caller's current
// history for the ordinal, then upsert their date. Anything else leaves
// history untouched. A store failure aborts the whole batch.
func (c *Classifier) Classify(ctx context.Context, records []model.Record) ([]model.ClassifiedRecord, error) {
	sorted := append([]model.Record(nil), records...)
	sort.SliceStable(sorted, func(i, j int) bool {
		a, b := sorted[i], sorted[j]
		if a.CallerID != b.CallerID {
			return a.CallerID < b.CallerID
		}
		if !a.Date.Equal(b.Date) {
			return a.Date.Before(b.Date)
		}
		return a.AppliedAt.Before(b.AppliedAt)
	})

	out := make([]model.ClassifiedRecord, 0, len(sorted))
	completed := 0
	for _, rec := range sorted {
		cr := model.ClassifiedRecord{Record: rec}
		cr.Completed = rec.Status == model.StatusScheduled && rec.Outcome == model.OutcomeVisited
		cr.IsAutoAssigned = model.IsAutoAssigned(rec.StaffLabel)

		if cr.Completed {
			entry, ok, err := c.history.Get(ctx, rec.CallerID)
			if err != nil {
				return nil, err
			}
			prior := 0
			if ok {
				prior = entry.VisitCount
			}
			cr.VisitOrdinal = prior + 1
			if _, err := c.history.Upsert(ctx, rec.CallerID, rec.Date); err != nil {
				return nil, err
			}
			completed++
		}
		out = append(out, cr)
	}

	c.log.Debug("classified batch",
		zap.Int("records", len(out)),
		zap.Int("completed", completed),
	)
	return out, nil
}
