package pipeline

import (
	"context"

	"go-visit-pipeline/internal/history"
	"go-visit-pipeline/internal/model"
)

// matchPattern checks a record against the review patterns in priority
// order. First match wins; completed records never match.
func matchPattern(r model.ClassifiedRecord) (model.ReviewPattern, bool) {
	switch {
	case r.Status == model.StatusCancelled && r.Outcome == model.OutcomeVisited:
		return model.PatternInconsistency, true
	case r.Status == model.StatusScheduled && r.Outcome == model.OutcomeNotVisited:
		return model.PatternNoShow, true
	case r.Status == model.StatusCancelled && r.Outcome == model.OutcomeNotVisited:
		return model.PatternCancellation, true
	default:
		return "", false
	}
}

// DetectFlags tags records needing human review. Stateless over the
// classified batch, independent of the history store; at most one flag
// per record.
func DetectFlags(records []model.ClassifiedRecord) []model.ReviewFlag {
	var flags []model.ReviewFlag
	for i, rec := range records {
		if pattern, ok := matchPattern(rec); ok {
			flags = append(flags, model.ReviewFlag{Pattern: pattern, Index: i, Record: rec})
		}
	}
	return flags
}

// CancellationList filters flags down to the cancellation view
// (inconsistencies and plain cancellations) and attaches each caller's
// visit ordinal as it stands after the full classification pass. The
// ordinal is display-only; history is read, never written.
func CancellationList(ctx context.Context, hs history.Store, flags []model.ReviewFlag) ([]model.CancellationEntry, error) {
	var entries []model.CancellationEntry
	for _, f := range flags {
		if f.Pattern != model.PatternInconsistency && f.Pattern != model.PatternCancellation {
			continue
		}
		e := model.CancellationEntry{Flag: f}
		entry, ok, err := hs.Get(ctx, f.Record.CallerID)
		if err != nil {
			return nil, err
		}
		if ok {
			e.VisitOrdinal = entry.VisitCount
		}
		entries = append(entries, e)
	}
	return entries, nil
}
