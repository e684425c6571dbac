package pipeline

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"go-visit-pipeline/internal/history"
	"go-visit-pipeline/internal/model"
)

func classified(callerID, date string, status model.Status, outcome model.Outcome) model.ClassifiedRecord {
	return model.ClassifiedRecord{
		Record: model.Record{CallerID: callerID, Date: day(date), Status: status, Outcome: outcome},
	}
}

func TestDetectFlagsPatterns(t *testing.T) {
	records := []model.ClassifiedRecord{
		classified("c-1", "2026-01-01", model.StatusCancelled, model.OutcomeVisited),
		classified("c-2", "2026-01-02", model.StatusScheduled, model.OutcomeNotVisited),
		classified("c-3", "2026-01-03", model.StatusCancelled, model.OutcomeNotVisited),
	}

	flags := DetectFlags(records)
	require.Len(t, flags, 3)
	require.Equal(t, model.PatternInconsistency, flags[0].Pattern)
	require.Equal(t, model.PatternNoShow, flags[1].Pattern)
	require.Equal(t, model.PatternCancellation, flags[2].Pattern)
	require.Equal(t, 0, flags[0].Index)
	require.Equal(t, 2, flags[2].Index)
}

func TestDetectFlagsIgnoresCleanRecords(t *testing.T) {
	records := []model.ClassifiedRecord{
		classified("c-1", "2026-01-01", model.StatusScheduled, model.OutcomeVisited),
		classified("c-2", "2026-01-02", model.StatusScheduled, model.OutcomeUnknown),
		classified("c-3", "2026-01-03", model.StatusCancelled, model.OutcomeUnknown),
		classified("c-4", "2026-01-04", model.StatusOther, model.OutcomeNotVisited),
	}
	require.Empty(t, DetectFlags(records))
}

func TestDetectFlagsAtMostOnePerRecord(t *testing.T) {
	// A cancelled-but-visited record matches the inconsistency pattern
	// and must not also appear as a plain cancellation.
	records := []model.ClassifiedRecord{
		classified("c-1", "2026-01-01", model.StatusCancelled, model.OutcomeVisited),
	}
	flags := DetectFlags(records)
	require.Len(t, flags, 1)
	require.Equal(t, model.PatternInconsistency, flags[0].Pattern)
}

func TestCancellationListFiltersNoShows(t *testing.T) {
	ctx := context.Background()
	hs := history.NewMemoryStore()

	records := []model.ClassifiedRecord{
		classified("c-1", "2026-01-01", model.StatusCancelled, model.OutcomeVisited),
		classified("c-2", "2026-01-02", model.StatusScheduled, model.OutcomeNotVisited),
		classified("c-3", "2026-01-03", model.StatusCancelled, model.OutcomeNotVisited),
	}
	flags := DetectFlags(records)

	entries, err := CancellationList(ctx, hs, flags)
	require.NoError(t, err)
	require.Len(t, entries, 2, "no-shows stay out of the cancellation list")
	require.Equal(t, model.PatternInconsistency, entries[0].Flag.Pattern)
	require.Equal(t, model.PatternCancellation, entries[1].Flag.Pattern)
}

func TestCancellationListAttachesHistoryOrdinal(t *testing.T) {
	ctx := context.Background()
	hs := history.NewMemoryStore()

	// c-1 has two completed visits on record before the cancellation.
	_, err := hs.Upsert(ctx, "c-1", day("2026-01-01"))
	require.NoError(t, err)
	_, err = hs.Upsert(ctx, "c-1", day("2026-02-01"))
	require.NoError(t, err)

	records := []model.ClassifiedRecord{
		classified("c-1", "2026-03-01", model.StatusCancelled, model.OutcomeNotVisited),
		classified("c-9", "2026-03-01", model.StatusCancelled, model.OutcomeNotVisited),
	}
	entries, err := CancellationList(ctx, hs, DetectFlags(records))
	require.NoError(t, err)
	require.Len(t, entries, 2)
	require.Equal(t, 2, entries[0].VisitOrdinal)
	require.Zero(t, entries[1].VisitOrdinal, "unknown callers carry no ordinal")

	// Building the list reads history only.
	e, ok, err := hs.Get(ctx, "c-1")
	require.NoError(t, err)
	require.True(t, ok)
	require.Equal(t, 2, e.VisitCount)
}
