package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"go-visit-pipeline/internal/model"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { s.Close() })
	return s
}

func TestRunLifecycle(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.CreateRun(ctx, "run-1", "batch.csv", 10))

	run, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.NotNil(t, run)
	require.Equal(t, StatusRunning, run.Status)
	require.Equal(t, 10, run.RecordCount)
	require.Nil(t, run.FinishedAt)

	require.NoError(t, s.MarkRunCompleted(ctx, "run-1", 8))
	run, err = s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, StatusCompleted, run.Status)
	require.Equal(t, 8, run.UsableCount)
	require.NotNil(t, run.FinishedAt)
}

func TestMarkRunFailed(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.CreateRun(ctx, "run-1", "batch.csv", 0))
	require.NoError(t, s.MarkRunFailed(ctx, "run-1", "batch contains no usable records"))

	run, err := s.GetRun(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, StatusFailed, run.Status)
	require.Equal(t, "batch contains no usable records", run.Reason)
}

func TestGetRunUnknownID(t *testing.T) {
	s := openTestStore(t)
	run, err := s.GetRun(context.Background(), "nope")
	require.NoError(t, err)
	require.Nil(t, run)
}

func TestWarningsRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.CreateRun(ctx, "run-1", "batch.csv", 2))
	warnings := []model.Warning{
		{Row: 2, Reason: "row dropped: missing appointment date"},
		{Row: 3, CallerID: "c-1", Reason: "unrecognized status \"pending\" preserved verbatim"},
	}
	require.NoError(t, s.SaveWarnings(ctx, "run-1", warnings))

	got, err := s.Warnings(ctx, "run-1")
	require.NoError(t, err)
	require.Equal(t, warnings, got)
}

func TestResultRoundTrip(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.CreateRun(ctx, "run-1", "batch.csv", 1))

	result := model.AggregationResult{
		Summary: model.Summary{TotalApplications: 1, CompletedVisits: 1, CompletionRate: 1},
		Staff:   []model.StaffStat{{Staff: "Tanaka", Applications: 1, Completions: 1, CompletionRate: 1}},
	}
	rows := []model.ExportRow{{"c-1", "", "2026-01-10", "scheduled", "visited", "1", "Tanaka", ""}}

	require.NoError(t, s.SaveResult(ctx, "run-1", result, rows, nil))

	got, gotRows, cancellations, found, err := s.Result(ctx, "run-1")
	require.NoError(t, err)
	require.True(t, found)
	require.Equal(t, result.Summary, got.Summary)
	require.Equal(t, result.Staff, got.Staff)
	require.Equal(t, rows, gotRows)
	require.Empty(t, cancellations)
}

func TestResultMissing(t *testing.T) {
	s := openTestStore(t)
	_, _, _, found, err := s.Result(context.Background(), "run-1")
	require.NoError(t, err)
	require.False(t, found)
}

func TestListRunsLimit(t *testing.T) {
	ctx := context.Background()
	s := openTestStore(t)

	require.NoError(t, s.CreateRun(ctx, "run-1", "a.csv", 1))
	require.NoError(t, s.CreateRun(ctx, "run-2", "b.csv", 2))

	runs, err := s.ListRuns(ctx, 10)
	require.NoError(t, err)
	require.Len(t, runs, 2)

	runs, err = s.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, runs, 1)
}

func TestHealth(t *testing.T) {
	s := openTestStore(t)
	require.NoError(t, s.Health(context.Background()))
}
