package ingest

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"go-visit-pipeline/internal/model"
)

func TestLoadCSVCanonicalHeaders(t *testing.T) {
	csvData := `caller_id,caller_name,date,status,outcome,staff
c-1,Yamada,2026-01-10,scheduled,visited,Tanaka
c-2,Sato,2026-01-11,cancelled,not_visited,
`
	records, warnings, err := LoadCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Len(t, records, 2)

	require.Equal(t, "c-1", records[0].CallerID)
	require.Equal(t, "Yamada", records[0].CallerName)
	require.Equal(t, model.StatusScheduled, records[0].Status)
	require.Equal(t, model.OutcomeVisited, records[0].Outcome)
	require.Equal(t, "Tanaka", records[0].StaffLabel)
	require.Equal(t, model.StatusCancelled, records[1].Status)
}

func TestLoadCSVHeaderSynonyms(t *testing.T) {
	csvData := `Customer ID,Reserved Date,State,Attendance,Nominated Staff
c-1,2026/01/10,booked,attended,no-preference
`
	records, warnings, err := LoadCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Len(t, records, 1)
	require.Equal(t, "c-1", records[0].CallerID)
	require.Equal(t, model.StatusScheduled, records[0].Status)
	require.Equal(t, model.OutcomeVisited, records[0].Outcome)
	require.True(t, model.IsAutoAssigned(records[0].StaffLabel))
}

func TestLoadCSVSurrogateCallerID(t *testing.T) {
	csvData := `date,status,outcome
2026-01-10,scheduled,visited
`
	records, warnings, err := LoadCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.True(t, strings.HasPrefix(records[0].CallerID, "anon-"))
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Reason, "surrogate")
}

func TestLoadCSVMissingRequiredColumn(t *testing.T) {
	csvData := `caller_id,outcome
c-1,visited
`
	_, _, err := LoadCSV(strings.NewReader(csvData))
	require.Error(t, err)
	require.Contains(t, err.Error(), "required column")
}

func TestLoadCSVEmptyFile(t *testing.T) {
	_, _, err := LoadCSV(strings.NewReader(""))
	require.ErrorIs(t, err, model.ErrEmptyBatch)

	_, _, err = LoadCSV(strings.NewReader("caller_id,date,status\n"))
	require.ErrorIs(t, err, model.ErrEmptyBatch)
}

func TestLoadCSVUnknownStatusPreserved(t *testing.T) {
	csvData := `caller_id,date,status
c-1,2026-01-10,pending-review
`
	records, warnings, err := LoadCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, model.StatusOther, records[0].Status)
	require.Equal(t, "pending-review", records[0].RawStatus)
	require.Len(t, warnings, 1)
	require.Contains(t, warnings[0].Reason, "pending-review")
}

func TestLoadCSVDropsRowsWithoutDate(t *testing.T) {
	csvData := `caller_id,date,status
c-1,,scheduled
c-2,2026-01-10,scheduled
`
	records, warnings, err := LoadCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "c-2", records[0].CallerID)
	require.Len(t, warnings, 1)
	require.Equal(t, 2, warnings[0].Row)
}

func TestLoadCSVExtraColumnsPassThrough(t *testing.T) {
	csvData := `caller_id,date,status,branch
c-1,2026-01-10,scheduled,north
`
	records, _, err := LoadCSV(strings.NewReader(csvData))
	require.NoError(t, err)
	require.Len(t, records, 1)
	require.Equal(t, "north", records[0].Extra["branch"])
}

func TestLoadJSON(t *testing.T) {
	jsonData := `[
		{"customer_id": "c-1", "visit_date": "2026-01-10", "status": "scheduled", "attendance": "visited"},
		{"customer_id": "c-2", "visit_date": "2026-01-11", "status": "cancelled", "attendance": "no"}
	]`
	records, warnings, err := LoadJSON(strings.NewReader(jsonData))
	require.NoError(t, err)
	require.Empty(t, warnings)
	require.Len(t, records, 2)
	require.Equal(t, model.StatusScheduled, records[0].Status)
	require.Equal(t, model.OutcomeNotVisited, records[1].Outcome)
}

func TestLoadJSONEmptyArray(t *testing.T) {
	_, _, err := LoadJSON(strings.NewReader(`[]`))
	require.ErrorIs(t, err, model.ErrEmptyBatch)
}

func TestLoadFileDispatch(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "batch.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("caller_id,date,status\nc-1,2026-01-10,scheduled\n"), 0644))
	records, _, err := LoadFile(csvPath)
	require.NoError(t, err)
	require.Len(t, records, 1)

	_, _, err = LoadFile(filepath.Join(dir, "batch.txt"))
	require.Error(t, err)
}
