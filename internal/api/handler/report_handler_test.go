package handler_test

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"go-visit-pipeline/internal/api"
	"go-visit-pipeline/internal/config"
	"go-visit-pipeline/internal/history"
	"go-visit-pipeline/internal/pipeline"
	"go-visit-pipeline/internal/store"
)

func newTestServer(t *testing.T) (*httptest.Server, history.Store) {
	t.Helper()
	runs, err := store.Open(filepath.Join(t.TempDir(), "runs.db"))
	require.NoError(t, err)
	t.Cleanup(func() { runs.Close() })

	cfg := config.Default()
	cfg.ExportDir = ""
	hs := history.NewMemoryStore()
	svc := pipeline.NewService(cfg, hs, runs, nil)
	r := api.NewRouter(svc, hs, runs, nil)

	srv := httptest.NewServer(r.Handler())
	t.Cleanup(srv.Close)
	return srv, hs
}

func postJSONBatch(t *testing.T, srv *httptest.Server, body string) map[string]interface{} {
	t.Helper()
	resp, err := http.Post(srv.URL+"/api/v1/reports", "application/json", strings.NewReader(body))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	return out
}

const sampleBatch = `[
	{"caller_id": "c-1", "date": "2026-01-10", "status": "scheduled", "outcome": "visited", "staff": "Tanaka"},
	{"caller_id": "c-2", "date": "2026-01-11", "status": "cancelled", "outcome": "not_visited"},
	{"caller_id": "c-3", "date": "2026-01-12", "status": "scheduled", "outcome": "not_visited"}
]`

func TestCreateReport(t *testing.T) {
	srv, _ := newTestServer(t)

	out := postJSONBatch(t, srv, sampleBatch)
	require.NotEmpty(t, out["run_id"])
	require.Equal(t, float64(3), out["records"])
	require.Equal(t, float64(2), out["flags"])
}

func TestCreateReportEmptyBatch(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Post(srv.URL+"/api/v1/reports", "application/json", strings.NewReader(`[]`))
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
}

func TestCreateReportMultipartCSV(t *testing.T) {
	srv, _ := newTestServer(t)

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile("file", "batch.csv")
	require.NoError(t, err)
	_, err = fw.Write([]byte("caller_id,date,status,outcome\nc-1,2026-01-10,scheduled,visited\n"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	resp, err := http.Post(srv.URL+"/api/v1/reports", mw.FormDataContentType(), &buf)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestGetReportSubresources(t *testing.T) {
	srv, _ := newTestServer(t)
	out := postJSONBatch(t, srv, sampleBatch)
	runID := out["run_id"].(string)

	for _, path := range []string{"", "/results", "/warnings", "/cancellations"} {
		resp, err := http.Get(srv.URL + "/api/v1/reports/" + runID + path)
		require.NoError(t, err)
		resp.Body.Close()
		require.Equal(t, http.StatusOK, resp.StatusCode, "GET %s", path)
	}
}

func TestGetReportExportCSV(t *testing.T) {
	srv, _ := newTestServer(t)
	out := postJSONBatch(t, srv, sampleBatch)
	runID := out["run_id"].(string)

	resp, err := http.Get(srv.URL + "/api/v1/reports/" + runID + "/export")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "text/csv", resp.Header.Get("Content-Type"))

	var body bytes.Buffer
	_, err = body.ReadFrom(resp.Body)
	require.NoError(t, err)
	require.Contains(t, body.String(), "caller_id,caller_name,date,status,outcome,visit_ordinal,staff,review_flag")
	require.Contains(t, body.String(), "c-1")
}

func TestGetReportNotFound(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/reports/does-not-exist")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestListReports(t *testing.T) {
	srv, _ := newTestServer(t)
	postJSONBatch(t, srv, sampleBatch)

	resp, err := http.Get(srv.URL + "/api/v1/reports")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var runs []store.Run
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&runs))
	require.Len(t, runs, 1)
	require.Equal(t, store.StatusCompleted, runs[0].Status)
}

func TestHistoryEndpoints(t *testing.T) {
	srv, _ := newTestServer(t)
	postJSONBatch(t, srv, sampleBatch)

	resp, err := http.Get(srv.URL + "/api/v1/history")
	require.NoError(t, err)
	var out map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	require.Equal(t, float64(1), out["count"], "one caller completed a visit")

	req, err := http.NewRequest(http.MethodDelete, srv.URL+"/api/v1/history", nil)
	require.NoError(t, err)
	resp, err = http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/api/v1/history")
	require.NoError(t, err)
	out = map[string]interface{}{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&out))
	resp.Body.Close()
	require.Equal(t, float64(0), out["count"])
}

func TestGetCallerHistory(t *testing.T) {
	srv, _ := newTestServer(t)
	postJSONBatch(t, srv, sampleBatch)

	resp, err := http.Get(srv.URL + "/api/v1/history/c-1")
	require.NoError(t, err)
	var entry map[string]interface{}
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&entry))
	resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, float64(1), entry["visit_count"])

	resp, err = http.Get(srv.URL + "/api/v1/history/unknown")
	require.NoError(t, err)
	resp.Body.Close()
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestHealthEndpoint(t *testing.T) {
	srv, _ := newTestServer(t)

	resp, err := http.Get(srv.URL + "/api/v1/health")
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusOK, resp.StatusCode)
}
