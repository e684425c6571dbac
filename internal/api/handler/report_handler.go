package handler

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"path/filepath"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"go-visit-pipeline/internal/ingest"
	"go-visit-pipeline/internal/model"
	"go-visit-pipeline/internal/pipeline"
)

// ReportHandler serves report runs over HTTP. All processing is
// synchronous: the response carries the run outcome.
type ReportHandler struct {
	svc *pipeline.Service
	log *zap.Logger
}

func NewReportHandler(svc *pipeline.Service, log *zap.Logger) *ReportHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &ReportHandler{svc: svc, log: log}
}

// CreateReport runs the pipeline over an uploaded batch
// @Summary Run a report
// @Description Upload an appointment batch (multipart file or JSON array body) and process it synchronously
// @Tags reports
// @Accept json
// @Produce json
// @Success 200 {object} map[string]interface{} "Report completed"
// @Failure 400 {object} map[string]interface{} "Invalid or empty batch"
// @Failure 409 {object} map[string]interface{} "Another run is in flight"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /reports [post]
func (h *ReportHandler) CreateReport(w http.ResponseWriter, r *http.Request) {
	records, warnings, source, err := h.readBatch(r)
	if err != nil {
		http.Error(w, "Invalid batch payload: "+err.Error(), http.StatusBadRequest)
		return
	}

	result, err := h.svc.RunBatch(r.Context(), records, source, warnings)
	switch {
	case err == nil:
	case errors.Is(err, model.ErrRunInFlight):
		http.Error(w, "A report run is already in progress", http.StatusConflict)
		return
	case errors.Is(err, model.ErrEmptyBatch):
		http.Error(w, "Batch contains no usable records", http.StatusBadRequest)
		return
	default:
		h.log.Error("report run failed", zap.Error(err))
		http.Error(w, "Report run failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message":  "Report completed successfully!",
		"run_id":   result.RunID,
		"records":  len(result.Classified),
		"flags":    len(result.Flags),
		"warnings": len(result.Warnings),
		"summary":  result.Aggregation.Summary,
	})
}

// readBatch extracts records from either a multipart file upload or a
// raw JSON array body.
func (h *ReportHandler) readBatch(r *http.Request) ([]model.Record, []model.Warning, string, error) {
	ct := r.Header.Get("Content-Type")
	if strings.HasPrefix(ct, "multipart/form-data") {
		file, header, err := r.FormFile("file")
		if err != nil {
			return nil, nil, "", err
		}
		defer file.Close()

		name := header.Filename
		if strings.EqualFold(filepath.Ext(name), ".json") {
			records, warnings, err := ingest.LoadJSON(file)
			return records, warnings, name, err
		}
		records, warnings, err := ingest.LoadCSV(file)
		return records, warnings, name, err
	}

	records, warnings, err := ingest.LoadJSON(r.Body)
	return records, warnings, "http-upload", err
}

// ListReports lists recorded runs
// @Summary List reports
// @Description Get recent report runs with their status
// @Tags reports
// @Produce json
// @Success 200 {array} store.Run "List of runs"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /reports [get]
func (h *ReportHandler) ListReports(w http.ResponseWriter, r *http.Request) {
	limit := 50
	if v := r.URL.Query().Get("limit"); v != "" {
		if n, err := strconv.Atoi(v); err == nil && n > 0 {
			limit = n
		}
	}
	runs, err := h.svc.Runs().ListRuns(r.Context(), limit)
	if err != nil {
		h.log.Error("failed to list runs", zap.Error(err))
		http.Error(w, "Failed to fetch reports", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(runs)
}

// GetReport retrieves a run record
// @Summary Get report
// @Description Retrieve a specific report run
// @Tags reports
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} store.Run "Run details"
// @Failure 404 {object} map[string]interface{} "Run not found"
// @Router /reports/{id} [get]
func (h *ReportHandler) GetReport(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(r.URL.Path, "")
	if !ok {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}
	run, err := h.svc.Runs().GetRun(r.Context(), runID)
	if err != nil {
		http.Error(w, "Failed to fetch report", http.StatusInternalServerError)
		return
	}
	if run == nil {
		http.Error(w, "Report not found", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(run)
}

// GetReportResults retrieves a run's aggregation
// @Summary Get report results
// @Description Retrieve the aggregated results for a report run
// @Tags reports
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Aggregated results"
// @Failure 404 {object} map[string]interface{} "No results for run"
// @Router /reports/{id}/results [get]
func (h *ReportHandler) GetReportResults(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(r.URL.Path, "/results")
	if !ok {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}
	result, _, _, found, err := h.svc.Runs().Result(r.Context(), runID)
	if err != nil {
		http.Error(w, "Failed to retrieve results", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "No results for this run", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id":  runID,
		"results": result,
	})
}

// GetReportWarnings retrieves a run's warnings
// @Summary Get report warnings
// @Description Retrieve the row-level warnings collected during a run
// @Tags reports
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Run warnings"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /reports/{id}/warnings [get]
func (h *ReportHandler) GetReportWarnings(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(r.URL.Path, "/warnings")
	if !ok {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}
	warnings, err := h.svc.Runs().Warnings(r.Context(), runID)
	if err != nil {
		http.Error(w, "Failed to retrieve warnings", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id":   runID,
		"warnings": warnings,
		"count":    len(warnings),
	})
}

// GetReportCancellations retrieves a run's cancellation list
// @Summary Get report cancellations
// @Description Retrieve the cancellation review list for a run
// @Tags reports
// @Produce json
// @Param id path string true "Run ID"
// @Success 200 {object} map[string]interface{} "Cancellation list"
// @Failure 404 {object} map[string]interface{} "No results for run"
// @Router /reports/{id}/cancellations [get]
func (h *ReportHandler) GetReportCancellations(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(r.URL.Path, "/cancellations")
	if !ok {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}
	_, _, cancellations, found, err := h.svc.Runs().Result(r.Context(), runID)
	if err != nil {
		http.Error(w, "Failed to retrieve cancellations", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "No results for this run", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"run_id":        runID,
		"cancellations": cancellations,
		"count":         len(cancellations),
	})
}

// GetReportExport streams a run's export rows as CSV
// @Summary Download report export
// @Description Download the fixed-layout export rows for a run as CSV
// @Tags reports
// @Produce text/csv
// @Param id path string true "Run ID"
// @Success 200 {string} string "CSV export"
// @Failure 404 {object} map[string]interface{} "No results for run"
// @Router /reports/{id}/export [get]
func (h *ReportHandler) GetReportExport(w http.ResponseWriter, r *http.Request) {
	runID, ok := runIDFromPath(r.URL.Path, "/export")
	if !ok {
		http.Error(w, "Run ID is required", http.StatusBadRequest)
		return
	}
	_, rows, _, found, err := h.svc.Runs().Result(r.Context(), runID)
	if err != nil {
		http.Error(w, "Failed to retrieve export", http.StatusInternalServerError)
		return
	}
	if !found {
		http.Error(w, "No results for this run", http.StatusNotFound)
		return
	}

	w.Header().Set("Content-Type", "text/csv")
	w.Header().Set("Content-Disposition", `attachment; filename="report-`+runID+`.csv"`)
	writer := csv.NewWriter(w)
	writer.Write(model.ExportHeader[:])
	for _, row := range rows {
		writer.Write(row[:])
	}
	writer.Flush()
}

// runIDFromPath extracts the run ID between the reports prefix and an
// optional trailing suffix.
func runIDFromPath(path, suffix string) (string, bool) {
	prefix := "/api/v1/reports/"
	if !strings.HasPrefix(path, prefix) || !strings.HasSuffix(path, suffix) {
		return "", false
	}
	id := path[len(prefix) : len(path)-len(suffix)]
	if id == "" || strings.Contains(id, "/") {
		return "", false
	}
	return id, true
}
