package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"go.uber.org/zap"

	"go-visit-pipeline/internal/history"
)

// HistoryHandler exposes the caller visit history for inspection and
// operator resets.
type HistoryHandler struct {
	store history.Store
	log   *zap.Logger
}

func NewHistoryHandler(store history.Store, log *zap.Logger) *HistoryHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HistoryHandler{store: store, log: log}
}

// ListHistory lists caller visit history
// @Summary List visit history
// @Description Get all caller visit history entries
// @Tags history
// @Produce json
// @Success 200 {object} map[string]interface{} "History entries"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /history [get]
func (h *HistoryHandler) ListHistory(w http.ResponseWriter, r *http.Request) {
	entries, err := h.store.List(r.Context())
	if err != nil {
		h.log.Error("failed to list history", zap.Error(err))
		http.Error(w, "Failed to fetch history", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"entries": entries,
		"count":   len(entries),
	})
}

// GetCaller retrieves one caller's visit history
// @Summary Get caller history
// @Description Get the recorded visit history for a single caller
// @Tags history
// @Produce json
// @Param callerID path string true "Caller ID"
// @Success 200 {object} history.Entry "Caller entry"
// @Failure 404 {object} map[string]interface{} "No history for caller"
// @Router /history/{callerID} [get]
func (h *HistoryHandler) GetCaller(w http.ResponseWriter, r *http.Request) {
	const prefix = "/api/v1/history/"
	if !strings.HasPrefix(r.URL.Path, prefix) {
		http.Error(w, "Invalid path", http.StatusBadRequest)
		return
	}
	callerID := r.URL.Path[len(prefix):]
	if callerID == "" {
		http.Error(w, "Caller ID is required", http.StatusBadRequest)
		return
	}

	entry, ok, err := h.store.Get(r.Context(), callerID)
	if err != nil {
		h.log.Error("failed to get caller history", zap.Error(err))
		http.Error(w, "Failed to fetch history", http.StatusInternalServerError)
		return
	}
	if !ok {
		http.Error(w, "No history for this caller", http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(entry)
}

// ResetHistory clears all caller visit history
// @Summary Reset visit history
// @Description Delete all caller visit history entries. Subsequent runs start counting from scratch.
// @Tags history
// @Produce json
// @Success 200 {object} map[string]interface{} "History cleared"
// @Failure 500 {object} map[string]interface{} "Internal server error"
// @Router /history [delete]
func (h *HistoryHandler) ResetHistory(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Clear(r.Context()); err != nil {
		h.log.Error("failed to clear history", zap.Error(err))
		http.Error(w, "Failed to clear history", http.StatusInternalServerError)
		return
	}
	h.log.Info("visit history cleared")
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{
		"message": "Visit history cleared",
	})
}
