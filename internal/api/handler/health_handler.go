package handler

import (
	"encoding/json"
	"net/http"
	"time"

	"go.uber.org/zap"

	"go-visit-pipeline/internal/store"
)

// HealthHandler reports service liveness and run-store reachability.
type HealthHandler struct {
	runs *store.Store
	log  *zap.Logger
}

func NewHealthHandler(runs *store.Store, log *zap.Logger) *HealthHandler {
	if log == nil {
		log = zap.NewNop()
	}
	return &HealthHandler{runs: runs, log: log}
}

// Health returns service health
// @Summary Health check
// @Description Check service and database health
// @Tags health
// @Produce json
// @Success 200 {object} map[string]interface{} "Service healthy"
// @Failure 503 {object} map[string]interface{} "Database unreachable"
// @Router /health [get]
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	status := "ok"
	code := http.StatusOK
	if err := h.runs.Health(r.Context()); err != nil {
		h.log.Warn("health check failed", zap.Error(err))
		status = "degraded"
		code = http.StatusServiceUnavailable
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(map[string]interface{}{
		"status": status,
		"time":   time.Now().UTC(),
	})
}
