package handlers

import (
	"net/http"
	"time"

	"go.uber.org/zap"

	"github.com/JoaoEstellita/ppp-gateway/internal/backend"
	"github.com/JoaoEstellita/ppp-gateway/internal/models"
)

var startTime = time.Now()

const version = "1.3.0"

// HealthHandler provides health check endpoints
type HealthHandler struct {
	api    *backend.Client
	logger *zap.SugaredLogger
}

// NewHealthHandler creates a new health handler
func NewHealthHandler(api *backend.Client, logger *zap.SugaredLogger) *HealthHandler {
	return &HealthHandler{api: api, logger: logger}
}

// Check handles GET /api/v1/health (liveness probe)
func (h *HealthHandler) Check(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, models.HealthStatus{
		Status:  "ok",
		Version: version,
		Uptime:  time.Since(startTime).String(),
	})
}

// Ready handles GET /api/v1/health/ready (readiness probe)
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	if err := h.api.Ping(r.Context()); err != nil {
		h.logger.Warnw("Backend not reachable", "error", err)
		respondJSON(w, http.StatusServiceUnavailable, models.HealthStatus{
			Status:  "not ready",
			Version: version,
			Backend: "disconnected",
		})
		return
	}

	respondJSON(w, http.StatusOK, models.HealthStatus{
		Status:  "ready",
		Version: version,
		Uptime:  time.Since(startTime).String(),
		Backend: "connected",
	})
}
