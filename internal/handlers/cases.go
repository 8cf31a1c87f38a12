// Package handlers contains HTTP request handlers for the gateway API.
// Handlers parse requests, call services, and return JSON responses.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/JoaoEstellita/ppp-gateway/internal/backend"
	"github.com/JoaoEstellita/ppp-gateway/internal/normalize"
	"github.com/JoaoEstellita/ppp-gateway/internal/services"
)

// CaseHandler handles case-related HTTP endpoints.
type CaseHandler struct {
	caseSvc *services.CaseService
	logger  *zap.SugaredLogger
}

// NewCaseHandler creates a new case handler.
func NewCaseHandler(cs *services.CaseService, logger *zap.SugaredLogger) *CaseHandler {
	return &CaseHandler{caseSvc: cs, logger: logger}
}

// Get handles GET /api/v1/cases/{caseID}
func (h *CaseHandler) Get(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	if caseID == "" {
		respondError(w, http.StatusBadRequest, "Case id required")
		return
	}

	c, err := h.caseSvc.Get(r.Context(), caseID)
	if err != nil {
		h.respondCaseError(w, caseID, err)
		return
	}
	respondJSON(w, http.StatusOK, c)
}

// GetDetail handles GET /api/v1/cases/{caseID}/detail
func (h *CaseHandler) GetDetail(w http.ResponseWriter, r *http.Request) {
	caseID := chi.URLParam(r, "caseID")
	if caseID == "" {
		respondError(w, http.StatusBadRequest, "Case id required")
		return
	}

	detail, err := h.caseSvc.GetDetail(r.Context(), caseID)
	if err != nil {
		h.respondCaseError(w, caseID, err)
		return
	}
	respondJSON(w, http.StatusOK, detail)
}

// respondCaseError maps service errors to HTTP responses. A payload with no
// resolvable id is surfaced as not-found: an id-less case is not a case.
func (h *CaseHandler) respondCaseError(w http.ResponseWriter, caseID string, err error) {
	switch {
	case errors.Is(err, backend.ErrNotFound):
		respondError(w, http.StatusNotFound, "Case not found")
	case errors.Is(err, normalize.ErrMissingCaseID):
		h.logger.Errorw("Backend returned case payload without id", "case_id", caseID, "error", err)
		respondError(w, http.StatusNotFound, "Case not found")
	default:
		h.logger.Errorw("Failed to fetch case", "case_id", caseID, "error", err)
		respondError(w, http.StatusBadGateway, "Backend unavailable")
	}
}

// Helper: respond with JSON
func respondJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// Helper: respond with error
func respondError(w http.ResponseWriter, status int, message string) {
	respondJSON(w, status, map[string]string{"error": message})
}
