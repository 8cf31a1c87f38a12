package handlers

import (
	"net/http"
	"strconv"

	"go.uber.org/zap"

	"github.com/JoaoEstellita/ppp-gateway/internal/services"
)

const (
	defaultStatementMonths = 12
	maxStatementMonths     = 36
)

// FinanceHandler serves the derived monthly financial statement.
type FinanceHandler struct {
	metricsSvc *services.MetricsService
	logger     *zap.SugaredLogger
}

// NewFinanceHandler creates a new finance handler.
func NewFinanceHandler(ms *services.MetricsService, logger *zap.SugaredLogger) *FinanceHandler {
	return &FinanceHandler{metricsSvc: ms, logger: logger}
}

// Statement handles GET /api/v1/finance/statement?org={org}&months={n}
// Months whose fetch failed are absent from the rows; the rollup covers the
// months that did resolve.
func (h *FinanceHandler) Statement(w http.ResponseWriter, r *http.Request) {
	org := r.URL.Query().Get("org")
	if org == "" {
		respondError(w, http.StatusBadRequest, "Query parameter org required")
		return
	}

	months := defaultStatementMonths
	if v := r.URL.Query().Get("months"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil || n < 1 || n > maxStatementMonths {
			respondError(w, http.StatusBadRequest, "Invalid months parameter")
			return
		}
		months = n
	}

	statement := h.metricsSvc.Statement(r.Context(), org, months)
	h.logger.Infow("Statement built",
		"org", org,
		"months_requested", months,
		"months_resolved", len(statement.Rows),
	)
	respondJSON(w, http.StatusOK, statement)
}
