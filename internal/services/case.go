// Package services contains the business logic layers. Services fetch raw
// payloads from the case-management backend and hand them to the normalizers;
// handlers call services and never touch raw payloads directly.
package services

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/JoaoEstellita/ppp-gateway/internal/models"
	"github.com/JoaoEstellita/ppp-gateway/internal/normalize"
)

// Fetcher fetches one JSON document from the backend. Services depend on
// this interface rather than the concrete client so tests can inject fakes.
type Fetcher interface {
	GetJSON(ctx context.Context, path string) (map[string]interface{}, error)
}

// CaseService fetches and normalizes case records.
type CaseService struct {
	api    Fetcher
	logger *zap.SugaredLogger
}

// NewCaseService creates a new case service.
func NewCaseService(api Fetcher, logger *zap.SugaredLogger) *CaseService {
	return &CaseService{api: api, logger: logger}
}

// Get fetches one case and normalizes it into the canonical record.
// Every refresh produces a brand-new record; nothing is cached.
func (s *CaseService) Get(ctx context.Context, id string) (*models.Case, error) {
	raw, err := s.api.GetJSON(ctx, "/api/cases/"+id)
	if err != nil {
		return nil, fmt.Errorf("fetch case %s: %w", id, err)
	}

	c, err := normalize.CaseRecord(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize case %s: %w", id, err)
	}
	if c.RawStatus != "" {
		s.logger.Warnw("Unknown case status from backend",
			"case_id", c.ID,
			"raw_status", c.RawStatus,
		)
	}
	return c, nil
}

// GetDetail fetches the full detail view for one case.
func (s *CaseService) GetDetail(ctx context.Context, id string) (*models.CaseDetail, error) {
	raw, err := s.api.GetJSON(ctx, "/api/cases/"+id+"/detail")
	if err != nil {
		return nil, fmt.Errorf("fetch case detail %s: %w", id, err)
	}

	detail, err := normalize.CaseDetail(raw)
	if err != nil {
		return nil, fmt.Errorf("normalize case detail %s: %w", id, err)
	}
	if detail.Case.RawStatus != "" {
		s.logger.Warnw("Unknown case status from backend",
			"case_id", detail.Case.ID,
			"raw_status", detail.Case.RawStatus,
		)
	}
	return detail, nil
}
