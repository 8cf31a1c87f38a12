package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/JoaoEstellita/ppp-gateway/internal/finance"
	"github.com/JoaoEstellita/ppp-gateway/internal/models"
	"github.com/JoaoEstellita/ppp-gateway/internal/normalize"
)

// MetricsService builds the monthly financial statement from per-month
// metrics snapshots fetched from the backend.
type MetricsService struct {
	api    Fetcher
	rates  finance.Rates
	logger *zap.SugaredLogger
}

// NewMetricsService creates a new metrics service.
func NewMetricsService(api Fetcher, rates finance.Rates, logger *zap.SugaredLogger) *MetricsService {
	return &MetricsService{api: api, rates: rates, logger: logger}
}

// Statement fetches the last n months of metrics for an org in parallel and
// reconciles them into a financial statement. Each month fetch is isolated:
// a failed month resolves to a nil snapshot and is excluded from the rollup
// — never retried, never zero-filled, and never fatal for the batch.
func (s *MetricsService) Statement(ctx context.Context, org string, months int) *models.Statement {
	now := time.Now()
	keys := finance.MonthKeys(now, months)

	// Each goroutine writes only its own slot, so no locking is needed.
	snapshots := make([]*models.MonthlySnapshot, len(keys))
	var wg sync.WaitGroup
	for i, yearMonth := range keys {
		wg.Add(1)
		go func(i int, yearMonth string) {
			defer wg.Done()
			path := fmt.Sprintf("/api/orgs/%s/metrics/%s", org, yearMonth)
			raw, err := s.api.GetJSON(ctx, path)
			if err != nil {
				s.logger.Warnw("Month metrics fetch failed",
					"org", org,
					"year_month", yearMonth,
					"error", err,
				)
				return
			}
			snapshots[i] = normalize.Snapshot(yearMonth, raw)
		}(i, yearMonth)
	}
	wg.Wait()

	return finance.BuildStatement(snapshots, now, s.rates)
}
