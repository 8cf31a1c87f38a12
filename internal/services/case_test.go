package services_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/JoaoEstellita/ppp-gateway/internal/models"
	"github.com/JoaoEstellita/ppp-gateway/internal/normalize"
	"github.com/JoaoEstellita/ppp-gateway/internal/services"
)

func TestCaseService_Get(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.payloads["/api/cases/case-1"] = map[string]interface{}{
		"id":     "case-1",
		"status": "paid_processing",
	}

	svc := services.NewCaseService(fetcher, zap.NewNop().Sugar())
	c, err := svc.Get(context.Background(), "case-1")

	require.NoError(t, err)
	assert.Equal(t, "case-1", c.ID)
	assert.Equal(t, models.StatusPaidProcessing, c.Status)
}

func TestCaseService_Get_MissingIDSurfaces(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.payloads["/api/cases/broken"] = map[string]interface{}{
		"status": "done",
	}

	svc := services.NewCaseService(fetcher, zap.NewNop().Sugar())
	c, err := svc.Get(context.Background(), "broken")

	assert.Nil(t, c)
	assert.ErrorIs(t, err, normalize.ErrMissingCaseID)
}

func TestCaseService_GetDetail(t *testing.T) {
	fetcher := newFakeFetcher()
	fetcher.payloads["/api/cases/case-2/detail"] = map[string]interface{}{
		"case": map[string]interface{}{
			"id":     "case-2",
			"status": "done",
		},
		"workflow_logs": []interface{}{
			map[string]interface{}{
				"id":         "log-1",
				"step":       "analysis",
				"created_at": "2025-01-10T09:00:00Z",
			},
		},
	}

	svc := services.NewCaseService(fetcher, zap.NewNop().Sugar())
	detail, err := svc.GetDetail(context.Background(), "case-2")

	require.NoError(t, err)
	assert.Equal(t, "case-2", detail.Case.ID)
	require.Len(t, detail.WorkflowLog, 1)
	assert.Equal(t, "log-1", detail.WorkflowLog[0].ID)
}

func TestCaseService_Get_FetchErrorWrapped(t *testing.T) {
	fetcher := newFakeFetcher()

	svc := services.NewCaseService(fetcher, zap.NewNop().Sugar())
	c, err := svc.Get(context.Background(), "missing")

	assert.Nil(t, c)
	assert.Error(t, err)
}
