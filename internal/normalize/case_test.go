package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoaoEstellita/ppp-gateway/internal/models"
	"github.com/JoaoEstellita/ppp-gateway/internal/normalize"
)

func TestCaseRecord_ShapeEquivalence(t *testing.T) {
	// The same case expressed in the historically-supported shapes must
	// produce byte-for-byte the same canonical record.
	flat := map[string]interface{}{
		"id":           "case-77",
		"status":       "processing",
		"created_at":   "2025-02-01T08:00:00Z",
		"worker_name":  "João Pereira",
		"worker_cpf":   "98765432100",
		"company_name": "Metalúrgica Ipê",
		"company_cnpj": "11222333000144",
		"documents": []interface{}{
			map[string]interface{}{"id": "d1", "type": "PPP"},
		},
	}
	nested := map[string]interface{}{
		"case": map[string]interface{}{
			"id":         "case-77",
			"status":     "processing",
			"created_at": "2025-02-01T08:00:00Z",
			"worker": map[string]interface{}{
				"name": "João Pereira",
				"cpf":  "98765432100",
			},
			"company": map[string]interface{}{
				"name": "Metalúrgica Ipê",
				"cnpj": "11222333000144",
			},
			"documents": []interface{}{
				map[string]interface{}{"id": "d1", "type": "PPP"},
			},
		},
	}
	camel := map[string]interface{}{
		"caseId":      "case-77",
		"status":      "processing",
		"createdAt":   "2025-02-01T08:00:00Z",
		"workerName":  "João Pereira",
		"workerCpf":   "98765432100",
		"companyName": "Metalúrgica Ipê",
		"companyCnpj": "11222333000144",
		"documents": []interface{}{
			map[string]interface{}{"id": "d1", "type": "PPP"},
		},
	}

	fromFlat, err := normalize.CaseRecord(flat)
	require.NoError(t, err)
	fromNested, err := normalize.CaseRecord(nested)
	require.NoError(t, err)
	fromCamel, err := normalize.CaseRecord(camel)
	require.NoError(t, err)

	assert.Equal(t, fromFlat, fromNested)
	assert.Equal(t, fromFlat, fromCamel)

	assert.Equal(t, "case-77", fromFlat.ID)
	assert.Equal(t, models.StatusProcessing, fromFlat.Status)
	assert.Empty(t, fromFlat.RawStatus)
	require.NotNil(t, fromFlat.Worker)
	assert.Equal(t, "João Pereira", fromFlat.Worker.Name)
	assert.Equal(t, "98765432100", fromFlat.Worker.TaxID)
	require.NotNil(t, fromFlat.Company)
	assert.Equal(t, "11222333000144", fromFlat.Company.TaxID)
	require.Len(t, fromFlat.Documents, 1)
}

func TestCaseRecord_MissingIDFailsFast(t *testing.T) {
	tests := []struct {
		name    string
		payload map[string]interface{}
	}{
		{name: "nil payload", payload: nil},
		{name: "empty payload", payload: map[string]interface{}{}},
		{
			name:    "fields but no id",
			payload: map[string]interface{}{"status": "done", "worker_name": "Ana"},
		},
		{
			name:    "nested case without id",
			payload: map[string]interface{}{"case": map[string]interface{}{"status": "done"}},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c, err := normalize.CaseRecord(tt.payload)
			assert.Nil(t, c)
			assert.ErrorIs(t, err, normalize.ErrMissingCaseID)
		})
	}
}

func TestCaseRecord_UnknownStatusPreserved(t *testing.T) {
	c, err := normalize.CaseRecord(map[string]interface{}{
		"id":     "case-1",
		"status": "PROCESINNG",
	})

	require.NoError(t, err)
	assert.Equal(t, models.StatusAwaitingPayment, c.Status)
	assert.Equal(t, "PROCESINNG", c.RawStatus)
}

func TestCaseRecord_EverythingElseDegrades(t *testing.T) {
	c, err := normalize.CaseRecord(map[string]interface{}{
		"id":         float64(42),
		"status":     nil,
		"created_at": "not a date",
		"documents":  "not a list",
		"analysis":   "{broken json",
	})

	require.NoError(t, err)
	assert.Equal(t, "42", c.ID)
	assert.Equal(t, models.StatusAwaitingPayment, c.Status)
	assert.Empty(t, c.RawStatus)
	assert.Nil(t, c.CreatedAt)
	assert.Empty(t, c.Documents)
	assert.Nil(t, c.Analysis)
	assert.Nil(t, c.Worker)
	assert.Nil(t, c.Company)
	assert.Nil(t, c.Payment)
}

func TestCaseRecord_Telemetry(t *testing.T) {
	c, err := normalize.CaseRecord(map[string]interface{}{
		"id":                   "case-5",
		"submit_attempts":      float64(3),
		"last_submit_at":       "2025-03-01T09:00:00Z",
		"last_callback_status": "failed",
		"last_error_code":      "E_TIMEOUT",
		"last_error_step":      "pdf_generation",
	})

	require.NoError(t, err)
	assert.Equal(t, 3, c.Telemetry.SubmitAttempts)
	assert.NotNil(t, c.Telemetry.LastSubmitAt)
	assert.Equal(t, "failed", c.Telemetry.LastCallbackStatus)
	assert.Equal(t, "E_TIMEOUT", c.Telemetry.LastErrorCode)
	assert.Equal(t, "pdf_generation", c.Telemetry.LastErrorStep)
}

func TestCaseRecord_Payment(t *testing.T) {
	c, err := normalize.CaseRecord(map[string]interface{}{
		"id": "case-6",
		"payment": map[string]interface{}{
			"id":      "pay-1",
			"status":  "paid",
			"amount":  float64(89.9),
			"paid_at": "2025-02-15T12:00:00Z",
		},
	})

	require.NoError(t, err)
	require.NotNil(t, c.Payment)
	assert.Equal(t, "pay-1", c.Payment.ID)
	assert.Equal(t, "paid", c.Payment.Status)
	assert.Equal(t, 89.9, c.Payment.Amount)
	assert.NotNil(t, c.Payment.PaidAt)
}

func TestCaseDetail_ComposesAndFallsBack(t *testing.T) {
	payload := map[string]interface{}{
		"case": map[string]interface{}{
			"id":          "case-9",
			"status":      "done",
			"worker_name": "embedded worker",
			"documents": []interface{}{
				map[string]interface{}{"id": "embedded-doc"},
			},
		},
		// Detail-level sub-objects win over the embedded case.
		"worker": map[string]interface{}{"name": "detail worker"},
		"documents": []interface{}{
			map[string]interface{}{"id": "detail-doc"},
		},
		"workflow_logs": []interface{}{
			map[string]interface{}{
				"id":         "log-1",
				"step":       "analysis",
				"created_at": "2025-02-20T10:00:00Z",
			},
		},
	}

	detail, err := normalize.CaseDetail(payload)
	require.NoError(t, err)

	assert.Equal(t, "case-9", detail.Case.ID)
	require.NotNil(t, detail.Worker)
	assert.Equal(t, "detail worker", detail.Worker.Name)
	require.Len(t, detail.Documents, 1)
	assert.Equal(t, "detail-doc", detail.Documents[0].ID)
	require.Len(t, detail.WorkflowLog, 1)
	assert.Equal(t, "analysis", detail.WorkflowLog[0].Step)
}

func TestCaseDetail_FallsBackToCaseLevelFields(t *testing.T) {
	detail, err := normalize.CaseDetail(map[string]interface{}{
		"case": map[string]interface{}{
			"id": "case-10",
			"worker": map[string]interface{}{
				"name": "embedded worker",
			},
			"documents": []interface{}{
				map[string]interface{}{"id": "embedded-doc"},
			},
		},
	})
	require.NoError(t, err)

	require.NotNil(t, detail.Worker)
	assert.Equal(t, "embedded worker", detail.Worker.Name)
	require.Len(t, detail.Documents, 1)
	assert.Equal(t, "embedded-doc", detail.Documents[0].ID)
	assert.Empty(t, detail.WorkflowLog)
}

func TestCaseDetail_MissingIDPropagates(t *testing.T) {
	detail, err := normalize.CaseDetail(map[string]interface{}{"worker_name": "Ana"})
	assert.Nil(t, detail)
	assert.ErrorIs(t, err, normalize.ErrMissingCaseID)
}
