package normalize_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/JoaoEstellita/ppp-gateway/internal/normalize"
)

func TestDocuments_IDResolutionOrder(t *testing.T) {
	docs := normalize.Documents([]interface{}{
		map[string]interface{}{"id": "d1", "document_id": "ignored"},
		map[string]interface{}{"documentId": "d2"},
		map[string]interface{}{"case_document_id": "d3"},
		map[string]interface{}{"file_url": "https://files.example/d4.pdf"},
		map[string]interface{}{"type": "PPP"},
	})

	require.Len(t, docs, 5)
	assert.Equal(t, "d1", docs[0].ID)
	assert.Equal(t, "d2", docs[1].ID)
	assert.Equal(t, "d3", docs[2].ID)
	assert.Equal(t, "https://files.example/d4.pdf", docs[3].ID)
	// No id source at all: positional fallback keeps the entry renderable.
	assert.Equal(t, "doc-4", docs[4].ID)
}

func TestDocuments_NonListInput(t *testing.T) {
	assert.Empty(t, normalize.Documents(nil))
	assert.Empty(t, normalize.Documents("not a list"))
	assert.Empty(t, normalize.Documents(map[string]interface{}{"id": "x"}))
}

func TestDocuments_MalformedElementDoesNotInvalidateBatch(t *testing.T) {
	docs := normalize.Documents([]interface{}{
		map[string]interface{}{"id": "ok-1"},
		"garbage",
		float64(42),
		map[string]interface{}{"id": "ok-2", "file_name": "laudo.pdf"},
	})

	require.Len(t, docs, 2)
	assert.Equal(t, "ok-1", docs[0].ID)
	assert.Equal(t, "ok-2", docs[1].ID)
	assert.Equal(t, "laudo.pdf", docs[1].FileName)
}

func TestWorkflowLog_RequiresIDAndCreationTime(t *testing.T) {
	entries := normalize.WorkflowLog([]interface{}{
		map[string]interface{}{
			"id":         "log-1",
			"step":       "submit",
			"created_at": "2025-01-05T10:00:00Z",
		},
		map[string]interface{}{
			// no id
			"step":       "callback",
			"created_at": "2025-01-05T11:00:00Z",
		},
		map[string]interface{}{
			// no creation time
			"id":   "log-3",
			"step": "retry",
		},
		"not an object",
	})

	require.Len(t, entries, 1)
	assert.Equal(t, "log-1", entries[0].ID)
	assert.Equal(t, "submit", entries[0].Step)
	assert.NotNil(t, entries[0].CreatedAt)
}

func TestWorkflowLog_FieldSpellings(t *testing.T) {
	entries := normalize.WorkflowLog([]interface{}{
		map[string]interface{}{
			"logId":     "log-9",
			"stepName":  "pdf_generation",
			"status":    "ok",
			"message":   "generated",
			"timestamp": "2025-01-06",
			"metadata":  map[string]interface{}{"pages": float64(3)},
		},
	})

	require.Len(t, entries, 1)
	assert.Equal(t, "log-9", entries[0].ID)
	assert.Equal(t, "pdf_generation", entries[0].Step)
	assert.Equal(t, "ok", entries[0].Status)
	assert.Equal(t, "generated", entries[0].Message)
	assert.Equal(t, float64(3), entries[0].Metadata["pages"])
}

func TestWorkflowLog_NonListInput(t *testing.T) {
	assert.Empty(t, normalize.WorkflowLog(nil))
	assert.Empty(t, normalize.WorkflowLog("nope"))
}
