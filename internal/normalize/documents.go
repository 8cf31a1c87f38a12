package normalize

import (
	"fmt"

	"github.com/JoaoEstellita/ppp-gateway/internal/models"
)

// Documents maps a raw value to canonical document records. Non-list input
// yields an empty list, and each element is mapped independently so one
// malformed entry never invalidates the batch.
//
// Id resolution order: explicit id, document id, case-document id, file URL,
// and finally the positional fallback "doc-<index>". The positional key
// guarantees something stable for list rendering without fabricating a
// semantic identity.
func Documents(v interface{}) []models.Document {
	items, ok := v.([]interface{})
	if !ok {
		return []models.Document{}
	}
	docs := make([]models.Document, 0, len(items))
	for i, item := range items {
		if doc := document(item, i); doc != nil {
			docs = append(docs, *doc)
		}
	}
	return docs
}

func document(v interface{}, index int) *models.Document {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	url := ResolveString(m, "url", "file_url", "fileUrl", "download_url", "downloadUrl")
	id := ResolveString(m, "id", "document_id", "documentId", "case_document_id", "caseDocumentId")
	if id == "" {
		id = url
	}
	if id == "" {
		id = fmt.Sprintf("doc-%d", index)
	}
	return &models.Document{
		ID:       id,
		Type:     ResolveString(m, "type", "category", "document_type", "documentType"),
		FileName: ResolveString(m, "file_name", "fileName", "filename", "name"),
		URL:      url,
	}
}

// WorkflowLog maps a raw value to canonical workflow-log entries. Entries
// need both an id and a creation time; without them they can be neither
// keyed nor ordered reliably and are dropped.
func WorkflowLog(v interface{}) []models.WorkflowLogEntry {
	items, ok := v.([]interface{})
	if !ok {
		return []models.WorkflowLogEntry{}
	}
	entries := make([]models.WorkflowLogEntry, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		id := ResolveString(m, "id", "log_id", "logId")
		createdAt := ResolveTime(m, "created_at", "createdAt", "timestamp")
		if id == "" || createdAt == nil {
			continue
		}
		metadata, _ := Resolve(m, "metadata", "meta").(map[string]interface{})
		entries = append(entries, models.WorkflowLogEntry{
			ID:        id,
			Step:      ResolveString(m, "step", "step_name", "stepName", "name"),
			Status:    ResolveString(m, "status"),
			Message:   ResolveString(m, "message", "detail"),
			Metadata:  metadata,
			CreatedAt: createdAt,
		})
	}
	return entries
}
