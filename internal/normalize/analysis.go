package normalize

import (
	"encoding/json"
	"reflect"
	"strings"

	"github.com/JoaoEstellita/ppp-gateway/internal/models"
)

// Upstream systems historically wrapped the same analysis payload under all
// of these keys at once, sometimes pointing back at the payload itself.
var analysisWrapperKeys = []string{"results", "rules_result", "analysis"}

// Recursion bound for wrapper unwrapping. Reference-equal cycles are skipped
// outright; the depth cap covers wrappers that copy rather than alias.
const maxAnalysisDepth = 8

const (
	maxEvidenceFindings = 50
	maxEvidenceExcerpt  = 200
)

// Analysis normalizes an arbitrary analysis payload — object, JSON-encoded
// string, array, or nothing — into one canonical record. It is side-effect
// free and never fails: unparsable JSON strings are treated as absent, and a
// payload with zero blocks, no classification, no summary and no flags
// returns nil because it is indistinguishable from "no analysis yet".
func Analysis(v interface{}) *models.Analysis {
	return analysisAt(v, 0)
}

func analysisAt(v interface{}, depth int) *models.Analysis {
	if depth > maxAnalysisDepth {
		return nil
	}

	var cur map[string]interface{}
	switch val := v.(type) {
	case string:
		var decoded interface{}
		if err := json.Unmarshal([]byte(val), &decoded); err != nil {
			return nil
		}
		return analysisAt(decoded, depth+1)
	case []interface{}:
		// Latest result wins.
		if len(val) == 0 {
			return nil
		}
		return analysisAt(val[len(val)-1], depth+1)
	case map[string]interface{}:
		cur = val
	default:
		return nil
	}

	// Unwrap nested copies first, skipping any key that aliases the object
	// already being processed.
	var nested []*models.Analysis
	for _, key := range analysisWrapperKeys {
		sub, present := cur[key]
		if !present || sub == nil {
			continue
		}
		if subMap, ok := sub.(map[string]interface{}); ok && sameObject(subMap, cur) {
			continue
		}
		if n := analysisAt(sub, depth+1); n != nil {
			nested = append(nested, n)
		}
	}

	result := &models.Analysis{
		ID:        ResolveString(cur, "id", "analysis_id", "analysisId"),
		CaseID:    ResolveString(cur, "case_id", "caseId"),
		CreatedAt: ResolveTime(cur, "created_at", "createdAt"),
		Blocks:    blocks(Resolve(cur, "blocks")),
	}

	// Each field falls through the unwrapped copies independently:
	// the current object wins, then the wrappers in declaration order.
	if len(result.Blocks) == 0 {
		for _, n := range nested {
			if len(n.Blocks) > 0 {
				result.Blocks = n.Blocks
				break
			}
		}
	}
	result.FinalClassification = ResolveString(cur, "final_classification", "finalClassification", "classification")
	for _, n := range nested {
		if result.FinalClassification != "" {
			break
		}
		result.FinalClassification = n.FinalClassification
	}
	result.Summary = ResolveString(cur, "summary", "summary_text", "summaryText")
	for _, n := range nested {
		if result.Summary != "" {
			break
		}
		result.Summary = n.Summary
	}
	result.Flags = stringList(Resolve(cur, "flags"))
	for _, n := range nested {
		if len(result.Flags) > 0 {
			break
		}
		result.Flags = n.Flags
	}

	// No blocks, no classification, no summary, no flags: no signal at all.
	if len(result.Blocks) == 0 && result.FinalClassification == "" &&
		result.Summary == "" && len(result.Flags) == 0 {
		return nil
	}

	result.FormalConformity = token(cur, nested, func(n *models.Analysis) string { return n.FormalConformity },
		"formal_conformity", "formalConformity", "conformidade_formal")
	result.TechnicalConformity = token(cur, nested, func(n *models.Analysis) string { return n.TechnicalConformity },
		"technical_conformity", "technicalConformity", "conformidade_tecnica")
	result.ProbativeValue = token(cur, nested, func(n *models.Analysis) string { return n.ProbativeValue },
		"probative_value", "probativeValue", "valor_probatorio")
	result.ConfidenceLevel = token(cur, nested, func(n *models.Analysis) string { return n.ConfidenceLevel },
		"confidence_level", "confidenceLevel", "confidence")
	result.FailureType = token(cur, nested, func(n *models.Analysis) string { return n.FailureType },
		"failure_type", "failureType")

	if result.ProbativeValue == "" {
		result.ProbativeValue = deriveProbativeValue(result.FormalConformity, result.TechnicalConformity)
	}

	result.Findings = evidenceFindings(Resolve(cur, "findings", "evidence_findings", "evidenceFindings"))
	if len(result.Findings) == 0 {
		for _, n := range nested {
			if len(n.Findings) > 0 {
				result.Findings = n.Findings
				break
			}
		}
	}

	if result.ID == "" || result.CaseID == "" || result.CreatedAt == nil {
		for _, n := range nested {
			if result.ID == "" {
				result.ID = n.ID
			}
			if result.CaseID == "" {
				result.CaseID = n.CaseID
			}
			if result.CreatedAt == nil {
				result.CreatedAt = n.CreatedAt
			}
		}
	}

	return result
}

// sameObject reports whether two decoded maps share the same underlying
// storage. Maps are not comparable with ==, so the header pointer is used.
func sameObject(a, b map[string]interface{}) bool {
	return reflect.ValueOf(a).Pointer() == reflect.ValueOf(b).Pointer()
}

func token(cur Raw, nested []*models.Analysis, pick func(*models.Analysis) string, keys ...string) string {
	if s := strings.ToUpper(strings.TrimSpace(ResolveString(cur, keys...))); s != "" {
		return s
	}
	for _, n := range nested {
		if s := pick(n); s != "" {
			return s
		}
	}
	return ""
}

// deriveProbativeValue fills in the probative value from the conformity pair
// when the source omits it: a formally non-conforming document has none, a
// technically conforming one is sufficient, anything else is insufficient.
// With neither token present nothing can be derived.
func deriveProbativeValue(formal, technical string) string {
	if formal == "" && technical == "" {
		return ""
	}
	if formal == models.ConformityNaoConforme {
		return models.ProbativeInexistente
	}
	if technical == models.ConformityConforme {
		return models.ProbativeSuficiente
	}
	return models.ProbativeInsuficiente
}

func blocks(v interface{}) []models.Block {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]models.Block, 0, len(items))
	for _, item := range items {
		if b := block(item); b != nil {
			out = append(out, *b)
		}
	}
	return out
}

func block(v interface{}) *models.Block {
	m, ok := v.(map[string]interface{})
	if !ok {
		return nil
	}
	status := blockStatus(ResolveString(m, "status"))
	compliant := status == models.BlockApproved
	if explicit, ok := Resolve(m, "compliant", "is_compliant", "isCompliant").(bool); ok {
		compliant = explicit
	}
	return &models.Block{
		ID:        ResolveString(m, "id", "block_id", "blockId", "key"),
		Title:     ResolveString(m, "title", "name", "label"),
		Text:      ResolveString(m, "text", "content", "description"),
		Compliant: compliant,
		Issues:    stringList(Resolve(m, "issues", "problems")),
		Status:    status,
		Findings:  blockFindings(Resolve(m, "findings")),
	}
}

func blockStatus(raw string) models.BlockStatus {
	switch st := models.BlockStatus(strings.ToUpper(strings.TrimSpace(raw))); st {
	case models.BlockApproved, models.BlockPending, models.BlockReproved, models.BlockNotEvaluated:
		return st
	default:
		return models.BlockNotEvaluated
	}
}

func blockFindings(v interface{}) []models.BlockFinding {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]models.BlockFinding, 0, len(items))
	for _, item := range items {
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		out = append(out, models.BlockFinding{
			Code:    ResolveString(m, "code"),
			Level:   ResolveString(m, "level", "severity"),
			Message: ResolveString(m, "message", "description"),
		})
	}
	return out
}

func evidenceFindings(v interface{}) []models.EvidenceFinding {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]models.EvidenceFinding, 0, len(items))
	for _, item := range items {
		if len(out) >= maxEvidenceFindings {
			break
		}
		m, ok := item.(map[string]interface{})
		if !ok {
			continue
		}
		evidence := ResolveString(m, "evidence", "excerpt", "evidence_excerpt", "evidenceExcerpt")
		if r := []rune(evidence); len(r) > maxEvidenceExcerpt {
			evidence = string(r[:maxEvidenceExcerpt])
		}
		severity := strings.ToUpper(strings.TrimSpace(ResolveString(m, "severity", "level")))
		if severity == "" {
			severity = models.SeverityInfo
		}
		// A critical claim with nothing backing it is not trusted.
		if severity == models.SeverityCritical && strings.TrimSpace(evidence) == "" {
			severity = models.SeverityWarning
		}
		out = append(out, models.EvidenceFinding{
			Field:       ResolveString(m, "field", "field_reference", "fieldReference"),
			Explanation: ResolveString(m, "explanation", "reason", "message"),
			Evidence:    evidence,
			Severity:    severity,
		})
	}
	return out
}

func stringList(v interface{}) []string {
	items, ok := v.([]interface{})
	if !ok {
		return nil
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		if s := Stringify(item); s != "" {
			out = append(out, s)
		}
	}
	return out
}
