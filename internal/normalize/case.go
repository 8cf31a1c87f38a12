package normalize

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/JoaoEstellita/ppp-gateway/internal/models"
)

// ErrMissingCaseID is the single unrecoverable normalization error: a case
// payload with no resolvable identifier is a contract violation by the
// backend that callers must surface, not hide. Every other malformed field
// degrades to a safe default.
var ErrMissingCaseID = errors.New("case payload has no resolvable id")

// CaseRecord normalizes the raw body for a single case. Fields may sit
// directly on the payload or nested under a "case" key, and worker/company
// may arrive as nested objects or as flat siblings; every supported shape
// produces the same canonical record.
func CaseRecord(payload Raw) (*models.Case, error) {
	if payload == nil {
		return nil, ErrMissingCaseID
	}
	rec, outer := payload, payload
	if nested, ok := payload["case"].(map[string]interface{}); ok {
		rec = nested
	}

	id := pick(rec, outer, "id", "case_id", "caseId")
	if id == "" {
		return nil, ErrMissingCaseID
	}

	status, raw := ClassifyStatus(Resolve(rec, "status"))
	c := &models.Case{
		ID:        id,
		Status:    status,
		CreatedAt: ResolveTime(rec, "created_at", "createdAt", "creation_date"),
		UpdatedAt: ResolveTime(rec, "updated_at", "updatedAt"),
		Worker:    worker(rec, outer),
		Company:   company(rec, outer),
		Documents: Documents(Resolve(rec, "documents", "case_documents", "caseDocuments")),
		Analysis:  Analysis(Resolve(rec, "analysis", "results", "rules_result")),
		Payment:   payment(rec),
		Telemetry: telemetry(rec),
	}
	if raw != nil && !IsKnownStatus(*raw) {
		c.RawStatus = *raw
	}
	return c, nil
}

// CaseDetail composes the full detail view from one payload: the case record
// plus worker, company, documents, analysis and workflow log, falling back
// from detail-level fields to the nested case-level ones. It fails only when
// CaseRecord fails.
func CaseDetail(payload Raw) (*models.CaseDetail, error) {
	c, err := CaseRecord(payload)
	if err != nil {
		return nil, err
	}
	detail := &models.CaseDetail{
		Case:        c,
		Worker:      c.Worker,
		Company:     c.Company,
		Documents:   c.Documents,
		Analysis:    c.Analysis,
		WorkflowLog: WorkflowLog(Resolve(payload, "workflow_logs", "workflowLogs", "logs", "workflow_log")),
	}

	// Detail payloads may carry richer sub-objects than the embedded case.
	if w := worker(payload, payload); w != nil {
		detail.Worker = w
	}
	if co := company(payload, payload); co != nil {
		detail.Company = co
	}
	if docs := Documents(Resolve(payload, "documents", "case_documents", "caseDocuments")); len(docs) > 0 {
		detail.Documents = docs
	}
	if a := Analysis(Resolve(payload, "analysis", "results", "rules_result")); a != nil {
		detail.Analysis = a
	}
	return detail, nil
}

// Snapshot normalizes one monthly metrics body for the given month. A nil or
// non-object body yields nil, the same as a failed fetch.
func Snapshot(yearMonth string, payload Raw) *models.MonthlySnapshot {
	if payload == nil {
		return nil
	}
	s := &models.MonthlySnapshot{
		YearMonth:    yearMonth,
		StatusCounts: map[string]int{},
		PaidCount:    ResolveInt(payload, "paidCount", "paid_count"),
		GrossAmount:  decimal.NewFromFloat(ResolveFloat(payload, "grossAmount", "gross_amount")),
	}
	if ym := ResolveString(payload, "year_month", "yearMonth"); ym != "" {
		s.YearMonth = ym
	}
	if counts, ok := Resolve(payload, "statusCounts", "status_counts").(map[string]interface{}); ok {
		for status, count := range counts {
			if n, ok := count.(float64); ok {
				s.StatusCounts[status] = int(n)
			}
		}
	}
	if v := Resolve(payload, "referralCount", "referral_count"); v != nil {
		n := ResolveInt(payload, "referralCount", "referral_count")
		s.ReferralCount = &n
	}
	if v := Resolve(payload, "referralPaidCount", "referral_paid_count"); v != nil {
		n := ResolveInt(payload, "referralPaidCount", "referral_paid_count")
		s.ReferralPaidCount = &n
	}
	return s
}

// pick resolves the same candidate keys against the case record first and
// the outer payload second.
func pick(rec, outer Raw, keys ...string) string {
	if s := ResolveString(rec, keys...); s != "" {
		return s
	}
	return ResolveString(outer, keys...)
}

func worker(rec, outer Raw) *models.Worker {
	w := &models.Worker{
		Name:      pick(rec, outer, "worker.name", "worker_name", "workerName"),
		TaxID:     pick(rec, outer, "worker.tax_id", "worker.cpf", "worker_tax_id", "worker_cpf", "workerCpf"),
		BirthDate: pick(rec, outer, "worker.birth_date", "worker.birthDate", "worker_birth_date", "workerBirthDate"),
	}
	if w.Name == "" && w.TaxID == "" && w.BirthDate == "" {
		return nil
	}
	return w
}

func company(rec, outer Raw) *models.Company {
	c := &models.Company{
		Name:  pick(rec, outer, "company.name", "company_name", "companyName"),
		TaxID: pick(rec, outer, "company.tax_id", "company.cnpj", "company_tax_id", "company_cnpj", "companyCnpj"),
	}
	if c.Name == "" && c.TaxID == "" {
		return nil
	}
	return c
}

func payment(rec Raw) *models.Payment {
	p := &models.Payment{
		ID:     ResolveString(rec, "payment.id", "payment_id", "paymentId"),
		Status: ResolveString(rec, "payment.status", "payment_status", "paymentStatus"),
		Amount: ResolveFloat(rec, "payment.amount", "payment_amount", "paymentAmount"),
		PaidAt: ResolveTime(rec, "payment.paid_at", "payment.paidAt", "paid_at", "paidAt"),
	}
	if p.ID == "" && p.Status == "" && p.Amount == 0 && p.PaidAt == nil {
		return nil
	}
	return p
}

func telemetry(rec Raw) models.Telemetry {
	return models.Telemetry{
		SubmitAttempts:     ResolveInt(rec, "submit_attempts", "submitAttempts"),
		LastSubmitAt:       ResolveTime(rec, "last_submit_at", "lastSubmitAt"),
		LastCallbackStatus: ResolveString(rec, "last_callback_status", "lastCallbackStatus"),
		LastCallbackAt:     ResolveTime(rec, "last_callback_at", "lastCallbackAt"),
		LastCallbackError:  ResolveString(rec, "last_callback_error", "lastCallbackError"),
		LastErrorCode:      ResolveString(rec, "last_error_code", "lastErrorCode"),
		LastErrorMessage:   ResolveString(rec, "last_error_message", "lastErrorMessage"),
		LastErrorStep:      ResolveString(rec, "last_error_step", "lastErrorStep"),
		LastErrorAt:        ResolveTime(rec, "last_error_at", "lastErrorAt"),
	}
}
