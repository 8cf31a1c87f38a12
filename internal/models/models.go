// Package models defines the canonical records produced by the gateway.
// Every raw backend shape collapses into these structures; downstream code
// never sees the historical field spellings.
package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// CaseStatus is the closed vocabulary for a case's lifecycle state.
// Raw values outside this set degrade to StatusAwaitingPayment.
type CaseStatus string

const (
	StatusAwaitingPayment CaseStatus = "awaiting_payment"
	StatusAwaitingPDF     CaseStatus = "awaiting_pdf"
	StatusReadyToProcess  CaseStatus = "ready_to_process"
	StatusProcessing      CaseStatus = "processing"
	StatusPaidProcessing  CaseStatus = "paid_processing"
	StatusDone            CaseStatus = "done"
	StatusPendingInfo     CaseStatus = "pending_info"
	StatusError           CaseStatus = "error"
)

// Worker is the person whose documents are being audited.
type Worker struct {
	Name      string `json:"name,omitempty"`
	TaxID     string `json:"tax_id,omitempty"`
	BirthDate string `json:"birth_date,omitempty"`
}

// Company is the employer referenced by the case.
type Company struct {
	Name  string `json:"name,omitempty"`
	TaxID string `json:"tax_id,omitempty"`
}

// Document is one file attached to a case. ID is always non-empty: when the
// backend supplies no usable identifier the normalizer assigns a positional
// fallback so list rendering always has a stable key.
type Document struct {
	ID       string `json:"id"`
	Type     string `json:"type,omitempty"`
	FileName string `json:"file_name,omitempty"`
	URL      string `json:"url,omitempty"`
}

// WorkflowLogEntry is one step recorded by the backend's processing pipeline.
// Entries without both an id and a creation time are discarded upstream.
type WorkflowLogEntry struct {
	ID        string                 `json:"id"`
	Step      string                 `json:"step"`
	Status    string                 `json:"status,omitempty"`
	Message   string                 `json:"message,omitempty"`
	Metadata  map[string]interface{} `json:"metadata,omitempty"`
	CreatedAt *time.Time             `json:"created_at"`
}

// Final classification values reported by the automated analysis.
const (
	ClassificationAtende          = "ATENDE_INTEGRALMENTE"
	ClassificationInconsistencias = "POSSUI_INCONSISTENCIAS_SANAVEIS"
	ClassificationSemValidade     = "NAO_POSSUI_VALIDADE_TECNICA"
)

// Conformity and probative-value tokens used by the richer analysis fields.
const (
	ConformityConforme    = "CONFORME"
	ConformityNaoConforme = "NAO_CONFORME"
	ConformityPendente    = "PENDENTE"

	ProbativeSuficiente   = "SUFICIENTE"
	ProbativeInsuficiente = "INSUFICIENTE"
	ProbativeInexistente  = "INEXISTENTE"
)

// BlockStatus is the closed vocabulary for one analysis block.
type BlockStatus string

const (
	BlockApproved     BlockStatus = "APPROVED"
	BlockPending      BlockStatus = "PENDING"
	BlockReproved     BlockStatus = "REPROVED"
	BlockNotEvaluated BlockStatus = "NOT_EVALUATED"
)

// BlockFinding is a coded issue attached to a single analysis block.
type BlockFinding struct {
	Code    string `json:"code,omitempty"`
	Level   string `json:"level,omitempty"`
	Message string `json:"message,omitempty"`
}

// Block is one section of the automated document analysis.
type Block struct {
	ID        string         `json:"id,omitempty"`
	Title     string         `json:"title,omitempty"`
	Text      string         `json:"text,omitempty"`
	Compliant bool           `json:"compliant"`
	Issues    []string       `json:"issues,omitempty"`
	Status    BlockStatus    `json:"status"`
	Findings  []BlockFinding `json:"findings,omitempty"`
}

// Severity levels for evidence findings.
const (
	SeverityCritical = "CRITICAL"
	SeverityWarning  = "WARNING"
	SeverityInfo     = "INFO"
)

// EvidenceFinding ties a flagged issue to the literal excerpt supporting it.
// A CRITICAL finding without an excerpt is downgraded to WARNING during
// normalization; unsupported critical claims are not taken at face value.
type EvidenceFinding struct {
	Field       string `json:"field,omitempty"`
	Explanation string `json:"explanation,omitempty"`
	Evidence    string `json:"evidence,omitempty"`
	Severity    string `json:"severity"`
}

// Analysis is the canonical result of the automated document analysis.
// An empty FinalClassification means "not yet classified".
type Analysis struct {
	ID                  string            `json:"id,omitempty"`
	CaseID              string            `json:"case_id,omitempty"`
	CreatedAt           *time.Time        `json:"created_at,omitempty"`
	FinalClassification string            `json:"final_classification,omitempty"`
	Blocks              []Block           `json:"blocks"`
	Summary             string            `json:"summary,omitempty"`
	Flags               []string          `json:"flags,omitempty"`
	FormalConformity    string            `json:"formal_conformity,omitempty"`
	TechnicalConformity string            `json:"technical_conformity,omitempty"`
	ProbativeValue      string            `json:"probative_value,omitempty"`
	ConfidenceLevel     string            `json:"confidence_level,omitempty"`
	FailureType         string            `json:"failure_type,omitempty"`
	Findings            []EvidenceFinding `json:"findings,omitempty"`
}

// Payment is the payment information reported alongside a case.
type Payment struct {
	ID     string     `json:"id,omitempty"`
	Status string     `json:"status,omitempty"`
	Amount float64    `json:"amount,omitempty"`
	PaidAt *time.Time `json:"paid_at,omitempty"`
}

// Telemetry carries the processing diagnostics the backend attaches to a case.
type Telemetry struct {
	SubmitAttempts     int        `json:"submit_attempts"`
	LastSubmitAt       *time.Time `json:"last_submit_at,omitempty"`
	LastCallbackStatus string     `json:"last_callback_status,omitempty"`
	LastCallbackAt     *time.Time `json:"last_callback_at,omitempty"`
	LastCallbackError  string     `json:"last_callback_error,omitempty"`
	LastErrorCode      string     `json:"last_error_code,omitempty"`
	LastErrorMessage   string     `json:"last_error_message,omitempty"`
	LastErrorStep      string     `json:"last_error_step,omitempty"`
	LastErrorAt        *time.Time `json:"last_error_at,omitempty"`
}

// Case is the canonical record for one document-audit request.
// RawStatus preserves the backend's original value when it fell outside the
// CaseStatus vocabulary, so callers can log "unknown status: X" while the
// record itself stays in a known state.
type Case struct {
	ID        string     `json:"id"`
	Status    CaseStatus `json:"status"`
	RawStatus string     `json:"raw_status,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty"`
	UpdatedAt *time.Time `json:"updated_at,omitempty"`
	Worker    *Worker    `json:"worker,omitempty"`
	Company   *Company   `json:"company,omitempty"`
	Documents []Document `json:"documents"`
	Analysis  *Analysis  `json:"analysis,omitempty"`
	Payment   *Payment   `json:"payment,omitempty"`
	Telemetry Telemetry  `json:"telemetry"`
}

// CaseDetail is the composed detail view served to presentation clients.
// Detail-level sub-objects win over the ones nested inside the case payload.
type CaseDetail struct {
	Case        *Case              `json:"case"`
	Worker      *Worker            `json:"worker,omitempty"`
	Company     *Company           `json:"company,omitempty"`
	Documents   []Document         `json:"documents"`
	Analysis    *Analysis          `json:"analysis,omitempty"`
	WorkflowLog []WorkflowLogEntry `json:"workflow_log"`
}

// MonthlySnapshot is one org's metrics for one calendar month, immutable once
// fetched. A failed month fetch yields a nil snapshot, never a zeroed one.
type MonthlySnapshot struct {
	YearMonth         string          `json:"year_month"`
	StatusCounts      map[string]int  `json:"status_counts"`
	PaidCount         int             `json:"paid_count"`
	GrossAmount       decimal.Decimal `json:"gross_amount"`
	ReferralCount     *int            `json:"referral_count,omitempty"`
	ReferralPaidCount *int            `json:"referral_paid_count,omitempty"`
}

// Accounting period states for a statement row.
const (
	PeriodOpen   = "aberto"
	PeriodClosed = "fechado"
)

// StatementRow is one month of the derived financial statement.
type StatementRow struct {
	YearMonth         string          `json:"year_month"`
	PaidCount         int             `json:"paid_count"`
	GrossAmount       decimal.Decimal `json:"gross_amount"`
	PartnerShare      decimal.Decimal `json:"partner_share"`
	PlatformRevenue   decimal.Decimal `json:"platform_revenue"`
	OperationalCost   decimal.Decimal `json:"operational_cost"`
	OperationalMargin decimal.Decimal `json:"operational_margin"`
	PeriodStatus      string          `json:"period_status"`
}

// StatementRollup sums the supplied rows directly; it is never re-derived
// from counts, to avoid double-rounding.
type StatementRollup struct {
	GrossAmount       decimal.Decimal `json:"gross_amount"`
	PartnerShare      decimal.Decimal `json:"partner_share"`
	PlatformRevenue   decimal.Decimal `json:"platform_revenue"`
	OperationalMargin decimal.Decimal `json:"operational_margin"`
}

// Statement is the display-ready monthly financial statement: rows sorted
// most-recent-first, the rollup across them, and the partner share still
// accruing in open months.
type Statement struct {
	Rows           []StatementRow  `json:"rows"`
	Totals         StatementRollup `json:"totals"`
	OpenReceivable decimal.Decimal `json:"open_receivable"`
}

// HealthStatus is the health check response body.
type HealthStatus struct {
	Status  string `json:"status"`
	Version string `json:"version"`
	Uptime  string `json:"uptime,omitempty"`
	Backend string `json:"backend,omitempty"`
}
