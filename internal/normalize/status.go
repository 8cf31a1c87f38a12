package normalize

import (
	"strings"

	"github.com/JoaoEstellita/ppp-gateway/internal/models"
)

// knownStatuses is the closed case-status vocabulary. Membership is exact
// after lower-casing; no fuzzy matching is attempted, so a typo of a
// later-stage status still degrades to awaiting_payment.
var knownStatuses = map[models.CaseStatus]bool{
	models.StatusAwaitingPayment: true,
	models.StatusAwaitingPDF:     true,
	models.StatusReadyToProcess:  true,
	models.StatusProcessing:      true,
	models.StatusPaidProcessing:  true,
	models.StatusDone:            true,
	models.StatusPendingInfo:     true,
	models.StatusError:           true,
}

// ClassifyStatus maps an arbitrary raw status value to a member of the
// CaseStatus vocabulary. It returns the canonical status and the original
// raw string, or nil when the input itself was absent. Unknown values map to
// StatusAwaitingPayment but the raw value is preserved verbatim so callers
// can surface "unknown status: X" for diagnostics.
func ClassifyStatus(v interface{}) (models.CaseStatus, *string) {
	if v == nil {
		return models.StatusAwaitingPayment, nil
	}
	raw := Stringify(v)
	if raw == "" {
		if _, isString := v.(string); !isString {
			return models.StatusAwaitingPayment, nil
		}
	}
	if st := models.CaseStatus(strings.ToLower(raw)); knownStatuses[st] {
		return st, &raw
	}
	return models.StatusAwaitingPayment, &raw
}

// IsKnownStatus reports whether the lower-cased raw value is a member of the
// CaseStatus vocabulary.
func IsKnownStatus(raw string) bool {
	return knownStatuses[models.CaseStatus(strings.ToLower(raw))]
}
