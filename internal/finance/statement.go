// Package finance derives the monthly financial statement from fetched
// metrics snapshots: gross volume, the fixed per-case partner share,
// platform revenue, and the operational-margin estimate, reconciled against
// the open/closed accounting-period rule.
package finance

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/JoaoEstellita/ppp-gateway/internal/models"
)

// Rates are the read-only monetary constants consumed from configuration.
type Rates struct {
	// PartnerPerCase is the fixed amount owed to the partner organization
	// per paid case.
	PartnerPerCase decimal.Decimal
	// CostPerCase is the estimated operational cost per paid case.
	CostPerCase decimal.Decimal
}

const yearMonthLayout = "2006-01"

// PeriodStatus classifies a zero-padded "YYYY-MM" month as closed when it is
// strictly past, open otherwise. Lexicographic comparison is valid because
// both operands are zero-padded; callers must pre-normalize the format.
func PeriodStatus(yearMonth string, now time.Time) string {
	if yearMonth < now.Format(yearMonthLayout) {
		return models.PeriodClosed
	}
	return models.PeriodOpen
}

// Row derives one statement row from a snapshot.
func Row(s *models.MonthlySnapshot, now time.Time, rates Rates) models.StatementRow {
	paid := decimal.NewFromInt(int64(s.PaidCount))
	share := rates.PartnerPerCase.Mul(paid)
	platform := s.GrossAmount.Sub(share)
	cost := rates.CostPerCase.Mul(paid)
	return models.StatementRow{
		YearMonth:         s.YearMonth,
		PaidCount:         s.PaidCount,
		GrossAmount:       s.GrossAmount,
		PartnerShare:      share,
		PlatformRevenue:   platform,
		OperationalCost:   cost,
		OperationalMargin: platform.Sub(cost),
		PeriodStatus:      PeriodStatus(s.YearMonth, now),
	}
}

// BuildStatement derives the full statement from the supplied snapshots.
// Nil snapshots — months whose fetch failed — are skipped; no placeholder
// row is introduced and nothing is interpolated. Rows come back sorted
// descending by month for display; the rollup sums the row amounts directly
// and is order-independent. OpenReceivable is the partner share of the rows
// still in an open period.
func BuildStatement(snapshots []*models.MonthlySnapshot, now time.Time, rates Rates) *models.Statement {
	rows := make([]models.StatementRow, 0, len(snapshots))
	for _, s := range snapshots {
		if s == nil {
			continue
		}
		rows = append(rows, Row(s, now, rates))
	}
	sort.Slice(rows, func(i, j int) bool { return rows[i].YearMonth > rows[j].YearMonth })

	st := &models.Statement{Rows: rows}
	for _, row := range rows {
		st.Totals.GrossAmount = st.Totals.GrossAmount.Add(row.GrossAmount)
		st.Totals.PartnerShare = st.Totals.PartnerShare.Add(row.PartnerShare)
		st.Totals.PlatformRevenue = st.Totals.PlatformRevenue.Add(row.PlatformRevenue)
		st.Totals.OperationalMargin = st.Totals.OperationalMargin.Add(row.OperationalMargin)
		if row.PeriodStatus == models.PeriodOpen {
			st.OpenReceivable = st.OpenReceivable.Add(row.PartnerShare)
		}
	}
	return st
}

// MonthKeys returns the zero-padded "YYYY-MM" keys for the given month and
// the n-1 months before it, most recent first.
func MonthKeys(now time.Time, n int) []string {
	keys := make([]string, 0, n)
	month := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < n; i++ {
		keys = append(keys, month.Format(yearMonthLayout))
		month = month.AddDate(0, -1, 0)
	}
	return keys
}
