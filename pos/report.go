/*
report.go - Daily Aggregator and Monthly Summary Reader

Read-only projections over the ledger. Revenue always comes from the
price-at-sale captured on the line item, never the catalog's current
price, so reports for past days stay stable after price edits.
*/
package pos

import (
	"context"
	"fmt"
)

// Reporter answers read-only report queries.
type Reporter struct {
	ledger Ledger
}

// NewReporter creates a Reporter over the ledger.
func NewReporter(ledger Ledger) *Reporter {
	return &Reporter{ledger: ledger}
}

// DailyReport computes the per-product breakdown and grand total for one
// calendar day. A day with no sales yields a zero total and no lines.
func (r *Reporter) DailyReport(ctx context.Context, day Date) (DailyReport, error) {
	total, err := r.ledger.DailyTotal(ctx, day)
	if err != nil {
		return DailyReport{}, fmt.Errorf("daily total for %s: %w", day, err)
	}

	lines, err := r.ledger.DailyBreakdown(ctx, day)
	if err != nil {
		return DailyReport{}, fmt.Errorf("daily breakdown for %s: %w", day, err)
	}

	return DailyReport{Date: day, TotalSales: total, Lines: lines}, nil
}

// MonthlySummaries returns the archived daily summaries for one month.
// Each archived day has exactly one row, so no further aggregation is
// needed beyond the store-level filter.
func (r *Reporter) MonthlySummaries(ctx context.Context, month YearMonth) ([]DailySummary, error) {
	summaries, err := r.ledger.MonthlySummaries(ctx, month)
	if err != nil {
		return nil, fmt.Errorf("monthly summaries for %s: %w", month, err)
	}
	return summaries, nil
}
