/*
store.go - Persistence interfaces for the POS core

The core does not talk to the database directly. It is written against
two narrow interfaces:

  Ledger    read side plus the WithTx transaction boundary
  LedgerTx  the mutations and reads available inside one transaction

Every multi-statement write sequence (recording a sale, archiving a day)
runs inside a single WithTx call. The implementation must roll the whole
function back if it returns an error, so a concurrent reader sees either
the full pre-sale state or the full post-commit state, never an
intermediate one.

store/sqlite implements both on one SQLite handle.
*/
package pos

import (
	"context"

	"github.com/shopspring/decimal"
)

// Ledger is the durable store of sale headers, line items, and archived
// daily summaries.
type Ledger interface {
	// WithTx runs fn inside one atomic transaction. If fn returns an
	// error the transaction is rolled back and the error is returned;
	// otherwise the transaction commits.
	WithTx(ctx context.Context, fn func(tx LedgerTx) error) error

	// DailyTotal returns the sum of sale totals for the day, zero when
	// no sales exist.
	DailyTotal(ctx context.Context, day Date) (decimal.Decimal, error)

	// DailyBreakdown returns one line per distinct product sold on the
	// day: summed quantity and summed quantity × price-at-sale.
	DailyBreakdown(ctx context.Context, day Date) ([]ReportLine, error)

	// MonthlySummaries returns the archived daily summaries falling in
	// the given month, ordered by date.
	MonthlySummaries(ctx context.Context, month YearMonth) ([]DailySummary, error)
}

// LedgerTx is the transaction-scoped view of the store. All methods act
// within the surrounding WithTx transaction.
type LedgerTx interface {
	// InsertSale creates a sale header and returns its assigned id.
	InsertSale(ctx context.Context, day Date, total decimal.Decimal, cashierID UserID) (SaleID, error)

	// InsertSaleItem creates one line item under an existing sale.
	InsertSaleItem(ctx context.Context, item SaleItem) error

	// DecrementStock subtracts qty from a product's stock. It returns
	// ErrUnknownProduct when the product does not exist, failing the
	// surrounding transaction. Stock is allowed to go negative.
	DecrementStock(ctx context.Context, id ProductID, qty int) error

	// DailyTotal and DailyBreakdown mirror the Ledger reads, but observe
	// the transaction's own uncommitted state.
	DailyTotal(ctx context.Context, day Date) (decimal.Decimal, error)
	DailyBreakdown(ctx context.Context, day Date) ([]ReportLine, error)

	// UpsertDailySummary creates or replaces the summary row for the day.
	UpsertDailySummary(ctx context.Context, day Date, total decimal.Decimal) error

	// DeleteSaleItems removes every line item whose parent sale falls on
	// the day. Must be called before DeleteSales for the same day.
	DeleteSaleItems(ctx context.Context, day Date) (int64, error)

	// DeleteSales removes every sale header on the day.
	DeleteSales(ctx context.Context, day Date) (int64, error)
}
