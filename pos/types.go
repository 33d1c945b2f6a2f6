/*
Package pos contains the core of the point-of-sale backend: the sale
recorder, the daily aggregator, and the archival/purge manager.

KEY CONCEPTS:
  - Money is decimal.Decimal everywhere in the domain; stores persist it
    as integer cents so SQL aggregation stays exact.
  - Sale and SaleItem rows are immutable once committed; the only
    mutation is bulk deletion during archival of their date.
  - The Ledger interface (store.go) is the transactional substrate:
    every multi-statement write sequence runs inside one WithTx call.

DESIGN PRINCIPLES:
  1. Atomicity: a sale's header, line items, and stock decrements land
     together or not at all. Same for a day's summary write and purge.
  2. Price-at-sale: line items capture the caller-supplied price, never
     the catalog's current price, so historical reports stay stable.
  3. Explicit dates: the calendar day is an argument, not read from the
     process clock, so callers and tests control it.

SEE ALSO:
  - store.go: persistence interfaces
  - recorder.go, report.go, archiver.go: the three operations
  - store/sqlite: the SQLite implementation
*/
package pos

import (
	"github.com/shopspring/decimal"
)

// =============================================================================
// IDENTIFIERS
// =============================================================================

type (
	ProductID int64
	SaleID    int64
	UserID    int64
)

// =============================================================================
// CATALOG
// =============================================================================

// Product is a catalog record. The catalog is shared with external CRUD
// collaborators; the core only reads it and decrements stock during a sale.
type Product struct {
	ID       ProductID
	Name     string
	Category string
	Price    decimal.Decimal
	Stock    int
}

// =============================================================================
// LEDGER
// =============================================================================

// Sale is the header of one checkout transaction. Date has day
// granularity; no time-of-day component is retained.
type Sale struct {
	ID        SaleID
	Date      Date
	Total     decimal.Decimal
	CashierID UserID
}

// SaleItem is one product-quantity-price entry within a sale.
// PriceAtSale is captured at transaction time and is deliberately
// decoupled from the product's current catalog price.
type SaleItem struct {
	ID          int64
	SaleID      SaleID
	ProductID   ProductID
	Quantity    int
	PriceAtSale decimal.Decimal
}

// CartItem is the caller's view of a line item when recording a sale:
// the product, how many, and the unit price charged at the register.
type CartItem struct {
	ProductID ProductID
	Quantity  int
	Price     decimal.Decimal
}

// Total returns quantity × price for this item.
func (c CartItem) Total() decimal.Decimal {
	return c.Price.Mul(decimal.NewFromInt(int64(c.Quantity)))
}

// =============================================================================
// REPORTS & SUMMARIES
// =============================================================================

// ReportLine is one product's revenue on a given day.
type ReportLine struct {
	ProductName  string
	Category     string
	QuantitySold int
	Revenue      decimal.Decimal
}

// DailyReport is the per-product breakdown plus grand total for one day.
// A day with no sales is a zero report, not an error.
type DailyReport struct {
	Date       Date
	TotalSales decimal.Decimal
	Lines      []ReportLine
}

// DailySummary is the durable one-row-per-day record that survives the
// purge of a day's detailed ledger rows. Its correctness is load-bearing:
// after archival it is the only record of that day's activity.
type DailySummary struct {
	Date       Date
	TotalSales decimal.Decimal
}

// User is a store account. Credentials are a plaintext equality check,
// preserved from the reference system.
type User struct {
	ID       UserID
	Username string
	Role     string
}

// =============================================================================
// MONEY HELPERS
// =============================================================================

// Cents converts a decimal amount to integer minor units for storage.
// Sub-cent fractions are rounded half away from zero.
func Cents(d decimal.Decimal) int64 {
	return d.Shift(2).Round(0).IntPart()
}

// FromCents converts stored minor units back to a decimal amount.
func FromCents(c int64) decimal.Decimal {
	return decimal.NewFromInt(c).Shift(-2)
}
