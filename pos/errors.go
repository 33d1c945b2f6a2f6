/*
errors.go - Centralized error types for the POS core

All sentinels in one place, matched with errors.Is. Store and API layers
wrap these with additional context; the API layer uses IsClientError to
pick the HTTP status.
*/
package pos

import (
	"errors"
	"fmt"
)

// =============================================================================
// SENTINEL ERRORS - Use with errors.Is()
// =============================================================================

var (
	// ErrEmptyCart is returned when a sale is submitted with no line items.
	ErrEmptyCart = errors.New("empty cart")

	// ErrInvalidQuantity is returned when a line item quantity is not a
	// positive integer.
	ErrInvalidQuantity = errors.New("quantity must be positive")

	// ErrInvalidPrice is returned when a line item price is negative.
	ErrInvalidPrice = errors.New("price must not be negative")

	// ErrUnknownProduct is returned when a line item references a product
	// that does not exist in the catalog. Detected inside the sale
	// transaction, so the whole sale rolls back.
	ErrUnknownProduct = errors.New("unknown product")

	// ErrInvalidPeriod is returned when a report period is malformed
	// (not parseable as YYYY-MM).
	ErrInvalidPeriod = errors.New("invalid period")

	// ErrAggregationFailed is returned when the archival run cannot read
	// the day's totals or breakdown. Nothing was written or deleted.
	ErrAggregationFailed = errors.New("aggregation failed")

	// ErrSummaryWriteFailed is returned when the daily summary upsert
	// fails. The transaction rolls back; no rows are deleted.
	ErrSummaryWriteFailed = errors.New("summary write failed")

	// ErrPurgeFailed is returned when deleting a day's sale or line item
	// rows fails. The transaction rolls back; the summary write is undone
	// with it and the day remains re-archivable.
	ErrPurgeFailed = errors.New("purge failed")

	// ErrTransactionFailed is returned for store-level commit/rollback
	// failures. Nothing partial persisted; the caller may retry the
	// whole operation.
	ErrTransactionFailed = errors.New("transaction failed")
)

// =============================================================================
// ERROR HELPERS
// =============================================================================

// IsClientError reports whether the error is due to invalid client input
// (validation or referential failures) rather than a store fault.
func IsClientError(err error) bool {
	return errors.Is(err, ErrEmptyCart) ||
		errors.Is(err, ErrInvalidQuantity) ||
		errors.Is(err, ErrInvalidPrice) ||
		errors.Is(err, ErrUnknownProduct) ||
		errors.Is(err, ErrInvalidPeriod)
}

// wrap attaches a sentinel to an underlying store error so callers can
// match the stage with errors.Is while keeping the root cause visible.
func wrap(sentinel, err error) error {
	return fmt.Errorf("%w: %v", sentinel, err)
}
