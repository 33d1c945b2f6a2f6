/*
recorder.go - Sale Recorder

Validates and commits a sale as one atomic unit: the sale header, its
line items, and the catalog stock decrements land together or not at all.

The total is computed from the caller-supplied price on each item, not
re-read from the catalog. That is deliberate: the line item captures the
price actually charged, so later catalog price edits never rewrite
history.
*/
package pos

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Recorder commits sales against the ledger and catalog.
type Recorder struct {
	ledger Ledger
	logger *zap.Logger
}

// NewRecorder creates a Recorder. A nil logger disables logging.
func NewRecorder(ledger Ledger, logger *zap.Logger) *Recorder {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Recorder{ledger: ledger, logger: logger}
}

// RecordSale validates the cart and commits the sale for the given
// calendar day, returning the new sale id for receipt printing.
//
// Either the sale header, every line item, and every stock decrement
// persist, or none do. Stock may go negative: the catalog is shared with
// external collaborators and the reference behavior is permissive.
func (r *Recorder) RecordSale(ctx context.Context, day Date, cashierID UserID, items []CartItem) (SaleID, error) {
	if len(items) == 0 {
		return 0, ErrEmptyCart
	}

	total := decimal.Zero
	for _, item := range items {
		if item.Quantity <= 0 {
			return 0, ErrInvalidQuantity
		}
		if item.Price.IsNegative() {
			return 0, ErrInvalidPrice
		}
		total = total.Add(item.Total())
	}

	var saleID SaleID
	err := r.ledger.WithTx(ctx, func(tx LedgerTx) error {
		id, err := tx.InsertSale(ctx, day, total, cashierID)
		if err != nil {
			return err
		}
		saleID = id

		for _, item := range items {
			// Stock first: the rows-affected check is what detects an
			// unknown product, before the line item's foreign key would.
			if err := tx.DecrementStock(ctx, item.ProductID, item.Quantity); err != nil {
				return err
			}
			if err := tx.InsertSaleItem(ctx, SaleItem{
				SaleID:      id,
				ProductID:   item.ProductID,
				Quantity:    item.Quantity,
				PriceAtSale: item.Price,
			}); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if IsClientError(err) {
			return 0, err
		}
		return 0, wrap(ErrTransactionFailed, err)
	}

	r.logger.Info("sale recorded",
		zap.Int64("sale_id", int64(saleID)),
		zap.String("date", day.String()),
		zap.Int64("cashier_id", int64(cashierID)),
		zap.String("total", total.String()),
		zap.Int("items", len(items)),
	)
	return saleID, nil
}
