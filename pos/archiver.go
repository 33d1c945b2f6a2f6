/*
archiver.go - Archival & Purge Manager

The most delicate operation in the system: durably preserve a day's
financial summary before irreversibly deleting the detail rows that
produced it.

Ordering inside one transaction:
  1. aggregate the day's total (zero → short-circuit, nothing written)
  2. read the per-product breakdown (needed later for the CSV artifact)
  3. upsert the daily summary
  4. delete line items, then their parent sales

The summary upsert and the deletions commit atomically, so a deletion can
never succeed while the summary write is lost. The CSV export runs after
the commit: it is advisory, and its failure is logged, never rolled back
against.

Calling ArchiveAndClear twice for the same date is a no-op the second
time ("no sales to clear"), which makes the operation safe to retry.
*/
package pos

import (
	"context"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Result messages returned to the caller.
const (
	MsgNoSalesToClear = "no sales to clear"
	MsgArchived       = "daily report archived and sales cleared"
)

// Exporter writes the advisory archive artifact for an archived day.
type Exporter interface {
	Export(day Date, lines []ReportLine, total decimal.Decimal) error
}

// Archiver snapshots a day's aggregate into the summary store and purges
// the day's detailed ledger rows.
type Archiver struct {
	ledger   Ledger
	exporter Exporter
	logger   *zap.Logger
}

// NewArchiver creates an Archiver. A nil exporter skips the artifact;
// a nil logger disables logging.
func NewArchiver(ledger Ledger, exporter Exporter, logger *zap.Logger) *Archiver {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Archiver{ledger: ledger, exporter: exporter, logger: logger}
}

// ArchiveAndClear archives and purges one calendar day. It returns a
// human-readable message on success; on error the ledger is unchanged
// and the day remains re-archivable.
func (a *Archiver) ArchiveAndClear(ctx context.Context, day Date) (string, error) {
	var (
		total    decimal.Decimal
		lines    []ReportLine
		archived bool
	)

	err := a.ledger.WithTx(ctx, func(tx LedgerTx) error {
		var err error
		total, err = tx.DailyTotal(ctx, day)
		if err != nil {
			return wrap(ErrAggregationFailed, err)
		}
		if !total.IsPositive() {
			// Nothing to archive. Leave the transaction clean so no
			// summary row is written for an empty day.
			return nil
		}

		lines, err = tx.DailyBreakdown(ctx, day)
		if err != nil {
			return wrap(ErrAggregationFailed, err)
		}

		if err := tx.UpsertDailySummary(ctx, day, total); err != nil {
			return wrap(ErrSummaryWriteFailed, err)
		}

		// Children before parents.
		if _, err := tx.DeleteSaleItems(ctx, day); err != nil {
			return wrap(ErrPurgeFailed, err)
		}
		if _, err := tx.DeleteSales(ctx, day); err != nil {
			return wrap(ErrPurgeFailed, err)
		}

		archived = true
		return nil
	})
	if err != nil {
		return "", err
	}
	if !archived {
		return MsgNoSalesToClear, nil
	}

	a.logger.Info("daily report archived",
		zap.String("date", day.String()),
		zap.String("total", total.String()),
		zap.Int("products", len(lines)),
	)

	// Advisory artifact, strictly after the authoritative commit. The
	// summary row is the record of truth; this is a convenience export.
	if a.exporter != nil {
		if err := a.exporter.Export(day, lines, total); err != nil {
			a.logger.Error("archive export failed",
				zap.String("date", day.String()),
				zap.Error(err),
			)
		}
	}

	return MsgArchived, nil
}
