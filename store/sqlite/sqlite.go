/*
Package sqlite provides the SQLite-backed implementation of the POS
storage interfaces.

INTERFACES IMPLEMENTED:
  pos.Ledger:   sale headers, line items, daily summaries, WithTx
  pos.LedgerTx: the transaction-scoped view used by WithTx callbacks

KEY TABLES:
  users:            store accounts (plaintext credentials, preserved
                    from the reference system)
  products:         the catalog, shared with external CRUD collaborators
  sales:            sale headers (date, total, cashier)
  sale_items:       line items with price-at-sale
  daily_summaries:  one row per archived day, survives the purge

MONEY:
  Amounts are persisted as integer cents so SQL SUM and
  SUM(quantity * price_at_sale_cents) stay exact. Conversion happens at
  the store boundary via pos.Cents / pos.FromCents.

WAL MODE:
  SQLite is opened with WAL so readers never observe a partially
  committed sale or a half-purged day, and with a bounded busy timeout
  so a lock conflict surfaces as an error instead of blocking forever.

USAGE:
  store, err := sqlite.New("./shop.db")
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - pos/store.go: interface definitions
  - catalog.go, users.go: catalog and account queries
*/
package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"sync"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/shopspring/decimal"
	"github.com/stitchline/pos-backend/pos"
)

// Store implements the POS storage interfaces using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

var _ pos.Ledger = (*Store)(nil)

// New creates a new SQLite store with the given database path.
// Use ":memory:" for an in-memory database.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS users (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		username TEXT UNIQUE NOT NULL,
		password TEXT NOT NULL,
		role TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS products (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		category TEXT NOT NULL,
		price_cents INTEGER NOT NULL CHECK (price_cents >= 0),
		stock INTEGER NOT NULL DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS sales (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		date TEXT NOT NULL,
		total_cents INTEGER NOT NULL,
		cashier_id INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sales_date ON sales(date);

	CREATE TABLE IF NOT EXISTS sale_items (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		sale_id INTEGER NOT NULL REFERENCES sales(id),
		product_id INTEGER NOT NULL REFERENCES products(id),
		quantity INTEGER NOT NULL CHECK (quantity > 0),
		price_at_sale_cents INTEGER NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_sale_items_sale ON sale_items(sale_id);

	CREATE TABLE IF NOT EXISTS daily_summaries (
		date TEXT PRIMARY KEY,
		total_cents INTEGER NOT NULL,
		archived_at TEXT NOT NULL
	);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SeedDemo inserts the default accounts and catalog when the store is
// empty. Safe to call on every startup.
func (s *Store) SeedDemo(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	var users int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM users").Scan(&users); err != nil {
		return err
	}
	if users == 0 {
		accounts := [][3]string{
			{"owner", "zway123", "owner"},
			{"staff", "staff123", "staff"},
		}
		for _, a := range accounts {
			if _, err := s.db.ExecContext(ctx,
				"INSERT INTO users (username, password, role) VALUES (?, ?, ?)",
				a[0], a[1], a[2],
			); err != nil {
				return err
			}
		}
	}

	var products int
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM products").Scan(&products); err != nil {
		return err
	}
	if products == 0 {
		catalog := []struct {
			name, category string
			priceCents     int64
			stock          int
		}{
			{"Cotton Shirt", "Shirts", 50000, 50},
			{"V-Neck T-Shirt", "T-Shirts", 30000, 100},
			{"Denim Shorts", "Shorts", 40000, 30},
			{"Running Track Pants", "Track Pants", 60000, 40},
			{"Formal Pants", "Pants", 80000, 60},
		}
		for _, p := range catalog {
			if _, err := s.db.ExecContext(ctx,
				"INSERT INTO products (name, category, price_cents, stock) VALUES (?, ?, ?, ?)",
				p.name, p.category, p.priceCents, p.stock,
			); err != nil {
				return err
			}
		}
	}

	return nil
}

// =============================================================================
// TRANSACTION BOUNDARY (pos.Ledger interface)
// =============================================================================

// WithTx executes fn within a database transaction. The transaction is
// rolled back if fn returns an error and committed otherwise.
func (s *Store) WithTx(ctx context.Context, fn func(tx pos.LedgerTx) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	sqlTx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer sqlTx.Rollback()

	if err := fn(&ledgerTx{tx: sqlTx}); err != nil {
		return err
	}

	if err := sqlTx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ledgerTx implements pos.LedgerTx over an open *sql.Tx.
type ledgerTx struct {
	tx *sql.Tx
}

var _ pos.LedgerTx = (*ledgerTx)(nil)

// dbtx is the subset of *sql.DB / *sql.Tx the shared query helpers need.
type dbtx interface {
	ExecContext(ctx context.Context, query string, args ...any) (sql.Result, error)
	QueryContext(ctx context.Context, query string, args ...any) (*sql.Rows, error)
	QueryRowContext(ctx context.Context, query string, args ...any) *sql.Row
}

// =============================================================================
// LEDGER WRITES (transaction-scoped)
// =============================================================================

func (t *ledgerTx) InsertSale(ctx context.Context, day pos.Date, total decimal.Decimal, cashierID pos.UserID) (pos.SaleID, error) {
	res, err := t.tx.ExecContext(ctx,
		"INSERT INTO sales (date, total_cents, cashier_id) VALUES (?, ?, ?)",
		day.String(), pos.Cents(total), int64(cashierID),
	)
	if err != nil {
		return 0, fmt.Errorf("insert sale: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("sale id: %w", err)
	}
	return pos.SaleID(id), nil
}

func (t *ledgerTx) InsertSaleItem(ctx context.Context, item pos.SaleItem) error {
	_, err := t.tx.ExecContext(ctx,
		"INSERT INTO sale_items (sale_id, product_id, quantity, price_at_sale_cents) VALUES (?, ?, ?, ?)",
		int64(item.SaleID), int64(item.ProductID), item.Quantity, pos.Cents(item.PriceAtSale),
	)
	if err != nil {
		return fmt.Errorf("insert sale item: %w", err)
	}
	return nil
}

func (t *ledgerTx) DecrementStock(ctx context.Context, id pos.ProductID, qty int) error {
	res, err := t.tx.ExecContext(ctx,
		"UPDATE products SET stock = stock - ? WHERE id = ?",
		qty, int64(id),
	)
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("decrement stock: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %d", pos.ErrUnknownProduct, id)
	}
	return nil
}

func (t *ledgerTx) UpsertDailySummary(ctx context.Context, day pos.Date, total decimal.Decimal) error {
	_, err := t.tx.ExecContext(ctx, `
		INSERT INTO daily_summaries (date, total_cents, archived_at)
		VALUES (?, ?, ?)
		ON CONFLICT(date) DO UPDATE SET
			total_cents = excluded.total_cents,
			archived_at = excluded.archived_at
	`, day.String(), pos.Cents(total), time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert daily summary: %w", err)
	}
	return nil
}

func (t *ledgerTx) DeleteSaleItems(ctx context.Context, day pos.Date) (int64, error) {
	res, err := t.tx.ExecContext(ctx,
		"DELETE FROM sale_items WHERE sale_id IN (SELECT id FROM sales WHERE date = ?)",
		day.String(),
	)
	if err != nil {
		return 0, fmt.Errorf("delete sale items: %w", err)
	}
	return res.RowsAffected()
}

func (t *ledgerTx) DeleteSales(ctx context.Context, day pos.Date) (int64, error) {
	res, err := t.tx.ExecContext(ctx, "DELETE FROM sales WHERE date = ?", day.String())
	if err != nil {
		return 0, fmt.Errorf("delete sales: %w", err)
	}
	return res.RowsAffected()
}

func (t *ledgerTx) DailyTotal(ctx context.Context, day pos.Date) (decimal.Decimal, error) {
	return dailyTotal(ctx, t.tx, day)
}

func (t *ledgerTx) DailyBreakdown(ctx context.Context, day pos.Date) ([]pos.ReportLine, error) {
	return dailyBreakdown(ctx, t.tx, day)
}

// =============================================================================
// LEDGER READS
// =============================================================================

// DailyTotal returns the sum of sale totals for the day, zero when empty.
func (s *Store) DailyTotal(ctx context.Context, day pos.Date) (decimal.Decimal, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return dailyTotal(ctx, s.db, day)
}

// DailyBreakdown returns one line per distinct product sold on the day.
func (s *Store) DailyBreakdown(ctx context.Context, day pos.Date) ([]pos.ReportLine, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	return dailyBreakdown(ctx, s.db, day)
}

// MonthlySummaries returns archived daily summaries in the given month.
func (s *Store) MonthlySummaries(ctx context.Context, month pos.YearMonth) ([]pos.DailySummary, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT date, total_cents
		FROM daily_summaries
		WHERE strftime('%Y-%m', date) = ?
		ORDER BY date ASC
	`, month.String())
	if err != nil {
		return nil, fmt.Errorf("query monthly summaries: %w", err)
	}
	defer rows.Close()

	var summaries []pos.DailySummary
	for rows.Next() {
		var (
			dateStr    string
			totalCents int64
		)
		if err := rows.Scan(&dateStr, &totalCents); err != nil {
			return nil, fmt.Errorf("scan daily summary: %w", err)
		}
		day, err := pos.ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		summaries = append(summaries, pos.DailySummary{
			Date:       day,
			TotalSales: pos.FromCents(totalCents),
		})
	}
	return summaries, rows.Err()
}

func dailyTotal(ctx context.Context, db dbtx, day pos.Date) (decimal.Decimal, error) {
	var cents int64
	err := db.QueryRowContext(ctx,
		"SELECT COALESCE(SUM(total_cents), 0) FROM sales WHERE date = ?",
		day.String(),
	).Scan(&cents)
	if err != nil {
		return decimal.Zero, fmt.Errorf("sum sales: %w", err)
	}
	return pos.FromCents(cents), nil
}

func dailyBreakdown(ctx context.Context, db dbtx, day pos.Date) ([]pos.ReportLine, error) {
	rows, err := db.QueryContext(ctx, `
		SELECT p.name, p.category,
		       SUM(si.quantity) AS quantity_sold,
		       SUM(si.quantity * si.price_at_sale_cents) AS revenue_cents
		FROM sale_items si
		JOIN sales s ON s.id = si.sale_id
		JOIN products p ON p.id = si.product_id
		WHERE s.date = ?
		GROUP BY p.id
		ORDER BY p.name ASC
	`, day.String())
	if err != nil {
		return nil, fmt.Errorf("query daily breakdown: %w", err)
	}
	defer rows.Close()

	var lines []pos.ReportLine
	for rows.Next() {
		var (
			line         pos.ReportLine
			revenueCents int64
		)
		if err := rows.Scan(&line.ProductName, &line.Category, &line.QuantitySold, &revenueCents); err != nil {
			return nil, fmt.Errorf("scan report line: %w", err)
		}
		line.Revenue = pos.FromCents(revenueCents)
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

// =============================================================================
// RECEIPT / INSPECTION QUERIES
// =============================================================================

// GetSale returns one sale header, nil when not found.
func (s *Store) GetSale(ctx context.Context, id pos.SaleID) (*pos.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		sale       pos.Sale
		dateStr    string
		totalCents int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, date, total_cents, cashier_id FROM sales WHERE id = ?",
		int64(id),
	).Scan(&sale.ID, &dateStr, &totalCents, &sale.CashierID)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get sale: %w", err)
	}

	sale.Date, err = pos.ParseDate(dateStr)
	if err != nil {
		return nil, err
	}
	sale.Total = pos.FromCents(totalCents)
	return &sale, nil
}

// SalesOn returns every sale header on the given day.
func (s *Store) SalesOn(ctx context.Context, day pos.Date) ([]pos.Sale, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, date, total_cents, cashier_id FROM sales WHERE date = ? ORDER BY id ASC",
		day.String(),
	)
	if err != nil {
		return nil, fmt.Errorf("query sales: %w", err)
	}
	defer rows.Close()

	var sales []pos.Sale
	for rows.Next() {
		var (
			sale       pos.Sale
			dateStr    string
			totalCents int64
		)
		if err := rows.Scan(&sale.ID, &dateStr, &totalCents, &sale.CashierID); err != nil {
			return nil, fmt.Errorf("scan sale: %w", err)
		}
		sale.Date, err = pos.ParseDate(dateStr)
		if err != nil {
			return nil, err
		}
		sale.Total = pos.FromCents(totalCents)
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

// SaleItems returns the line items of one sale, for receipt printing.
func (s *Store) SaleItems(ctx context.Context, id pos.SaleID) ([]pos.SaleItem, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx, `
		SELECT id, sale_id, product_id, quantity, price_at_sale_cents
		FROM sale_items
		WHERE sale_id = ?
		ORDER BY id ASC
	`, int64(id))
	if err != nil {
		return nil, fmt.Errorf("query sale items: %w", err)
	}
	defer rows.Close()

	var items []pos.SaleItem
	for rows.Next() {
		var (
			item       pos.SaleItem
			priceCents int64
		)
		if err := rows.Scan(&item.ID, &item.SaleID, &item.ProductID, &item.Quantity, &priceCents); err != nil {
			return nil, fmt.Errorf("scan sale item: %w", err)
		}
		item.PriceAtSale = pos.FromCents(priceCents)
		items = append(items, item)
	}
	return items, rows.Err()
}
