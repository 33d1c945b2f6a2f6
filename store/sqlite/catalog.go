package sqlite

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stitchline/pos-backend/pos"
)

// =============================================================================
// CATALOG
// =============================================================================
// Product CRUD is an external collaborator concern; the core only reads
// the catalog and decrements stock inside sale transactions.

// ListProducts returns the whole catalog.
func (s *Store) ListProducts(ctx context.Context) ([]pos.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	rows, err := s.db.QueryContext(ctx,
		"SELECT id, name, category, price_cents, stock FROM products ORDER BY id ASC",
	)
	if err != nil {
		return nil, fmt.Errorf("query products: %w", err)
	}
	defer rows.Close()

	var products []pos.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}

// GetProduct returns one product, nil when not found.
func (s *Store) GetProduct(ctx context.Context, id pos.ProductID) (*pos.Product, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var (
		p          pos.Product
		priceCents int64
	)
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, category, price_cents, stock FROM products WHERE id = ?",
		int64(id),
	).Scan(&p.ID, &p.Name, &p.Category, &priceCents, &p.Stock)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("get product: %w", err)
	}
	p.Price = pos.FromCents(priceCents)
	return &p, nil
}

// CreateProduct inserts a catalog record and returns its assigned id.
func (s *Store) CreateProduct(ctx context.Context, p pos.Product) (pos.ProductID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"INSERT INTO products (name, category, price_cents, stock) VALUES (?, ?, ?, ?)",
		p.Name, p.Category, pos.Cents(p.Price), p.Stock,
	)
	if err != nil {
		return 0, fmt.Errorf("insert product: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("product id: %w", err)
	}
	return pos.ProductID(id), nil
}

// UpdateProduct replaces all mutable fields of a catalog record.
func (s *Store) UpdateProduct(ctx context.Context, p pos.Product) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	res, err := s.db.ExecContext(ctx,
		"UPDATE products SET name = ?, category = ?, price_cents = ?, stock = ? WHERE id = ?",
		p.Name, p.Category, pos.Cents(p.Price), p.Stock, int64(p.ID),
	)
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("update product: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("%w: product %d", pos.ErrUnknownProduct, p.ID)
	}
	return nil
}

// DeleteProduct removes a catalog record.
func (s *Store) DeleteProduct(ctx context.Context, id pos.ProductID) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	_, err := s.db.ExecContext(ctx, "DELETE FROM products WHERE id = ?", int64(id))
	if err != nil {
		return fmt.Errorf("delete product: %w", err)
	}
	return nil
}

func scanProduct(rows *sql.Rows) (pos.Product, error) {
	var (
		p          pos.Product
		priceCents int64
	)
	if err := rows.Scan(&p.ID, &p.Name, &p.Category, &priceCents, &p.Stock); err != nil {
		return p, fmt.Errorf("scan product: %w", err)
	}
	p.Price = pos.FromCents(priceCents)
	return p, nil
}
