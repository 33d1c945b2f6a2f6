package sqlite_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitchline/pos-backend/pos"
	"github.com/stitchline/pos-backend/store/sqlite"
)

func newStore(t *testing.T) *sqlite.Store {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

// =============================================================================
// SEED
// =============================================================================

func TestSeedDemo_PopulatesAccountsAndCatalog(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedDemo(ctx))

	owner, err := store.Authenticate(ctx, "owner", "zway123")
	require.NoError(t, err)
	require.NotNil(t, owner)
	assert.Equal(t, "owner", owner.Role)

	staff, err := store.Authenticate(ctx, "staff", "staff123")
	require.NoError(t, err)
	require.NotNil(t, staff)
	assert.Equal(t, "staff", staff.Role)

	products, err := store.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5)
}

func TestSeedDemo_SecondRun_NoDuplicates(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	require.NoError(t, store.SeedDemo(ctx))
	require.NoError(t, store.SeedDemo(ctx))

	products, err := store.ListProducts(ctx)
	require.NoError(t, err)
	assert.Len(t, products, 5)
}

// =============================================================================
// USERS
// =============================================================================

func TestAuthenticate_WrongPassword_ReturnsNil(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.SeedDemo(ctx))

	user, err := store.Authenticate(ctx, "owner", "wrong")
	require.NoError(t, err)
	assert.Nil(t, user)
}

func TestUpdatePassword(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	require.NoError(t, store.SeedDemo(ctx))

	updated, err := store.UpdatePassword(ctx, "owner", "newpass")
	require.NoError(t, err)
	assert.True(t, updated)

	// Old password rejected, new one accepted.
	user, err := store.Authenticate(ctx, "owner", "zway123")
	require.NoError(t, err)
	assert.Nil(t, user)

	user, err = store.Authenticate(ctx, "owner", "newpass")
	require.NoError(t, err)
	assert.NotNil(t, user)
}

func TestUpdatePassword_UnknownAccount(t *testing.T) {
	store := newStore(t)

	updated, err := store.UpdatePassword(context.Background(), "nobody", "pass")
	require.NoError(t, err)
	assert.False(t, updated)
}

// =============================================================================
// CATALOG
// =============================================================================

func TestProductCRUD(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	id, err := store.CreateProduct(ctx, pos.Product{
		Name:     "Denim Shorts",
		Category: "Shorts",
		Price:    decimal.NewFromFloat(400.50),
		Stock:    30,
	})
	require.NoError(t, err)

	p, err := store.GetProduct(ctx, id)
	require.NoError(t, err)
	require.NotNil(t, p)
	assert.Equal(t, "Denim Shorts", p.Name)
	assert.True(t, p.Price.Equal(decimal.NewFromFloat(400.50)), "cents round-trip, got %s", p.Price)
	assert.Equal(t, 30, p.Stock)

	p.Name = "Cargo Shorts"
	p.Price = decimal.NewFromInt(450)
	require.NoError(t, store.UpdateProduct(ctx, *p))

	p, err = store.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Equal(t, "Cargo Shorts", p.Name)
	assert.True(t, p.Price.Equal(decimal.NewFromInt(450)))

	require.NoError(t, store.DeleteProduct(ctx, id))

	p, err = store.GetProduct(ctx, id)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestUpdateProduct_Unknown(t *testing.T) {
	store := newStore(t)

	err := store.UpdateProduct(context.Background(), pos.Product{
		ID:    9999,
		Name:  "Ghost",
		Price: decimal.NewFromInt(1),
	})
	assert.ErrorIs(t, err, pos.ErrUnknownProduct)
}

// =============================================================================
// TRANSACTIONS
// =============================================================================

func TestWithTx_ErrorRollsBackAllWrites(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	day := pos.NewDate(2026, time.March, 10)

	boom := errors.New("boom")
	err := store.WithTx(ctx, func(tx pos.LedgerTx) error {
		_, err := tx.InsertSale(ctx, day, decimal.NewFromInt(600), 1)
		require.NoError(t, err)
		return boom
	})
	assert.ErrorIs(t, err, boom)

	sales, err := store.SalesOn(ctx, day)
	require.NoError(t, err)
	assert.Empty(t, sales)
}

func TestWithTx_DecrementStock_UnknownProduct(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	err := store.WithTx(ctx, func(tx pos.LedgerTx) error {
		return tx.DecrementStock(ctx, 9999, 1)
	})
	assert.ErrorIs(t, err, pos.ErrUnknownProduct)
}

func TestWithTx_SaleRoundTrip(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()
	day := pos.NewDate(2026, time.March, 10)

	productID, err := store.CreateProduct(ctx, pos.Product{
		Name:     "Cotton Shirt",
		Category: "Shirts",
		Price:    decimal.NewFromInt(500),
		Stock:    10,
	})
	require.NoError(t, err)

	var saleID pos.SaleID
	err = store.WithTx(ctx, func(tx pos.LedgerTx) error {
		id, err := tx.InsertSale(ctx, day, decimal.NewFromInt(1000), 1)
		if err != nil {
			return err
		}
		saleID = id
		if err := tx.DecrementStock(ctx, productID, 2); err != nil {
			return err
		}
		return tx.InsertSaleItem(ctx, pos.SaleItem{
			SaleID:      id,
			ProductID:   productID,
			Quantity:    2,
			PriceAtSale: decimal.NewFromInt(500),
		})
	})
	require.NoError(t, err)

	sale, err := store.GetSale(ctx, saleID)
	require.NoError(t, err)
	require.NotNil(t, sale)
	assert.True(t, sale.Total.Equal(decimal.NewFromInt(1000)))

	items, err := store.SaleItems(ctx, saleID)
	require.NoError(t, err)
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].Quantity)

	total, err := store.DailyTotal(ctx, day)
	require.NoError(t, err)
	assert.True(t, total.Equal(decimal.NewFromInt(1000)))
}

func TestMonthlySummaries_OrderedByDate(t *testing.T) {
	store := newStore(t)
	ctx := context.Background()

	days := []pos.Date{
		pos.NewDate(2026, time.March, 20),
		pos.NewDate(2026, time.March, 5),
		pos.NewDate(2026, time.March, 12),
	}
	err := store.WithTx(ctx, func(tx pos.LedgerTx) error {
		for i, d := range days {
			if err := tx.UpsertDailySummary(ctx, d, decimal.NewFromInt(int64(100*(i+1)))); err != nil {
				return err
			}
		}
		return nil
	})
	require.NoError(t, err)

	summaries, err := store.MonthlySummaries(ctx, pos.YearMonth{Year: 2026, Month: time.March})
	require.NoError(t, err)
	require.Len(t, summaries, 3)
	assert.Equal(t, "2026-03-05", summaries[0].Date.String())
	assert.Equal(t, "2026-03-12", summaries[1].Date.String())
	assert.Equal(t, "2026-03-20", summaries[2].Date.String())
}

func TestGetSale_NotFound(t *testing.T) {
	store := newStore(t)

	sale, err := store.GetSale(context.Background(), 42)
	require.NoError(t, err)
	assert.Nil(t, sale)
}
