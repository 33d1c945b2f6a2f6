/*
handlers_test.go - HTTP-level tests for the API

Exercises the full stack through the router: real SQLite store, real
domain services, JSON in and out. The handler clock is pinned so "today"
is deterministic.
*/
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/stitchline/pos-backend/pos"
	"github.com/stitchline/pos-backend/store/sqlite"
)

// =============================================================================
// TEST SETUP
// =============================================================================

type testAPI struct {
	router  http.Handler
	handler *Handler
	store   *sqlite.Store
}

func newTestAPI(t *testing.T) *testAPI {
	store, err := sqlite.New(":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	require.NoError(t, store.SeedDemo(context.Background()))

	recorder := pos.NewRecorder(store, nil)
	reporter := pos.NewReporter(store)
	archiver := pos.NewArchiver(store, pos.NewCSVExporter(t.TempDir()), nil)

	h := NewHandler(store, recorder, reporter, archiver, nil)
	h.now = func() pos.Date { return pos.NewDate(2026, time.March, 10) }

	return &testAPI{
		router:  NewRouter(h, nil),
		handler: h,
		store:   store,
	}
}

func (a *testAPI) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")

	rec := httptest.NewRecorder()
	a.router.ServeHTTP(rec, req)
	return rec
}

func decode[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&v))
	return v
}

// =============================================================================
// AUTH
// =============================================================================

func TestLogin_Success(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/login", LoginRequest{Username: "owner", Password: "zway123"})

	require.Equal(t, http.StatusOK, rec.Code)
	resp := decode[LoginResponse](t, rec)
	assert.Equal(t, "owner", resp.User.Username)
	assert.Equal(t, "owner", resp.User.Role)
}

func TestLogin_BadCredentials(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/login", LoginRequest{Username: "owner", Password: "wrong"})

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}

func TestChangePassword(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/change-password", ChangePasswordRequest{
		Username:    "staff",
		NewPassword: "better-secret",
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodPost, "/api/login", LoginRequest{Username: "staff", Password: "better-secret"})
	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestChangePassword_UnknownAccount(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/change-password", ChangePasswordRequest{
		Username:    "nobody",
		NewPassword: "x",
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// CATALOG
// =============================================================================

func TestProducts_ListAndCreate(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/products", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	products := decode[[]ProductDTO](t, rec)
	require.Len(t, products, 5)

	rec = api.do(t, http.MethodPost, "/api/products", SaveProductRequest{
		Name:     "Hoodie",
		Category: "Sweaters",
		Price:    700,
		Stock:    25,
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodGet, "/api/products", nil)
	products = decode[[]ProductDTO](t, rec)
	assert.Len(t, products, 6)
}

func TestProducts_UpdateUnknown(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPut, "/api/products/9999", SaveProductRequest{
		Name:     "Ghost",
		Category: "None",
		Price:    1,
	})
	assert.Equal(t, http.StatusNotFound, rec.Code)
}

// =============================================================================
// SALES & REPORTS - full register flow
// =============================================================================

func TestRegisterFlow_RecordReportArchiveMonthly(t *testing.T) {
	// GIVEN: The seeded catalog on 2026-03-10
	// WHEN: Recording a sale, reading the daily report, archiving, then
	//       listing the month
	// THEN: Each step reflects the previous one

	api := newTestAPI(t)

	// Record: 2 V-Neck T-Shirts at 300.00 each.
	rec := api.do(t, http.MethodPost, "/api/sales", RecordSaleRequest{
		CashierID: 1,
		Items: []SaleItemRequest{
			{ProductID: 2, Quantity: 2, Price: 300},
		},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	sale := decode[RecordSaleResponse](t, rec)
	assert.NotZero(t, sale.SaleID)

	// Daily report shows the breakdown.
	rec = api.do(t, http.MethodGet, "/api/reports/daily", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	report := decode[DailyReportDTO](t, rec)
	assert.Equal(t, "2026-03-10", report.Date)
	assert.InDelta(t, 600, report.TotalSales, 0.001)
	require.Len(t, report.Items, 1)
	assert.Equal(t, "V-Neck T-Shirt", report.Items[0].Name)
	assert.Equal(t, 2, report.Items[0].QuantitySold)

	// Archive the day.
	rec = api.do(t, http.MethodDelete, "/api/reports/daily", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	msg := decode[MessageResponse](t, rec)
	assert.Equal(t, pos.MsgArchived, msg.Message)

	// The live report is now empty.
	rec = api.do(t, http.MethodGet, "/api/reports/daily", nil)
	report = decode[DailyReportDTO](t, rec)
	assert.Zero(t, report.TotalSales)
	assert.Empty(t, report.Items)

	// The month lists the archived day.
	rec = api.do(t, http.MethodGet, "/api/reports/monthly?month=2026-03", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	summaries := decode[[]DailySummaryDTO](t, rec)
	require.Len(t, summaries, 1)
	assert.Equal(t, "2026-03-10", summaries[0].Date)
	assert.InDelta(t, 600, summaries[0].TotalSales, 0.001)
}

func TestArchive_SecondCall_NoSalesToClear(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/sales", RecordSaleRequest{
		CashierID: 1,
		Items:     []SaleItemRequest{{ProductID: 1, Quantity: 1, Price: 500}},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/reports/daily", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	rec = api.do(t, http.MethodDelete, "/api/reports/daily", nil)
	require.Equal(t, http.StatusOK, rec.Code)
	msg := decode[MessageResponse](t, rec)
	assert.Equal(t, pos.MsgNoSalesToClear, msg.Message)
}

// =============================================================================
// SALES - error cases
// =============================================================================

func TestRecordSale_EmptyCart_BadRequest(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/sales", RecordSaleRequest{CashierID: 1})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordSale_UnknownProduct_BadRequest(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodPost, "/api/sales", RecordSaleRequest{
		CashierID: 1,
		Items:     []SaleItemRequest{{ProductID: 9999, Quantity: 1, Price: 100}},
	})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRecordSale_MalformedBody_BadRequest(t *testing.T) {
	api := newTestAPI(t)

	req := httptest.NewRequest(http.MethodPost, "/api/sales", bytes.NewBufferString("{not json"))
	rec := httptest.NewRecorder()
	api.router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

// =============================================================================
// MONTHLY - parameter validation
// =============================================================================

func TestMonthlySummaries_MissingMonth_BadRequest(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/reports/monthly", nil)

	require.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decode[ErrorResponse](t, rec)
	assert.Equal(t, "Month required", resp.Error)
}

func TestMonthlySummaries_MalformedMonth_BadRequest(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/reports/monthly?month=march-2026", nil)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestMonthlySummaries_EmptyMonth_EmptyList(t *testing.T) {
	api := newTestAPI(t)

	rec := api.do(t, http.MethodGet, "/api/reports/monthly?month=2026-01", nil)

	require.Equal(t, http.StatusOK, rec.Code)
	summaries := decode[[]DailySummaryDTO](t, rec)
	assert.Empty(t, summaries)
}
