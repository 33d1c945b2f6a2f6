/*
handlers.go - HTTP API handlers for the POS backend

Handles HTTP request/response and JSON serialization, delegating all
business logic to the pos package. No handler performs ledger mutations
itself; the Recorder and Archiver own the transaction boundaries.

ENDPOINTS:
  Auth:
    POST   /api/login            Check credentials
    POST   /api/change-password  Set a new password

  Catalog:
    GET    /api/products         List catalog
    POST   /api/products         Create product
    PUT    /api/products/{id}    Update product
    DELETE /api/products/{id}    Delete product

  Sales & reports:
    POST   /api/sales            Record a sale (today)
    GET    /api/reports/daily    Today's per-product report
    DELETE /api/reports/daily    Archive today and purge its detail rows
    GET    /api/reports/monthly  Archived summaries for ?month=YYYY-MM

ERROR HANDLING:
  - 400: validation and referential failures (empty cart, bad quantity,
         unknown product, malformed month)
  - 401: bad credentials
  - 404: missing account or product on update
  - 500: store/transaction failures (nothing partial persisted)
*/
package api

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/stitchline/pos-backend/pos"
	"github.com/stitchline/pos-backend/store/sqlite"
)

// Handler holds all dependencies for HTTP handlers.
type Handler struct {
	Store    *sqlite.Store
	Recorder *pos.Recorder
	Reporter *pos.Reporter
	Archiver *pos.Archiver
	Logger   *zap.Logger

	// now supplies "today" for the sale and daily-report endpoints;
	// tests pin it to a fixed date.
	now func() pos.Date
}

// NewHandler creates a handler over the store and domain services.
func NewHandler(store *sqlite.Store, recorder *pos.Recorder, reporter *pos.Reporter, archiver *pos.Archiver, logger *zap.Logger) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Handler{
		Store:    store,
		Recorder: recorder,
		Reporter: reporter,
		Archiver: archiver,
		Logger:   logger,
		now:      pos.Today,
	}
}

// =============================================================================
// AUTH HANDLERS
// =============================================================================

// Login checks a credential pair.
// POST /api/login
func (h *Handler) Login(w http.ResponseWriter, r *http.Request) {
	var req LoginRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	user, err := h.Store.Authenticate(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Login failed", err)
		return
	}
	if user == nil {
		writeError(w, http.StatusUnauthorized, "Invalid credentials", nil)
		return
	}

	writeJSON(w, http.StatusOK, LoginResponse{
		Message: "Login success",
		User: UserDTO{
			ID:       int64(user.ID),
			Username: user.Username,
			Role:     user.Role,
		},
	})
}

// ChangePassword sets a new password for an account.
// POST /api/change-password
func (h *Handler) ChangePassword(w http.ResponseWriter, r *http.Request) {
	var req ChangePasswordRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Username == "" || req.NewPassword == "" {
		writeError(w, http.StatusBadRequest, "Username and newPassword required", nil)
		return
	}

	updated, err := h.Store.UpdatePassword(r.Context(), req.Username, req.NewPassword)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to update password", err)
		return
	}
	if !updated {
		writeError(w, http.StatusNotFound, "Account not found", nil)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Password updated successfully"})
}

// =============================================================================
// CATALOG HANDLERS
// =============================================================================

// ListProducts returns the whole catalog.
// GET /api/products
func (h *Handler) ListProducts(w http.ResponseWriter, r *http.Request) {
	products, err := h.Store.ListProducts(r.Context())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list products", err)
		return
	}

	dtos := make([]ProductDTO, len(products))
	for i, p := range products {
		dtos[i] = toProductDTO(p)
	}
	writeJSON(w, http.StatusOK, dtos)
}

// CreateProduct adds a catalog record.
// POST /api/products
func (h *Handler) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var req SaveProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Price < 0 {
		writeError(w, http.StatusBadRequest, "Price must not be negative", nil)
		return
	}

	id, err := h.Store.CreateProduct(r.Context(), pos.Product{
		Name:     req.Name,
		Category: req.Category,
		Price:    decimal.NewFromFloat(req.Price),
		Stock:    req.Stock,
	})
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to create product", err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"id": int64(id)})
}

// UpdateProduct replaces a catalog record's fields.
// PUT /api/products/{id}
func (h *Handler) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id", err)
		return
	}

	var req SaveProductRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}
	if req.Price < 0 {
		writeError(w, http.StatusBadRequest, "Price must not be negative", nil)
		return
	}

	err = h.Store.UpdateProduct(r.Context(), pos.Product{
		ID:       pos.ProductID(id),
		Name:     req.Name,
		Category: req.Category,
		Price:    decimal.NewFromFloat(req.Price),
		Stock:    req.Stock,
	})
	if err != nil {
		if pos.IsClientError(err) {
			writeError(w, http.StatusNotFound, "Product not found", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Failed to update product", err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Product updated"})
}

// DeleteProduct removes a catalog record.
// DELETE /api/products/{id}
func (h *Handler) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid product id", err)
		return
	}

	if err := h.Store.DeleteProduct(r.Context(), pos.ProductID(id)); err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to delete product", err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: "Product deleted"})
}

// =============================================================================
// SALE HANDLERS
// =============================================================================

// RecordSale commits a sale for today.
// POST /api/sales
func (h *Handler) RecordSale(w http.ResponseWriter, r *http.Request) {
	var req RecordSaleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Invalid request body", err)
		return
	}

	saleID, err := h.Recorder.RecordSale(
		r.Context(),
		h.now(),
		pos.UserID(req.CashierID),
		toCartItems(req.Items),
	)
	if err != nil {
		if pos.IsClientError(err) {
			writeError(w, http.StatusBadRequest, "Sale rejected", err)
			return
		}
		writeError(w, http.StatusInternalServerError, "Sale failed", err)
		return
	}

	writeJSON(w, http.StatusOK, RecordSaleResponse{
		Message: "Sale recorded",
		SaleID:  int64(saleID),
	})
}

// =============================================================================
// REPORT HANDLERS
// =============================================================================

// DailyReport returns today's per-product revenue breakdown.
// GET /api/reports/daily
func (h *Handler) DailyReport(w http.ResponseWriter, r *http.Request) {
	report, err := h.Reporter.DailyReport(r.Context(), h.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to build daily report", err)
		return
	}

	writeJSON(w, http.StatusOK, toDailyReportDTO(report))
}

// ArchiveDailyReport archives today's totals and purges the detail rows.
// DELETE /api/reports/daily
func (h *Handler) ArchiveDailyReport(w http.ResponseWriter, r *http.Request) {
	message, err := h.Archiver.ArchiveAndClear(r.Context(), h.now())
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to archive daily report", err)
		return
	}

	writeJSON(w, http.StatusOK, MessageResponse{Message: message})
}

// MonthlySummaries lists archived daily summaries for ?month=YYYY-MM.
// GET /api/reports/monthly
func (h *Handler) MonthlySummaries(w http.ResponseWriter, r *http.Request) {
	monthParam := r.URL.Query().Get("month")
	if monthParam == "" {
		writeError(w, http.StatusBadRequest, "Month required", nil)
		return
	}

	month, err := pos.ParseYearMonth(monthParam)
	if err != nil {
		writeError(w, http.StatusBadRequest, "Invalid month format (use YYYY-MM)", err)
		return
	}

	summaries, err := h.Reporter.MonthlySummaries(r.Context(), month)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "Failed to list monthly summaries", err)
		return
	}

	dtos := make([]DailySummaryDTO, len(summaries))
	for i, summary := range summaries {
		total, _ := summary.TotalSales.Float64()
		dtos[i] = DailySummaryDTO{
			Date:       summary.Date.String(),
			TotalSales: total,
		}
	}
	writeJSON(w, http.StatusOK, dtos)
}

// =============================================================================
// RESPONSE HELPERS
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, message string, err error) {
	resp := ErrorResponse{Error: message}
	if err != nil {
		resp.Details = err.Error()
	}
	writeJSON(w, status, resp)
}
