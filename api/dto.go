/*
dto.go - Data Transfer Objects for API requests and responses

JSON structures for API communication, decoupled from the domain model.
Monetary fields are float64 on the wire, matching what register and
back-office clients send; conversion to decimal happens at the handler
boundary.

NAMING CONVENTION:
  - *DTO: Response types returned to clients
  - *Request: Request body types from clients
*/
package api

import (
	"github.com/shopspring/decimal"
	"github.com/stitchline/pos-backend/pos"
)

// =============================================================================
// AUTH
// =============================================================================

// LoginRequest is the credential pair submitted at login.
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// UserDTO represents an authenticated account.
type UserDTO struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// LoginResponse wraps a successful login.
type LoginResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

// ChangePasswordRequest sets a new password for an account.
type ChangePasswordRequest struct {
	Username    string `json:"username"`
	NewPassword string `json:"newPassword"`
}

// =============================================================================
// CATALOG
// =============================================================================

// ProductDTO represents a catalog record.
type ProductDTO struct {
	ID       int64   `json:"id"`
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
}

// SaveProductRequest creates or updates a catalog record.
type SaveProductRequest struct {
	Name     string  `json:"name"`
	Category string  `json:"category"`
	Price    float64 `json:"price"`
	Stock    int     `json:"stock"`
}

// =============================================================================
// SALES
// =============================================================================

// SaleItemRequest is one cart line: product, quantity, and the unit
// price charged at the register (captured as price-at-sale).
type SaleItemRequest struct {
	ProductID int64   `json:"product_id"`
	Quantity  int     `json:"quantity"`
	Price     float64 `json:"price"`
}

// RecordSaleRequest is the body of POST /api/sales.
type RecordSaleRequest struct {
	CashierID int64             `json:"cashier_id"`
	Items     []SaleItemRequest `json:"items"`
}

// RecordSaleResponse returns the new sale id for receipt printing.
type RecordSaleResponse struct {
	Message string `json:"message"`
	SaleID  int64  `json:"sale_id"`
}

// =============================================================================
// REPORTS
// =============================================================================

// ReportLineDTO is one product's revenue within a daily report.
type ReportLineDTO struct {
	Name         string  `json:"name"`
	Category     string  `json:"category"`
	QuantitySold int     `json:"quantity_sold"`
	Revenue      float64 `json:"revenue"`
}

// DailyReportDTO is the per-product breakdown plus grand total for a day.
type DailyReportDTO struct {
	Date       string          `json:"date"`
	TotalSales float64         `json:"total_sales"`
	Items      []ReportLineDTO `json:"items"`
}

// DailySummaryDTO is one archived day in the monthly listing.
type DailySummaryDTO struct {
	Date       string  `json:"date"`
	TotalSales float64 `json:"total_sales"`
}

// MessageResponse is a bare confirmation message.
type MessageResponse struct {
	Message string `json:"message"`
}

// ErrorResponse is the standard error response.
type ErrorResponse struct {
	Error   string `json:"error"`
	Details any    `json:"details,omitempty"`
}

// =============================================================================
// CONVERSION HELPERS
// =============================================================================

func toProductDTO(p pos.Product) ProductDTO {
	price, _ := p.Price.Float64()
	return ProductDTO{
		ID:       int64(p.ID),
		Name:     p.Name,
		Category: p.Category,
		Price:    price,
		Stock:    p.Stock,
	}
}

func toDailyReportDTO(report pos.DailyReport) DailyReportDTO {
	total, _ := report.TotalSales.Float64()
	items := make([]ReportLineDTO, len(report.Lines))
	for i, line := range report.Lines {
		revenue, _ := line.Revenue.Float64()
		items[i] = ReportLineDTO{
			Name:         line.ProductName,
			Category:     line.Category,
			QuantitySold: line.QuantitySold,
			Revenue:      revenue,
		}
	}
	return DailyReportDTO{
		Date:       report.Date.String(),
		TotalSales: total,
		Items:      items,
	}
}

func toCartItems(items []SaleItemRequest) []pos.CartItem {
	cart := make([]pos.CartItem, len(items))
	for i, item := range items {
		cart[i] = pos.CartItem{
			ProductID: pos.ProductID(item.ProductID),
			Quantity:  item.Quantity,
			Price:     decimal.NewFromFloat(item.Price),
		}
	}
	return cart
}
