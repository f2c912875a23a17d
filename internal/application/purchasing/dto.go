package purchasing

import (
	"time"

	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/purchasing"
	"github.com/shopspring/decimal"
)

// RecordPurchaseRequest represents a request to record a stock acquisition
type RecordPurchaseRequest struct {
	ProductID uuid.UUID       `json:"product_id" binding:"required"`
	Quantity  int             `json:"quantity" binding:"required,gt=0"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	// SalePrice optionally replaces the catalog sale price; when absent
	// the current catalog price is used for margin calculations.
	SalePrice *decimal.Decimal `json:"sale_price"`
	Supplier  string           `json:"supplier" binding:"max=255"`
	Reference string           `json:"reference" binding:"max=64"`
	Notes     string           `json:"notes" binding:"max=1024"`
}

// PurchaseListFilter carries list query parameters
type PurchaseListFilter struct {
	Page        int    `form:"page"`
	PageSize    int    `form:"page_size"`
	OrderBy     string `form:"order_by"`
	OrderDir    string `form:"order_dir"`
	ProductCode string `form:"product_code"`
}

// PurchaseResponse represents a recorded purchase in API responses
type PurchaseResponse struct {
	ID          uuid.UUID `json:"id"`
	ProductID   uuid.UUID `json:"product_id"`
	ProductCode string    `json:"product_code"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitCost    string    `json:"unit_cost"`
	SalePrice   string    `json:"sale_price"`
	TotalCost   string    `json:"total_cost"`
	UnitMargin  string    `json:"unit_margin"`
	TotalMargin string    `json:"total_margin"`
	Supplier    string    `json:"supplier,omitempty"`
	Reference   string    `json:"reference,omitempty"`
	Notes       string    `json:"notes,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
}

// CostHistoryResponse represents one cost snapshot of a product
type CostHistoryResponse struct {
	ProductCode string    `json:"product_code"`
	UnitCost    string    `json:"unit_cost"`
	Quantity    int       `json:"quantity"`
	RecordedAt  time.Time `json:"recorded_at"`
}

// ToPurchaseResponse maps a purchase record to its response DTO
func ToPurchaseResponse(p *purchasing.Purchase) PurchaseResponse {
	return PurchaseResponse{
		ID:          p.ID,
		ProductID:   p.ProductID,
		ProductCode: p.ProductCode,
		ProductName: p.ProductName,
		Quantity:    p.Quantity,
		UnitCost:    p.UnitCost.StringFixed(2),
		SalePrice:   p.SalePriceAtPurchase.StringFixed(2),
		TotalCost:   p.TotalCost.StringFixed(2),
		UnitMargin:  p.UnitMargin.StringFixed(2),
		TotalMargin: p.TotalMargin.StringFixed(2),
		Supplier:    p.Supplier,
		Reference:   p.Reference,
		Notes:       p.Notes,
		CreatedAt:   p.CreatedAt,
	}
}

// ToCostHistoryResponse maps a cost history entry to its response DTO
func ToCostHistoryResponse(e *purchasing.CostHistoryEntry) CostHistoryResponse {
	return CostHistoryResponse{
		ProductCode: e.ProductCode,
		UnitCost:    e.UnitCost.StringFixed(2),
		Quantity:    e.Quantity,
		RecordedAt:  e.RecordedAt,
	}
}
