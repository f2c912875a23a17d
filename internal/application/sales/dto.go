package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/sales"
)

// AddCartItemRequest adds a product to the session cart
type AddCartItemRequest struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// SetCartItemRequest replaces the quantity of a cart line
type SetCartItemRequest struct {
	Quantity int `json:"quantity" binding:"required,gt=0"`
}

// FinalizeSaleRequest finalizes the session cart into a sale
type FinalizeSaleRequest struct {
	PaymentMethod string `json:"payment_method" binding:"omitempty,oneof=cash card transfer mobile"`
	Description   string `json:"description" binding:"max=512"`
}

// SaleListFilter carries list query parameters
type SaleListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
}

// CartLineResponse is a cart line enriched with catalog details
type CartLineResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductCode string    `json:"product_code"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	LineTotal   string    `json:"line_total"`
}

// CartResponse represents the session cart in API responses
type CartResponse struct {
	SessionKey  string             `json:"session_key"`
	Lines       []CartLineResponse `json:"lines"`
	Total       string             `json:"total"`
	QuotationID *uuid.UUID         `json:"quotation_id,omitempty"`
}

// SaleItemResponse represents a sale line in API responses
type SaleItemResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductCode string    `json:"product_code"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	LineTotal   string    `json:"line_total"`
}

// SaleResponse represents a finalized sale in API responses
type SaleResponse struct {
	ID          uuid.UUID          `json:"id"`
	Code        string             `json:"code"`
	Items       []SaleItemResponse `json:"items"`
	Total       string             `json:"total"`
	QuotationID *uuid.UUID         `json:"quotation_id,omitempty"`
	SoldAt      time.Time          `json:"sold_at"`
}

// ToSaleResponse maps a sale aggregate to its response DTO
func ToSaleResponse(sale *sales.Sale) SaleResponse {
	items := make([]SaleItemResponse, len(sale.Items))
	for i := range sale.Items {
		items[i] = SaleItemResponse{
			ProductID:   sale.Items[i].ProductID,
			ProductCode: sale.Items[i].ProductCode,
			ProductName: sale.Items[i].ProductName,
			Quantity:    sale.Items[i].Quantity,
			UnitPrice:   sale.Items[i].UnitPrice.StringFixed(2),
			LineTotal:   sale.Items[i].LineTotal.StringFixed(2),
		}
	}
	return SaleResponse{
		ID:          sale.ID,
		Code:        sale.Code,
		Items:       items,
		Total:       sale.Total.StringFixed(2),
		QuotationID: sale.QuotationID,
		SoldAt:      sale.SoldAt,
	}
}
