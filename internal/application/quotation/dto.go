package quotation

import (
	"time"

	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/quotation"
)

// QuotationItemInput represents one requested line of a quotation
type QuotationItemInput struct {
	ProductID uuid.UUID `json:"product_id" binding:"required"`
	Quantity  int       `json:"quantity" binding:"required,gt=0"`
}

// CreateQuotationRequest represents a request to draft a quotation
type CreateQuotationRequest struct {
	CustomerName string               `json:"customer_name" binding:"required,min=1,max=255"`
	Items        []QuotationItemInput `json:"items" binding:"required,min=1,dive"`
}

// UpdateQuotationRequest replaces the content of a draft quotation
type UpdateQuotationRequest struct {
	CustomerName string               `json:"customer_name" binding:"required,min=1,max=255"`
	Items        []QuotationItemInput `json:"items" binding:"required,min=1,dive"`
}

// QuotationListFilter carries list query parameters
type QuotationListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Status   string `form:"status"`
}

// QuotationItemResponse represents a quotation line in API responses
type QuotationItemResponse struct {
	ProductID   uuid.UUID `json:"product_id"`
	ProductCode string    `json:"product_code"`
	ProductName string    `json:"product_name"`
	Quantity    int       `json:"quantity"`
	UnitPrice   string    `json:"unit_price"`
	LineTotal   string    `json:"line_total"`
}

// QuotationResponse represents a quotation in API responses
type QuotationResponse struct {
	ID              uuid.UUID               `json:"id"`
	Number          string                  `json:"number"`
	CustomerName    string                  `json:"customer_name"`
	Status          string                  `json:"status"`
	Items           []QuotationItemResponse `json:"items"`
	Total           string                  `json:"total"`
	ConvertedSaleID *uuid.UUID              `json:"converted_sale_id,omitempty"`
	ConvertedAt     *time.Time              `json:"converted_at,omitempty"`
	CreatedAt       time.Time               `json:"created_at"`
	UpdatedAt       time.Time               `json:"updated_at"`
}

// ToQuotationResponse maps a quotation aggregate to its response DTO
func ToQuotationResponse(q *quotation.Quotation) QuotationResponse {
	items := make([]QuotationItemResponse, len(q.Items))
	for i := range q.Items {
		items[i] = QuotationItemResponse{
			ProductID:   q.Items[i].ProductID,
			ProductCode: q.Items[i].ProductCode,
			ProductName: q.Items[i].ProductName,
			Quantity:    q.Items[i].Quantity,
			UnitPrice:   q.Items[i].UnitPrice.StringFixed(2),
			LineTotal:   q.Items[i].LineTotal.StringFixed(2),
		}
	}
	return QuotationResponse{
		ID:              q.ID,
		Number:          q.Number,
		CustomerName:    q.CustomerName,
		Status:          string(q.Status),
		Items:           items,
		Total:           q.Total.StringFixed(2),
		ConvertedSaleID: q.ConvertedSaleID,
		ConvertedAt:     q.ConvertedAt,
		CreatedAt:       q.CreatedAt,
		UpdatedAt:       q.UpdatedAt,
	}
}
