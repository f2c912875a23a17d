package catalog

import (
	"time"

	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/catalog"
	"github.com/shopspring/decimal"
)

// CreateProductRequest represents a request to register a product
type CreateProductRequest struct {
	Name      string          `json:"name" binding:"required,min=1,max=255"`
	Category  string          `json:"category" binding:"required,min=1,max=64"`
	Quantity  int             `json:"quantity" binding:"min=0"`
	UnitCost  decimal.Decimal `json:"unit_cost"`
	SalePrice decimal.Decimal `json:"sale_price" binding:"required"`
}

// UpdateProductRequest represents a request to update product details
type UpdateProductRequest struct {
	Name      string          `json:"name" binding:"required,min=1,max=255"`
	Category  string          `json:"category" binding:"required,min=1,max=64"`
	SalePrice decimal.Decimal `json:"sale_price" binding:"required"`
}

// AdjustStockRequest represents a manual stock adjustment
type AdjustStockRequest struct {
	Delta int `json:"delta" binding:"required"`
}

// ProductListFilter carries list query parameters
type ProductListFilter struct {
	Page     int    `form:"page"`
	PageSize int    `form:"page_size"`
	OrderBy  string `form:"order_by"`
	OrderDir string `form:"order_dir"`
	Search   string `form:"search"`
	Category string `form:"category"`
	Status   string `form:"status"`
}

// ProductResponse represents a product in API responses
type ProductResponse struct {
	ID        uuid.UUID `json:"id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
	Quantity  int       `json:"quantity"`
	SalePrice string    `json:"sale_price"`
	AvgCost   string    `json:"avg_cost"`
	Status    string    `json:"status"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ToProductResponse maps a product aggregate to its response DTO
func ToProductResponse(product *catalog.Product) ProductResponse {
	return ProductResponse{
		ID:        product.ID,
		Code:      product.Code,
		Name:      product.Name,
		Category:  product.Category,
		Quantity:  product.Quantity,
		SalePrice: product.SalePrice.StringFixed(2),
		AvgCost:   product.AvgCost.StringFixed(2),
		Status:    string(product.Status),
		CreatedAt: product.CreatedAt,
		UpdatedAt: product.UpdatedAt,
	}
}
