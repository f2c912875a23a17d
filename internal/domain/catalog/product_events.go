package catalog

import (
	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeProduct = "Product"

// Event type constants
const (
	EventTypeProductCreated    = "ProductCreated"
	EventTypeProductUpdated    = "ProductUpdated"
	EventTypeProductStockAlert = "ProductStockAlert"
)

// ProductCreatedEvent is published when a new product is created
type ProductCreatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Category  string    `json:"category"`
}

// NewProductCreatedEvent creates a new ProductCreatedEvent
func NewProductCreatedEvent(product *Product) *ProductCreatedEvent {
	return &ProductCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductCreated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Code:            product.Code,
		Name:            product.Name,
		Category:        product.Category,
	}
}

// ProductUpdatedEvent is published when product details change
type ProductUpdatedEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
}

// NewProductUpdatedEvent creates a new ProductUpdatedEvent
func NewProductUpdatedEvent(product *Product) *ProductUpdatedEvent {
	return &ProductUpdatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductUpdated, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Code:            product.Code,
		Name:            product.Name,
	}
}

// ProductStockAlertEvent is published when a product drops below the alert threshold
type ProductStockAlertEvent struct {
	shared.BaseDomainEvent
	ProductID uuid.UUID `json:"product_id"`
	Code      string    `json:"code"`
	Name      string    `json:"name"`
	Quantity  int       `json:"quantity"`
}

// NewProductStockAlertEvent creates a new ProductStockAlertEvent
func NewProductStockAlertEvent(product *Product) *ProductStockAlertEvent {
	return &ProductStockAlertEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeProductStockAlert, AggregateTypeProduct, product.ID),
		ProductID:       product.ID,
		Code:            product.Code,
		Name:            product.Name,
		Quantity:        product.Quantity,
	}
}
