package sales

import (
	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeSale = "Sale"

// Event type constants
const EventTypeSaleFinalized = "SaleFinalized"

// SaleFinalizedEvent is published when a cart is finalized into a sale
type SaleFinalizedEvent struct {
	shared.BaseDomainEvent
	SaleID    uuid.UUID `json:"sale_id"`
	Code      string    `json:"code"`
	Total     string    `json:"total"`
	ItemCount int       `json:"item_count"`
}

// NewSaleFinalizedEvent creates a new SaleFinalizedEvent
func NewSaleFinalizedEvent(sale *Sale) *SaleFinalizedEvent {
	return &SaleFinalizedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeSaleFinalized, AggregateTypeSale, sale.ID),
		SaleID:          sale.ID,
		Code:            sale.Code,
		Total:           sale.Total.StringFixed(2),
		ItemCount:       len(sale.Items),
	}
}
