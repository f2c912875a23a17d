package quotation

import (
	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/shared"
)

// Aggregate type constant
const AggregateTypeQuotation = "Quotation"

// Event type constants
const (
	EventTypeQuotationCreated   = "QuotationCreated"
	EventTypeQuotationConverted = "QuotationConverted"
)

// QuotationCreatedEvent is published when a quotation is drafted
type QuotationCreatedEvent struct {
	shared.BaseDomainEvent
	QuotationID  uuid.UUID `json:"quotation_id"`
	Number       string    `json:"number"`
	CustomerName string    `json:"customer_name"`
	ItemCount    int       `json:"item_count"`
}

// NewQuotationCreatedEvent creates a new QuotationCreatedEvent
func NewQuotationCreatedEvent(q *Quotation) *QuotationCreatedEvent {
	return &QuotationCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationCreated, AggregateTypeQuotation, q.ID),
		QuotationID:     q.ID,
		Number:          q.Number,
		CustomerName:    q.CustomerName,
		ItemCount:       len(q.Items),
	}
}

// QuotationConvertedEvent is published when a quotation is converted to a cart
type QuotationConvertedEvent struct {
	shared.BaseDomainEvent
	QuotationID uuid.UUID `json:"quotation_id"`
	Number      string    `json:"number"`
}

// NewQuotationConvertedEvent creates a new QuotationConvertedEvent
func NewQuotationConvertedEvent(q *Quotation) *QuotationConvertedEvent {
	return &QuotationConvertedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeQuotationConverted, AggregateTypeQuotation, q.ID),
		QuotationID:     q.ID,
		Number:          q.Number,
	}
}
