package quotation

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/shared"
	"github.com/lerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// QuotationStatus represents the lifecycle state of a quotation
type QuotationStatus string

const (
	StatusDraft     QuotationStatus = "draft"
	StatusConverted QuotationStatus = "converted"
)

// IsValid checks if the status is a valid quotation status
func (s QuotationStatus) IsValid() bool {
	return s == StatusDraft || s == StatusConverted
}

// CanTransitionTo checks if a status transition is allowed
func (s QuotationStatus) CanTransitionTo(target QuotationStatus) bool {
	return s == StatusDraft && target == StatusConverted
}

// QuotationItem is a priced line of a quotation. Unit prices are
// snapshots of the catalog price at the time the line was added.
type QuotationItem struct {
	shared.BaseEntity
	QuotationID uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID         `gorm:"type:uuid;not null"`
	ProductCode string            `gorm:"not null;size:32"`
	ProductName string            `gorm:"not null;size:255"`
	Quantity    int               `gorm:"not null"`
	UnitPrice   valueobject.Money `gorm:"type:decimal(18,2)"`
	LineTotal   valueobject.Money `gorm:"type:decimal(18,2)"`
}

// TableName specifies the database table name
func (QuotationItem) TableName() string {
	return "quotation_items"
}

// Quotation is a draft offer that can be converted exactly once into a
// sale cart. Converted quotations are immutable.
type Quotation struct {
	shared.BaseAggregateRoot
	Number          string            `gorm:"uniqueIndex;not null;size:32"`
	CustomerName    string            `gorm:"not null;size:255"`
	Status          QuotationStatus   `gorm:"not null;size:16;index"`
	Items           []QuotationItem   `gorm:"foreignKey:QuotationID;constraint:OnDelete:CASCADE"`
	Total           valueobject.Money `gorm:"type:decimal(18,2)"`
	ConvertedSaleID *uuid.UUID        `gorm:"type:uuid"`
	ConvertedAt     *time.Time
}

// TableName specifies the database table name
func (Quotation) TableName() string {
	return "quotations"
}

// LineInput describes one requested quotation line before pricing
type LineInput struct {
	ProductID   uuid.UUID
	ProductCode string
	ProductName string
	Quantity    int
	UnitPrice   valueobject.Money
}

// NewQuotation creates a draft quotation from priced line inputs
func NewQuotation(customerName string, lines []LineInput) (*Quotation, error) {
	if strings.TrimSpace(customerName) == "" {
		return nil, shared.NewInvalidInputError("customer name cannot be empty")
	}
	if len(lines) == 0 {
		return nil, shared.NewInvalidInputError("quotation must have at least one item")
	}

	quotation := &Quotation{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		CustomerName:      strings.TrimSpace(customerName),
		Status:            StatusDraft,
		Total:             valueobject.ZeroMZN(),
	}
	if err := quotation.setLines(lines); err != nil {
		return nil, err
	}

	quotation.AddDomainEvent(NewQuotationCreatedEvent(quotation))
	return quotation, nil
}

func (q *Quotation) setLines(lines []LineInput) error {
	items := make([]QuotationItem, 0, len(lines))
	total := valueobject.Zero(valueobject.DefaultCurrency)
	for _, line := range lines {
		if line.ProductID == uuid.Nil {
			return shared.NewInvalidInputError("quotation line is missing a product")
		}
		if line.Quantity <= 0 {
			return shared.NewInvalidInputError("quotation line quantity must be positive")
		}
		lineTotal := line.UnitPrice.Multiply(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		sum, err := total.Add(lineTotal)
		if err != nil {
			return shared.NewInvalidInputError("quotation lines must share one currency")
		}
		total = sum
		items = append(items, QuotationItem{
			BaseEntity:  shared.NewBaseEntity(),
			QuotationID: q.ID,
			ProductID:   line.ProductID,
			ProductCode: line.ProductCode,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   lineTotal,
		})
	}
	q.Items = items
	q.Total = total
	return nil
}

// Update replaces the customer and lines of a draft quotation
func (q *Quotation) Update(customerName string, lines []LineInput) error {
	if q.Status != StatusDraft {
		return shared.NewInvalidStateError("only draft quotations can be edited")
	}
	if strings.TrimSpace(customerName) == "" {
		return shared.NewInvalidInputError("customer name cannot be empty")
	}
	if len(lines) == 0 {
		return shared.NewInvalidInputError("quotation must have at least one item")
	}
	if err := q.setLines(lines); err != nil {
		return err
	}
	q.CustomerName = strings.TrimSpace(customerName)
	return nil
}

// CanDelete reports whether the quotation may be removed
func (q *Quotation) CanDelete() error {
	if q.Status != StatusDraft {
		return shared.NewInvalidStateError("only draft quotations can be deleted")
	}
	return nil
}

// Convert marks the quotation as converted. A quotation converts at
// most once; converting again is an invalid state transition.
func (q *Quotation) Convert() error {
	if !q.Status.CanTransitionTo(StatusConverted) {
		return shared.NewInvalidStateError("quotation already converted")
	}
	now := time.Now()
	q.Status = StatusConverted
	q.ConvertedAt = &now
	q.AddDomainEvent(NewQuotationConvertedEvent(q))
	return nil
}

// LinkSale records the sale created from this quotation
func (q *Quotation) LinkSale(saleID uuid.UUID) error {
	if q.Status != StatusConverted {
		return shared.NewInvalidStateError("quotation has not been converted")
	}
	q.ConvertedSaleID = &saleID
	return nil
}
