package sales

import (
	"time"

	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/shared"
	"github.com/lerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// SaleItem is a finalized sale line priced at the catalog price current
// at the moment of finalization.
type SaleItem struct {
	shared.BaseEntity
	SaleID      uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductID   uuid.UUID         `gorm:"type:uuid;not null"`
	ProductCode string            `gorm:"not null;size:32"`
	ProductName string            `gorm:"not null;size:255"`
	Quantity    int               `gorm:"not null"`
	UnitPrice   valueobject.Money `gorm:"type:decimal(18,2)"`
	LineTotal   valueobject.Money `gorm:"type:decimal(18,2)"`
}

// TableName specifies the database table name
func (SaleItem) TableName() string {
	return "sale_items"
}

// Sale is a finalized transaction. Sales are immutable once created.
type Sale struct {
	shared.BaseAggregateRoot
	Code        string            `gorm:"uniqueIndex;not null;size:32"`
	Items       []SaleItem        `gorm:"foreignKey:SaleID;constraint:OnDelete:CASCADE"`
	Total       valueobject.Money `gorm:"type:decimal(18,2)"`
	QuotationID *uuid.UUID        `gorm:"type:uuid;index"`
	SoldAt      time.Time         `gorm:"not null;index"`
}

// TableName specifies the database table name
func (Sale) TableName() string {
	return "sales"
}

// SaleLineInput describes one resolved cart line ready to be sold
type SaleLineInput struct {
	ProductID   uuid.UUID
	ProductCode string
	ProductName string
	Quantity    int
	UnitPrice   valueobject.Money
}

// NewSale builds a sale from resolved cart lines
func NewSale(lines []SaleLineInput, quotationID *uuid.UUID) (*Sale, error) {
	if len(lines) == 0 {
		return nil, shared.NewInvalidInputError("cart is empty")
	}

	sale := &Sale{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		QuotationID:       quotationID,
		SoldAt:            time.Now(),
	}

	items := make([]SaleItem, 0, len(lines))
	total := valueobject.Zero(valueobject.DefaultCurrency)
	for _, line := range lines {
		if line.Quantity <= 0 {
			return nil, shared.NewInvalidInputError("sale line quantity must be positive")
		}
		lineTotal := line.UnitPrice.Multiply(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		sum, err := total.Add(lineTotal)
		if err != nil {
			return nil, shared.NewInvalidInputError("sale lines must share one currency")
		}
		total = sum
		items = append(items, SaleItem{
			BaseEntity:  shared.NewBaseEntity(),
			SaleID:      sale.ID,
			ProductID:   line.ProductID,
			ProductCode: line.ProductCode,
			ProductName: line.ProductName,
			Quantity:    line.Quantity,
			UnitPrice:   line.UnitPrice,
			LineTotal:   lineTotal,
		})
	}
	sale.Items = items
	sale.Total = total

	sale.AddDomainEvent(NewSaleFinalizedEvent(sale))
	return sale, nil
}
