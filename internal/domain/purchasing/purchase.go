package purchasing

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/shared"
	"github.com/lerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// Purchase records a stock acquisition. Once recorded it is immutable:
// derived totals and margins are computed at creation and never change.
type Purchase struct {
	shared.BaseEntity
	ProductID           uuid.UUID         `gorm:"type:uuid;not null;index"`
	ProductCode         string            `gorm:"not null;size:32;index"`
	ProductName         string            `gorm:"not null;size:255"`
	Quantity            int               `gorm:"not null"`
	UnitCost            valueobject.Money `gorm:"type:decimal(18,2)"`
	SalePriceAtPurchase valueobject.Money `gorm:"type:decimal(18,2)"`
	TotalCost           valueobject.Money `gorm:"type:decimal(18,2)"`
	UnitMargin          valueobject.Money `gorm:"type:decimal(18,2)"`
	TotalMargin         valueobject.Money `gorm:"type:decimal(18,2)"`
	Supplier            string            `gorm:"size:255"`
	Reference           string            `gorm:"size:64"`
	Notes               string            `gorm:"size:1024"`
}

// TableName specifies the database table name
func (Purchase) TableName() string {
	return "purchases"
}

// CostHistoryEntry is an append-only snapshot of a product's acquisition
// cost, written alongside every recorded purchase.
type CostHistoryEntry struct {
	shared.BaseEntity
	ProductCode string            `gorm:"not null;size:32;index"`
	UnitCost    valueobject.Money `gorm:"type:decimal(18,2)"`
	Quantity    int               `gorm:"not null"`
	RecordedAt  time.Time         `gorm:"not null;index"`
}

// TableName specifies the database table name
func (CostHistoryEntry) TableName() string {
	return "cost_history_entries"
}

// NewPurchase creates an immutable purchase record with validation and
// derived monetary fields rounded to two decimal places.
func NewPurchase(productID uuid.UUID, productCode, productName string, quantity int, unitCost, salePrice valueobject.Money, supplier, reference, notes string) (*Purchase, error) {
	if productID == uuid.Nil {
		return nil, shared.NewInvalidInputError("product is required")
	}
	if quantity <= 0 {
		return nil, shared.NewInvalidInputError("purchase quantity must be positive")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewInvalidInputError("unit cost cannot be negative")
	}
	below, err := salePrice.LessThan(unitCost)
	if err != nil {
		return nil, shared.NewInvalidInputError("sale price currency does not match unit cost currency")
	}
	if below {
		return nil, shared.NewInvalidInputError("sale price cannot be below unit cost")
	}

	qty := decimal.NewFromInt(int64(quantity))
	unitMargin := salePrice.MustSubtract(unitCost).Round(2)

	return &Purchase{
		BaseEntity:          shared.NewBaseEntity(),
		ProductID:           productID,
		ProductCode:         productCode,
		ProductName:         strings.TrimSpace(productName),
		Quantity:            quantity,
		UnitCost:            unitCost,
		SalePriceAtPurchase: salePrice,
		TotalCost:           unitCost.Multiply(qty).Round(2),
		UnitMargin:          unitMargin,
		TotalMargin:         unitMargin.Multiply(qty).Round(2),
		Supplier:            strings.TrimSpace(supplier),
		Reference:           strings.TrimSpace(reference),
		Notes:               strings.TrimSpace(notes),
	}, nil
}

// NewCostHistoryEntry creates a cost history snapshot for a purchase
func NewCostHistoryEntry(productCode string, unitCost valueobject.Money, quantity int) *CostHistoryEntry {
	return &CostHistoryEntry{
		BaseEntity:  shared.NewBaseEntity(),
		ProductCode: productCode,
		UnitCost:    unitCost,
		Quantity:    quantity,
		RecordedAt:  time.Now(),
	}
}
