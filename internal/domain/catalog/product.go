package catalog

import (
	"strings"

	"github.com/lerp/backend/internal/domain/shared"
	"github.com/lerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// ProductStatus represents the stock status of a product
type ProductStatus string

const (
	StatusNormal ProductStatus = "normal"
	StatusAlert  ProductStatus = "alert"
)

// IsValid checks if the status is a valid product status
func (s ProductStatus) IsValid() bool {
	return s == StatusNormal || s == StatusAlert
}

// AlertThreshold is the stock level below which a product enters alert status
const AlertThreshold = 10

// categoryPrefixes maps a product category to its code prefix
var categoryPrefixes = map[string]string{
	"ferragem":     "gf",
	"loja":         "gl",
	"botle store":  "gbs",
	"mercearia":    "gm",
	"supermercado": "gs",
	"farmacia":     "gfm",
	"restaurantes": "grs",
	"bar":          "gbr",
	"acessorios":   "gac",
	"servicos":     "gsv",
}

// CodePrefix returns the product code prefix for a category.
// Unknown categories fall back to the generic prefix.
func CodePrefix(category string) string {
	if prefix, ok := categoryPrefixes[strings.ToLower(strings.TrimSpace(category))]; ok {
		return prefix
	}
	return "gen"
}

// Product is the aggregate root of the stock ledger. It tracks the on-hand
// quantity, the weighted-average unit cost, and the derived stock status.
type Product struct {
	shared.BaseAggregateRoot
	Code      string            `gorm:"uniqueIndex;not null;size:32"`
	Name      string            `gorm:"not null;size:255"`
	Category  string            `gorm:"not null;size:64;index"`
	Quantity  int               `gorm:"not null;default:0"`
	SalePrice valueobject.Money `gorm:"type:decimal(18,2)"`
	AvgCost   valueobject.Money `gorm:"type:decimal(18,2)"`
	Status    ProductStatus     `gorm:"not null;size:16;index"`
}

// TableName specifies the database table name
func (Product) TableName() string {
	return "products"
}

// NewProduct creates a new product with validation. The unit cost seeds
// the average cost so the initial stock carries its registration cost
// into the first weighted average.
func NewProduct(name, category string, quantity int, unitCost, salePrice valueobject.Money) (*Product, error) {
	if err := validateProductName(name); err != nil {
		return nil, err
	}
	if quantity < 0 {
		return nil, shared.NewInvalidInputError("quantity cannot be negative")
	}
	if unitCost.IsNegative() {
		return nil, shared.NewInvalidInputError("unit cost cannot be negative")
	}
	if !salePrice.IsPositive() {
		return nil, shared.NewInvalidInputError("sale price must be positive")
	}

	product := &Product{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		Name:              strings.TrimSpace(name),
		Category:          strings.TrimSpace(category),
		Quantity:          quantity,
		SalePrice:         salePrice,
		AvgCost:           unitCost.Round(2),
	}
	product.refreshStatus()

	product.AddDomainEvent(NewProductCreatedEvent(product))
	return product, nil
}

func validateProductName(name string) error {
	if strings.TrimSpace(name) == "" {
		return shared.NewInvalidInputError("product name cannot be empty")
	}
	return nil
}

// refreshStatus recomputes the status from the current quantity and
// emits a stock alert event when the product drops into alert.
func (p *Product) refreshStatus() {
	previous := p.Status
	if p.Quantity < AlertThreshold {
		p.Status = StatusAlert
	} else {
		p.Status = StatusNormal
	}
	if p.Status == StatusAlert && previous != StatusAlert {
		p.AddDomainEvent(NewProductStockAlertEvent(p))
	}
}

// ApplyPurchase folds a received batch into the ledger: the on-hand
// quantity increases and the average cost is recomputed as the
// quantity-weighted mean of the old cost and the batch unit cost.
func (p *Product) ApplyPurchase(quantity int, unitCost valueobject.Money) error {
	if quantity <= 0 {
		return shared.NewInvalidInputError("purchase quantity must be positive")
	}
	if unitCost.IsNegative() {
		return shared.NewInvalidInputError("unit cost cannot be negative")
	}

	oldQty := decimal.NewFromInt(int64(p.Quantity))
	newQty := decimal.NewFromInt(int64(quantity))
	totalQty := oldQty.Add(newQty)

	oldValue := p.AvgCost.Multiply(oldQty)
	newValue := unitCost.Multiply(newQty)
	totalValue, err := oldValue.Add(newValue)
	if err != nil {
		return shared.NewInvalidInputError("unit cost currency does not match product cost currency")
	}
	avg, err := totalValue.Divide(totalQty)
	if err != nil {
		return err
	}

	p.AvgCost = avg.Round(2)
	p.Quantity += quantity
	p.refreshStatus()
	return nil
}

// AdjustQuantity changes the on-hand quantity by delta. The resulting
// quantity may not go negative.
func (p *Product) AdjustQuantity(delta int) error {
	if p.Quantity+delta < 0 {
		return shared.NewInvalidInputError("adjustment would make quantity negative")
	}
	p.Quantity += delta
	p.refreshStatus()
	return nil
}

// UpdateDetails updates the descriptive fields of the product
func (p *Product) UpdateDetails(name, category string, salePrice valueobject.Money) error {
	if err := validateProductName(name); err != nil {
		return err
	}
	if !salePrice.IsPositive() {
		return shared.NewInvalidInputError("sale price must be positive")
	}

	p.Name = strings.TrimSpace(name)
	p.Category = strings.TrimSpace(category)
	p.SalePrice = salePrice
	p.AddDomainEvent(NewProductUpdatedEvent(p))
	return nil
}

// SetSalePrice replaces the catalog sale price
func (p *Product) SetSalePrice(price valueobject.Money) error {
	if !price.IsPositive() {
		return shared.NewInvalidInputError("sale price must be positive")
	}
	p.SalePrice = price
	return nil
}

// IsInAlert reports whether the product is below the alert threshold
func (p *Product) IsInAlert() bool {
	return p.Status == StatusAlert
}
