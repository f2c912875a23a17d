package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/lerp/backend/internal/domain/catalog"
	"github.com/lerp/backend/internal/domain/purchasing"
	"github.com/lerp/backend/internal/domain/shared"
)

// GormPurchaseRecorder records a purchase atomically. The product row is
// locked for the duration of the transaction so concurrent purchases of
// the same product serialize instead of racing the average cost.
type GormPurchaseRecorder struct {
	db *gorm.DB
}

// NewGormPurchaseRecorder creates a new GormPurchaseRecorder
func NewGormPurchaseRecorder(db *gorm.DB) *GormPurchaseRecorder {
	return &GormPurchaseRecorder{db: db}
}

// RecordPurchase loads the product under a row lock, applies the domain
// mutation, and persists the product, purchase, and cost history entry
// in one transaction.
func (r *GormPurchaseRecorder) RecordPurchase(ctx context.Context, productID uuid.UUID, apply func(product *catalog.Product) (*purchasing.Purchase, *purchasing.CostHistoryEntry, error)) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var product catalog.Product
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&product, "id = ?", productID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return shared.ErrNotFound
			}
			return err
		}

		purchase, entry, err := apply(&product)
		if err != nil {
			return err
		}

		if err := tx.Save(&product).Error; err != nil {
			return err
		}
		if err := tx.Create(purchase).Error; err != nil {
			return err
		}
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return nil
	})
}

var _ purchasing.Recorder = (*GormPurchaseRecorder)(nil)
