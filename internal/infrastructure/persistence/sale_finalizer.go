package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/lerp/backend/internal/domain/cashbook"
	"github.com/lerp/backend/internal/domain/sales"
)

const finalizeMaxAttempts = 3

// GormSaleFinalizer persists a finalized sale and its payment in one
// transaction. Sale and payment codes are assigned inside the
// transaction and the whole transaction retries on a code collision.
type GormSaleFinalizer struct {
	db *gorm.DB
}

// NewGormSaleFinalizer creates a new GormSaleFinalizer
func NewGormSaleFinalizer(db *gorm.DB) *GormSaleFinalizer {
	return &GormSaleFinalizer{db: db}
}

// FinalizeSale assigns codes and persists the sale, its items, and the
// payment atomically.
func (f *GormSaleFinalizer) FinalizeSale(ctx context.Context, sale *sales.Sale, payment *cashbook.Payment) error {
	var err error
	for attempt := 0; attempt < finalizeMaxAttempts; attempt++ {
		err = f.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
			saleCode, err := nextSequentialCode(tx, &sales.Sale{}, "code", "VD")
			if err != nil {
				return err
			}
			paymentCode, err := nextSequentialCode(tx, &cashbook.Payment{}, "code", "PG")
			if err != nil {
				return err
			}
			sale.Code = saleCode
			payment.Code = paymentCode

			if err := tx.Omit("Items").Create(sale).Error; err != nil {
				return err
			}
			if len(sale.Items) > 0 {
				if err := tx.Create(&sale.Items).Error; err != nil {
					return err
				}
			}
			return tx.Create(payment).Error
		})
		if err == nil || !errors.Is(err, gorm.ErrDuplicatedKey) {
			return err
		}
	}
	return err
}

// nextSequentialCode computes the next free code of the form
// PREFIX-YYYY-NNNNN for the given model within the transaction,
// skipping forward over codes that are already taken.
func nextSequentialCode(tx *gorm.DB, model interface{}, column, codePrefix string) (string, error) {
	prefix := fmt.Sprintf("%s-%d-", codePrefix, time.Now().Year())

	var count int64
	if err := tx.Model(model).
		Where(column+" LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	for seq := count + 1; ; seq++ {
		code := fmt.Sprintf("%s%05d", prefix, seq)
		var taken int64
		if err := tx.Model(model).
			Where(column+" = ?", code).
			Count(&taken).Error; err != nil {
			return "", err
		}
		if taken == 0 {
			return code, nil
		}
	}
}

var _ sales.Finalizer = (*GormSaleFinalizer)(nil)
