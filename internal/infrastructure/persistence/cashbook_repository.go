package persistence

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lerp/backend/internal/domain/cashbook"
	"github.com/lerp/backend/internal/domain/shared"
	"github.com/lerp/backend/internal/domain/shared/valueobject"
)

// GormCashEntryRepository implements CashEntryRepository using GORM
type GormCashEntryRepository struct {
	db *gorm.DB
}

// NewGormCashEntryRepository creates a new GormCashEntryRepository
func NewGormCashEntryRepository(db *gorm.DB) *GormCashEntryRepository {
	return &GormCashEntryRepository{db: db}
}

// Save persists a cash entry
func (r *GormCashEntryRepository) Save(ctx context.Context, entry *cashbook.CashEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// FindSince lists entries of a type recorded at or after since,
// newest first. A zero since means no lower bound.
func (r *GormCashEntryRepository) FindSince(ctx context.Context, entryType cashbook.EntryType, since time.Time, filter shared.Filter) ([]cashbook.CashEntry, error) {
	query := r.db.WithContext(ctx).Model(&cashbook.CashEntry{}).
		Where("type = ?", entryType)
	if !since.IsZero() {
		query = query.Where("recorded_at >= ?", since)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var entries []cashbook.CashEntry
	if err := query.Order("recorded_at DESC").Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// SumSince totals entry amounts of a type recorded at or after since.
// A zero since means no lower bound.
func (r *GormCashEntryRepository) SumSince(ctx context.Context, entryType cashbook.EntryType, since time.Time) (valueobject.Money, error) {
	query := r.db.WithContext(ctx).Model(&cashbook.CashEntry{}).
		Where("type = ?", entryType)
	if !since.IsZero() {
		query = query.Where("recorded_at >= ?", since)
	}

	var sum decimal.Decimal
	row := query.Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&sum); err != nil {
		return valueobject.ZeroMZN(), err
	}
	return valueobject.NewMoneyMZN(sum), nil
}

// GormPaymentRepository implements PaymentRepository using GORM
type GormPaymentRepository struct {
	db *gorm.DB
}

// NewGormPaymentRepository creates a new GormPaymentRepository
func NewGormPaymentRepository(db *gorm.DB) *GormPaymentRepository {
	return &GormPaymentRepository{db: db}
}

// Save persists a payment, assigning its code when not yet set
func (r *GormPaymentRepository) Save(ctx context.Context, payment *cashbook.Payment) error {
	if payment.Code == "" {
		code, err := r.GenerateCode(ctx)
		if err != nil {
			return err
		}
		payment.Code = code
	}
	return r.db.WithContext(ctx).Save(payment).Error
}

// FindSince lists payments made at or after since, newest first.
// A zero since means no lower bound.
func (r *GormPaymentRepository) FindSince(ctx context.Context, since time.Time, filter shared.Filter) ([]cashbook.Payment, error) {
	query := r.db.WithContext(ctx).Model(&cashbook.Payment{})
	if !since.IsZero() {
		query = query.Where("paid_at >= ?", since)
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	var payments []cashbook.Payment
	if err := query.Order("paid_at DESC").Find(&payments).Error; err != nil {
		return nil, err
	}
	return payments, nil
}

// SumSince totals payment amounts made at or after since.
// A zero since means no lower bound.
func (r *GormPaymentRepository) SumSince(ctx context.Context, since time.Time) (valueobject.Money, error) {
	query := r.db.WithContext(ctx).Model(&cashbook.Payment{})
	if !since.IsZero() {
		query = query.Where("paid_at >= ?", since)
	}

	var sum decimal.Decimal
	row := query.Select("COALESCE(SUM(amount), 0)").Row()
	if err := row.Scan(&sum); err != nil {
		return valueobject.ZeroMZN(), err
	}
	return valueobject.NewMoneyMZN(sum), nil
}

// GenerateCode generates the next payment code for the current year,
// format PG-YYYY-NNNNN.
func (r *GormPaymentRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("PG-%d-", year)

	var count int64
	if err := r.db.WithContext(ctx).Model(&cashbook.Payment{}).
		Where("code LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	for seq := count + 1; ; seq++ {
		code := fmt.Sprintf("%s%05d", prefix, seq)
		var taken int64
		if err := r.db.WithContext(ctx).Model(&cashbook.Payment{}).
			Where("code = ?", code).
			Count(&taken).Error; err != nil {
			return "", err
		}
		if taken == 0 {
			return code, nil
		}
	}
}

// Ensure interfaces are implemented
var _ cashbook.CashEntryRepository = (*GormCashEntryRepository)(nil)
var _ cashbook.PaymentRepository = (*GormPaymentRepository)(nil)
