package persistence

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lerp/backend/internal/domain/purchasing"
	"github.com/lerp/backend/internal/domain/shared"
)

// GormPurchaseRepository implements PurchaseRepository using GORM
type GormPurchaseRepository struct {
	db *gorm.DB
}

// NewGormPurchaseRepository creates a new GormPurchaseRepository
func NewGormPurchaseRepository(db *gorm.DB) *GormPurchaseRepository {
	return &GormPurchaseRepository{db: db}
}

// FindByID finds a purchase by its ID
func (r *GormPurchaseRepository) FindByID(ctx context.Context, id uuid.UUID) (*purchasing.Purchase, error) {
	var purchase purchasing.Purchase
	if err := r.db.WithContext(ctx).First(&purchase, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &purchase, nil
}

// FindAll finds all purchases matching the filter
func (r *GormPurchaseRepository) FindAll(ctx context.Context, filter shared.Filter) ([]purchasing.Purchase, error) {
	var purchases []purchasing.Purchase
	query := r.applyFilter(r.db.WithContext(ctx).Model(&purchasing.Purchase{}), filter)

	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// FindByProductCode finds purchases recorded for a product
func (r *GormPurchaseRepository) FindByProductCode(ctx context.Context, code string, filter shared.Filter) ([]purchasing.Purchase, error) {
	var purchases []purchasing.Purchase
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&purchasing.Purchase{}).Where("product_code = ?", code),
		filter,
	)

	if err := query.Find(&purchases).Error; err != nil {
		return nil, err
	}
	return purchases, nil
}

// Save persists a purchase record
func (r *GormPurchaseRepository) Save(ctx context.Context, purchase *purchasing.Purchase) error {
	return r.db.WithContext(ctx).Save(purchase).Error
}

// Count counts purchases matching the filter
func (r *GormPurchaseRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&purchasing.Purchase{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Summarize computes totals over all recorded purchases
func (r *GormPurchaseRepository) Summarize(ctx context.Context) (*purchasing.PurchaseSummary, error) {
	var row struct {
		Count       int64
		TotalSpent  decimal.Decimal
		TotalMargin decimal.Decimal
	}

	err := r.db.WithContext(ctx).Model(&purchasing.Purchase{}).
		Select("COUNT(*) as count, COALESCE(SUM(total_cost), 0) as total_spent, COALESCE(SUM(total_margin), 0) as total_margin").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &purchasing.PurchaseSummary{
		Count:       row.Count,
		TotalSpent:  row.TotalSpent.StringFixed(2),
		TotalMargin: row.TotalMargin.StringFixed(2),
	}, nil
}

func (r *GormPurchaseRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, PurchaseSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormPurchaseRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("product_name LIKE ? OR product_code LIKE ? OR supplier LIKE ?",
			searchPattern, searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "product_code":
			query = query.Where("product_code = ?", value)
		case "supplier":
			query = query.Where("supplier = ?", value)
		}
	}

	return query
}

// GormCostHistoryRepository implements CostHistoryRepository using GORM
type GormCostHistoryRepository struct {
	db *gorm.DB
}

// NewGormCostHistoryRepository creates a new GormCostHistoryRepository
func NewGormCostHistoryRepository(db *gorm.DB) *GormCostHistoryRepository {
	return &GormCostHistoryRepository{db: db}
}

// FindByProductCode lists cost snapshots for a product, newest first
func (r *GormCostHistoryRepository) FindByProductCode(ctx context.Context, code string, filter shared.Filter) ([]purchasing.CostHistoryEntry, error) {
	var entries []purchasing.CostHistoryEntry
	query := r.db.WithContext(ctx).Model(&purchasing.CostHistoryEntry{}).
		Where("product_code = ?", code).
		Order("recorded_at DESC")

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	if err := query.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

// Save appends a cost history entry
func (r *GormCostHistoryRepository) Save(ctx context.Context, entry *purchasing.CostHistoryEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

// Ensure interfaces are implemented
var _ purchasing.PurchaseRepository = (*GormPurchaseRepository)(nil)
var _ purchasing.CostHistoryRepository = (*GormCostHistoryRepository)(nil)
