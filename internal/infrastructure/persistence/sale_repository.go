package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lerp/backend/internal/domain/sales"
	"github.com/lerp/backend/internal/domain/shared"
)

// GormSaleRepository implements SaleRepository using GORM
type GormSaleRepository struct {
	db *gorm.DB
}

// NewGormSaleRepository creates a new GormSaleRepository
func NewGormSaleRepository(db *gorm.DB) *GormSaleRepository {
	return &GormSaleRepository{db: db}
}

// FindByID finds a sale with its items
func (r *GormSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).Preload("Items").First(&sale, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindByCode finds a sale by its code
func (r *GormSaleRepository) FindByCode(ctx context.Context, code string) (*sales.Sale, error) {
	var sale sales.Sale
	if err := r.db.WithContext(ctx).Preload("Items").First(&sale, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &sale, nil
}

// FindAll finds all sales matching the filter
func (r *GormSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	var results []sales.Sale
	query := r.applyFilter(r.db.WithContext(ctx).Model(&sales.Sale{}), filter)

	if err := query.Preload("Items").Find(&results).Error; err != nil {
		return nil, err
	}
	return results, nil
}

// Save persists a sale and its items
func (r *GormSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("sale_id = ?", sale.ID).Delete(&sales.SaleItem{}).Error; err != nil {
			return err
		}
		if err := tx.Omit("Items").Save(sale).Error; err != nil {
			return err
		}
		if len(sale.Items) > 0 {
			if err := tx.Create(&sale.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Count counts sales matching the filter
func (r *GormSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&sales.Sale{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// Summarize computes totals over all finalized sales
func (r *GormSaleRepository) Summarize(ctx context.Context) (*sales.SaleSummary, error) {
	var row struct {
		Count   int64
		Revenue decimal.Decimal
	}

	err := r.db.WithContext(ctx).Model(&sales.Sale{}).
		Select("COUNT(*) as count, COALESCE(SUM(total), 0) as revenue").
		Scan(&row).Error
	if err != nil {
		return nil, err
	}

	return &sales.SaleSummary{
		Count:   row.Count,
		Revenue: row.Revenue.StringFixed(2),
	}, nil
}

// GenerateCode generates the next sale code for the current year,
// format VD-YYYY-NNNNN.
func (r *GormSaleRepository) GenerateCode(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("VD-%d-", year)

	var count int64
	if err := r.db.WithContext(ctx).Model(&sales.Sale{}).
		Where("code LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	for seq := count + 1; ; seq++ {
		code := fmt.Sprintf("%s%05d", prefix, seq)
		var taken int64
		if err := r.db.WithContext(ctx).Model(&sales.Sale{}).
			Where("code = ?", code).
			Count(&taken).Error; err != nil {
			return "", err
		}
		if taken == 0 {
			return code, nil
		}
	}
}

func (r *GormSaleRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, SaleSortFields, "sold_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormSaleRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("code LIKE ?", searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "quotation_id":
			query = query.Where("quotation_id = ?", value)
		case "sold_from":
			query = query.Where("sold_at >= ?", value)
		case "sold_until":
			query = query.Where("sold_at < ?", value)
		}
	}

	return query
}

// Ensure GormSaleRepository implements SaleRepository
var _ sales.SaleRepository = (*GormSaleRepository)(nil)
