package persistence

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lerp/backend/internal/domain/quotation"
	"github.com/lerp/backend/internal/domain/shared"
)

// GormQuotationRepository implements QuotationRepository using GORM
type GormQuotationRepository struct {
	db *gorm.DB
}

// NewGormQuotationRepository creates a new GormQuotationRepository
func NewGormQuotationRepository(db *gorm.DB) *GormQuotationRepository {
	return &GormQuotationRepository{db: db}
}

// FindByID finds a quotation with its items
func (r *GormQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*quotation.Quotation, error) {
	var q quotation.Quotation
	if err := r.db.WithContext(ctx).Preload("Items").First(&q, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// FindByNumber finds a quotation by its number
func (r *GormQuotationRepository) FindByNumber(ctx context.Context, number string) (*quotation.Quotation, error) {
	var q quotation.Quotation
	if err := r.db.WithContext(ctx).Preload("Items").First(&q, "number = ?", number).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &q, nil
}

// FindAll finds all quotations matching the filter
func (r *GormQuotationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quotation.Quotation, error) {
	var quotations []quotation.Quotation
	query := r.applyFilter(r.db.WithContext(ctx).Model(&quotation.Quotation{}), filter)

	if err := query.Preload("Items").Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

// FindByStatus finds quotations in a given status
func (r *GormQuotationRepository) FindByStatus(ctx context.Context, status quotation.QuotationStatus, filter shared.Filter) ([]quotation.Quotation, error) {
	var quotations []quotation.Quotation
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&quotation.Quotation{}).Where("status = ?", status),
		filter,
	)

	if err := query.Preload("Items").Find(&quotations).Error; err != nil {
		return nil, err
	}
	return quotations, nil
}

// Save creates or updates a quotation and its items
func (r *GormQuotationRepository) Save(ctx context.Context, q *quotation.Quotation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		// Replace items wholesale so removed lines do not linger
		if err := tx.Where("quotation_id = ?", q.ID).Delete(&quotation.QuotationItem{}).Error; err != nil {
			return err
		}
		if err := tx.Omit("Items").Save(q).Error; err != nil {
			return err
		}
		if len(q.Items) > 0 {
			if err := tx.Create(&q.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// SaveWithLock updates a quotation with optimistic lock version checking.
// Items are replaced in the same transaction as the version check.
func (r *GormQuotationRepository) SaveWithLock(ctx context.Context, q *quotation.Quotation) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		result := tx.Model(q).
			Where("id = ? AND version = ?", q.ID, q.Version-1).
			Updates(map[string]interface{}{
				"customer_name":     q.CustomerName,
				"status":            q.Status,
				"total":             q.Total,
				"converted_sale_id": q.ConvertedSaleID,
				"version":           q.Version,
				"updated_at":        q.UpdatedAt,
			})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrConcurrencyConflict
		}

		if err := tx.Where("quotation_id = ?", q.ID).Delete(&quotation.QuotationItem{}).Error; err != nil {
			return err
		}
		if len(q.Items) > 0 {
			if err := tx.Create(&q.Items).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

// Delete removes a quotation and its items
func (r *GormQuotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("quotation_id = ?", id).Delete(&quotation.QuotationItem{}).Error; err != nil {
			return err
		}
		result := tx.Delete(&quotation.Quotation{}, "id = ?", id)
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return shared.ErrNotFound
		}
		return nil
	})
}

// Count counts quotations matching the filter
func (r *GormQuotationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&quotation.Quotation{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// GenerateNumber generates the next quotation number for the current
// year, format QT-YYYY-NNNNN.
func (r *GormQuotationRepository) GenerateNumber(ctx context.Context) (string, error) {
	year := time.Now().Year()
	prefix := fmt.Sprintf("QT-%d-", year)

	var count int64
	if err := r.db.WithContext(ctx).Model(&quotation.Quotation{}).
		Where("number LIKE ?", prefix+"%").
		Count(&count).Error; err != nil {
		return "", err
	}

	for seq := count + 1; ; seq++ {
		number := fmt.Sprintf("%s%05d", prefix, seq)
		var taken int64
		if err := r.db.WithContext(ctx).Model(&quotation.Quotation{}).
			Where("number = ?", number).
			Count(&taken).Error; err != nil {
			return "", err
		}
		if taken == 0 {
			return number, nil
		}
	}
}

func (r *GormQuotationRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, QuotationSortFields, "created_at")
	orderDir := ValidateSortOrder(filter.OrderDir)
	return query.Order(orderBy + " " + orderDir)
}

func (r *GormQuotationRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("number LIKE ? OR customer_name LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "status":
			query = query.Where("status = ?", value)
		case "customer_name":
			query = query.Where("customer_name = ?", value)
		}
	}

	return query
}

// Ensure GormQuotationRepository implements QuotationRepository
var _ quotation.QuotationRepository = (*GormQuotationRepository)(nil)
