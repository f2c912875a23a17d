package persistence

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lerp/backend/internal/domain/catalog"
	"github.com/lerp/backend/internal/domain/shared"
)

// GormProductRepository implements ProductRepository using GORM
type GormProductRepository struct {
	db *gorm.DB
}

// NewGormProductRepository creates a new GormProductRepository
func NewGormProductRepository(db *gorm.DB) *GormProductRepository {
	return &GormProductRepository{db: db}
}

// FindByID finds a product by its ID
func (r *GormProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindByCode finds a product by its code
func (r *GormProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	var product catalog.Product
	if err := r.db.WithContext(ctx).First(&product, "code = ?", code).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, shared.ErrNotFound
		}
		return nil, err
	}
	return &product, nil
}

// FindAll finds all products matching the filter
func (r *GormProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// FindByStatus finds products in a given status
func (r *GormProductRepository) FindByStatus(ctx context.Context, status catalog.ProductStatus, filter shared.Filter) ([]catalog.Product, error) {
	var products []catalog.Product
	query := r.applyFilter(
		r.db.WithContext(ctx).Model(&catalog.Product{}).Where("status = ?", status),
		filter,
	)

	if err := query.Find(&products).Error; err != nil {
		return nil, err
	}
	return products, nil
}

// Save creates or updates a product
func (r *GormProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	return r.db.WithContext(ctx).Save(product).Error
}

// SaveWithLock saves with optimistic locking (checks version)
func (r *GormProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	result := r.db.WithContext(ctx).
		Model(product).
		Where("id = ? AND version = ?", product.ID, product.Version-1).
		Updates(map[string]interface{}{
			"name":       product.Name,
			"category":   product.Category,
			"quantity":   product.Quantity,
			"sale_price": product.SalePrice,
			"avg_cost":   product.AvgCost,
			"status":     product.Status,
			"version":    product.Version,
			"updated_at": product.UpdatedAt,
		})

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	return nil
}

// Delete removes a product
func (r *GormProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	result := r.db.WithContext(ctx).Delete(&catalog.Product{}, "id = ?", id)
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return shared.ErrNotFound
	}
	return nil
}

// Count counts products matching the filter
func (r *GormProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	var count int64
	query := r.applyFilterWithoutPagination(r.db.WithContext(ctx).Model(&catalog.Product{}), filter)

	if err := query.Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// CountByCategory counts products in a category
func (r *GormProductRepository) CountByCategory(ctx context.Context, category string) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("category = ?", category).
		Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

// ExistsByCode checks whether a product code is taken
func (r *GormProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&catalog.Product{}).
		Where("code = ?", code).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// GenerateCode generates the next product code for a category. Codes
// are the category prefix followed by a zero-padded sequence; gaps left
// by deleted products are skipped forward.
func (r *GormProductRepository) GenerateCode(ctx context.Context, category string) (string, error) {
	prefix := catalog.CodePrefix(category)

	count, err := r.CountByCategory(ctx, category)
	if err != nil {
		return "", err
	}

	for seq := count + 1; ; seq++ {
		code := fmt.Sprintf("%s%03d", prefix, seq)
		exists, err := r.ExistsByCode(ctx, code)
		if err != nil {
			return "", err
		}
		if !exists {
			return code, nil
		}
	}
}

// applyFilter applies filter options to the query
func (r *GormProductRepository) applyFilter(query *gorm.DB, filter shared.Filter) *gorm.DB {
	query = r.applyFilterWithoutPagination(query, filter)

	if filter.Page > 0 && filter.PageSize > 0 {
		offset := (filter.Page - 1) * filter.PageSize
		query = query.Offset(offset).Limit(filter.PageSize)
	}

	orderBy := ValidateSortField(filter.OrderBy, ProductSortFields, "name")
	orderDir := ValidateSortOrder(filter.OrderDir)
	if filter.OrderBy == "" && filter.OrderDir == "" {
		orderDir = "ASC"
	}
	return query.Order(orderBy + " " + orderDir)
}

// applyFilterWithoutPagination applies filter options without pagination
func (r *GormProductRepository) applyFilterWithoutPagination(query *gorm.DB, filter shared.Filter) *gorm.DB {
	if filter.Search != "" {
		searchPattern := "%" + filter.Search + "%"
		query = query.Where("name LIKE ? OR code LIKE ?", searchPattern, searchPattern)
	}

	for key, value := range filter.Filters {
		switch key {
		case "category":
			query = query.Where("category = ?", value)
		case "status":
			query = query.Where("status = ?", value)
		}
	}

	return query
}

// Ensure GormProductRepository implements ProductRepository
var _ catalog.ProductRepository = (*GormProductRepository)(nil)
