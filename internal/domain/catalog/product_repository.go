package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/shared"
)

// ProductRepository defines the interface for product persistence
type ProductRepository interface {
	// FindByID finds a product by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Product, error)

	// FindByCode finds a product by its code
	FindByCode(ctx context.Context, code string) (*Product, error)

	// FindAll finds all products matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Product, error)

	// FindByStatus finds products by stock status
	FindByStatus(ctx context.Context, status ProductStatus, filter shared.Filter) ([]Product, error)

	// Save creates or updates a product
	Save(ctx context.Context, product *Product) error

	// SaveWithLock updates a product with optimistic lock version checking
	SaveWithLock(ctx context.Context, product *Product) error

	// Delete deletes a product
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts products matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// CountByCategory counts products in a category
	CountByCategory(ctx context.Context, category string) (int64, error)

	// ExistsByCode checks if a product with the given code exists
	ExistsByCode(ctx context.Context, code string) (bool, error)

	// GenerateCode generates the next unique product code for a category
	GenerateCode(ctx context.Context, category string) (string, error)
}
