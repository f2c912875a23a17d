package purchasing

import (
	"context"

	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/catalog"
	"github.com/lerp/backend/internal/domain/shared"
)

// PurchaseSummary aggregates totals over recorded purchases
type PurchaseSummary struct {
	Count       int64  `json:"count"`
	TotalSpent  string `json:"total_spent"`
	TotalMargin string `json:"total_margin"`
}

// PurchaseRepository defines the interface for purchase persistence
type PurchaseRepository interface {
	// FindByID finds a purchase by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Purchase, error)

	// FindAll finds all purchases matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Purchase, error)

	// FindByProductCode finds purchases for a product
	FindByProductCode(ctx context.Context, code string, filter shared.Filter) ([]Purchase, error)

	// Save persists a purchase record
	Save(ctx context.Context, purchase *Purchase) error

	// Count counts purchases matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Summarize computes totals over all recorded purchases
	Summarize(ctx context.Context) (*PurchaseSummary, error)
}

// Recorder atomically records a purchase. The implementation opens a
// transaction, loads the product under a row lock, invokes apply to run
// the domain mutation, and persists the product, the purchase, and the
// cost history entry together.
type Recorder interface {
	RecordPurchase(ctx context.Context, productID uuid.UUID, apply func(product *catalog.Product) (*Purchase, *CostHistoryEntry, error)) error
}

// CostHistoryRepository defines the interface for cost history persistence
type CostHistoryRepository interface {
	// FindByProductCode lists cost snapshots for a product, newest first
	FindByProductCode(ctx context.Context, code string, filter shared.Filter) ([]CostHistoryEntry, error)

	// Save appends a cost history entry
	Save(ctx context.Context, entry *CostHistoryEntry) error
}
