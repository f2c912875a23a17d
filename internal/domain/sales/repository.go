package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/cashbook"
	"github.com/lerp/backend/internal/domain/shared"
)

// SaleSummary aggregates totals over finalized sales
type SaleSummary struct {
	Count   int64  `json:"count"`
	Revenue string `json:"revenue"`
}

// SaleRepository defines the interface for sale persistence
type SaleRepository interface {
	// FindByID finds a sale with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Sale, error)

	// FindByCode finds a sale by its code
	FindByCode(ctx context.Context, code string) (*Sale, error)

	// FindAll finds all sales matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Sale, error)

	// Save persists a sale and its items
	Save(ctx context.Context, sale *Sale) error

	// Count counts sales matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// Summarize computes totals over all finalized sales
	Summarize(ctx context.Context) (*SaleSummary, error)

	// GenerateCode generates the next unique sale code
	GenerateCode(ctx context.Context) (string, error)
}

// Finalizer persists a finalized sale and its payment in one
// transaction. Unique sale and payment codes are assigned inside the
// transaction, retrying on collision.
type Finalizer interface {
	FinalizeSale(ctx context.Context, sale *Sale, payment *cashbook.Payment) error
}
