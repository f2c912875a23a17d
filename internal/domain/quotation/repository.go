package quotation

import (
	"context"

	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/shared"
)

// QuotationRepository defines the interface for quotation persistence
type QuotationRepository interface {
	// FindByID finds a quotation with its items
	FindByID(ctx context.Context, id uuid.UUID) (*Quotation, error)

	// FindByNumber finds a quotation by its number
	FindByNumber(ctx context.Context, number string) (*Quotation, error)

	// FindAll finds all quotations matching the filter
	FindAll(ctx context.Context, filter shared.Filter) ([]Quotation, error)

	// FindByStatus finds quotations in a given status
	FindByStatus(ctx context.Context, status QuotationStatus, filter shared.Filter) ([]Quotation, error)

	// Save creates or updates a quotation and its items
	Save(ctx context.Context, quotation *Quotation) error

	// SaveWithLock updates a quotation with optimistic lock version checking
	SaveWithLock(ctx context.Context, quotation *Quotation) error

	// Delete removes a quotation and its items
	Delete(ctx context.Context, id uuid.UUID) error

	// Count counts quotations matching the filter
	Count(ctx context.Context, filter shared.Filter) (int64, error)

	// GenerateNumber generates the next unique quotation number
	GenerateNumber(ctx context.Context) (string, error)
}
