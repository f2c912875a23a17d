package cashbook

import (
	"context"
	"time"

	"github.com/lerp/backend/internal/domain/shared"
	"github.com/lerp/backend/internal/domain/shared/valueobject"
)

// Totals is an inflow/outflow pair over some window
type Totals struct {
	Inflow  valueobject.Money `json:"inflow"`
	Outflow valueobject.Money `json:"outflow"`
}

// Net returns inflow minus outflow
func (t Totals) Net() valueobject.Money {
	return t.Inflow.MustSubtract(t.Outflow)
}

// CashEntryRepository defines the interface for cash entry persistence
type CashEntryRepository interface {
	// Save persists a cash entry
	Save(ctx context.Context, entry *CashEntry) error

	// FindSince lists entries of a type recorded at or after since.
	// A zero since means no lower bound.
	FindSince(ctx context.Context, entryType EntryType, since time.Time, filter shared.Filter) ([]CashEntry, error)

	// SumSince totals entry amounts of a type recorded at or after since.
	// A zero since means no lower bound.
	SumSince(ctx context.Context, entryType EntryType, since time.Time) (valueobject.Money, error)
}

// PaymentRepository defines the interface for payment persistence
type PaymentRepository interface {
	// Save persists a payment, assigning its unique code
	Save(ctx context.Context, payment *Payment) error

	// FindSince lists payments made at or after since.
	// A zero since means no lower bound.
	FindSince(ctx context.Context, since time.Time, filter shared.Filter) ([]Payment, error)

	// SumSince totals payment amounts made at or after since.
	// A zero since means no lower bound.
	SumSince(ctx context.Context, since time.Time) (valueobject.Money, error)

	// GenerateCode generates the next unique payment code
	GenerateCode(ctx context.Context) (string, error)
}
