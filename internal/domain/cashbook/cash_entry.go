package cashbook

import (
	"strings"
	"time"

	"github.com/lerp/backend/internal/domain/shared"
	"github.com/lerp/backend/internal/domain/shared/valueobject"
)

// EntryType classifies a cash ledger entry
type EntryType string

const (
	EntryOutflow EntryType = "outflow"
	EntryInflow  EntryType = "inflow"
)

// IsValid checks if the entry type is valid
func (t EntryType) IsValid() bool {
	return t == EntryOutflow || t == EntryInflow
}

// MinJustificationLength is the shortest justification accepted on an
// outflow.
const MinJustificationLength = 5

// CashEntry is a manual movement in the cash ledger. Outflows carry a
// mandatory justification of at least MinJustificationLength characters.
type CashEntry struct {
	shared.BaseEntity
	Type          EntryType         `gorm:"not null;size:16;index"`
	Amount        valueobject.Money `gorm:"type:decimal(18,2)"`
	Justification string            `gorm:"not null;size:512"`
	Reference     string            `gorm:"size:64"`
	RecordedAt    time.Time         `gorm:"not null;index"`
}

// TableName specifies the database table name
func (CashEntry) TableName() string {
	return "cash_entries"
}

// NewOutflow creates a justified cash outflow entry
func NewOutflow(amount valueobject.Money, justification, reference string) (*CashEntry, error) {
	if !amount.IsPositive() {
		return nil, shared.NewInvalidInputError("amount must be positive")
	}
	if len([]rune(strings.TrimSpace(justification))) < MinJustificationLength {
		return nil, shared.NewInvalidInputError("justification must be at least 5 characters")
	}
	return &CashEntry{
		BaseEntity:    shared.NewBaseEntity(),
		Type:          EntryOutflow,
		Amount:        amount,
		Justification: strings.TrimSpace(justification),
		Reference:     strings.TrimSpace(reference),
		RecordedAt:    time.Now(),
	}, nil
}
