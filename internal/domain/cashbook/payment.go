package cashbook

import (
	"strings"
	"time"

	"github.com/lerp/backend/internal/domain/shared"
	"github.com/lerp/backend/internal/domain/shared/valueobject"
)

// PaymentMethod is the settlement channel of a payment
type PaymentMethod string

const (
	MethodCash     PaymentMethod = "cash"
	MethodCard     PaymentMethod = "card"
	MethodTransfer PaymentMethod = "transfer"
	MethodMobile   PaymentMethod = "mobile"
)

// IsValid checks if the payment method is valid
func (m PaymentMethod) IsValid() bool {
	switch m {
	case MethodCash, MethodCard, MethodTransfer, MethodMobile:
		return true
	}
	return false
}

// Payment is a received amount, the inflow side of the cash ledger.
// Every finalized sale records one payment; standalone payments may be
// registered as well.
type Payment struct {
	shared.BaseEntity
	Code        string            `gorm:"uniqueIndex;not null;size:32"`
	Amount      valueobject.Money `gorm:"type:decimal(18,2)"`
	Method      PaymentMethod     `gorm:"not null;size:16"`
	Description string            `gorm:"size:512"`
	PaidAt      time.Time         `gorm:"not null;index"`
}

// TableName specifies the database table name
func (Payment) TableName() string {
	return "payments"
}

// NewPayment creates a payment with validation. The unique code is
// assigned by the repository at save time.
func NewPayment(amount valueobject.Money, method PaymentMethod, description string) (*Payment, error) {
	if !amount.IsPositive() {
		return nil, shared.NewInvalidInputError("amount must be positive")
	}
	if !method.IsValid() {
		return nil, shared.NewInvalidInputError("unknown payment method")
	}
	return &Payment{
		BaseEntity:  shared.NewBaseEntity(),
		Amount:      amount,
		Method:      method,
		Description: strings.TrimSpace(description),
		PaidAt:      time.Now(),
	}, nil
}
