package cashbook

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lerp/backend/internal/domain/cashbook"
)

// RecordOutflowRequest registers a justified cash outflow
type RecordOutflowRequest struct {
	Amount        decimal.Decimal `json:"amount" binding:"required"`
	Justification string          `json:"justification" binding:"required,min=5,max=512"`
	Reference     string          `json:"reference" binding:"max=64"`
}

// RecordPaymentRequest registers a standalone payment
type RecordPaymentRequest struct {
	Amount      decimal.Decimal `json:"amount" binding:"required"`
	Method      string          `json:"method" binding:"required,oneof=cash card transfer mobile"`
	Description string          `json:"description" binding:"max=512"`
}

// CashEntryResponse represents a cash ledger entry in API responses
type CashEntryResponse struct {
	ID            uuid.UUID `json:"id"`
	Type          string    `json:"type"`
	Amount        string    `json:"amount"`
	Justification string    `json:"justification"`
	Reference     string    `json:"reference,omitempty"`
	RecordedAt    time.Time `json:"recorded_at"`
}

// PaymentResponse represents a payment in API responses
type PaymentResponse struct {
	ID          uuid.UUID `json:"id"`
	Code        string    `json:"code"`
	Amount      string    `json:"amount"`
	Method      string    `json:"method"`
	Description string    `json:"description,omitempty"`
	PaidAt      time.Time `json:"paid_at"`
}

// TotalsResponse is an inflow/outflow/net triple
type TotalsResponse struct {
	Inflow  string `json:"inflow"`
	Outflow string `json:"outflow"`
	Net     string `json:"net"`
}

// StatementResponse is the cash statement over an aggregation window.
// AllTime is computed regardless of the selected period.
type StatementResponse struct {
	Period   string              `json:"period"`
	From     *time.Time          `json:"from,omitempty"`
	Totals   TotalsResponse      `json:"totals"`
	AllTime  TotalsResponse      `json:"all_time"`
	Payments []PaymentResponse   `json:"payments"`
	Entries  []CashEntryResponse `json:"entries"`
}

// ToCashEntryResponse converts a cash entry to its response DTO
func ToCashEntryResponse(entry *cashbook.CashEntry) CashEntryResponse {
	return CashEntryResponse{
		ID:            entry.ID,
		Type:          string(entry.Type),
		Amount:        entry.Amount.StringFixed(2),
		Justification: entry.Justification,
		Reference:     entry.Reference,
		RecordedAt:    entry.RecordedAt,
	}
}

// ToPaymentResponse converts a payment to its response DTO
func ToPaymentResponse(payment *cashbook.Payment) PaymentResponse {
	return PaymentResponse{
		ID:          payment.ID,
		Code:        payment.Code,
		Amount:      payment.Amount.StringFixed(2),
		Method:      string(payment.Method),
		Description: payment.Description,
		PaidAt:      payment.PaidAt,
	}
}

// ToTotalsResponse converts domain totals to their response DTO
func ToTotalsResponse(totals cashbook.Totals) TotalsResponse {
	return TotalsResponse{
		Inflow:  totals.Inflow.StringFixed(2),
		Outflow: totals.Outflow.StringFixed(2),
		Net:     totals.Net().StringFixed(2),
	}
}
