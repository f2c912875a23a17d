package cashbook

import (
	"context"
	"time"

	"github.com/lerp/backend/internal/domain/cashbook"
	"github.com/lerp/backend/internal/domain/shared"
	"github.com/lerp/backend/internal/domain/shared/valueobject"
)

// CashbookService records cash movements and aggregates the ledger
// into period statements
type CashbookService struct {
	cashEntryRepo cashbook.CashEntryRepository
	paymentRepo   cashbook.PaymentRepository
	now           func() time.Time
}

// NewCashbookService creates a new CashbookService
func NewCashbookService(cashEntryRepo cashbook.CashEntryRepository, paymentRepo cashbook.PaymentRepository) *CashbookService {
	return &CashbookService{
		cashEntryRepo: cashEntryRepo,
		paymentRepo:   paymentRepo,
		now:           time.Now,
	}
}

// RecordOutflow registers a justified cash outflow
func (s *CashbookService) RecordOutflow(ctx context.Context, req RecordOutflowRequest) (*CashEntryResponse, error) {
	entry, err := cashbook.NewOutflow(valueobject.NewMoneyMZN(req.Amount), req.Justification, req.Reference)
	if err != nil {
		return nil, err
	}
	if err := s.cashEntryRepo.Save(ctx, entry); err != nil {
		return nil, err
	}
	response := ToCashEntryResponse(entry)
	return &response, nil
}

// RecordPayment registers a payment not tied to a sale. Sale payments
// are recorded by the sale finalizer instead.
func (s *CashbookService) RecordPayment(ctx context.Context, req RecordPaymentRequest) (*PaymentResponse, error) {
	payment, err := cashbook.NewPayment(valueobject.NewMoneyMZN(req.Amount), cashbook.PaymentMethod(req.Method), req.Description)
	if err != nil {
		return nil, err
	}
	if err := s.paymentRepo.Save(ctx, payment); err != nil {
		return nil, err
	}
	response := ToPaymentResponse(payment)
	return &response, nil
}

// Statement aggregates the cash ledger over the requested period.
// Inflow comes from payments, outflow from cash entries. All-time
// totals are computed alongside whichever period is selected.
func (s *CashbookService) Statement(ctx context.Context, period string) (*StatementResponse, error) {
	p := cashbook.ParsePeriod(period)
	since, bounded := p.Boundary(s.now())

	totals, err := s.totalsSince(ctx, since)
	if err != nil {
		return nil, err
	}

	allTime := totals
	if bounded {
		allTime, err = s.totalsSince(ctx, time.Time{})
		if err != nil {
			return nil, err
		}
	}

	filter := shared.DefaultFilter()
	payments, err := s.paymentRepo.FindSince(ctx, since, filter)
	if err != nil {
		return nil, err
	}
	entries, err := s.cashEntryRepo.FindSince(ctx, cashbook.EntryOutflow, since, filter)
	if err != nil {
		return nil, err
	}

	response := &StatementResponse{
		Period:   string(p),
		Totals:   ToTotalsResponse(totals),
		AllTime:  ToTotalsResponse(allTime),
		Payments: make([]PaymentResponse, len(payments)),
		Entries:  make([]CashEntryResponse, len(entries)),
	}
	if bounded {
		response.From = &since
	}
	for i := range payments {
		response.Payments[i] = ToPaymentResponse(&payments[i])
	}
	for i := range entries {
		response.Entries[i] = ToCashEntryResponse(&entries[i])
	}
	return response, nil
}

func (s *CashbookService) totalsSince(ctx context.Context, since time.Time) (cashbook.Totals, error) {
	inflow, err := s.paymentRepo.SumSince(ctx, since)
	if err != nil {
		return cashbook.Totals{}, err
	}
	outflow, err := s.cashEntryRepo.SumSince(ctx, cashbook.EntryOutflow, since)
	if err != nil {
		return cashbook.Totals{}, err
	}
	return cashbook.Totals{Inflow: inflow, Outflow: outflow}, nil
}
