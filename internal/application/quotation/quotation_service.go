package quotation

import (
	"context"

	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/catalog"
	"github.com/lerp/backend/internal/domain/quotation"
	"github.com/lerp/backend/internal/domain/sales"
	"github.com/lerp/backend/internal/domain/shared"
)

// QuotationService handles quotation lifecycle operations
type QuotationService struct {
	quotationRepo  quotation.QuotationRepository
	productRepo    catalog.ProductRepository
	cartStore      sales.CartStore
	eventPublisher shared.EventPublisher
}

// NewQuotationService creates a new QuotationService
func NewQuotationService(quotationRepo quotation.QuotationRepository, productRepo catalog.ProductRepository, cartStore sales.CartStore) *QuotationService {
	return &QuotationService{
		quotationRepo: quotationRepo,
		productRepo:   productRepo,
		cartStore:     cartStore,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *QuotationService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create drafts a quotation, pricing each line at the current catalog price
func (s *QuotationService) Create(ctx context.Context, req CreateQuotationRequest) (*QuotationResponse, error) {
	lines, err := s.priceLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}

	q, err := quotation.NewQuotation(req.CustomerName, lines)
	if err != nil {
		return nil, err
	}

	number, err := s.quotationRepo.GenerateNumber(ctx)
	if err != nil {
		return nil, err
	}
	q.Number = number

	if err := s.quotationRepo.Save(ctx, q); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, q)
	response := ToQuotationResponse(q)
	return &response, nil
}

// GetByID retrieves a quotation by ID
func (s *QuotationService) GetByID(ctx context.Context, id uuid.UUID) (*QuotationResponse, error) {
	q, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToQuotationResponse(q)
	return &response, nil
}

// List retrieves quotations with filtering and pagination
func (s *QuotationService) List(ctx context.Context, filter QuotationListFilter) ([]QuotationResponse, int64, error) {
	domainFilter := shared.DefaultFilter()
	if filter.Page > 0 {
		domainFilter.Page = filter.Page
	}
	if filter.PageSize > 0 {
		domainFilter.PageSize = filter.PageSize
	}
	if filter.OrderBy != "" {
		domainFilter.OrderBy = filter.OrderBy
	}
	if filter.OrderDir != "" {
		domainFilter.OrderDir = filter.OrderDir
	}

	var quotations []quotation.Quotation
	var err error
	if filter.Status != "" {
		status := quotation.QuotationStatus(filter.Status)
		if !status.IsValid() {
			return nil, 0, shared.NewInvalidInputError("unknown quotation status: " + filter.Status)
		}
		quotations, err = s.quotationRepo.FindByStatus(ctx, status, domainFilter)
		domainFilter.Filters["status"] = filter.Status
	} else {
		quotations, err = s.quotationRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	total, err := s.quotationRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]QuotationResponse, len(quotations))
	for i := range quotations {
		responses[i] = ToQuotationResponse(&quotations[i])
	}
	return responses, total, nil
}

// Update replaces the content of a draft quotation, repricing its lines
func (s *QuotationService) Update(ctx context.Context, id uuid.UUID, req UpdateQuotationRequest) (*QuotationResponse, error) {
	q, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if q.Status != quotation.StatusDraft {
		return nil, shared.NewInvalidStateError("only draft quotations can be edited")
	}

	lines, err := s.priceLines(ctx, req.Items)
	if err != nil {
		return nil, err
	}
	if err := q.Update(req.CustomerName, lines); err != nil {
		return nil, err
	}

	if err := s.quotationRepo.SaveWithLock(ctx, q); err != nil {
		return nil, err
	}

	response := ToQuotationResponse(q)
	return &response, nil
}

// Delete removes a draft quotation
func (s *QuotationService) Delete(ctx context.Context, id uuid.UUID) error {
	q, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return err
	}
	if err := q.CanDelete(); err != nil {
		return err
	}
	return s.quotationRepo.Delete(ctx, id)
}

// Convert marks a draft quotation as converted and loads its lines into
// a fresh session cart, replacing whatever the session held before.
// A quotation converts at most once.
func (s *QuotationService) Convert(ctx context.Context, id uuid.UUID, sessionKey string) (*QuotationResponse, error) {
	if sessionKey == "" {
		return nil, shared.NewInvalidInputError("session is required")
	}

	q, err := s.quotationRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := q.Convert(); err != nil {
		return nil, err
	}
	if err := s.quotationRepo.SaveWithLock(ctx, q); err != nil {
		return nil, err
	}

	cart := sales.NewCart(sessionKey)
	for i := range q.Items {
		if err := cart.AddLine(q.Items[i].ProductID, q.Items[i].Quantity); err != nil {
			return nil, err
		}
	}
	cart.QuotationID = &q.ID
	if err := s.cartStore.Put(ctx, cart); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, q)
	response := ToQuotationResponse(q)
	return &response, nil
}

func (s *QuotationService) priceLines(ctx context.Context, items []QuotationItemInput) ([]quotation.LineInput, error) {
	lines := make([]quotation.LineInput, 0, len(items))
	for _, item := range items {
		product, err := s.productRepo.FindByID(ctx, item.ProductID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, quotation.LineInput{
			ProductID:   product.ID,
			ProductCode: product.Code,
			ProductName: product.Name,
			Quantity:    item.Quantity,
			UnitPrice:   product.SalePrice,
		})
	}
	return lines, nil
}

func (s *QuotationService) publishEvents(ctx context.Context, q *quotation.Quotation) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range q.GetDomainEvents() {
		// event handling is best effort; failures must not fail the operation
		_ = s.eventPublisher.Publish(ctx, event)
	}
	q.ClearDomainEvents()
}
