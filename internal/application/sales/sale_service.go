package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/cashbook"
	"github.com/lerp/backend/internal/domain/catalog"
	"github.com/lerp/backend/internal/domain/quotation"
	"github.com/lerp/backend/internal/domain/sales"
	"github.com/lerp/backend/internal/domain/shared"
)

// SaleService finalizes session carts into immutable sales
type SaleService struct {
	finalizer      sales.Finalizer
	saleRepo       sales.SaleRepository
	productRepo    catalog.ProductRepository
	cartStore      sales.CartStore
	quotationRepo  quotation.QuotationRepository
	eventPublisher shared.EventPublisher
}

// NewSaleService creates a new SaleService
func NewSaleService(finalizer sales.Finalizer, saleRepo sales.SaleRepository, productRepo catalog.ProductRepository, cartStore sales.CartStore, quotationRepo quotation.QuotationRepository) *SaleService {
	return &SaleService{
		finalizer:     finalizer,
		saleRepo:      saleRepo,
		productRepo:   productRepo,
		cartStore:     cartStore,
		quotationRepo: quotationRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *SaleService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Finalize converts the session cart into a sale. Each line is priced
// at the product's current catalog price. The sale, its items, and the
// matching payment commit in one transaction; the cart is cleared only
// after the commit succeeds.
func (s *SaleService) Finalize(ctx context.Context, sessionKey string, req FinalizeSaleRequest) (*SaleResponse, error) {
	if sessionKey == "" {
		return nil, shared.NewInvalidInputError("session is required")
	}

	cart, err := s.cartStore.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if cart.IsEmpty() {
		return nil, shared.NewInvalidInputError("cart is empty")
	}

	lines := make([]sales.SaleLineInput, 0, len(cart.Lines))
	for _, line := range cart.Lines {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			return nil, err
		}
		lines = append(lines, sales.SaleLineInput{
			ProductID:   product.ID,
			ProductCode: product.Code,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.SalePrice,
		})
	}

	sale, err := sales.NewSale(lines, cart.QuotationID)
	if err != nil {
		return nil, err
	}

	method := cashbook.MethodCash
	if req.PaymentMethod != "" {
		method = cashbook.PaymentMethod(req.PaymentMethod)
	}
	payment, err := cashbook.NewPayment(sale.Total, method, req.Description)
	if err != nil {
		return nil, err
	}

	if err := s.finalizer.FinalizeSale(ctx, sale, payment); err != nil {
		return nil, err
	}

	if cart.QuotationID != nil {
		s.linkQuotation(ctx, *cart.QuotationID, sale.ID)
	}

	// the sale is committed; a failed cart clear leaves a stale cart
	// but never a lost sale
	if err := s.cartStore.Clear(ctx, sessionKey); err != nil {
		return nil, err
	}

	if s.eventPublisher != nil {
		for _, event := range sale.GetDomainEvents() {
			_ = s.eventPublisher.Publish(ctx, event)
		}
		sale.ClearDomainEvents()
	}

	response := ToSaleResponse(sale)
	return &response, nil
}

// linkQuotation back-fills the sale reference on the source quotation.
// Best effort: the sale itself already carries the quotation link.
func (s *SaleService) linkQuotation(ctx context.Context, quotationID, saleID uuid.UUID) {
	q, err := s.quotationRepo.FindByID(ctx, quotationID)
	if err != nil {
		return
	}
	if err := q.LinkSale(saleID); err != nil {
		return
	}
	_ = s.quotationRepo.SaveWithLock(ctx, q)
}

// GetByID retrieves a sale by ID
func (s *SaleService) GetByID(ctx context.Context, id uuid.UUID) (*SaleResponse, error) {
	sale, err := s.saleRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToSaleResponse(sale)
	return &response, nil
}

// List retrieves sales with pagination
func (s *SaleService) List(ctx context.Context, filter SaleListFilter) ([]SaleResponse, int64, error) {
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

	items, err := s.saleRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.saleRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]SaleResponse, len(items))
	for i := range items {
		responses[i] = ToSaleResponse(&items[i])
	}
	return responses, total, nil
}

// Summary computes totals over all finalized sales
func (s *SaleService) Summary(ctx context.Context) (*sales.SaleSummary, error) {
	return s.saleRepo.Summarize(ctx)
}
