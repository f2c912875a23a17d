package purchasing

import (
	"context"

	"github.com/lerp/backend/internal/domain/catalog"
	"github.com/lerp/backend/internal/domain/purchasing"
	"github.com/lerp/backend/internal/domain/shared"
	"github.com/lerp/backend/internal/domain/shared/valueobject"
)

// PurchaseService handles purchase recording and reporting
type PurchaseService struct {
	recorder       purchasing.Recorder
	purchaseRepo   purchasing.PurchaseRepository
	historyRepo    purchasing.CostHistoryRepository
	eventPublisher shared.EventPublisher
}

// NewPurchaseService creates a new PurchaseService
func NewPurchaseService(recorder purchasing.Recorder, purchaseRepo purchasing.PurchaseRepository, historyRepo purchasing.CostHistoryRepository) *PurchaseService {
	return &PurchaseService{
		recorder:     recorder,
		purchaseRepo: purchaseRepo,
		historyRepo:  historyRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *PurchaseService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Record registers a purchase. The purchase row, the cost history entry,
// and the product mutation (quantity, weighted-average cost, optional
// sale price change) commit in a single transaction.
func (s *PurchaseService) Record(ctx context.Context, req RecordPurchaseRequest) (*PurchaseResponse, error) {
	unitCost := valueobject.NewMoneyMZN(req.UnitCost)

	var recorded *purchasing.Purchase
	var mutated *catalog.Product

	err := s.recorder.RecordPurchase(ctx, req.ProductID, func(product *catalog.Product) (*purchasing.Purchase, *purchasing.CostHistoryEntry, error) {
		salePrice := product.SalePrice
		if req.SalePrice != nil {
			salePrice = valueobject.NewMoneyMZN(*req.SalePrice)
		}

		purchase, err := purchasing.NewPurchase(
			product.ID, product.Code, product.Name,
			req.Quantity, unitCost, salePrice,
			req.Supplier, req.Reference, req.Notes,
		)
		if err != nil {
			return nil, nil, err
		}

		if err := product.ApplyPurchase(req.Quantity, unitCost); err != nil {
			return nil, nil, err
		}
		if req.SalePrice != nil {
			if err := product.SetSalePrice(salePrice); err != nil {
				return nil, nil, err
			}
		}

		entry := purchasing.NewCostHistoryEntry(product.Code, unitCost, req.Quantity)
		recorded = purchase
		mutated = product
		return purchase, entry, nil
	})
	if err != nil {
		return nil, err
	}

	if s.eventPublisher != nil && mutated != nil {
		for _, event := range mutated.GetDomainEvents() {
			// event handling is best effort; failures must not fail the operation
			_ = s.eventPublisher.Publish(ctx, event)
		}
		mutated.ClearDomainEvents()
	}

	response := ToPurchaseResponse(recorded)
	return &response, nil
}

// List retrieves purchases with filtering and pagination
func (s *PurchaseService) List(ctx context.Context, filter PurchaseListFilter) ([]PurchaseResponse, int64, error) {
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

	var purchases []purchasing.Purchase
	var err error
	if filter.ProductCode != "" {
		purchases, err = s.purchaseRepo.FindByProductCode(ctx, filter.ProductCode, domainFilter)
	} else {
		purchases, err = s.purchaseRepo.FindAll(ctx, domainFilter)
	}
	if err != nil {
		return nil, 0, err
	}

	if filter.ProductCode != "" {
		domainFilter.Filters["product_code"] = filter.ProductCode
	}
	total, err := s.purchaseRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]PurchaseResponse, len(purchases))
	for i := range purchases {
		responses[i] = ToPurchaseResponse(&purchases[i])
	}
	return responses, total, nil
}

// Summary computes totals over all recorded purchases
func (s *PurchaseService) Summary(ctx context.Context) (*purchasing.PurchaseSummary, error) {
	return s.purchaseRepo.Summarize(ctx)
}

// CostHistory lists the cost snapshots of a product, newest first
func (s *PurchaseService) CostHistory(ctx context.Context, productCode string) ([]CostHistoryResponse, error) {
	entries, err := s.historyRepo.FindByProductCode(ctx, productCode, shared.DefaultFilter())
	if err != nil {
		return nil, err
	}
	responses := make([]CostHistoryResponse, len(entries))
	for i := range entries {
		responses[i] = ToCostHistoryResponse(&entries[i])
	}
	return responses, nil
}
