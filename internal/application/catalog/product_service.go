package catalog

import (
	"context"

	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/catalog"
	"github.com/lerp/backend/internal/domain/shared"
	"github.com/lerp/backend/internal/domain/shared/valueobject"
)

// ProductService handles stock ledger business operations
type ProductService struct {
	productRepo    catalog.ProductRepository
	eventPublisher shared.EventPublisher
}

// NewProductService creates a new ProductService
func NewProductService(productRepo catalog.ProductRepository) *ProductService {
	return &ProductService{
		productRepo: productRepo,
	}
}

// SetEventPublisher sets the event publisher for cross-context integration
func (s *ProductService) SetEventPublisher(publisher shared.EventPublisher) {
	s.eventPublisher = publisher
}

// Create registers a new product with a generated category-prefixed code
func (s *ProductService) Create(ctx context.Context, req CreateProductRequest) (*ProductResponse, error) {
	unitCost := valueobject.NewMoneyMZN(req.UnitCost)
	salePrice := valueobject.NewMoneyMZN(req.SalePrice)

	product, err := catalog.NewProduct(req.Name, req.Category, req.Quantity, unitCost, salePrice)
	if err != nil {
		return nil, err
	}

	code, err := s.productRepo.GenerateCode(ctx, product.Category)
	if err != nil {
		return nil, err
	}
	product.Code = code

	if err := s.productRepo.Save(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)
	response := ToProductResponse(product)
	return &response, nil
}

// GetByID retrieves a product by ID
func (s *ProductService) GetByID(ctx context.Context, id uuid.UUID) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// GetByCode retrieves a product by its code
func (s *ProductService) GetByCode(ctx context.Context, code string) (*ProductResponse, error) {
	product, err := s.productRepo.FindByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	response := ToProductResponse(product)
	return &response, nil
}

// List retrieves products with filtering and pagination
func (s *ProductService) List(ctx context.Context, filter ProductListFilter) ([]ProductResponse, int64, error) {
	domainFilter := buildFilter(filter)

	products, err := s.productRepo.FindAll(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}
	total, err := s.productRepo.Count(ctx, domainFilter)
	if err != nil {
		return nil, 0, err
	}

	responses := make([]ProductResponse, len(products))
	for i := range products {
		responses[i] = ToProductResponse(&products[i])
	}
	return responses, total, nil
}

// Update changes product details
func (s *ProductService) Update(ctx context.Context, id uuid.UUID, req UpdateProductRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	salePrice := valueobject.NewMoneyMZN(req.SalePrice)
	if err := product.UpdateDetails(req.Name, req.Category, salePrice); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)
	response := ToProductResponse(product)
	return &response, nil
}

// AdjustStock applies a manual quantity adjustment
func (s *ProductService) AdjustStock(ctx context.Context, id uuid.UUID, req AdjustStockRequest) (*ProductResponse, error) {
	product, err := s.productRepo.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := product.AdjustQuantity(req.Delta); err != nil {
		return nil, err
	}

	if err := s.productRepo.SaveWithLock(ctx, product); err != nil {
		return nil, err
	}

	s.publishEvents(ctx, product)
	response := ToProductResponse(product)
	return &response, nil
}

// Delete removes a product from the catalog
func (s *ProductService) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.productRepo.FindByID(ctx, id); err != nil {
		return err
	}
	return s.productRepo.Delete(ctx, id)
}

func (s *ProductService) publishEvents(ctx context.Context, product *catalog.Product) {
	if s.eventPublisher == nil {
		return
	}
	for _, event := range product.GetDomainEvents() {
		// event handling is best effort; failures must not fail the operation
		_ = s.eventPublisher.Publish(ctx, event)
	}
	product.ClearDomainEvents()
}

func buildFilter(filter ProductListFilter) shared.Filter {
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
	domainFilter.Search = filter.Search
	if filter.Category != "" {
		domainFilter.Filters["category"] = filter.Category
	}
	if filter.Status != "" {
		domainFilter.Filters["status"] = filter.Status
	}
	return domainFilter
}
