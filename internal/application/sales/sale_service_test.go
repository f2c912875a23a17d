package sales

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lerp/backend/internal/domain/cashbook"
	"github.com/lerp/backend/internal/domain/catalog"
	"github.com/lerp/backend/internal/domain/quotation"
	"github.com/lerp/backend/internal/domain/sales"
	"github.com/lerp/backend/internal/domain/shared"
	"github.com/lerp/backend/internal/domain/shared/valueobject"
)

// MockSaleRepository is a mock implementation of SaleRepository
type MockSaleRepository struct {
	mock.Mock
}

func (m *MockSaleRepository) FindByID(ctx context.Context, id uuid.UUID) (*sales.Sale, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindByCode(ctx context.Context, code string) (*sales.Sale, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) FindAll(ctx context.Context, filter shared.Filter) ([]sales.Sale, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]sales.Sale), args.Error(1)
}

func (m *MockSaleRepository) Save(ctx context.Context, sale *sales.Sale) error {
	args := m.Called(ctx, sale)
	return args.Error(0)
}

func (m *MockSaleRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockSaleRepository) Summarize(ctx context.Context) (*sales.SaleSummary, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*sales.SaleSummary), args.Error(1)
}

func (m *MockSaleRepository) GenerateCode(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// fakeFinalizer assigns codes and captures what was persisted
type fakeFinalizer struct {
	sale    *sales.Sale
	payment *cashbook.Payment
	fail    error
}

func (f *fakeFinalizer) FinalizeSale(ctx context.Context, sale *sales.Sale, payment *cashbook.Payment) error {
	if f.fail != nil {
		return f.fail
	}
	sale.Code = "VD-2026-00001"
	payment.Code = "PG-2026-00001"
	f.sale = sale
	f.payment = payment
	return nil
}

// MockProductRepository is a mock implementation of catalog.ProductRepository
type MockProductRepository struct {
	mock.Mock
}

func (m *MockProductRepository) FindByID(ctx context.Context, id uuid.UUID) (*catalog.Product, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByCode(ctx context.Context, code string) (*catalog.Product, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindAll(ctx context.Context, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) FindByStatus(ctx context.Context, status catalog.ProductStatus, filter shared.Filter) ([]catalog.Product, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]catalog.Product), args.Error(1)
}

func (m *MockProductRepository) Save(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) SaveWithLock(ctx context.Context, product *catalog.Product) error {
	args := m.Called(ctx, product)
	return args.Error(0)
}

func (m *MockProductRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockProductRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) CountByCategory(ctx context.Context, category string) (int64, error) {
	args := m.Called(ctx, category)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockProductRepository) ExistsByCode(ctx context.Context, code string) (bool, error) {
	args := m.Called(ctx, code)
	return args.Bool(0), args.Error(1)
}

func (m *MockProductRepository) GenerateCode(ctx context.Context, category string) (string, error) {
	args := m.Called(ctx, category)
	return args.String(0), args.Error(1)
}

// MockQuotationRepository is a mock implementation of quotation.QuotationRepository
type MockQuotationRepository struct {
	mock.Mock
}

func (m *MockQuotationRepository) FindByID(ctx context.Context, id uuid.UUID) (*quotation.Quotation, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quotation.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindByNumber(ctx context.Context, number string) (*quotation.Quotation, error) {
	args := m.Called(ctx, number)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*quotation.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindAll(ctx context.Context, filter shared.Filter) ([]quotation.Quotation, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quotation.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) FindByStatus(ctx context.Context, status quotation.QuotationStatus, filter shared.Filter) ([]quotation.Quotation, error) {
	args := m.Called(ctx, status, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]quotation.Quotation), args.Error(1)
}

func (m *MockQuotationRepository) Save(ctx context.Context, q *quotation.Quotation) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuotationRepository) SaveWithLock(ctx context.Context, q *quotation.Quotation) error {
	args := m.Called(ctx, q)
	return args.Error(0)
}

func (m *MockQuotationRepository) Delete(ctx context.Context, id uuid.UUID) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *MockQuotationRepository) Count(ctx context.Context, filter shared.Filter) (int64, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockQuotationRepository) GenerateNumber(ctx context.Context) (string, error) {
	args := m.Called(ctx)
	return args.String(0), args.Error(1)
}

// memoryCartStore is a map-backed CartStore for tests
type memoryCartStore struct {
	carts map[string]*sales.Cart
}

func newMemoryCartStore() *memoryCartStore {
	return &memoryCartStore{carts: make(map[string]*sales.Cart)}
}

func (s *memoryCartStore) Get(ctx context.Context, sessionKey string) (*sales.Cart, error) {
	if cart, ok := s.carts[sessionKey]; ok {
		return cart, nil
	}
	return sales.NewCart(sessionKey), nil
}

func (s *memoryCartStore) Put(ctx context.Context, cart *sales.Cart) error {
	s.carts[cart.SessionKey] = cart
	return nil
}

func (s *memoryCartStore) Clear(ctx context.Context, sessionKey string) error {
	delete(s.carts, sessionKey)
	return nil
}

func storeProduct(t *testing.T, name, code string, price float64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, "mercearia", 50, valueobject.ZeroMZN(), valueobject.NewMoneyMZNFromFloat(price))
	require.NoError(t, err)
	product.Code = code
	product.ClearDomainEvents()
	return product
}

func TestSaleServiceFinalize(t *testing.T) {
	t.Run("finalizes cart at current catalog prices", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		cartStore := newMemoryCartStore()
		finalizer := &fakeFinalizer{}
		service := NewSaleService(finalizer, new(MockSaleRepository), productRepo, cartStore, new(MockQuotationRepository))

		arroz := storeProduct(t, "Arroz", "gm001", 120)
		oleo := storeProduct(t, "Oleo", "gm002", 85.25)
		productRepo.On("FindByID", mock.Anything, arroz.ID).Return(arroz, nil)
		productRepo.On("FindByID", mock.Anything, oleo.ID).Return(oleo, nil)

		cart := sales.NewCart("session-1")
		require.NoError(t, cart.AddLine(arroz.ID, 3))
		require.NoError(t, cart.AddLine(oleo.ID, 2))
		require.NoError(t, cartStore.Put(context.Background(), cart))

		resp, err := service.Finalize(context.Background(), "session-1", FinalizeSaleRequest{})
		require.NoError(t, err)

		assert.Equal(t, "VD-2026-00001", resp.Code)
		assert.Equal(t, "530.50", resp.Total)
		require.Len(t, resp.Items, 2)

		// payment recorded for the sale total
		require.NotNil(t, finalizer.payment)
		assert.Equal(t, "530.50", finalizer.payment.Amount.StringFixed(2))
		assert.Equal(t, cashbook.MethodCash, finalizer.payment.Method)

		// cart cleared after commit
		after, _ := cartStore.Get(context.Background(), "session-1")
		assert.True(t, after.IsEmpty())
	})

	t.Run("empty cart is invalid input", func(t *testing.T) {
		service := NewSaleService(&fakeFinalizer{}, new(MockSaleRepository), new(MockProductRepository), newMemoryCartStore(), new(MockQuotationRepository))

		_, err := service.Finalize(context.Background(), "session-1", FinalizeSaleRequest{})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_INPUT", domainErr.Code)
		assert.Contains(t, err.Error(), "cart is empty")
	})

	t.Run("missing product aborts the whole sale", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		cartStore := newMemoryCartStore()
		finalizer := &fakeFinalizer{}
		service := NewSaleService(finalizer, new(MockSaleRepository), productRepo, cartStore, new(MockQuotationRepository))

		arroz := storeProduct(t, "Arroz", "gm001", 120)
		gone := uuid.New()
		productRepo.On("FindByID", mock.Anything, arroz.ID).Return(arroz, nil)
		productRepo.On("FindByID", mock.Anything, gone).Return(nil, shared.ErrNotFound)

		cart := sales.NewCart("session-1")
		require.NoError(t, cart.AddLine(arroz.ID, 1))
		require.NoError(t, cart.AddLine(gone, 1))
		require.NoError(t, cartStore.Put(context.Background(), cart))

		_, err := service.Finalize(context.Background(), "session-1", FinalizeSaleRequest{})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		assert.Nil(t, finalizer.sale)

		// cart untouched on failure
		after, _ := cartStore.Get(context.Background(), "session-1")
		assert.Len(t, after.Lines, 2)
	})

	t.Run("cart survives a failed commit", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		cartStore := newMemoryCartStore()
		service := NewSaleService(&fakeFinalizer{fail: errors.New("db down")}, new(MockSaleRepository), productRepo, cartStore, new(MockQuotationRepository))

		arroz := storeProduct(t, "Arroz", "gm001", 120)
		productRepo.On("FindByID", mock.Anything, arroz.ID).Return(arroz, nil)

		cart := sales.NewCart("session-1")
		require.NoError(t, cart.AddLine(arroz.ID, 1))
		require.NoError(t, cartStore.Put(context.Background(), cart))

		_, err := service.Finalize(context.Background(), "session-1", FinalizeSaleRequest{})
		require.Error(t, err)

		after, _ := cartStore.Get(context.Background(), "session-1")
		assert.False(t, after.IsEmpty())
	})

	t.Run("links the source quotation", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		quotationRepo := new(MockQuotationRepository)
		cartStore := newMemoryCartStore()
		finalizer := &fakeFinalizer{}
		service := NewSaleService(finalizer, new(MockSaleRepository), productRepo, cartStore, quotationRepo)

		arroz := storeProduct(t, "Arroz", "gm001", 120)
		productRepo.On("FindByID", mock.Anything, arroz.ID).Return(arroz, nil)

		q, err := quotation.NewQuotation("Cliente A", []quotation.LineInput{{
			ProductID:   arroz.ID,
			ProductCode: arroz.Code,
			ProductName: arroz.Name,
			Quantity:    1,
			UnitPrice:   arroz.SalePrice,
		}})
		require.NoError(t, err)
		require.NoError(t, q.Convert())
		q.ClearDomainEvents()

		quotationRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		quotationRepo.On("SaveWithLock", mock.Anything, q).Return(nil)

		cart := sales.NewCart("session-1")
		require.NoError(t, cart.AddLine(arroz.ID, 1))
		cart.QuotationID = &q.ID
		require.NoError(t, cartStore.Put(context.Background(), cart))

		resp, err := service.Finalize(context.Background(), "session-1", FinalizeSaleRequest{})
		require.NoError(t, err)

		require.NotNil(t, resp.QuotationID)
		assert.Equal(t, q.ID, *resp.QuotationID)
		require.NotNil(t, q.ConvertedSaleID)
		assert.Equal(t, finalizer.sale.ID, *q.ConvertedSaleID)
	})

	t.Run("honours requested payment method", func(t *testing.T) {
		productRepo := new(MockProductRepository)
		cartStore := newMemoryCartStore()
		finalizer := &fakeFinalizer{}
		service := NewSaleService(finalizer, new(MockSaleRepository), productRepo, cartStore, new(MockQuotationRepository))

		arroz := storeProduct(t, "Arroz", "gm001", 120)
		productRepo.On("FindByID", mock.Anything, arroz.ID).Return(arroz, nil)

		cart := sales.NewCart("session-1")
		require.NoError(t, cart.AddLine(arroz.ID, 1))
		require.NoError(t, cartStore.Put(context.Background(), cart))

		_, err := service.Finalize(context.Background(), "session-1", FinalizeSaleRequest{PaymentMethod: "card"})
		require.NoError(t, err)
		assert.Equal(t, cashbook.MethodCard, finalizer.payment.Method)
	})
}

func TestSaleServiceList(t *testing.T) {
	saleRepo := new(MockSaleRepository)
	service := NewSaleService(&fakeFinalizer{}, saleRepo, new(MockProductRepository), newMemoryCartStore(), new(MockQuotationRepository))

	sale, err := sales.NewSale([]sales.SaleLineInput{{
		ProductID:   uuid.New(),
		ProductCode: "gm001",
		ProductName: "Arroz",
		Quantity:    1,
		UnitPrice:   valueobject.NewMoneyMZNFromFloat(120),
	}}, nil)
	require.NoError(t, err)
	sale.Code = "VD-2026-00001"

	saleRepo.On("FindAll", mock.Anything, mock.AnythingOfType("shared.Filter")).Return([]sales.Sale{*sale}, nil)
	saleRepo.On("Count", mock.Anything, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	items, total, err := service.List(context.Background(), SaleListFilter{})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)
	assert.Equal(t, "VD-2026-00001", items[0].Code)
}

func TestSaleServiceSummary(t *testing.T) {
	saleRepo := new(MockSaleRepository)
	service := NewSaleService(&fakeFinalizer{}, saleRepo, new(MockProductRepository), newMemoryCartStore(), new(MockQuotationRepository))

	saleRepo.On("Summarize", mock.Anything).Return(&sales.SaleSummary{Count: 3, Revenue: "900.00"}, nil)

	summary, err := service.Summary(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(3), summary.Count)
	assert.Equal(t, "900.00", summary.Revenue)
}
