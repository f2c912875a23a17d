package quotation

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/lerp/backend/internal/domain/catalog"
	"github.com/lerp/backend/internal/domain/quotation"
	"github.com/lerp/backend/internal/domain/sales"
	"github.com/lerp/backend/internal/domain/shared"
	"github.com/lerp/backend/internal/domain/shared/valueobject"
)

// MockQuotationRepository is a mock implementation of QuotationRepository
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

func testProduct(t *testing.T, name, code string, price float64) *catalog.Product {
	t.Helper()
	product, err := catalog.NewProduct(name, "loja", 50, valueobject.ZeroMZN(), valueobject.NewMoneyMZNFromFloat(price))
	require.NoError(t, err)
	product.Code = code
	product.ClearDomainEvents()
	return product
}

func TestQuotationServiceCreate(t *testing.T) {
	t.Run("prices lines from the catalog", func(t *testing.T) {
		quotationRepo := new(MockQuotationRepository)
		productRepo := new(MockProductRepository)
		service := NewQuotationService(quotationRepo, productRepo, newMemoryCartStore())

		product := testProduct(t, "Cadeira", "gl001", 450)
		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		quotationRepo.On("GenerateNumber", mock.Anything).Return("QT-2026-00001", nil)
		quotationRepo.On("Save", mock.Anything, mock.AnythingOfType("*quotation.Quotation")).Return(nil)

		resp, err := service.Create(context.Background(), CreateQuotationRequest{
			CustomerName: "Cliente A",
			Items:        []QuotationItemInput{{ProductID: product.ID, Quantity: 2}},
		})
		require.NoError(t, err)

		assert.Equal(t, "QT-2026-00001", resp.Number)
		assert.Equal(t, "draft", resp.Status)
		require.Len(t, resp.Items, 1)
		assert.Equal(t, "450.00", resp.Items[0].UnitPrice)
		assert.Equal(t, "900.00", resp.Total)
	})

	t.Run("unknown product aborts creation", func(t *testing.T) {
		quotationRepo := new(MockQuotationRepository)
		productRepo := new(MockProductRepository)
		service := NewQuotationService(quotationRepo, productRepo, newMemoryCartStore())

		missing := uuid.New()
		productRepo.On("FindByID", mock.Anything, missing).Return(nil, shared.ErrNotFound)

		_, err := service.Create(context.Background(), CreateQuotationRequest{
			CustomerName: "Cliente A",
			Items:        []QuotationItemInput{{ProductID: missing, Quantity: 1}},
		})
		assert.ErrorIs(t, err, shared.ErrNotFound)
		quotationRepo.AssertNotCalled(t, "Save", mock.Anything, mock.Anything)
	})
}

func newDraftQuotation(t *testing.T, product *catalog.Product) *quotation.Quotation {
	t.Helper()
	q, err := quotation.NewQuotation("Cliente A", []quotation.LineInput{{
		ProductID:   product.ID,
		ProductCode: product.Code,
		ProductName: product.Name,
		Quantity:    3,
		UnitPrice:   product.SalePrice,
	}})
	require.NoError(t, err)
	q.Number = "QT-2026-00001"
	q.ClearDomainEvents()
	return q
}

func TestQuotationServiceConvert(t *testing.T) {
	t.Run("loads lines into the session cart", func(t *testing.T) {
		quotationRepo := new(MockQuotationRepository)
		productRepo := new(MockProductRepository)
		cartStore := newMemoryCartStore()
		service := NewQuotationService(quotationRepo, productRepo, cartStore)

		product := testProduct(t, "Cadeira", "gl001", 450)
		q := newDraftQuotation(t, product)

		quotationRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		quotationRepo.On("SaveWithLock", mock.Anything, q).Return(nil)

		resp, err := service.Convert(context.Background(), q.ID, "session-1")
		require.NoError(t, err)
		assert.Equal(t, "converted", resp.Status)

		cart, err := cartStore.Get(context.Background(), "session-1")
		require.NoError(t, err)
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, product.ID, cart.Lines[0].ProductID)
		assert.Equal(t, 3, cart.Lines[0].Quantity)
		require.NotNil(t, cart.QuotationID)
		assert.Equal(t, q.ID, *cart.QuotationID)
	})

	t.Run("replaces existing cart lines", func(t *testing.T) {
		quotationRepo := new(MockQuotationRepository)
		productRepo := new(MockProductRepository)
		cartStore := newMemoryCartStore()
		service := NewQuotationService(quotationRepo, productRepo, cartStore)

		product := testProduct(t, "Cadeira", "gl001", 450)
		existing := sales.NewCart("session-1")
		require.NoError(t, existing.AddLine(uuid.New(), 7))
		require.NoError(t, existing.AddLine(product.ID, 2))
		require.NoError(t, cartStore.Put(context.Background(), existing))

		q := newDraftQuotation(t, product)
		quotationRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		quotationRepo.On("SaveWithLock", mock.Anything, q).Return(nil)

		_, err := service.Convert(context.Background(), q.ID, "session-1")
		require.NoError(t, err)

		cart, _ := cartStore.Get(context.Background(), "session-1")
		require.Len(t, cart.Lines, 1)
		assert.Equal(t, product.ID, cart.Lines[0].ProductID)
		assert.Equal(t, 3, cart.Lines[0].Quantity)
	})

	t.Run("converted quotation cannot convert again", func(t *testing.T) {
		quotationRepo := new(MockQuotationRepository)
		service := NewQuotationService(quotationRepo, new(MockProductRepository), newMemoryCartStore())

		product := testProduct(t, "Cadeira", "gl001", 450)
		q := newDraftQuotation(t, product)
		require.NoError(t, q.Convert())
		q.ClearDomainEvents()

		quotationRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)

		_, err := service.Convert(context.Background(), q.ID, "session-1")
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})

	t.Run("requires a session", func(t *testing.T) {
		service := NewQuotationService(new(MockQuotationRepository), new(MockProductRepository), newMemoryCartStore())
		_, err := service.Convert(context.Background(), uuid.New(), "")
		assert.Error(t, err)
	})
}

func TestQuotationServiceUpdate(t *testing.T) {
	t.Run("reprices lines on update", func(t *testing.T) {
		quotationRepo := new(MockQuotationRepository)
		productRepo := new(MockProductRepository)
		service := NewQuotationService(quotationRepo, productRepo, newMemoryCartStore())

		product := testProduct(t, "Cadeira", "gl001", 500)
		q := newDraftQuotation(t, product)

		quotationRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		productRepo.On("FindByID", mock.Anything, product.ID).Return(product, nil)
		quotationRepo.On("SaveWithLock", mock.Anything, q).Return(nil)

		resp, err := service.Update(context.Background(), q.ID, UpdateQuotationRequest{
			CustomerName: "Cliente B",
			Items:        []QuotationItemInput{{ProductID: product.ID, Quantity: 4}},
		})
		require.NoError(t, err)
		assert.Equal(t, "Cliente B", resp.CustomerName)
		assert.Equal(t, "2000.00", resp.Total)
	})

	t.Run("rejects update of converted quotation", func(t *testing.T) {
		quotationRepo := new(MockQuotationRepository)
		service := NewQuotationService(quotationRepo, new(MockProductRepository), newMemoryCartStore())

		product := testProduct(t, "Cadeira", "gl001", 500)
		q := newDraftQuotation(t, product)
		require.NoError(t, q.Convert())

		quotationRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)

		_, err := service.Update(context.Background(), q.ID, UpdateQuotationRequest{
			CustomerName: "Cliente B",
			Items:        []QuotationItemInput{{ProductID: product.ID, Quantity: 1}},
		})
		var domainErr *shared.DomainError
		require.ErrorAs(t, err, &domainErr)
		assert.Equal(t, "INVALID_STATE", domainErr.Code)
	})
}

func TestQuotationServiceDelete(t *testing.T) {
	t.Run("deletes draft", func(t *testing.T) {
		quotationRepo := new(MockQuotationRepository)
		service := NewQuotationService(quotationRepo, new(MockProductRepository), newMemoryCartStore())

		product := testProduct(t, "Cadeira", "gl001", 500)
		q := newDraftQuotation(t, product)

		quotationRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)
		quotationRepo.On("Delete", mock.Anything, q.ID).Return(nil)

		require.NoError(t, service.Delete(context.Background(), q.ID))
		quotationRepo.AssertExpectations(t)
	})

	t.Run("refuses to delete converted quotation", func(t *testing.T) {
		quotationRepo := new(MockQuotationRepository)
		service := NewQuotationService(quotationRepo, new(MockProductRepository), newMemoryCartStore())

		product := testProduct(t, "Cadeira", "gl001", 500)
		q := newDraftQuotation(t, product)
		require.NoError(t, q.Convert())

		quotationRepo.On("FindByID", mock.Anything, q.ID).Return(q, nil)

		err := service.Delete(context.Background(), q.ID)
		assert.Error(t, err)
		quotationRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})
}

func TestQuotationServiceList(t *testing.T) {
	quotationRepo := new(MockQuotationRepository)
	service := NewQuotationService(quotationRepo, new(MockProductRepository), newMemoryCartStore())

	product := testProduct(t, "Cadeira", "gl001", 500)
	q := newDraftQuotation(t, product)

	quotationRepo.On("FindByStatus", mock.Anything, quotation.StatusDraft, mock.AnythingOfType("shared.Filter")).
		Return([]quotation.Quotation{*q}, nil)
	quotationRepo.On("Count", mock.Anything, mock.AnythingOfType("shared.Filter")).Return(int64(1), nil)

	items, total, err := service.List(context.Background(), QuotationListFilter{Status: "draft"})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	require.Len(t, items, 1)

	_, _, err = service.List(context.Background(), QuotationListFilter{Status: "bogus"})
	assert.Error(t, err)
}
