package sales

import (
	"context"
	"errors"

	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/catalog"
	"github.com/lerp/backend/internal/domain/sales"
	"github.com/lerp/backend/internal/domain/shared"
	"github.com/lerp/backend/internal/domain/shared/valueobject"
	"github.com/shopspring/decimal"
)

// CartService manages the session-scoped sale cart
type CartService struct {
	cartStore   sales.CartStore
	productRepo catalog.ProductRepository
}

// NewCartService creates a new CartService
func NewCartService(cartStore sales.CartStore, productRepo catalog.ProductRepository) *CartService {
	return &CartService{
		cartStore:   cartStore,
		productRepo: productRepo,
	}
}

// Get returns the session cart with lines priced at current catalog prices
func (s *CartService) Get(ctx context.Context, sessionKey string) (*CartResponse, error) {
	cart, err := s.cartStore.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	return s.toResponse(ctx, cart)
}

// AddItem merges a product into the session cart
func (s *CartService) AddItem(ctx context.Context, sessionKey string, req AddCartItemRequest) (*CartResponse, error) {
	// the product must exist before it enters the cart
	if _, err := s.productRepo.FindByID(ctx, req.ProductID); err != nil {
		return nil, err
	}

	cart, err := s.cartStore.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if err := cart.AddLine(req.ProductID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartStore.Put(ctx, cart); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, cart)
}

// SetItemQuantity replaces the quantity of a cart line
func (s *CartService) SetItemQuantity(ctx context.Context, sessionKey string, productID uuid.UUID, req SetCartItemRequest) (*CartResponse, error) {
	cart, err := s.cartStore.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	if err := cart.SetLineQuantity(productID, req.Quantity); err != nil {
		return nil, err
	}
	if err := s.cartStore.Put(ctx, cart); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, cart)
}

// RemoveItem removes a product from the session cart
func (s *CartService) RemoveItem(ctx context.Context, sessionKey string, productID uuid.UUID) (*CartResponse, error) {
	cart, err := s.cartStore.Get(ctx, sessionKey)
	if err != nil {
		return nil, err
	}
	cart.RemoveLine(productID)
	if err := s.cartStore.Put(ctx, cart); err != nil {
		return nil, err
	}
	return s.toResponse(ctx, cart)
}

// Clear empties the session cart
func (s *CartService) Clear(ctx context.Context, sessionKey string) error {
	return s.cartStore.Clear(ctx, sessionKey)
}

func (s *CartService) toResponse(ctx context.Context, cart *sales.Cart) (*CartResponse, error) {
	lines := make([]CartLineResponse, 0, len(cart.Lines))
	total := valueobject.Zero(valueobject.DefaultCurrency)
	for _, line := range cart.Lines {
		product, err := s.productRepo.FindByID(ctx, line.ProductID)
		if err != nil {
			// a product deleted after it entered the cart is skipped in the view
			if errors.Is(err, shared.ErrNotFound) {
				continue
			}
			return nil, err
		}
		lineTotal := product.SalePrice.Multiply(decimal.NewFromInt(int64(line.Quantity))).Round(2)
		total = total.MustAdd(lineTotal)
		lines = append(lines, CartLineResponse{
			ProductID:   product.ID,
			ProductCode: product.Code,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   product.SalePrice.StringFixed(2),
			LineTotal:   lineTotal.StringFixed(2),
		})
	}
	return &CartResponse{
		SessionKey:  cart.SessionKey,
		Lines:       lines,
		Total:       total.StringFixed(2),
		QuotationID: cart.QuotationID,
	}, nil
}
