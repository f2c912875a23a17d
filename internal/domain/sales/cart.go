package sales

import (
	"context"

	"github.com/google/uuid"
	"github.com/lerp/backend/internal/domain/shared"
)

// CartLine is one product entry in a session cart
type CartLine struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int       `json:"quantity"`
}

// Cart holds the pending sale lines of one session. Carts are keyed by
// the session token; two sessions never share a cart.
type Cart struct {
	SessionKey string     `json:"session_key"`
	Lines      []CartLine `json:"lines"`
	// QuotationID is set when the cart was loaded from a converted
	// quotation so the finalized sale can be linked back to it.
	QuotationID *uuid.UUID `json:"quotation_id,omitempty"`
}

// NewCart creates an empty cart for a session
func NewCart(sessionKey string) *Cart {
	return &Cart{
		SessionKey: sessionKey,
		Lines:      make([]CartLine, 0),
	}
}

// IsEmpty reports whether the cart has no lines
func (c *Cart) IsEmpty() bool {
	return len(c.Lines) == 0
}

// AddLine merges a product into the cart. Adding a product already in
// the cart sums the quantities instead of creating a duplicate line.
func (c *Cart) AddLine(productID uuid.UUID, quantity int) error {
	if productID == uuid.Nil {
		return shared.NewInvalidInputError("product is required")
	}
	if quantity <= 0 {
		return shared.NewInvalidInputError("quantity must be positive")
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity += quantity
			return nil
		}
	}
	c.Lines = append(c.Lines, CartLine{ProductID: productID, Quantity: quantity})
	return nil
}

// SetLineQuantity replaces the quantity of an existing line
func (c *Cart) SetLineQuantity(productID uuid.UUID, quantity int) error {
	if quantity <= 0 {
		return shared.NewInvalidInputError("quantity must be positive")
	}
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines[i].Quantity = quantity
			return nil
		}
	}
	return shared.NewNotFoundError("product is not in the cart")
}

// RemoveLine drops a product's line from the cart. Removing a product
// that is not in the cart is a no-op.
func (c *Cart) RemoveLine(productID uuid.UUID) {
	for i := range c.Lines {
		if c.Lines[i].ProductID == productID {
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return
		}
	}
}

// Clear removes all lines and the quotation link from the cart
func (c *Cart) Clear() {
	c.Lines = c.Lines[:0]
	c.QuotationID = nil
}

// CartStore persists session carts. Implementations must return an
// empty cart, not an error, for a session without one.
type CartStore interface {
	// Get loads the cart for a session
	Get(ctx context.Context, sessionKey string) (*Cart, error)

	// Put stores the cart under its session key
	Put(ctx context.Context, cart *Cart) error

	// Clear removes the cart of a session
	Clear(ctx context.Context, sessionKey string) error
}
