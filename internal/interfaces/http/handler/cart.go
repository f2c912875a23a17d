package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	salesapp "github.com/lerp/backend/internal/application/sales"
	"github.com/lerp/backend/internal/interfaces/http/middleware"
)

// CartHandler handles session cart API endpoints
type CartHandler struct {
	BaseHandler
	cartService *salesapp.CartService
}

// NewCartHandler creates a new CartHandler
func NewCartHandler(cartService *salesapp.CartService) *CartHandler {
	return &CartHandler{
		cartService: cartService,
	}
}

// Get godoc
// @Summary      Get the session cart
// @Description  Return the cart of the current session with lines priced from the catalog
// @Tags         cart
// @Produce      json
// @Success      200 {object} dto.Response{data=salesapp.CartResponse}
// @Router       /cart [get]
func (h *CartHandler) Get(c *gin.Context) {
	cart, err := h.cartService.Get(c.Request.Context(), middleware.GetSessionID(c))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// AddItem godoc
// @Summary      Add a product to the cart
// @Description  Add a product to the session cart; adding a product already present merges quantities
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        request body salesapp.AddCartItemRequest true "Cart item request"
// @Success      200 {object} dto.Response{data=salesapp.CartResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/items [post]
func (h *CartHandler) AddItem(c *gin.Context) {
	var req salesapp.AddCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.cartService.AddItem(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// SetItemQuantity godoc
// @Summary      Set the quantity of a cart line
// @Tags         cart
// @Accept       json
// @Produce      json
// @Param        productId path string true "Product ID"
// @Param        request body salesapp.SetCartItemRequest true "Quantity request"
// @Success      200 {object} dto.Response{data=salesapp.CartResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cart/items/{productId} [put]
func (h *CartHandler) SetItemQuantity(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req salesapp.SetCartItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	cart, err := h.cartService.SetItemQuantity(c.Request.Context(), middleware.GetSessionID(c), productID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// RemoveItem godoc
// @Summary      Remove a product from the cart
// @Description  Removing a product that is not in the cart is a no-op
// @Tags         cart
// @Produce      json
// @Param        productId path string true "Product ID"
// @Success      200 {object} dto.Response{data=salesapp.CartResponse}
// @Router       /cart/items/{productId} [delete]
func (h *CartHandler) RemoveItem(c *gin.Context) {
	productID, err := uuid.Parse(c.Param("productId"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	cart, err := h.cartService.RemoveItem(c.Request.Context(), middleware.GetSessionID(c), productID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, cart)
}

// Clear godoc
// @Summary      Empty the session cart
// @Tags         cart
// @Success      204
// @Router       /cart [delete]
func (h *CartHandler) Clear(c *gin.Context) {
	if err := h.cartService.Clear(c.Request.Context(), middleware.GetSessionID(c)); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
