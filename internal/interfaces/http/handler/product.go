package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	catalogapp "github.com/lerp/backend/internal/application/catalog"
)

// ProductHandler handles product catalog API endpoints
type ProductHandler struct {
	BaseHandler
	productService *catalogapp.ProductService
}

// NewProductHandler creates a new ProductHandler
func NewProductHandler(productService *catalogapp.ProductService) *ProductHandler {
	return &ProductHandler{
		productService: productService,
	}
}

// Create godoc
// @Summary      Register a new product
// @Description  Register a product; the code is generated from the category prefix
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        request body catalogapp.CreateProductRequest true "Product registration request"
// @Success      201 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      500 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products [post]
func (h *ProductHandler) Create(c *gin.Context) {
	var req catalogapp.CreateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, product)
}

// Get godoc
// @Summary      Get a product by ID
// @Tags         products
// @Produce      json
// @Param        id path string true "Product ID"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [get]
func (h *ProductHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	product, err := h.productService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// GetByCode godoc
// @Summary      Get a product by its catalog code
// @Tags         products
// @Produce      json
// @Param        code path string true "Product code"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/code/{code} [get]
func (h *ProductHandler) GetByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Product code is required")
		return
	}

	product, err := h.productService.GetByCode(c.Request.Context(), code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// List godoc
// @Summary      List products
// @Description  List catalog products with filtering and pagination
// @Tags         products
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Items per page"
// @Param        search query string false "Search by name or code"
// @Param        category query string false "Filter by category"
// @Param        status query string false "Filter by status (normal or alert)"
// @Success      200 {object} dto.Response{data=[]catalogapp.ProductResponse}
// @Router       /products [get]
func (h *ProductHandler) List(c *gin.Context) {
	var filter catalogapp.ProductListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	// Set defaults
	if filter.Page <= 0 {
		filter.Page = 1
	}
	if filter.PageSize <= 0 {
		filter.PageSize = 20
	}

	products, total, err := h.productService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, products, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a product
// @Description  Update a product's name, category and sale price
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body catalogapp.UpdateProductRequest true "Product update request"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      409 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [put]
func (h *ProductHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req catalogapp.UpdateProductRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// AdjustStock godoc
// @Summary      Adjust product stock
// @Description  Apply a manual stock adjustment; negative deltas may not take stock below zero
// @Tags         products
// @Accept       json
// @Produce      json
// @Param        id path string true "Product ID"
// @Param        request body catalogapp.AdjustStockRequest true "Stock adjustment request"
// @Success      200 {object} dto.Response{data=catalogapp.ProductResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id}/stock [post]
func (h *ProductHandler) AdjustStock(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	var req catalogapp.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	product, err := h.productService.AdjustStock(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, product)
}

// Delete godoc
// @Summary      Delete a product
// @Tags         products
// @Param        id path string true "Product ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /products/{id} [delete]
func (h *ProductHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid product ID")
		return
	}

	if err := h.productService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
