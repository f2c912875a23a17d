package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	salesapp "github.com/lerp/backend/internal/application/sales"
	"github.com/lerp/backend/internal/interfaces/http/middleware"
)

// SaleHandler handles sale API endpoints
type SaleHandler struct {
	BaseHandler
	saleService *salesapp.SaleService
}

// NewSaleHandler creates a new SaleHandler
func NewSaleHandler(saleService *salesapp.SaleService) *SaleHandler {
	return &SaleHandler{
		saleService: saleService,
	}
}

// Finalize godoc
// @Summary      Finalize the session cart into a sale
// @Description  Turn the cart into a sale priced from the current catalog, assign the sale and payment codes, record the payment and empty the cart. Stock is not decremented.
// @Tags         sales
// @Accept       json
// @Produce      json
// @Param        request body salesapp.FinalizeSaleRequest true "Finalize request"
// @Success      201 {object} dto.Response{data=salesapp.SaleResponse}
// @Failure      401 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales [post]
func (h *SaleHandler) Finalize(c *gin.Context) {
	var req salesapp.FinalizeSaleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	sale, err := h.saleService.Finalize(c.Request.Context(), middleware.GetSessionID(c), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, sale)
}

// Get godoc
// @Summary      Get a sale by ID
// @Tags         sales
// @Produce      json
// @Param        id path string true "Sale ID"
// @Success      200 {object} dto.Response{data=salesapp.SaleResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /sales/{id} [get]
func (h *SaleHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid sale ID")
		return
	}

	sale, err := h.saleService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, sale)
}

// List godoc
// @Summary      List sales
// @Tags         sales
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Items per page"
// @Success      200 {object} dto.Response{data=[]salesapp.SaleResponse}
// @Router       /sales [get]
func (h *SaleHandler) List(c *gin.Context) {
	var filter salesapp.SaleListFilter
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

	sales, total, err := h.saleService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, sales, total, filter.Page, filter.PageSize)
}

// Summary godoc
// @Summary      Sale totals
// @Description  Count and revenue across all finalized sales
// @Tags         sales
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /sales/summary [get]
func (h *SaleHandler) Summary(c *gin.Context) {
	summary, err := h.saleService.Summary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}
