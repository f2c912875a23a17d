package handler

import (
	"github.com/gin-gonic/gin"

	purchasingapp "github.com/lerp/backend/internal/application/purchasing"
)

// PurchaseHandler handles stock acquisition API endpoints
type PurchaseHandler struct {
	BaseHandler
	purchaseService *purchasingapp.PurchaseService
}

// NewPurchaseHandler creates a new PurchaseHandler
func NewPurchaseHandler(purchaseService *purchasingapp.PurchaseService) *PurchaseHandler {
	return &PurchaseHandler{
		purchaseService: purchaseService,
	}
}

// Record godoc
// @Summary      Record a purchase
// @Description  Record a stock acquisition; stock and weighted average cost are updated atomically
// @Tags         purchases
// @Accept       json
// @Produce      json
// @Param        request body purchasingapp.RecordPurchaseRequest true "Purchase record request"
// @Success      201 {object} dto.Response{data=purchasingapp.PurchaseResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /purchases [post]
func (h *PurchaseHandler) Record(c *gin.Context) {
	var req purchasingapp.RecordPurchaseRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	purchase, err := h.purchaseService.Record(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, purchase)
}

// List godoc
// @Summary      List purchases
// @Tags         purchases
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Items per page"
// @Param        product_code query string false "Filter by product code"
// @Success      200 {object} dto.Response{data=[]purchasingapp.PurchaseResponse}
// @Router       /purchases [get]
func (h *PurchaseHandler) List(c *gin.Context) {
	var filter purchasingapp.PurchaseListFilter
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

	purchases, total, err := h.purchaseService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, purchases, total, filter.Page, filter.PageSize)
}

// Summary godoc
// @Summary      Purchase totals
// @Description  Count, total spend and total projected margin across all purchases
// @Tags         purchases
// @Produce      json
// @Success      200 {object} dto.Response
// @Router       /purchases/summary [get]
func (h *PurchaseHandler) Summary(c *gin.Context) {
	summary, err := h.purchaseService.Summary(c.Request.Context())
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// CostHistory godoc
// @Summary      Product cost history
// @Description  Unit cost snapshots recorded for a product, newest first
// @Tags         purchases
// @Produce      json
// @Param        code path string true "Product code"
// @Success      200 {object} dto.Response{data=[]purchasingapp.CostHistoryResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /purchases/cost-history/{code} [get]
func (h *PurchaseHandler) CostHistory(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		h.BadRequest(c, "Product code is required")
		return
	}

	history, err := h.purchaseService.CostHistory(c.Request.Context(), code)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, history)
}
