package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	quotationapp "github.com/lerp/backend/internal/application/quotation"
	"github.com/lerp/backend/internal/interfaces/http/middleware"
)

// QuotationHandler handles quotation API endpoints
type QuotationHandler struct {
	BaseHandler
	quotationService *quotationapp.QuotationService
}

// NewQuotationHandler creates a new QuotationHandler
func NewQuotationHandler(quotationService *quotationapp.QuotationService) *QuotationHandler {
	return &QuotationHandler{
		quotationService: quotationService,
	}
}

// Create godoc
// @Summary      Draft a quotation
// @Description  Create a draft quotation priced from the current catalog
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        request body quotationapp.CreateQuotationRequest true "Quotation draft request"
// @Success      201 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /quotations [post]
func (h *QuotationHandler) Create(c *gin.Context) {
	var req quotationapp.CreateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotation, err := h.quotationService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, quotation)
}

// Get godoc
// @Summary      Get a quotation by ID
// @Tags         quotations
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Success      200 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /quotations/{id} [get]
func (h *QuotationHandler) Get(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}

	quotation, err := h.quotationService.GetByID(c.Request.Context(), id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, quotation)
}

// List godoc
// @Summary      List quotations
// @Tags         quotations
// @Produce      json
// @Param        page query int false "Page number"
// @Param        page_size query int false "Items per page"
// @Param        status query string false "Filter by status (draft or converted)"
// @Success      200 {object} dto.Response{data=[]quotationapp.QuotationResponse}
// @Router       /quotations [get]
func (h *QuotationHandler) List(c *gin.Context) {
	var filter quotationapp.QuotationListFilter
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

	quotations, total, err := h.quotationService.List(c.Request.Context(), filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.SuccessWithMeta(c, quotations, total, filter.Page, filter.PageSize)
}

// Update godoc
// @Summary      Update a draft quotation
// @Description  Replace the customer and lines of a quotation still in draft
// @Tags         quotations
// @Accept       json
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Param        request body quotationapp.UpdateQuotationRequest true "Quotation update request"
// @Success      200 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /quotations/{id} [put]
func (h *QuotationHandler) Update(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}

	var req quotationapp.UpdateQuotationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotation, err := h.quotationService.Update(c.Request.Context(), id, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, quotation)
}

// Convert godoc
// @Summary      Convert a quotation to the session cart
// @Description  Load the quotation lines into the caller's cart and mark the quotation converted. A quotation converts at most once.
// @Tags         quotations
// @Produce      json
// @Param        id path string true "Quotation ID"
// @Success      200 {object} dto.Response{data=quotationapp.QuotationResponse}
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /quotations/{id}/convert [post]
func (h *QuotationHandler) Convert(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}

	sessionKey := middleware.GetSessionID(c)
	if sessionKey == "" {
		h.Unauthorized(c, "A session is required to convert a quotation")
		return
	}

	quotation, err := h.quotationService.Convert(c.Request.Context(), id, sessionKey)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, quotation)
}

// Delete godoc
// @Summary      Delete a draft quotation
// @Tags         quotations
// @Param        id path string true "Quotation ID"
// @Success      204
// @Failure      404 {object} dto.Response{error=dto.ErrorInfo}
// @Failure      422 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /quotations/{id} [delete]
func (h *QuotationHandler) Delete(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		h.BadRequest(c, "Invalid quotation ID")
		return
	}

	if err := h.quotationService.Delete(c.Request.Context(), id); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
