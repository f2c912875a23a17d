package handler

import (
	"github.com/gin-gonic/gin"

	cashbookapp "github.com/lerp/backend/internal/application/cashbook"
)

// CashbookHandler handles cash ledger API endpoints
type CashbookHandler struct {
	BaseHandler
	cashbookService *cashbookapp.CashbookService
}

// NewCashbookHandler creates a new CashbookHandler
func NewCashbookHandler(cashbookService *cashbookapp.CashbookService) *CashbookHandler {
	return &CashbookHandler{
		cashbookService: cashbookService,
	}
}

// RecordOutflow godoc
// @Summary      Record a cash outflow
// @Description  Register a justified cash withdrawal in the ledger
// @Tags         cashbook
// @Accept       json
// @Produce      json
// @Param        request body cashbookapp.RecordOutflowRequest true "Outflow request"
// @Success      201 {object} dto.Response{data=cashbookapp.CashEntryResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cashbook/outflows [post]
func (h *CashbookHandler) RecordOutflow(c *gin.Context) {
	var req cashbookapp.RecordOutflowRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	entry, err := h.cashbookService.RecordOutflow(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, entry)
}

// RecordPayment godoc
// @Summary      Record a standalone payment
// @Description  Register a payment not tied to a sale; a payment code is assigned
// @Tags         cashbook
// @Accept       json
// @Produce      json
// @Param        request body cashbookapp.RecordPaymentRequest true "Payment request"
// @Success      201 {object} dto.Response{data=cashbookapp.PaymentResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cashbook/payments [post]
func (h *CashbookHandler) RecordPayment(c *gin.Context) {
	var req cashbookapp.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	payment, err := h.cashbookService.RecordPayment(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, payment)
}

// Statement godoc
// @Summary      Cash statement
// @Description  Inflow, outflow and net over the requested period, plus all-time totals
// @Tags         cashbook
// @Produce      json
// @Param        period query string false "Aggregation period: today, week, month, year or all" default(today)
// @Success      200 {object} dto.Response{data=cashbookapp.StatementResponse}
// @Failure      400 {object} dto.Response{error=dto.ErrorInfo}
// @Router       /cashbook/statement [get]
func (h *CashbookHandler) Statement(c *gin.Context) {
	period := c.DefaultQuery("period", "today")

	statement, err := h.cashbookService.Statement(c.Request.Context(), period)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, statement)
}
