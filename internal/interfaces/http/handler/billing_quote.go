package handler

import (
	"github.com/gin-gonic/gin"

	billingapp "github.com/wms/backend/internal/application/billing"
)

// BillingQuoteHandler handles billing quote API endpoints. Quotes are
// read-only snapshots; the only write-shaped endpoint is Resolve, which
// looks up the quote currently governing a customer.
type BillingQuoteHandler struct {
	BaseHandler
	quoteService *billingapp.QuoteService
}

// NewBillingQuoteHandler creates a new BillingQuoteHandler
func NewBillingQuoteHandler(quoteService *billingapp.QuoteService) *BillingQuoteHandler {
	return &BillingQuoteHandler{
		quoteService: quoteService,
	}
}

// GetByID handles GET /billing/quotes/:id
func (h *BillingQuoteHandler) GetByID(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	quoteID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	quote, err := h.quoteService.GetByID(c.Request.Context(), caller, quoteID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// List handles GET /billing/quotes
func (h *BillingQuoteHandler) List(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	var filter billingapp.QuoteListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quotes, total, err := h.quoteService.List(c.Request.Context(), caller, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, quotes, total, filter.Page, filter.PageSize)
}

// Resolve handles POST /billing/quotes/resolve
func (h *BillingQuoteHandler) Resolve(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	var req billingapp.ResolveQuoteRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	quote, err := h.quoteService.Resolve(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, quote)
}

// RegisterRoutes registers all billing quote routes
func (h *BillingQuoteHandler) RegisterRoutes(rg *gin.RouterGroup) {
	quotes := rg.Group("/billing/quotes")
	{
		quotes.GET("", h.List)
		quotes.GET("/:id", h.GetByID)
		quotes.POST("/resolve", h.Resolve)
	}
}
