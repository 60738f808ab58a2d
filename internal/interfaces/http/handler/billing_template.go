package handler

import (
	"github.com/gin-gonic/gin"

	billingapp "github.com/wms/backend/internal/application/billing"
)

// BillingTemplateHandler handles billing template API endpoints
type BillingTemplateHandler struct {
	BaseHandler
	templateService *billingapp.TemplateService
}

// NewBillingTemplateHandler creates a new BillingTemplateHandler
func NewBillingTemplateHandler(templateService *billingapp.TemplateService) *BillingTemplateHandler {
	return &BillingTemplateHandler{
		templateService: templateService,
	}
}

// Create handles POST /billing/templates
func (h *BillingTemplateHandler) Create(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	var req billingapp.CreateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	template, err := h.templateService.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, template)
}

// GetByID handles GET /billing/templates/:id
func (h *BillingTemplateHandler) GetByID(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	templateID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	template, err := h.templateService.GetByID(c.Request.Context(), caller, templateID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, template)
}

// List handles GET /billing/templates
func (h *BillingTemplateHandler) List(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	var filter billingapp.TemplateListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	templates, total, err := h.templateService.List(c.Request.Context(), caller, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, templates, total, filter.Page, filter.PageSize)
}

// Update handles PUT /billing/templates/:id
func (h *BillingTemplateHandler) Update(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	templateID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req billingapp.UpdateTemplateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	template, err := h.templateService.Update(c.Request.Context(), caller, templateID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, template)
}

// ChangeStatus handles PATCH /billing/templates/:id/status
func (h *BillingTemplateHandler) ChangeStatus(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	templateID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req billingapp.ChangeTemplateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	template, err := h.templateService.ChangeStatus(c.Request.Context(), caller, templateID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, template)
}

// Delete handles DELETE /billing/templates/:id
func (h *BillingTemplateHandler) Delete(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	templateID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.templateService.Delete(c.Request.Context(), caller, templateID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers all billing template routes
func (h *BillingTemplateHandler) RegisterRoutes(rg *gin.RouterGroup) {
	templates := rg.Group("/billing/templates")
	{
		templates.POST("", h.Create)
		templates.GET("", h.List)
		templates.GET("/:id", h.GetByID)
		templates.PUT("/:id", h.Update)
		templates.PATCH("/:id/status", h.ChangeStatus)
		templates.DELETE("/:id", h.Delete)
	}
}
