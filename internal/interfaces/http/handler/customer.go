package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/wms/backend/internal/application/partner"
)

// CustomerHandler handles customer API endpoints
type CustomerHandler struct {
	BaseHandler
	customerService *partnerapp.CustomerService
}

// NewCustomerHandler creates a new CustomerHandler
func NewCustomerHandler(customerService *partnerapp.CustomerService) *CustomerHandler {
	return &CustomerHandler{
		customerService: customerService,
	}
}

// Create handles POST /partner/customers
func (h *CustomerHandler) Create(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	var req partnerapp.CreateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customerService.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, customer)
}

// GetByID handles GET /partner/customers/:id
func (h *CustomerHandler) GetByID(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	customerID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.GetByID(c.Request.Context(), caller, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// List handles GET /partner/customers
func (h *CustomerHandler) List(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	var filter partnerapp.CustomerListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customers, total, err := h.customerService.List(c.Request.Context(), caller, filter)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, customers, total, filter.Page, filter.PageSize)
}

// Update handles PUT /partner/customers/:id
func (h *CustomerHandler) Update(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	customerID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req partnerapp.UpdateCustomerRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	customer, err := h.customerService.Update(c.Request.Context(), caller, customerID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// Deactivate handles POST /partner/customers/:id/deactivate
func (h *CustomerHandler) Deactivate(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	customerID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	customer, err := h.customerService.Deactivate(c.Request.Context(), caller, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, customer)
}

// Delete handles DELETE /partner/customers/:id
func (h *CustomerHandler) Delete(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	customerID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.customerService.Delete(c.Request.Context(), caller, customerID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Memberships handles GET /partner/customers/:id/groups
func (h *CustomerHandler) Memberships(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	customerID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	memberships, err := h.customerService.Memberships(c.Request.Context(), caller, customerID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, memberships)
}

// AssignGroupRequest assigns a customer to a group
type AssignGroupRequest struct {
	GroupID uuid.UUID `json:"groupId" binding:"required"`
}

// AssignToGroup handles POST /partner/customers/:id/groups
func (h *CustomerHandler) AssignToGroup(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	customerID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req AssignGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.customerService.AssignToGroup(c.Request.Context(), caller, customerID, req.GroupID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RemoveFromGroup handles DELETE /partner/customers/:id/groups/:groupId
func (h *CustomerHandler) RemoveFromGroup(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	customerID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	groupID, ok := h.parseIDParam(c, "groupId")
	if !ok {
		return
	}

	if err := h.customerService.RemoveFromGroup(c.Request.Context(), caller, customerID, groupID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers all customer routes
func (h *CustomerHandler) RegisterRoutes(rg *gin.RouterGroup) {
	customers := rg.Group("/partner/customers")
	{
		customers.POST("", h.Create)
		customers.GET("", h.List)
		customers.GET("/:id", h.GetByID)
		customers.PUT("/:id", h.Update)
		customers.POST("/:id/deactivate", h.Deactivate)
		customers.DELETE("/:id", h.Delete)
		customers.GET("/:id/groups", h.Memberships)
		customers.POST("/:id/groups", h.AssignToGroup)
		customers.DELETE("/:id/groups/:groupId", h.RemoveFromGroup)
	}
}
