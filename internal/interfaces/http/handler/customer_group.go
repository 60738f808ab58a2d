package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/wms/backend/internal/application/partner"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// CustomerGroupHandler handles customer group API endpoints
type CustomerGroupHandler struct {
	BaseHandler
	groupService *partnerapp.GroupService
}

// NewCustomerGroupHandler creates a new CustomerGroupHandler
func NewCustomerGroupHandler(groupService *partnerapp.GroupService) *CustomerGroupHandler {
	return &CustomerGroupHandler{
		groupService: groupService,
	}
}

// Create handles POST /partner/groups
func (h *CustomerGroupHandler) Create(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	var req partnerapp.CreateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	group, err := h.groupService.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, group)
}

// GetByID handles GET /partner/groups/:id
func (h *CustomerGroupHandler) GetByID(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	groupID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	group, err := h.groupService.GetByID(c.Request.Context(), caller, groupID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// List handles GET /partner/groups
func (h *CustomerGroupHandler) List(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	var req dto.ListRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}
	req.Normalize()

	groups, total, err := h.groupService.List(c.Request.Context(), caller, req.Page, req.PageSize, req.Keyword)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, groups, total, req.Page, req.PageSize)
}

// Update handles PUT /partner/groups/:id
func (h *CustomerGroupHandler) Update(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	groupID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req partnerapp.UpdateGroupRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	group, err := h.groupService.Update(c.Request.Context(), caller, groupID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, group)
}

// ReplaceMembersRequest replaces a group's full member list
type ReplaceMembersRequest struct {
	CustomerIDs []uuid.UUID `json:"customerIds" binding:"required"`
}

// ReplaceMembers handles PUT /partner/groups/:id/members
func (h *CustomerGroupHandler) ReplaceMembers(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	groupID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req ReplaceMembersRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	if err := h.groupService.ReplaceMembers(c.Request.Context(), caller, groupID, req.CustomerIDs); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// Delete handles DELETE /partner/groups/:id
func (h *CustomerGroupHandler) Delete(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	groupID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.groupService.Delete(c.Request.Context(), caller, groupID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers all customer group routes
func (h *CustomerGroupHandler) RegisterRoutes(rg *gin.RouterGroup) {
	groups := rg.Group("/partner/groups")
	{
		groups.POST("", h.Create)
		groups.GET("", h.List)
		groups.GET("/:id", h.GetByID)
		groups.PUT("/:id", h.Update)
		groups.PUT("/:id/members", h.ReplaceMembers)
		groups.DELETE("/:id", h.Delete)
	}
}
