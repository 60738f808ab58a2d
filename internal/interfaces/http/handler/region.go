package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	partnerapp "github.com/wms/backend/internal/application/partner"
)

// RegionHandler handles region API endpoints. Regions are shared reference
// data, not scoped to a business domain.
type RegionHandler struct {
	BaseHandler
	regionService *partnerapp.RegionService
}

// NewRegionHandler creates a new RegionHandler
func NewRegionHandler(regionService *partnerapp.RegionService) *RegionHandler {
	return &RegionHandler{
		regionService: regionService,
	}
}

// Create handles POST /partner/regions
func (h *RegionHandler) Create(c *gin.Context) {
	var req partnerapp.CreateRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	region, err := h.regionService.Create(c.Request.Context(), req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, region)
}

// GetByID handles GET /partner/regions/:id
func (h *RegionHandler) GetByID(c *gin.Context) {
	regionID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	region, err := h.regionService.GetByID(c.Request.Context(), regionID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, region)
}

// Children handles GET /partner/regions. Without parentId it returns the
// top-level regions; with parentId it returns that region's children.
func (h *RegionHandler) Children(c *gin.Context) {
	var parentID *uuid.UUID
	if raw := c.Query("parentId"); raw != "" {
		id, err := uuid.Parse(raw)
		if err != nil {
			h.BadRequest(c, "Invalid parentId format, expected UUID")
			return
		}
		parentID = &id
	}

	regions, err := h.regionService.Children(c.Request.Context(), parentID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, regions)
}

// UpdateRegionRequest updates a region's name and ordering
type UpdateRegionRequest struct {
	Name      string `json:"name" binding:"required"`
	SortOrder int    `json:"sortOrder"`
}

// Update handles PUT /partner/regions/:id
func (h *RegionHandler) Update(c *gin.Context) {
	regionID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req UpdateRegionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	region, err := h.regionService.Update(c.Request.Context(), regionID, req.Name, req.SortOrder)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, region)
}

// Delete handles DELETE /partner/regions/:id
func (h *RegionHandler) Delete(c *gin.Context) {
	regionID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.regionService.Delete(c.Request.Context(), regionID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers all region routes
func (h *RegionHandler) RegisterRoutes(rg *gin.RouterGroup) {
	regions := rg.Group("/partner/regions")
	{
		regions.POST("", h.Create)
		regions.GET("", h.Children)
		regions.GET("/:id", h.GetByID)
		regions.PUT("/:id", h.Update)
		regions.DELETE("/:id", h.Delete)
	}
}
