package handler

import (
	"github.com/gin-gonic/gin"

	partnerapp "github.com/wms/backend/internal/application/partner"
	"github.com/wms/backend/internal/interfaces/http/dto"
)

// CarrierHandler handles carrier API endpoints
type CarrierHandler struct {
	BaseHandler
	carrierService *partnerapp.CarrierService
}

// NewCarrierHandler creates a new CarrierHandler
func NewCarrierHandler(carrierService *partnerapp.CarrierService) *CarrierHandler {
	return &CarrierHandler{
		carrierService: carrierService,
	}
}

// Create handles POST /partner/carriers
func (h *CarrierHandler) Create(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	var req partnerapp.CreateCarrierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	carrier, err := h.carrierService.Create(c.Request.Context(), caller, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Created(c, carrier)
}

// GetByID handles GET /partner/carriers/:id
func (h *CarrierHandler) GetByID(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	carrierID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	carrier, err := h.carrierService.GetByID(c.Request.Context(), caller, carrierID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, carrier)
}

// List handles GET /partner/carriers
func (h *CarrierHandler) List(c *gin.Context) {
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

	carriers, total, err := h.carrierService.List(c.Request.Context(), caller, req.Page, req.PageSize, req.Keyword)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.SuccessWithMeta(c, carriers, total, req.Page, req.PageSize)
}

// Update handles PUT /partner/carriers/:id
func (h *CarrierHandler) Update(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	carrierID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	var req partnerapp.UpdateCarrierRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err.Error())
		return
	}

	carrier, err := h.carrierService.Update(c.Request.Context(), caller, carrierID, req)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, carrier)
}

// Delete handles DELETE /partner/carriers/:id
func (h *CarrierHandler) Delete(c *gin.Context) {
	caller, ok := h.getCaller(c)
	if !ok {
		return
	}

	carrierID, ok := h.parseIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.carrierService.Delete(c.Request.Context(), caller, carrierID); err != nil {
		h.HandleError(c, err)
		return
	}

	h.NoContent(c)
}

// RegisterRoutes registers all carrier routes
func (h *CarrierHandler) RegisterRoutes(rg *gin.RouterGroup) {
	carriers := rg.Group("/partner/carriers")
	{
		carriers.POST("", h.Create)
		carriers.GET("", h.List)
		carriers.GET("/:id", h.GetByID)
		carriers.PUT("/:id", h.Update)
		carriers.DELETE("/:id", h.Delete)
	}
}
