package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/techrefresher/backend/internal/application/inventory"
)

// DeviceHandler exposes device inventory and disposition endpoints
type DeviceHandler struct {
	BaseHandler
	deviceService *inventory.DeviceService
}

func NewDeviceHandler(deviceService *inventory.DeviceService) *DeviceHandler {
	return &DeviceHandler{deviceService: deviceService}
}

// RegisterRoutes registers device routes on the given router group
func (h *DeviceHandler) RegisterRoutes(rg *gin.RouterGroup) {
	devices := rg.Group("/devices")
	{
		devices.POST("", h.Create)
		devices.GET("", h.List)
		devices.GET("/archived", h.ListArchived)
		devices.GET("/archived/:id", h.GetArchived)
		devices.GET("/:id", h.Get)
		devices.PUT("/:id", h.Update)
		devices.DELETE("/:id", h.Delete)
		devices.POST("/:id/sell", h.Sell)
		devices.POST("/:id/harvest", h.Harvest)
	}
}

// Create stocks a new device
func (h *DeviceHandler) Create(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}

	var req inventory.CreateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	device, err := h.deviceService.Create(c.Request.Context(), groupID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, device)
}

// Get returns a single in-stock device
func (h *DeviceHandler) Get(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	deviceID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	device, err := h.deviceService.GetByID(c.Request.Context(), groupID, deviceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, device)
}

// List returns in-stock devices matching the filter
func (h *DeviceHandler) List(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}

	var filter inventory.DeviceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err)
		return
	}

	devices, total, err := h.deviceService.List(c.Request.Context(), groupID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page, pageSize := normalizePagination(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, devices, total, page, pageSize)
}

// Update edits a device's descriptive fields and cost
func (h *DeviceHandler) Update(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	deviceID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req inventory.UpdateDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	device, err := h.deviceService.Update(c.Request.Context(), groupID, deviceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, device)
}

// Delete removes a device that was stocked in error
func (h *DeviceHandler) Delete(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	deviceID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.deviceService.Delete(c.Request.Context(), groupID, deviceID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Sell records a sale, archives the device and books any parts used
func (h *DeviceHandler) Sell(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	deviceID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req inventory.SellDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	result, err := h.deviceService.Sell(c.Request.Context(), groupID, deviceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Harvest breaks a device down into parts and archives it
func (h *DeviceHandler) Harvest(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	deviceID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req inventory.HarvestDeviceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	result, err := h.deviceService.Harvest(c.Request.Context(), groupID, deviceID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// ListArchived returns sold and harvested devices
func (h *DeviceHandler) ListArchived(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}

	var filter inventory.ArchivedDeviceListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err)
		return
	}

	devices, total, err := h.deviceService.ListArchived(c.Request.Context(), groupID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page, pageSize := normalizePagination(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, devices, total, page, pageSize)
}

// GetArchived returns a single archived device
func (h *DeviceHandler) GetArchived(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	id, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	device, err := h.deviceService.GetArchivedByID(c.Request.Context(), groupID, id)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, device)
}
