package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/techrefresher/backend/internal/application/sales"
)

// SalesOrderHandler exposes read access to recorded sales
type SalesOrderHandler struct {
	BaseHandler
	orderService *sales.OrderService
}

func NewSalesOrderHandler(orderService *sales.OrderService) *SalesOrderHandler {
	return &SalesOrderHandler{orderService: orderService}
}

// RegisterRoutes registers sales order routes on the given router group
func (h *SalesOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/sales-orders")
	{
		orders.GET("", h.List)
		orders.GET("/by-device/:deviceId", h.GetByDevice)
		orders.GET("/:id", h.Get)
	}
}

// Get returns a single sales order
func (h *SalesOrderHandler) Get(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.GetByID(c.Request.Context(), groupID, orderID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// GetByDevice returns the sale recorded for an archived device
func (h *SalesOrderHandler) GetByDevice(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	deviceID, ok := h.ParseUUIDParam(c, "deviceId")
	if !ok {
		return
	}

	order, err := h.orderService.GetByDeviceID(c.Request.Context(), groupID, deviceID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// List returns sales orders matching the filter
func (h *SalesOrderHandler) List(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}

	var filter sales.OrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err)
		return
	}

	orders, total, err := h.orderService.List(c.Request.Context(), groupID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page, pageSize := normalizePagination(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}
