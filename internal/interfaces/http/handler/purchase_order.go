package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/techrefresher/backend/internal/application/procurement"
)

// PurchaseOrderHandler exposes the purchase order lifecycle endpoints
type PurchaseOrderHandler struct {
	BaseHandler
	orderService *procurement.PurchaseOrderService
}

func NewPurchaseOrderHandler(orderService *procurement.PurchaseOrderService) *PurchaseOrderHandler {
	return &PurchaseOrderHandler{orderService: orderService}
}

// RegisterRoutes registers purchase order routes on the given router group
func (h *PurchaseOrderHandler) RegisterRoutes(rg *gin.RouterGroup) {
	orders := rg.Group("/purchase-orders")
	{
		orders.POST("", h.Create)
		orders.GET("", h.List)
		orders.GET("/pending-receipt", h.ListPendingReceipt)
		orders.GET("/status-summary", h.StatusSummary)
		orders.GET("/:id", h.Get)
		orders.PUT("/:id", h.Update)
		orders.DELETE("/:id", h.Delete)

		orders.POST("/:id/items", h.AddItem)
		orders.PUT("/:id/items/:itemId", h.UpdateItem)
		orders.DELETE("/:id/items/:itemId", h.RemoveItem)
		orders.POST("/:id/items/:itemId/link", h.LinkItem)

		orders.POST("/:id/payment", h.RecordPayment)
		orders.POST("/:id/shipment", h.RecordShipment)
		orders.POST("/:id/receive", h.Receive)
		orders.POST("/:id/archive", h.Archive)
		orders.POST("/:id/cancel", h.Cancel)
	}
}

// Create creates a purchase order with its initial line items
func (h *PurchaseOrderHandler) Create(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req procurement.CreatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	order, err := h.orderService.Create(c.Request.Context(), groupID, userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, order)
}

// Get returns a single purchase order with all line items
func (h *PurchaseOrderHandler) Get(c *gin.Context) {
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

// List returns purchase orders matching the filter
func (h *PurchaseOrderHandler) List(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}

	var filter procurement.PurchaseOrderListFilter
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

// ListPendingReceipt returns paid or shipped orders awaiting receipt
func (h *PurchaseOrderHandler) ListPendingReceipt(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}

	var filter procurement.PurchaseOrderListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err)
		return
	}

	orders, total, err := h.orderService.ListPendingReceipt(c.Request.Context(), groupID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page, pageSize := normalizePagination(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, orders, total, page, pageSize)
}

// StatusSummary returns order counts grouped by status
func (h *PurchaseOrderHandler) StatusSummary(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}

	summary, err := h.orderService.GetStatusSummary(c.Request.Context(), groupID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, summary)
}

// Update edits the order's header fields while it is still editable
func (h *PurchaseOrderHandler) Update(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req procurement.UpdatePurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	order, err := h.orderService.Update(c.Request.Context(), groupID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Delete removes an order that has not progressed past Created
func (h *PurchaseOrderHandler) Delete(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.orderService.Delete(c.Request.Context(), groupID, orderID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// AddItem appends a line item to an editable order
func (h *PurchaseOrderHandler) AddItem(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req procurement.AddLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	order, err := h.orderService.AddLineItem(c.Request.Context(), groupID, orderID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// UpdateItem edits a line item on an editable order
func (h *PurchaseOrderHandler) UpdateItem(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseUUIDParam(c, "itemId")
	if !ok {
		return
	}

	var req procurement.UpdateLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	order, err := h.orderService.UpdateLineItem(c.Request.Context(), groupID, orderID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// RemoveItem deletes a line item from an editable order
func (h *PurchaseOrderHandler) RemoveItem(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseUUIDParam(c, "itemId")
	if !ok {
		return
	}

	order, err := h.orderService.RemoveLineItem(c.Request.Context(), groupID, orderID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// LinkItem links a line item to a catalog entry before receiving
func (h *PurchaseOrderHandler) LinkItem(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}
	itemID, ok := h.ParseUUIDParam(c, "itemId")
	if !ok {
		return
	}

	var req procurement.LinkLineItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	order, err := h.orderService.LinkLineItem(c.Request.Context(), groupID, orderID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// RecordPayment marks the order paid
func (h *PurchaseOrderHandler) RecordPayment(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	userID, ok := h.UserID(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req procurement.RecordPaymentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	order, err := h.orderService.RecordPayment(c.Request.Context(), groupID, orderID, userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// RecordShipment marks the order shipped with its tracking reference
func (h *PurchaseOrderHandler) RecordShipment(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	userID, ok := h.UserID(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req procurement.RecordShipmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	order, err := h.orderService.RecordShipment(c.Request.Context(), groupID, orderID, userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Receive books the order's line items into inventory
func (h *PurchaseOrderHandler) Receive(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	userID, ok := h.UserID(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req procurement.ReceiveRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	result, err := h.orderService.Receive(c.Request.Context(), groupID, orderID, userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, result)
}

// Archive moves a received order out of the active list
func (h *PurchaseOrderHandler) Archive(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	userID, ok := h.UserID(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	order, err := h.orderService.Archive(c.Request.Context(), groupID, orderID, userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}

// Cancel cancels an order that has not been received
func (h *PurchaseOrderHandler) Cancel(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	userID, ok := h.UserID(c)
	if !ok {
		return
	}
	orderID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req procurement.CancelPurchaseOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	order, err := h.orderService.Cancel(c.Request.Context(), groupID, orderID, userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, order)
}
