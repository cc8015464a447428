package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/techrefresher/backend/internal/application/catalog"
)

// CatalogItemHandler exposes catalog item CRUD and stock endpoints
type CatalogItemHandler struct {
	BaseHandler
	itemService *catalog.ItemService
}

func NewCatalogItemHandler(itemService *catalog.ItemService) *CatalogItemHandler {
	return &CatalogItemHandler{itemService: itemService}
}

// RegisterRoutes registers catalog routes on the given router group
func (h *CatalogItemHandler) RegisterRoutes(rg *gin.RouterGroup) {
	items := rg.Group("/catalog-items")
	{
		items.POST("", h.Create)
		items.GET("", h.List)
		items.GET("/:id", h.Get)
		items.PUT("/:id", h.Update)
		items.DELETE("/:id", h.Delete)
		items.POST("/:id/stock/add", h.AddStock)
		items.POST("/:id/stock/remove", h.RemoveStock)
	}
}

// Create adds a new catalog entry
func (h *CatalogItemHandler) Create(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}

	var req catalog.CreateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	item, err := h.itemService.Create(c.Request.Context(), groupID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, item)
}

// Get returns a single catalog item
func (h *CatalogItemHandler) Get(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	itemID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	item, err := h.itemService.GetByID(c.Request.Context(), groupID, itemID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// List returns catalog items matching the filter
func (h *CatalogItemHandler) List(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}

	var filter catalog.ItemListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err)
		return
	}

	items, total, err := h.itemService.List(c.Request.Context(), groupID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page, pageSize := normalizePagination(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, items, total, page, pageSize)
}

// Update edits a catalog item's descriptive fields
func (h *CatalogItemHandler) Update(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	itemID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req catalog.UpdateItemRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	item, err := h.itemService.Update(c.Request.Context(), groupID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// AddStock increments the item's stock counter
func (h *CatalogItemHandler) AddStock(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	itemID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req catalog.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	item, err := h.itemService.AddStock(c.Request.Context(), groupID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// RemoveStock decrements the item's stock counter
func (h *CatalogItemHandler) RemoveStock(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	itemID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req catalog.AdjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	item, err := h.itemService.RemoveStock(c.Request.Context(), groupID, itemID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, item)
}

// Delete removes a catalog item that has no remaining stock
func (h *CatalogItemHandler) Delete(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	itemID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.itemService.Delete(c.Request.Context(), groupID, itemID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
