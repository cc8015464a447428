package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/techrefresher/backend/internal/application/inventory"
)

// PartHandler exposes harvested part inventory endpoints
type PartHandler struct {
	BaseHandler
	partService *inventory.PartService
}

func NewPartHandler(partService *inventory.PartService) *PartHandler {
	return &PartHandler{partService: partService}
}

// RegisterRoutes registers part routes on the given router group
func (h *PartHandler) RegisterRoutes(rg *gin.RouterGroup) {
	parts := rg.Group("/parts")
	{
		parts.POST("", h.Create)
		parts.GET("", h.List)
		parts.GET("/by-slug/:slug", h.GetBySlug)
		parts.GET("/:id", h.Get)
		parts.POST("/:id/adjust", h.Adjust)
		parts.PUT("/:id/name", h.Rename)
		parts.DELETE("/:id", h.Delete)
	}
}

// Create registers a part with its opening stock
func (h *PartHandler) Create(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}

	var req inventory.CreatePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	part, err := h.partService.Create(c.Request.Context(), groupID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, part)
}

// Get returns a single part
func (h *PartHandler) Get(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	partID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	part, err := h.partService.GetByID(c.Request.Context(), groupID, partID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, part)
}

// GetBySlug returns a part by its normalized identity slug
func (h *PartHandler) GetBySlug(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}

	part, err := h.partService.GetBySlug(c.Request.Context(), groupID, c.Param("slug"))
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, part)
}

// List returns parts matching the filter
func (h *PartHandler) List(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}

	var filter inventory.PartListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err)
		return
	}

	parts, total, err := h.partService.List(c.Request.Context(), groupID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page, pageSize := normalizePagination(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, parts, total, page, pageSize)
}

// Adjust adds or removes stock, recalculating the weighted average cost
func (h *PartHandler) Adjust(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	partID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req inventory.AdjustPartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	part, err := h.partService.Adjust(c.Request.Context(), groupID, partID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, part)
}

// Rename changes the part's identity, recomputing its slug
func (h *PartHandler) Rename(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	partID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	var req inventory.RenamePartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	part, err := h.partService.Rename(c.Request.Context(), groupID, partID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, part)
}

// Delete removes a part with no remaining stock
func (h *PartHandler) Delete(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}
	partID, ok := h.ParseUUIDParam(c, "id")
	if !ok {
		return
	}

	if err := h.partService.Delete(c.Request.Context(), groupID, partID); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
