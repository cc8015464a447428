package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/techrefresher/backend/internal/application/errorlog"
)

// ErrorLogHandler accepts client-side error reports and lists them
type ErrorLogHandler struct {
	BaseHandler
	service *errorlog.Service
}

func NewErrorLogHandler(service *errorlog.Service) *ErrorLogHandler {
	return &ErrorLogHandler{service: service}
}

// RegisterRoutes registers error log routes on the given router group
func (h *ErrorLogHandler) RegisterRoutes(rg *gin.RouterGroup) {
	logs := rg.Group("/error-logs")
	{
		logs.POST("", h.Record)
		logs.GET("", h.List)
	}
}

// Record stores a client error report. Recording never fails the
// request; a report that cannot be stored is only logged server-side.
func (h *ErrorLogHandler) Record(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}

	var req errorlog.RecordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	var userID *uuid.UUID
	if id, ok := h.UserID(c); ok {
		userID = &id
	} else {
		return
	}

	h.service.Record(c.Request.Context(), groupID, userID, req)
	h.NoContent(c)
}

// List returns stored error reports for the caller's group
func (h *ErrorLogHandler) List(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}

	var filter errorlog.EntryListFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		h.BadRequest(c, err)
		return
	}

	entries, total, err := h.service.List(c.Request.Context(), groupID, filter)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	page, pageSize := normalizePagination(filter.Page, filter.PageSize)
	h.SuccessWithMeta(c, entries, total, page, pageSize)
}
