package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/techrefresher/backend/internal/domain/shared"
	"github.com/techrefresher/backend/internal/interfaces/http/dto"
	"github.com/techrefresher/backend/internal/interfaces/http/middleware"
)

// BaseHandler provides common response helpers for all handlers
type BaseHandler struct{}

// Success sends a 200 response with the data wrapped in the envelope
func (h *BaseHandler) Success(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, dto.NewSuccessResponse(data))
}

// SuccessWithMeta sends a 200 response with pagination metadata
func (h *BaseHandler) SuccessWithMeta(c *gin.Context, data interface{}, total int64, page, pageSize int) {
	c.JSON(http.StatusOK, dto.NewSuccessResponseWithMeta(data, total, page, pageSize))
}

// Created sends a 201 response
func (h *BaseHandler) Created(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, dto.NewSuccessResponse(data))
}

// NoContent sends a 204 response
func (h *BaseHandler) NoContent(c *gin.Context) {
	c.Status(http.StatusNoContent)
}

// BadRequest sends a 400 with validation details extracted from the
// binding error
func (h *BaseHandler) BadRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, dto.NewValidationErrorResponse(
		"Request validation failed",
		c.GetString("request_id"),
		middleware.FormatValidationErrors(err)))
}

// NotFound sends a 404 with the given message
func (h *BaseHandler) NotFound(c *gin.Context, message string) {
	c.JSON(http.StatusNotFound, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeNotFound, message, c.GetString("request_id")))
}

// Unauthorized sends a 401 with the given message
func (h *BaseHandler) Unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeUnauthorized, message, c.GetString("request_id")))
}

// HandleDomainError maps a service-layer error onto an HTTP status.
// Domain error codes pass through to the client unchanged.
func (h *BaseHandler) HandleDomainError(c *gin.Context, err error) {
	var domainErr *shared.DomainError
	if errors.As(err, &domainErr) {
		status := dto.GetHTTPStatus(domainErr.Code)
		c.JSON(status, dto.NewErrorResponseWithRequestID(
			domainErr.Code, domainErr.Message, c.GetString("request_id")))
		return
	}

	c.JSON(http.StatusInternalServerError, dto.NewErrorResponseWithRequestID(
		dto.ErrCodeInternal, "An internal error occurred", c.GetString("request_id")))
}

// GroupID extracts the authenticated group id from the request.
// Returns uuid.Nil and writes a 401 when the claim is missing or bad.
func (h *BaseHandler) GroupID(c *gin.Context) (uuid.UUID, bool) {
	raw := middleware.GetJWTGroupID(c)
	if raw == "" {
		h.Unauthorized(c, "Missing group claim")
		return uuid.Nil, false
	}
	groupID, err := uuid.Parse(raw)
	if err != nil {
		h.Unauthorized(c, "Invalid group claim")
		return uuid.Nil, false
	}
	return groupID, true
}

// UserID extracts the authenticated user id from the request
func (h *BaseHandler) UserID(c *gin.Context) (uuid.UUID, bool) {
	raw := middleware.GetJWTUserID(c)
	if raw == "" {
		h.Unauthorized(c, "Missing user claim")
		return uuid.Nil, false
	}
	userID, err := uuid.Parse(raw)
	if err != nil {
		h.Unauthorized(c, "Invalid user claim")
		return uuid.Nil, false
	}
	return userID, true
}

// normalizePagination mirrors the defaults the services apply so
// pagination metadata matches the returned page
func normalizePagination(page, pageSize int) (int, int) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 {
		pageSize = 20
	}
	return page, pageSize
}

// ParseUUIDParam parses a uuid path parameter, writing a 400 on failure
func (h *BaseHandler) ParseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, dto.NewErrorResponseWithRequestID(
			dto.ErrCodeBadRequest, "Invalid "+name+" parameter", c.GetString("request_id")))
		return uuid.Nil, false
	}
	return id, true
}
