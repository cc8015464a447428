package handler

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/techrefresher/backend/internal/application/identity"
	"github.com/techrefresher/backend/internal/interfaces/http/middleware"
)

// AuthHandler exposes login, token and profile endpoints
type AuthHandler struct {
	BaseHandler
	authService *identity.AuthService
}

func NewAuthHandler(authService *identity.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

// RegisterRoutes registers auth routes on the given router group
func (h *AuthHandler) RegisterRoutes(rg *gin.RouterGroup) {
	auth := rg.Group("/auth")
	{
		auth.POST("/login", h.Login)
		auth.POST("/refresh", h.Refresh)
		auth.POST("/register", h.Register)
		auth.POST("/logout", h.Logout)
		auth.GET("/me", h.Me)
		auth.PUT("/me", h.UpdateProfile)
		auth.PUT("/me/password", h.ChangePassword)
	}
}

// Login authenticates a user by username and password
func (h *AuthHandler) Login(c *gin.Context) {
	var req identity.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.authService.Login(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Refresh exchanges a refresh token for a new token pair
func (h *AuthHandler) Refresh(c *gin.Context) {
	var req identity.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	resp, err := h.authService.RefreshToken(c.Request.Context(), req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, resp)
}

// Register creates a new user inside the caller's group
func (h *AuthHandler) Register(c *gin.Context) {
	groupID, ok := h.GroupID(c)
	if !ok {
		return
	}

	var req identity.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	user, err := h.authService.Register(c.Request.Context(), groupID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Created(c, user)
}

// Logout revokes the current access token and, when provided, the
// refresh token
func (h *AuthHandler) Logout(c *gin.Context) {
	var req identity.LogoutRequest
	// the body is optional; it only carries the refresh token
	_ = c.ShouldBindJSON(&req)

	authHeader := c.GetHeader("Authorization")
	req.AccessToken = strings.TrimPrefix(authHeader, middleware.BearerPrefix)

	if err := h.authService.Logout(c.Request.Context(), req); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}

// Me returns the authenticated user's profile
func (h *AuthHandler) Me(c *gin.Context) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	user, err := h.authService.GetCurrentUser(c.Request.Context(), userID)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

// UpdateProfile updates the authenticated user's display name and email
func (h *AuthHandler) UpdateProfile(c *gin.Context) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req identity.UpdateProfileRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	user, err := h.authService.UpdateProfile(c.Request.Context(), userID, req)
	if err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.Success(c, user)
}

// ChangePassword changes the password and revokes outstanding tokens
func (h *AuthHandler) ChangePassword(c *gin.Context) {
	userID, ok := h.UserID(c)
	if !ok {
		return
	}

	var req identity.ChangePasswordRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.BadRequest(c, err)
		return
	}

	if err := h.authService.ChangePassword(c.Request.Context(), userID, req); err != nil {
		h.HandleDomainError(c, err)
		return
	}

	h.NoContent(c)
}
