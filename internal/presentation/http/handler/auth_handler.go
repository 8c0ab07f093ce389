package handler

import (
	"github.com/forto/backoffice/internal/application/service"
	"github.com/forto/backoffice/internal/presentation/http/dto/request"
	"github.com/forto/backoffice/internal/presentation/http/dto/response"
	"github.com/gin-gonic/gin"
)

// AuthHandler handles authentication-related HTTP requests
type AuthHandler struct {
	authService *service.AuthService
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService) *AuthHandler {
	return &AuthHandler{authService: authService}
}

func tokenPayload(output *service.LoginOutput) gin.H {
	return gin.H{
		"employee": gin.H{
			"id":        output.Identity.EmployeeID,
			"username":  output.Identity.Username,
			"name":      output.Identity.Name,
			"role":      output.Identity.Role,
			"branch_id": output.Identity.BranchID,
		},
		"session_id":    output.SessionID,
		"access_token":  output.AccessToken,
		"refresh_token": output.RefreshToken,
		"expires_in":    output.ExpiresIn,
		"token_type":    "Bearer",
	}
}

// Login handles staff login
// @Summary Login
// @Tags auth
// @Accept json
// @Produce json
// @Param request body request.LoginRequest true "Login credentials"
// @Success 200 {object} response.APIResponse
// @Failure 401 {object} response.APIResponse
// @Router /auth/login [post]
func (h *AuthHandler) Login(c *gin.Context) {
	var req request.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.Login(c.Request.Context(), &service.LoginInput{
		Username: req.Username,
		Password: req.Password,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Login successful", tokenPayload(output))
}

// RefreshToken handles token refresh
// @Summary Refresh Token
// @Tags auth
// @Router /auth/refresh [post]
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req request.RefreshTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.BadRequest(c, "Invalid request body")
		return
	}

	output, err := h.authService.RefreshToken(c.Request.Context(), req.RefreshToken)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Token refreshed", tokenPayload(output))
}

// Logout ends the caller's session
// @Router /auth/logout [post]
func (h *AuthHandler) Logout(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}

	h.authService.Logout(c.Request.Context(), sess.ID())
	response.OK(c, "Logged out", nil)
}

// Profile returns the caller and their cached shift
// @Router /profile [get]
func (h *AuthHandler) Profile(c *gin.Context) {
	sess := requireSession(c)
	if sess == nil {
		return
	}

	identity, shift, err := h.authService.Profile(c.Request.Context(), sess)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.OK(c, "Profile retrieved", gin.H{
		"employee":             identity,
		"shift":                shift,
		"unread_notifications": sess.UnreadCount(),
	})
}
