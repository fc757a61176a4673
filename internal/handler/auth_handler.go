package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/VastraLabs/vastra_api/internal/middleware"
	"github.com/VastraLabs/vastra_api/internal/service"
	"github.com/VastraLabs/vastra_api/internal/utils"
)

// AuthHandler handles admin authentication.
type AuthHandler struct {
	adminAuthService *service.AdminAuthService
	rateLimiter      *middleware.LoginRateLimiter
}

// NewAuthHandler constructs an AuthHandler.
func NewAuthHandler(adminAuthService *service.AdminAuthService, rateLimiter *middleware.LoginRateLimiter) *AuthHandler {
	return &AuthHandler{
		adminAuthService: adminAuthService,
		rateLimiter:      rateLimiter,
	}
}

type loginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

// Login handles POST /v1/admin/auth/login
func (h *AuthHandler) Login(c *gin.Context) {
	ip := c.ClientIP()
	if !h.rateLimiter.Allow(ip) {
		utils.Error(c, 429, "TOO_MANY_ATTEMPTS", "Too many login attempts, try again later")
		return
	}

	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "MISSING_FIELD", "Email and password are required")
		return
	}

	token, admin, err := h.adminAuthService.Login(req.Email, req.Password)
	if err != nil {
		if err == utils.ErrInvalidCredentials {
			utils.Error(c, 401, "INVALID_CREDENTIALS", "Invalid email or password")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Internal server error")
		return
	}

	h.rateLimiter.Reset(ip)
	utils.Success(c, 200, "Login successful", gin.H{
		"token": token,
		"admin": admin,
	})
}
