package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/VastraLabs/vastra_api/internal/utils"
)

// bearerClaims extracts and validates the bearer token on the request.
func bearerClaims(c *gin.Context) (*utils.Claims, bool) {
	authHeader := c.GetHeader("Authorization")
	if authHeader == "" {
		utils.Error(c, 401, "UNAUTHORIZED", "Missing authorization header")
		c.Abort()
		return nil, false
	}

	parts := strings.SplitN(authHeader, " ", 2)
	if len(parts) != 2 || parts[0] != "Bearer" {
		utils.Error(c, 401, "UNAUTHORIZED", "Invalid authorization header")
		c.Abort()
		return nil, false
	}

	claims, err := utils.ValidateJWT(parts[1])
	if err != nil {
		utils.Error(c, 401, "INVALID_TOKEN", "Invalid or expired token")
		c.Abort()
		return nil, false
	}
	return claims, true
}

// AuthMiddleware authenticates storefront customers.
type AuthMiddleware struct{}

// NewAuthMiddleware constructs an AuthMiddleware.
func NewAuthMiddleware() *AuthMiddleware {
	return &AuthMiddleware{}
}

func (m *AuthMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c)
		if !ok {
			return
		}
		if claims.Role != "customer" {
			utils.Error(c, 403, "FORBIDDEN", "Customer access required")
			c.Abort()
			return
		}
		c.Set("user_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}

// AdminMiddleware authenticates back-office users.
type AdminMiddleware struct{}

// NewAdminMiddleware constructs an AdminMiddleware.
func NewAdminMiddleware() *AdminMiddleware {
	return &AdminMiddleware{}
}

func (m *AdminMiddleware) Handle() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := bearerClaims(c)
		if !ok {
			return
		}
		if claims.Role != "admin" {
			utils.Error(c, 403, "FORBIDDEN", "Admin access required")
			c.Abort()
			return
		}
		c.Set("admin_id", claims.UserID)
		c.Set("email", claims.Email)
		c.Next()
	}
}
