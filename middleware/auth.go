package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/prepal/ambassador-backend/config"
	"github.com/prepal/ambassador-backend/models"
	"github.com/prepal/ambassador-backend/utils"
)

// Context keys set by AuthMiddleware
const (
	ContextClaims     = "claims"
	ContextAmbassador = "ambassador"
)

// AuthMiddleware validates the bearer token and stores its claims in the
// context. Ambassador tokens are additionally resolved against the store so a
// suspended account loses access immediately.
func AuthMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			utils.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		tokenString := strings.TrimPrefix(authHeader, "Bearer ")
		if tokenString == authHeader {
			utils.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}

		claims, err := utils.ValidateToken(tokenString)
		if err != nil {
			utils.LogError("Invalid token: %v", err)
			utils.Unauthorized(c, "Invalid or expired token")
			c.Abort()
			return
		}

		if claims.Role == utils.RoleAmbassador {
			var ambassador models.Ambassador
			if err := config.DB.First(&ambassador, "id = ?", claims.UserID).Error; err != nil {
				utils.LogError("Ambassador not found for token: %v", err)
				utils.Unauthorized(c, "Invalid or expired token")
				c.Abort()
				return
			}
			if ambassador.Status != models.AmbassadorStatusActive {
				utils.Forbidden(c, "Account is not active")
				c.Abort()
				return
			}
			c.Set(ContextAmbassador, ambassador)
		}

		c.Set(ContextClaims, *claims)
		c.Next()
	}
}

// RequireAdmin allows only admin-role tokens past
func RequireAdmin() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			utils.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		if claims.Role != utils.RoleAdmin {
			utils.Forbidden(c, "Admin access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// RequireAmbassador allows only ambassador-role tokens past
func RequireAmbassador() gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, ok := GetClaims(c)
		if !ok {
			utils.Unauthorized(c, "Authentication required")
			c.Abort()
			return
		}
		if claims.Role != utils.RoleAmbassador {
			utils.Forbidden(c, "Ambassador access required")
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetClaims returns the token claims stored by AuthMiddleware
func GetClaims(c *gin.Context) (utils.TokenClaims, bool) {
	value, exists := c.Get(ContextClaims)
	if !exists {
		return utils.TokenClaims{}, false
	}
	claims, ok := value.(utils.TokenClaims)
	return claims, ok
}
