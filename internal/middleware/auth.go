package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
	"go.uber.org/zap"

	"toolbay/internal/service"
)

// AdminAuth guards moderation endpoints with a Bearer JWT issued by the admin
// login endpoint.
func AdminAuth(admins service.AdminService, logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			abortUnauthorized(c, "Authorization header required")
			return
		}

		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			abortUnauthorized(c, "Authorization header format must be Bearer <token>")
			return
		}

		claims, err := admins.VerifyToken(parts[1])
		if err != nil {
			if errors.Is(err, jwt.ErrTokenExpired) {
				abortUnauthorized(c, "Token expired")
				return
			}
			logger.Warn("Invalid admin token", zap.Error(err))
			abortUnauthorized(c, "Invalid token")
			return
		}

		c.Set("admin_role", claims.Role)
		c.Next()
	}
}

func abortUnauthorized(c *gin.Context, message string) {
	c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
		"success": false,
		"error": gin.H{
			"message":    message,
			"code":       "UNAUTHORIZED",
			"statusCode": http.StatusUnauthorized,
		},
	})
}
