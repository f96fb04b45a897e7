package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RequireSeller checks if the authenticated user has the seller role
func RequireSeller() gin.HandlerFunc {
	return requireUserType("seller", "Access denied: seller account required")
}

// RequireAdmin checks if the authenticated user has the admin role
func RequireAdmin() gin.HandlerFunc {
	return requireUserType("admin", "Access denied: admin role required")
}

func requireUserType(userType, message string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// Set by AuthMiddleware
		typeInterface, exists := c.Get("userType")
		if !exists {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   message,
			})
			c.Abort()
			return
		}

		actual, ok := typeInterface.(string)
		if !ok || actual != userType {
			c.JSON(http.StatusForbidden, gin.H{
				"success": false,
				"error":   message,
			})
			c.Abort()
			return
		}

		c.Next()
	}
}
