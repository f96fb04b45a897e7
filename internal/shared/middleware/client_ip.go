package middleware

import (
	"context"

	"marketplace-backend/internal/shared/utils"

	"github.com/gin-gonic/gin"
)

// ClientIPMiddleware extracts the client IP address from the request
// and injects it into the context for downstream handlers to use.
//
// Register early in the middleware chain so all handlers see the IP.
func ClientIPMiddleware() gin.HandlerFunc {
	return func(c *gin.Context) {
		clientIP := utils.ExtractClientIP(c)

		c.Set("client_ip", clientIP)

		// Also put it on the request context for services.
		ctx := context.WithValue(c.Request.Context(), clientIPKey{}, clientIP)
		c.Request = c.Request.WithContext(ctx)

		c.Next()
	}
}

type clientIPKey struct{}

// GetClientIPFromContext retrieves the client IP from context.
// Returns empty string if not found.
func GetClientIPFromContext(ctx context.Context) string {
	if ip := ctx.Value(clientIPKey{}); ip != nil {
		if ipStr, ok := ip.(string); ok {
			return ipStr
		}
	}
	return ""
}
