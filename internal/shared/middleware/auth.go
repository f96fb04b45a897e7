package middleware

import (
	"fmt"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"
)

// AuthMiddleware validates the JWT bearer token and injects the
// authenticated actor (userID, userType) into the gin context.
func AuthMiddleware(jwtSecret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		// 1. Read token from Authorization header
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(401, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		// 2. Extract token from "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(401, gin.H{"error": "invalid authorization header format"})
			c.Abort()
			return
		}
		token := parts[1]

		// 3. Verify and parse JWT
		claims := jwt.MapClaims{}
		parsedToken, err := jwt.ParseWithClaims(token, claims, func(token *jwt.Token) (interface{}, error) {
			if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, fmt.Errorf("unexpected signing method: %v", token.Header["alg"])
			}
			return []byte(jwtSecret), nil
		})

		if err != nil || !parsedToken.Valid {
			c.JSON(401, gin.H{"error": "invalid token"})
			c.Abort()
			return
		}

		if tokenType, _ := claims["type"].(string); tokenType != "access" {
			c.JSON(401, gin.H{"error": "invalid token type"})
			c.Abort()
			return
		}

		// 4. Extract userID from claims
		// JSON numbers decode into float64 inside MapClaims.
		userIDFloat, ok := claims["user_id"].(float64)
		if !ok {
			c.JSON(401, gin.H{"error": "invalid user ID in token"})
			c.Abort()
			return
		}
		userType, ok := claims["user_type"].(string)
		if !ok {
			c.JSON(401, gin.H{"error": "invalid user type in token"})
			c.Abort()
			return
		}

		// 5. Set actor into context
		c.Set("userID", int64(userIDFloat))
		c.Set("userType", userType)

		c.Next()
	}
}

// GetUserID reads the authenticated user ID set by AuthMiddleware.
func GetUserID(c *gin.Context) (int64, bool) {
	v, exists := c.Get("userID")
	if !exists {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

// GetUserType reads the authenticated user type set by AuthMiddleware.
func GetUserType(c *gin.Context) (string, bool) {
	v, exists := c.Get("userType")
	if !exists {
		return "", false
	}
	t, ok := v.(string)
	return t, ok
}
