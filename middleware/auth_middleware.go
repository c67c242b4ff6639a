package middleware

import (
	"net/http"
	"strings"

	"github.com/AbdelrahmanBadr7422/plot-twist-backend/models"
	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v4"
	"github.com/google/uuid"
)

const identityContextKey = "identity"

// TokenValidator validates a bearer token and returns its claims.
type TokenValidator interface {
	ValidateToken(tokenStr string) (jwt.MapClaims, error)
}

// AuthMiddleware parses the Authorization bearer token and attaches the
// caller's identity to the request context.
func AuthMiddleware(tokens TokenValidator) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			c.Abort()
			return
		}

		tokenStr := strings.TrimPrefix(header, "Bearer ")
		claims, err := tokens.ValidateToken(tokenStr)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			c.Abort()
			return
		}

		sub, _ := claims["sub"].(string)
		userID, err := uuid.Parse(sub)
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token subject"})
			c.Abort()
			return
		}
		role, _ := claims["role"].(string)

		c.Set(identityContextKey, models.Identity{UserID: userID, Role: role})
		c.Next()
	}
}

// AdminOnly rejects callers whose identity is not an admin. Must run after
// AuthMiddleware.
func AdminOnly() gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, ok := GetIdentity(c)
		if !ok || !identity.IsAdmin() {
			c.JSON(http.StatusForbidden, gin.H{"error": "admin access required"})
			c.Abort()
			return
		}
		c.Next()
	}
}

// GetIdentity returns the authenticated caller's identity from the context.
func GetIdentity(c *gin.Context) (models.Identity, bool) {
	if val, ok := c.Get(identityContextKey); ok {
		if identity, ok := val.(models.Identity); ok {
			return identity, true
		}
	}
	return models.Identity{}, false
}
