package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/yashrajoria/sneakershop/models"
)

const (
	IdentityKey    = "identity"
	UserContextKey = "userID"
	RoleContextKey = "role"
)

// TokenValidator turns a session token into the caller identity.
type TokenValidator interface {
	Validate(tokenStr string) (*models.Identity, error)
}

// AuthMiddleware reads the session token from cookieName, falling back to an
// Authorization: Bearer header, and stores the identity on the context.
func AuthMiddleware(tokens TokenValidator, cookieName string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token, _ := c.Cookie(cookieName)
		if token == "" {
			if auth := c.GetHeader("Authorization"); strings.HasPrefix(auth, "Bearer ") {
				token = strings.TrimSpace(strings.TrimPrefix(auth, "Bearer "))
			}
		}
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}

		identity, err := tokens.Validate(token)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Invalid token"})
			return
		}

		c.Set(IdentityKey, identity)
		c.Set(UserContextKey, identity.ID)
		c.Set(RoleContextKey, identity.Role)
		c.Next()
	}
}

// GetIdentity returns the identity stored by AuthMiddleware.
func GetIdentity(c *gin.Context) (*models.Identity, error) {
	if val, ok := c.Get(IdentityKey); ok {
		if id, ok := val.(*models.Identity); ok && id != nil {
			return id, nil
		}
	}
	return nil, errors.New("identity not found in context")
}

// GetUserID extracts the user ID from the Gin context.
func GetUserID(c *gin.Context) (uuid.UUID, error) {
	if val, ok := c.Get(UserContextKey); ok {
		if id, ok := val.(uuid.UUID); ok && id != uuid.Nil {
			return id, nil
		}
	}
	return uuid.Nil, errors.New("user ID not found in context")
}

// RequireRole lets the request through only when the caller has one of roles.
func RequireRole(roles ...models.Role) gin.HandlerFunc {
	return requireRole("Forbidden", roles...)
}

// AdminOnly restricts access to the admin role.
func AdminOnly() gin.HandlerFunc {
	return requireRole("Access denied. Admin role required.", models.RoleAdmin)
}

func requireRole(message string, roles ...models.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		identity, err := GetIdentity(c)
		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Not authenticated"})
			return
		}
		for _, r := range roles {
			if identity.Role == r {
				c.Next()
				return
			}
		}
		c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": message})
	}
}
