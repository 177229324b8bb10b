// Package middleware provides HTTP middleware for the API endpoints.
package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"github.com/ledgerline/backend/config"
	"github.com/ledgerline/backend/internal/integration/entrypoint/dto"
)

// ContextKey is a type for context keys.
type ContextKey string

const (
	// OwnerIDKey is the context key for the authenticated owner's ID.
	OwnerIDKey ContextKey = "owner_id"
	// OwnerEmailKey is the context key for the authenticated owner's email.
	OwnerEmailKey ContextKey = "owner_email"

	// devOwnerHeader names the local development bypass header.
	devOwnerHeader = "X-Dev-Owner"
)

// ownerClaims is the token payload the edge issues. The core only
// consumes the owner scope; token issuance lives elsewhere.
type ownerClaims struct {
	Email string `json:"email,omitempty"`
	jwt.RegisteredClaims
}

// AuthMiddleware verifies bearer tokens and loads the owner scope into
// the request context.
type AuthMiddleware struct {
	secret         []byte
	allowDevBypass bool
}

// NewAuthMiddleware creates a new auth middleware instance.
func NewAuthMiddleware(cfg *config.AuthConfig) *AuthMiddleware {
	return &AuthMiddleware{
		secret:         []byte(cfg.JWTSecret),
		allowDevBypass: cfg.AllowLocalDevBypass,
	}
}

// Authenticate returns a Gin middleware handler that enforces the
// authentication contract on every request.
func (m *AuthMiddleware) Authenticate() gin.HandlerFunc {
	return func(c *gin.Context) {
		if m.allowDevBypass {
			if owner := c.GetHeader(devOwnerHeader); owner != "" {
				c.Set(string(OwnerIDKey), owner)
				c.Next()
				return
			}
		}

		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			unauthorized(c, "Authorization header is required")
			return
		}

		if !strings.HasPrefix(authHeader, "Bearer ") {
			unauthorized(c, "Invalid authorization header format")
			return
		}

		token := strings.TrimPrefix(authHeader, "Bearer ")
		if token == "" {
			unauthorized(c, "Token is required")
			return
		}

		claims := &ownerClaims{}
		parsed, err := jwt.ParseWithClaims(token, claims, func(t *jwt.Token) (any, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, jwt.ErrSignatureInvalid
			}
			return m.secret, nil
		})
		if err != nil || !parsed.Valid || claims.Subject == "" {
			unauthorized(c, "Invalid or expired token")
			return
		}

		c.Set(string(OwnerIDKey), claims.Subject)
		if claims.Email != "" {
			c.Set(string(OwnerEmailKey), claims.Email)
		}

		c.Next()
	}
}

func unauthorized(c *gin.Context, message string) {
	c.JSON(http.StatusUnauthorized, dto.Fail("UNAUTHORIZED", message))
	c.Abort()
}

// GetOwnerIDFromContext extracts the owner ID from the Gin context.
func GetOwnerIDFromContext(c *gin.Context) (string, bool) {
	ownerID, exists := c.Get(string(OwnerIDKey))
	if !exists {
		return "", false
	}
	id, ok := ownerID.(string)
	return id, ok && id != ""
}

// GetOwnerEmailFromContext extracts the owner email from the Gin context.
func GetOwnerEmailFromContext(c *gin.Context) (string, bool) {
	email, exists := c.Get(string(OwnerEmailKey))
	if !exists {
		return "", false
	}
	emailStr, ok := email.(string)
	return emailStr, ok
}
