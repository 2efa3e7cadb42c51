package middleware

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/golang-jwt/jwt/v5"

	"rentndrive/internal/domain"
	"rentndrive/internal/service"
)

// Context keys set by AuthMiddleware.
const (
	ContextUserID   = "userID"
	ContextRole     = "role"
	ContextApproved = "approved"
)

// authClaims are the JWT claims this service issues and accepts.
type authClaims struct {
	Role     string `json:"role"`
	Approved bool   `json:"approved"`
	jwt.RegisteredClaims
}

// AuthMiddleware returns middleware that validates a Bearer token and puts
// the caller's identity in the request context.
func AuthMiddleware(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		header := c.GetHeader("Authorization")
		if header == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "missing authorization header"})
			return
		}

		tokenString, found := strings.CutPrefix(header, "Bearer ")
		if !found {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid authorization header"})
			return
		}

		claims := &authClaims{}
		token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
			if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
				return nil, errors.New("unexpected signing method")
			}
			return []byte(secret), nil
		})
		if err != nil || !token.Valid || claims.Subject == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "invalid or expired token"})
			return
		}

		c.Set(ContextUserID, claims.Subject)
		c.Set(ContextRole, claims.Role)
		c.Set(ContextApproved, claims.Approved)
		c.Next()
	}
}

// RequireRoles returns middleware that rejects callers whose role is not in
// the allowed set. Must run after AuthMiddleware.
func RequireRoles(roles ...domain.Role) gin.HandlerFunc {
	allowed := make(map[domain.Role]struct{}, len(roles))
	for _, r := range roles {
		allowed[r] = struct{}{}
	}
	return func(c *gin.Context) {
		role := domain.Role(c.GetString(ContextRole))
		if _, ok := allowed[role]; !ok {
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "access denied"})
			return
		}
		c.Next()
	}
}

// ActorFrom builds the service-layer caller identity from the request
// context populated by AuthMiddleware.
func ActorFrom(c *gin.Context) service.Actor {
	return service.Actor{
		UserID:   c.GetString(ContextUserID),
		Role:     domain.Role(c.GetString(ContextRole)),
		Approved: c.GetBool(ContextApproved),
	}
}
