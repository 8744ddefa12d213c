package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/freshcatch/backend/pkg/apierr"
	"github.com/freshcatch/backend/pkg/response"
	"github.com/freshcatch/backend/services"
)

// Context keys populated by Authenticate.
const (
	ContextUserID = "user_id"
	ContextRole   = "role"
)

func bearerToken(c *gin.Context) string {
	header := c.GetHeader("Authorization")
	if header == "" || !strings.HasPrefix(header, "Bearer ") {
		return ""
	}
	return strings.TrimPrefix(header, "Bearer ")
}

// Authenticate requires a valid bearer token and stores the caller's
// identity on the request context.
func Authenticate(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c)
		if token == "" {
			response.Error(c, apierr.Unauthorized("Authorization token required"))
			return
		}
		claims, err := tokens.Parse(token)
		if err != nil {
			response.Error(c, apierr.Unauthorized("Invalid or expired token"))
			return
		}
		c.Set(ContextUserID, claims.UserID)
		c.Set(ContextRole, claims.Role)
		c.Next()
	}
}

// RequireRole restricts a route group to callers holding one of the given
// roles. Must run after Authenticate.
func RequireRole(roles ...string) gin.HandlerFunc {
	return func(c *gin.Context) {
		role := c.GetString(ContextRole)
		for _, allowed := range roles {
			if role == allowed {
				c.Next()
				return
			}
		}
		response.Error(c, apierr.Forbidden("Insufficient permissions"))
	}
}

// OptionalAuth populates identity when a valid token is present but never
// rejects the request.
func OptionalAuth(tokens *services.TokenService) gin.HandlerFunc {
	return func(c *gin.Context) {
		if token := bearerToken(c); token != "" {
			if claims, err := tokens.Parse(token); err == nil {
				c.Set(ContextUserID, claims.UserID)
				c.Set(ContextRole, claims.Role)
			}
		}
		c.Next()
	}
}
