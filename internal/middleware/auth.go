package middleware

import (
	"context"
	"strings"

	"github.com/gin-contrib/sessions"
	"github.com/gin-gonic/gin"
	"github.com/yukikurage/charity-task-api/internal/constants"
	apierrors "github.com/yukikurage/charity-task-api/internal/errors"
)

// TokenAuthenticator validates a bearer token, returning the user ID and token ID.
type TokenAuthenticator interface {
	Authenticate(ctx context.Context, token string) (uint64, string, error)
}

// RequireAuth accepts either a bearer token or a session cookie.
// A malformed or revoked bearer token is rejected even when a session exists.
func RequireAuth(tokens TokenAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		if header := c.GetHeader("Authorization"); header != "" {
			parts := strings.SplitN(header, " ", 2)
			if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") || tokens == nil {
				apierrors.Unauthorized(c, "Invalid authorization header")
				c.Abort()
				return
			}

			userID, tokenID, err := tokens.Authenticate(c.Request.Context(), strings.TrimSpace(parts[1]))
			if err != nil {
				apierrors.Unauthorized(c, "Invalid or expired token")
				c.Abort()
				return
			}

			c.Set(constants.ContextKeyUserID, userID)
			c.Set(constants.ContextKeyTokenID, tokenID)
			c.Next()
			return
		}

		session := sessions.Default(c)
		userID := session.Get(constants.ContextKeyUserID)

		if userID == nil {
			apierrors.Unauthorized(c, "")
			c.Abort()
			return
		}

		// Store user ID in context for easy access in handlers
		c.Set(constants.ContextKeyUserID, userID)
		c.Next()
	}
}

// GetUserID retrieves the current user ID from context
func GetUserID(c *gin.Context) (uint64, bool) {
	userID, exists := c.Get(constants.ContextKeyUserID)
	if !exists {
		return 0, false
	}

	switch v := userID.(type) {
	case uint64:
		return v, true
	case uint:
		return uint64(v), true
	case int:
		if v < 0 {
			return 0, false
		}
		return uint64(v), true
	default:
		return 0, false
	}
}

// GetTokenID retrieves the bearer token ID used for the request, if any
func GetTokenID(c *gin.Context) string {
	return c.GetString(constants.ContextKeyTokenID)
}
