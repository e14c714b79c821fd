package middlewares

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/openpara/regionhub/internal/config"
	"github.com/openpara/regionhub/internal/domain/user"
)

// Keep these interfaces small so tests can fake them easily.
type TokenDecoder interface {
	Decode(token string) (string, error)
}

type UserResolver interface {
	GetByID(ctx context.Context, id string) (user.User, error)
}

type AuthMiddleware struct {
	codec TokenDecoder
	users UserResolver
}

func NewAuthMiddleware(codec TokenDecoder, users UserResolver) *AuthMiddleware {
	return &AuthMiddleware{codec: codec, users: users}
}

// RequireAuth gates a route behind a valid bearer token whose subject still
// resolves to a stored user. Every decode failure (malformed, bad signature,
// expired) and an unknown subject produce the same response body: the caller
// must not be able to tell why the token was rejected.
func (m *AuthMiddleware) RequireAuth() gin.HandlerFunc {
	return func(c *gin.Context) {
		raw := strings.TrimSpace(c.GetHeader("Authorization"))

		// clients send either the bare token or the Bearer scheme
		raw = strings.TrimSpace(strings.TrimPrefix(raw, "Bearer"))

		if raw == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Authentication Token missing",
			})
			return
		}

		userID, err := m.codec.Decode(raw)

		if err != nil {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Token invalid",
			})
			return
		}

		cctx, cancel := config.WithTimeout(2 * time.Second)
		defer cancel()

		u, err := m.users.GetByID(cctx, userID)

		if err != nil {
			// a token for a deleted user is as invalid as a tampered one
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{
				"message": "Token invalid",
			})
			return
		}

		// Stash useful bits of identity on the context
		c.Set(ctxUserIDKey, u.ID)
		c.Set(ctxEmailKey, u.Email)

		c.Next()
	}
}

// Optional helpers so handlers don't need to know the magic keys.

func UserIDFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxUserIDKey)
	if !ok {
		return "", false
	}
	id, ok := v.(string)
	return id, ok
}

func EmailFromContext(c *gin.Context) (string, bool) {
	v, ok := c.Get(ctxEmailKey)
	if !ok {
		return "", false
	}
	email, ok := v.(string)
	return email, ok
}
