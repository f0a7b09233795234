package middleware

import (
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/bloodlink/bloodlink-backend/internal/identity"
	"github.com/bloodlink/bloodlink-backend/pkg/apperr"
	"github.com/bloodlink/bloodlink-backend/pkg/helpers"
	"github.com/bloodlink/bloodlink-backend/pkg/response"
)

// CtxEmailKey is the Gin context key carrying the caller's verified email.
const CtxEmailKey = "userEmail"

// Auth resolves the Authorization bearer credential to a verified email and,
// when Redis is configured, requires a live session for it. The email in the
// context is the only identity downstream code trusts; role checks happen in
// the services against freshly loaded accounts.
func Auth(resolver identity.Resolver, rdb *redis.Client) gin.HandlerFunc {
	return func(c *gin.Context) {
		cred := bearerToken(c)
		email, err := resolver.Resolve(c.Request.Context(), cred)
		if err != nil {
			response.FromError(c, err)
			c.Abort()
			return
		}

		if rdb != nil {
			data, rErr := rdb.HGetAll(c.Request.Context(), helpers.SessionKey(email)).Result()
			if rErr != nil || len(data) == 0 {
				response.FromError(c, apperr.New(apperr.Unauthenticated, "session expired"))
				c.Abort()
				return
			}
		}

		c.Set(CtxEmailKey, email)
		c.Next()
	}
}

func bearerToken(c *gin.Context) string {
	h := c.GetHeader("Authorization")
	if h == "" {
		return ""
	}
	parts := strings.SplitN(h, " ", 2)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "Bearer") {
		return ""
	}
	return strings.TrimSpace(parts[1])
}
