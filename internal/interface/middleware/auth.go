package middleware

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/crateyy/pkg/helpers"
	"github.com/oksasatya/crateyy/pkg/response"
)

// Auth requires a valid session cookie and sets userID, userRole and
// sessionID in the Gin context.
func Auth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		claims, err := sessionClaims(c, rdb, jwt)
		if err != nil {
			response.Error[any](c, http.StatusUnauthorized, "not logged in", nil)
			return
		}
		setClaims(c, claims)
		c.Next()
	}
}

// RequireRole must run after Auth.
func RequireRole(role string) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.GetString(CtxUserRoleKey) != role {
			response.Error[any](c, http.StatusForbidden, "unauthorized role access", nil)
			return
		}
		c.Next()
	}
}
