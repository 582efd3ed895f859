package middleware

import (
	"errors"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/oksasatya/crateyy/pkg/helpers"
)

const (
	CtxUserIDKey    = "userID"
	CtxUserRoleKey  = "userRole"
	CtxSessionIDKey = "sessionID"
)

var (
	errNoToken      = errors.New("missing access token")
	errStaleSession = errors.New("session was replaced")
)

// sessionClaims validates the access_token cookie. With Redis configured the
// token's session id must also be the one currently stored for the user, so
// logout and a newer login both revoke it.
func sessionClaims(c *gin.Context, rdb *redis.Client, jwt *helpers.JWTManager) (*helpers.Claims, error) {
	token, err := c.Cookie(helpers.SessionCookie)
	if err != nil || token == "" {
		return nil, errNoToken
	}
	claims, err := jwt.ParseAccessToken(token)
	if err != nil {
		return nil, err
	}
	if rdb == nil {
		return claims, nil
	}
	sid, err := helpers.CurrentSessionID(c.Request.Context(), rdb, claims.UserID)
	if err != nil {
		return nil, helpers.ErrNoSession
	}
	if sid != claims.SessionID {
		return nil, errStaleSession
	}
	return claims, nil
}

func setClaims(c *gin.Context, claims *helpers.Claims) {
	c.Set(CtxUserIDKey, claims.UserID)
	c.Set(CtxUserRoleKey, claims.Role)
	c.Set(CtxSessionIDKey, claims.SessionID)
}

// OptionalAuth populates the user keys when a valid session is present and
// lets anonymous requests through untouched.
func OptionalAuth(rdb *redis.Client, jwt *helpers.JWTManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		if claims, err := sessionClaims(c, rdb, jwt); err == nil {
			setClaims(c, claims)
		}
		c.Next()
	}
}
