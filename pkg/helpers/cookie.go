package helpers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

const (
	SessionCookie    = "access_token"
	OAuthStateCookie = "oauth_state"

	oauthCookiePath = "/auth"
)

// CookieJar writes the storefront's HttpOnly, SameSite=Lax cookies.
type CookieJar struct {
	Domain string
	Secure bool
}

func NewCookie(domain string, secure bool) *CookieJar {
	return &CookieJar{Domain: domain, Secure: secure}
}

func (j *CookieJar) set(c *gin.Context, name, value, path string, maxAge int) {
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(name, value, maxAge, path, j.Domain, j.Secure, true)
}

// SetSession lives exactly as long as the token.
func (j *CookieJar) SetSession(c *gin.Context, token string, exp time.Time) {
	j.set(c, SessionCookie, token, "/", max(int(time.Until(exp).Seconds()), 0))
}

func (j *CookieJar) Clear(c *gin.Context) { j.set(c, SessionCookie, "", "/", -1) }

// SetOAuthState is scoped to /auth so only the Google callback sees it.
func (j *CookieJar) SetOAuthState(c *gin.Context, state string, ttl time.Duration) {
	j.set(c, OAuthStateCookie, state, oauthCookiePath, int(ttl.Seconds()))
}

func (j *CookieJar) ClearOAuthState(c *gin.Context) {
	j.set(c, OAuthStateCookie, "", oauthCookiePath, -1)
}
