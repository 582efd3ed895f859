package handlers

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/crateyy/internal/application"
	"github.com/oksasatya/crateyy/internal/domain/entity"
	"github.com/oksasatya/crateyy/pkg/helpers"
	"github.com/oksasatya/crateyy/pkg/response"
)

const oauthStateTTL = 10 * time.Minute

var errStateMismatch = errors.New("oauth state mismatch")

// OAuthProvider runs the authorization code flow against a federated login provider.
type OAuthProvider interface {
	AuthCodeURL(state string) string
	Exchange(ctx context.Context, code string) (entity.ExternalIdentity, error)
}

type OAuthHandler struct {
	Provider   OAuthProvider
	Svc        *application.IdentityService
	RDB        *redis.Client
	Logger     *logrus.Logger
	Cookies    *helpers.CookieJar
	SuccessURL string
	FailureURL string
}

func NewOAuthHandler(p OAuthProvider, svc *application.IdentityService, rdb *redis.Client, logger *logrus.Logger, cookies *helpers.CookieJar, successURL, failureURL string) *OAuthHandler {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &OAuthHandler{
		Provider:   p,
		Svc:        svc,
		RDB:        rdb,
		Logger:     logger,
		Cookies:    cookies,
		SuccessURL: successURL,
		FailureURL: failureURL,
	}
}

func keyOAuthState(s string) string { return "oauth:state:" + s }

func genState(n int) (string, error) {
	b := make([]byte, n)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// Google GET /auth/google
func (h *OAuthHandler) Google(c *gin.Context) {
	if h.Provider == nil {
		response.Error[any](c, http.StatusNotFound, "google login is not configured", nil)
		return
	}
	state, err := genState(32)
	if err != nil {
		response.Error[any](c, http.StatusInternalServerError, "state generation failed", nil)
		return
	}
	h.Cookies.SetOAuthState(c, state, oauthStateTTL)
	if h.RDB != nil {
		if err := h.RDB.Set(c.Request.Context(), keyOAuthState(state), "1", oauthStateTTL).Err(); err != nil {
			h.Logger.WithError(err).Warn("store oauth state failed")
		}
	}
	c.Redirect(http.StatusFound, h.Provider.AuthCodeURL(state))
}

// Callback GET /auth/google/callback
func (h *OAuthHandler) Callback(c *gin.Context) {
	if h.Provider == nil {
		response.Error[any](c, http.StatusNotFound, "google login is not configured", nil)
		return
	}
	ctx := c.Request.Context()
	if err := h.checkState(c); err != nil {
		h.fail(c, err)
		return
	}
	code := c.Query("code")
	if code == "" {
		h.fail(c, errors.New("missing authorization code"))
		return
	}
	ext, err := h.Provider.Exchange(ctx, code)
	if err != nil {
		h.fail(c, err)
		return
	}
	u, err := h.Svc.FindOrLinkExternal(ctx, ext)
	if err != nil {
		h.fail(c, err)
		return
	}
	sess, err := h.Svc.StartSession(ctx, u)
	if err != nil {
		h.fail(c, err)
		return
	}
	h.Cookies.SetSession(c, sess.Token, sess.ExpiresAt)
	c.Redirect(http.StatusFound, h.SuccessURL)
}

func (h *OAuthHandler) checkState(c *gin.Context) error {
	got := c.Query("state")
	want, _ := c.Cookie(helpers.OAuthStateCookie)
	h.Cookies.ClearOAuthState(c)
	if got == "" || got != want {
		return errStateMismatch
	}
	if h.RDB != nil {
		n, err := h.RDB.Del(c.Request.Context(), keyOAuthState(got)).Result()
		if err != nil {
			return err
		}
		if n == 0 {
			return errStateMismatch
		}
	}
	return nil
}

func (h *OAuthHandler) fail(c *gin.Context, err error) {
	h.Logger.WithError(err).Warn("google login failed")
	c.Redirect(http.StatusFound, h.FailureURL)
}
