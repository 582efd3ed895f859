package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/crateyy/internal/container"
	handlers "github.com/oksasatya/crateyy/internal/interface/http"
	"github.com/oksasatya/crateyy/internal/interface/middleware"
)

// OAuthModule mounts the Google redirect endpoints at the site root:
// GET /auth/google, GET /auth/google/callback.
type OAuthModule struct {
	Handler *handlers.OAuthHandler
}

func NewOAuthModule(h *handlers.OAuthHandler) *OAuthModule {
	return &OAuthModule{Handler: h}
}

func (m *OAuthModule) Register(rg *gin.RouterGroup) {
	limiter := middleware.Limit(container.GetRedis(), middleware.OAuthPolicy)
	rg.GET("/auth/google", limiter, m.Handler.Google)
	rg.GET("/auth/google/callback", limiter, m.Handler.Callback)
}
