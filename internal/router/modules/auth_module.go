package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/crateyy/internal/container"
	handlers "github.com/oksasatya/crateyy/internal/interface/http"
	"github.com/oksasatya/crateyy/internal/interface/middleware"
	"github.com/oksasatya/crateyy/pkg/helpers"
)

// AuthModule handles local accounts and the session cookie.
type AuthModule struct {
	Handler *handlers.AuthHandler
	JWT     *helpers.JWTManager
}

func NewAuthModule(h *handlers.AuthHandler, jwt *helpers.JWTManager) *AuthModule {
	return &AuthModule{Handler: h, JWT: jwt}
}

func (m *AuthModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	loginLimiter := middleware.Limit(rdb, middleware.LoginPolicy)
	registerLimiter := middleware.Limit(rdb, middleware.RegisterPolicy)

	rg.POST("/login", loginLimiter, m.Handler.Login)
	rg.POST("/register", registerLimiter, m.Handler.Register)
	rg.GET("/logout", middleware.OptionalAuth(rdb, m.JWT), m.Handler.Logout)
	rg.GET("/current_user", middleware.Auth(rdb, m.JWT), m.Handler.CurrentUser)
}
