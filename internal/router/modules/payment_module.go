package modules

import (
	"github.com/gin-gonic/gin"

	"github.com/oksasatya/crateyy/internal/container"
	handlers "github.com/oksasatya/crateyy/internal/interface/http"
	"github.com/oksasatya/crateyy/internal/interface/middleware"
	"github.com/oksasatya/crateyy/pkg/helpers"
)

// PaymentModule exposes checkout. Guests may create orders; a logged-in
// buyer additionally gets a confirmation email.
type PaymentModule struct {
	Handler *handlers.PaymentHandler
	JWT     *helpers.JWTManager
}

func NewPaymentModule(h *handlers.PaymentHandler, jwt *helpers.JWTManager) *PaymentModule {
	return &PaymentModule{Handler: h, JWT: jwt}
}

func (m *PaymentModule) Register(rg *gin.RouterGroup) {
	rdb := container.GetRedis()
	orderLimiter := middleware.Limit(rdb, middleware.OrderPolicy)

	rg.POST("/create-order", middleware.OptionalAuth(rdb, m.JWT), orderLimiter, m.Handler.CreateOrder)
	rg.GET("/razorpay-key", m.Handler.Key)
}
