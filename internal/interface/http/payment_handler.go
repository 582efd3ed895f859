package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/crateyy/internal/application"
	"github.com/oksasatya/crateyy/internal/domain/entity"
	"github.com/oksasatya/crateyy/internal/interface/middleware"
	"github.com/oksasatya/crateyy/pkg/helpers"
	"github.com/oksasatya/crateyy/pkg/response"
	"github.com/oksasatya/crateyy/pkg/validation"
)

type PaymentHandler struct {
	Svc    *application.OrderService
	Users  *application.IdentityService
	Logger *logrus.Logger
}

func NewPaymentHandler(svc *application.OrderService, users *application.IdentityService, logger *logrus.Logger) *PaymentHandler {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &PaymentHandler{Svc: svc, Users: users, Logger: logger}
}

type createOrderRequest struct {
	// Amount in rupees; numbers and numeric strings are accepted.
	Amount decimal.Decimal `json:"amount"`
}

// CreateOrder POST /api/create-order
func (h *PaymentHandler) CreateOrder(c *gin.Context) {
	var req createOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error[any](c, http.StatusBadRequest, "invalid payload", validation.ToDetails(err))
		return
	}
	order, err := h.Svc.CreateOrder(c.Request.Context(), req.Amount, h.buyer(c))
	if err != nil {
		writeError(c, h.Logger, err)
		return
	}
	response.Success(c, http.StatusOK, order, "order created", nil)
}

// Key GET /api/razorpay-key
func (h *PaymentHandler) Key(c *gin.Context) {
	response.Success(c, http.StatusOK, gin.H{"key": h.Svc.PublicKey}, "razorpay key", nil)
}

func (h *PaymentHandler) buyer(c *gin.Context) *entity.User {
	uid := c.GetString(middleware.CtxUserIDKey)
	if uid == "" || h.Users == nil {
		return nil
	}
	u, err := h.Users.FindByID(c.Request.Context(), uid)
	if err != nil {
		return nil
	}
	return u
}
