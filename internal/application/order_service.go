package application

import (
	"context"
	"expvar"
	"fmt"
	"strconv"
	"time"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/oksasatya/crateyy/internal/domain/entity"
	"github.com/oksasatya/crateyy/pkg/helpers"
)

// CurrencyINR is the only currency the checkout widget is configured for.
const CurrencyINR = "INR"

var (
	ordersCreated = expvar.NewInt("orders_created")
	ordersFailed  = expvar.NewInt("orders_failed")
)

// PaymentGateway creates an order for an amount in the currency's minor unit.
type PaymentGateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (map[string]any, error)
}

type OrderService struct {
	Gateway   PaymentGateway
	PublicKey string
	Notifier  *Notifier
	Logger    *logrus.Logger

	now func() time.Time
}

func NewOrderService(gw PaymentGateway, publicKey string, notifier *Notifier, logger *logrus.Logger) *OrderService {
	if logger == nil {
		logger = helpers.NewNopLogger()
	}
	return &OrderService{Gateway: gw, PublicKey: publicKey, Notifier: notifier, Logger: logger, now: time.Now}
}

// ToPaise converts rupees to paise, rounding half away from zero.
func ToPaise(amount decimal.Decimal) int64 {
	return amount.Mul(decimal.NewFromInt(100)).Round(0).IntPart()
}

// CreateOrder asks the gateway for an order of amount rupees. buyer may be nil
// for guest checkouts; logged-in buyers get an order confirmation email.
func (s *OrderService) CreateOrder(ctx context.Context, amount decimal.Decimal, buyer *entity.User) (map[string]any, error) {
	paise := ToPaise(amount)
	if paise <= 0 {
		return nil, &ValidationError{Fields: map[string]string{"amount": "must be greater than 0"}}
	}
	receipt := "receipt_" + strconv.FormatInt(s.now().UnixMilli(), 10)

	order, err := s.Gateway.CreateOrder(ctx, paise, CurrencyINR, receipt)
	if err != nil {
		ordersFailed.Add(1)
		s.Logger.WithError(err).WithFields(logrus.Fields{"amount_paise": paise, "receipt": receipt}).Error("payment order failed")
		return nil, upstreamErr("create payment order", err)
	}
	ordersCreated.Add(1)

	if buyer != nil {
		s.Notifier.OrderCreated(ctx, buyer, fmt.Sprint(order["id"]), amount.StringFixed(2), CurrencyINR)
	}
	return order, nil
}
