package payment

import (
	"context"

	razorpay "github.com/razorpay/razorpay-go"
)

// Razorpay creates orders through the Razorpay Orders API.
type Razorpay struct {
	client *razorpay.Client
}

func NewRazorpay(keyID, keySecret string) *Razorpay {
	return &Razorpay{client: razorpay.NewClient(keyID, keySecret)}
}

// CreateOrder returns the gateway's order object unchanged; the checkout
// widget consumes it as-is.
func (r *Razorpay) CreateOrder(ctx context.Context, amountPaise int64, currency, receipt string) (map[string]any, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	data := map[string]interface{}{
		"amount":   amountPaise,
		"currency": currency,
		"receipt":  receipt,
	}
	return r.client.Order.Create(data, nil)
}
