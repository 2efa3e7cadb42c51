package gateway

import (
	"context"
	"errors"
	"fmt"

	razorpay "github.com/razorpay/razorpay-go"
)

// GatewayPayment is the slice of a gateway payment record the reservation
// engine cares about.
type GatewayPayment struct {
	ID       string
	OrderID  string
	Status   string
	Amount   int64 // smallest currency unit
	Captured bool
}

// Order is a gateway order created ahead of checkout.
type Order struct {
	ID       string
	Amount   int64
	Currency string
}

// PaymentGateway is the interface for the external payment provider.
type PaymentGateway interface {
	// CreateOrder creates a gateway order for the given amount in the
	// smallest currency unit (paise).
	CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error)

	// FetchPayment retrieves the current state of a gateway payment.
	FetchPayment(ctx context.Context, paymentID string) (*GatewayPayment, error)
}

// RazorpayGateway implements PaymentGateway using the Razorpay SDK.
type RazorpayGateway struct {
	client *razorpay.Client
}

// NewRazorpayGateway creates a gateway backed by the Razorpay API.
func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{client: razorpay.NewClient(keyID, keySecret)}
}

var _ PaymentGateway = (*RazorpayGateway)(nil)

// CreateOrder creates a Razorpay order.
func (g *RazorpayGateway) CreateOrder(ctx context.Context, amount int64, currency, receipt string) (*Order, error) {
	data := map[string]interface{}{
		"amount":   amount,
		"currency": currency,
		"receipt":  receipt,
	}

	body, err := g.client.Order.Create(data, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay order create: %w", err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return nil, errors.New("razorpay order create: missing order id in response")
	}

	return &Order{ID: id, Amount: amount, Currency: currency}, nil
}

// FetchPayment retrieves a payment's capture state from Razorpay.
func (g *RazorpayGateway) FetchPayment(ctx context.Context, paymentID string) (*GatewayPayment, error) {
	body, err := g.client.Payment.Fetch(paymentID, nil, nil)
	if err != nil {
		return nil, fmt.Errorf("razorpay payment fetch: %w", err)
	}

	payment := &GatewayPayment{ID: paymentID}
	if orderID, ok := body["order_id"].(string); ok {
		payment.OrderID = orderID
	}
	if status, ok := body["status"].(string); ok {
		payment.Status = status
		payment.Captured = status == "captured"
	}
	if amount, ok := body["amount"].(float64); ok {
		payment.Amount = int64(amount)
	}

	return payment, nil
}
