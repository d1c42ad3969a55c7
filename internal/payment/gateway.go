// Package payment wraps the external payment gateway behind a small interface
// so the booking service can be exercised without network access.
package payment

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"math"

	razorpay "github.com/razorpay/razorpay-go"
)

type Order struct {
	ID       string `json:"id"`
	Amount   int64  `json:"amount"` // minor currency units
	Currency string `json:"currency"`
	Receipt  string `json:"receipt"`
}

type Refund struct {
	ID     string `json:"id"`
	Amount int64  `json:"amount"`
}

type Gateway interface {
	CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error)
	Refund(ctx context.Context, paymentID string, amountMinor int64) (*Refund, error)
}

type RazorpayGateway struct {
	client *razorpay.Client
}

func NewRazorpayGateway(keyID, keySecret string) *RazorpayGateway {
	return &RazorpayGateway{
		client: razorpay.NewClient(keyID, keySecret),
	}
}

func (g *RazorpayGateway) CreateOrder(ctx context.Context, amountMinor int64, currency, receipt string) (*Order, error) {
	body, err := g.client.Order.Create(map[string]interface{}{
		"amount":   amountMinor,
		"currency": currency,
		"receipt":  receipt,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create gateway order: %v", err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("gateway order response missing id")
	}
	return &Order{
		ID:       id,
		Amount:   amountMinor,
		Currency: currency,
		Receipt:  receipt,
	}, nil
}

func (g *RazorpayGateway) Refund(ctx context.Context, paymentID string, amountMinor int64) (*Refund, error) {
	body, err := g.client.Payment.Refund(paymentID, int(amountMinor), map[string]interface{}{}, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to refund payment %s: %v", paymentID, err)
	}

	id, ok := body["id"].(string)
	if !ok || id == "" {
		return nil, fmt.Errorf("gateway refund response missing id")
	}
	return &Refund{ID: id, Amount: amountMinor}, nil
}

// MinorUnits converts a currency amount to minor units (e.g. rupees to
// paise), rounding to the nearest unit.
func MinorUnits(amount float64) int64 {
	return int64(math.Round(amount * 100))
}

// VerifySignature checks an HMAC-SHA256 hex signature over "orderID|paymentID"
// against the shared gateway secret. Comparison is constant-time.
func VerifySignature(orderID, paymentID, signature, secret string) bool {
	if orderID == "" || paymentID == "" || signature == "" {
		return false
	}
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	expected := hex.EncodeToString(mac.Sum(nil))
	return hmac.Equal([]byte(expected), []byte(signature))
}
