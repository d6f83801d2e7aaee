package payments

import (
	"context"

	"github.com/shopspring/decimal"
)

// Gateway is a hosted checkout provider.
type Gateway interface {
	Name() string
	// CreateOrder returns nil, nil when the gateway has no credentials.
	CreateOrder(ctx context.Context, amount decimal.Decimal, receiptID string) (*OrderHandle, error)
	// VerifyCallback reports whether signature was produced by the gateway
	// for this order and payment. It never errors.
	VerifyCallback(orderRef, paymentRef, signature string) bool
}
