package payments

import (
	"context"
	"errors"
	"fmt"

	"feepay/internal/ledger"

	"github.com/shopspring/decimal"
)

var ErrGatewayNotRegistered = errors.New("gateway not registered")

// brands maps gateway-class methods to the checkout that hosts them. Cards
// and net banking go through the Razorpay checkout.
var brands = map[ledger.Method]string{
	ledger.MethodCreditCard: BrandRazorpay,
	ledger.MethodDebitCard:  BrandRazorpay,
	ledger.MethodNetBanking: BrandRazorpay,
	ledger.MethodRazorpay:   BrandRazorpay,
	ledger.MethodPaytm:      BrandPaytm,
}

func BrandFor(m ledger.Method) string {
	return brands[m]
}

type Manager struct {
	gateways map[string]Gateway
}

func NewManager() *Manager {
	return &Manager{gateways: make(map[string]Gateway)}
}

// RegisterGateway is called during startup only.
func (m *Manager) RegisterGateway(brand string, gateway Gateway) {
	m.gateways[brand] = gateway
}

func (m *Manager) Gateway(brand string) (Gateway, error) {
	gateway, ok := m.gateways[brand]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrGatewayNotRegistered, brand)
	}
	return gateway, nil
}

func (m *Manager) CreateOrder(ctx context.Context, brand string, amount decimal.Decimal, receiptID string) (*OrderHandle, error) {
	gateway, err := m.Gateway(brand)
	if err != nil {
		return nil, err
	}
	return gateway.CreateOrder(ctx, amount, receiptID)
}

// VerifyCallback is false for unregistered brands.
func (m *Manager) VerifyCallback(brand, orderRef, paymentRef, signature string) bool {
	gateway, err := m.Gateway(brand)
	if err != nil {
		return false
	}
	return gateway.VerifyCallback(orderRef, paymentRef, signature)
}
