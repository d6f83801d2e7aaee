package payments

import (
	"context"
	"errors"
	"time"

	"feepay/internal/config"
	"feepay/internal/ledger"

	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

// Router picks the settlement path for a payment method.
type Router struct {
	gateways     *Manager
	institution  config.Institution
	orderTimeout time.Duration
	logger       *zap.SugaredLogger
}

func NewRouter(gateways *Manager, institution config.Institution, orderTimeout time.Duration, logger *zap.SugaredLogger) *Router {
	return &Router{
		gateways:     gateways,
		institution:  institution,
		orderTimeout: orderTimeout,
		logger:       logger,
	}
}

// Decide never fails. Gateway trouble degrades to manual online
// instructions and unrecognised methods get bank transfer instructions.
func (r *Router) Decide(ctx context.Context, method ledger.Method, amount decimal.Decimal, receiptNumber string) Decision {
	switch method.Class() {
	case ledger.ClassGateway:
		return r.gatewayDecision(ctx, method, amount, receiptNumber)

	case ledger.ClassDirectTransfer:
		return Decision{
			Type:            DecisionUPI,
			UPIID:           r.institution.UPIID,
			Instructions:    r.institution.UPIInstructions,
			ShowBankDetails: true,
		}

	case ledger.ClassManual:
		if method == ledger.MethodCash {
			return Decision{
				Type:                 DecisionManual,
				Instructions:         r.institution.CashInstructions,
				ShowBankDetails:      false,
				RequiresVerification: true,
			}
		}
		return r.bankTransferDecision()

	default:
		r.logger.Warnw("unknown payment method, using bank transfer instructions",
			"method", method,
			"receipt_number", receiptNumber,
			"policy", "unknown_method_fallback",
		)
		d := r.bankTransferDecision()
		d.UnknownMethodFallback = true
		return d
	}
}

func (r *Router) bankTransferDecision() Decision {
	return Decision{
		Type:                 DecisionManual,
		Instructions:         r.institution.BankTransferInstructions,
		ShowBankDetails:      true,
		RequiresVerification: true,
	}
}

func (r *Router) gatewayDecision(ctx context.Context, method ledger.Method, amount decimal.Decimal, receiptNumber string) Decision {
	brand := BrandFor(method)

	degraded := Decision{
		Type:               DecisionManual,
		Gateway:            brand,
		Instructions:       r.institution.OnlineInstructions,
		ShowBankDetails:    true,
		GatewayUnavailable: true,
	}

	ctx, cancel := context.WithTimeout(ctx, r.orderTimeout)
	defer cancel()

	order, err := r.gateways.CreateOrder(ctx, brand, amount, receiptNumber)
	switch {
	case errors.Is(err, ErrGatewayNotRegistered):
		r.logger.Infow("no gateway registered for method, using manual instructions",
			"method", method, "gateway", brand, "receipt_number", receiptNumber)
		return degraded
	case err != nil:
		r.logger.Warnw("gateway order creation failed, using manual instructions",
			"method", method, "gateway", brand, "receipt_number", receiptNumber, "error", err.Error())
		return degraded
	case order == nil:
		r.logger.Infow("gateway not configured, using manual instructions",
			"method", method, "gateway", brand, "receipt_number", receiptNumber)
		return degraded
	}

	return Decision{
		Type:         DecisionGateway,
		Gateway:      brand,
		Order:        order,
		Instructions: r.institution.OnlineInstructions,
	}
}
