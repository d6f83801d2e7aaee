package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"feepay/internal/config"
	"feepay/internal/keylock"
	"feepay/internal/ledger"
	"feepay/internal/lifecycle"
	"feepay/internal/metric"
	"feepay/internal/notifications"
	"feepay/internal/payer"
	"feepay/internal/payments"
	"feepay/internal/receipt"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"
)

const maxIDAttempts = 3

const (
	MessageGateway      = "Redirecting to payment gateway..."
	MessageInstructions = "Follow the payment instructions below."
	MessageVerified     = "Payment verified and completed successfully!"
	MessageMarked       = "Payment marked as completed successfully!"
	MessageAlready      = "Payment was already completed."
)

type Notifier interface {
	Notify(ctx context.Context, p *ledger.Payment, doc *receipt.Document) notifications.Report
}

type Deps struct {
	Store       ledger.Store
	Payers      payer.Directory
	IDs         *ledger.IDGenerator
	Router      *payments.Router
	Gateways    *payments.Manager
	Machine     *lifecycle.Machine
	Receipts    *receipt.Generator
	Archiver    receipt.Archiver // optional
	Events      ledger.EventLog  // optional
	Notifier    Notifier
	Locks       *keylock.Locker
	Institution config.Institution
	Metrics     metric.Payments
	Logger      *zap.SugaredLogger
}

type Service struct {
	store       ledger.Store
	payers      payer.Directory
	ids         *ledger.IDGenerator
	router      *payments.Router
	gateways    *payments.Manager
	machine     *lifecycle.Machine
	receipts    *receipt.Generator
	archiver    receipt.Archiver
	events      ledger.EventLog
	notifier    Notifier
	locks       *keylock.Locker
	institution config.Institution
	metrics     metric.Payments
	logger      *zap.SugaredLogger
	validate    *validator.Validate
	now         func() time.Time
}

func New(d Deps) *Service {
	return &Service{
		store:       d.Store,
		payers:      d.Payers,
		ids:         d.IDs,
		router:      d.Router,
		gateways:    d.Gateways,
		machine:     d.Machine,
		receipts:    d.Receipts,
		archiver:    d.Archiver,
		events:      d.Events,
		notifier:    d.Notifier,
		locks:       d.Locks,
		institution: d.Institution,
		metrics:     d.Metrics,
		logger:      d.Logger,
		validate:    newValidator(),
		now:         time.Now,
	}
}

type InitiateRequest struct {
	PayerID     string             `json:"student_id"     validate:"required,max=64"`
	FeeCategory ledger.FeeCategory `json:"fee_type"       validate:"required,fee_category"`
	Amount      decimal.Decimal    `json:"amount"`
	Method      ledger.Method      `json:"payment_method" validate:"required,payment_method"`
	Description string             `json:"description"    validate:"max=500,receipt_text"`
	Email       string             `json:"student_email"  validate:"omitempty,email,max=254"`
	Phone       string             `json:"student_phone"  validate:"omitempty,max=20"`
}

type InitiateResult struct {
	Payment  *ledger.Payment   `json:"payment"`
	Decision payments.Decision `json:"payment_flow"`
	Message  string            `json:"message"`
}

// Initiate records a new payment and tells the payer how to settle it.
func (s *Service) Initiate(ctx context.Context, req InitiateRequest) (*InitiateResult, error) {
	req.PayerID = strings.TrimSpace(req.PayerID)
	req.Email = strings.TrimSpace(req.Email)
	req.Phone = strings.TrimSpace(req.Phone)

	verr := s.check(req)
	if msg := checkAmount(req.Amount); msg != "" {
		if verr == nil {
			verr = &ValidationError{Fields: map[string]string{}}
		}
		verr.Fields["amount"] = msg
	}
	if verr != nil {
		return nil, verr
	}

	rec, err := s.payers.Find(ctx, req.PayerID)
	if err != nil {
		if errors.Is(err, payer.ErrNotFound) {
			return nil, ErrPayerNotFound
		}
		return nil, fmt.Errorf("find payer %s: %w", req.PayerID, err)
	}

	p, err := s.insert(ctx, req, rec)
	if err != nil {
		return nil, err
	}

	start := s.now()
	decision := s.router.Decide(ctx, p.Method, p.Amount, p.ReceiptNumber)
	if p.Method.Class() == ledger.ClassGateway {
		s.metrics.GatewayOrder(payments.BrandFor(p.Method), !decision.GatewayUnavailable, s.now().Sub(start))
	}
	s.metrics.Initiated(string(p.Method), string(decision.Type))
	s.audit(ctx, p.PaymentID, ledger.EventInitiated, map[string]any{
		"method":              p.Method,
		"amount":              p.Amount,
		"status":              p.Status,
		"decision":            decision.Type,
		"gateway_unavailable": decision.GatewayUnavailable,
	})

	s.logger.Infow("payment initiated",
		"payment_id", p.PaymentID,
		"receipt_number", p.ReceiptNumber,
		"payer_id", p.PayerID,
		"method", p.Method,
		"status", p.Status,
		"decision", decision.Type,
	)

	msg := MessageInstructions
	if decision.Type == payments.DecisionGateway {
		msg = MessageGateway
	}
	return &InitiateResult{Payment: p, Decision: decision, Message: msg}, nil
}

func (s *Service) insert(ctx context.Context, req InitiateRequest, rec *payer.Record) (*ledger.Payment, error) {
	email := req.Email
	if email == "" {
		email = rec.Email
	}
	phone := req.Phone
	if phone == "" {
		phone = rec.FallbackPhone
	}

	now := s.now().UTC()
	var lastErr error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		id, err := s.ids.PaymentID()
		if err != nil {
			return nil, fmt.Errorf("generate payment id: %w", err)
		}

		p := &ledger.Payment{
			PaymentID:     id,
			ReceiptNumber: s.ids.ReceiptNumber(rec.ID),
			PayerID:       rec.ID,
			PayerName:     rec.Name,
			PayerEmail:    email,
			PayerPhone:    phone,
			FeeCategory:   req.FeeCategory,
			Amount:        req.Amount,
			Method:        req.Method,
			Status:        req.Method.InitialStatus(),
			Description:   strings.TrimSpace(req.Description),
			CreatedAt:     now,
			UpdatedAt:     now,
		}

		err = s.store.Insert(ctx, p)
		if err == nil {
			return p, nil
		}
		if !errors.Is(err, ledger.ErrConflict) {
			return nil, fmt.Errorf("insert payment: %w", err)
		}
		lastErr = err
		s.logger.Warnw("payment id collision, regenerating", "payment_id", id, "attempt", attempt+1)
	}
	return nil, fmt.Errorf("insert payment after %d attempts: %w", maxIDAttempts, lastErr)
}

type ConfirmRequest struct {
	PaymentID        string `json:"payment_id"`
	GatewayOrderID   string `json:"razorpay_order_id"`
	GatewayPaymentID string `json:"razorpay_payment_id"`
	GatewaySignature string `json:"razorpay_signature"`
	TransactionRef   string `json:"transaction_id"`
}

func (r ConfirmRequest) hasCallback() bool {
	return r.GatewayOrderID != "" && r.GatewayPaymentID != "" && r.GatewaySignature != ""
}

type ConfirmResult struct {
	Payment       *ledger.Payment       `json:"payment"`
	Receipt       *receipt.Document     `json:"-"`
	ArchiveURL    string                `json:"archive_url,omitempty"`
	Notifications *notifications.Report `json:"notifications,omitempty"`
	// AlreadyCompleted is set when the payment was completed by an earlier
	// confirmation; nothing was re-sent.
	AlreadyCompleted bool `json:"already_completed"`
	// VerificationFailed is set when the gateway signature did not match.
	VerificationFailed bool `json:"verification_failed"`
}

// Confirm completes a payment from a signed gateway callback or a manual
// transaction reference. A bad signature is reported in the result, not as
// an error.
func (s *Service) Confirm(ctx context.Context, req ConfirmRequest) (*ConfirmResult, error) {
	req.PaymentID = strings.TrimSpace(req.PaymentID)
	if req.PaymentID == "" {
		return nil, newValidationError("payment_id", "is required")
	}
	if !req.hasCallback() && strings.TrimSpace(req.TransactionRef) == "" {
		return nil, ErrMissingConfirmation
	}

	unlock, err := s.locks.Lock(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	p, err := s.find(ctx, req.PaymentID)
	if err != nil {
		return nil, err
	}

	if !req.hasCallback() {
		return s.complete(ctx, p.PaymentID, req.TransactionRef)
	}

	brand := payments.BrandFor(p.Method)
	if brand == "" {
		brand = payments.BrandRazorpay
	}
	valid := s.gateways.VerifyCallback(brand, req.GatewayOrderID, req.GatewayPaymentID, req.GatewaySignature)
	s.audit(ctx, p.PaymentID, ledger.EventCallback, map[string]any{
		"gateway":    brand,
		"order_id":   req.GatewayOrderID,
		"payment_id": req.GatewayPaymentID,
		"valid":      valid,
	})
	if valid {
		return s.complete(ctx, p.PaymentID, req.GatewayPaymentID)
	}

	res, err := s.machine.Fail(ctx, p.PaymentID)
	if err != nil {
		return nil, s.transitionError(err)
	}
	if res.Changed {
		s.metrics.Transition(string(lifecycle.EventFail), string(res.From), string(res.Payment.Status))
		s.auditTransition(ctx, lifecycle.EventFail, res)
	}
	s.metrics.Confirmation("verification_failed")
	s.logger.Warnw("gateway signature verification failed",
		"payment_id", p.PaymentID,
		"gateway", brand,
		"order_id", req.GatewayOrderID,
		"status", res.Payment.Status,
	)
	return &ConfirmResult{Payment: res.Payment, VerificationFailed: true}, nil
}

// MarkComplete is the administrator path for payments that were verified
// by hand. No gateway check is made.
func (s *Service) MarkComplete(ctx context.Context, paymentID, transactionRef string) (*ConfirmResult, error) {
	paymentID = strings.TrimSpace(paymentID)
	if paymentID == "" {
		return nil, newValidationError("payment_id", "is required")
	}
	if strings.TrimSpace(transactionRef) == "" {
		return nil, newValidationError("transaction_id", "is required")
	}

	unlock, err := s.locks.Lock(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	defer unlock()

	return s.complete(ctx, paymentID, transactionRef)
}

func (s *Service) complete(ctx context.Context, paymentID, ref string) (*ConfirmResult, error) {
	res, err := s.machine.Complete(ctx, paymentID, strings.TrimSpace(ref))
	if err != nil {
		return nil, s.transitionError(err)
	}

	if !res.Changed {
		s.metrics.Confirmation("already_completed")
		s.logger.Infow("payment already completed", "payment_id", paymentID)
		return &ConfirmResult{Payment: res.Payment, AlreadyCompleted: true}, nil
	}

	s.metrics.Transition(string(lifecycle.EventComplete), string(res.From), string(res.Payment.Status))
	s.metrics.Confirmation("completed")
	s.auditTransition(ctx, lifecycle.EventComplete, res)

	// The transition is durable from here on. Side effects outlive a
	// disconnected client.
	out := &ConfirmResult{Payment: res.Payment}
	s.afterCompletion(context.WithoutCancel(ctx), out)
	return out, nil
}

func (s *Service) afterCompletion(ctx context.Context, out *ConfirmResult) {
	p := out.Payment

	doc, err := s.receipts.Render(p)
	if err != nil {
		s.logger.Errorw("receipt rendering failed", "payment_id", p.PaymentID, "error", err.Error())
		doc = nil
	}
	out.Receipt = doc

	if doc != nil && s.archiver != nil {
		url, err := s.archiver.Archive(ctx, doc)
		if err != nil {
			s.logger.Warnw("receipt archive failed", "payment_id", p.PaymentID, "error", err.Error())
		} else {
			out.ArchiveURL = url
			s.audit(ctx, p.PaymentID, ledger.EventArchived, map[string]string{"url": url})
		}
	}

	report := s.notifier.Notify(ctx, p, doc)
	out.Notifications = &report
	s.audit(ctx, p.PaymentID, ledger.EventNotification, report)

	if !report.EmailDelivered() {
		return
	}
	if err := s.store.MarkReceiptDelivered(ctx, p.PaymentID); err != nil {
		s.logger.Errorw("failed to record receipt delivery", "payment_id", p.PaymentID, "error", err.Error())
		return
	}
	p.ReceiptDelivered = true
}

// audit appends to the payment's event trail. A failed append is logged and
// never fails the operation.
func (s *Service) audit(ctx context.Context, paymentID string, kind ledger.EventKind, payload any) {
	if s.events == nil {
		return
	}
	if err := s.events.Append(ctx, paymentID, kind, payload); err != nil {
		s.logger.Warnw("payment event not recorded", "payment_id", paymentID, "kind", kind, "error", err.Error())
	}
}

func (s *Service) auditTransition(ctx context.Context, event lifecycle.Event, res *lifecycle.Result) {
	s.audit(ctx, res.Payment.PaymentID, ledger.EventTransition, map[string]any{
		"event":     event,
		"from":      res.From,
		"to":        res.Payment.Status,
		"reference": res.Payment.ExternalRef,
	})
}

func (s *Service) transitionError(err error) error {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return ErrPaymentNotFound
	case errors.Is(err, lifecycle.ErrMissingReference):
		return newValidationError("transaction_id", "is required")
	default:
		return err
	}
}

func (s *Service) find(ctx context.Context, paymentID string) (*ledger.Payment, error) {
	p, err := s.store.Find(ctx, paymentID)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return nil, ErrPaymentNotFound
		}
		return nil, fmt.Errorf("find payment %s: %w", paymentID, err)
	}
	return p, nil
}

func (s *Service) Payment(ctx context.Context, paymentID string) (*ledger.Payment, error) {
	return s.find(ctx, strings.TrimSpace(paymentID))
}

// PayerPayments lists a payer's payments, newest first.
func (s *Service) PayerPayments(ctx context.Context, payerID string) ([]*ledger.Payment, error) {
	payerID = strings.TrimSpace(payerID)
	if payerID == "" {
		return nil, newValidationError("student_id", "is required")
	}
	list, err := s.store.FindByPayer(ctx, payerID)
	if err != nil {
		return nil, fmt.Errorf("list payments of %s: %w", payerID, err)
	}
	return list, nil
}

func (s *Service) List(ctx context.Context, f ledger.Filter) ([]*ledger.Payment, int, error) {
	if f.Status != "" && !f.Status.Valid() {
		return nil, 0, newValidationError("status", "must be one of: "+joinValues(ledger.Statuses))
	}
	list, total, err := s.store.List(ctx, f)
	if err != nil {
		return nil, 0, fmt.Errorf("list payments: %w", err)
	}
	return list, total, nil
}

// Receipt renders the receipt of any stored payment. Pending payments get a
// receipt with their current status.
func (s *Service) Receipt(ctx context.Context, paymentID string) (*receipt.Document, error) {
	p, err := s.Payment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	doc, err := s.receipts.Render(p)
	if err != nil {
		return nil, fmt.Errorf("render receipt %s: %w", p.PaymentID, err)
	}
	return doc, nil
}

// Events returns the audit trail of a payment, oldest first.
func (s *Service) Events(ctx context.Context, paymentID string) ([]ledger.Event, error) {
	p, err := s.Payment(ctx, paymentID)
	if err != nil {
		return nil, err
	}
	if s.events == nil {
		return []ledger.Event{}, nil
	}
	events, err := s.events.Events(ctx, p.PaymentID)
	if err != nil {
		return nil, fmt.Errorf("events of %s: %w", p.PaymentID, err)
	}
	if events == nil {
		events = []ledger.Event{}
	}
	return events, nil
}

type BankDetails struct {
	AccountNumber string `json:"account_number"`
	IFSC          string `json:"ifsc_code"`
	BankName      string `json:"bank_name"`
	AccountHolder string `json:"account_holder_name"`
	Branch        string `json:"branch,omitempty"`
	UPIID         string `json:"upi_id,omitempty"`
}

func (s *Service) BankDetails() BankDetails {
	inst := s.institution
	return BankDetails{
		AccountNumber: inst.AccountNumber,
		IFSC:          inst.IFSC,
		BankName:      inst.BankName,
		AccountHolder: inst.AccountHolder,
		Branch:        inst.Branch,
		UPIID:         inst.UPIID,
	}
}
