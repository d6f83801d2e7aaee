package lifecycle

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"feepay/internal/ledger"

	"go.uber.org/zap"
)

var (
	ErrInvalidTransition = errors.New("invalid payment status transition")
	ErrMissingReference  = errors.New("transaction reference is required")
)

type Event string

const (
	EventComplete Event = "complete"
	EventFail     Event = "fail"
)

// transitions lists every status change the service can make.
var transitions = map[Event]map[ledger.Status]ledger.Status{
	EventComplete: {
		ledger.StatusPending:             ledger.StatusCompleted,
		ledger.StatusVerificationPending: ledger.StatusCompleted,
	},
	EventFail: {
		ledger.StatusPending: ledger.StatusFailed,
	},
}

// noops are (event, status) pairs that succeed without writing. Completing
// twice returns the first completion; a bad callback never moves a payment
// that already left Pending.
var noops = map[Event]map[ledger.Status]bool{
	EventComplete: {
		ledger.StatusCompleted: true,
	},
	EventFail: {
		ledger.StatusVerificationPending: true,
		ledger.StatusProcessing:          true,
		ledger.StatusCompleted:           true,
		ledger.StatusFailed:              true,
		ledger.StatusRefunded:            true,
	},
}

// Allowed reports whether event moves a payment out of from.
func Allowed(event Event, from ledger.Status) (ledger.Status, bool) {
	to, ok := transitions[event][from]
	return to, ok
}

type Result struct {
	Payment *ledger.Payment
	From    ledger.Status
	Changed bool
}

// Machine is the only writer of payment status. Writes are conditional on
// the status it read, so two racing callers cannot both transition.
type Machine struct {
	store  ledger.Store
	logger *zap.SugaredLogger
	now    func() time.Time
}

func New(store ledger.Store, logger *zap.SugaredLogger) *Machine {
	return &Machine{store: store, logger: logger, now: time.Now}
}

// Complete marks the payment Completed with ref as its external transaction
// reference.
func (m *Machine) Complete(ctx context.Context, paymentID, ref string) (*Result, error) {
	ref = strings.TrimSpace(ref)
	if ref == "" {
		return nil, ErrMissingReference
	}
	return m.apply(ctx, paymentID, EventComplete, ref)
}

// Fail marks a Pending payment Failed after a callback failed verification.
func (m *Machine) Fail(ctx context.Context, paymentID string) (*Result, error) {
	return m.apply(ctx, paymentID, EventFail, "")
}

func (m *Machine) apply(ctx context.Context, paymentID string, event Event, ref string) (*Result, error) {
	// One retry covers a write that lost a race; the second read sees the
	// winner's status.
	for attempt := 0; attempt < 2; attempt++ {
		p, err := m.store.Find(ctx, paymentID)
		if err != nil {
			return nil, err
		}

		from := p.Status
		if noops[event][from] {
			return &Result{Payment: p, From: from}, nil
		}

		to, ok := Allowed(event, from)
		if !ok {
			return nil, fmt.Errorf("%w: cannot %s a payment in status %q", ErrInvalidTransition, event, from)
		}

		now := m.now().UTC()
		next := p.Clone()
		next.Status = to
		next.UpdatedAt = now
		if event == EventComplete {
			next.ExternalRef = ref
			next.CompletedAt = &now
		}

		err = m.store.Update(ctx, next, from)
		if errors.Is(err, ledger.ErrStaleStatus) {
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("persist %s transition: %w", event, err)
		}

		m.logger.Infow("payment status changed",
			"payment_id", paymentID,
			"from", from,
			"to", to,
			"event", event,
		)
		return &Result{Payment: next, From: from, Changed: true}, nil
	}

	return nil, ledger.ErrStaleStatus
}
