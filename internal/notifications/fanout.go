package notifications

import (
	"context"
	"fmt"
	"time"

	"feepay/internal/config"
	"feepay/internal/ledger"
	"feepay/internal/mailer"
	"feepay/internal/metric"
	"feepay/internal/receipt"
	"feepay/internal/sms"

	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
)

type Channel string

const (
	ChannelPayerEmail Channel = "payer_email"
	ChannelPayerSMS   Channel = "payer_sms"
	ChannelAdminSMS   Channel = "admin_sms"
)

const (
	outcomeSucceeded = "succeeded"
	outcomeFailed    = "failed"
	outcomeSkipped   = "skipped"
)

// Attempt is the result of one channel. Skipped channels have
// Attempted=false and a SkipReason.
type Attempt struct {
	Channel    Channel `json:"channel"`
	Recipient  string  `json:"recipient,omitempty"`
	Attempted  bool    `json:"attempted"`
	Succeeded  bool    `json:"succeeded"`
	SkipReason string  `json:"skip_reason,omitempty"`
	Error      string  `json:"error,omitempty"`
}

type Report struct {
	Attempts []Attempt `json:"attempts"`
}

func (r Report) Channel(ch Channel) (Attempt, bool) {
	for _, a := range r.Attempts {
		if a.Channel == ch {
			return a, true
		}
	}
	return Attempt{}, false
}

// EmailDelivered reports whether the payer email went out. It is the only
// channel that marks a receipt as delivered.
func (r Report) EmailDelivered() bool {
	a, ok := r.Channel(ChannelPayerEmail)
	return ok && a.Succeeded
}

type Options struct {
	// Mailer and SMS may be nil when the transport is not configured.
	Mailer      mailer.Client
	SMS         sms.Sender
	Institution config.Institution
	// ReceiptLink returns a public URL for the receipt, or "" if none.
	ReceiptLink func(p *ledger.Payment) string
	Timeout     time.Duration
	Metrics     metric.Notifications
	Logger      *zap.SugaredLogger
}

type Fanout struct {
	mailer      mailer.Client
	sms         sms.Sender
	institution config.Institution
	loc         *time.Location
	receiptLink func(p *ledger.Payment) string
	timeout     time.Duration
	metrics     metric.Notifications
	logger      *zap.SugaredLogger
}

func New(o Options) (*Fanout, error) {
	loc, err := time.LoadLocation(o.Institution.Timezone)
	if err != nil {
		return nil, fmt.Errorf("notification timezone %q: %w", o.Institution.Timezone, err)
	}
	if o.ReceiptLink == nil {
		o.ReceiptLink = func(*ledger.Payment) string { return "" }
	}
	if o.Timeout <= 0 {
		o.Timeout = 15 * time.Second
	}
	return &Fanout{
		mailer:      o.Mailer,
		sms:         o.SMS,
		institution: o.Institution,
		loc:         loc,
		receiptLink: o.ReceiptLink,
		timeout:     o.Timeout,
		metrics:     o.Metrics,
		logger:      o.Logger,
	}, nil
}

// Notify attempts every channel concurrently and waits for all of them.
// It never returns an error; failures are recorded in the report.
func (f *Fanout) Notify(ctx context.Context, p *ledger.Payment, doc *receipt.Document) Report {
	channels := []func(context.Context) Attempt{
		func(ctx context.Context) Attempt { return f.payerEmail(ctx, p, doc) },
		func(ctx context.Context) Attempt { return f.payerSMS(ctx, p) },
		func(ctx context.Context) Attempt { return f.adminSMS(ctx, p) },
	}

	attempts := make([]Attempt, len(channels))
	var g errgroup.Group
	for i, run := range channels {
		g.Go(func() error {
			cctx, cancel := context.WithTimeout(ctx, f.timeout)
			defer cancel()
			attempts[i] = run(cctx)
			return nil
		})
	}
	_ = g.Wait()

	for _, a := range attempts {
		f.record(p, a)
	}
	return Report{Attempts: attempts}
}

func (f *Fanout) payerEmail(ctx context.Context, p *ledger.Payment, doc *receipt.Document) Attempt {
	a := Attempt{Channel: ChannelPayerEmail, Recipient: p.PayerEmail}
	switch {
	case f.mailer == nil:
		a.SkipReason = "email not configured"
		return a
	case p.PayerEmail == "":
		a.SkipReason = "no email address"
		return a
	case doc == nil:
		a.SkipReason = "receipt unavailable"
		return a
	}

	a.Attempted = true
	err := f.mailer.Send(ctx, mailer.ReceiptTemplate, p.PayerName, p.PayerEmail, f.receiptData(p),
		mailer.Attachment{
			Filename:    doc.Filename,
			ContentType: "application/pdf",
			Data:        doc.PDF,
		})
	if err != nil {
		a.Error = err.Error()
		return a
	}
	a.Succeeded = true
	return a
}

func (f *Fanout) payerSMS(ctx context.Context, p *ledger.Payment) Attempt {
	a := Attempt{Channel: ChannelPayerSMS, Recipient: p.PayerPhone}
	switch {
	case f.sms == nil:
		a.SkipReason = "sms not configured"
		f.logUnsentSMS(p, a, PayerMessage(p, f.institution, f.loc))
		return a
	case p.PayerPhone == "":
		a.SkipReason = "no phone number"
		return a
	}
	return f.sendSMS(ctx, a, PayerMessage(p, f.institution, f.loc))
}

func (f *Fanout) adminSMS(ctx context.Context, p *ledger.Payment) Attempt {
	a := Attempt{Channel: ChannelAdminSMS}
	switch {
	case !f.institution.AdminPhoneConfigured():
		a.SkipReason = "admin phone not configured"
		return a
	case f.sms == nil:
		a.Recipient = f.institution.AdminPhone
		a.SkipReason = "sms not configured"
		f.logUnsentSMS(p, a, AdminMessage(p, f.institution))
		return a
	}
	a.Recipient = f.institution.AdminPhone
	return f.sendSMS(ctx, a, AdminMessage(p, f.institution))
}

func (f *Fanout) sendSMS(ctx context.Context, a Attempt, body string) Attempt {
	a.Attempted = true
	if _, err := f.sms.Send(ctx, a.Recipient, body); err != nil {
		a.Error = err.Error()
		return a
	}
	a.Succeeded = true
	return a
}

// logUnsentSMS keeps the text of an SMS that had no transport, so it can be
// sent by hand.
func (f *Fanout) logUnsentSMS(p *ledger.Payment, a Attempt, body string) {
	if a.Recipient == "" {
		return
	}
	f.logger.Infow("sms not configured, message not sent",
		"channel", a.Channel, "payment_id", p.PaymentID, "recipient", a.Recipient, "message", body)
}

func (f *Fanout) record(p *ledger.Payment, a Attempt) {
	outcome := outcomeSucceeded
	switch {
	case !a.Attempted:
		outcome = outcomeSkipped
		f.logger.Infow("notification skipped",
			"channel", a.Channel, "payment_id", p.PaymentID, "reason", a.SkipReason)
	case !a.Succeeded:
		outcome = outcomeFailed
		f.logger.Warnw("notification failed",
			"channel", a.Channel, "payment_id", p.PaymentID, "recipient", a.Recipient, "error", a.Error)
	default:
		f.logger.Infow("notification sent",
			"channel", a.Channel, "payment_id", p.PaymentID, "recipient", a.Recipient)
	}
	if f.metrics != nil {
		f.metrics.Attempt(string(a.Channel), outcome)
	}
}

func (f *Fanout) receiptData(p *ledger.Payment) mailer.ReceiptData {
	return mailer.ReceiptData{
		Institution:   f.institution.Name,
		PayerName:     p.PayerName,
		PayerID:       p.PayerID,
		ReceiptNumber: p.ReceiptNumber,
		PaymentID:     p.PaymentID,
		FeeCategory:   string(p.FeeCategory),
		Method:        string(p.Method),
		PaidAt:        p.PaidAt().In(f.loc).Format("02 Jan 2006 03:04 PM"),
		Amount:        receipt.FormatAmount(p.Amount),
		ReceiptURL:    f.receiptLink(p),
	}
}
