package mailer

import (
	"bytes"
	"context"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/mail.v2"
)

type sent struct {
	from string
	to   []string
	raw  string
}

func recorder(fails int, out *[]sent) mail.SendFunc {
	calls := 0
	return func(from string, to []string, msg io.WriterTo) error {
		calls++
		if calls <= fails {
			return errors.New("421 service not available")
		}
		var buf bytes.Buffer
		if _, err := msg.WriteTo(&buf); err != nil {
			return err
		}
		*out = append(*out, sent{from: from, to: to, raw: buf.String()})
		return nil
	}
}

func receiptData() ReceiptData {
	return ReceiptData{
		Institution:   "College Dashboard",
		PayerName:     "Ananya Sen",
		PayerID:       "S1",
		ReceiptNumber: "RCP-ABCD2345-EF67",
		PaymentID:     "PAY-7K2M9QX4TZ",
		FeeCategory:   "Lab Fee",
		Method:        "Razorpay",
		PaidAt:        "14 Mar 2025 10:00 AM",
		Amount:        "INR 750.00",
		ReceiptURL:    "https://fees.example.edu/receipts/shared/tok",
	}
}

func TestSendReceipt(t *testing.T) {
	var out []sent
	m := newWithSender(recorder(0, &out), "noreply@example.edu", "College Dashboard")

	err := m.Send(context.Background(), ReceiptTemplate, "Ananya Sen", "ananya@example.com", receiptData(), Attachment{
		Filename:    "receipt-RCP-ABCD2345-EF67.pdf",
		ContentType: "application/pdf",
		Data:        []byte("%PDF-1.3 test"),
	})
	require.NoError(t, err)
	require.Len(t, out, 1)

	msg := out[0]
	assert.Equal(t, "noreply@example.edu", msg.from)
	assert.Equal(t, []string{"ananya@example.com"}, msg.to)
	assert.Contains(t, msg.raw, "Subject: Payment Receipt - RCP-ABCD2345-EF67")
	assert.Contains(t, msg.raw, "Dear Ananya Sen")
	assert.Contains(t, msg.raw, "INR 750.00")
	assert.Contains(t, msg.raw, "View Receipt")
	assert.Contains(t, msg.raw, `filename="receipt-RCP-ABCD2345-EF67.pdf"`)
	assert.Contains(t, msg.raw, "application/pdf")
}

func TestSendRetries(t *testing.T) {
	testCases := []struct {
		desc    string
		fails   int
		wantErr bool
	}{
		{desc: "FirstAttempt", fails: 0},
		{desc: "SucceedsOnLastAttempt", fails: maxRetries - 1},
		{desc: "GivesUp", fails: maxRetries, wantErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			var out []sent
			m := newWithSender(recorder(tc.fails, &out), "noreply@example.edu", "College Dashboard")

			err := m.Send(context.Background(), ReceiptTemplate, "", "ananya@example.com", receiptData())
			if tc.wantErr {
				assert.Error(t, err)
				assert.Empty(t, out)
				return
			}
			assert.NoError(t, err)
			assert.Len(t, out, 1)
		})
	}
}

func TestSendStopsOnCancelledContext(t *testing.T) {
	var out []sent
	m := newWithSender(recorder(maxRetries, &out), "noreply@example.edu", "College Dashboard")
	m.backoff = time.Hour

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := m.Send(ctx, ReceiptTemplate, "", "ananya@example.com", receiptData())
	assert.ErrorIs(t, err, context.Canceled)
}

func TestSendUnknownTemplate(t *testing.T) {
	var out []sent
	m := newWithSender(recorder(0, &out), "noreply@example.edu", "College Dashboard")

	err := m.Send(context.Background(), "missing.tmpl", "", "ananya@example.com", nil)
	assert.Error(t, err)
	assert.Empty(t, out)
}

func TestNewSMTPMailerRequiresCredentials(t *testing.T) {
	_, err := NewSMTPMailer("smtp.example.edu", 587, "", "", "", "College Dashboard", 0)
	assert.ErrorIs(t, err, ErrNotConfigured)

	m, err := NewSMTPMailer("smtp.example.edu", 587, "bursar@example.edu", "secret", "", "College Dashboard", 0)
	require.NoError(t, err)
	assert.Equal(t, "bursar@example.edu", m.fromEmail)
}
