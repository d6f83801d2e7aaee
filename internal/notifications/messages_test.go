package notifications

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayerMessage(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)

	msg := PayerMessage(payment(), institution(), loc)

	for _, s := range []string{
		"Dear Ananya Sen,",
		"Receipt No: RCP-ABCD2345-EF67",
		"Amount: INR 750.00",
		"Fee Type: Lab Fee",
		"Payment Method: Razorpay",
		"Date: 14 Mar 2025 10:00 AM",
		"Account: 413410110002498",
		"IFSC: BKID0004134",
		"Bank: Bank of India",
		"Brainware University",
	} {
		assert.Contains(t, msg, s)
	}
}

func TestAdminMessage(t *testing.T) {
	msg := AdminMessage(payment(), institution())

	assert.Contains(t, msg, "New Payment Received!")
	assert.Contains(t, msg, "Student: Ananya Sen (S1)")
	assert.Contains(t, msg, "Amount: INR 750.00")
	assert.Contains(t, msg, "Receipt: RCP-ABCD2345-EF67")
	assert.Contains(t, msg, "Payment ID: PAY-7K2M9QX4TZ")
	assert.NotContains(t, msg, "Bank Details")
}
