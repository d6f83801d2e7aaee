package mailer

import (
	"context"
	"embed"
	"errors"
)

const (
	maxRetries      = 3
	ReceiptTemplate = "receipt.tmpl"
)

//go:embed "templates"
var FS embed.FS

var ErrNotConfigured = errors.New("email is not configured")

type Attachment struct {
	Filename    string
	ContentType string
	Data        []byte
}

type Client interface {
	Send(ctx context.Context, templateFile, name, email string, data any, attachments ...Attachment) error
}

// ReceiptData is what receipt.tmpl renders.
type ReceiptData struct {
	Institution   string
	PayerName     string
	PayerID       string
	ReceiptNumber string
	PaymentID     string
	FeeCategory   string
	Method        string
	PaidAt        string
	Amount        string
	ReceiptURL    string
}
