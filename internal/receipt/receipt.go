package receipt

import (
	"embed"
	"errors"
	"fmt"
	"html/template"
	"strings"
	"time"

	"feepay/internal/config"
	"feepay/internal/ledger"

	"github.com/shopspring/decimal"
)

//go:embed "templates"
var FS embed.FS

var ErrMalformedPayment = errors.New("payment cannot be rendered as a receipt")

// ErrUnsupportedText means a field holds characters the PDF fonts cannot
// show. Rendering stops instead of printing substitutes.
var ErrUnsupportedText = fmt.Errorf("%w: unsupported characters", ErrMalformedPayment)

type Field struct {
	Label string
	Value string
}

// Content is everything printed on a receipt. The PDF and HTML forms are
// both rendered from the same Content.
type Content struct {
	Institution   string
	Subtitle      string
	Heading       string
	ReceiptNumber string
	Status        string
	Completed     bool
	Details       []Field
	TotalLabel    string
	Total         string
	Bank          []Field
	Footer        []string
}

type Document struct {
	ReceiptNumber string
	Filename      string
	Content       Content
	PDF           []byte
	HTML          []byte
}

// Generator renders receipts for one institution. It does no I/O.
type Generator struct {
	institution config.Institution
	loc         *time.Location
	html        *template.Template
}

func NewGenerator(institution config.Institution) (*Generator, error) {
	loc, err := time.LoadLocation(institution.Timezone)
	if err != nil {
		return nil, fmt.Errorf("receipt timezone %q: %w", institution.Timezone, err)
	}

	tmpl, err := template.ParseFS(FS, "templates/receipt.html.tmpl")
	if err != nil {
		return nil, fmt.Errorf("parse receipt template: %w", err)
	}

	return &Generator{institution: institution, loc: loc, html: tmpl}, nil
}

func Filename(receiptNumber string) string {
	return fmt.Sprintf("receipt-%s.pdf", receiptNumber)
}

// Render produces both forms. Either both succeed or an error is returned.
func (g *Generator) Render(p *ledger.Payment) (*Document, error) {
	c, err := g.Content(p)
	if err != nil {
		return nil, err
	}
	if err := checkPrintable(c); err != nil {
		return nil, err
	}

	pdf, err := g.renderPDF(c, p.PaidAt())
	if err != nil {
		return nil, err
	}

	html, err := g.renderHTML(c)
	if err != nil {
		return nil, err
	}

	return &Document{
		ReceiptNumber: p.ReceiptNumber,
		Filename:      Filename(p.ReceiptNumber),
		Content:       c,
		PDF:           pdf,
		HTML:          html,
	}, nil
}

func (g *Generator) Content(p *ledger.Payment) (Content, error) {
	if err := check(p); err != nil {
		return Content{}, err
	}

	paidAt := p.PaidAt().In(g.loc)

	details := []Field{
		{Label: "Receipt Number", Value: p.ReceiptNumber},
		{Label: "Payment ID", Value: p.PaymentID},
		{Label: "Date", Value: paidAt.Format("02 Jan 2006")},
		{Label: "Time", Value: paidAt.Format("03:04 PM")},
		{Label: "Student ID", Value: p.PayerID},
		{Label: "Student Name", Value: p.PayerName},
		{Label: "Fee Type", Value: string(p.FeeCategory)},
		{Label: "Payment Method", Value: string(p.Method)},
	}
	if p.ExternalRef != "" {
		details = append(details, Field{Label: "Transaction ID", Value: p.ExternalRef})
	}
	if p.Description != "" {
		details = append(details, Field{Label: "Description", Value: p.Description})
	}
	details = append(details, Field{Label: "Status", Value: string(p.Status)})

	inst := g.institution
	bank := []Field{
		{Label: "Account Holder", Value: inst.AccountHolder},
		{Label: "Account Number", Value: inst.AccountNumber},
		{Label: "IFSC Code", Value: inst.IFSC},
		{Label: "Bank Name", Value: inst.BankName},
	}
	if inst.Branch != "" {
		bank = append(bank, Field{Label: "Branch", Value: inst.Branch})
	}
	if inst.UPIID != "" {
		bank = append(bank, Field{Label: "UPI ID", Value: inst.UPIID})
	}

	footer := []string{
		"This is a computer-generated receipt and does not require a signature.",
		"Thank you for your payment!",
	}
	if inst.ContactEmail != "" {
		footer = append(footer, "For queries, contact: "+inst.ContactEmail)
	}

	return Content{
		Institution:   strings.ToUpper(inst.Name),
		Subtitle:      "Official Payment Receipt",
		Heading:       "PAYMENT RECEIPT",
		ReceiptNumber: p.ReceiptNumber,
		Status:        string(p.Status),
		Completed:     p.Status == ledger.StatusCompleted,
		Details:       details,
		TotalLabel:    "Total Amount",
		Total:         FormatAmount(p.Amount),
		Bank:          bank,
		Footer:        footer,
	}, nil
}

func check(p *ledger.Payment) error {
	switch {
	case p == nil:
		return fmt.Errorf("%w: nil payment", ErrMalformedPayment)
	case p.PaymentID == "":
		return fmt.Errorf("%w: missing payment id", ErrMalformedPayment)
	case p.ReceiptNumber == "":
		return fmt.Errorf("%w: missing receipt number", ErrMalformedPayment)
	case p.PayerID == "":
		return fmt.Errorf("%w: missing payer id", ErrMalformedPayment)
	case p.Amount.IsNegative():
		return fmt.Errorf("%w: negative amount", ErrMalformedPayment)
	case p.PaidAt().IsZero():
		return fmt.Errorf("%w: missing payment date", ErrMalformedPayment)
	}
	return nil
}

// FormatAmount formats rupees with Indian digit grouping, e.g.
// "INR 1,23,456.50".
func FormatAmount(d decimal.Decimal) string {
	s := d.Abs().StringFixed(2)
	whole, frac, _ := strings.Cut(s, ".")

	if len(whole) > 3 {
		head, tail := whole[:len(whole)-3], whole[len(whole)-3:]
		var groups []string
		for len(head) > 2 {
			groups = append([]string{head[len(head)-2:]}, groups...)
			head = head[:len(head)-2]
		}
		if head != "" {
			groups = append([]string{head}, groups...)
		}
		whole = strings.Join(append(groups, tail), ",")
	}

	sign := ""
	if d.IsNegative() {
		sign = "-"
	}
	return fmt.Sprintf("INR %s%s.%s", sign, whole, frac)
}
