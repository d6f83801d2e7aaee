package notifications

import (
	"fmt"
	"strings"
	"time"

	"feepay/internal/config"
	"feepay/internal/ledger"
	"feepay/internal/receipt"
)

// PayerMessage is the SMS sent to the payer after completion.
func PayerMessage(p *ledger.Payment, inst config.Institution, loc *time.Location) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Dear %s,\n\n", p.PayerName)
	b.WriteString("Payment Received Successfully!\n\n")
	fmt.Fprintf(&b, "Receipt No: %s\n", p.ReceiptNumber)
	fmt.Fprintf(&b, "Amount: %s\n", receipt.FormatAmount(p.Amount))
	fmt.Fprintf(&b, "Fee Type: %s\n", p.FeeCategory)
	fmt.Fprintf(&b, "Payment Method: %s\n", p.Method)
	fmt.Fprintf(&b, "Date: %s\n\n", p.PaidAt().In(loc).Format("02 Jan 2006 03:04 PM"))
	b.WriteString("Bank Details:\n")
	fmt.Fprintf(&b, "Account: %s\n", inst.AccountNumber)
	fmt.Fprintf(&b, "IFSC: %s\n", inst.IFSC)
	fmt.Fprintf(&b, "Bank: %s\n\n", inst.BankName)
	b.WriteString("Thank you for your payment!\n")
	b.WriteString(inst.AccountHolder)
	return b.String()
}

func AdminMessage(p *ledger.Payment, inst config.Institution) string {
	var b strings.Builder
	b.WriteString("New Payment Received!\n\n")
	fmt.Fprintf(&b, "Student: %s (%s)\n", p.PayerName, p.PayerID)
	fmt.Fprintf(&b, "Amount: %s\n", receipt.FormatAmount(p.Amount))
	fmt.Fprintf(&b, "Fee: %s\n", p.FeeCategory)
	fmt.Fprintf(&b, "Receipt: %s\n", p.ReceiptNumber)
	fmt.Fprintf(&b, "Payment ID: %s\n\n", p.PaymentID)
	b.WriteString(inst.AccountHolder)
	return b.String()
}
