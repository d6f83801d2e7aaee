package ledger

import (
	"time"

	"github.com/shopspring/decimal"
)

type Status string

const (
	StatusPending             Status = "Pending"
	StatusVerificationPending Status = "Verification Pending"
	StatusProcessing          Status = "Processing"
	StatusCompleted           Status = "Completed"
	StatusFailed              Status = "Failed"
	StatusRefunded            Status = "Refunded"
)

var Statuses = []Status{
	StatusPending,
	StatusVerificationPending,
	StatusProcessing,
	StatusCompleted,
	StatusFailed,
	StatusRefunded,
}

func (s Status) Valid() bool {
	for _, v := range Statuses {
		if s == v {
			return true
		}
	}
	return false
}

type FeeCategory string

const (
	FeeRegistration FeeCategory = "Registration Fee"
	FeeCourse       FeeCategory = "Course Fee"
	FeeLibrary      FeeCategory = "Library Fee"
	FeeLab          FeeCategory = "Lab Fee"
	FeeExamination  FeeCategory = "Examination Fee"
	FeeHostel       FeeCategory = "Hostel Fee"
	FeeOther        FeeCategory = "Other"
)

var FeeCategories = []FeeCategory{
	FeeRegistration,
	FeeCourse,
	FeeLibrary,
	FeeLab,
	FeeExamination,
	FeeHostel,
	FeeOther,
}

func (c FeeCategory) Valid() bool {
	for _, v := range FeeCategories {
		if c == v {
			return true
		}
	}
	return false
}

type Method string

const (
	MethodCreditCard   Method = "Credit Card"
	MethodDebitCard    Method = "Debit Card"
	MethodNetBanking   Method = "Net Banking"
	MethodRazorpay     Method = "Razorpay"
	MethodPaytm        Method = "Paytm"
	MethodUPI          Method = "UPI"
	MethodBHIMUPI      Method = "BHIM UPI"
	MethodGooglePay    Method = "Google Pay"
	MethodPhonePe      Method = "PhonePe"
	MethodBankTransfer Method = "Bank Transfer"
	MethodCash         Method = "Cash"
)

// MethodClass partitions methods by how money reaches the institution.
type MethodClass int

const (
	ClassUnknown MethodClass = iota
	ClassGateway
	ClassDirectTransfer
	ClassManual
)

func (c MethodClass) String() string {
	switch c {
	case ClassGateway:
		return "gateway"
	case ClassDirectTransfer:
		return "direct_transfer"
	case ClassManual:
		return "manual"
	default:
		return "unknown"
	}
}

var methodClasses = map[Method]MethodClass{
	MethodCreditCard:   ClassGateway,
	MethodDebitCard:    ClassGateway,
	MethodNetBanking:   ClassGateway,
	MethodRazorpay:     ClassGateway,
	MethodPaytm:        ClassGateway,
	MethodUPI:          ClassDirectTransfer,
	MethodBHIMUPI:      ClassDirectTransfer,
	MethodGooglePay:    ClassDirectTransfer,
	MethodPhonePe:      ClassDirectTransfer,
	MethodBankTransfer: ClassManual,
	MethodCash:         ClassManual,
}

var Methods = []Method{
	MethodCreditCard,
	MethodDebitCard,
	MethodNetBanking,
	MethodRazorpay,
	MethodPaytm,
	MethodUPI,
	MethodBHIMUPI,
	MethodGooglePay,
	MethodPhonePe,
	MethodBankTransfer,
	MethodCash,
}

func (m Method) Class() MethodClass {
	return methodClasses[m]
}

func (m Method) Valid() bool {
	return m.Class() != ClassUnknown
}

// InitialStatus is the status a new payment starts in. Manual channels have
// no callback and wait for someone to verify the transfer.
func (m Method) InitialStatus() Status {
	if m.Class() == ClassManual {
		return StatusVerificationPending
	}
	return StatusPending
}

// MaxAmount is the largest amount the payments.amount NUMERIC(12,2) column
// holds.
var MaxAmount = decimal.RequireFromString("9999999999.99")

type Payment struct {
	PaymentID        string          `json:"payment_id"`
	ReceiptNumber    string          `json:"receipt_number"`
	PayerID          string          `json:"payer_id"`
	PayerName        string          `json:"payer_name"`
	PayerEmail       string          `json:"payer_email,omitempty"`
	PayerPhone       string          `json:"payer_phone,omitempty"`
	FeeCategory      FeeCategory     `json:"fee_category"`
	Amount           decimal.Decimal `json:"amount"`
	Method           Method          `json:"payment_method"`
	Status           Status          `json:"status"`
	ExternalRef      string          `json:"transaction_id,omitempty"`
	Description      string          `json:"description,omitempty"`
	ReceiptDelivered bool            `json:"receipt_delivered"`
	CreatedAt        time.Time       `json:"created_at"`
	CompletedAt      *time.Time      `json:"completed_at,omitempty"`
	UpdatedAt        time.Time       `json:"updated_at"`
}

// PaidAt is the date printed on receipts.
func (p *Payment) PaidAt() time.Time {
	if p.CompletedAt != nil {
		return *p.CompletedAt
	}
	return p.CreatedAt
}

func (p *Payment) Clone() *Payment {
	c := *p
	if p.CompletedAt != nil {
		t := *p.CompletedAt
		c.CompletedAt = &t
	}
	return &c
}
