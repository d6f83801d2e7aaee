package payments

const (
	BrandRazorpay = "razorpay"
	BrandPaytm    = "paytm"
)

// OrderHandle is what the client needs to open the gateway checkout.
type OrderHandle struct {
	Gateway  string `json:"gateway"`
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"` // minor units (paise)
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

type DecisionType string

const (
	DecisionGateway DecisionType = "gateway"
	DecisionUPI     DecisionType = "upi"
	DecisionManual  DecisionType = "manual"
)

// Decision tells the payer how to pay. It is returned once from initiation
// and never stored.
type Decision struct {
	Type                  DecisionType `json:"type"`
	Gateway               string       `json:"gateway,omitempty"`
	Order                 *OrderHandle `json:"order,omitempty"`
	UPIID                 string       `json:"upi_id,omitempty"`
	Instructions          string       `json:"instructions"`
	ShowBankDetails       bool         `json:"show_bank_details"`
	RequiresVerification  bool         `json:"requires_verification"`
	GatewayUnavailable    bool         `json:"gateway_unavailable,omitempty"`
	UnknownMethodFallback bool         `json:"unknown_method_fallback,omitempty"`
}
