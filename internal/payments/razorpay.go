package payments

import (
	"bytes"
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"io"
	"math"
	"net/http"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

const currencyINR = "INR"

// maxOrderAmount keeps the paise conversion inside int64.
var maxOrderAmount = decimal.New(math.MaxInt64, -2).Truncate(0)

type RazorpayAdapter struct {
	KeyID      string
	KeySecret  string
	BaseURL    string
	httpClient *http.Client
}

func NewRazorpayAdapter(keyID, secret, baseURL string, timeout time.Duration) *RazorpayAdapter {
	return &RazorpayAdapter{
		KeyID:      keyID,
		KeySecret:  secret,
		BaseURL:    strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{Timeout: timeout},
	}
}

func (r *RazorpayAdapter) Name() string { return BrandRazorpay }

func (r *RazorpayAdapter) Configured() bool {
	return r.KeyID != "" && r.KeySecret != ""
}

// CreateOrder mints an order keyed by the receipt number, so retries for the
// same receipt are recognisable on the gateway side.
func (r *RazorpayAdapter) CreateOrder(ctx context.Context, amount decimal.Decimal, receiptID string) (*OrderHandle, error) {
	if !r.Configured() {
		return nil, nil
	}

	if !amount.IsPositive() || amount.GreaterThan(maxOrderAmount) {
		return nil, fmt.Errorf("razorpay order: amount %s out of range", amount.String())
	}
	paise := amount.Shift(2).Round(0).IntPart()

	payload := map[string]any{
		"amount":          paise,
		"currency":        currencyINR,
		"receipt":         receiptID,
		"payment_capture": 1,
	}
	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("razorpay order encode: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, r.BaseURL+"/v1/orders", bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("razorpay order request: %w", err)
	}
	httpReq.SetBasicAuth(r.KeyID, r.KeySecret)
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := r.httpClient.Do(httpReq)
	if err != nil {
		return nil, fmt.Errorf("razorpay order request: %w", err)
	}
	defer resp.Body.Close()

	raw, _ := io.ReadAll(io.LimitReader(resp.Body, 1<<20))

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		return nil, fmt.Errorf("razorpay order failed: http=%d body=%s", resp.StatusCode, string(raw))
	}

	var res struct {
		ID       string `json:"id"`
		Amount   int64  `json:"amount"`
		Currency string `json:"currency"`
		Receipt  string `json:"receipt"`
		Status   string `json:"status"`
	}
	if err := json.Unmarshal(raw, &res); err != nil {
		return nil, fmt.Errorf("razorpay order decode: %w body=%s", err, string(raw))
	}
	if res.ID == "" {
		return nil, fmt.Errorf("razorpay order decode: missing id body=%s", string(raw))
	}

	return &OrderHandle{
		Gateway:  BrandRazorpay,
		OrderID:  res.ID,
		Amount:   res.Amount,
		Currency: res.Currency,
		KeyID:    r.KeyID,
	}, nil
}

// VerifyCallback checks the checkout signature: hex HMAC-SHA256 of
// "order_id|payment_id" keyed with the key secret.
func (r *RazorpayAdapter) VerifyCallback(orderRef, paymentRef, signature string) bool {
	if !r.Configured() || orderRef == "" || paymentRef == "" || signature == "" {
		return false
	}

	mac := hmac.New(sha256.New, []byte(r.KeySecret))
	mac.Write([]byte(orderRef + "|" + paymentRef))
	expected := hex.EncodeToString(mac.Sum(nil))

	return hmac.Equal([]byte(expected), []byte(signature))
}
