package payments

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sign(secret, orderID, paymentID string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	mac.Write([]byte(orderID + "|" + paymentID))
	return hex.EncodeToString(mac.Sum(nil))
}

func TestRazorpayCreateOrder(t *testing.T) {
	var got map[string]any

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/v1/orders", r.URL.Path)

		user, pass, ok := r.BasicAuth()
		assert.True(t, ok)
		assert.Equal(t, "rzp_test_key", user)
		assert.Equal(t, "shh", pass)

		require.NoError(t, json.NewDecoder(r.Body).Decode(&got))

		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte(`{"id":"order_9A33XWu170gUtm","amount":120050,"currency":"INR","receipt":"RCP-1","status":"created"}`))
	}))
	defer srv.Close()

	rp := NewRazorpayAdapter("rzp_test_key", "shh", srv.URL, time.Second)
	order, err := rp.CreateOrder(context.Background(), decimal.RequireFromString("1200.50"), "RCP-1")
	require.NoError(t, err)
	require.NotNil(t, order)

	assert.Equal(t, "order_9A33XWu170gUtm", order.OrderID)
	assert.Equal(t, int64(120050), order.Amount)
	assert.Equal(t, "INR", order.Currency)
	assert.Equal(t, "rzp_test_key", order.KeyID)
	assert.Equal(t, BrandRazorpay, order.Gateway)

	assert.Equal(t, float64(120050), got["amount"])
	assert.Equal(t, "INR", got["currency"])
	assert.Equal(t, "RCP-1", got["receipt"])
	assert.Equal(t, float64(1), got["payment_capture"])
}

func TestRazorpayCreateOrderUnconfigured(t *testing.T) {
	rp := NewRazorpayAdapter("", "", "http://127.0.0.1:1", time.Second)

	order, err := rp.CreateOrder(context.Background(), decimal.NewFromInt(500), "RCP-1")
	assert.NoError(t, err)
	assert.Nil(t, order)
}

func TestRazorpayCreateOrderFailures(t *testing.T) {
	testCases := []struct {
		desc    string
		handler http.HandlerFunc
		timeout time.Duration
	}{
		{
			desc: "BadRequest",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":{"code":"BAD_REQUEST_ERROR"}}`))
			},
			timeout: time.Second,
		},
		{
			desc: "GarbageBody",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte(`<html>`))
			},
			timeout: time.Second,
		},
		{
			desc: "Slow",
			handler: func(w http.ResponseWriter, r *http.Request) {
				time.Sleep(200 * time.Millisecond)
				_, _ = w.Write([]byte(`{"id":"order_late"}`))
			},
			timeout: 20 * time.Millisecond,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.desc, func(t *testing.T) {
			srv := httptest.NewServer(tc.handler)
			defer srv.Close()

			rp := NewRazorpayAdapter("key", "secret", srv.URL, tc.timeout)
			order, err := rp.CreateOrder(context.Background(), decimal.NewFromInt(10), "RCP-1")
			assert.Error(t, err)
			assert.Nil(t, order)
		})
	}
}

func TestRazorpayCreateOrderAmountOutOfRange(t *testing.T) {
	var calls int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		_, _ = w.Write([]byte(`{"id":"order_T1"}`))
	}))
	defer srv.Close()

	rp := NewRazorpayAdapter("key", "secret", srv.URL, time.Second)

	for _, amount := range []string{"1e20", "0", "-1"} {
		order, err := rp.CreateOrder(context.Background(), decimal.RequireFromString(amount), "RCP-1")
		assert.Error(t, err, amount)
		assert.Nil(t, order, amount)
	}
	assert.Zero(t, calls)
}

func TestRazorpayVerifyCallback(t *testing.T) {
	rp := NewRazorpayAdapter("key", "secret", "http://unused", time.Second)
	valid := sign("secret", "order_1", "pay_1")

	assert.True(t, rp.VerifyCallback("order_1", "pay_1", valid))

	assert.False(t, rp.VerifyCallback("order_1", "pay_2", valid))
	assert.False(t, rp.VerifyCallback("order_2", "pay_1", valid))
	assert.False(t, rp.VerifyCallback("order_1", "pay_1", sign("other", "order_1", "pay_1")))
	assert.False(t, rp.VerifyCallback("order_1", "pay_1", ""))
	assert.False(t, rp.VerifyCallback("order_1", "pay_1", "not-hex"))

	unconfigured := NewRazorpayAdapter("", "", "http://unused", time.Second)
	assert.False(t, unconfigured.VerifyCallback("order_1", "pay_1", valid))
}

func TestRazorpayVerifyCallbackRejectsEveryBitFlip(t *testing.T) {
	rp := NewRazorpayAdapter("key", "secret", "http://unused", time.Second)
	valid := sign("secret", "order_1", "pay_1")

	for i := 0; i < len(valid); i++ {
		for bit := 0; bit < 8; bit++ {
			mutated := []byte(valid)
			mutated[i] ^= 1 << bit
			require.False(t, rp.VerifyCallback("order_1", "pay_1", string(mutated)), "byte %d bit %d", i, bit)
		}
	}

	digest, err := hex.DecodeString(valid)
	require.NoError(t, err)
	for i := range digest {
		for bit := 0; bit < 8; bit++ {
			mutated := append([]byte(nil), digest...)
			mutated[i] ^= 1 << bit
			require.False(t, rp.VerifyCallback("order_1", "pay_1", hex.EncodeToString(mutated)))
		}
	}
}
