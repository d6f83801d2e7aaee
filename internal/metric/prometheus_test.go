package metric

import (
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scrape(t *testing.T, f Factory) string {
	t.Helper()
	rec := httptest.NewRecorder()
	f.Handler().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	require.Equal(t, http.StatusOK, rec.Code)
	body, err := io.ReadAll(rec.Body)
	require.NoError(t, err)
	return string(body)
}

func TestFactoryExposesCollectors(t *testing.T) {
	f := NewFactory()

	f.HTTP().Request(http.MethodPost, "/v1/payments", http.StatusCreated, 20*time.Millisecond)
	f.HTTP().Request(http.MethodGet, "/v1/payments/{paymentID}", http.StatusNotFound, time.Millisecond)
	f.HTTP().SlowRequest(http.MethodPost, "/v1/payments/verify", http.StatusInternalServerError, time.Second)
	f.Payments().Initiated("UPI", "upi")
	f.Payments().Transition("complete", "Pending", "Completed")
	f.Payments().Confirmation("completed")
	f.Payments().GatewayOrder("razorpay", false, 10*time.Second)
	f.Notifications().Attempt("payer_email", "skipped")

	body := scrape(t, f)

	want := []string{
		`feepay_http_requests_total{method="POST",path="/v1/payments",status="2xx"} 1`,
		`feepay_http_requests_total{method="GET",path="/v1/payments/{paymentID}",status="4xx"} 1`,
		`feepay_http_slow_requests_total{method="POST",path="/v1/payments/verify",status="5xx"} 1`,
		`feepay_payments_initiated_total{method="UPI",path="upi"} 1`,
		`feepay_payment_transitions_total{event="complete",from="Pending",to="Completed"} 1`,
		`feepay_payment_confirmations_total{outcome="completed"} 1`,
		`feepay_gateway_order_duration_seconds_count{gateway="razorpay",result="degraded"} 1`,
		`feepay_notification_attempts_total{channel="payer_email",outcome="skipped"} 1`,
		"go_goroutines",
	}
	for _, s := range want {
		assert.Contains(t, body, s)
	}
}

func TestFactoriesAreIndependent(t *testing.T) {
	a, b := NewFactory(), NewFactory()
	a.Payments().Confirmation("failed")

	assert.Contains(t, scrape(t, a), `feepay_payment_confirmations_total{outcome="failed"} 1`)
	assert.NotContains(t, scrape(t, b), `outcome="failed"`)
}

func TestStatusClass(t *testing.T) {
	testCases := []struct {
		status int
		want   string
	}{
		{200, "2xx"}, {201, "2xx"}, {304, "3xx"}, {400, "4xx"}, {429, "4xx"}, {500, "5xx"}, {503, "5xx"},
	}
	for _, tc := range testCases {
		assert.Equal(t, tc.want, statusClass(tc.status), "status %d", tc.status)
	}
}
