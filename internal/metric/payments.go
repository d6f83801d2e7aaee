package metric

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

var _ Payments = (*paymentMetrics)(nil)

type paymentMetrics struct {
	initiated     *prometheus.CounterVec
	transitions   *prometheus.CounterVec
	confirmations *prometheus.CounterVec
	gatewayOrders *prometheus.HistogramVec
}

func newPaymentMetrics(registry *promRegistry) *paymentMetrics {
	initiated := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payments_initiated_total",
			Help:      "Payments created, by method and settlement path",
		},
		[]string{"method", "path"},
	)

	transitions := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_transitions_total",
			Help:      "Applied status transitions",
		},
		[]string{"event", "from", "to"},
	)

	confirmations := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "payment_confirmations_total",
			Help:      "Confirmation requests by outcome",
		},
		[]string{"outcome"},
	)

	gatewayOrders := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: namespace,
			Name:      "gateway_order_duration_seconds",
			Help:      "Time spent creating gateway orders",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1.0, 2.5, 5.0, 10.0},
		},
		[]string{"gateway", "result"},
	)

	registry.registry.MustRegister(initiated, transitions, confirmations, gatewayOrders)

	return &paymentMetrics{
		initiated:     initiated,
		transitions:   transitions,
		confirmations: confirmations,
		gatewayOrders: gatewayOrders,
	}
}

func (m *paymentMetrics) Initiated(method, path string) {
	m.initiated.WithLabelValues(method, path).Inc()
}

func (m *paymentMetrics) Transition(event, from, to string) {
	m.transitions.WithLabelValues(event, from, to).Inc()
}

func (m *paymentMetrics) Confirmation(outcome string) {
	m.confirmations.WithLabelValues(outcome).Inc()
}

func (m *paymentMetrics) GatewayOrder(gateway string, ok bool, duration time.Duration) {
	result := "ok"
	if !ok {
		result = "degraded"
	}
	m.gatewayOrders.WithLabelValues(gateway, result).Observe(duration.Seconds())
}
