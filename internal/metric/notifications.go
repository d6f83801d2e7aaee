package metric

import "github.com/prometheus/client_golang/prometheus"

var _ Notifications = (*notificationMetrics)(nil)

type notificationMetrics struct {
	attempts *prometheus.CounterVec
}

func newNotificationMetrics(registry *promRegistry) *notificationMetrics {
	attempts := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "notification_attempts_total",
			Help:      "Notification channel attempts by outcome",
		},
		[]string{"channel", "outcome"},
	)

	registry.registry.MustRegister(attempts)

	return &notificationMetrics{attempts: attempts}
}

func (m *notificationMetrics) Attempt(channel, outcome string) {
	m.attempts.WithLabelValues(channel, outcome).Inc()
}
