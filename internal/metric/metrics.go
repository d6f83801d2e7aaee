package metric

import (
	"net/http"
	"time"
)

type (
	Factory interface {
		HTTP() HTTP
		Payments() Payments
		Notifications() Notifications
		Handler() http.Handler
	}

	HTTP interface {
		Request(method, path string, status int, duration time.Duration)
		SlowRequest(method, path string, status int, duration time.Duration)
	}

	Payments interface {
		Initiated(method, path string)
		Transition(event, from, to string)
		Confirmation(outcome string)
		GatewayOrder(gateway string, ok bool, duration time.Duration)
	}

	Notifications interface {
		Attempt(channel, outcome string)
	}
)
