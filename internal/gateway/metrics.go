package gateway

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

const namespace = "wallet_client"

// requestsTotal counts outbound backend requests.
// Label:
//   - method: HTTP method of the request (e.g. "GET")
var requestsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "requests_total",
		Help:      "Total number of outbound backend requests.",
	},
	[]string{"method"},
)

// requestErrorsTotal counts failed backend requests.
// Label:
//   - kind: "timeout", "network", or "http"
var requestErrorsTotal = promauto.NewCounterVec(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "request_errors_total",
		Help:      "Total number of failed backend requests, by failure kind.",
	},
	[]string{"kind"},
)

// authFailuresTotal counts gateway-observed 401 responses that forced the
// session into the unauthenticated state.
var authFailuresTotal = promauto.NewCounter(
	prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "auth_failures_total",
		Help:      "Total number of 401 responses that forced a logout.",
	},
)
