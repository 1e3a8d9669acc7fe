package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests.",
		},
		[]string{"method", "path", "status"},
	)

	HTTPRequestDurationSeconds = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "path"},
	)

	UsersProvisionedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pawsitter_users_provisioned_total",
			Help: "Users created on first verification.",
		},
	)

	SuppliersRegisteredTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pawsitter_suppliers_registered_total",
			Help: "Supplier registrations.",
		},
	)

	OrderTransitionsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "pawsitter_order_transitions_total",
			Help: "Order lifecycle transitions.",
		},
		[]string{"transition"},
	)

	AuthFailuresTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "pawsitter_auth_failures_total",
			Help: "Requests rejected by the authentication gate.",
		},
	)
)

var registerOnce sync.Once

// MustRegister registers every collector with the default registry. It is
// safe to call more than once.
func MustRegister() {
	registerOnce.Do(func() {
		prometheus.MustRegister(
			HTTPRequestsTotal,
			HTTPRequestDurationSeconds,
			UsersProvisionedTotal,
			SuppliersRegisteredTotal,
			OrderTransitionsTotal,
			AuthFailuresTotal,
		)
	})
}
