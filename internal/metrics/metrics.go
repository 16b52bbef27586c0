// Package metrics holds the prometheus collectors of the API
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcome label values
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

var (
	// HTTP
	RequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total HTTP requests",
		},
		[]string{"route", "method", "status"},
	)
	RequestLatency = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "http_requests_latency_seconds",
			Help:    "Latency of HTTP requests.",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route", "status"},
	)

	// Shop operations
	LoginsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_logins_total",
			Help: "Login attempts by result",
		},
		[]string{"result"},
	)
	CartEditsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_cart_edits_total",
			Help: "Cart edits by result",
		},
		[]string{"result"},
	)
	OrdersPlacedTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_orders_placed_total",
			Help: "Total orders placed",
		},
	)
	ImageUploadsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "shop_image_uploads_total",
			Help: "Profile image uploads by result",
		},
		[]string{"result"},
	)
	SessionsSweptTotal = prometheus.NewCounter(
		prometheus.CounterOpts{
			Name: "shop_sessions_swept_total",
			Help: "Expired sessions removed by the sweep endpoint",
		},
	)

	initOnce sync.Once
)

// Handler serves the /metrics endpoint
var Handler = promhttp.Handler

// Init registers all collectors with the default registry; safe to call more than once
func Init() {
	initOnce.Do(func() {
		prometheus.MustRegister(
			RequestsTotal,
			RequestLatency,
			LoginsTotal,
			CartEditsTotal,
			OrdersPlacedTotal,
			ImageUploadsTotal,
			SessionsSweptTotal,
		)
	})
}

// Result maps an error to the outcome label value
func Result(err error) string {
	if err != nil {
		return ResultFailure
	}
	return ResultSuccess
}
