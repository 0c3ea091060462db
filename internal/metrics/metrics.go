package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Registry holds the application-specific Prometheus collectors.
	Registry = prometheus.NewRegistry()

	httpInFlight = prometheus.NewGauge(
		prometheus.GaugeOpts{
			Namespace: "yamdb",
			Subsystem: "http",
			Name:      "inflight_requests",
			Help:      "Current number of in-flight HTTP requests.",
		},
	)

	httpRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "yamdb",
			Subsystem: "http",
			Name:      "requests_total",
			Help:      "Total number of HTTP requests handled.",
		},
		[]string{"method", "route", "status"},
	)

	httpDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Namespace: "yamdb",
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "Duration of HTTP requests.",
			Buckets:   prometheus.ExponentialBuckets(0.005, 2, 10), // 5ms to ~5s
		},
		[]string{"method", "route"},
	)

	signups = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "yamdb",
			Subsystem: "auth",
			Name:      "signups_total",
			Help:      "Confirmation codes issued through sign-up.",
		},
	)

	tokenExchanges = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "yamdb",
			Subsystem: "auth",
			Name:      "token_exchanges_total",
			Help:      "Confirmation code exchanges by result.",
		},
		[]string{"result"},
	)

	emailFailures = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "yamdb",
			Subsystem: "mail",
			Name:      "send_failures_total",
			Help:      "Confirmation emails that could not be delivered.",
		},
	)

	reviewsCreated = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "yamdb",
			Subsystem: "reviews",
			Name:      "created_total",
			Help:      "Reviews created.",
		},
	)

	rateLimited = prometheus.NewCounter(
		prometheus.CounterOpts{
			Namespace: "yamdb",
			Subsystem: "http",
			Name:      "rate_limited_total",
			Help:      "Requests rejected by the rate limiter.",
		},
	)
)

func init() {
	Registry.MustRegister(
		httpInFlight,
		httpRequests,
		httpDuration,
		signups,
		tokenExchanges,
		emailFailures,
		reviewsCreated,
		rateLimited,
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
		prometheus.NewGoCollector(),
	)
}

// Handler returns an HTTP handler exposing the registered Prometheus metrics.
func Handler() http.Handler {
	return promhttp.HandlerFor(Registry, promhttp.HandlerOpts{})
}

// RequestStarted marks a request in flight and returns the function that
// records its outcome. route is the matched route pattern, not the raw path.
func RequestStarted() func(method, route string, status int) {
	start := time.Now()
	httpInFlight.Inc()
	return func(method, route string, status int) {
		httpInFlight.Dec()
		if route == "" {
			route = "unmatched"
		}
		httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
		httpDuration.WithLabelValues(method, route).Observe(time.Since(start).Seconds())
	}
}

func RecordSignup() {
	signups.Inc()
}

// RecordTokenExchange counts an exchange; result is "issued", "invalid" or "unknown_user".
func RecordTokenExchange(result string) {
	tokenExchanges.WithLabelValues(result).Inc()
}

func RecordEmailFailure() {
	emailFailures.Inc()
}

func RecordReviewCreated() {
	reviewsCreated.Inc()
}

func RecordRateLimited() {
	rateLimited.Inc()
}
