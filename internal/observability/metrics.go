package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	requestsTotal      *prometheus.CounterVec
	latencySeconds     *prometheus.HistogramVec
	errorsTotal        *prometheus.CounterVec
	enrollmentsTotal   prometheus.Counter
	dashboardRefreshes *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors for the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "lms_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_errors_total",
			Help: "Total number of error responses returned by the API.",
		}, []string{"method", "route", "status"})

		enrollmentsTotal = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "lms_enrollments_created_total",
			Help: "Total number of enrollments created.",
		})

		dashboardRefreshes = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "lms_dashboard_refreshes_total",
			Help: "Total number of dashboard summaries computed, by role.",
		}, []string{"role"})

		prometheus.MustRegister(requestsTotal, latencySeconds, errorsTotal, enrollmentsTotal, dashboardRefreshes)
	})
}

// Requests exposes the counter for API requests.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the latency histogram for API requests.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return latencySeconds
}

// Errors exposes the counter for API error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// EnrollmentsCreated exposes the counter for created enrollments.
func EnrollmentsCreated() prometheus.Counter {
	RegisterMetrics()
	return enrollmentsTotal
}

// DashboardRefreshes exposes the counter for computed dashboard summaries.
func DashboardRefreshes() *prometheus.CounterVec {
	RegisterMetrics()
	return dashboardRefreshes
}
