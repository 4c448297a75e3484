package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce       sync.Once
	requestsTotal      *prometheus.CounterVec
	requestLatency     *prometheus.HistogramVec
	errorsTotal        *prometheus.CounterVec
	activitiesRecorded prometheus.Counter
)

// RegisterMetrics initialises the Prometheus collectors used by the service.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studietid_requests_total",
			Help: "Total number of HTTP requests served.",
		}, []string{"method", "route", "status"})

		requestLatency = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "studietid_request_latency_seconds",
			Help:    "Latency distribution for HTTP requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "studietid_errors_total",
			Help: "Total number of error responses returned.",
		}, []string{"method", "route", "status"})

		activitiesRecorded = prometheus.NewCounter(prometheus.CounterOpts{
			Name: "studietid_activities_recorded_total",
			Help: "Total number of activities registered.",
		})

		prometheus.MustRegister(requestsTotal, requestLatency, errorsTotal, activitiesRecorded)
	})
}

// Requests exposes the request counter.
func Requests() *prometheus.CounterVec {
	RegisterMetrics()
	return requestsTotal
}

// Latency exposes the request latency histogram.
func Latency() *prometheus.HistogramVec {
	RegisterMetrics()
	return requestLatency
}

// Errors exposes the error response counter.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// ActivitiesRecorded exposes the registered-activity counter.
func ActivitiesRecorded() prometheus.Counter {
	RegisterMetrics()
	return activitiesRecorded
}
