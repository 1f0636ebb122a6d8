package observability

import (
	"sync"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	registerOnce          sync.Once
	requestsTotal         *prometheus.CounterVec
	latencySeconds        *prometheus.HistogramVec
	errorsTotal           *prometheus.CounterVec
	cascadeDeletionsTotal *prometheus.CounterVec
	trainingCyclesTotal   *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors.
func RegisterMetrics() {
	registerOnce.Do(func() {
		requestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assessadmin_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		latencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "assessadmin_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0},
		}, []string{"method", "route"})

		errorsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assessadmin_errors_total",
			Help: "Total number of error responses returned.",
		}, []string{"method", "route", "status"})

		cascadeDeletionsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assessadmin_cascade_deletions_total",
			Help: "Completed cascade deletions by root entity type.",
		}, []string{"root"})

		trainingCyclesTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "assessadmin_training_cycles_total",
			Help: "Training cycle transitions by event.",
		}, []string{"event"})

		prometheus.MustRegister(requestsTotal, latencySeconds, errorsTotal, cascadeDeletionsTotal, trainingCyclesTotal)
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

// Errors exposes the counter for error responses.
func Errors() *prometheus.CounterVec {
	RegisterMetrics()
	return errorsTotal
}

// CascadeDeletions exposes the counter for completed cascade deletions.
func CascadeDeletions() *prometheus.CounterVec {
	RegisterMetrics()
	return cascadeDeletionsTotal
}

// TrainingCycles exposes the counter for training cycle events.
func TrainingCycles() *prometheus.CounterVec {
	RegisterMetrics()
	return trainingCyclesTotal
}

// MetricsHandler exposes the Prometheus scrape endpoint via Fiber.
func MetricsHandler() fiber.Handler {
	RegisterMetrics()
	return adaptor.HTTPHandler(promhttp.Handler())
}
