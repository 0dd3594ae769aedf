package observability

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

var (
	registerOnce           sync.Once
	httpRequestsTotal      *prometheus.CounterVec
	httpLatencySeconds     *prometheus.HistogramVec
	contactSubmissions     *prometheus.CounterVec
	notificationDeliveries *prometheus.CounterVec
	imageGenerations       *prometheus.CounterVec
)

// RegisterMetrics initialises the Prometheus collectors used by the API.
func RegisterMetrics() {
	registerOnce.Do(func() {
		httpRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stamina_http_requests_total",
			Help: "Total number of API requests served.",
		}, []string{"method", "route", "status"})

		httpLatencySeconds = prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "stamina_http_latency_seconds",
			Help:    "Latency distribution for API requests.",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1.0, 2.0, 5.0},
		}, []string{"method", "route"})

		contactSubmissions = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stamina_contact_submissions_total",
			Help: "Contact form submissions by outcome.",
		}, []string{"outcome"})

		notificationDeliveries = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stamina_contact_notifications_total",
			Help: "Contact notification emails by outcome.",
		}, []string{"outcome"})

		imageGenerations = prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "stamina_image_generations_total",
			Help: "Generated marketing images by outcome.",
		}, []string{"outcome"})

		prometheus.MustRegister(httpRequestsTotal, httpLatencySeconds, contactSubmissions, notificationDeliveries, imageGenerations)
	})
}

// HTTPRequests exposes the counter for API requests.
func HTTPRequests() *prometheus.CounterVec {
	RegisterMetrics()
	return httpRequestsTotal
}

// HTTPLatency exposes the latency histogram for API requests.
func HTTPLatency() *prometheus.HistogramVec {
	RegisterMetrics()
	return httpLatencySeconds
}

// ContactSubmissions counts contact submissions by outcome.
func ContactSubmissions() *prometheus.CounterVec {
	RegisterMetrics()
	return contactSubmissions
}

// NotificationDeliveries counts notification emails by outcome.
func NotificationDeliveries() *prometheus.CounterVec {
	RegisterMetrics()
	return notificationDeliveries
}

// ImageGenerations counts image generation attempts by outcome.
func ImageGenerations() *prometheus.CounterVec {
	RegisterMetrics()
	return imageGenerations
}
