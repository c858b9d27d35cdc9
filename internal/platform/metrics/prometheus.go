package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Manager holds the custom Prometheus metrics for the backend.
type Manager struct {
	Registry             *prometheus.Registry
	BookingsCreatedTotal prometheus.Counter
	BookingDecisionTotal *prometheus.CounterVec
	PropertiesListed     prometheus.Counter
	EmailsEnqueuedTotal  prometheus.Counter
	HTTPErrorsTotal      *prometheus.CounterVec
	HTTPRequestLatency   *prometheus.HistogramVec
}

// NewManager initializes and registers the custom metrics on a private
// registry so tests can build managers without collisions.
func NewManager(namespace string) *Manager {
	registry := prometheus.NewRegistry()

	bookingsCreatedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "bookings_created_total",
		Help:      "Total number of booking requests created.",
	})
	bookingDecisionTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "booking_decisions_total",
		Help:      "Total number of booking decisions by outcome.",
	}, []string{"decision"})
	propertiesListed := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "properties_listed_total",
		Help:      "Total number of property listings created.",
	})
	emailsEnqueuedTotal := prometheus.NewCounter(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "emails_enqueued_total",
		Help:      "Total number of notification emails enqueued.",
	})
	httpErrorsTotal := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_errors_total",
		Help:      "Total number of HTTP error responses by route and status.",
	}, []string{"route", "status"})
	httpRequestLatency := prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_latency_seconds",
		Help:      "Latency of HTTP requests by route.",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})

	registry.MustRegister(
		bookingsCreatedTotal,
		bookingDecisionTotal,
		propertiesListed,
		emailsEnqueuedTotal,
		httpErrorsTotal,
		httpRequestLatency,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)

	return &Manager{
		Registry:             registry,
		BookingsCreatedTotal: bookingsCreatedTotal,
		BookingDecisionTotal: bookingDecisionTotal,
		PropertiesListed:     propertiesListed,
		EmailsEnqueuedTotal:  emailsEnqueuedTotal,
		HTTPErrorsTotal:      httpErrorsTotal,
		HTTPRequestLatency:   httpRequestLatency,
	}
}

// Handler exposes the registry for mounting at /metrics.
func (m *Manager) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}
