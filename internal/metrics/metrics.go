package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Outcomes recorded for booking operations
const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics holds the booking collectors
type Metrics struct {
	registry       *prometheus.Registry
	operations     *prometheus.CounterVec
	seatsAvailable *prometheus.GaugeVec
	weatherLookups *prometheus.CounterVec
}

// New registers the collectors on a fresh registry
func New() *Metrics {
	reg := prometheus.NewRegistry()
	factory := promauto.With(reg)

	return &Metrics{
		registry: reg,
		operations: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "booking_operations_total",
			Help: "Booking operations by operation and outcome",
		}, []string{"operation", "outcome", "kind"}),
		seatsAvailable: factory.NewGaugeVec(prometheus.GaugeOpts{
			Name: "booking_seats_available",
			Help: "Seats currently available per flight",
		}, []string{"flight"}),
		weatherLookups: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "weather_lookups_total",
			Help: "Weather lookups by source",
		}, []string{"source"}),
	}
}

// ObserveOperation counts one booking operation; kind is empty on success.
func (m *Metrics) ObserveOperation(operation, kind string) {
	outcome := OutcomeSuccess
	if kind != "" {
		outcome = OutcomeError
	}
	m.operations.WithLabelValues(operation, outcome, kind).Inc()
}

// SetSeats records the current seat count of a flight
func (m *Metrics) SetSeats(flightID string, seats int) {
	m.seatsAvailable.WithLabelValues(flightID).Set(float64(seats))
}

// ObserveWeatherLookup counts a weather lookup served from "cache" or "upstream"
func (m *Metrics) ObserveWeatherLookup(source string) {
	m.weatherLookups.WithLabelValues(source).Inc()
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
