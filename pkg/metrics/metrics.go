package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

var (
	// Connections counts websocket connections currently in the active state.
	Connections = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_connections",
		Help: "Active websocket connections.",
	})

	// Rooms counts rooms with at least one member.
	Rooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "relay_rooms",
		Help: "Rooms with at least one member.",
	})

	// Events counts inbound events that passed validation, by type.
	Events = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "relay_events_total",
		Help: "Inbound events accepted by the router.",
	}, []string{"type"})

	// DroppedDeliveries counts per-recipient sends dropped under backpressure.
	DroppedDeliveries = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_dropped_deliveries_total",
		Help: "Broadcast deliveries dropped because a recipient queue was full or closed.",
	})

	// AuthFailures counts rejected connection handshakes.
	AuthFailures = promauto.NewCounter(prometheus.CounterOpts{
		Name: "relay_auth_failures_total",
		Help: "Websocket handshakes rejected for bad or missing tokens.",
	})
)

// Handler exposes Prometheus metrics at /metrics
func Handler() http.Handler {
	return promhttp.Handler()
}
