package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/fleetintel/connectivity-intel/internal/models"
)

// Metrics exposes fleet gauges on /metrics. Each server owns its own
// registry so parallel test servers do not collide on registration.
type Metrics struct {
	registry *prometheus.Registry

	vehiclesByTier *prometheus.GaugeVec
	towers         prometheus.Gauge
	regenerations  prometheus.Counter
}

// NewMetrics creates and registers the fleet metrics.
func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		vehiclesByTier: prometheus.NewGaugeVec(prometheus.GaugeOpts{
			Name: "fleet_vehicles",
			Help: "Number of vehicles in the current snapshot by health tier.",
		}, []string{"tier"}),
		towers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "fleet_cell_towers",
			Help: "Number of coverage towers in the current snapshot.",
		}),
		regenerations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "fleet_snapshot_regenerations_total",
			Help: "Number of snapshot regenerations since start.",
		}),
	}
	m.registry.MustRegister(m.vehiclesByTier, m.towers, m.regenerations)
	return m
}

// ObserveSnapshot refreshes the gauges from a newly installed snapshot.
func (m *Metrics) ObserveSnapshot(snapshot *models.FleetSnapshot) {
	counts := snapshot.TierCounts()
	for _, tier := range models.Tiers {
		m.vehiclesByTier.WithLabelValues(string(tier)).Set(float64(counts[tier]))
	}
	m.towers.Set(float64(len(snapshot.Towers)))
}

// ObserveRegeneration counts one snapshot swap.
func (m *Metrics) ObserveRegeneration() {
	m.regenerations.Inc()
}

// Handler returns the /metrics HTTP handler.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
