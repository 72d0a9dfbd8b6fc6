package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the registration module. All methods
// are nil-safe so tests can run without a registry.
type Metrics struct {
	// Committed registrations by mode (solo, create, join).
	RegistrationsCreated *prometheus.CounterVec

	// Rejected register calls by rejection kind.
	RegistrationsRejected *prometheus.CounterVec

	// Teams whose last seat was just filled.
	TeamsFilled prometheus.Counter

	// End-to-end register latency, validation through commit.
	RegisterLatency prometheus.Histogram
}

// New creates a new Metrics instance with all registration metrics registered.
func New() *Metrics {
	return &Metrics{
		RegistrationsCreated: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hackreg_registrations_created_total",
			Help: "Total committed registrations by mode",
		}, []string{"mode"}),

		RegistrationsRejected: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "hackreg_registrations_rejected_total",
			Help: "Total rejected register calls by rejection kind",
		}, []string{"kind"}),

		TeamsFilled: promauto.NewCounter(prometheus.CounterOpts{
			Name: "hackreg_teams_filled_total",
			Help: "Total teams that reached their declared capacity",
		}),

		RegisterLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "hackreg_register_duration_seconds",
			Help:    "Duration of register calls including the store commit",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

func (m *Metrics) IncCreated(mode string) {
	if m != nil {
		m.RegistrationsCreated.WithLabelValues(mode).Inc()
	}
}

func (m *Metrics) IncRejected(kind string) {
	if m != nil {
		m.RegistrationsRejected.WithLabelValues(kind).Inc()
	}
}

func (m *Metrics) IncTeamsFilled() {
	if m != nil {
		m.TeamsFilled.Inc()
	}
}

func (m *Metrics) ObserveRegisterLatency(d time.Duration) {
	if m != nil {
		m.RegisterLatency.Observe(d.Seconds())
	}
}
