// Package metrics registers the Prometheus collectors for the service.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application.  All methods
// are nil-safe so wiring metrics stays optional in tests.
type Metrics struct {
	// Lifecycle transitions by action
	StatusTransitions *prometheus.CounterVec

	// Ledger operations by kind (add/remove)
	PaymentOps *prometheus.CounterVec

	// Broker publishes by event kind and outcome
	EventsPublished *prometheus.CounterVec
}

// New creates and registers all collectors on the default registry.
func New() *Metrics {
	return &Metrics{
		StatusTransitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "prison_records_status_transitions_total",
			Help: "Total detainee lifecycle transitions by action",
		}, []string{"action"}),

		PaymentOps: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "prison_records_payment_ops_total",
			Help: "Total fine ledger operations by kind",
		}, []string{"kind"}),

		EventsPublished: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "prison_records_events_published_total",
			Help: "Total broker events attempted by kind and outcome",
		}, []string{"kind", "outcome"}),
	}
}

// IncrementTransition records one applied lifecycle transition.
func (m *Metrics) IncrementTransition(action string) {
	if m != nil {
		m.StatusTransitions.WithLabelValues(action).Inc()
	}
}

// IncrementPaymentOp records one ledger operation.
func (m *Metrics) IncrementPaymentOp(kind string) {
	if m != nil {
		m.PaymentOps.WithLabelValues(kind).Inc()
	}
}

// IncrementEventPublished records one publish attempt.
func (m *Metrics) IncrementEventPublished(kind, outcome string) {
	if m != nil {
		m.EventsPublished.WithLabelValues(kind, outcome).Inc()
	}
}
