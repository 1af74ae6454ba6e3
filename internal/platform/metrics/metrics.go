package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the compliance core. Transfer outcomes
// are the primary signal; denial reasons are labeled so dashboards can break
// down why transfers fail.
type Metrics struct {
	TransfersExecuted    prometheus.Counter
	TransfersDenied      *prometheus.CounterVec
	Attestations         prometheus.Counter
	AccountsFrozen       prometheus.Counter
	AuditRecords         prometheus.Counter
	NotificationsDropped *prometheus.CounterVec
	TransferDuration     prometheus.Histogram
}

// New creates a Metrics instance with all core metrics registered on the
// default registry.
func New() *Metrics {
	return NewWith(prometheus.DefaultRegisterer)
}

// NewWith registers the core metrics on a specific registerer. Tests pass a
// fresh registry so repeated construction doesn't collide.
func NewWith(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)
	return &Metrics{
		TransfersExecuted: factory.NewCounter(prometheus.CounterOpts{
			Name: "tokenguard_transfers_executed_total",
			Help: "Total number of transfers that passed evaluation and were executed",
		}),
		TransfersDenied: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tokenguard_transfers_denied_total",
			Help: "Total number of transfers denied by the evaluator, by reason",
		}, []string{"reason"}),
		Attestations: factory.NewCounter(prometheus.CounterOpts{
			Name: "tokenguard_identity_attestations_total",
			Help: "Total number of identity attestations recorded",
		}),
		AccountsFrozen: factory.NewCounter(prometheus.CounterOpts{
			Name: "tokenguard_accounts_frozen_total",
			Help: "Total number of freeze operations applied",
		}),
		AuditRecords: factory.NewCounter(prometheus.CounterOpts{
			Name: "tokenguard_audit_records_total",
			Help: "Total number of audit trail records written",
		}),
		NotificationsDropped: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "tokenguard_notifications_dropped_total",
			Help: "Total number of notifications dropped because a sink failed, by event type",
		}, []string{"type"}),
		TransferDuration: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "tokenguard_transfer_duration_seconds",
			Help:    "Duration of transfer operations end to end",
			Buckets: []float64{0.001, 0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1},
		}),
	}
}

// ObserveTransfer records the duration of a transfer operation.
// Call with time.Now() captured at the start of the operation.
func (m *Metrics) ObserveTransfer(start time.Time) {
	m.TransferDuration.Observe(time.Since(start).Seconds())
}

// IncDenied records a denied transfer with its reason label.
func (m *Metrics) IncDenied(reason string) {
	m.TransfersDenied.WithLabelValues(reason).Inc()
}

// IncDroppedNotification records a notification a sink refused. The write it
// describes has already committed; the drop is surfaced here instead of
// failing the call.
func (m *Metrics) IncDroppedNotification(eventType string) {
	m.NotificationsDropped.WithLabelValues(eventType).Inc()
}
