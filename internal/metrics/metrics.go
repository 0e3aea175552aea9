package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for LGPD and payment operations.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	ConsentsGranted        *prometheus.CounterVec
	ConsentsRevoked        *prometheus.CounterVec
	ProcessingLogFailures  *prometheus.CounterVec
	DataRequestTransitions *prometheus.CounterVec
	ErasuresCompleted      prometheus.Counter
	ErasureLatency         prometheus.Histogram

	// Payment gateway
	GatewayRequests *prometheus.CounterVec
	GatewayLatency  *prometheus.HistogramVec
	WebhookEvents   *prometheus.CounterVec
	WalletMovements *prometheus.CounterVec
}

// New registers the collectors on reg and returns them
func New(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		ConsentsGranted: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aquiresolve_consents_granted_total",
			Help: "Total number of consents granted, labeled by consent type",
		}, []string{"consent_type"}),
		ConsentsRevoked: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aquiresolve_consents_revoked_total",
			Help: "Total number of consents revoked, labeled by consent type",
		}, []string{"consent_type"}),
		ProcessingLogFailures: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aquiresolve_processing_log_failures_total",
			Help: "Processing log writes that failed and were skipped, labeled by activity",
		}, []string{"activity"}),
		DataRequestTransitions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aquiresolve_data_request_transitions_total",
			Help: "Data-subject request status changes, labeled by target status",
		}, []string{"status"}),
		ErasuresCompleted: factory.NewCounter(prometheus.CounterOpts{
			Name: "aquiresolve_erasures_completed_total",
			Help: "Total number of completed right-to-erasure workflows",
		}),
		ErasureLatency: factory.NewHistogram(prometheus.HistogramOpts{
			Name:    "aquiresolve_erasure_latency_seconds",
			Help:    "Latency of the right-to-erasure transaction in seconds",
			Buckets: prometheus.DefBuckets,
		}),

		GatewayRequests: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aquiresolve_pagarme_requests_total",
			Help: "Requests sent to the payment gateway, labeled by operation and outcome",
		}, []string{"operation", "outcome"}),
		GatewayLatency: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "aquiresolve_pagarme_request_latency_seconds",
			Help:    "Latency of payment gateway requests in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
		}, []string{"operation"}),
		WebhookEvents: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aquiresolve_pagarme_webhook_events_total",
			Help: "Webhook deliveries, labeled by sync status",
		}, []string{"status"}),
		WalletMovements: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "aquiresolve_provider_wallet_movements_total",
			Help: "Provider wallet credits and debits, labeled by direction and outcome",
		}, []string{"direction", "outcome"}),
	}
}

func (m *Metrics) IncrementConsentsGranted(consentType string) {
	if m == nil {
		return
	}
	m.ConsentsGranted.WithLabelValues(consentType).Inc()
}

func (m *Metrics) IncrementConsentsRevoked(consentType string) {
	if m == nil {
		return
	}
	m.ConsentsRevoked.WithLabelValues(consentType).Inc()
}

func (m *Metrics) IncrementProcessingLogFailures(activity string) {
	if m == nil {
		return
	}
	m.ProcessingLogFailures.WithLabelValues(activity).Inc()
}

func (m *Metrics) IncrementDataRequestTransitions(status string) {
	if m == nil {
		return
	}
	m.DataRequestTransitions.WithLabelValues(status).Inc()
}

// ObserveErasure records one completed erasure and its duration
func (m *Metrics) ObserveErasure(seconds float64) {
	if m == nil {
		return
	}
	m.ErasuresCompleted.Inc()
	m.ErasureLatency.Observe(seconds)
}

// ObserveGatewayRequest records one gateway call
func (m *Metrics) ObserveGatewayRequest(operation, outcome string, seconds float64) {
	if m == nil {
		return
	}
	m.GatewayRequests.WithLabelValues(operation, outcome).Inc()
	m.GatewayLatency.WithLabelValues(operation).Observe(seconds)
}

func (m *Metrics) IncrementWebhookEvents(status string) {
	if m == nil {
		return
	}
	m.WebhookEvents.WithLabelValues(status).Inc()
}

func (m *Metrics) IncrementWalletMovements(direction, outcome string) {
	if m == nil {
		return
	}
	m.WalletMovements.WithLabelValues(direction, outcome).Inc()
}
