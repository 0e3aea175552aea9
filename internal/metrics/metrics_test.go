package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestNilMetricsIsNoop(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.IncrementConsentsGranted("marketing_email")
		m.ObserveErasure(0.2)
		m.ObserveGatewayRequest("orders.create", "ok", 0.1)
		m.IncrementWebhookEvents("processed")
	})
}

func TestCountersAreRegisteredPerRegistry(t *testing.T) {
	first := New(prometheus.NewRegistry())
	second := New(prometheus.NewRegistry())

	first.IncrementConsentsGranted("termos_uso")
	first.IncrementConsentsGranted("termos_uso")
	second.IncrementWebhookEvents("duplicate")

	assert.Equal(t, 2.0, testutil.ToFloat64(first.ConsentsGranted.WithLabelValues("termos_uso")))
	assert.Equal(t, 1.0, testutil.ToFloat64(second.WebhookEvents.WithLabelValues("duplicate")))
	assert.Equal(t, 0.0, testutil.ToFloat64(first.WebhookEvents.WithLabelValues("duplicate")))
}
