//go:build unit

package metrics_test

import (
	"testing"
	"time"

	"order-tracker/internal/infra/metrics"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetricsRecord(t *testing.T) {
	reg := prometheus.NewPedanticRegistry()
	m := metrics.New(reg)

	m.SubscribersChanged(3)
	m.EventPublished("updated", 3)
	m.EventPublished("updated", 2)
	m.SubscriberDropped()
	m.ObserveCarrierCall("shiprocket", "track", "ok", 120*time.Millisecond)
	m.TrackingServed("synthetic")
	m.RateFallback()
	m.ObserveHTTP("GET", "/api/tracking/:awb", 200, 15*time.Millisecond)

	count, err := testutil.GatherAndCount(reg,
		"order_stream_active_subscribers",
		"order_events_published_total",
		"order_event_deliveries_total",
		"order_stream_dropped_subscribers_total",
		"carrier_calls_total",
		"tracking_responses_total",
		"shipping_rate_fallbacks_total",
		"http_requests_total",
	)
	require.NoError(t, err)
	assert.Equal(t, 8, count)

	families, err := reg.Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() == "order_event_deliveries_total" {
			assert.Equal(t, 5.0, f.GetMetric()[0].GetCounter().GetValue())
		}
	}
}

func TestNilMetricsIsNoop(t *testing.T) {
	var m *metrics.Metrics
	assert.NotPanics(t, func() {
		m.SubscribersChanged(1)
		m.EventPublished("created", 1)
		m.SubscriberDropped()
		m.ObserveCarrierCall("delhivery", "quote", "error", time.Second)
		m.TrackingServed("live")
		m.RateFallback()
		m.ObserveHTTP("GET", "/health", 200, time.Millisecond)
	})
}
