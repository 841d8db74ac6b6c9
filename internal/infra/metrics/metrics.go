package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics groups the service's Prometheus collectors. A nil *Metrics is
// valid and records nothing.
type Metrics struct {
	activeSubscribers  prometheus.Gauge
	eventsPublished    *prometheus.CounterVec
	deliveries         *prometheus.CounterVec
	droppedSubscribers prometheus.Counter
	carrierCalls       *prometheus.CounterVec
	carrierDuration    *prometheus.HistogramVec
	trackingResponses  *prometheus.CounterVec
	rateFallbacks      prometheus.Counter
	httpRequests       *prometheus.CounterVec
	httpDuration       *prometheus.HistogramVec
}

func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		activeSubscribers: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "order_stream_active_subscribers",
			Help: "Number of open push stream subscriptions",
		}),
		eventsPublished: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_events_published_total",
			Help: "Total number of events published to the broadcast hub",
		}, []string{"event"}),
		deliveries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "order_event_deliveries_total",
			Help: "Total number of successful per-subscriber deliveries",
		}, []string{"event"}),
		droppedSubscribers: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "order_stream_dropped_subscribers_total",
			Help: "Total number of subscribers dropped after a failed delivery",
		}),
		carrierCalls: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "carrier_calls_total",
			Help: "Total number of carrier API calls",
		}, []string{"carrier", "operation", "outcome"}),
		carrierDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "carrier_call_duration_seconds",
			Help:    "Duration of carrier API calls",
			Buckets: prometheus.DefBuckets,
		}, []string{"carrier", "operation"}),
		trackingResponses: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "tracking_responses_total",
			Help: "Tracking responses served by data source",
		}, []string{"source"}),
		rateFallbacks: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "shipping_rate_fallbacks_total",
			Help: "Rate queries answered with the flat fee because no carrier responded",
		}),
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "http_requests_total",
			Help: "Total number of HTTP requests",
		}, []string{"method", "route", "status"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "http_request_duration_seconds",
			Help:    "Duration of HTTP requests",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(
		m.activeSubscribers,
		m.eventsPublished,
		m.deliveries,
		m.droppedSubscribers,
		m.carrierCalls,
		m.carrierDuration,
		m.trackingResponses,
		m.rateFallbacks,
		m.httpRequests,
		m.httpDuration,
	)
	return m
}

func (m *Metrics) SubscribersChanged(n int) {
	if m == nil {
		return
	}
	m.activeSubscribers.Set(float64(n))
}

func (m *Metrics) EventPublished(event string, delivered int) {
	if m == nil {
		return
	}
	m.eventsPublished.WithLabelValues(event).Inc()
	m.deliveries.WithLabelValues(event).Add(float64(delivered))
}

func (m *Metrics) SubscriberDropped() {
	if m == nil {
		return
	}
	m.droppedSubscribers.Inc()
}

func (m *Metrics) ObserveCarrierCall(carrier, operation, outcome string, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.carrierCalls.WithLabelValues(carrier, operation, outcome).Inc()
	m.carrierDuration.WithLabelValues(carrier, operation).Observe(elapsed.Seconds())
}

func (m *Metrics) TrackingServed(source string) {
	if m == nil {
		return
	}
	m.trackingResponses.WithLabelValues(source).Inc()
}

func (m *Metrics) RateFallback() {
	if m == nil {
		return
	}
	m.rateFallbacks.Inc()
}

func (m *Metrics) ObserveHTTP(method, route string, status int, elapsed time.Duration) {
	if m == nil {
		return
	}
	m.httpRequests.WithLabelValues(method, route, strconv.Itoa(status)).Inc()
	m.httpDuration.WithLabelValues(method, route).Observe(elapsed.Seconds())
}
