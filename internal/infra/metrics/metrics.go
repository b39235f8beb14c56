// Package metrics holds the Prometheus collectors exported at /metrics.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
)

const namespace = "cloudburst"

// Metrics groups the collectors recorded by the store, the alert workflow and
// the watch endpoint.
type Metrics struct {
	registry *prometheus.Registry

	StoreOps         *prometheus.CounterVec
	StoreLatency     *prometheus.HistogramVec
	AlertsDispatched *prometheus.CounterVec
	SMSOutcomes      *prometheus.CounterVec
	WatchClients     prometheus.Gauge
}

// New registers every collector on a private registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		StoreOps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operations_total",
			Help:      "Record store operations by operation and result.",
		}, []string{"op", "result"}),
		StoreLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "store",
			Name:      "operation_duration_seconds",
			Help:      "Record store operation latency.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"op"}),
		AlertsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "alerts",
			Name:      "dispatched_total",
			Help:      "Manual alerts dispatched by severity.",
		}, []string{"severity"}),
		SMSOutcomes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "sms",
			Name:      "notifications_total",
			Help:      "SMS notification records by delivery status.",
		}, []string{"delivery_status"}),
		WatchClients: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "watch",
			Name:      "clients",
			Help:      "Open websocket watch connections.",
		}),
	}

	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.StoreOps,
		m.StoreLatency,
		m.AlertsDispatched,
		m.SMSOutcomes,
		m.WatchClients,
	)

	return m
}

// Registry exposes the underlying registry, mainly for tests.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

// Module provides the metrics FX module
//
//nolint:gochecknoglobals
var Module = fx.Options(
	fx.Provide(New),
)

// AlertDispatched counts one dispatched alert.
func (m *Metrics) AlertDispatched(severity string) {
	m.AlertsDispatched.WithLabelValues(severity).Inc()
}

// SMSRecorded counts one stored SMS notification.
func (m *Metrics) SMSRecorded(deliveryStatus string) {
	m.SMSOutcomes.WithLabelValues(deliveryStatus).Inc()
}
