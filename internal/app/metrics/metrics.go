/*
Package metrics defines the Prometheus collectors exported by the messaging server.
*/
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "talentx"

// Delivery results recorded by RecordDelivery.
const (
	DeliveryPushed  = "pushed"
	DeliveryOffline = "offline"
	DeliveryDropped = "dropped"
)

// Message sources recorded by MessagesTotal.
const (
	SourceWebSocket = "websocket"
	SourceREST      = "rest"
)

// Metrics groups every collector. A nil *Metrics is valid and records nothing.
type Metrics struct {
	OpenConnections   prometheus.Gauge
	Registered        prometheus.Gauge
	MessagesTotal     *prometheus.CounterVec
	DeliveriesTotal   *prometheus.CounterVec
	AuthFailuresTotal prometheus.Counter
	DroppedEnvelopes  *prometheus.CounterVec
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		OpenConnections: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "open_connections",
			Help:      "Number of open WebSocket connections, authenticated or not.",
		}),
		Registered: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "registered_users",
			Help:      "Number of user ids currently routable through the connection registry.",
		}),
		MessagesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "messages",
			Name:      "created_total",
			Help:      "Messages persisted, by transport and whether they were support traffic.",
		}, []string{"source", "support"}),
		DeliveriesTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "deliveries_total",
			Help:      "Live push attempts by result.",
		}, []string{"result"}),
		AuthFailuresTotal: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "auth_failures_total",
			Help:      "Rejected auth envelopes.",
		}),
		DroppedEnvelopes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "realtime",
			Name:      "dropped_envelopes_total",
			Help:      "Inbound envelopes dropped before routing, by reason.",
		}, []string{"reason"}),
	}

	reg.MustRegister(
		m.OpenConnections,
		m.Registered,
		m.MessagesTotal,
		m.DeliveriesTotal,
		m.AuthFailuresTotal,
		m.DroppedEnvelopes,
	)

	return m
}

// Handler serves the collectors of gatherer in the Prometheus text format.
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

func (m *Metrics) ConnectionOpened() {
	if m != nil {
		m.OpenConnections.Inc()
	}
}

func (m *Metrics) ConnectionClosed() {
	if m != nil {
		m.OpenConnections.Dec()
	}
}

// SetRegistered records the current registry size.
func (m *Metrics) SetRegistered(n int) {
	if m != nil {
		m.Registered.Set(float64(n))
	}
}

func (m *Metrics) MessageCreated(source string, support bool) {
	if m == nil {
		return
	}
	label := "false"
	if support {
		label = "true"
	}
	m.MessagesTotal.WithLabelValues(source, label).Inc()
}

func (m *Metrics) RecordDelivery(result string) {
	if m != nil {
		m.DeliveriesTotal.WithLabelValues(result).Inc()
	}
}

func (m *Metrics) AuthFailed() {
	if m != nil {
		m.AuthFailuresTotal.Inc()
	}
}

func (m *Metrics) EnvelopeDropped(reason string) {
	if m != nil {
		m.DroppedEnvelopes.WithLabelValues(reason).Inc()
	}
}
