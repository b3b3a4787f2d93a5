// Package metrics exposes storefront counters to Prometheus.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"storefront/pkg/notify"
)

// Metrics owns a private registry so tests can build several.
type Metrics struct {
	registry      *prometheus.Registry
	cartMutations *prometheus.CounterVec
	notifications *prometheus.CounterVec
	registrations prometheus.Counter
	logins        *prometheus.CounterVec
	streams       prometheus.Gauge
}

// New registers the storefront collectors plus the Go runtime collectors.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		cartMutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "cart_mutations_total",
			Help:      "Cart mutations by operation.",
		}, []string{"op"}),
		notifications: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "notifications_total",
			Help:      "Change notifications by kind.",
		}, []string{"kind"}),
		registrations: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "registrations_total",
			Help:      "Accounts registered.",
		}),
		logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "storefront",
			Name:      "logins_total",
			Help:      "Login attempts by result.",
		}, []string{"result"}),
		streams: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "storefront",
			Name:      "event_streams",
			Help:      "Open change notification streams.",
		}),
	}
	m.registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.cartMutations,
		m.notifications,
		m.registrations,
		m.logins,
		m.streams,
	)
	return m
}

// CartMutated counts a cart mutation.
func (m *Metrics) CartMutated(op string) {
	m.cartMutations.WithLabelValues(op).Inc()
}

// Registered counts a new account.
func (m *Metrics) Registered() {
	m.registrations.Inc()
}

// LoginAttempted counts a login by outcome.
func (m *Metrics) LoginAttempted(ok bool) {
	result := "rejected"
	if ok {
		result = "accepted"
	}
	m.logins.WithLabelValues(result).Inc()
}

// Notified counts a change notification.
func (m *Metrics) Notified(ev notify.Event) {
	m.notifications.WithLabelValues(ev.Kind.String()).Inc()
}

// StreamOpened tracks a new event stream.
func (m *Metrics) StreamOpened() { m.streams.Inc() }

// StreamClosed tracks a finished event stream.
func (m *Metrics) StreamClosed() { m.streams.Dec() }

// Registry returns the underlying registry.
func (m *Metrics) Registry() *prometheus.Registry { return m.registry }

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
