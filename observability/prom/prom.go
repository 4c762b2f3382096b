// Package prom exports session events as Prometheus metrics.
package prom

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/quayside/nasgate/observability"
)

// NewRegistry returns a fresh Prometheus registry.
func NewRegistry() *prometheus.Registry {
	return prometheus.NewRegistry()
}

// Handler returns a Prometheus HTTP handler bound to the registry.
func Handler(reg *prometheus.Registry) http.Handler {
	return promhttp.HandlerFor(reg, promhttp.HandlerOpts{})
}

// SessionObserver exports session and request metrics to Prometheus.
type SessionObserver struct {
	connectedGauge prometheus.Gauge
	loginTotal     *prometheus.CounterVec
	requestTotal   *prometheus.CounterVec
	requestErrors  *prometheus.CounterVec
	requestLatency prometheus.Histogram
}

// NewSessionObserver registers session metrics on the registry.
func NewSessionObserver(reg *prometheus.Registry) *SessionObserver {
	o := &SessionObserver{
		connectedGauge: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "nasgate_session_connected",
			Help: "Whether a session is currently established (0 or 1).",
		}),
		loginTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nasgate_logins_total",
			Help: "Login attempts by result.",
		}, []string{"result"}),
		requestTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nasgate_requests_total",
			Help: "Dispatched requests by api and method.",
		}, []string{"api", "method"}),
		requestErrors: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "nasgate_request_errors_total",
			Help: "Failed requests by api and error class.",
		}, []string{"api", "result"}),
		requestLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "nasgate_request_seconds",
			Help:    "Latency of successful requests.",
			Buckets: prometheus.DefBuckets,
		}),
	}
	reg.MustRegister(
		o.connectedGauge,
		o.loginTotal,
		o.requestTotal,
		o.requestErrors,
		o.requestLatency,
	)
	return o
}

func (o *SessionObserver) Connected() {
	o.connectedGauge.Set(1)
}

func (o *SessionObserver) Disconnected() {
	o.connectedGauge.Set(0)
}

func (o *SessionObserver) Login(result observability.LoginResult) {
	o.loginTotal.WithLabelValues(string(result)).Inc()
}

func (o *SessionObserver) BeforeRequest(api, method string) {
	o.requestTotal.WithLabelValues(api, method).Inc()
}

func (o *SessionObserver) AfterResponse(api, method string, d time.Duration) {
	o.requestLatency.Observe(d.Seconds())
}

func (o *SessionObserver) Error(api string, result observability.RequestResult) {
	o.requestErrors.WithLabelValues(api, string(result)).Inc()
}
