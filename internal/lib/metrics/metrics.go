// Package metrics содержит Prometheus коллекторы сервиса.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics — коллекторы переходов подключения, ошибок аутентификации и HTTP запросов.
type Metrics struct {
	transitions  *prometheus.CounterVec
	authFailures *prometheus.CounterVec
	requests     *prometheus.CounterVec
	duration     *prometheus.HistogramVec
}

// New создаёт коллекторы и регистрирует их в reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		transitions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hsass",
			Name:      "provisioning_transitions_total",
			Help:      "Committed provisioning state transitions.",
		}, []string{"transition"}),
		authFailures: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hsass",
			Name:      "auth_failures_total",
			Help:      "Rejected logins and session checks.",
		}, []string{"reason"}),
		requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "hsass",
			Name:      "http_requests_total",
			Help:      "HTTP requests by route pattern and status.",
		}, []string{"method", "route", "status"}),
		duration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "hsass",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route pattern.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"method", "route"}),
	}
	reg.MustRegister(m.transitions, m.authFailures, m.requests, m.duration)
	return m
}

// Transition увеличивает счётчик перехода name.
func (m *Metrics) Transition(name string) {
	if m == nil {
		return
	}
	m.transitions.WithLabelValues(name).Inc()
}

// AuthFailure увеличивает счётчик отказов аутентификации.
func (m *Metrics) AuthFailure(reason string) {
	if m == nil {
		return
	}
	m.authFailures.WithLabelValues(reason).Inc()
}

// ObserveRequest записывает завершённый HTTP запрос.
func (m *Metrics) ObserveRequest(method, route, status string, seconds float64) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(method, route, status).Inc()
	m.duration.WithLabelValues(method, route).Observe(seconds)
}
