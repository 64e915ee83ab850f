package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Auth event names.
const (
	EventRegister = "register"
	EventLogin    = "login"
	EventLogout   = "logout"
	EventRefresh  = "refresh"
	EventCleanup  = "cleanup"
)

// Outcome labels.
const (
	OutcomeSuccess  = "success"
	OutcomeRejected = "rejected"
	OutcomeError    = "error"
)

// Metrics holds the collectors exported on /metrics. Each instance owns its
// registry so tests can build one without touching the global default.
type Metrics struct {
	registry    *prometheus.Registry
	authEvents  *prometheus.CounterVec
	tokensSwept prometheus.Counter
}

func New() *Metrics {
	reg := prometheus.NewRegistry()

	m := &Metrics{
		registry: reg,
		authEvents: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "quill",
			Name:      "auth_events_total",
			Help:      "Session operations by event and outcome.",
		}, []string{"event", "outcome"}),
		tokensSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "quill",
			Name:      "refresh_tokens_swept_total",
			Help:      "Expired refresh tokens removed by the cleanup job.",
		}),
	}

	reg.MustRegister(
		m.authEvents,
		m.tokensSwept,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// AuthEvent counts one session operation. A nil receiver is a no-op.
func (m *Metrics) AuthEvent(event, outcome string) {
	if m == nil {
		return
	}
	m.authEvents.WithLabelValues(event, outcome).Inc()
}

func (m *Metrics) TokensSwept(n int64) {
	if m == nil || n <= 0 {
		return
	}
	m.tokensSwept.Add(float64(n))
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
