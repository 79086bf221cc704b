package rate

import "github.com/prometheus/client_golang/prometheus"

// MetricsCollector is the interface for collecting rate limiter metrics
type MetricsCollector interface {
	RecordRequest(allowed bool)
	RecordFailOpen()
}

// NoOpMetrics is a no-op metrics collector implementation
type NoOpMetrics struct{}

func (NoOpMetrics) RecordRequest(allowed bool) {}
func (NoOpMetrics) RecordFailOpen()            {}

// PrometheusMetrics records limiter decisions as Prometheus counters
type PrometheusMetrics struct {
	decisions *prometheus.CounterVec
	failOpen  prometheus.Counter
}

// NewPrometheusMetrics registers the limiter counters on reg
func NewPrometheusMetrics(reg prometheus.Registerer) *PrometheusMetrics {
	m := &PrometheusMetrics{
		decisions: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: "catalog",
				Subsystem: "rate_limit",
				Name:      "decisions_total",
				Help:      "Rate limiter decisions by result.",
			},
			[]string{"result"}, // result=allowed|denied
		),
		failOpen: prometheus.NewCounter(
			prometheus.CounterOpts{
				Namespace: "catalog",
				Subsystem: "rate_limit",
				Name:      "fail_open_total",
				Help:      "Requests allowed because the limiter storage failed.",
			},
		),
	}
	reg.MustRegister(m.decisions, m.failOpen)
	return m
}

func (m *PrometheusMetrics) RecordRequest(allowed bool) {
	result := "denied"
	if allowed {
		result = "allowed"
	}
	m.decisions.WithLabelValues(result).Inc()
}

func (m *PrometheusMetrics) RecordFailOpen() {
	m.failOpen.Inc()
}
