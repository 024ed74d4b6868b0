package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "cyclelog"

// Metrics owns a private registry so tests and multiple app instances never
// collide on the global default registerer.
type Metrics struct {
	registry  *prometheus.Registry
	skipped   *prometheus.CounterVec
	mutations *prometheus.CounterVec
	reminders prometheus.Counter
}

func New() *Metrics {
	registry := prometheus.NewRegistry()
	m := &Metrics{
		registry: registry,
		skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "skipped_records_total",
			Help:      "Cycle records left out of analytics, by reason.",
		}, []string{"reason"}),
		mutations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "cycle_mutations_total",
			Help:      "Successful cycle writes, by operation.",
		}, []string{"op"}),
		reminders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Period reminders delivered to users.",
		}),
	}

	registry.MustRegister(
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
		m.skipped,
		m.mutations,
		m.reminders,
	)
	return m
}

func (m *Metrics) SkippedRecord(reason string) {
	m.skipped.WithLabelValues(reason).Inc()
}

func (m *Metrics) CycleMutation(op string) {
	m.mutations.WithLabelValues(op).Inc()
}

func (m *Metrics) ReminderSent() {
	m.reminders.Inc()
}

func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}
