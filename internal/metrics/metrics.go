package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "subtracker"

// Metrics groups the collectors for notification sends and scheduler passes.
// A nil *Metrics is valid and records nothing.
type Metrics struct {
	sends        *prometheus.CounterVec
	sendDuration *prometheus.HistogramVec
	passes       *prometheus.CounterVec
	reminders    prometheus.Counter
	rollovers    prometheus.Counter
}

func New(registerer prometheus.Registerer) *Metrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	m := &Metrics{
		sends: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "notify",
				Name:      "send_total",
				Help:      "Notification send attempts by provider and result.",
			},
			[]string{"provider", "result"},
		),
		sendDuration: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "notify",
				Name:      "send_duration_seconds",
				Help:      "Duration of a single provider send.",
				Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"provider"},
		),
		passes: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Namespace: namespace,
				Name:      "pass_runs_total",
				Help:      "Scheduler pass executions by pass and result.",
			},
			[]string{"pass", "result"},
		),
		reminders: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reminders_sent_total",
			Help:      "Reminders delivered to at least one provider.",
		}),
		rollovers: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "rollovers_total",
			Help:      "Subscriptions whose next payment date was advanced.",
		}),
	}

	registerer.MustRegister(m.sends, m.sendDuration, m.passes, m.reminders, m.rollovers)
	return m
}

func (m *Metrics) ObserveSend(provider string, ok bool, took time.Duration) {
	if m == nil {
		return
	}
	m.sends.WithLabelValues(provider, result(ok)).Inc()
	m.sendDuration.WithLabelValues(provider).Observe(took.Seconds())
}

func (m *Metrics) ObservePass(pass string, err error) {
	if m == nil {
		return
	}
	m.passes.WithLabelValues(pass, result(err == nil)).Inc()
}

func (m *Metrics) AddReminders(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.reminders.Add(float64(n))
}

func (m *Metrics) AddRollovers(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.rollovers.Add(float64(n))
}

func result(ok bool) string {
	if ok {
		return "success"
	}
	return "failure"
}
