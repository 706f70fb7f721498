package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics provides observability for the authorization engine.
type Metrics struct {
	// Routing outcomes by outcome and applied rule
	Outcomes *prometheus.CounterVec

	// State transitions by target state, replays counted separately
	Transitions *prometheus.CounterVec

	// Terminal event publish results
	EventPublishes *prometheus.CounterVec

	// Overall evaluate-and-transition latency
	EvaluateLatency prometheus.Histogram
}

// New creates a Metrics instance with all authorization metrics registered.
func New() *Metrics {
	return &Metrics{
		Outcomes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "autoriza_authorization_outcomes_total",
			Help: "Total routing outcomes by outcome and applied rule",
		}, []string{"outcome", "rule"}),

		Transitions: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "autoriza_authorization_transitions_total",
			Help: "Total case state transitions by target state",
		}, []string{"state", "replayed"}),

		EventPublishes: promauto.NewCounterVec(prometheus.CounterOpts{
			Name: "autoriza_authorization_event_publishes_total",
			Help: "Terminal decision event publish attempts by result",
		}, []string{"result"}), // result: "ok", "error"

		EvaluateLatency: promauto.NewHistogram(prometheus.HistogramOpts{
			Name:    "autoriza_authorization_evaluate_duration_seconds",
			Help:    "Duration of the full evaluate-and-transition operation",
			Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5},
		}),
	}
}

// IncrementOutcome records a routing outcome.
func (m *Metrics) IncrementOutcome(outcome, rule string) {
	if m != nil {
		m.Outcomes.WithLabelValues(outcome, rule).Inc()
	}
}

// IncrementTransition records a state transition.
func (m *Metrics) IncrementTransition(state string, replayed bool) {
	if m != nil {
		label := "false"
		if replayed {
			label = "true"
		}
		m.Transitions.WithLabelValues(state, label).Inc()
	}
}

// IncrementEventPublish records a terminal event publish attempt.
func (m *Metrics) IncrementEventPublish(err error) {
	if m != nil {
		result := "ok"
		if err != nil {
			result = "error"
		}
		m.EventPublishes.WithLabelValues(result).Inc()
	}
}

// ObserveEvaluateLatency records the total operation duration.
func (m *Metrics) ObserveEvaluateLatency(d time.Duration) {
	if m != nil {
		m.EvaluateLatency.Observe(d.Seconds())
	}
}
