package dune

import "github.com/prometheus/client_golang/prometheus"

// Metrics bundles the phase-loop instrumentation a running engine exposes.
// Callers register it against their own prometheus.Registerer; the zero
// value is unusable, construct with NewMetrics.
type Metrics struct {
	StepsPerPhase    *prometheus.HistogramVec
	RequestsDispatched *prometheus.CounterVec
	StepCapAborts    *prometheus.CounterVec
	InvariantViolations prometheus.Counter
}

// NewMetrics builds and registers a fresh Metrics bundle.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		StepsPerPhase: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "dune_engine_phase_steps",
			Help:    "Number of processStep calls consumed per phase.",
			Buckets: prometheus.LinearBuckets(1, 2, 10),
		}, []string{"phase"}),
		RequestsDispatched: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dune_engine_agent_requests_total",
			Help: "Agent requests dispatched, by phase and request type.",
		}, []string{"phase", "request_type"}),
		StepCapAborts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "dune_engine_step_cap_aborts_total",
			Help: "Phases aborted for exceeding the step cap, by phase.",
		}, []string{"phase"}),
		InvariantViolations: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "dune_engine_invariant_violations_total",
			Help: "Fatal invariant violations detected.",
		}),
	}
	reg.MustRegister(m.StepsPerPhase, m.RequestsDispatched, m.StepCapAborts, m.InvariantViolations)
	return m
}

// Instrument wraps a Manager's RunPhase loop with metric collection by
// wrapping its listener; call before the first RunPhase/Run invocation.
func (m *Metrics) Instrument(mgr *Manager) {
	steps := map[PhaseType]int{}
	mgr.AddEventListener(func(e Event) {
		switch e.Type {
		case EventPhaseStarted:
			steps[e.Phase] = 0
		case EventPhaseEnded:
			m.StepsPerPhase.WithLabelValues(string(e.Phase)).Observe(float64(steps[e.Phase]))
		case EventRequestDispatched:
			reqType, _ := e.Payload.(RequestType)
			m.RequestsDispatched.WithLabelValues(string(e.Phase), string(reqType)).Inc()
		case EventStepCapAborted:
			m.StepCapAborts.WithLabelValues(string(e.Phase)).Inc()
		case EventInvariantViolated:
			m.InvariantViolations.Inc()
		case EventStepProcessed:
			steps[e.Phase]++
		}
	})
}
