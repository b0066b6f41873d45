package observer

import (
	"errors"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tailored-agentic-units/mediate/core"
)

const (
	OutcomeSuccess = "success"
	OutcomeError   = "error"
)

// Metrics records every run on a bus as Prometheus metrics:
//
//	mediate_actor_runs_total{bus,actor,outcome}
//	mediate_actor_run_duration_seconds{bus,actor}
//
// Outcome and duration are recorded when the run's future completes.
type Metrics[A core.Action, O any] struct {
	bus      string
	runs     *prometheus.CounterVec
	duration *prometheus.HistogramVec
}

// NewMetrics creates run metrics labelled with the bus name and registers
// the collectors on reg. Several buses may share one registerer; the
// collectors registered first are reused.
func NewMetrics[A core.Action, O any](bus string, reg prometheus.Registerer) (*Metrics[A, O], error) {
	runs := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "mediate_actor_runs_total",
			Help: "Total number of actor runs by outcome",
		},
		[]string{"bus", "actor", "outcome"},
	)
	duration := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "mediate_actor_run_duration_seconds",
			Help:    "Duration of actor runs",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"bus", "actor"},
	)

	var err error
	if runs, err = register(reg, runs); err != nil {
		return nil, err
	}
	if duration, err = register(reg, duration); err != nil {
		return nil, err
	}

	return &Metrics[A, O]{bus: bus, runs: runs, duration: duration}, nil
}

func register[C prometheus.Collector](reg prometheus.Registerer, collector C) (C, error) {
	if err := reg.Register(collector); err != nil {
		var already prometheus.AlreadyRegisteredError
		if errors.As(err, &already) {
			if existing, ok := already.ExistingCollector.(C); ok {
				return existing, nil
			}
		}
		return collector, err
	}
	return collector, nil
}

func (m *Metrics[A, O]) OnRun(actor core.Named, action A, output *core.Future[O]) {
	name := actor.Name()
	start := time.Now()

	output.OnComplete(func(_ O, err error) {
		outcome := OutcomeSuccess
		if err != nil {
			outcome = OutcomeError
		}
		m.runs.WithLabelValues(m.bus, name, outcome).Inc()
		m.duration.WithLabelValues(m.bus, name).Observe(time.Since(start).Seconds())
	})
}

// Runs returns the run counter for inspection.
func (m *Metrics[A, O]) Runs() *prometheus.CounterVec {
	return m.runs
}

// Duration returns the run duration histogram for inspection.
func (m *Metrics[A, O]) Duration() *prometheus.HistogramVec {
	return m.duration
}
