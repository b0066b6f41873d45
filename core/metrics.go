package core

import "sync/atomic"

// MetricsSnapshot is a point-in-time copy of a bus's dispatch counters.
type MetricsSnapshot struct {
	Actors          int64
	Observers       int64
	TestsDispatched int64
	RunsStarted     int64
	RunsFailed      int64
}

// Metrics counts dispatch activity on a bus.
type Metrics struct {
	actors          atomic.Int64
	observers       atomic.Int64
	testsDispatched atomic.Int64
	runsStarted     atomic.Int64
	runsFailed      atomic.Int64
}

func (m *Metrics) recordActor() { m.actors.Add(1) }
func (m *Metrics) recordObserver() { m.observers.Add(1) }
func (m *Metrics) recordTests(delta int) { m.testsDispatched.Add(int64(delta)) }
func (m *Metrics) recordRun() { m.runsStarted.Add(1) }
func (m *Metrics) recordRunFailure() { m.runsFailed.Add(1) }

// Snapshot returns the current counter values.
func (m *Metrics) Snapshot() MetricsSnapshot {
	return MetricsSnapshot{
		Actors:          m.actors.Load(),
		Observers:       m.observers.Load(),
		TestsDispatched: m.testsDispatched.Load(),
		RunsStarted:     m.runsStarted.Load(),
		RunsFailed:      m.runsFailed.Load(),
	}
}
