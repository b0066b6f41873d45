package mediator

import (
	"context"
	"fmt"
	"time"

	"github.com/tailored-agentic-units/mediate/config"
	"github.com/tailored-agentic-units/mediate/core"
)

// Selector picks exactly one passing actor and runs it. It covers the
// number, first and race strategies.
type Selector[A core.Action, T, O any] struct {
	base
	bus *core.Bus[A, T, O]
}

// New creates a Selector bound to bus. The configuration is validated and
// must name the number, first or race strategy.
func New[A core.Action, T, O any](bus *core.Bus[A, T, O], cfg config.MediatorConfig) (*Selector[A, T, O], error) {
	if err := requireStrategy(cfg, config.StrategyNumber, config.StrategyFirst, config.StrategyRace); err != nil {
		return nil, err
	}

	b, err := newBase(cfg, bus.Name())
	if err != nil {
		return nil, err
	}

	return &Selector[A, T, O]{base: b, bus: bus}, nil
}

// Mediate selects an actor for action and returns its output.
func (m *Selector[A, T, O]) Mediate(ctx context.Context, action A) (O, error) {
	began := time.Now()
	id := m.start(ctx)

	actor, err := m.choose(ctx, action)
	if err != nil {
		m.complete(ctx, id, began, err)
		var zero O
		return zero, err
	}
	m.selected(ctx, id, actor.Name())

	output, err := m.bus.Run(ctx, actor, action)
	m.complete(ctx, id, began, err)
	return output, err
}

// Select runs the test phase and returns the actor Mediate would run,
// without running it.
func (m *Selector[A, T, O]) Select(ctx context.Context, action A) (core.Actor[A, T, O], error) {
	return m.choose(ctx, action)
}

func (m *Selector[A, T, O]) choose(ctx context.Context, action A) (core.Actor[A, T, O], error) {
	switch m.cfg.Strategy {
	case config.StrategyNumber:
		return m.number(ctx, action)
	case config.StrategyFirst:
		return m.first(ctx, action)
	case config.StrategyRace:
		return m.race(ctx, action)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedStrategy, m.cfg.Strategy)
	}
}

// number picks the passing actor with the smallest or largest numeric value
// in the configured TestMeta field. Comparison is strict, so the earliest
// registered actor wins a tie. Values that are missing, not numeric, or NaN
// are skipped; if no passing actor has a comparable value, the first
// passing actor is chosen.
func (m *Selector[A, T, O]) number(ctx context.Context, action A) (core.Actor[A, T, O], error) {
	replies, err := m.bus.TestAll(ctx, action)
	if err != nil {
		return nil, err
	}
	if len(replies) == 0 {
		return nil, m.bus.NoActors()
	}

	passing, failing := core.Partition(replies)
	if m.rejects(len(passing), len(failing)) {
		return nil, m.bus.Failure(failing)
	}

	best := -1
	var bestValue float64
	for i, r := range passing {
		raw, ok := core.LookupField(r.Result.Value(), m.cfg.Field)
		if !ok {
			continue
		}
		value, ok := core.Number(raw)
		if !ok {
			continue
		}
		if best < 0 || m.better(value, bestValue) {
			best, bestValue = i, value
		}
	}
	if best < 0 {
		best = 0
	}

	return passing[best].Actor, nil
}

func (m *Selector[A, T, O]) better(candidate, current float64) bool {
	if m.cfg.Type == config.NumberMax {
		return candidate > current
	}
	return candidate < current
}

// first picks the earliest registered passing actor. Failing actors are
// skipped; they are only reported when nothing passed.
func (m *Selector[A, T, O]) first(ctx context.Context, action A) (core.Actor[A, T, O], error) {
	passing, _, err := m.bus.Publish(ctx, action)
	if err != nil {
		return nil, err
	}
	return passing[0].Actor, nil
}

// race starts every test at once and picks the first actor whose test
// passes, by completion time. Tests still in flight are abandoned.
func (m *Selector[A, T, O]) race(ctx context.Context, action A) (core.Actor[A, T, O], error) {
	actors := m.bus.Actors()
	if len(actors) == 0 {
		return nil, m.bus.NoActors()
	}

	rctx, cancel := context.WithCancel(ctx)
	defer cancel()

	results := make(chan raceOutcome[T], len(actors))
	for i, actor := range actors {
		go func() {
			results <- raceOutcome[T]{index: i, result: m.bus.Test(rctx, actor, action)}
		}()
	}

	replies := make([]core.Reply[A, T, O], len(actors))
	for range actors {
		select {
		case o := <-results:
			if o.result.Passed() {
				return actors[o.index], nil
			}
			replies[o.index] = core.Reply[A, T, O]{Actor: actors[o.index], Result: o.result}
		case <-ctx.Done():
			return nil, fmt.Errorf("mediator %s: race cancelled: %w", m.cfg.Name, ctx.Err())
		}
	}

	return nil, m.bus.Failure(replies)
}

type raceOutcome[T any] struct {
	index  int
	result core.TestResult[T]
}
