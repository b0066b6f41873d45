package mediator

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"time"

	"github.com/tailored-agentic-units/mediate/actx"
	"github.com/tailored-agentic-units/mediate/config"
	"github.com/tailored-agentic-units/mediate/core"
)

// Contextual is an action that can be rebuilt with a different context.
// Pipeline actors take and return the same Contextual type so that each
// stage's output becomes the next stage's action.
type Contextual[A any] interface {
	core.Action
	WithContext(ctx actx.Context) A
}

// Pipeline runs every passing actor in sequence, each on the output of the
// one before.
type Pipeline[A Contextual[A], T any] struct {
	base
	bus *core.Bus[A, T, A]
}

// NewPipeline creates a pipeline mediator bound to bus. The configuration
// must name the pipeline strategy.
func NewPipeline[A Contextual[A], T any](bus *core.Bus[A, T, A], cfg config.MediatorConfig) (*Pipeline[A, T], error) {
	if err := requireStrategy(cfg, config.StrategyPipeline); err != nil {
		return nil, err
	}

	b, err := newBase(cfg, bus.Name())
	if err != nil {
		return nil, err
	}

	return &Pipeline[A, T]{base: b, bus: bus}, nil
}

// Mediate threads action through every passing actor and returns the last
// output.
//
// Before each stage the accumulated context is set on the action. After each
// stage a non-zero output context replaces the accumulated one, so the last
// writer wins. With nothing registered the action is returned unchanged.
// Stages never run concurrently.
func (m *Pipeline[A, T]) Mediate(ctx context.Context, action A) (A, error) {
	began := time.Now()
	id := m.start(ctx)

	output, err := m.mediate(ctx, id, action)
	m.complete(ctx, id, began, err)
	return output, err
}

func (m *Pipeline[A, T]) mediate(ctx context.Context, id string, action A) (A, error) {
	var zero A

	replies, err := m.bus.TestAll(ctx, action)
	if err != nil {
		return zero, err
	}

	passing, failing := core.Partition(replies)
	if m.rejects(len(passing), len(failing)) {
		return zero, m.bus.Failure(failing)
	}
	if len(passing) == 0 {
		return action, nil
	}

	if m.cfg.Order != "" && m.cfg.Order != config.OrderNone && len(passing) > 1 {
		if passing, err = m.sort(passing); err != nil {
			return zero, err
		}
	}

	names := make([]string, len(passing))
	for i, r := range passing {
		names[i] = r.Actor.Name()
	}
	m.selected(ctx, id, names...)

	current := action
	accumulated := action.Context()
	for i, r := range passing {
		if err := ctx.Err(); err != nil {
			return zero, fmt.Errorf("pipeline %s cancelled at stage %d: %w", m.cfg.Name, i, err)
		}

		output, err := m.bus.Run(ctx, r.Actor, current.WithContext(accumulated))
		if err != nil {
			return zero, err
		}

		if c := output.Context(); !c.IsZero() {
			accumulated = c
		}
		current = output
	}

	return current.WithContext(accumulated), nil
}

type stage[A core.Action, T any] struct {
	reply  core.Reply[A, T, A]
	weight float64
}

// sort orders the stages by their order value. The sort is stable, so equal
// weights keep registration order.
func (m *Pipeline[A, T]) sort(passing []core.Reply[A, T, A]) ([]core.Reply[A, T, A], error) {
	stages := make([]stage[A, T], len(passing))
	for i, r := range passing {
		var value any = r.Result.Value()
		if m.cfg.Field != "" {
			v, ok := core.LookupField(value, m.cfg.Field)
			if !ok {
				return nil, fmt.Errorf("%w: actor %s has no field %s", ErrNotOrderable, r.Actor.Name(), m.cfg.Field)
			}
			value = v
		}

		weight, ok := core.Number(value)
		if !ok {
			return nil, fmt.Errorf("%w: actor %s has order value %v", ErrNotOrderable, r.Actor.Name(), value)
		}
		stages[i] = stage[A, T]{reply: r, weight: weight}
	}

	slices.SortStableFunc(stages, func(a, b stage[A, T]) int {
		if m.cfg.Order == config.OrderDecreasing {
			return cmp.Compare(b.weight, a.weight)
		}
		return cmp.Compare(a.weight, b.weight)
	})

	sorted := make([]core.Reply[A, T, A], len(stages))
	for i, s := range stages {
		sorted[i] = s.reply
	}
	return sorted, nil
}
