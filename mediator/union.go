package mediator

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tailored-agentic-units/mediate/config"
	"github.com/tailored-agentic-units/mediate/core"
)

// Combiner folds the outputs of every passing actor into one. Outputs are
// in registration order.
type Combiner[O any] func(outputs []O) (O, error)

// Union runs every passing actor concurrently and combines their outputs.
type Union[A core.Action, T, O any] struct {
	base
	bus     *core.Bus[A, T, O]
	combine Combiner[O]
}

// NewUnion creates a union mediator bound to bus. The configuration must
// name the union strategy.
func NewUnion[A core.Action, T, O any](bus *core.Bus[A, T, O], cfg config.MediatorConfig, combine Combiner[O]) (*Union[A, T, O], error) {
	if err := requireStrategy(cfg, config.StrategyUnion); err != nil {
		return nil, err
	}
	if combine == nil {
		return nil, ErrNilCombiner
	}

	b, err := newBase(cfg, bus.Name())
	if err != nil {
		return nil, err
	}

	return &Union[A, T, O]{base: b, bus: bus, combine: combine}, nil
}

// Mediate runs all passing actors on action and combines their outputs.
// The first run error cancels the remaining runs' context and is returned
// unchanged.
func (m *Union[A, T, O]) Mediate(ctx context.Context, action A) (O, error) {
	began := time.Now()
	id := m.start(ctx)

	output, err := m.mediate(ctx, id, action)
	m.complete(ctx, id, began, err)
	return output, err
}

func (m *Union[A, T, O]) mediate(ctx context.Context, id string, action A) (O, error) {
	var zero O

	replies, err := m.bus.TestAll(ctx, action)
	if err != nil {
		return zero, err
	}
	if len(replies) == 0 {
		return zero, m.bus.NoActors()
	}

	passing, failing := core.Partition(replies)
	if m.rejects(len(passing), len(failing)) {
		return zero, m.bus.Failure(failing)
	}

	names := make([]string, len(passing))
	for i, r := range passing {
		names[i] = r.Actor.Name()
	}
	m.selected(ctx, id, names...)

	outputs := make([]O, len(passing))
	g, gctx := errgroup.WithContext(ctx)
	for i, r := range passing {
		g.Go(func() error {
			output, err := m.bus.Run(gctx, r.Actor, action)
			if err != nil {
				return err
			}
			outputs[i] = output
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return zero, err
	}

	return m.combine(outputs)
}
