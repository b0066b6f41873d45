package mediator_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/tailored-agentic-units/mediate/actx"
	"github.com/tailored-agentic-units/mediate/config"
	"github.com/tailored-agentic-units/mediate/core"
)

const busFailMessage = "BUS FAIL MESSAGE"

// request is a bare action carrying only a context.
type request struct {
	ctx actx.Context
}

func (r request) Context() actx.Context { return r.ctx }

// fieldAction is a pipeline action whose output feeds the next stage.
type fieldAction struct {
	ctx   actx.Context
	field int
}

func (a fieldAction) Context() actx.Context { return a.ctx }

func (a fieldAction) WithContext(ctx actx.Context) fieldAction {
	a.ctx = ctx
	return a
}

// concatAction is a pipeline action whose field accumulates actor ids.
type concatAction struct {
	ctx   actx.Context
	field string
}

func (a concatAction) Context() actx.Context { return a.ctx }

func (a concatAction) WithContext(ctx actx.Context) concatAction {
	a.ctx = ctx
	return a
}

func newTestBus[A core.Action, T, O any](t *testing.T) *core.Bus[A, T, O] {
	t.Helper()
	cfg := config.DefaultBusConfig("bus")
	cfg.FailMessage = busFailMessage
	bus, err := core.NewBus[A, T, O](cfg)
	require.NoError(t, err)
	return bus
}

func mediatorConfig(strategy config.Strategy) config.MediatorConfig {
	cfg := config.DefaultMediatorConfig("mediator")
	cfg.Strategy = strategy
	return cfg
}

func failingActor[A core.Action, T, O any](name, reason string) core.Actor[A, T, O] {
	return core.NewActor[A, T, O](name,
		func(ctx context.Context, action A) core.TestResult[T] { return core.Fail[T](reason) },
		func(ctx context.Context, action A) (O, error) {
			var zero O
			return zero, errors.New("failing actor must never run")
		},
	)
}
