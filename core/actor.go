package core

import (
	"context"

	"github.com/tailored-agentic-units/mediate/actx"
)

// Action is any request payload dispatched through a bus. Concrete request
// kinds define their own fields; the only structural requirement is the
// context.
type Action interface {
	Context() actx.Context
}

// Named is the identity an actor exposes to observers.
type Named interface {
	Name() string
}

// Actor is a unit that can be asked whether it handles an action and then
// asked to handle it.
//
// Test must not perform the work or any externally observable side effect
// and must return quickly. Run is only called after a passing Test on an
// equivalent action and does not re-validate capability; its errors are
// returned to the mediator's caller unchanged.
type Actor[A Action, T, O any] interface {
	Name() string
	Test(ctx context.Context, action A) TestResult[T]
	Run(ctx context.Context, action A) (O, error)
}

// TestFunc is the function form of Actor.Test.
type TestFunc[A Action, T any] func(ctx context.Context, action A) TestResult[T]

// RunFunc is the function form of Actor.Run.
type RunFunc[A Action, O any] func(ctx context.Context, action A) (O, error)

type funcActor[A Action, T, O any] struct {
	name string
	test TestFunc[A, T]
	run  RunFunc[A, O]
}

// NewActor builds an actor from functions. A nil test passes with the zero
// metadata; a nil run returns the zero output.
func NewActor[A Action, T, O any](name string, test TestFunc[A, T], run RunFunc[A, O]) Actor[A, T, O] {
	return &funcActor[A, T, O]{name: name, test: test, run: run}
}

func (a *funcActor[A, T, O]) Name() string {
	return a.name
}

func (a *funcActor[A, T, O]) Test(ctx context.Context, action A) TestResult[T] {
	if a.test == nil {
		var zero T
		return Pass(zero)
	}
	return a.test(ctx, action)
}

func (a *funcActor[A, T, O]) Run(ctx context.Context, action A) (O, error) {
	if a.run == nil {
		var zero O
		return zero, nil
	}
	return a.run(ctx, action)
}

// Reply pairs an actor with the result of its test for one action.
type Reply[A Action, T, O any] struct {
	Actor  Actor[A, T, O]
	Result TestResult[T]
}
