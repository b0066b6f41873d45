package observer

import (
	"context"
	"sync/atomic"

	"github.com/tailored-agentic-units/mediate/core"
	"github.com/tailored-agentic-units/mediate/invalidate"
)

// RunCounter counts runs of the actors in its interest set. Runs of other
// actors on the same bus are ignored.
type RunCounter[A core.Action, O any] struct {
	actors map[string]struct{}
	count  atomic.Int64
}

// NewRunCounter creates a counter interested in the named actors.
func NewRunCounter[A core.Action, O any](actors ...string) *RunCounter[A, O] {
	set := make(map[string]struct{}, len(actors))
	for _, name := range actors {
		set[name] = struct{}{}
	}
	return &RunCounter[A, O]{actors: set}
}

func (c *RunCounter[A, O]) OnRun(actor core.Named, action A, output *core.Future[O]) {
	if _, ok := c.actors[actor.Name()]; ok {
		c.count.Add(1)
	}
}

// Count returns the number of counted runs since creation or the last reset.
func (c *RunCounter[A, O]) Count() int64 {
	return c.count.Load()
}

// Reset sets the count back to zero.
func (c *RunCounter[A, O]) Reset() {
	c.count.Store(0)
}

// ListenTo resets the count on every invalidation from source until the
// returned subscription is cancelled.
func (c *RunCounter[A, O]) ListenTo(source invalidate.Source) *invalidate.Subscription {
	return source.Subscribe(func(ctx context.Context, event invalidate.Event) {
		c.Reset()
	})
}
