package observability

import "context"

// NoOpObserver discards all events. It is registered as "noop" and is what
// an empty observer name in a bus or mediator configuration resolves to.
type NoOpObserver struct{}

func (NoOpObserver) OnEvent(context.Context, Event) {}
