// Package core provides the capability-negotiation substrate: test results,
// the actor contract, the bus that dispatches actions to registered actors,
// and the action observer side channel.
//
// # Actors
//
// An actor answers two questions about an action. Test is a cheap,
// side-effect-free probe returning Pass (with metadata used for ranking) or
// Fail (with a human-readable reason). Run performs the work and is only
// invoked after a passing Test.
//
// # Wiring
//
// Actors are plain values. A composition root registers them explicitly:
//
//	bus, err := core.NewBus[HTTPAction, core.Meta, *http.Response](config.DefaultBusConfig("http"))
//	bus.Register(fetchActor)
//	bus.Register(cacheActor)
//
// Registration order is significant: mediators use it for tie-breaking and
// for the first-success strategy.
//
// # Dispatch
//
// TestAll issues every actor's Test concurrently and returns the replies in
// registration order. Publish partitions them into passing and failing sets.
// Selecting among the passing set is the job of a mediator; the bus never
// chooses.
//
// Run executes one actor and notifies every registered ActionObserver at the
// moment of invocation with a Future for the output. Observers see the
// attempt, not necessarily the completed result.
package core
