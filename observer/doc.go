// Package observer provides action observers for buses: passive listeners
// that see every actor run regardless of which mediator invoked it.
//
// RunCounter counts runs of a chosen set of actors and can be reset by an
// invalidation source. Metrics records run outcomes and durations as
// Prometheus metrics.
//
// Observers are attached explicitly:
//
//	counter := observer.NewRunCounter[Request, Response]("http-fetch", "http-proxy")
//	bus.RegisterObserver(counter)
//	sub := counter.ListenTo(invalidator)
//	defer sub.Cancel()
package observer
