package core

import (
	"context"
	"sync"
)

// Future is the eventual output of an actor run, handed to action observers
// before the run completes.
type Future[O any] struct {
	done  chan struct{}
	once  sync.Once
	value O
	err   error
}

// ResolveFunc completes a Future. Only the first call has an effect.
type ResolveFunc[O any] func(value O, err error)

// NewFuture creates an unresolved Future and the function that resolves it.
func NewFuture[O any]() (*Future[O], ResolveFunc[O]) {
	f := &Future[O]{done: make(chan struct{})}
	return f, f.resolve
}

func (f *Future[O]) resolve(value O, err error) {
	f.once.Do(func() {
		f.value = value
		f.err = err
		close(f.done)
	})
}

// Done is closed once the run has completed.
func (f *Future[O]) Done() <-chan struct{} {
	return f.done
}

// Await blocks until the run completes or ctx is done.
func (f *Future[O]) Await(ctx context.Context) (O, error) {
	select {
	case <-f.done:
		return f.value, f.err
	case <-ctx.Done():
		var zero O
		return zero, ctx.Err()
	}
}

// OnComplete calls fn with the outcome once the run completes. fn runs on
// its own goroutine and never blocks the bus.
func (f *Future[O]) OnComplete(fn func(value O, err error)) {
	go func() {
		<-f.done
		fn(f.value, f.err)
	}()
}
