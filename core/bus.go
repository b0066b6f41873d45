package core

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/tailored-agentic-units/mediate/config"
	"github.com/tailored-agentic-units/mediate/observability"
)

// Bus is the registry and raw dispatcher for one request kind.
//
// Registration is expected to finish during wiring before any dispatch
// begins; the lock only guarantees that a dispatch sees a consistent
// snapshot.
type Bus[A Action, T, O any] struct {
	name        string
	failMessage string

	mu        sync.RWMutex
	actors    []Actor[A, T, O]
	names     map[string]struct{}
	observers []ActionObserver[A, O]

	observer observability.Observer
	metrics  Metrics
}

// NewBus creates an empty bus from configuration. The configured observer
// name is resolved through the observability registry.
func NewBus[A Action, T, O any](cfg config.BusConfig) (*Bus[A, T, O], error) {
	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve observer: %w", err)
	}

	return &Bus[A, T, O]{
		name:        cfg.Name,
		failMessage: cfg.FailMessage,
		names:       make(map[string]struct{}),
		observer:    observer,
	}, nil
}

// Name returns the bus name.
func (b *Bus[A, T, O]) Name() string {
	return b.name
}

// Observer returns the observability observer the bus emits to.
func (b *Bus[A, T, O]) Observer() observability.Observer {
	return b.observer
}

// Metrics returns a snapshot of the dispatch counters.
func (b *Bus[A, T, O]) Metrics() MetricsSnapshot {
	return b.metrics.Snapshot()
}

// Register appends an actor. Names must be non-empty and unique within the
// bus. Registration order determines dispatch precedence.
func (b *Bus[A, T, O]) Register(actor Actor[A, T, O]) error {
	if actor == nil {
		return ErrNilActor
	}
	name := actor.Name()
	if name == "" {
		return ErrEmptyName
	}

	b.mu.Lock()
	if _, exists := b.names[name]; exists {
		b.mu.Unlock()
		return fmt.Errorf("%w: %s on bus %s", ErrAlreadyRegistered, name, b.name)
	}
	b.names[name] = struct{}{}
	b.actors = append(b.actors, actor)
	position := len(b.actors)
	b.mu.Unlock()

	b.metrics.recordActor()
	b.emit(context.Background(), EventActorRegister, observability.LevelVerbose, map[string]any{
		"actor":    name,
		"position": position,
	})

	return nil
}

// RegisterObserver adds an action observer that is notified of every
// subsequent run on this bus.
func (b *Bus[A, T, O]) RegisterObserver(observer ActionObserver[A, O]) {
	if observer == nil {
		return
	}

	b.mu.Lock()
	b.observers = append(b.observers, observer)
	b.mu.Unlock()

	b.metrics.recordObserver()
}

// Actors returns the registered actors in registration order.
func (b *Bus[A, T, O]) Actors() []Actor[A, T, O] {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return append([]Actor[A, T, O](nil), b.actors...)
}

// TestAll calls Test on every registered actor concurrently and waits for
// all of them. Replies are ordered by registration, not by completion.
//
// A Test that panics is reported as a Fail for that actor. If ctx is done
// before every test has returned, TestAll returns the context error.
func (b *Bus[A, T, O]) TestAll(ctx context.Context, action A) ([]Reply[A, T, O], error) {
	actors := b.Actors()
	replies := make([]Reply[A, T, O], len(actors))

	b.metrics.recordTests(len(actors))
	b.emit(ctx, EventTestStart, observability.LevelVerbose, map[string]any{
		"actors": len(actors),
	})

	g, gctx := errgroup.WithContext(ctx)
	for i, actor := range actors {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			replies[i] = Reply[A, T, O]{Actor: actor, Result: safeTest(gctx, actor, action)}
			return nil
		})
	}

	err := g.Wait()
	if err == nil {
		err = ctx.Err()
	}
	if err != nil {
		return nil, fmt.Errorf("bus %s: test phase cancelled: %w", b.name, err)
	}

	passed := 0
	for _, r := range replies {
		if r.Result.Passed() {
			passed++
		}
	}
	b.emit(ctx, EventTestComplete, observability.LevelVerbose, map[string]any{
		"actors": len(actors),
		"passed": passed,
		"failed": len(actors) - passed,
	})

	return replies, nil
}

// Test runs a single actor's test. A panic is reported as a Fail for that
// actor.
func (b *Bus[A, T, O]) Test(ctx context.Context, actor Actor[A, T, O], action A) TestResult[T] {
	b.metrics.recordTests(1)
	return safeTest(ctx, actor, action)
}

// Publish runs the test phase and partitions the replies. It fails with
// ErrNoActors when nothing is registered, and with a *FailureError when no
// actor passed. Choosing among the passing replies is left to the caller.
func (b *Bus[A, T, O]) Publish(ctx context.Context, action A) (passing, failing []Reply[A, T, O], err error) {
	replies, err := b.TestAll(ctx, action)
	if err != nil {
		return nil, nil, err
	}

	passing, failing = Partition(replies)
	if len(replies) == 0 {
		return nil, nil, b.NoActors()
	}
	if len(passing) == 0 {
		return nil, failing, b.Failure(failing)
	}
	return passing, failing, nil
}

// Run executes one actor. Every registered action observer is notified
// before the actor starts, with a future that resolves when it finishes.
// The actor's error is returned unchanged.
func (b *Bus[A, T, O]) Run(ctx context.Context, actor Actor[A, T, O], action A) (output O, err error) {
	b.mu.RLock()
	observers := append([]ActionObserver[A, O](nil), b.observers...)
	b.mu.RUnlock()

	future, resolve := NewFuture[O]()
	for _, obs := range observers {
		obs.OnRun(actor, action, future)
	}

	b.metrics.recordRun()
	b.emit(ctx, EventRunStart, observability.LevelVerbose, map[string]any{
		"actor": actor.Name(),
	})

	start := time.Now()
	defer func() {
		if r := recover(); r != nil {
			var zero O
			resolve(zero, fmt.Errorf("actor %s panicked: %v", actor.Name(), r))
			b.metrics.recordRunFailure()
			panic(r)
		}
	}()

	output, err = actor.Run(ctx, action)
	resolve(output, err)

	data := map[string]any{
		"actor":       actor.Name(),
		"duration_ms": time.Since(start).Milliseconds(),
		"error":       err != nil,
	}
	level := observability.LevelVerbose
	if err != nil {
		b.metrics.recordRunFailure()
		data["error_message"] = err.Error()
		level = observability.LevelWarning
	}
	b.emit(ctx, EventRunComplete, level, data)

	return output, err
}

// Failure builds the aggregate error for the given failing replies using the
// bus fail-message prefix.
func (b *Bus[A, T, O]) Failure(failing []Reply[A, T, O]) *FailureError {
	failures := make([]Failure, len(failing))
	for i, r := range failing {
		failures[i] = Failure{Actor: r.Actor.Name(), Reason: r.Result.Reason()}
	}
	return &FailureError{Bus: b.name, Prefix: b.failMessage, Failures: failures}
}

// NoActors returns ErrNoActors annotated with the bus name.
func (b *Bus[A, T, O]) NoActors() error {
	return fmt.Errorf("%w in the bus %s", ErrNoActors, b.name)
}

func (b *Bus[A, T, O]) emit(ctx context.Context, eventType observability.EventType, level observability.Level, data map[string]any) {
	data["bus"] = b.name
	b.observer.OnEvent(ctx, observability.Event{
		Type:      eventType,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "core.Bus",
		Data:      data,
	})
}

// Partition splits replies into passing and failing sets, preserving order.
func Partition[A Action, T, O any](replies []Reply[A, T, O]) (passing, failing []Reply[A, T, O]) {
	for _, r := range replies {
		if r.Result.Passed() {
			passing = append(passing, r)
		} else {
			failing = append(failing, r)
		}
	}
	return passing, failing
}

func safeTest[A Action, T, O any](ctx context.Context, actor Actor[A, T, O], action A) (result TestResult[T]) {
	defer func() {
		if r := recover(); r != nil {
			result = Failf[T]("actor %s test panicked: %v", actor.Name(), r)
		}
	}()
	return actor.Test(ctx, action)
}
