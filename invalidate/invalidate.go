// Package invalidate broadcasts cache invalidation signals to stateful
// observers. A listener is attached with Subscribe and stays attached until
// the returned Subscription is cancelled.
package invalidate

import (
	"context"
	"fmt"
	"runtime/debug"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/mediate/observability"
)

const (
	EventInvalidate    observability.EventType = "invalidate.publish"
	EventListenerPanic observability.EventType = "invalidate.listener.panic"
)

// Event is one invalidation signal. An empty URL invalidates everything.
type Event struct {
	URL string
}

// Listener receives invalidation events.
type Listener func(ctx context.Context, event Event)

// Source is anything listeners can subscribe to for invalidation events.
type Source interface {
	Subscribe(listener Listener) *Subscription
}

// Subscription is the handle returned by Subscribe.
type Subscription struct {
	id     string
	once   sync.Once
	cancel func()
}

// ID returns the subscription identifier.
func (s *Subscription) ID() string {
	return s.id
}

// Cancel detaches the listener. Calling Cancel more than once, or on a nil
// Subscription, has no effect.
func (s *Subscription) Cancel() {
	if s == nil || s.cancel == nil {
		return
	}
	s.once.Do(s.cancel)
}

type entry struct {
	id       string
	listener Listener
}

// Broadcaster is a synchronous invalidation Source. Listeners are called in
// subscription order on the goroutine that calls Invalidate.
type Broadcaster struct {
	mu       sync.RWMutex
	entries  []entry
	observer observability.Observer
}

// NewBroadcaster creates a Broadcaster that reports to observer. A nil
// observer discards events.
func NewBroadcaster(observer observability.Observer) *Broadcaster {
	if observer == nil {
		observer = observability.NoOpObserver{}
	}
	return &Broadcaster{observer: observer}
}

// Subscribe attaches listener until the returned Subscription is cancelled.
func (b *Broadcaster) Subscribe(listener Listener) *Subscription {
	id := uuid.New().String()

	b.mu.Lock()
	b.entries = append(b.entries, entry{id: id, listener: listener})
	b.mu.Unlock()

	return &Subscription{id: id, cancel: func() { b.remove(id) }}
}

// Len returns the number of attached listeners.
func (b *Broadcaster) Len() int {
	b.mu.RLock()
	defer b.mu.RUnlock()
	return len(b.entries)
}

// Invalidate delivers event to every attached listener. A listener that
// panics is recovered and reported; delivery continues with the rest.
func (b *Broadcaster) Invalidate(ctx context.Context, event Event) {
	b.mu.RLock()
	entries := append([]entry(nil), b.entries...)
	b.mu.RUnlock()

	b.observer.OnEvent(ctx, observability.Event{
		Type:      EventInvalidate,
		Level:     observability.LevelVerbose,
		Timestamp: time.Now(),
		Source:    "invalidate.Broadcaster",
		Data: map[string]any{
			"url":       event.URL,
			"listeners": len(entries),
		},
	})

	for _, e := range entries {
		b.safeCall(ctx, e, event)
	}
}

func (b *Broadcaster) safeCall(ctx context.Context, e entry, event Event) {
	defer func() {
		if r := recover(); r != nil {
			b.observer.OnEvent(ctx, observability.Event{
				Type:      EventListenerPanic,
				Level:     observability.LevelError,
				Timestamp: time.Now(),
				Source:    "invalidate.Broadcaster",
				Data: map[string]any{
					"subscription": e.id,
					"url":          event.URL,
					"panic":        fmt.Sprint(r),
					"stack":        string(debug.Stack()),
				},
			})
		}
	}()
	e.listener(ctx, event)
}

func (b *Broadcaster) remove(id string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	for i, e := range b.entries {
		if e.id == id {
			b.entries = append(b.entries[:i:i], b.entries[i+1:]...)
			return
		}
	}
}
