// Package observability carries dispatch events out of the bus, the
// mediators and the invalidation broadcaster.
//
// A Bus reports "bus.*" events for every test round and run. Mediators
// report "mediator.*" events keyed by a mediation_id. The invalidation
// Broadcaster reports "invalidate.*" events, recovered listener panics
// among them. Observers are resolved by name from the registry, so
// configuration files refer to them as strings: "noop", "slog", or any
// name passed to RegisterObserver.
//
// These events are separate from action observers (core.ActionObserver),
// which see the actions and outputs themselves and belong to the bus
// contract. Levels follow OpenTelemetry SeverityNumbers.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// Level represents event severity aligned with OTel SeverityNumber ranges.
type Level int

const (
	LevelVerbose Level = 5  // OTel DEBUG (5-8), maps to slog.LevelDebug
	LevelInfo    Level = 9  // OTel INFO (9-12), maps to slog.LevelInfo
	LevelWarning Level = 13 // OTel WARN (13-16), maps to slog.LevelWarn
	LevelError   Level = 17 // OTel ERROR (17-20), maps to slog.LevelError
)

// String returns the OTel severity text for the level.
func (l Level) String() string {
	switch {
	case l <= 4:
		return "TRACE"
	case l <= 8:
		return "DEBUG"
	case l <= 12:
		return "INFO"
	case l <= 16:
		return "WARN"
	case l <= 20:
		return "ERROR"
	default:
		return "FATAL"
	}
}

// SlogLevel maps this level to the corresponding slog.Level.
func (l Level) SlogLevel() slog.Level {
	switch {
	case l <= 8:
		return slog.LevelDebug
	case l <= 12:
		return slog.LevelInfo
	case l <= 16:
		return slog.LevelWarn
	default:
		return slog.LevelError
	}
}

// EventType names an event as "<source>.<subject>.<phase>", for example
// "bus.run.complete" or "mediator.mediate.start".
type EventType string

// Event is one dispatch event. Source names the emitter ("bus.<name>",
// "mediator.<strategy>", "invalidate"). Data always carries the bus name for
// bus and mediator events, the actor name when a single actor is involved,
// and mediation_id for mediator events.
type Event struct {
	Type      EventType
	Level     Level
	Timestamp time.Time
	Source    string
	Data      map[string]any
}

// Observer receives dispatch events. OnEvent is called synchronously from
// whichever goroutine runs the test or the actor, so it must be safe for
// concurrent use and return quickly. It cannot veto or alter a dispatch.
type Observer interface {
	OnEvent(ctx context.Context, event Event)
}
