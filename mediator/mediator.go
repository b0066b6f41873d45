package mediator

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/tailored-agentic-units/mediate/config"
	"github.com/tailored-agentic-units/mediate/core"
	"github.com/tailored-agentic-units/mediate/observability"
)

// Mediator is a strategy bound to a bus that produces one output per action.
type Mediator[A core.Action, O any] interface {
	Name() string
	Mediate(ctx context.Context, action A) (O, error)
}

// base carries what every strategy shares: its validated configuration and
// the observer mediation events go to.
type base struct {
	cfg      config.MediatorConfig
	busName  string
	observer observability.Observer
}

func newBase(cfg config.MediatorConfig, bus string) (base, error) {
	if err := cfg.Validate(); err != nil {
		return base{}, err
	}

	observer, err := observability.GetObserver(cfg.Observer)
	if err != nil {
		return base{}, fmt.Errorf("failed to resolve observer: %w", err)
	}

	return base{cfg: cfg, busName: bus, observer: observer}, nil
}

func requireStrategy(cfg config.MediatorConfig, allowed ...config.Strategy) error {
	for _, s := range allowed {
		if cfg.Strategy == s {
			return nil
		}
	}
	return fmt.Errorf("%w: %q", ErrUnsupportedStrategy, cfg.Strategy)
}

// Name returns the mediator name.
func (b base) Name() string {
	return b.cfg.Name
}

// Config returns the configuration the mediator was built from.
func (b base) Config() config.MediatorConfig {
	return b.cfg
}

// rejects applies the ignore-failures policy. Failures are reported when
// nothing passed, or when they are not ignored and at least one actor
// failed.
func (b base) rejects(passing, failing int) bool {
	if failing == 0 {
		return false
	}
	return passing == 0 || !b.cfg.IgnoreFailures
}

func (b base) start(ctx context.Context) string {
	id := uuid.New().String()
	b.emit(ctx, EventMediateStart, observability.LevelVerbose, map[string]any{
		"mediation_id": id,
	})
	return id
}

func (b base) selected(ctx context.Context, id string, actors ...string) {
	b.emit(ctx, EventSelect, observability.LevelVerbose, map[string]any{
		"mediation_id": id,
		"actors":       actors,
	})
}

func (b base) complete(ctx context.Context, id string, began time.Time, err error) {
	data := map[string]any{
		"mediation_id": id,
		"duration_ms":  time.Since(began).Milliseconds(),
		"error":        err != nil,
	}
	level := observability.LevelVerbose
	if err != nil {
		data["error_message"] = err.Error()
		level = observability.LevelWarning
	}
	b.emit(ctx, EventMediateComplete, level, data)
}

func (b base) emit(ctx context.Context, eventType observability.EventType, level observability.Level, data map[string]any) {
	data["mediator"] = b.cfg.Name
	data["strategy"] = string(b.cfg.Strategy)
	data["bus"] = b.busName
	b.observer.OnEvent(ctx, observability.Event{
		Type:      eventType,
		Level:     level,
		Timestamp: time.Now(),
		Source:    "mediator." + string(b.cfg.Strategy),
		Data:      data,
	})
}
