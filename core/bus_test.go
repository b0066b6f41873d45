package core_test

import (
	"context"
	"errors"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/tailored-agentic-units/mediate/actx"
	"github.com/tailored-agentic-units/mediate/config"
	"github.com/tailored-agentic-units/mediate/core"
	"github.com/tailored-agentic-units/mediate/observability"
)

type action struct {
	ctx   actx.Context
	field int
}

func (a action) Context() actx.Context { return a.ctx }

type testBus = core.Bus[action, core.Meta, int]

func newBus(t *testing.T) *testBus {
	t.Helper()
	cfg := config.DefaultBusConfig("bus")
	cfg.FailMessage = "BUS FAIL MESSAGE"
	bus, err := core.NewBus[action, core.Meta, int](cfg)
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	return bus
}

func passing(name string, meta core.Meta, out int) core.Actor[action, core.Meta, int] {
	return core.NewActor(name,
		func(ctx context.Context, a action) core.TestResult[core.Meta] { return core.Pass(meta) },
		func(ctx context.Context, a action) (int, error) { return out, nil },
	)
}

func failing(name, reason string) core.Actor[action, core.Meta, int] {
	return core.NewActor(name,
		func(ctx context.Context, a action) core.TestResult[core.Meta] { return core.Fail[core.Meta](reason) },
		func(ctx context.Context, a action) (int, error) { return 0, errors.New("must not run") },
	)
}

func TestNewBus_UnknownObserver(t *testing.T) {
	cfg := config.DefaultBusConfig("bus")
	cfg.Observer = "does-not-exist"

	_, err := core.NewBus[action, core.Meta, int](cfg)
	if !errors.Is(err, observability.ErrUnknownObserver) {
		t.Errorf("NewBus() error = %v, want ErrUnknownObserver", err)
	}
}

func TestBus_Register(t *testing.T) {
	bus := newBus(t)

	if err := bus.Register(passing("a", nil, 1)); err != nil {
		t.Fatalf("Register() error = %v", err)
	}

	tests := []struct {
		name  string
		actor core.Actor[action, core.Meta, int]
		want  error
	}{
		{name: "duplicate name", actor: passing("a", nil, 2), want: core.ErrAlreadyRegistered},
		{name: "empty name", actor: passing("", nil, 2), want: core.ErrEmptyName},
		{name: "nil actor", actor: nil, want: core.ErrNilActor},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := bus.Register(tt.actor); !errors.Is(err, tt.want) {
				t.Errorf("Register() error = %v, want %v", err, tt.want)
			}
		})
	}

	if got := bus.Metrics().Actors; got != 1 {
		t.Errorf("Metrics().Actors = %d, want 1", got)
	}
}

func TestBus_TestAll_RegistrationOrder(t *testing.T) {
	bus := newBus(t)

	// Later registrations finish their tests first.
	delays := []time.Duration{30 * time.Millisecond, 15 * time.Millisecond, 0}
	names := []string{"slow", "medium", "fast"}
	for i, name := range names {
		delay := delays[i]
		bus.Register(core.NewActor(name,
			func(ctx context.Context, a action) core.TestResult[core.Meta] {
				time.Sleep(delay)
				return core.Pass(core.Meta{"i": i})
			},
			func(ctx context.Context, a action) (int, error) { return i, nil },
		))
	}

	replies, err := bus.TestAll(context.Background(), action{ctx: actx.New()})
	if err != nil {
		t.Fatalf("TestAll() error = %v", err)
	}
	if len(replies) != 3 {
		t.Fatalf("TestAll() returned %d replies, want 3", len(replies))
	}
	for i, r := range replies {
		if r.Actor.Name() != names[i] {
			t.Errorf("reply %d actor = %s, want %s", i, r.Actor.Name(), names[i])
		}
	}
}

func TestBus_TestAll_Concurrent(t *testing.T) {
	bus := newBus(t)

	var inFlight, peak atomic.Int32
	for _, name := range []string{"a", "b", "c", "d"} {
		bus.Register(core.NewActor[action, core.Meta, int](name,
			func(ctx context.Context, a action) core.TestResult[core.Meta] {
				n := inFlight.Add(1)
				for {
					p := peak.Load()
					if n <= p || peak.CompareAndSwap(p, n) {
						break
					}
				}
				time.Sleep(20 * time.Millisecond)
				inFlight.Add(-1)
				return core.Pass(core.Meta{})
			},
			nil,
		))
	}

	if _, err := bus.TestAll(context.Background(), action{ctx: actx.New()}); err != nil {
		t.Fatalf("TestAll() error = %v", err)
	}
	if peak.Load() < 2 {
		t.Errorf("peak concurrent tests = %d, want tests issued without waiting on each other", peak.Load())
	}
}

func TestBus_TestAll_PanicBecomesFail(t *testing.T) {
	bus := newBus(t)
	bus.Register(core.NewActor[action, core.Meta, int]("boom",
		func(ctx context.Context, a action) core.TestResult[core.Meta] { panic("kaboom") },
		nil,
	))

	replies, err := bus.TestAll(context.Background(), action{ctx: actx.New()})
	if err != nil {
		t.Fatalf("TestAll() error = %v", err)
	}
	if !replies[0].Result.Failed() || !strings.Contains(replies[0].Result.Reason(), "kaboom") {
		t.Errorf("reply = %v, want fail containing kaboom", replies[0].Result)
	}
}

func TestBus_TestAll_Cancelled(t *testing.T) {
	bus := newBus(t)
	bus.Register(passing("a", nil, 1))

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if _, err := bus.TestAll(ctx, action{ctx: actx.New()}); !errors.Is(err, context.Canceled) {
		t.Errorf("TestAll() error = %v, want context.Canceled", err)
	}
}

func TestBus_Publish(t *testing.T) {
	t.Run("no actors", func(t *testing.T) {
		bus := newBus(t)
		_, _, err := bus.Publish(context.Background(), action{ctx: actx.New()})
		if !errors.Is(err, core.ErrNoActors) {
			t.Fatalf("Publish() error = %v, want ErrNoActors", err)
		}
		if err.Error() != "no actors are able to reply to a message in the bus bus" {
			t.Errorf("Publish() error = %q", err.Error())
		}
	})

	t.Run("partition", func(t *testing.T) {
		bus := newBus(t)
		bus.Register(failing("f1", "abc"))
		bus.Register(passing("p1", nil, 1))
		bus.Register(failing("f2", "def"))
		bus.Register(passing("p2", nil, 2))

		pass, fail, err := bus.Publish(context.Background(), action{ctx: actx.New()})
		if err != nil {
			t.Fatalf("Publish() error = %v", err)
		}
		if len(pass) != 2 || pass[0].Actor.Name() != "p1" || pass[1].Actor.Name() != "p2" {
			t.Errorf("passing = %v", pass)
		}
		if len(fail) != 2 || fail[0].Actor.Name() != "f1" || fail[1].Actor.Name() != "f2" {
			t.Errorf("failing = %v", fail)
		}
	})

	t.Run("all failing", func(t *testing.T) {
		bus := newBus(t)
		bus.Register(failing("f1", "abc"))
		bus.Register(failing("f2", "def"))

		_, _, err := bus.Publish(context.Background(), action{ctx: actx.New()})

		var failure *core.FailureError
		if !errors.As(err, &failure) {
			t.Fatalf("Publish() error = %v, want *FailureError", err)
		}
		if !errors.Is(err, core.ErrActorsFailed) {
			t.Error("FailureError should match ErrActorsFailed")
		}

		want := "BUS FAIL MESSAGE\n    Error messages of failing actors:\n        abc\n        def"
		if err.Error() != want {
			t.Errorf("Error() = %q, want %q", err.Error(), want)
		}
		if strings.Count(err.Error(), "abc") != 1 {
			t.Error("each failing reason must appear exactly once")
		}
		if got := failure.Reasons(); len(got) != 2 || got[0] != "abc" || got[1] != "def" {
			t.Errorf("Reasons() = %v", got)
		}
	})
}

func TestBus_Run_NotifiesObservers(t *testing.T) {
	bus := newBus(t)
	release := make(chan struct{})
	actor := core.NewActor[action, core.Meta, int]("slow",
		nil,
		func(ctx context.Context, a action) (int, error) {
			<-release
			return a.field * 2, nil
		},
	)
	bus.Register(actor)

	type seen struct {
		actor   string
		field   int
		pending bool
		future  *core.Future[int]
	}
	var mu sync.Mutex
	var observed []seen
	bus.RegisterObserver(core.ObserverFunc[action, int](func(actor core.Named, a action, output *core.Future[int]) {
		pending := true
		select {
		case <-output.Done():
			pending = false
		default:
		}
		mu.Lock()
		observed = append(observed, seen{actor: actor.Name(), field: a.field, pending: pending, future: output})
		mu.Unlock()
		close(release)
	}))

	out, err := bus.Run(context.Background(), actor, action{ctx: actx.New(), field: 21})
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if out != 42 {
		t.Errorf("Run() = %d, want 42", out)
	}

	mu.Lock()
	defer mu.Unlock()
	if len(observed) != 1 {
		t.Fatalf("observer called %d times, want 1", len(observed))
	}
	if observed[0].actor != "slow" || observed[0].field != 21 {
		t.Errorf("observed = %+v", observed[0])
	}
	if !observed[0].pending {
		t.Error("observer should be called before the run completes")
	}

	value, err := observed[0].future.Await(context.Background())
	if err != nil || value != 42 {
		t.Errorf("future = %d, %v, want 42, nil", value, err)
	}
}

func TestBus_Run_PropagatesErrorUnchanged(t *testing.T) {
	bus := newBus(t)
	sentinel := errors.New("dummy error")
	actor := core.NewActor[action, core.Meta, int]("err",
		nil,
		func(ctx context.Context, a action) (int, error) { return 0, sentinel },
	)
	bus.Register(actor)

	var futureErr atomic.Value
	done := make(chan struct{})
	bus.RegisterObserver(core.ObserverFunc[action, int](func(actor core.Named, a action, output *core.Future[int]) {
		output.OnComplete(func(_ int, err error) {
			futureErr.Store(err)
			close(done)
		})
	}))

	_, err := bus.Run(context.Background(), actor, action{ctx: actx.New()})
	if err != sentinel {
		t.Errorf("Run() error = %v, want the actor's error unchanged", err)
	}

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("future never resolved")
	}
	if futureErr.Load() != sentinel {
		t.Errorf("future error = %v, want sentinel", futureErr.Load())
	}

	snapshot := bus.Metrics()
	if snapshot.RunsStarted != 1 || snapshot.RunsFailed != 1 || snapshot.Observers != 1 {
		t.Errorf("Metrics() = %+v", snapshot)
	}
}

func TestBus_Run_PanicResolvesFuture(t *testing.T) {
	bus := newBus(t)
	actor := core.NewActor[action, core.Meta, int]("boom",
		nil,
		func(ctx context.Context, a action) (int, error) { panic("run exploded") },
	)
	bus.Register(actor)

	var future *core.Future[int]
	bus.RegisterObserver(core.ObserverFunc[action, int](func(actor core.Named, a action, output *core.Future[int]) {
		future = output
	}))

	recovered := func() (r any) {
		defer func() { r = recover() }()
		bus.Run(context.Background(), actor, action{ctx: actx.New()})
		return nil
	}()
	if recovered != "run exploded" {
		t.Fatalf("recovered = %v, want the original panic value", recovered)
	}

	if future == nil {
		t.Fatal("observer was not called")
	}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	_, err := future.Await(ctx)
	if err == nil || !strings.Contains(err.Error(), "actor boom panicked: run exploded") {
		t.Errorf("future error = %v, want the panic reported", err)
	}

	if got := bus.Metrics().RunsFailed; got != 1 {
		t.Errorf("RunsFailed = %d, want 1", got)
	}
}

func TestBus_EmitsEvents(t *testing.T) {
	rec := &observability.Recorder{}
	observability.RegisterObserver("core-bus-test", rec)

	cfg := config.DefaultBusConfig("events")
	cfg.Observer = "core-bus-test"
	bus, err := core.NewBus[action, core.Meta, int](cfg)
	if err != nil {
		t.Fatalf("NewBus() error = %v", err)
	}
	actor := passing("a", nil, 1)
	bus.Register(actor)

	bus.TestAll(context.Background(), action{ctx: actx.New()})
	bus.Run(context.Background(), actor, action{ctx: actx.New()})

	for _, eventType := range []observability.EventType{
		core.EventActorRegister, core.EventTestStart, core.EventTestComplete,
		core.EventRunStart, core.EventRunComplete,
	} {
		events := rec.OfType(eventType)
		if len(events) != 1 {
			t.Errorf("%s emitted %d times, want 1", eventType, len(events))
			continue
		}
		if events[0].Data["bus"] != "events" {
			t.Errorf("%s bus = %v, want events", eventType, events[0].Data["bus"])
		}
	}
}
