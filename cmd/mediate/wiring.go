package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tailored-agentic-units/mediate/actx"
	"github.com/tailored-agentic-units/mediate/config"
	"github.com/tailored-agentic-units/mediate/core"
	"github.com/tailored-agentic-units/mediate/invalidate"
	"github.com/tailored-agentic-units/mediate/mediator"
	"github.com/tailored-agentic-units/mediate/mediatyped"
	"github.com/tailored-agentic-units/mediate/observer"
)

const (
	arithmeticBus = "arithmetic"
	serializeBus  = "serialize"
)

var (
	requestKey = actx.NewKey[string]("request")
	stagesKey  = actx.NewKey[int]("stages")
)

// compute is the arithmetic bus action. Pipeline stages feed their output
// back in as the next action.
type compute struct {
	ctx   actx.Context
	value int
}

func (c compute) Context() actx.Context { return c.ctx }

func (c compute) WithContext(ctx actx.Context) compute {
	c.ctx = ctx
	return c
}

type (
	serializeAction = mediatyped.Action[string]
	serializeOutput = mediatyped.Output[string]
)

// defaultConfig is the wiring used when no config file is given.
func defaultConfig() (*config.Config, error) {
	cfg := &config.Config{
		Buses: map[string]config.BusConfig{
			arithmeticBus: {Observer: "slog"},
			serializeBus:  {Observer: "slog"},
		},
		Mediators: map[string]config.MediatorConfig{
			"cheapest":    {Bus: arithmeticBus, Strategy: config.StrategyNumber, Field: "cost", Type: config.NumberMin, Observer: "slog"},
			"priciest":    {Bus: arithmeticBus, Strategy: config.StrategyNumber, Field: "cost", Type: config.NumberMax, Observer: "slog"},
			"first":       {Bus: arithmeticBus, Strategy: config.StrategyFirst, Observer: "slog"},
			"race":        {Bus: arithmeticBus, Strategy: config.StrategyRace, Observer: "slog"},
			"chain":       {Bus: arithmeticBus, Strategy: config.StrategyPipeline, Field: "cost", Order: config.OrderIncreasing, Observer: "slog"},
			"sum":         {Bus: arithmeticBus, Strategy: config.StrategyUnion, Observer: "slog"},
			"media-types": {Bus: serializeBus, Strategy: config.StrategyUnion, Observer: "slog"},
			"serialize":   {Bus: serializeBus, Strategy: config.StrategyFirst, Observer: "slog"},
		},
	}
	if err := cfg.Normalize(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// scaleActor maps value to value*factor + factor and bumps the stage count
// in the context. Its cost is its factor.
func scaleActor(factor int) core.Actor[compute, core.Meta, compute] {
	return core.NewActor(fmt.Sprintf("scale%d", factor),
		func(ctx context.Context, c compute) core.TestResult[core.Meta] {
			return core.Pass(core.Meta{"cost": factor})
		},
		func(ctx context.Context, c compute) (compute, error) {
			stages, _ := actx.Get(c.ctx, stagesKey)
			return compute{
				ctx:   actx.Set(c.ctx, stagesKey, stages+1),
				value: c.value*factor + factor,
			}, nil
		},
	)
}

func sum(outputs []compute) (compute, error) {
	var total compute
	for _, out := range outputs {
		total.value += out.value
	}
	return total, nil
}

type arithmetic struct {
	bus       *core.Bus[compute, core.Meta, compute]
	mediators map[string]mediator.Mediator[compute, compute]
	counter   *observer.RunCounter[compute, compute]
	sub       *invalidate.Subscription
}

func wireArithmetic(cfg *config.Config, reg prometheus.Registerer, source invalidate.Source) (*arithmetic, error) {
	bus, err := core.NewBus[compute, core.Meta, compute](cfg.Buses[arithmeticBus])
	if err != nil {
		return nil, err
	}

	for _, factor := range []int{10, 100, 1} {
		if err := bus.Register(scaleActor(factor)); err != nil {
			return nil, err
		}
	}

	metrics, err := observer.NewMetrics[compute, compute](arithmeticBus, reg)
	if err != nil {
		return nil, err
	}
	bus.RegisterObserver(metrics)

	counter := observer.NewRunCounter[compute, compute]("scale100")
	bus.RegisterObserver(counter)

	a := &arithmetic{
		bus:       bus,
		mediators: make(map[string]mediator.Mediator[compute, compute]),
		counter:   counter,
		sub:       counter.ListenTo(source),
	}

	for name, med := range cfg.Mediators {
		if med.Bus != arithmeticBus {
			continue
		}

		var m mediator.Mediator[compute, compute]
		switch med.Strategy {
		case config.StrategyPipeline:
			m, err = mediator.NewPipeline(bus, med)
		case config.StrategyUnion:
			m, err = mediator.NewUnion(bus, med, sum)
		default:
			m, err = mediator.New(bus, med)
		}
		if err != nil {
			return nil, fmt.Errorf("mediator %s: %w", name, err)
		}
		a.mediators[name] = m
	}

	return a, nil
}

type serialize struct {
	bus       *core.Bus[serializeAction, mediatyped.Kind, serializeOutput]
	mediators map[string]mediator.Mediator[serializeAction, serializeOutput]
	listing   map[string]bool
}

func wireSerialize(cfg *config.Config, reg prometheus.Registerer) (*serialize, error) {
	bus, err := core.NewBus[serializeAction, mediatyped.Kind, serializeOutput](cfg.Buses[serializeBus])
	if err != nil {
		return nil, err
	}

	actors := []*mediatyped.Actor[string, string]{
		mediatyped.NewActor("json", mediatyped.NewFixed[string, string](
			mediatyped.FixedConfig{
				MediaTypePriorities: map[string]float64{"application/json": 1.0, "text/plain": 0.5},
				MediaTypeFormats:    map[string]string{"application/json": "http://www.w3.org/ns/formats/JSON"},
			},
			nil,
			func(ctx context.Context, handle, mediaType string, c actx.Context) (string, error) {
				return fmt.Sprintf("%q", strings.Fields(handle)), nil
			},
		)),
		mediatyped.NewActor("csv", mediatyped.NewFixed[string, string](
			mediatyped.FixedConfig{
				MediaTypePriorities: map[string]float64{"text/csv": 0.8},
				MediaTypeFormats:    map[string]string{"text/csv": "http://www.w3.org/ns/formats/CSV"},
				PriorityScale:       0.5,
			},
			nil,
			func(ctx context.Context, handle, mediaType string, c actx.Context) (string, error) {
				return strings.Join(strings.Fields(handle), ","), nil
			},
		)),
	}
	for _, actor := range actors {
		if err := bus.Register(actor); err != nil {
			return nil, err
		}
	}

	metrics, err := observer.NewMetrics[serializeAction, serializeOutput](serializeBus, reg)
	if err != nil {
		return nil, err
	}
	bus.RegisterObserver(metrics)

	s := &serialize{
		bus:       bus,
		mediators: make(map[string]mediator.Mediator[serializeAction, serializeOutput]),
		listing:   make(map[string]bool),
	}

	for name, med := range cfg.Mediators {
		if med.Bus != serializeBus {
			continue
		}

		var m mediator.Mediator[serializeAction, serializeOutput]
		switch med.Strategy {
		case config.StrategyPipeline:
			return nil, fmt.Errorf("mediator %s: %w: pipeline on bus %s", name, mediator.ErrUnsupportedStrategy, serializeBus)
		case config.StrategyUnion:
			m, err = mediator.NewUnion(bus, med, mediatyped.UnionMediaTypes[string])
			s.listing[name] = true
		default:
			m, err = mediator.New(bus, med)
		}
		if err != nil {
			return nil, fmt.Errorf("mediator %s: %w", name, err)
		}
		s.mediators[name] = m
	}

	return s, nil
}
