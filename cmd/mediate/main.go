package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"sort"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/tailored-agentic-units/mediate/actx"
	"github.com/tailored-agentic-units/mediate/config"
	"github.com/tailored-agentic-units/mediate/invalidate"
	"github.com/tailored-agentic-units/mediate/mediator"
	"github.com/tailored-agentic-units/mediate/mediatyped"
	"github.com/tailored-agentic-units/mediate/observability"
)

func main() {
	var (
		configFile  = flag.String("config", "", "Path to mediation config file (.json, .yaml or .toml); built-in wiring when empty")
		value       = flag.Int("value", 1, "Input value for the arithmetic bus")
		payload     = flag.String("payload", "a b c", "Payload for the serialize bus")
		mediaType   = flag.String("media-type", "text/csv", "Media type to serialize the payload as")
		showMetrics = flag.Bool("metrics", false, "Print actor run metrics after mediating")
		verbose     = flag.Bool("verbose", false, "Enable verbose logging to stderr")
	)
	flag.Parse()

	var logger *slog.Logger
	if *verbose {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelDebug,
		}))
	} else {
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{
			Level: slog.LevelInfo,
		}))
	}
	recorder := &observability.Recorder{}
	events := observability.NewMultiObserver(observability.NewSlogObserver(logger), recorder)
	observability.RegisterObserver("slog", events)

	cfg, err := loadConfig(*configFile)
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	reg := prometheus.NewRegistry()
	invalidator := invalidate.NewBroadcaster(events)

	arith, err := wireArithmetic(cfg, reg, invalidator)
	if err != nil {
		log.Fatalf("Failed to wire %s bus: %v", arithmeticBus, err)
	}
	defer arith.sub.Cancel()

	ser, err := wireSerialize(cfg, reg)
	if err != nil {
		log.Fatalf("Failed to wire %s bus: %v", serializeBus, err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	names := make([]string, 0, len(cfg.Mediators))
	for name := range cfg.Mediators {
		names = append(names, name)
	}
	sort.Strings(names)

	for _, name := range names {
		med := cfg.Mediators[name]
		request := actx.Set(actx.New(), requestKey, name)

		switch med.Bus {
		case arithmeticBus:
			out, err := arith.mediators[name].Mediate(ctx, compute{ctx: request, value: *value})
			if err != nil {
				fmt.Printf("%-12s %-8s error: %v\n", name, med.Strategy, err)
				continue
			}
			stages, _ := actx.Get(out.ctx, stagesKey)
			fmt.Printf("%-12s %-8s value=%d stages=%d\n", name, med.Strategy, out.value, stages)

		case serializeBus:
			action := mediatyped.HandleAction(request, *payload, *mediaType)
			if ser.listing[name] {
				action = mediatyped.MediaTypesAction[string](request)
			}
			out, err := ser.mediators[name].Mediate(ctx, action)
			if err != nil {
				fmt.Printf("%-12s %-8s error: %v\n", name, med.Strategy, err)
				continue
			}
			if out.Kind() == mediatyped.KindMediaTypes {
				fmt.Printf("%-12s %-8s media types=%v\n", name, med.Strategy, out.MediaTypes())
			} else {
				fmt.Printf("%-12s %-8s %s -> %s\n", name, med.Strategy, *mediaType, out.Handled())
			}

		default:
			fmt.Printf("%-12s %-8s skipped: no bus named %q\n", name, med.Strategy, med.Bus)
		}
	}

	fmt.Printf("\nRuns of scale100: %d\n", arith.counter.Count())
	invalidator.Invalidate(ctx, invalidate.Event{})
	fmt.Printf("Runs of scale100 after invalidation: %d\n", arith.counter.Count())

	snapshot := arith.bus.Metrics()
	fmt.Printf("Bus %s: %d tests dispatched, %d runs, %d failed\n",
		arithmeticBus, snapshot.TestsDispatched, snapshot.RunsStarted, snapshot.RunsFailed)

	fmt.Printf("Events: %d recorded across %d mediations, %d invalidations\n",
		len(recorder.Events()),
		len(recorder.OfType(mediator.EventMediateStart)),
		len(recorder.OfType(invalidate.EventInvalidate)))

	if *showMetrics {
		if err := printMetrics(reg); err != nil {
			log.Fatalf("Failed to gather metrics: %v", err)
		}
	}
}

func loadConfig(path string) (*config.Config, error) {
	if path == "" {
		return defaultConfig()
	}
	return config.Load(path)
}

func printMetrics(reg *prometheus.Registry) error {
	families, err := reg.Gather()
	if err != nil {
		return err
	}

	fmt.Println("\nMetrics:")
	for _, family := range families {
		for _, metric := range family.GetMetric() {
			labels := make(map[string]string, len(metric.GetLabel()))
			for _, label := range metric.GetLabel() {
				labels[label.GetName()] = label.GetValue()
			}

			switch {
			case metric.GetCounter() != nil:
				fmt.Printf("  %s%v %g\n", family.GetName(), labels, metric.GetCounter().GetValue())
			case metric.GetHistogram() != nil:
				fmt.Printf("  %s%v count=%d sum=%gs\n", family.GetName(), labels,
					metric.GetHistogram().GetSampleCount(), metric.GetHistogram().GetSampleSum())
			}
		}
	}
	return nil
}
