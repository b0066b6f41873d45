package mediatyped

import (
	"context"
	"maps"

	"github.com/tailored-agentic-units/mediate/actx"
	"github.com/tailored-agentic-units/mediate/core"
)

// FixedConfig declares the media types an actor handles.
type FixedConfig struct {
	// MediaTypePriorities maps each handled media type to its priority.
	MediaTypePriorities map[string]float64 `json:"media_type_priorities" yaml:"media_type_priorities" toml:"media_type_priorities"`

	// MediaTypeFormats maps each handled media type to its format URI.
	MediaTypeFormats map[string]string `json:"media_type_formats" yaml:"media_type_formats" toml:"media_type_formats"`

	// PriorityScale multiplies every priority. Zero means 1.
	PriorityScale float64 `json:"priority_scale" yaml:"priority_scale" toml:"priority_scale"`
}

// HandleTestFunc checks a payload already known to be in a handled media
// type. A nil HandleTestFunc passes.
type HandleTestFunc[H any] func(ctx context.Context, handle H, mediaType string, c actx.Context) core.TestResult[core.Unit]

// HandleRunFunc processes a payload.
type HandleRunFunc[H, O any] func(ctx context.Context, handle H, mediaType string, c actx.Context) (O, error)

// Fixed is a Handler with a static set of media types. Media type and
// format requests always pass. A handle request for a media type outside
// the set fails before the payload is examined.
type Fixed[H, O any] struct {
	priorities map[string]float64
	formats    map[string]string
	test       HandleTestFunc[H]
	run        HandleRunFunc[H, O]
}

// NewFixed creates a Fixed handler. Priorities are scaled by
// cfg.PriorityScale once, here.
func NewFixed[H, O any](cfg FixedConfig, test HandleTestFunc[H], run HandleRunFunc[H, O]) *Fixed[H, O] {
	scale := cfg.PriorityScale
	if scale == 0 {
		scale = 1
	}

	priorities := make(map[string]float64, len(cfg.MediaTypePriorities))
	for mediaType, priority := range cfg.MediaTypePriorities {
		priorities[mediaType] = priority * scale
	}

	return &Fixed[H, O]{
		priorities: priorities,
		formats:    maps.Clone(cfg.MediaTypeFormats),
		test:       test,
		run:        run,
	}
}

func (f *Fixed[H, O]) TestMediaTypes(ctx context.Context, c actx.Context) core.TestResult[core.Unit] {
	return core.PassVoid()
}

func (f *Fixed[H, O]) MediaTypes(ctx context.Context, c actx.Context) (map[string]float64, error) {
	return maps.Clone(f.priorities), nil
}

func (f *Fixed[H, O]) TestMediaTypeFormats(ctx context.Context, c actx.Context) core.TestResult[core.Unit] {
	return core.PassVoid()
}

func (f *Fixed[H, O]) MediaTypeFormats(ctx context.Context, c actx.Context) (map[string]string, error) {
	return maps.Clone(f.formats), nil
}

func (f *Fixed[H, O]) TestHandle(ctx context.Context, handle H, mediaType string, c actx.Context) core.TestResult[core.Unit] {
	if _, ok := f.priorities[mediaType]; !ok {
		return core.Failf[core.Unit]("unrecognized media type: %s", mediaType)
	}
	if f.test == nil {
		return core.PassVoid()
	}
	return f.test(ctx, handle, mediaType, c)
}

func (f *Fixed[H, O]) RunHandle(ctx context.Context, handle H, mediaType string, c actx.Context) (O, error) {
	if f.run == nil {
		var zero O
		return zero, nil
	}
	return f.run(ctx, handle, mediaType, c)
}

// UnionMediaTypes merges the media type outputs of several actors, for use
// as a union mediator combiner. On conflict the later actor's priority
// wins.
func UnionMediaTypes[O any](outputs []Output[O]) (Output[O], error) {
	merged := make(map[string]float64)
	for _, out := range outputs {
		maps.Copy(merged, out.mediaTypes)
	}
	return MediaTypesOutput[O](merged), nil
}

// UnionFormats merges the format outputs of several actors. On conflict the
// later actor's format wins.
func UnionFormats[O any](outputs []Output[O]) (Output[O], error) {
	merged := make(map[string]string)
	for _, out := range outputs {
		maps.Copy(merged, out.formats)
	}
	return MediaTypeFormatsOutput[O](merged), nil
}
