package mediatyped

import (
	"context"
	"errors"
	"fmt"

	"github.com/tailored-agentic-units/mediate/actx"
	"github.com/tailored-agentic-units/mediate/core"
)

var (
	// ErrInvalidAction is returned by Run for an action of unknown kind.
	ErrInvalidAction = errors.New("either a handle, mediaTypes or mediaTypeFormats action needs to be provided")

	// ErrMissingMediaType is returned by Run for a handle action without a
	// media type.
	ErrMissingMediaType = errors.New("handle action requires a media type")
)

// Handler supplies the per-kind behavior of a media-typed actor.
type Handler[H, O any] interface {
	TestMediaTypes(ctx context.Context, c actx.Context) core.TestResult[core.Unit]
	MediaTypes(ctx context.Context, c actx.Context) (map[string]float64, error)
	TestMediaTypeFormats(ctx context.Context, c actx.Context) core.TestResult[core.Unit]
	MediaTypeFormats(ctx context.Context, c actx.Context) (map[string]string, error)
	TestHandle(ctx context.Context, handle H, mediaType string, c actx.Context) core.TestResult[core.Unit]
	RunHandle(ctx context.Context, handle H, mediaType string, c actx.Context) (O, error)
}

// Actor adapts a Handler to core.Actor. A passing test carries the kind of
// the action it accepted.
type Actor[H, O any] struct {
	name    string
	handler Handler[H, O]
}

// NewActor creates a media-typed actor. Register it on a bus explicitly.
func NewActor[H, O any](name string, handler Handler[H, O]) *Actor[H, O] {
	return &Actor[H, O]{name: name, handler: handler}
}

func (a *Actor[H, O]) Name() string {
	return a.name
}

func (a *Actor[H, O]) Test(ctx context.Context, action Action[H]) core.TestResult[Kind] {
	var result core.TestResult[core.Unit]

	switch action.kind {
	case KindMediaTypes:
		result = a.handler.TestMediaTypes(ctx, action.ctx)
	case KindMediaTypeFormats:
		result = a.handler.TestMediaTypeFormats(ctx, action.ctx)
	case KindHandle:
		if action.mediaType == "" {
			return core.Fail[Kind](ErrMissingMediaType.Error())
		}
		result = a.handler.TestHandle(ctx, action.handle, action.mediaType, action.ctx)
	default:
		return core.Fail[Kind](ErrInvalidAction.Error())
	}

	return core.MapResult(result, func(core.Unit) Kind { return action.kind })
}

func (a *Actor[H, O]) Run(ctx context.Context, action Action[H]) (Output[O], error) {
	switch action.kind {
	case KindMediaTypes:
		mediaTypes, err := a.handler.MediaTypes(ctx, action.ctx)
		if err != nil {
			return Output[O]{}, err
		}
		return MediaTypesOutput[O](mediaTypes), nil
	case KindMediaTypeFormats:
		formats, err := a.handler.MediaTypeFormats(ctx, action.ctx)
		if err != nil {
			return Output[O]{}, err
		}
		return MediaTypeFormatsOutput[O](formats), nil
	case KindHandle:
		if action.mediaType == "" {
			return Output[O]{}, ErrMissingMediaType
		}
		handled, err := a.handler.RunHandle(ctx, action.handle, action.mediaType, action.ctx)
		if err != nil {
			return Output[O]{}, err
		}
		return HandledOutput(handled), nil
	default:
		return Output[O]{}, fmt.Errorf("%w: got %s", ErrInvalidAction, action.kind)
	}
}
