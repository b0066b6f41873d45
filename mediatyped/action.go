// Package mediatyped implements actors that answer three mutually exclusive
// kinds of request: list the media types they handle, list the format URIs
// of those media types, or handle a payload in one specific media type.
//
// The request kind is carried as a tagged union. Actions are built only
// through MediaTypesAction, MediaTypeFormatsAction and HandleAction, and an
// Actor dispatches on the kind with an exhaustive switch.
package mediatyped

import (
	"fmt"

	"github.com/tailored-agentic-units/mediate/actx"
)

// Kind identifies which request an Action carries.
type Kind int

const (
	// KindUnknown is the kind of the zero Action. Actors fail it.
	KindUnknown Kind = iota
	KindMediaTypes
	KindMediaTypeFormats
	KindHandle
)

func (k Kind) String() string {
	switch k {
	case KindMediaTypes:
		return "mediaTypes"
	case KindMediaTypeFormats:
		return "mediaTypeFormats"
	case KindHandle:
		return "handle"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Action is a request for a media-typed actor.
type Action[H any] struct {
	kind      Kind
	ctx       actx.Context
	handle    H
	mediaType string
}

// MediaTypesAction asks for the handled media types and their priorities.
func MediaTypesAction[H any](ctx actx.Context) Action[H] {
	return Action[H]{kind: KindMediaTypes, ctx: ctx}
}

// MediaTypeFormatsAction asks for the format URI of each handled media type.
func MediaTypeFormatsAction[H any](ctx actx.Context) Action[H] {
	return Action[H]{kind: KindMediaTypeFormats, ctx: ctx}
}

// HandleAction asks for handle to be processed as mediaType.
func HandleAction[H any](ctx actx.Context, handle H, mediaType string) Action[H] {
	return Action[H]{kind: KindHandle, ctx: ctx, handle: handle, mediaType: mediaType}
}

// Kind reports which request the action carries.
func (a Action[H]) Kind() Kind {
	return a.kind
}

// Context returns the action context.
func (a Action[H]) Context() actx.Context {
	return a.ctx
}

// Handle returns the payload and media type of a KindHandle action.
func (a Action[H]) Handle() (H, string) {
	return a.handle, a.mediaType
}

// Output is the reply to an Action. Only the part matching Kind is set.
type Output[O any] struct {
	kind       Kind
	mediaTypes map[string]float64
	formats    map[string]string
	handled    O
}

// MediaTypesOutput wraps a media type priority map.
func MediaTypesOutput[O any](mediaTypes map[string]float64) Output[O] {
	return Output[O]{kind: KindMediaTypes, mediaTypes: mediaTypes}
}

// MediaTypeFormatsOutput wraps a media type to format URI map.
func MediaTypeFormatsOutput[O any](formats map[string]string) Output[O] {
	return Output[O]{kind: KindMediaTypeFormats, formats: formats}
}

// HandledOutput wraps the result of handling a payload.
func HandledOutput[O any](handled O) Output[O] {
	return Output[O]{kind: KindHandle, handled: handled}
}

// Kind reports which part of the output is set.
func (o Output[O]) Kind() Kind {
	return o.kind
}

// MediaTypes returns the priority map of a KindMediaTypes output.
func (o Output[O]) MediaTypes() map[string]float64 {
	return o.mediaTypes
}

// MediaTypeFormats returns the format map of a KindMediaTypeFormats output.
func (o Output[O]) MediaTypeFormats() map[string]string {
	return o.formats
}

// Handled returns the result of a KindHandle output.
func (o Output[O]) Handled() O {
	return o.handled
}
