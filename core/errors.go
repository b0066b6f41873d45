package core

import (
	"errors"
	"strings"
)

// Sentinel errors for bus registration and dispatch.
var (
	ErrEmptyName         = errors.New("actor name is empty")
	ErrNilActor          = errors.New("actor is nil")
	ErrAlreadyRegistered = errors.New("actor already registered")
	ErrNoActors          = errors.New("no actors are able to reply to a message")
	ErrActorsFailed      = errors.New("actors failed their test")
)

// Failure is one actor's declined test.
type Failure struct {
	Actor  string
	Reason string
}

// FailureError aggregates the reasons of every actor that failed its test,
// in registration order. It is reported when no actor can handle an action,
// or when a mediator does not ignore failures and at least one actor failed.
//
// The message is the bus fail-message prefix followed by one line per
// failing actor:
//
//	none of the actors on bus http are able to handle the action
//	    Error messages of failing actors:
//	        unsupported scheme ftp
//	        proxy disabled
type FailureError struct {
	Bus      string
	Prefix   string
	Failures []Failure
}

func (e *FailureError) Error() string {
	var b strings.Builder
	b.WriteString(e.Prefix)
	b.WriteString("\n    Error messages of failing actors:")
	for _, f := range e.Failures {
		b.WriteString("\n        ")
		b.WriteString(f.Reason)
	}
	return b.String()
}

// Reasons returns the failure reasons in registration order.
func (e *FailureError) Reasons() []string {
	reasons := make([]string, len(e.Failures))
	for i, f := range e.Failures {
		reasons[i] = f.Reason
	}
	return reasons
}

// Is matches ErrActorsFailed so callers can use errors.Is without knowing
// the concrete type.
func (e *FailureError) Is(target error) bool {
	return target == ErrActorsFailed
}
