package core

import "fmt"

// Unit is the payload of a passing test that carries no metadata.
type Unit struct{}

// TestResult is the outcome of an actor's capability probe: either Pass with
// a value or Fail with a reason. The zero TestResult is a Fail with an empty
// reason.
//
// Inspect the variant before reading the payload. Calling Value on a Fail or
// Reason on a Pass is a programming error and panics.
type TestResult[T any] struct {
	value  T
	reason string
	passed bool
}

// Pass creates a passing result carrying value.
func Pass[T any](value T) TestResult[T] {
	return TestResult[T]{value: value, passed: true}
}

// PassVoid creates a passing result without metadata.
func PassVoid() TestResult[Unit] {
	return TestResult[Unit]{passed: true}
}

// Fail creates a failing result with a human-readable reason.
func Fail[T any](reason string) TestResult[T] {
	return TestResult[T]{reason: reason}
}

// Failf creates a failing result with a formatted reason.
func Failf[T any](format string, args ...any) TestResult[T] {
	return TestResult[T]{reason: fmt.Sprintf(format, args...)}
}

// Passed reports whether the actor accepted the action.
func (r TestResult[T]) Passed() bool { return r.passed }

// Failed reports whether the actor declined the action.
func (r TestResult[T]) Failed() bool { return !r.passed }

// Value returns the payload of a passing result.
func (r TestResult[T]) Value() T {
	if !r.passed {
		panic(fmt.Sprintf("core: Value called on a failed test result: %s", r.reason))
	}
	return r.value
}

// Reason returns the failure reason of a failing result.
func (r TestResult[T]) Reason() string {
	if r.passed {
		panic("core: Reason called on a passed test result")
	}
	return r.reason
}

// Get returns the payload and true for a Pass, the zero value and false for
// a Fail.
func (r TestResult[T]) Get() (T, bool) {
	if !r.passed {
		var zero T
		return zero, false
	}
	return r.value, true
}

func (r TestResult[T]) String() string {
	if r.passed {
		return fmt.Sprintf("pass(%v)", r.value)
	}
	return fmt.Sprintf("fail(%s)", r.reason)
}

// MapResult transforms the payload of a passing result. A failing result is
// forwarded with its reason.
func MapResult[T, U any](r TestResult[T], fn func(T) U) TestResult[U] {
	if !r.passed {
		return Fail[U](r.reason)
	}
	return Pass(fn(r.value))
}
