// Package actx provides the immutable, typed key/value carrier that flows
// alongside every action dispatched through a bus.
//
// Keys are created once, usually as package-level variables owned by the
// component that defines the concept they name:
//
//	var KeyLenient = actx.NewKey[bool]("lenient")
//
// Two keys created with the same name are distinct identities. The name exists
// for diagnostics only.
//
// # Immutability
//
// A Context is never modified in place. Set, Delete and Merge return a new
// Context and leave the receiver untouched:
//
//	c1 := actx.New()
//	c2 := actx.Set(c1, KeyLenient, true)
//	// c1 has no entries, c2 has lenient=true
//
// Chained actors that need to propagate changes must thread the returned
// Context forward explicitly; there is no ambient global context.
//
// Go does not allow type parameters on methods, so typed access goes through
// the package functions Get, GetOrFail and Set, while key-agnostic operations
// (Has, Delete, Merge, Keys) are methods on Context.
package actx
