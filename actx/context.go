package actx

import (
	"errors"
	"fmt"
	"maps"
	"reflect"
	"sort"
	"sync/atomic"
)

// ErrMissingKey is returned by GetOrFail when a key has no entry.
var ErrMissingKey = errors.New("context key not found")

var keySequence atomic.Uint64

type keyID struct {
	name string
	seq  uint64
}

// AnyKey is the type-erased view of a Key, used by operations that do not
// need to know the value type.
type AnyKey interface {
	Name() string
	identity() *keyID
}

// Key is a named, typed identifier for a Context entry.
// The zero Key is invalid and must not be used with Set.
type Key[T any] struct {
	id *keyID
}

// NewKey creates a new key identity. Every call returns a distinct key,
// even for identical names.
func NewKey[T any](name string) Key[T] {
	return Key[T]{id: &keyID{name: name, seq: keySequence.Add(1)}}
}

// Name returns the diagnostic name of the key.
func (k Key[T]) Name() string {
	if k.id == nil {
		return ""
	}
	return k.id.name
}

func (k Key[T]) identity() *keyID {
	return k.id
}

func (k Key[T]) String() string {
	return k.Name()
}

type erasedKey struct {
	id *keyID
}

func (k erasedKey) Name() string { return k.id.name }
func (k erasedKey) identity() *keyID { return k.id }
func (k erasedKey) String() string { return k.id.name }

// Context is an immutable mapping from key identity to value.
//
// The zero Context is a valid empty context. IsZero distinguishes it from a
// context produced by New or by any operation, which lets pipelines detect
// outputs that carry no context at all.
type Context struct {
	entries map[*keyID]any
}

// New creates an empty Context.
func New() Context {
	return Context{entries: make(map[*keyID]any)}
}

// IsZero reports whether c is the zero Context (never initialized).
func (c Context) IsZero() bool {
	return c.entries == nil
}

// Len returns the number of entries.
func (c Context) Len() int {
	return len(c.entries)
}

// Has reports whether the key has an entry.
func (c Context) Has(key AnyKey) bool {
	id := key.identity()
	if id == nil {
		return false
	}
	_, exists := c.entries[id]
	return exists
}

// Get retrieves the value stored under key.
// Returns the zero value and false when the key has no entry.
func Get[T any](c Context, key Key[T]) (T, bool) {
	var zero T
	if key.id == nil {
		return zero, false
	}

	value, exists := c.entries[key.id]
	if !exists {
		return zero, false
	}
	if value == nil {
		return zero, true
	}
	return value.(T), true
}

// GetOrFail retrieves the value stored under key, returning ErrMissingKey
// wrapped with the key name when absent.
func GetOrFail[T any](c Context, key Key[T]) (T, error) {
	value, exists := Get(c, key)
	if !exists {
		return value, fmt.Errorf("%w: %s", ErrMissingKey, key.Name())
	}
	return value, nil
}

// Set returns a new Context with key bound to value. The original Context is
// not modified.
func Set[T any](c Context, key Key[T], value T) Context {
	if key.id == nil {
		panic("actx: Set called with zero Key")
	}

	next := c.clone()
	next.entries[key.id] = value
	return next
}

// Delete returns a new Context without the entry for key.
func (c Context) Delete(key AnyKey) Context {
	next := c.clone()
	if id := key.identity(); id != nil {
		delete(next.entries, id)
	}
	return next
}

// Merge returns a new Context holding the entries of both contexts.
// Entries of other take precedence on key collision.
func (c Context) Merge(other Context) Context {
	next := c.clone()
	maps.Copy(next.entries, other.entries)
	return next
}

// Keys returns all keys with an entry, ordered by name and then by creation
// order so the result is deterministic.
func (c Context) Keys() []AnyKey {
	ids := make([]*keyID, 0, len(c.entries))
	for id := range c.entries {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool {
		if ids[i].name != ids[j].name {
			return ids[i].name < ids[j].name
		}
		return ids[i].seq < ids[j].seq
	})

	keys := make([]AnyKey, len(ids))
	for i, id := range ids {
		keys[i] = erasedKey{id: id}
	}
	return keys
}

// Equal reports whether both contexts hold the same entry set.
// Values are compared structurally.
func (c Context) Equal(other Context) bool {
	if len(c.entries) != len(other.entries) {
		return false
	}
	for id, value := range c.entries {
		otherValue, exists := other.entries[id]
		if !exists || !reflect.DeepEqual(value, otherValue) {
			return false
		}
	}
	return true
}

// Map returns a snapshot keyed by key name, for logging and debugging.
// Entries whose keys share a name collapse to the last one in Keys order.
func (c Context) Map() map[string]any {
	out := make(map[string]any, len(c.entries))
	for _, key := range c.Keys() {
		out[key.Name()] = c.entries[key.identity()]
	}
	return out
}

func (c Context) clone() Context {
	entries := make(map[*keyID]any, len(c.entries)+1)
	maps.Copy(entries, c.entries)
	return Context{entries: entries}
}
