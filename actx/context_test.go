package actx_test

import (
	"errors"
	"testing"

	"github.com/tailored-agentic-units/mediate/actx"
)

var (
	keyName    = actx.NewKey[string]("name")
	keyCount   = actx.NewKey[int]("count")
	keySources = actx.NewKey[[]string]("sources")
)

func TestContext_New(t *testing.T) {
	c := actx.New()

	if c.IsZero() {
		t.Error("New() should not return the zero Context")
	}
	if c.Len() != 0 {
		t.Errorf("Len() = %d, want 0", c.Len())
	}
	if c.Has(keyName) {
		t.Error("New context should not have any keys")
	}
}

func TestContext_ZeroValue(t *testing.T) {
	var c actx.Context

	if !c.IsZero() {
		t.Error("zero Context should report IsZero")
	}

	next := actx.Set(c, keyName, "alice")
	if next.IsZero() {
		t.Error("Set on zero Context should produce an initialized Context")
	}
	if value, _ := actx.Get(next, keyName); value != "alice" {
		t.Errorf("Get() = %q, want %q", value, "alice")
	}
}

func TestContext_SetGetRoundTrip(t *testing.T) {
	original := actx.New()

	c1 := actx.Set(original, keyName, "v1")
	c2 := actx.Set(c1, keyName, "v2")

	if value, exists := actx.Get(c1, keyName); !exists || value != "v1" {
		t.Errorf("Get(c1) = %q, %v, want %q, true", value, exists, "v1")
	}
	if value, exists := actx.Get(c2, keyName); !exists || value != "v2" {
		t.Errorf("Get(c2) = %q, %v, want %q, true", value, exists, "v2")
	}
	if original.Has(keyName) {
		t.Error("original context should be unaffected by Set")
	}
	if original.Len() != 0 {
		t.Errorf("original Len() = %d, want 0", original.Len())
	}
}

func TestContext_Get(t *testing.T) {
	c := actx.Set(actx.New(), keyName, "alice")
	c = actx.Set(c, keyCount, 42)

	tests := []struct {
		name       string
		get        func() (any, bool)
		wantValue  any
		wantExists bool
	}{
		{
			name:       "existing string key",
			get:        func() (any, bool) { return actx.Get(c, keyName) },
			wantValue:  "alice",
			wantExists: true,
		},
		{
			name:       "existing int key",
			get:        func() (any, bool) { return actx.Get(c, keyCount) },
			wantValue:  42,
			wantExists: true,
		},
		{
			name: "missing key returns zero value",
			get: func() (any, bool) {
				v, ok := actx.Get(c, keySources)
				return len(v), ok
			},
			wantValue:  0,
			wantExists: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, exists := tt.get()
			if exists != tt.wantExists {
				t.Errorf("exists = %v, want %v", exists, tt.wantExists)
			}
			if value != tt.wantValue {
				t.Errorf("value = %v, want %v", value, tt.wantValue)
			}
		})
	}
}

func TestContext_GetOrFail(t *testing.T) {
	c := actx.Set(actx.New(), keyCount, 7)

	value, err := actx.GetOrFail(c, keyCount)
	if err != nil {
		t.Fatalf("GetOrFail() error = %v", err)
	}
	if value != 7 {
		t.Errorf("GetOrFail() = %d, want 7", value)
	}

	_, err = actx.GetOrFail(c, keyName)
	if !errors.Is(err, actx.ErrMissingKey) {
		t.Fatalf("GetOrFail() error = %v, want ErrMissingKey", err)
	}
	if got := err.Error(); got != "context key not found: name" {
		t.Errorf("GetOrFail() error = %q", got)
	}
}

func TestContext_KeysWithSameNameAreDistinct(t *testing.T) {
	first := actx.NewKey[string]("dup")
	second := actx.NewKey[string]("dup")

	c := actx.Set(actx.New(), first, "a")

	if !c.Has(first) {
		t.Error("context should have first key")
	}
	if c.Has(second) {
		t.Error("keys with the same name must be distinct identities")
	}
}

func TestContext_Delete(t *testing.T) {
	c1 := actx.Set(actx.New(), keyName, "alice")
	c2 := c1.Delete(keyName)

	if c2.Has(keyName) {
		t.Error("Delete() should remove the key")
	}
	if !c1.Has(keyName) {
		t.Error("Delete() should not modify the original")
	}
}

func TestContext_Merge(t *testing.T) {
	c1 := actx.Set(actx.New(), keyName, "alice")
	c1 = actx.Set(c1, keyCount, 1)
	c2 := actx.Set(actx.New(), keyCount, 2)
	c2 = actx.Set(c2, keySources, []string{"a"})

	merged := c1.Merge(c2)

	if merged.Len() != 3 {
		t.Errorf("Len() = %d, want 3", merged.Len())
	}
	if value, _ := actx.Get(merged, keyCount); value != 2 {
		t.Errorf("count = %d, want 2 (other takes precedence)", value)
	}
	if value, _ := actx.Get(merged, keyName); value != "alice" {
		t.Errorf("name = %q, want alice", value)
	}
	if value, _ := actx.Get(c1, keyCount); value != 1 {
		t.Error("Merge() should not modify the receiver")
	}
}

func TestContext_Equal(t *testing.T) {
	a := actx.Set(actx.New(), keySources, []string{"x", "y"})
	b := actx.Set(actx.New(), keySources, []string{"x", "y"})
	c := actx.Set(actx.New(), keySources, []string{"x"})

	if !a.Equal(b) {
		t.Error("contexts with structurally equal entries should be equal")
	}
	if a.Equal(c) {
		t.Error("contexts with different values should not be equal")
	}
	if !actx.New().Equal(actx.Context{}) {
		t.Error("empty and zero contexts hold the same (empty) entry set")
	}
}

func TestContext_KeysAndMap(t *testing.T) {
	c := actx.Set(actx.New(), keyName, "alice")
	c = actx.Set(c, keyCount, 3)

	keys := c.Keys()
	if len(keys) != 2 {
		t.Fatalf("Keys() returned %d keys, want 2", len(keys))
	}
	if keys[0].Name() != "count" || keys[1].Name() != "name" {
		t.Errorf("Keys() order = [%s %s], want [count name]", keys[0].Name(), keys[1].Name())
	}
	if !c.Has(keys[0]) {
		t.Error("keys returned by Keys() should be usable with Has")
	}

	snapshot := c.Map()
	if snapshot["name"] != "alice" || snapshot["count"] != 3 {
		t.Errorf("Map() = %v", snapshot)
	}
}
