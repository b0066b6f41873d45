package core

import (
	"encoding/json"
	"math"
	"reflect"
	"strings"
)

// Meta is a plain field map, the most common TestMeta shape.
type Meta map[string]any

// Field implements FieldReader.
func (m Meta) Field(name string) (any, bool) {
	v, ok := m[name]
	return v, ok
}

// FieldReader is implemented by TestMeta types that expose named fields to
// mediators configured with a field name.
type FieldReader interface {
	Field(name string) (any, bool)
}

// LookupField reads a named field from a TestMeta value.
//
// Supported shapes, in order: FieldReader, map[string]any, any other map
// with a string key kind (map[string]int, named key types), and structs (or
// pointers to structs) whose exported field matches by `meta` tag, by name,
// or by case-insensitive name.
func LookupField(meta any, name string) (any, bool) {
	switch m := meta.(type) {
	case nil:
		return nil, false
	case FieldReader:
		return m.Field(name)
	case map[string]any:
		v, ok := m[name]
		return v, ok
	}

	v := reflect.ValueOf(meta)
	for v.Kind() == reflect.Pointer {
		if v.IsNil() {
			return nil, false
		}
		v = v.Elem()
	}
	if v.Kind() == reflect.Map {
		t := v.Type()
		if t.Key().Kind() != reflect.String {
			return nil, false
		}
		val := v.MapIndex(reflect.ValueOf(name).Convert(t.Key()))
		if !val.IsValid() {
			return nil, false
		}
		return val.Interface(), true
	}
	if v.Kind() != reflect.Struct {
		return nil, false
	}

	t := v.Type()
	match := -1
	for i := range t.NumField() {
		f := t.Field(i)
		if !f.IsExported() {
			continue
		}
		if tag := f.Tag.Get("meta"); tag != "" {
			if tag == name {
				return v.Field(i).Interface(), true
			}
			continue
		}
		if f.Name == name {
			return v.Field(i).Interface(), true
		}
		if match < 0 && strings.EqualFold(f.Name, name) {
			match = i
		}
	}
	if match >= 0 {
		return v.Field(match).Interface(), true
	}
	return nil, false
}

// Number converts a value to float64 if it is numeric. Integer and float
// kinds qualify, as does json.Number; NaN does not, since it is not
// comparable.
func Number(value any) (float64, bool) {
	if n, ok := value.(json.Number); ok {
		f, err := n.Float64()
		if err != nil || math.IsNaN(f) {
			return 0, false
		}
		return f, true
	}

	v := reflect.ValueOf(value)
	switch v.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return float64(v.Int()), true
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32, reflect.Uint64, reflect.Uintptr:
		return float64(v.Uint()), true
	case reflect.Float32, reflect.Float64:
		f := v.Float()
		if math.IsNaN(f) {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}
