// Package tree defines the generic value tree produced by parsing a
// configuration document. Every node is one of a closed set of variants:
// scalar leaves (String, Integer, Float, Bool, Datetime), ordered Arrays,
// and keyed Tables. The overlay engine walks this tree; the codecs convert
// it to and from document text.
package tree

import (
	"fmt"
	"time"
)

// Value is a single node of a configuration document.
//
// The set of implementations is closed: String, Integer, Float, Bool,
// Datetime, Array and Table. Code switching over a Value may treat any
// other type as a programming error.
type Value interface {
	// Interface returns the plain Go representation of the node
	// (string, int64, float64, bool, time.Time, []any or map[string]any),
	// suitable for handing to a document serializer or decoder.
	Interface() any
}

// String is a text leaf. Placeholders are ordinary String values until the
// overlay engine classifies them.
type String string

// Integer is a whole-number leaf.
type Integer int64

// Float is a floating-point leaf.
type Float float64

// Bool is a boolean leaf.
type Bool bool

// Datetime is a timestamp leaf.
type Datetime time.Time

// Array is an ordered sequence of values.
type Array []Value

// Table maps field names to values. Keys are unique; iteration order is not
// semantically significant.
type Table map[string]Value

func (s String) Interface() any   { return string(s) }
func (i Integer) Interface() any  { return int64(i) }
func (f Float) Interface() any    { return float64(f) }
func (b Bool) Interface() any     { return bool(b) }
func (d Datetime) Interface() any { return time.Time(d) }

func (a Array) Interface() any {
	out := make([]any, len(a))
	for i, v := range a {
		out[i] = v.Interface()
	}
	return out
}

func (t Table) Interface() any {
	out := make(map[string]any, len(t))
	for k, v := range t {
		out[k] = v.Interface()
	}
	return out
}

// FromGo converts the generic output of a document parser (nested
// map[string]any, []any and scalars) into a Value. It returns an error for
// anything outside the document data model, such as a null value.
func FromGo(v any) (Value, error) {
	switch x := v.(type) {
	case string:
		return String(x), nil
	case bool:
		return Bool(x), nil
	case int:
		return Integer(x), nil
	case int8:
		return Integer(x), nil
	case int16:
		return Integer(x), nil
	case int32:
		return Integer(x), nil
	case int64:
		return Integer(x), nil
	case uint:
		return Integer(x), nil
	case uint8:
		return Integer(x), nil
	case uint16:
		return Integer(x), nil
	case uint32:
		return Integer(x), nil
	case uint64:
		if x > 1<<63-1 {
			return nil, fmt.Errorf("integer value %d overflows int64", x)
		}
		return Integer(x), nil
	case float32:
		return Float(x), nil
	case float64:
		return Float(x), nil
	case time.Time:
		return Datetime(x), nil
	case []any:
		out := make(Array, len(x))
		for i, elem := range x {
			converted, err := FromGo(elem)
			if err != nil {
				return nil, err
			}
			out[i] = converted
		}
		return out, nil
	case map[string]any:
		out := make(Table, len(x))
		for k, elem := range x {
			converted, err := FromGo(elem)
			if err != nil {
				return nil, err
			}
			out[k] = converted
		}
		return out, nil
	case nil:
		return nil, fmt.Errorf("null values are not supported in configuration documents")
	default:
		return nil, fmt.Errorf("unsupported configuration value of type %T", v)
	}
}

// Equal reports whether two values are structurally equal: same variant and
// same contents, recursively. Table key order is irrelevant.
func Equal(a, b Value) bool {
	switch x := a.(type) {
	case String:
		y, ok := b.(String)
		return ok && x == y
	case Integer:
		y, ok := b.(Integer)
		return ok && x == y
	case Float:
		y, ok := b.(Float)
		return ok && x == y
	case Bool:
		y, ok := b.(Bool)
		return ok && x == y
	case Datetime:
		y, ok := b.(Datetime)
		return ok && time.Time(x).Equal(time.Time(y))
	case Array:
		y, ok := b.(Array)
		if !ok || len(x) != len(y) {
			return false
		}
		for i := range x {
			if !Equal(x[i], y[i]) {
				return false
			}
		}
		return true
	case Table:
		y, ok := b.(Table)
		if !ok || len(x) != len(y) {
			return false
		}
		for k, v := range x {
			other, present := y[k]
			if !present || !Equal(v, other) {
				return false
			}
		}
		return true
	default:
		return false
	}
}
