// Package rawval defines the tagged representation of an already-decoded
// document node: a scalar, an ordered sequence, or a key-ordered mapping.
//
// Every front-end (YAML, JSON, Go maps) normalizes into this one shape before
// the decoder sees it, so the decoder never depends on a parser library and
// never loses the distinction between scalar kinds (an int is not a float,
// a numeric string is not an int).
package rawval

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
)

// Kind identifies the shape of a Value.
type Kind int

const (
	KindNull Kind = iota
	KindBool
	KindInt
	KindFloat
	KindString
	KindSequence
	KindMapping
)

// String returns the kind's name as used in diagnostics.
func (k Kind) String() string {
	switch k {
	case KindNull:
		return "null"
	case KindBool:
		return "bool"
	case KindInt:
		return "int"
	case KindFloat:
		return "float"
	case KindString:
		return "string"
	case KindSequence:
		return "sequence"
	case KindMapping:
		return "mapping"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

// Entry is one key/value pair of a mapping, in document order.
type Entry struct {
	Key   Value
	Value Value
}

// Value is one node of a raw document. The zero value is the null value.
type Value struct {
	kind Kind
	b    bool
	i    int64
	f    float64
	s    string
	seq  []Value
	ents []Entry
}

// Null returns the null value.
func Null() Value { return Value{kind: KindNull} }

// Bool returns a bool scalar.
func Bool(b bool) Value { return Value{kind: KindBool, b: b} }

// Int returns an int scalar.
func Int(i int64) Value { return Value{kind: KindInt, i: i} }

// Float returns a float scalar.
func Float(f float64) Value { return Value{kind: KindFloat, f: f} }

// String returns a string scalar.
func String(s string) Value { return Value{kind: KindString, s: s} }

// Sequence returns an ordered sequence of the given elements.
func Sequence(elems ...Value) Value {
	return Value{kind: KindSequence, seq: elems}
}

// Mapping returns a mapping holding the given entries in order.
func Mapping(entries ...Entry) Value {
	return Value{kind: KindMapping, ents: entries}
}

// Kind reports the shape of the value.
func (v Value) Kind() Kind { return v.kind }

// IsNull reports whether the value is null.
func (v Value) IsNull() bool { return v.kind == KindNull }

// AsBool returns the bool payload. Valid only for KindBool.
func (v Value) AsBool() bool { return v.b }

// AsInt returns the int payload. Valid only for KindInt.
func (v Value) AsInt() int64 { return v.i }

// AsFloat returns the float payload. Valid only for KindFloat.
func (v Value) AsFloat() float64 { return v.f }

// AsString returns the string payload. Valid only for KindString.
func (v Value) AsString() string { return v.s }

// Elems returns the elements of a sequence in document order.
func (v Value) Elems() []Value { return v.seq }

// Entries returns the entries of a mapping in document order.
func (v Value) Entries() []Entry { return v.ents }

// Len returns the element or entry count of a container, 0 otherwise.
func (v Value) Len() int {
	switch v.kind {
	case KindSequence:
		return len(v.seq)
	case KindMapping:
		return len(v.ents)
	default:
		return 0
	}
}

// Lookup finds the value stored under a string key of a mapping. Keys of
// other scalar kinds never match.
func (v Value) Lookup(key string) (Value, bool) {
	for _, e := range v.ents {
		if e.Key.kind == KindString && e.Key.s == key {
			return e.Value, true
		}
	}
	return Value{}, false
}

// Scalar returns the native Go form of a scalar value: nil, bool, int64,
// float64, or string. Containers return nil.
func (v Value) Scalar() any {
	switch v.kind {
	case KindBool:
		return v.b
	case KindInt:
		return v.i
	case KindFloat:
		return v.f
	case KindString:
		return v.s
	default:
		return nil
	}
}

// String renders the value in its natural literal form: scalars bare,
// sequences as [a, b], mappings as {k: v}. Strings are unquoted.
func (v Value) String() string {
	switch v.kind {
	case KindNull:
		return "null"
	case KindBool:
		return strconv.FormatBool(v.b)
	case KindInt:
		return strconv.FormatInt(v.i, 10)
	case KindFloat:
		return strconv.FormatFloat(v.f, 'g', -1, 64)
	case KindString:
		return v.s
	case KindSequence:
		parts := make([]string, len(v.seq))
		for i, e := range v.seq {
			parts[i] = e.String()
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case KindMapping:
		parts := make([]string, len(v.ents))
		for i, e := range v.ents {
			parts[i] = e.Key.String() + ": " + e.Value.String()
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return "<invalid>"
	}
}

// FromGo converts a native Go value into a Value. It accepts nil, bool, all
// int and uint widths, float32/64, string, []any, map[string]any, and Value
// itself. Map keys are sorted so the resulting mapping has a deterministic
// order regardless of Go's map iteration.
func FromGo(v any) (Value, error) {
	switch x := v.(type) {
	case nil:
		return Null(), nil
	case Value:
		return x, nil
	case bool:
		return Bool(x), nil
	case int:
		return Int(int64(x)), nil
	case int8:
		return Int(int64(x)), nil
	case int16:
		return Int(int64(x)), nil
	case int32:
		return Int(int64(x)), nil
	case int64:
		return Int(x), nil
	case uint:
		return Int(int64(x)), nil
	case uint8:
		return Int(int64(x)), nil
	case uint16:
		return Int(int64(x)), nil
	case uint32:
		return Int(int64(x)), nil
	case uint64:
		if x > uint64(1)<<63-1 {
			return Value{}, fmt.Errorf("uint64 value %d overflows int", x)
		}
		return Int(int64(x)), nil
	case float32:
		return Float(float64(x)), nil
	case float64:
		return Float(x), nil
	case string:
		return String(x), nil
	case []any:
		elems := make([]Value, len(x))
		for i, e := range x {
			ev, err := FromGo(e)
			if err != nil {
				return Value{}, fmt.Errorf("in element %d: %w", i, err)
			}
			elems[i] = ev
		}
		return Sequence(elems...), nil
	case map[string]any:
		keys := make([]string, 0, len(x))
		for k := range x {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		entries := make([]Entry, 0, len(x))
		for _, k := range keys {
			ev, err := FromGo(x[k])
			if err != nil {
				return Value{}, fmt.Errorf("in key '%s': %w", k, err)
			}
			entries = append(entries, Entry{Key: String(k), Value: ev})
		}
		return Mapping(entries...), nil
	default:
		return Value{}, fmt.Errorf("unsupported value of type %T", v)
	}
}
