package decode

import (
	"github.com/vk/typedconf/internal/rawval"
	"github.com/vk/typedconf/internal/schema"
)

// FieldValue is one resolved field of an instance. Set is false only when a
// schema with IgnoreMissing tolerated an absent required field.
type FieldValue struct {
	Set   bool
	Value any
}

// Instance is a fully validated value of a registered aggregate type. Field
// values are held in schema declaration order and are one of: bool, int64,
// float64, string, nil (null raw value), *Instance, []any, *Mapping, or
// rawval.Value for fields declared 'any'.
type Instance struct {
	typ    *schema.Type
	values []FieldValue
}

// Type returns the schema this instance was validated against.
func (i *Instance) Type() *schema.Type { return i.typ }

// Values returns the field values in schema declaration order.
func (i *Instance) Values() []FieldValue { return i.values }

// Get returns the value of the named field. The second result is false if
// the field does not exist or was left unset.
func (i *Instance) Get(name string) (any, bool) {
	for idx, f := range i.typ.Fields() {
		if f.Name() == name {
			fv := i.values[idx]
			return fv.Value, fv.Set
		}
	}
	return nil, false
}

// MapEntry is one converted key/value pair of a decoded mapping field.
type MapEntry struct {
	Key   any
	Value any
}

// Mapping is a decoded mapping field value. Entries preserve the key order
// of the raw document so rendering stays deterministic.
type Mapping struct {
	entries []MapEntry
}

// Entries returns the converted pairs in document order.
func (m *Mapping) Entries() []MapEntry { return m.entries }

// Len returns the number of entries.
func (m *Mapping) Len() int { return len(m.entries) }

// Get returns the value stored under the given converted key.
func (m *Mapping) Get(key any) (any, bool) {
	for _, e := range m.entries {
		if keyEqual(e.Key, key) {
			return e.Value, true
		}
	}
	return nil, false
}

// keyEqual compares converted mapping keys. Keys are scalars except under
// an 'any' key type, where they stay raw values, which are not comparable
// with == and are matched on their rendered form instead.
func keyEqual(a, b any) bool {
	av, aok := a.(rawval.Value)
	bv, bok := b.(rawval.Value)
	if aok || bok {
		return aok && bok && av.String() == bv.String()
	}
	return a == b
}
