package schema

import (
	"fmt"
)

// Type is the ordered schema of one aggregate type. It is assembled with
// NewType, optionally relaxed with IgnoreMissing/IgnoreUnknown, and frozen
// by Finalize when the type is registered. Field order is declaration order
// and governs the rendered form.
type Type struct {
	name   string
	fields []*Field
	byKey  map[string]*Field

	ignoreMissing bool
	ignoreUnknown bool
	frozen        bool
}

// NewType declares an aggregate type with the given fields, in order. The
// type is not usable until it has been registered.
func NewType(name string, fields ...*Field) *Type {
	return &Type{name: name, fields: fields}
}

// IgnoreMissing relaxes the schema so absent required fields are left unset
// instead of failing instantiation.
func (t *Type) IgnoreMissing() *Type {
	t.mustBeMutable()
	t.ignoreMissing = true
	return t
}

// IgnoreUnknown relaxes the schema so raw keys matching no field are
// skipped instead of failing instantiation.
func (t *Type) IgnoreUnknown() *Type {
	t.mustBeMutable()
	t.ignoreUnknown = true
	return t
}

func (t *Type) mustBeMutable() {
	if t.frozen {
		panic(fmt.Sprintf("type '%s' is already registered and cannot be modified", t.name))
	}
}

// Name returns the aggregate type's name.
func (t *Type) Name() string { return t.name }

// Fields returns the field schemas in declaration order. The returned slice
// is shared and must not be modified.
func (t *Type) Fields() []*Field { return t.fields }

// FieldBySourceKey finds the field looked up under the given raw key.
func (t *Type) FieldBySourceKey(key string) (*Field, bool) {
	if t.byKey != nil {
		f, ok := t.byKey[key]
		return f, ok
	}
	for _, f := range t.fields {
		if f.sourceKey == key {
			return f, true
		}
	}
	return nil, false
}

// IgnoresMissing reports whether absent required fields are tolerated.
func (t *Type) IgnoresMissing() bool { return t.ignoreMissing }

// IgnoresUnknown reports whether unrecognized raw keys are tolerated.
func (t *Type) IgnoresUnknown() bool { return t.ignoreUnknown }

// Frozen reports whether the type has been finalized by registration.
func (t *Type) Frozen() bool { return t.frozen }

// Finalize validates every field contract and freezes the schema. It is
// called by the registry during registration; calling it twice is an error
// for a schema that failed the first time and a no-op for one that passed.
func (t *Type) Finalize() error {
	if t.frozen {
		return nil
	}
	if t.name == "" {
		return fmt.Errorf("aggregate type has an empty name")
	}

	names := make(map[string]struct{}, len(t.fields))
	byKey := make(map[string]*Field, len(t.fields))
	for _, f := range t.fields {
		if f == nil {
			return fmt.Errorf("type '%s' contains a nil field", t.name)
		}
		if err := f.validate(); err != nil {
			return fmt.Errorf("type '%s': %w", t.name, err)
		}
		if _, dup := names[f.name]; dup {
			return fmt.Errorf("type '%s': duplicate field name '%s'", t.name, f.name)
		}
		names[f.name] = struct{}{}
		if _, dup := byKey[f.sourceKey]; dup {
			return fmt.Errorf("type '%s': duplicate source key '%s'", t.name, f.sourceKey)
		}
		byKey[f.sourceKey] = f
	}

	t.byKey = byKey
	t.frozen = true
	return nil
}
