package schema

import (
	"fmt"
)

// Field is the full contract of one declared field: its target name, the
// source key used for lookup in the raw mapping, its type descriptor, and
// the optional default and allowed-options configuration. A field is
// required exactly when it carries no default.
type Field struct {
	name        string
	sourceKey   string
	desc        Descriptor
	description string

	hasLiteral bool
	literal    any
	factory    func() any

	options []any
}

// FieldOption configures a single field at declaration time.
type FieldOption func(*Field)

// Alias renames the source key used to look the field up in the raw
// mapping. The target name is unchanged.
func Alias(sourceKey string) FieldOption {
	return func(f *Field) { f.sourceKey = sourceKey }
}

// Default makes the field optional with a literal scalar default. The
// literal's type is checked against the field's descriptor at registration.
func Default(v any) FieldOption {
	return func(f *Field) {
		f.hasLiteral = true
		f.literal = v
	}
}

// DefaultFunc makes the field optional with a factory default. The factory
// runs once per instantiation and its result is validated against the
// field's descriptor on every call, so container defaults are never shared
// between instances.
func DefaultFunc(fn func() any) FieldOption {
	return func(f *Field) { f.factory = fn }
}

// Options restricts the field's converted value to a finite set of scalars.
// Each member must match the field's primitive kind.
func Options(vals ...any) FieldOption {
	return func(f *Field) { f.options = vals }
}

// Description attaches documentation text to the field. It has no effect on
// decoding.
func Description(text string) FieldOption {
	return func(f *Field) { f.description = text }
}

// F declares a single field. The source key defaults to the field name
// unless Alias is given.
func F(name string, desc Descriptor, opts ...FieldOption) *Field {
	f := &Field{name: name, sourceKey: name, desc: desc}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

// Name returns the field's target name.
func (f *Field) Name() string { return f.name }

// SourceKey returns the key used to look the field up in the raw mapping.
func (f *Field) SourceKey() string { return f.sourceKey }

// Descriptor returns the field's type descriptor.
func (f *Field) Descriptor() Descriptor { return f.desc }

// Description returns the field's documentation text, if any.
func (f *Field) Description() string { return f.description }

// Required reports whether the field must be present in the raw mapping.
func (f *Field) Required() bool { return !f.hasLiteral && f.factory == nil }

// Literal returns the literal default and whether one was declared.
func (f *Field) Literal() (any, bool) { return f.literal, f.hasLiteral }

// Factory returns the factory default, or nil.
func (f *Field) Factory() func() any { return f.factory }

// Options returns the allowed value set, or nil.
func (f *Field) Options() []any { return f.options }

// Allows reports whether a converted value passes the field's options
// constraint. Fields without options allow everything.
func (f *Field) Allows(v any) bool {
	if len(f.options) == 0 {
		return true
	}
	return memberOf(v, f.options)
}

// validate checks the field's own contract: descriptor resolvability, the
// literal default against the descriptor, and every option against the
// field's primitive kind.
func (f *Field) validate() error {
	if f.name == "" {
		return fmt.Errorf("field with source key '%s' has an empty name", f.sourceKey)
	}
	if err := f.desc.validate(f.name); err != nil {
		return err
	}
	if f.hasLiteral && f.factory != nil {
		return fmt.Errorf("field '%s' declares both a literal default and a default factory", f.name)
	}

	if f.hasLiteral {
		norm, ok := normalizeScalar(f.literal)
		if !ok {
			return fmt.Errorf("field '%s': literal defaults must be scalars, got %T; use a factory for container defaults", f.name, f.literal)
		}
		f.literal = norm
		if err := scalarMatches(f.name, "default", norm, f.desc); err != nil {
			return err
		}
	}

	if len(f.options) > 0 {
		pk, isPrim := f.desc.Primitive()
		if !isPrim {
			return fmt.Errorf("field '%s': options are only supported for primitive-typed fields, not '%s'", f.name, f.desc.FriendlyName())
		}
		for i, opt := range f.options {
			norm, ok := normalizeScalar(opt)
			if !ok {
				return fmt.Errorf("field '%s': option %d is not a scalar (%T)", f.name, i, opt)
			}
			f.options[i] = norm
			if !scalarIsKind(norm, pk) {
				return fmt.Errorf("field '%s': option '%v' does not match the field type '%s'", f.name, norm, pk)
			}
		}
		if f.hasLiteral && !memberOf(f.literal, f.options) {
			return fmt.Errorf("field '%s': default '%v' is not one of the allowed options", f.name, f.literal)
		}
	}
	return nil
}

// normalizeScalar widens a native Go scalar to the canonical runtime forms:
// bool, int64, float64, or string.
func normalizeScalar(v any) (any, bool) {
	switch x := v.(type) {
	case bool, int64, float64, string:
		return x, true
	case int:
		return int64(x), true
	case int8:
		return int64(x), true
	case int16:
		return int64(x), true
	case int32:
		return int64(x), true
	case uint:
		return int64(x), true
	case uint8:
		return int64(x), true
	case uint16:
		return int64(x), true
	case uint32:
		return int64(x), true
	case float32:
		return float64(x), true
	default:
		return nil, false
	}
}

// scalarIsKind reports whether a canonical scalar is of the given kind.
func scalarIsKind(v any, k PrimitiveKind) bool {
	switch v.(type) {
	case bool:
		return k == PrimBool
	case int64:
		return k == PrimInt
	case float64:
		return k == PrimFloat
	case string:
		return k == PrimString
	default:
		return false
	}
}

// scalarMatches checks a canonical scalar against a descriptor. Only
// primitive and any descriptors can carry scalar defaults.
func scalarMatches(fieldName, what string, v any, desc Descriptor) error {
	if desc.IsAny() {
		return nil
	}
	pk, isPrim := desc.Primitive()
	if !isPrim {
		return fmt.Errorf("field '%s': %s '%v' cannot satisfy type '%s'; use a factory for container defaults", fieldName, what, v, desc.FriendlyName())
	}
	if !scalarIsKind(v, pk) {
		return fmt.Errorf("field '%s': %s '%v' of type %T does not match the declared type '%s'", fieldName, what, v, v, pk)
	}
	return nil
}

// memberOf reports whether a canonical scalar equals one of the options.
func memberOf(v any, options []any) bool {
	for _, opt := range options {
		if v == opt {
			return true
		}
	}
	return false
}
