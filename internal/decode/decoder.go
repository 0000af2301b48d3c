package decode

import (
	"context"
	"fmt"

	"github.com/vk/typedconf/internal/ctxlog"
	"github.com/vk/typedconf/internal/rawval"
	"github.com/vk/typedconf/internal/registry"
	"github.com/vk/typedconf/internal/schema"
)

// Decoder instantiates registered aggregate types from raw document values.
// It holds no mutable state beyond the registry reference and is safe for
// concurrent use.
type Decoder struct {
	reg *registry.Registry
}

// New creates a decoder backed by the given registry.
func New(reg *registry.Registry) *Decoder {
	return &Decoder{reg: reg}
}

// Instantiate validates a raw value against the named registered type and
// returns the constructed instance. The raw value must be a mapping.
func (d *Decoder) Instantiate(ctx context.Context, typeName string, raw rawval.Value) (*Instance, error) {
	t, ok := d.reg.Lookup(typeName)
	if !ok {
		return nil, fmt.Errorf("type '%s' is not registered", typeName)
	}
	return d.instantiate(ctx, t, raw, typeName)
}

// InstantiateMap is the keyword-style entry point: it normalizes a native
// Go map into a raw mapping and decodes it like Instantiate.
func (d *Decoder) InstantiateMap(ctx context.Context, typeName string, fields map[string]any) (*Instance, error) {
	raw, err := rawval.FromGo(fields)
	if err != nil {
		return nil, fmt.Errorf("cannot normalize arguments for type '%s': %w", typeName, err)
	}
	return d.Instantiate(ctx, typeName, raw)
}

// instantiate runs the top-level algorithm for one aggregate: resolve every
// field in declaration order, then reject unknown keys, then construct the
// instance. name identifies the position in the document for diagnostics.
func (d *Decoder) instantiate(ctx context.Context, t *schema.Type, raw rawval.Value, name string) (*Instance, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Instantiating aggregate type.", "type", t.Name(), "fields", len(t.Fields()))

	if raw.Kind() != rawval.KindMapping {
		return nil, &WrongTypeError{Name: name, Expected: t.Name(), Value: raw}
	}

	fields := t.Fields()
	values := make([]FieldValue, len(fields))

	for i, f := range fields {
		v, present := raw.Lookup(f.SourceKey())
		if !present {
			if f.Required() {
				if t.IgnoresMissing() {
					continue
				}
				return nil, &MissingRequiredArgumentError{Field: f.Name(), Type: t.Name()}
			}
			dv, err := d.defaultValue(ctx, f)
			if err != nil {
				return nil, err
			}
			values[i] = FieldValue{Set: true, Value: dv}
			continue
		}

		cv, err := d.convert(ctx, f.SourceKey(), v, f.Descriptor())
		if err != nil {
			return nil, err
		}
		if !f.Allows(cv) {
			return nil, &WrongTypeError{Name: f.SourceKey(), Value: v, Options: f.Options()}
		}
		values[i] = FieldValue{Set: true, Value: cv}
	}

	if !t.IgnoresUnknown() {
		for _, e := range raw.Entries() {
			if e.Key.Kind() == rawval.KindString {
				if _, known := t.FieldBySourceKey(e.Key.AsString()); known {
					continue
				}
			}
			return nil, &UnknownArgumentError{Key: e.Key.String(), Value: e.Value}
		}
	}

	return &Instance{typ: t, values: values}, nil
}

// defaultValue produces the value of an absent optional field. Factories
// run fresh on every instantiation and their product is validated against
// the field's descriptor each time, so instances never share a default.
func (d *Decoder) defaultValue(ctx context.Context, f *schema.Field) (any, error) {
	if fn := f.Factory(); fn != nil {
		raw, err := rawval.FromGo(fn())
		if err != nil {
			return nil, fmt.Errorf("default factory for field '%s' produced an unsupported value: %w", f.Name(), err)
		}
		return d.convert(ctx, "default of "+f.Name(), raw, f.Descriptor())
	}
	lit, _ := f.Literal()
	return lit, nil
}

// convert validates a single raw value against a descriptor and returns its
// converted form. A null raw value satisfies any descriptor and converts to
// nil. name identifies the value's position for diagnostics.
func (d *Decoder) convert(ctx context.Context, name string, v rawval.Value, desc schema.Descriptor) (any, error) {
	if v.IsNull() {
		return nil, nil
	}
	if desc.IsAny() {
		return v, nil
	}

	if pk, ok := desc.Primitive(); ok {
		switch {
		case pk == schema.PrimBool && v.Kind() == rawval.KindBool:
			return v.AsBool(), nil
		case pk == schema.PrimInt && v.Kind() == rawval.KindInt:
			return v.AsInt(), nil
		case pk == schema.PrimFloat && v.Kind() == rawval.KindFloat:
			return v.AsFloat(), nil
		case pk == schema.PrimString && v.Kind() == rawval.KindString:
			return v.AsString(), nil
		}
		return nil, &WrongTypeError{Name: name, Expected: pk.String(), Value: v}
	}

	if ref, ok := desc.Object(); ok {
		return d.instantiate(ctx, ref, v, name)
	}

	if elem, ok := desc.Element(); ok {
		if v.Kind() != rawval.KindSequence {
			return nil, &WrongTypeError{Name: name, Expected: desc.FriendlyName(), Value: v}
		}
		out := make([]any, v.Len())
		for i, e := range v.Elems() {
			cv, err := d.convert(ctx, fmt.Sprintf("%s[%d]", name, i), e, elem)
			if err != nil {
				return nil, err
			}
			out[i] = cv
		}
		return out, nil
	}

	if keyDesc, valDesc, ok := desc.KeyValue(); ok {
		if v.Kind() != rawval.KindMapping {
			return nil, &WrongTypeError{Name: name, Expected: desc.FriendlyName(), Value: v}
		}
		m := &Mapping{entries: make([]MapEntry, 0, v.Len())}
		for _, e := range v.Entries() {
			ck, err := d.convert(ctx, e.Key.String(), e.Key, keyDesc)
			if err != nil {
				return nil, err
			}
			cv, err := d.convert(ctx, fmt.Sprintf("%s[%s]", name, e.Key), e.Value, valDesc)
			if err != nil {
				return nil, err
			}
			m.entries = append(m.entries, MapEntry{Key: ck, Value: cv})
		}
		return m, nil
	}

	// Finalized schemas never carry an unresolvable descriptor.
	return nil, &WrongTypeError{Name: name, Expected: desc.FriendlyName(), Value: v}
}
