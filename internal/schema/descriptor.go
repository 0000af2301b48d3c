package schema

import (
	"fmt"
)

// PrimitiveKind identifies one of the four scalar kinds a field may declare.
// Bool and int are distinct kinds; no coercion happens between any of them.
type PrimitiveKind int

const (
	PrimBool PrimitiveKind = iota + 1
	PrimInt
	PrimFloat
	PrimString
)

// String returns the kind's declaration keyword.
func (k PrimitiveKind) String() string {
	switch k {
	case PrimBool:
		return "bool"
	case PrimInt:
		return "int"
	case PrimFloat:
		return "float"
	case PrimString:
		return "string"
	default:
		return fmt.Sprintf("unknown(%d)", int(k))
	}
}

type descriptorKind int

const (
	descInvalid descriptorKind = iota
	descPrimitive
	descAggregate
	descSequence
	descMapping
	descAny
)

// Descriptor is the resolved, closed form of a field's declared type. The
// zero value is invalid and is rejected at registration.
type Descriptor struct {
	kind descriptorKind
	prim PrimitiveKind
	elem *Descriptor
	key  *Descriptor
	val  *Descriptor
	ref  *Type
}

// Bool declares a bool field.
func Bool() Descriptor { return Descriptor{kind: descPrimitive, prim: PrimBool} }

// Int declares an int field.
func Int() Descriptor { return Descriptor{kind: descPrimitive, prim: PrimInt} }

// Float declares a float field.
func Float() Descriptor { return Descriptor{kind: descPrimitive, prim: PrimFloat} }

// String declares a string field.
func String() Descriptor { return Descriptor{kind: descPrimitive, prim: PrimString} }

// Any declares a field that accepts any raw value unconverted.
func Any() Descriptor { return Descriptor{kind: descAny} }

// ListOf declares an ordered sequence with the given element type.
func ListOf(elem Descriptor) Descriptor {
	return Descriptor{kind: descSequence, elem: &elem}
}

// MapOf declares a mapping with the given key and value types. Key types are
// restricted to string, int, float, or any.
func MapOf(key, value Descriptor) Descriptor {
	return Descriptor{kind: descMapping, key: &key, val: &value}
}

// ObjectOf declares a nested aggregate field referencing an already-built
// type. The referenced type must be registered before (or together with) the
// type that uses it.
func ObjectOf(t *Type) Descriptor {
	return Descriptor{kind: descAggregate, ref: t}
}

// IsAny reports whether the descriptor is the pass-through 'any' type.
func (d Descriptor) IsAny() bool { return d.kind == descAny }

// Primitive returns the scalar kind if the descriptor is a primitive.
func (d Descriptor) Primitive() (PrimitiveKind, bool) {
	if d.kind != descPrimitive {
		return 0, false
	}
	return d.prim, true
}

// Element returns the element descriptor if the descriptor is a sequence.
func (d Descriptor) Element() (Descriptor, bool) {
	if d.kind != descSequence || d.elem == nil {
		return Descriptor{}, false
	}
	return *d.elem, true
}

// KeyValue returns the key and value descriptors if the descriptor is a
// mapping.
func (d Descriptor) KeyValue() (Descriptor, Descriptor, bool) {
	if d.kind != descMapping || d.key == nil || d.val == nil {
		return Descriptor{}, Descriptor{}, false
	}
	return *d.key, *d.val, true
}

// Object returns the referenced aggregate type if the descriptor is an
// aggregate.
func (d Descriptor) Object() (*Type, bool) {
	if d.kind != descAggregate {
		return nil, false
	}
	return d.ref, d.ref != nil
}

// FriendlyName renders the descriptor the way it would be declared, for use
// in diagnostics.
func (d Descriptor) FriendlyName() string {
	switch d.kind {
	case descPrimitive:
		return d.prim.String()
	case descAny:
		return "any"
	case descSequence:
		if d.elem == nil {
			return "list(?)"
		}
		return "list(" + d.elem.FriendlyName() + ")"
	case descMapping:
		if d.key == nil || d.val == nil {
			return "map(?, ?)"
		}
		return "map(" + d.key.FriendlyName() + ", " + d.val.FriendlyName() + ")"
	case descAggregate:
		if d.ref == nil {
			return "object(?)"
		}
		return d.ref.Name()
	default:
		return "invalid"
	}
}

// refs appends every aggregate type the descriptor reaches, recursively.
func (d Descriptor) refs(acc []*Type) []*Type {
	switch d.kind {
	case descAggregate:
		if d.ref != nil {
			acc = append(acc, d.ref)
		}
	case descSequence:
		if d.elem != nil {
			acc = d.elem.refs(acc)
		}
	case descMapping:
		if d.key != nil {
			acc = d.key.refs(acc)
		}
		if d.val != nil {
			acc = d.val.refs(acc)
		}
	}
	return acc
}

// Refs returns every aggregate type referenced anywhere inside the
// descriptor. The registry uses this to enforce declare-before-use ordering.
func (d Descriptor) Refs() []*Type {
	return d.refs(nil)
}

// validate rejects unresolvable declarations: the zero descriptor, container
// types missing their parameters, and mapping keys outside the allowed kinds.
func (d Descriptor) validate(fieldName string) error {
	switch d.kind {
	case descPrimitive, descAny:
		return nil
	case descAggregate:
		if d.ref == nil {
			return fmt.Errorf("field '%s' references a nil aggregate type", fieldName)
		}
		return nil
	case descSequence:
		if d.elem == nil || d.elem.kind == descInvalid {
			return fmt.Errorf("field '%s' declares an untyped list; an element type is required", fieldName)
		}
		return d.elem.validate(fieldName)
	case descMapping:
		if d.key == nil || d.val == nil || d.key.kind == descInvalid || d.val.kind == descInvalid {
			return fmt.Errorf("field '%s' declares an untyped map; key and value types are required", fieldName)
		}
		if !d.key.allowedAsMapKey() {
			return fmt.Errorf("field '%s' declares map key type '%s'; only string, int, float, or any are allowed", fieldName, d.key.FriendlyName())
		}
		if err := d.key.validate(fieldName); err != nil {
			return err
		}
		return d.val.validate(fieldName)
	default:
		return fmt.Errorf("field '%s' has no type", fieldName)
	}
}

func (d Descriptor) allowedAsMapKey() bool {
	if d.kind == descAny {
		return true
	}
	if d.kind != descPrimitive {
		return false
	}
	return d.prim == PrimString || d.prim == PrimInt || d.prim == PrimFloat
}
