package decode

import (
	"fmt"
	"strings"

	"github.com/vk/typedconf/internal/rawval"
)

// MissingRequiredArgumentError reports a required field absent from the raw
// mapping.
type MissingRequiredArgumentError struct {
	Field string
	Type  string
}

func (e *MissingRequiredArgumentError) Error() string {
	return fmt.Sprintf("missing required argument '%s' for '%s'", e.Field, e.Type)
}

// UnknownArgumentError reports a raw mapping key that matches no field's
// source key.
type UnknownArgumentError struct {
	Key   string
	Value rawval.Value
}

func (e *UnknownArgumentError) Error() string {
	return fmt.Sprintf("unknown argument '%s' of type '%s' with key '%s'", e.Value, e.Value.Kind(), e.Key)
}

// WrongTypeError reports a value that does not match its declared type, or
// a value outside a field's allowed options. Name identifies the field,
// element position, or mapping key that failed.
type WrongTypeError struct {
	Name     string
	Expected string
	Value    rawval.Value
	Options  []any
}

func (e *WrongTypeError) Error() string {
	if len(e.Options) > 0 {
		parts := make([]string, len(e.Options))
		for i, opt := range e.Options {
			parts[i] = fmt.Sprintf("%v", opt)
		}
		return fmt.Sprintf("value '%s' for key '%s' is not an option; choose one of: [%s]", e.Value, e.Name, strings.Join(parts, ", "))
	}
	return fmt.Sprintf("wrong type '%s' with value '%s' for key '%s': expected '%s'", e.Value.Kind(), e.Value, e.Name, e.Expected)
}
