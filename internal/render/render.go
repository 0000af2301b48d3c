// Package render builds the canonical string form of a decoded instance:
// TypeName(field=value, ...) with fields in schema declaration order,
// recursing into nested instances and containers. Strings are rendered
// unquoted; output depends only on the instance, never on the raw
// document's key order.
package render

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vk/typedconf/internal/decode"
	"github.com/vk/typedconf/internal/rawval"
)

// Instance renders an instance in its canonical form. Fields left unset by
// a schema that ignores missing arguments are omitted.
func Instance(inst *decode.Instance) string {
	var b strings.Builder
	b.WriteString(inst.Type().Name())
	b.WriteByte('(')

	values := inst.Values()
	first := true
	for i, f := range inst.Type().Fields() {
		fv := values[i]
		if !fv.Set {
			continue
		}
		if !first {
			b.WriteString(", ")
		}
		first = false
		b.WriteString(f.Name())
		b.WriteByte('=')
		b.WriteString(Value(fv.Value))
	}

	b.WriteByte(')')
	return b.String()
}

// Value renders a single converted field value in its natural literal form.
func Value(v any) string {
	switch x := v.(type) {
	case nil:
		return "null"
	case bool:
		return strconv.FormatBool(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'g', -1, 64)
	case string:
		return x
	case rawval.Value:
		return x.String()
	case *decode.Instance:
		return Instance(x)
	case []any:
		parts := make([]string, len(x))
		for i, e := range x {
			parts[i] = Value(e)
		}
		return "[" + strings.Join(parts, ", ") + "]"
	case *decode.Mapping:
		entries := x.Entries()
		parts := make([]string, len(entries))
		for i, e := range entries {
			parts[i] = Value(e.Key) + ": " + Value(e.Value)
		}
		return "{" + strings.Join(parts, ", ") + "}"
	default:
		return fmt.Sprintf("%v", x)
	}
}
