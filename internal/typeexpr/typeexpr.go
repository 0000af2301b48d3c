// Package typeexpr parses HCL type expressions (e.g. `string`, `list(int)`,
// `map(string, int)`, a registered aggregate name) into schema descriptors.
//
// Unparameterized `list` and `map` keywords are rejected outright: element
// typing is explicit, and a declaration the parser cannot classify fails at
// registration time rather than surfacing later against a document.
package typeexpr

import (
	"context"
	"fmt"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/hclsyntax"
	"github.com/vk/typedconf/internal/ctxlog"
	"github.com/vk/typedconf/internal/schema"
)

// Lookup resolves aggregate type names. It is satisfied by
// *registry.Registry.
type Lookup interface {
	Lookup(name string) (*schema.Type, bool)
}

// Parse converts an HCL type expression into its schema.Descriptor
// equivalent. Bare aggregate names are resolved through types, which means
// a type must be registered before any expression can reference it.
func Parse(ctx context.Context, expr hcl.Expression, types Lookup) (schema.Descriptor, error) {
	logger := ctxlog.FromContext(ctx)

	switch v := expr.(type) {
	case *hclsyntax.FunctionCallExpr:
		logger.Debug("Parsing type expression as a constructor call.", "call", v.Name)
		switch v.Name {
		case "list":
			if len(v.Args) != 1 {
				return schema.Descriptor{}, fmt.Errorf("the list(...) type constructor requires exactly one argument, got %d", len(v.Args))
			}
			elem, err := Parse(ctx, v.Args[0], types)
			if err != nil {
				return schema.Descriptor{}, err
			}
			return schema.ListOf(elem), nil
		case "map":
			if len(v.Args) != 2 {
				return schema.Descriptor{}, fmt.Errorf("the map(...) type constructor requires exactly two arguments (key and value), got %d", len(v.Args))
			}
			key, err := Parse(ctx, v.Args[0], types)
			if err != nil {
				return schema.Descriptor{}, err
			}
			val, err := Parse(ctx, v.Args[1], types)
			if err != nil {
				return schema.Descriptor{}, err
			}
			return schema.MapOf(key, val), nil
		default:
			return schema.Descriptor{}, fmt.Errorf("unknown type constructor function %q", v.Name)
		}

	case *hclsyntax.ScopeTraversalExpr:
		if len(v.Traversal) != 1 {
			return schema.Descriptor{}, fmt.Errorf("invalid type keyword: traversal path is not a single identifier")
		}
		rootName := v.Traversal.RootName()
		logger.Debug("Parsing type expression as a keyword.", "keyword", rootName)
		switch rootName {
		case "bool":
			return schema.Bool(), nil
		case "int":
			return schema.Int(), nil
		case "float":
			return schema.Float(), nil
		case "string":
			return schema.String(), nil
		case "any":
			return schema.Any(), nil
		case "list", "map":
			return schema.Descriptor{}, fmt.Errorf("untyped '%s' is not allowed; add type parameter(s)", rootName)
		default:
			ref, ok := types.Lookup(rootName)
			if !ok {
				return schema.Descriptor{}, fmt.Errorf("type '%s' is not registered; declare aggregate types before they are referenced", rootName)
			}
			return schema.ObjectOf(ref), nil
		}

	default:
		return schema.Descriptor{}, fmt.Errorf("unsupported expression for type definition: %T", v)
	}
}

// ParseString parses a type expression from source text. Intended for tests
// and programmatic schema construction.
func ParseString(ctx context.Context, src string, types Lookup) (schema.Descriptor, error) {
	expr, diags := hclsyntax.ParseExpression([]byte(src), "<type>", hcl.Pos{Line: 1, Column: 1})
	if diags.HasErrors() {
		return schema.Descriptor{}, fmt.Errorf("failed to parse type expression %q: %s", src, diags.Error())
	}
	return Parse(ctx, expr, types)
}
