// Package manifest loads aggregate type declarations from HCL manifest
// files and registers them.
//
// A manifest declares types in the order they may reference each other:
//
//	type "Endpoint" {
//	  field "host" { type = string }
//	  field "port" {
//	    type    = int
//	    default = 8080
//	  }
//	}
//	type "Service" {
//	  field "name" {
//	    type  = string
//	    alias = "service_name"
//	  }
//	  field "endpoints" { type = list(Endpoint) }
//	  field "env" {
//	    type    = string
//	    default = "dev"
//	    options = ["dev", "prod"]
//	  }
//	}
//
// Defaults and options must be literal values; factory defaults are only
// available through the programmatic schema builder.
package manifest

import (
	"context"
	"fmt"
	"math/big"

	"github.com/hashicorp/hcl/v2"
	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
	"github.com/vk/typedconf/internal/ctxlog"
	"github.com/vk/typedconf/internal/fsutil"
	"github.com/vk/typedconf/internal/registry"
	"github.com/vk/typedconf/internal/schema"
	"github.com/vk/typedconf/internal/typeexpr"
	"github.com/zclconf/go-cty/cty"
)

var rootSchema = &hcl.BodySchema{
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "type", LabelNames: []string{"name"}},
	},
}

var typeBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		{Name: "ignore_missing"},
		{Name: "ignore_unknown"},
	},
	Blocks: []hcl.BlockHeaderSchema{
		{Type: "field", LabelNames: []string{"name"}},
	},
}

var fieldBodySchema = &hcl.BodySchema{
	Attributes: []hcl.AttributeSchema{
		// `type` is required, but we check for its existence manually to
		// provide a better error message.
		{Name: "type"},
		{Name: "alias"},
		{Name: "default"},
		{Name: "options"},
		{Name: "description"},
	},
}

// LoadPaths discovers every .hcl manifest under the given paths and
// registers all declared types, in file walk order. Types must be declared
// before they are referenced, including across files.
func LoadPaths(ctx context.Context, reg *registry.Registry, paths ...string) error {
	logger := ctxlog.FromContext(ctx)
	for _, path := range paths {
		filePaths, err := fsutil.FindFilesByExtension(path, ".hcl")
		if err != nil {
			return fmt.Errorf("failed to walk manifest path %s: %w", path, err)
		}
		if len(filePaths) == 0 {
			logger.Warn("No .hcl manifest files found in path.", "path", path)
			continue
		}
		for _, filePath := range filePaths {
			if err := LoadFile(ctx, reg, filePath); err != nil {
				return err
			}
		}
	}
	logger.Info("Type manifests loaded.", "types", reg.Names())
	return nil
}

// LoadFile parses a single manifest file and registers its types.
func LoadFile(ctx context.Context, reg *registry.Registry, filePath string) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(filePath)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse manifest file %s: %s", filePath, diags.Error())
	}
	return loadBody(ctx, reg, file.Body)
}

// LoadSource parses manifest source text and registers its types. The
// filename is used for diagnostics only.
func LoadSource(ctx context.Context, reg *registry.Registry, filename string, src []byte) error {
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCL(src, filename)
	if diags.HasErrors() {
		return fmt.Errorf("failed to parse manifest %s: %s", filename, diags.Error())
	}
	return loadBody(ctx, reg, file.Body)
}

func loadBody(ctx context.Context, reg *registry.Registry, body hcl.Body) error {
	logger := ctxlog.FromContext(ctx)

	content, diags := body.Content(rootSchema)
	if diags.HasErrors() {
		return fmt.Errorf("invalid manifest structure: %s", diags.Error())
	}

	for _, block := range content.Blocks.OfType("type") {
		typeName := block.Labels[0]
		logger.Debug("Building type from manifest block.", "type", typeName, "range", block.DefRange.String())

		t, err := buildType(ctx, reg, typeName, block)
		if err != nil {
			return err
		}
		if err := reg.Register(t); err != nil {
			return fmt.Errorf("at %s: %w", block.DefRange.String(), err)
		}
	}
	return nil
}

func buildType(ctx context.Context, reg *registry.Registry, typeName string, block *hcl.Block) (*schema.Type, error) {
	content, diags := block.Body.Content(typeBodySchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid body for type '%s': %s", typeName, diags.Error())
	}

	var fields []*schema.Field
	for _, fieldBlock := range content.Blocks.OfType("field") {
		f, err := buildField(ctx, reg, typeName, fieldBlock)
		if err != nil {
			return nil, err
		}
		fields = append(fields, f)
	}

	t := schema.NewType(typeName, fields...)
	if set, err := boolAttr(content.Attributes, "ignore_missing"); err != nil {
		return nil, fmt.Errorf("in type '%s': %w", typeName, err)
	} else if set {
		t.IgnoreMissing()
	}
	if set, err := boolAttr(content.Attributes, "ignore_unknown"); err != nil {
		return nil, fmt.Errorf("in type '%s': %w", typeName, err)
	} else if set {
		t.IgnoreUnknown()
	}
	return t, nil
}

func buildField(ctx context.Context, reg *registry.Registry, typeName string, block *hcl.Block) (*schema.Field, error) {
	fieldName := block.Labels[0]

	content, diags := block.Body.Content(fieldBodySchema)
	if diags.HasErrors() {
		return nil, fmt.Errorf("invalid body for field '%s' of type '%s': %s", fieldName, typeName, diags.Error())
	}

	typeAttr, exists := content.Attributes["type"]
	if !exists {
		return nil, fmt.Errorf("field '%s' of type '%s' at %s is missing the required 'type' attribute", fieldName, typeName, block.DefRange.String())
	}
	desc, err := typeexpr.Parse(ctx, typeAttr.Expr, reg)
	if err != nil {
		return nil, fmt.Errorf("in type '%s', field '%s': %w", typeName, fieldName, err)
	}

	var opts []schema.FieldOption

	if attr, ok := content.Attributes["alias"]; ok {
		var alias string
		if evalDiags := gohcl.DecodeExpression(attr.Expr, nil, &alias); evalDiags.HasErrors() {
			return nil, fmt.Errorf("invalid alias for field '%s' of type '%s': %s", fieldName, typeName, evalDiags.Error())
		}
		opts = append(opts, schema.Alias(alias))
	}

	if attr, ok := content.Attributes["description"]; ok {
		var description string
		if evalDiags := gohcl.DecodeExpression(attr.Expr, nil, &description); evalDiags.HasErrors() {
			return nil, fmt.Errorf("invalid description for field '%s' of type '%s': %s", fieldName, typeName, evalDiags.Error())
		}
		opts = append(opts, schema.Description(description))
	}

	if attr, ok := content.Attributes["default"]; ok {
		// A nil eval context is used because defaults must be literal values.
		val, valDiags := attr.Expr.Value(nil)
		if valDiags.HasErrors() {
			return nil, fmt.Errorf("invalid default for field '%s' of type '%s': %s", fieldName, typeName, valDiags.Error())
		}
		if !val.IsNull() {
			native, err := nativeScalar(val, desc)
			if err != nil {
				return nil, fmt.Errorf("invalid default for field '%s' of type '%s': %w", fieldName, typeName, err)
			}
			opts = append(opts, schema.Default(native))
		}
	}

	if attr, ok := content.Attributes["options"]; ok {
		val, valDiags := attr.Expr.Value(nil)
		if valDiags.HasErrors() {
			return nil, fmt.Errorf("invalid options for field '%s' of type '%s': %s", fieldName, typeName, valDiags.Error())
		}
		if !val.Type().IsTupleType() && !val.Type().IsListType() {
			return nil, fmt.Errorf("options for field '%s' of type '%s' must be a list literal", fieldName, typeName)
		}
		var natives []any
		for _, elem := range val.AsValueSlice() {
			native, err := nativeScalar(elem, desc)
			if err != nil {
				return nil, fmt.Errorf("invalid option for field '%s' of type '%s': %w", fieldName, typeName, err)
			}
			natives = append(natives, native)
		}
		opts = append(opts, schema.Options(natives...))
	}

	return schema.F(fieldName, desc, opts...), nil
}

// boolAttr evaluates an optional boolean attribute, reporting whether it
// was present and true.
func boolAttr(attrs hcl.Attributes, name string) (bool, error) {
	attr, ok := attrs[name]
	if !ok {
		return false, nil
	}
	var v bool
	if diags := gohcl.DecodeExpression(attr.Expr, nil, &v); diags.HasErrors() {
		return false, fmt.Errorf("invalid '%s' attribute: %s", name, diags.Error())
	}
	return v, nil
}

// nativeScalar translates a literal cty value into the canonical native
// scalar forms. HCL numbers carry no int/float distinction, so the field's
// declared type decides: numbers for float fields become float, whole
// numbers elsewhere become int.
func nativeScalar(val cty.Value, desc schema.Descriptor) (any, error) {
	if val.IsNull() || !val.IsKnown() {
		return nil, fmt.Errorf("value must be a known literal")
	}
	switch {
	case val.Type().Equals(cty.String):
		return val.AsString(), nil
	case val.Type().Equals(cty.Bool):
		return val.True(), nil
	case val.Type().Equals(cty.Number):
		bf := val.AsBigFloat()
		if pk, ok := desc.Primitive(); ok && pk == schema.PrimFloat {
			f, _ := bf.Float64()
			return f, nil
		}
		if i, acc := bf.Int64(); acc == big.Exact {
			return i, nil
		}
		f, _ := bf.Float64()
		return f, nil
	default:
		return nil, fmt.Errorf("expected a scalar literal, got %s", val.Type().FriendlyName())
	}
}
