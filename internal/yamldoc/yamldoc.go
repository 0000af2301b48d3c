// Package yamldoc turns YAML (and therefore JSON) documents into raw
// values. It walks yaml.v3 nodes directly instead of unmarshalling into Go
// maps, which preserves mapping key order and keeps the scalar kind the
// parser resolved: a quoted "2" stays a string, 2 stays an int, 2.0 stays a
// float.
package yamldoc

import (
	"context"
	"fmt"
	"os"
	"strconv"

	"github.com/vk/typedconf/internal/ctxlog"
	"github.com/vk/typedconf/internal/rawval"
	"gopkg.in/yaml.v3"
)

// Parse decodes a single YAML or JSON document into a raw value.
func Parse(data []byte) (rawval.Value, error) {
	var doc yaml.Node
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return rawval.Value{}, fmt.Errorf("failed to parse document: %w", err)
	}
	if doc.Kind == 0 {
		// Empty input decodes to the null value.
		return rawval.Null(), nil
	}
	return nodeValue(&doc)
}

// ParseFile reads and decodes a document file.
func ParseFile(ctx context.Context, path string) (rawval.Value, error) {
	logger := ctxlog.FromContext(ctx)
	logger.Debug("Decoding document file.", "path", path)

	data, err := os.ReadFile(path)
	if err != nil {
		return rawval.Value{}, fmt.Errorf("failed to read document %s: %w", path, err)
	}
	v, err := Parse(data)
	if err != nil {
		return rawval.Value{}, fmt.Errorf("in document %s: %w", path, err)
	}
	return v, nil
}

func nodeValue(n *yaml.Node) (rawval.Value, error) {
	switch n.Kind {
	case yaml.DocumentNode:
		if len(n.Content) == 0 {
			return rawval.Null(), nil
		}
		return nodeValue(n.Content[0])

	case yaml.AliasNode:
		return nodeValue(n.Alias)

	case yaml.SequenceNode:
		elems := make([]rawval.Value, len(n.Content))
		for i, c := range n.Content {
			v, err := nodeValue(c)
			if err != nil {
				return rawval.Value{}, err
			}
			elems[i] = v
		}
		return rawval.Sequence(elems...), nil

	case yaml.MappingNode:
		entries := make([]rawval.Entry, 0, len(n.Content)/2)
		for i := 0; i+1 < len(n.Content); i += 2 {
			k, err := nodeValue(n.Content[i])
			if err != nil {
				return rawval.Value{}, err
			}
			v, err := nodeValue(n.Content[i+1])
			if err != nil {
				return rawval.Value{}, err
			}
			entries = append(entries, rawval.Entry{Key: k, Value: v})
		}
		return rawval.Mapping(entries...), nil

	case yaml.ScalarNode:
		return scalarValue(n)

	default:
		return rawval.Value{}, fmt.Errorf("unsupported node kind %d at line %d", n.Kind, n.Line)
	}
}

func scalarValue(n *yaml.Node) (rawval.Value, error) {
	switch n.Tag {
	case "!!null", "":
		return rawval.Null(), nil
	case "!!bool":
		b, err := strconv.ParseBool(n.Value)
		if err != nil {
			// YAML's bool forms beyond true/false (yes, on, ...).
			var v bool
			if err := n.Decode(&v); err != nil {
				return rawval.Value{}, fmt.Errorf("invalid bool '%s' at line %d: %w", n.Value, n.Line, err)
			}
			return rawval.Bool(v), nil
		}
		return rawval.Bool(b), nil
	case "!!int":
		var v int64
		if err := n.Decode(&v); err != nil {
			return rawval.Value{}, fmt.Errorf("invalid int '%s' at line %d: %w", n.Value, n.Line, err)
		}
		return rawval.Int(v), nil
	case "!!float":
		var v float64
		if err := n.Decode(&v); err != nil {
			return rawval.Value{}, fmt.Errorf("invalid float '%s' at line %d: %w", n.Value, n.Line, err)
		}
		return rawval.Float(v), nil
	case "!!str":
		return rawval.String(n.Value), nil
	default:
		return rawval.Value{}, fmt.Errorf("unsupported scalar tag '%s' at line %d", n.Tag, n.Line)
	}
}
