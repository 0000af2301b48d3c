package render_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/typedconf/internal/decode"
	"github.com/vk/typedconf/internal/rawval"
	"github.com/vk/typedconf/internal/registry"
	"github.com/vk/typedconf/internal/render"
	"github.com/vk/typedconf/internal/schema"
)

func decodeMap(t *testing.T, raw map[string]any, types ...*schema.Type) *decode.Instance {
	t.Helper()
	reg := registry.New()
	for _, typ := range types {
		require.NoError(t, reg.Register(typ))
	}
	root := types[len(types)-1]
	inst, err := decode.New(reg).InstantiateMap(context.Background(), root.Name(), raw)
	require.NoError(t, err)
	return inst
}

func TestInstanceCanonicalForm(t *testing.T) {
	t.Parallel()

	a := schema.NewType("A",
		schema.F("a", schema.Int()),
		schema.F("b", schema.String()),
	)
	b := schema.NewType("B",
		schema.F("a", schema.ObjectOf(a)),
		schema.F("b", schema.ListOf(schema.Int())),
		schema.F("c", schema.MapOf(schema.String(), schema.Int())),
		schema.F("d", schema.String(), schema.Default("Test")),
	)

	inst := decodeMap(t, map[string]any{
		"a": map[string]any{"a": 1, "b": "B"},
		"b": []any{1, 2},
		"c": map[string]any{"x": 1},
	}, a, b)

	assert.Equal(t, "B(a=A(a=1, b=B), b=[1, 2], c={x: 1}, d=Test)", render.Instance(inst))
}

func TestFieldOrderFollowsDeclarationNotDocument(t *testing.T) {
	t.Parallel()

	typ := schema.NewType("Pair",
		schema.F("first", schema.Int()),
		schema.F("second", schema.Int()),
	)
	reg := registry.New()
	require.NoError(t, reg.Register(typ))
	d := decode.New(reg)

	// Feed the fields in reverse document order.
	raw := rawval.Mapping(
		rawval.Entry{Key: rawval.String("second"), Value: rawval.Int(2)},
		rawval.Entry{Key: rawval.String("first"), Value: rawval.Int(1)},
	)
	inst, err := d.Instantiate(context.Background(), "Pair", raw)
	require.NoError(t, err)

	assert.Equal(t, "Pair(first=1, second=2)", render.Instance(inst))
}

func TestUnsetFieldsAreOmitted(t *testing.T) {
	t.Parallel()

	typ := schema.NewType("Partial",
		schema.F("a", schema.Int()),
		schema.F("b", schema.String()),
	).IgnoreMissing()

	inst := decodeMap(t, map[string]any{"a": 1}, typ)
	assert.Equal(t, "Partial(a=1)", render.Instance(inst))
}

func TestValue(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name     string
		value    any
		expected string
	}{
		{"null", nil, "null"},
		{"bool", true, "true"},
		{"int", int64(-7), "-7"},
		{"float", 1.5, "1.5"},
		{"whole float", float64(2), "2"},
		{"string unquoted", "hello world", "hello world"},
		{"empty list", []any{}, "[]"},
		{"nested list", []any{int64(1), []any{"x"}}, "[1, [x]]"},
		{"raw value", rawval.Sequence(rawval.Int(1), rawval.Null()), "[1, null]"},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tc.expected, render.Value(tc.value))
		})
	}
}

func TestMappingPreservesDocumentKeyOrder(t *testing.T) {
	t.Parallel()

	typ := schema.NewType("Weights",
		schema.F("w", schema.MapOf(schema.String(), schema.Int())),
	)
	reg := registry.New()
	require.NoError(t, reg.Register(typ))

	raw := rawval.Mapping(rawval.Entry{
		Key: rawval.String("w"),
		Value: rawval.Mapping(
			rawval.Entry{Key: rawval.String("z"), Value: rawval.Int(1)},
			rawval.Entry{Key: rawval.String("a"), Value: rawval.Int(2)},
		),
	})
	inst, err := decode.New(reg).Instantiate(context.Background(), "Weights", raw)
	require.NoError(t, err)

	assert.Equal(t, "Weights(w={z: 1, a: 2})", render.Instance(inst))
}

func TestNullFieldRendered(t *testing.T) {
	t.Parallel()

	typ := schema.NewType("Opt", schema.F("a", schema.Int()))
	reg := registry.New()
	require.NoError(t, reg.Register(typ))

	raw := rawval.Mapping(rawval.Entry{Key: rawval.String("a"), Value: rawval.Null()})
	inst, err := decode.New(reg).Instantiate(context.Background(), "Opt", raw)
	require.NoError(t, err)

	assert.Equal(t, "Opt(a=null)", render.Instance(inst))
}
