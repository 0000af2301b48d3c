package manifest_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vk/typedconf/internal/manifest"
	"github.com/vk/typedconf/internal/registry"
)

func loadSource(t *testing.T, src string) (*registry.Registry, error) {
	t.Helper()
	reg := registry.New()
	err := manifest.LoadSource(context.Background(), reg, "test.hcl", []byte(src))
	return reg, err
}

func TestLoadSource(t *testing.T) {
	t.Parallel()

	reg, err := loadSource(t, `
type "Endpoint" {
  field "host" { type = string }
  field "port" {
    type    = int
    default = 8080
  }
}

type "Service" {
  field "name" {
    type  = string
    alias = "service_name"
  }
  field "endpoints" { type = list(Endpoint) }
  field "env" {
    type    = string
    default = "dev"
    options = ["dev", "prod"]
  }
}
`)
	require.NoError(t, err)
	assert.Equal(t, []string{"Endpoint", "Service"}, reg.Names())

	endpoint, ok := reg.Lookup("Endpoint")
	require.True(t, ok)
	port, ok := endpoint.FieldBySourceKey("port")
	require.True(t, ok)
	assert.False(t, port.Required())
	lit, ok := port.Literal()
	require.True(t, ok)
	assert.Equal(t, int64(8080), lit)

	service, ok := reg.Lookup("Service")
	require.True(t, ok)

	name, ok := service.FieldBySourceKey("service_name")
	require.True(t, ok)
	assert.Equal(t, "name", name.Name())

	endpoints, ok := service.FieldBySourceKey("endpoints")
	require.True(t, ok)
	assert.Equal(t, "list(Endpoint)", endpoints.Descriptor().FriendlyName())
	elem, _ := endpoints.Descriptor().Element()
	ref, _ := elem.Object()
	assert.Same(t, endpoint, ref)

	env, ok := service.FieldBySourceKey("env")
	require.True(t, ok)
	assert.Equal(t, []any{"dev", "prod"}, env.Options())
}

func TestNumberDefaultsFollowFieldType(t *testing.T) {
	t.Parallel()

	reg, err := loadSource(t, `
type "Limits" {
  field "count" {
    type    = int
    default = 3
  }
  field "ratio" {
    type    = float
    default = 2
  }
}
`)
	require.NoError(t, err)

	limits, _ := reg.Lookup("Limits")
	count, _ := limits.FieldBySourceKey("count")
	lit, _ := count.Literal()
	assert.Equal(t, int64(3), lit)

	ratio, _ := limits.FieldBySourceKey("ratio")
	lit, _ = ratio.Literal()
	assert.Equal(t, float64(2), lit)
}

func TestIgnoreAttributes(t *testing.T) {
	t.Parallel()

	reg, err := loadSource(t, `
type "Loose" {
  ignore_missing = true
  ignore_unknown = true
  field "a" { type = int }
}
`)
	require.NoError(t, err)

	loose, ok := reg.Lookup("Loose")
	require.True(t, ok)
	assert.True(t, loose.IgnoresMissing())
	assert.True(t, loose.IgnoresUnknown())
}

func TestLoadErrors(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name      string
		src       string
		expectErr string
	}{
		{
			name:      "missing type attribute",
			src: `type "A" {
  field "a" { default = 1 }
}`,
			expectErr: "missing the required 'type' attribute",
		},
		{
			name:      "unregistered reference",
			src: `type "A" {
  field "a" { type = Ghost }
}`,
			expectErr: "'Ghost' is not registered",
		},
		{
			name:      "forward reference",
			src: `type "A" {
  field "a" { type = B }
}
type "B" {
  field "x" { type = int }
}`,
			expectErr: "'B' is not registered",
		},
		{
			name: "untyped list",
			src: `type "A" {
  field "a" { type = list }
}`,

			expectErr: "untyped 'list'",
		},
		{
			name: "non-scalar default",
			src: `type "A" {
  field "a" {
    type    = list(int)
    default = [1]
  }
}`,
			expectErr: "invalid default",
		},
		{
			name: "options not a list",
			src: `type "A" {
  field "a" {
    type    = string
    options = "dev"
  }
}`,
			expectErr: "must be a list literal",
		},
		{
			name: "default outside options",
			src: `type "A" {
  field "a" {
    type    = string
    default = "x"
    options = ["a", "b"]
  }
}`,
			expectErr: "not one of the allowed options",
		},
		{
			name:      "duplicate type",
			src: `type "A" {
  field "a" { type = int }
}
type "A" {
  field "a" { type = int }
}`,
			expectErr: "already registered",
		},
		{
			name:      "hcl syntax error",
			src:       `type "A" {`,
			expectErr: "failed to parse manifest",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			_, err := loadSource(t, tc.src)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tc.expectErr)
		})
	}
}

func TestNullDefaultIsIgnored(t *testing.T) {
	t.Parallel()

	reg, err := loadSource(t, `
type "A" {
  field "a" {
    type    = int
    default = null
  }
}
`)
	require.NoError(t, err)

	a, _ := reg.Lookup("A")
	f, _ := a.FieldBySourceKey("a")
	assert.True(t, f.Required())
}

func TestLoadPaths(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	// Walk order is lexical, so base types go in an earlier file.
	require.NoError(t, os.WriteFile(filepath.Join(dir, "01_base.hcl"), []byte(`
type "Endpoint" {
  field "host" { type = string }
}
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "02_service.hcl"), []byte(`
type "Service" {
  field "endpoint" { type = Endpoint }
}
`), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("not a manifest"), 0o644))

	reg := registry.New()
	require.NoError(t, manifest.LoadPaths(context.Background(), reg, dir))
	assert.Equal(t, []string{"Endpoint", "Service"}, reg.Names())

	service, _ := reg.Lookup("Service")
	f, _ := service.FieldBySourceKey("endpoint")
	ref, ok := f.Descriptor().Object()
	require.True(t, ok)
	assert.Equal(t, "Endpoint", ref.Name())
}

func TestLoadPathsEmptyDirIsNotError(t *testing.T) {
	t.Parallel()

	reg := registry.New()
	require.NoError(t, manifest.LoadPaths(context.Background(), reg, t.TempDir()))
	assert.Empty(t, reg.Names())
}
