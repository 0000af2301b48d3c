package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRun_PanicRecovery(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// A manifest with a syntax error is guaranteed to cause a panic during
	// the loading phase inside app.NewApp().
	invalidHCL := `
		type "A" {
			field "a" {
		// Missing closing brace here
	`
	tempDir := t.TempDir()
	typesDir := filepath.Join(tempDir, "types")
	require.NoError(t, os.MkdirAll(typesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(typesDir, "main.hcl"), []byte(invalidHCL), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "doc.yaml"), []byte("a: 1\n"), 0600))

	args := []string{"--types", typesDir, "--type", "A", filepath.Join(tempDir, "doc.yaml")}
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	// --- Act ---
	// The run function should recover the panic and return it as an error.
	runErr := run(out, logs, args)

	// --- Assert ---
	require.Error(t, runErr, "run() should have returned an error after recovering from a panic")

	errStr := runErr.Error()
	require.True(t, strings.Contains(errStr, "application startup panicked"), "The error message should indicate that a panic was recovered.")
	require.True(t, strings.Contains(errStr, "failed to parse"), "The error message should contain the underlying reason for the panic.")
}

func TestRun_ShouldExit(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// The "-h" (help) flag should cause cli.Parse to return `shouldExit=true`.
	args := []string{"-h"}
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	// --- Act ---
	err := run(out, logs, args)

	// --- Assert ---
	require.NoError(t, err, "run() should return a nil error when shouldExit is true")
	require.Contains(t, logs.String(), "Usage:", "Expected help text to be printed to the log writer")
}

func TestRun_ParseError(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	// Providing an unknown flag will cause cli.Parse to return an error.
	args := []string{"--this-is-not-a-valid-flag"}
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	// --- Act ---
	err := run(out, logs, args)

	// --- Assert ---
	require.Error(t, err, "run() should return an error when argument parsing fails")
	require.Contains(t, err.Error(), "flag provided but not defined: -this-is-not-a-valid-flag")
}

func TestRun_DecodesDocument(t *testing.T) {
	t.Parallel()

	// --- Arrange ---
	tempDir := t.TempDir()
	typesDir := filepath.Join(tempDir, "types")
	require.NoError(t, os.MkdirAll(typesDir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(typesDir, "main.hcl"), []byte(`
type "A" {
  field "a" { type = int }
  field "d" {
    type    = string
    default = "Test"
  }
}
`), 0600))
	require.NoError(t, os.WriteFile(filepath.Join(tempDir, "doc.yaml"), []byte("a: 1\n"), 0600))

	args := []string{"--types", typesDir, "-t", "A", filepath.Join(tempDir, "doc.yaml")}
	out := &bytes.Buffer{}
	logs := &bytes.Buffer{}

	// --- Act ---
	err := run(out, logs, args)

	// --- Assert ---
	require.NoError(t, err)
	require.Equal(t, "A(a=1, d=Test)\n", out.String())
}
