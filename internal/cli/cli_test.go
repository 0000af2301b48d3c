package cli

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	t.Parallel()

	testCases := []struct {
		name       string
		args       []string
		shouldExit bool
		expectErr  string
	}{
		{
			name: "full invocation",
			args: []string{"--types", "schemas", "--type", "Service", "doc.yaml"},
		},
		{
			name: "shorthand type flag",
			args: []string{"-t", "Service", "doc.yaml"},
		},
		{
			name:       "help exits cleanly",
			args:       []string{"-h"},
			shouldExit: true,
		},
		{
			name:       "no document prints usage",
			args:       []string{"--type", "Service"},
			shouldExit: true,
		},
		{
			name:      "missing root type",
			args:      []string{"doc.yaml"},
			expectErr: "a root type is required",
		},
		{
			name:      "unknown flag",
			args:      []string{"--bogus"},
			expectErr: "flag provided but not defined",
		},
		{
			name:      "invalid log format",
			args:      []string{"-t", "Service", "--log-format", "xml", "doc.yaml"},
			expectErr: "invalid log-format",
		},
		{
			name:      "invalid log level",
			args:      []string{"-t", "Service", "--log-level", "verbose", "doc.yaml"},
			expectErr: "invalid log-level",
		},
	}

	for _, tc := range testCases {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()
			out := &bytes.Buffer{}
			cfg, shouldExit, err := Parse(tc.args, out)

			if tc.expectErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.expectErr)
				var exitErr *ExitError
				require.ErrorAs(t, err, &exitErr)
				assert.Equal(t, 2, exitErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.shouldExit, shouldExit)
			if !tc.shouldExit {
				require.NotNil(t, cfg)
			}
		})
	}
}

func TestParseDefaults(t *testing.T) {
	t.Parallel()

	cfg, shouldExit, err := Parse([]string{"--type", "Service", "doc.yaml"}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "types", cfg.TypesPath)
	assert.Equal(t, "doc.yaml", cfg.DocumentPath)
	assert.Equal(t, "Service", cfg.RootType)
	assert.Equal(t, "text", cfg.LogFormat)
	assert.Equal(t, "info", cfg.LogLevel)
}

func TestParseLongFlagWinsOverShorthand(t *testing.T) {
	t.Parallel()

	cfg, _, err := Parse([]string{"--type", "Long", "-t", "Short", "doc.yaml"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "Long", cfg.RootType)
}

func TestUsagePrintedToOutput(t *testing.T) {
	t.Parallel()

	out := &bytes.Buffer{}
	_, shouldExit, err := Parse(nil, out)
	require.NoError(t, err)
	assert.True(t, shouldExit)
	assert.Contains(t, out.String(), "Usage:")
	assert.Contains(t, out.String(), "DOCUMENT_PATH")
}
