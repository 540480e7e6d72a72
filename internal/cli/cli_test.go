package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParse(t *testing.T) {
	testCases := []struct {
		name       string
		args       []string
		env        string
		shouldExit bool
		exitCode   int
		check      func(t *testing.T, out string)
	}{
		{
			name:       "help",
			args:       []string{"-h"},
			shouldExit: true,
		},
		{
			name:       "no path prints usage",
			args:       nil,
			shouldExit: true,
			check: func(t *testing.T, out string) {
				assert.Contains(t, out, "Usage:")
			},
		},
		{
			name:     "bad log format",
			args:     []string{"-log-format", "xml", "flows"},
			exitCode: 2,
		},
		{
			name:     "bad log level",
			args:     []string{"-log-level", "loud", "flows"},
			exitCode: 2,
		},
		{
			name:     "bad requests",
			args:     []string{"-requests", "0", "flows"},
			exitCode: 2,
		},
		{
			name:     "unknown flag",
			args:     []string{"--nope"},
			exitCode: 2,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out := &bytes.Buffer{}
			cfg, shouldExit, err := Parse(tc.args, out)
			if tc.exitCode != 0 {
				var exitErr *ExitError
				require.True(t, errors.As(err, &exitErr), "expected ExitError, got %v", err)
				assert.Equal(t, tc.exitCode, exitErr.Code)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.shouldExit, shouldExit)
			assert.Nil(t, cfg)
			if tc.check != nil {
				tc.check(t, out.String())
			}
		})
	}
}

func TestParse_FullConfig(t *testing.T) {
	t.Setenv(DSNEnv, "/tmp/from-env.db")

	cfg, shouldExit, err := Parse([]string{
		"-c", "flows",
		"-seed=false",
		"-requests", "4",
		"-metrics-port", "9100",
		"-log-format", "JSON",
		"-log-level", "DEBUG",
	}, &bytes.Buffer{})
	require.NoError(t, err)
	require.False(t, shouldExit)

	assert.Equal(t, "flows", cfg.ConfigPath)
	assert.Equal(t, "/tmp/from-env.db", cfg.DSN)
	assert.False(t, cfg.Seed)
	assert.Equal(t, 4, cfg.Requests)
	assert.Equal(t, 9100, cfg.MetricsPort)
	assert.Equal(t, "json", cfg.LogFormat)
	assert.Equal(t, "debug", cfg.LogLevel)
}

func TestParse_DSNFlagOverridesEnv(t *testing.T) {
	t.Setenv(DSNEnv, "/tmp/from-env.db")
	cfg, _, err := Parse([]string{"-dsn", "/tmp/flag.db", "flows"}, &bytes.Buffer{})
	require.NoError(t, err)
	assert.Equal(t, "/tmp/flag.db", cfg.DSN)
}
