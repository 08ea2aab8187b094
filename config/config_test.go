package config

import (
	"bytes"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	c, err := Load("", nil)
	require.NoError(t, err)

	assert.Equal(t, "memory", c.Ledger.Backend)
	assert.Equal(t, "user1", c.Loop.Address)
	assert.Equal(t, "default", c.Loop.Counter)
	assert.Equal(t, "warn", c.Log.Level)
	assert.Empty(t, c.ContextParams())
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("COUNTERDAPP_LOOP_ADDRESS", "alice")
	t.Setenv("COUNTERDAPP_LEDGER_BACKEND", "db")

	c, err := Load("", nil)
	require.NoError(t, err)
	assert.Equal(t, "alice", c.Loop.Address)
	assert.Equal(t, "db", c.Ledger.Backend)
	assert.Equal(t, "default", c.Loop.Counter)
}

func TestLoadFileAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "counter.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
[ledger]
backend = "db"
db_name = "from-file"

[loop]
counter = "clicks"
`), 0o644))

	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	flags.String("counter", "default", "")
	flags.String("address", "user1", "")
	require.NoError(t, flags.Parse([]string{"--counter", "taps"}))

	c, err := Load(path, flags)
	require.NoError(t, err)
	assert.Equal(t, "db", c.Ledger.Backend)
	assert.Equal(t, map[string]any{"db_name": "from-file"}, c.ContextParams())
	// a flag that was set wins over the file
	assert.Equal(t, "taps", c.Loop.Counter)
	// an unset flag does not hide the default
	assert.Equal(t, "user1", c.Loop.Address)
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.toml"), nil)
	assert.Error(t, err)
}

func TestParseLevel(t *testing.T) {
	level, err := ParseLevel("debug")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelDebug, level)

	level, err = ParseLevel("WARN")
	require.NoError(t, err)
	assert.Equal(t, slog.LevelWarn, level)

	_, err = ParseLevel("loud")
	assert.Error(t, err)
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := NewLogger(&buf, slog.LevelWarn)

	logger.Info("hidden")
	logger.Warn("shown", "counter", "default")

	out := buf.String()
	assert.NotContains(t, out, "hidden")
	assert.Contains(t, out, "shown")
	assert.Contains(t, out, "counter=default")
	assert.NotContains(t, out, "\x1b[")
}
