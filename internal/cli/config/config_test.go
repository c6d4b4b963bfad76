package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	appErr "eperf/pkg/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "eperf.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, DefaultScriptDir, cfg.ScriptDir)
	assert.Equal(t, DefaultLogLevel, cfg.Log.Level)
	assert.Equal(t, DefaultLogOutput, cfg.Log.OutputPath)
	assert.True(t, cfg.ColorEnabled())
	assert.False(t, cfg.StrictExit)
	assert.Zero(t, cfg.Timeout)

	tokens, err := cfg.ElevateTokens()
	require.NoError(t, err)
	assert.Equal(t, []string{"sudo"}, tokens)
}

func TestLoadOverrides(t *testing.T) {
	path := writeConfig(t, `
scriptDir: /opt/eperf
elevateCommand: "sudo -E"
timeout: 90s
strictExit: true
color: false
log:
  level: debug
  format: json
  outputPath: /tmp/eperf.log
`)
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "/opt/eperf", cfg.ScriptDir)
	assert.Equal(t, 90*time.Second, cfg.Timeout)
	assert.True(t, cfg.StrictExit)
	assert.False(t, cfg.ColorEnabled())
	assert.Equal(t, "debug", cfg.Log.Level)
	assert.Equal(t, "json", cfg.Log.Format)

	tokens, err := cfg.ElevateTokens()
	require.NoError(t, err)
	assert.Equal(t, []string{"sudo", "-E"}, tokens)
}

func TestLoadEmptyElevateCommandDisablesElevation(t *testing.T) {
	cfg, err := Load(writeConfig(t, `elevateCommand: ""`))
	require.NoError(t, err)
	tokens, err := cfg.ElevateTokens()
	require.NoError(t, err)
	assert.Empty(t, tokens)
}

func TestLoadMalformed(t *testing.T) {
	_, err := Load(writeConfig(t, "scriptDir: [unterminated"))
	require.Error(t, err)
	assert.True(t, appErr.Is(err, appErr.ConfigInvalid))
}

func TestLoadRejectsNegativeTimeout(t *testing.T) {
	_, err := Load(writeConfig(t, "timeout: -5s"))
	require.Error(t, err)
	assert.True(t, appErr.Is(err, appErr.ConfigInvalid))
}

func TestLoadRejectsUnbalancedQuotes(t *testing.T) {
	_, err := Load(writeConfig(t, `elevateCommand: "sudo \"-u"`))
	require.Error(t, err)
	assert.True(t, appErr.Is(err, appErr.ConfigInvalid))
}
