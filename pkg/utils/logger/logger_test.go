package logger

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"eperf/pkg/utils/contextkey"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func TestNewLoggerRejectsUnknownLevel(t *testing.T) {
	_, err := NewLogger(Config{Level: "loud"})
	require.Error(t, err)
}

func TestNewLoggerWritesJSONToFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eperf.log")
	l, err := NewLogger(Config{Level: "info", Format: "json", OutputPath: path})
	require.NoError(t, err)

	ctx := context.WithValue(context.Background(), contextkey.RunID, "run-1")
	ctx = context.WithValue(ctx, contextkey.Subsystem, "cpu")
	l.WithContext(ctx).Info("script finished", zap.Int("status", 3))
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	out := string(data)
	assert.Contains(t, out, `"msg":"script finished"`)
	assert.Contains(t, out, `"run_id":"run-1"`)
	assert.Contains(t, out, `"subsystem":"cpu"`)
	assert.Contains(t, out, `"status":3`)
}

func TestLevelFiltersDebug(t *testing.T) {
	path := filepath.Join(t.TempDir(), "eperf.log")
	l, err := NewLogger(Config{Level: "warn", Format: "json", OutputPath: path})
	require.NoError(t, err)

	l.WithContext(context.Background()).Debug("hidden")
	l.WithContext(context.Background()).Warn("shown")
	require.NoError(t, l.Sync())

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "hidden")
	assert.Contains(t, string(data), "shown")
}

func TestGlobalHelpersWithoutInit(t *testing.T) {
	prev := globalLogger
	globalLogger = nil
	t.Cleanup(func() { globalLogger = prev })

	assert.NotPanics(t, func() {
		Info(context.Background(), "noop")
		Warn(context.Background(), "noop")
	})
	assert.NoError(t, Sync())
}
