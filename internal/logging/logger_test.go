package logging

import (
	"bytes"
	"context"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger(t *testing.T) {
	cfg := NewDefaultConfig()

	logger, err := NewLogger(cfg)
	require.NoError(t, err)
	require.NotNil(t, logger)
	assert.Equal(t, cfg, logger.config)
}

func TestNewLogger_NilConfigUsesDefaults(t *testing.T) {
	logger, err := NewLogger(nil)
	require.NoError(t, err)
	assert.Equal(t, "info", logger.config.Level)
}

func TestNewLogger_InvalidConfig(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "xml"

	_, err := NewLogger(cfg)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid config")
}

func TestLogger_ContextAwareMethods(t *testing.T) {
	core, observed := observer.New(TraceLevel)
	logger := &Logger{zap: zap.New(core), config: NewDefaultConfig()}
	ctx := WithRunID(context.Background(), "run-1")

	tests := []struct {
		name    string
		logFunc func()
		level   zapcore.Level
	}{
		{"trace", func() { logger.Trace(ctx, "msg", zap.String("key", "val")) }, TraceLevel},
		{"debug", func() { logger.Debug(ctx, "msg", zap.String("key", "val")) }, zapcore.DebugLevel},
		{"info", func() { logger.Info(ctx, "msg", zap.String("key", "val")) }, zapcore.InfoLevel},
		{"warn", func() { logger.Warn(ctx, "msg", zap.String("key", "val")) }, zapcore.WarnLevel},
		{"error", func() { logger.Error(ctx, "msg", zap.String("key", "val")) }, zapcore.ErrorLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			observed.TakeAll()
			tt.logFunc()

			logs := observed.All()
			require.Len(t, logs, 1)
			assert.Equal(t, tt.level, logs[0].Level)
			fields := logs[0].ContextMap()
			assert.Equal(t, "val", fields["key"])
			assert.Equal(t, "run-1", fields["run.id"])
		})
	}
}

func TestLogger_TraceSkippedWhenDisabled(t *testing.T) {
	core, observed := observer.New(zapcore.DebugLevel)
	logger := &Logger{zap: zap.New(core), config: NewDefaultConfig()}

	logger.Trace(context.Background(), "hidden")

	assert.Zero(t, observed.Len())
	assert.False(t, logger.Enabled(TraceLevel))
	assert.True(t, logger.Enabled(zapcore.DebugLevel))
}

func TestLogger_WithAndNamed(t *testing.T) {
	tl := NewTestLogger()
	child := tl.With(zap.String("component", "adjuster")).Named("gradient")

	child.Info(context.Background(), "child message")

	logs := tl.FilterMessage("child message").All()
	require.Len(t, logs, 1)
	assert.Equal(t, "gradient", logs[0].LoggerName)
	assert.Equal(t, "adjuster", logs[0].ContextMap()["component"])
}

func TestNewLogger_JSONOutput(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Level = "trace"
	cfg.Sampling.Enabled = false
	cfg.Caller.Enabled = false

	var buf bytes.Buffer
	logger := newLogger(cfg, zapcore.AddSync(&buf))
	logger.Trace(context.Background(), "hello", zap.Int("n", 3))
	require.NoError(t, logger.Sync())

	var entry map[string]any
	require.NoError(t, json.Unmarshal(bytes.TrimSpace(buf.Bytes()), &entry))
	assert.Equal(t, "trace", entry["level"])
	assert.Equal(t, "hello", entry["msg"])
	assert.Equal(t, "pipegrade", entry["service"])
	assert.EqualValues(t, 3, entry["n"])
	assert.Contains(t, entry, "ts")
}

func TestNewLogger_ConsoleOutput(t *testing.T) {
	cfg := NewDefaultConfig()
	cfg.Format = "console"
	cfg.Sampling.Enabled = false

	var buf bytes.Buffer
	logger := newLogger(cfg, zapcore.AddSync(&buf))
	logger.Info(context.Background(), "console line")

	line := buf.String()
	assert.True(t, strings.Contains(line, "console line"))
	assert.False(t, strings.HasPrefix(strings.TrimSpace(line), "{"))
}

func TestNewNop(t *testing.T) {
	logger := NewNop()
	logger.Error(context.Background(), "dropped")
	assert.False(t, logger.Enabled(zapcore.ErrorLevel))
	assert.NotNil(t, logger.Underlying())
}
