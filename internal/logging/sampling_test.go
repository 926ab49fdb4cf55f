package logging

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func sampledLogger(cfg SamplingConfig) (*Logger, *observer.ObservedLogs) {
	core, observed := observer.New(TraceLevel)
	return &Logger{zap: zap.New(newSampledCore(core, cfg)), config: NewDefaultConfig()}, observed
}

func TestNewSampledCore_Disabled(t *testing.T) {
	core, _ := observer.New(zapcore.InfoLevel)
	assert.Equal(t, core, newSampledCore(core, SamplingConfig{Enabled: false}))
}

func TestNewSampledCore_ErrorsNeverSampled(t *testing.T) {
	logger, observed := sampledLogger(SamplingConfig{
		Enabled: true,
		Tick:    time.Second,
		Levels:  DefaultLevelSamplingConfig(),
	})

	for i := 0; i < 100; i++ {
		logger.Error(context.Background(), "error message")
	}

	assert.Equal(t, 100, observed.FilterMessage("error message").Len())
}

func TestNewSampledCore_PerLevelRates(t *testing.T) {
	logger, observed := sampledLogger(SamplingConfig{
		Enabled: true,
		Tick:    time.Minute,
		Levels: map[string]LevelSamplingConfig{
			"info":  {Initial: 5, Thereafter: 0},
			"debug": {Initial: 2, Thereafter: 0},
		},
	})
	ctx := context.Background()

	for i := 0; i < 50; i++ {
		logger.Info(ctx, "info message")
		logger.Debug(ctx, "debug message")
		logger.Warn(ctx, "warn message")
	}

	assert.Equal(t, 5, observed.FilterMessage("info message").Len())
	assert.Equal(t, 2, observed.FilterMessage("debug message").Len())
	assert.Equal(t, 50, observed.FilterMessage("warn message").Len(), "unconfigured levels pass through")
}

func TestNewSampledCore_IgnoresErrorLevelEntries(t *testing.T) {
	logger, observed := sampledLogger(SamplingConfig{
		Enabled: true,
		Tick:    time.Minute,
		Levels:  map[string]LevelSamplingConfig{"error": {Initial: 1}},
	})

	for i := 0; i < 10; i++ {
		logger.Error(context.Background(), "boom")
	}
	assert.Equal(t, 10, observed.Len())
}

func TestLevelFilterCore_WithPreservesFilter(t *testing.T) {
	core, observed := observer.New(TraceLevel)
	filtered := &levelFilterCore{Core: core, allow: func(l zapcore.Level) bool { return l == zapcore.WarnLevel }}

	logger := zap.New(filtered.With([]zapcore.Field{zap.String("k", "v")}))
	logger.Info("dropped")
	logger.Warn("kept")

	logs := observed.All()
	if assert.Len(t, logs, 1) {
		assert.Equal(t, "kept", logs[0].Message)
		assert.Equal(t, "v", logs[0].ContextMap()["k"])
	}
}
