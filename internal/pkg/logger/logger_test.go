package logger

import (
	"context"
	"testing"

	"myapi/internal/pkg/config"
	"myapi/internal/pkg/logctx"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLogger_RejectsUnknownLevel(t *testing.T) {
	cfg := &config.Config{Logger: config.LoggerConfig{Level: "loud", Format: "json"}}

	_, err := NewLogger(cfg)
	require.Error(t, err)
}

func TestNewLogger_BuildsFromConfig(t *testing.T) {
	cfg := &config.Config{Logger: config.LoggerConfig{Level: "debug", Format: "console", OutputPath: "stderr"}}

	log, err := NewLogger(cfg)
	require.NoError(t, err)
	assert.True(t, log.Core().Enabled(zap.DebugLevel))
}

func TestWithContext_AddsRequestID(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	log := &Logger{Logger: zap.New(core)}

	ctx := logctx.WithRequestID(context.Background(), "req-42")
	log.WithContext(ctx).Info("handled")
	log.WithContext(context.Background()).Info("no id")

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "req-42", entries[0].ContextMap()["request_id"])
	_, ok := entries[1].ContextMap()["request_id"]
	assert.False(t, ok)
}
