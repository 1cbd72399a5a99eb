package telemetry

import (
	"context"
	"testing"

	"github.com/edusaas/backend/internal/infrastructure/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNewLoggerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	cfg := LogsConfig{Enabled: false, CollectorEndpoint: "localhost:4317", ServiceName: "test-service", Insecure: true}

	lp, err := NewLoggerProvider(ctx, cfg, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, lp.IsEnabled())
	assert.Equal(t, cfg, lp.GetConfig())
	assert.NoError(t, lp.ForceFlush(ctx))
	assert.NoError(t, lp.Shutdown(ctx))
}

func TestNewZapOTELCore_DisabledIsNop(t *testing.T) {
	core := NewZapOTELCore("svc", nil, zapcore.InfoLevel)
	assert.False(t, core.Enabled(zapcore.ErrorLevel))
}

func TestBridgeLogger_DisabledReturnsBase(t *testing.T) {
	base := zap.NewNop()
	lp, err := NewLoggerProvider(context.Background(), LogsConfig{}, base)
	require.NoError(t, err)

	assert.Same(t, base, BridgeLogger(base, "svc", lp))
	assert.Same(t, base, BridgeLogger(base, "svc", nil))
}

func TestLevelFilterCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &levelFilterCore{Core: inner, minLevel: zapcore.WarnLevel}
	logger := zap.New(core).With(zap.String("component", "webhook"))

	logger.Info("dropped")
	logger.Warn("kept")
	logger.Error("kept too")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
	assert.Equal(t, "webhook", logs.All()[0].ContextMap()["component"])
}

func TestSetup_AllDisabled(t *testing.T) {
	ctx := context.Background()
	tel, err := Setup(ctx, config.TelemetryConfig{ServiceName: "edusaas-backend"}, zap.NewNop())
	require.NoError(t, err)

	assert.False(t, tel.Tracer.IsEnabled())
	assert.False(t, tel.Meter.IsEnabled())
	assert.False(t, tel.Logs.IsEnabled())
	assert.False(t, tel.Profiler.IsEnabled())
	assert.NoError(t, tel.Shutdown(ctx))
}
