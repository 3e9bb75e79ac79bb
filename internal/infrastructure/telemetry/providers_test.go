package telemetry

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/marketplace/backend/internal/infrastructure/config"
)

func TestSetup_Disabled(t *testing.T) {
	original := otel.GetTextMapPropagator()
	t.Cleanup(func() { otel.SetTextMapPropagator(original) })

	p, err := Setup(context.Background(), config.TelemetryConfig{Enabled: false}, zap.NewNop())
	require.NoError(t, err)

	t.Run("should install the W3C propagator", func(t *testing.T) {
		assert.Contains(t, otel.GetTextMapPropagator().Fields(), "traceparent")
	})

	t.Run("should hand out global meters", func(t *testing.T) {
		assert.NotNil(t, p.Meter("test"))
	})

	t.Run("should leave the logger untouched", func(t *testing.T) {
		base := zap.NewNop()
		assert.Same(t, base, p.Bridge(base, zapcore.InfoLevel))
	})

	t.Run("should skip database instrumentation", func(t *testing.T) {
		assert.NoError(t, p.InstrumentDB(nil, "checkout"))
	})

	t.Run("should shut down cleanly", func(t *testing.T) {
		assert.NoError(t, p.Shutdown(context.Background()))
	})
}

func TestInstrumentDB(t *testing.T) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)

	core, logs := observer.New(zapcore.InfoLevel)
	p := &Providers{
		cfg:    config.TelemetryConfig{Enabled: true, DBTraceEnabled: true},
		logger: zap.New(core),
	}

	require.NoError(t, p.InstrumentDB(db, "checkout"))
	require.Equal(t, 1, logs.FilterMessage("Database tracing enabled").Len())
	assert.Equal(t, false, logs.All()[0].ContextMap()["log_full_sql"])
}

func TestSamplerFor(t *testing.T) {
	tests := []struct {
		ratio float64
		want  string
	}{
		{ratio: 1, want: sdktrace.AlwaysSample().Description()},
		{ratio: 1.5, want: sdktrace.AlwaysSample().Description()},
		{ratio: 0, want: sdktrace.NeverSample().Description()},
		{ratio: 0.25, want: sdktrace.TraceIDRatioBased(0.25).Description()},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, samplerFor(tt.ratio).Description())
	}
}

func TestMinLevelCore(t *testing.T) {
	inner, logs := observer.New(zapcore.DebugLevel)
	core := &minLevelCore{Core: inner, minLevel: zapcore.WarnLevel}
	log := zap.New(core).With(zap.String("service", "checkout"))

	log.Info("dropped")
	log.Warn("kept")
	log.Error("also kept")

	require.Equal(t, 2, logs.Len())
	assert.Equal(t, "kept", logs.All()[0].Message)
	assert.False(t, core.Enabled(zapcore.InfoLevel))
	assert.True(t, core.Enabled(zapcore.ErrorLevel))
}
