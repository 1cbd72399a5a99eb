package telemetry

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap/zaptest"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// setupTestTracer installs an in-memory span recorder as the global provider.
func setupTestTracer(t *testing.T) *tracetest.SpanRecorder {
	t.Helper()

	sr := tracetest.NewSpanRecorder()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSpanProcessor(sr))

	original := otel.GetTracerProvider()
	otel.SetTracerProvider(tp)
	t.Cleanup(func() {
		otel.SetTracerProvider(original)
		_ = tp.Shutdown(context.Background())
	})
	return sr
}

func attrValue(attrs []attribute.KeyValue, key string) (attribute.Value, bool) {
	for _, kv := range attrs {
		if string(kv.Key) == key {
			return kv.Value, true
		}
	}
	return attribute.Value{}, false
}

func TestNewTracerProvider_Disabled(t *testing.T) {
	ctx := context.Background()
	tp, err := NewTracerProvider(ctx, Config{Enabled: false, ServiceName: "test-service"}, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.False(t, tp.IsEnabled())
	assert.Equal(t, "test-service", tp.GetConfig().ServiceName)
	assert.NoError(t, tp.EnableSpanProfiles())
	assert.False(t, tp.IsSpanProfilesEnabled())
	assert.NotNil(t, tp.Tracer("x"))
	assert.NoError(t, tp.ForceFlush(ctx))
	assert.NoError(t, tp.Shutdown(ctx))
}

func TestSamplerFor(t *testing.T) {
	assert.Equal(t, sdktrace.AlwaysSample().Description(), samplerFor(1).Description())
	assert.Equal(t, sdktrace.NeverSample().Description(), samplerFor(0).Description())
	assert.Contains(t, samplerFor(0.25).Description(), "TraceIDRatioBased")
}

func TestStartServiceSpan(t *testing.T) {
	sr := setupTestTracer(t)

	ctx, span := StartServiceSpan(context.Background(), "stripe_webhook", "handle",
		trace.WithSpanKind(trace.SpanKindServer),
		trace.WithAttributes(Attr(SpanAttrEventType, "checkout.session.completed")),
	)
	SetAttributes(span, SpanAttrOutcome, "ok", 42, "ignored-non-string-key", "rows", int64(1))
	AddEvent(span, "enrolled", SpanAttrClassName, "Piano")
	assert.True(t, trace.SpanContextFromContext(ctx).IsValid())
	span.End()

	spans := sr.Ended()
	require.Len(t, spans, 1)
	s := spans[0]
	assert.Equal(t, "stripe_webhook.handle", s.Name())
	assert.Equal(t, trace.SpanKindServer, s.SpanKind())

	v, ok := attrValue(s.Attributes(), SpanAttrEventType)
	require.True(t, ok)
	assert.Equal(t, "checkout.session.completed", v.AsString())
	v, ok = attrValue(s.Attributes(), SpanAttrOutcome)
	require.True(t, ok)
	assert.Equal(t, "ok", v.AsString())
	v, ok = attrValue(s.Attributes(), "rows")
	require.True(t, ok)
	assert.Equal(t, int64(1), v.AsInt64())

	require.Len(t, s.Events(), 1)
	assert.Equal(t, "enrolled", s.Events()[0].Name)
}

func TestRecordError(t *testing.T) {
	sr := setupTestTracer(t)

	_, span := StartSpan(context.Background(), "op")
	RecordError(span, errors.New("boom"))
	RecordError(span, nil)
	span.End()

	s := sr.Ended()[0]
	assert.Equal(t, codes.Error, s.Status().Code)
	assert.Equal(t, "boom", s.Status().Description)
}

func TestAttr(t *testing.T) {
	classID := uuid.MustParse("0b7e6b5e-4f5c-4c8e-9d39-9e1c5b0b1a11")
	tests := []struct {
		value any
		want  attribute.Value
	}{
		{"x", attribute.StringValue("x")},
		{true, attribute.BoolValue(true)},
		{7, attribute.IntValue(7)},
		{int64(8), attribute.Int64Value(8)},
		{1.5, attribute.Float64Value(1.5)},
		{[]string{"a"}, attribute.StringSliceValue([]string{"a"})},
		{classID, attribute.StringValue(classID.String())},
		{uint8(3), attribute.StringValue("3")},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Attr("k", tt.value).Value, "%T", tt.value)
	}
}

func TestAnnotateSpan_SlowFailedQuery(t *testing.T) {
	sr := setupTestTracer(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)

	ctx, span := StartSpan(context.Background(), "db")
	ctx = context.WithValue(ctx, queryStartTimeKey, time.Now().Add(-time.Second))

	tx := db.WithContext(ctx)
	tx.Statement.Table = "students"
	tx.Statement.RowsAffected = 3
	tx.Error = errors.New("constraint violated")

	annotateSpan(tx, 100*time.Millisecond)
	span.End()

	s := sr.Ended()[0]
	assert.Equal(t, codes.Error, s.Status().Code)
	v, ok := attrValue(s.Attributes(), "db.slow_query")
	require.True(t, ok)
	assert.True(t, v.AsBool())
	v, ok = attrValue(s.Attributes(), "db.sql.table")
	require.True(t, ok)
	assert.Equal(t, "students", v.AsString())
	v, ok = attrValue(s.Attributes(), "db.rows_affected")
	require.True(t, ok)
	assert.Equal(t, int64(3), v.AsInt64())
}

func TestAnnotateSpan_RecordNotFoundIsNotAnError(t *testing.T) {
	sr := setupTestTracer(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)

	ctx, span := StartSpan(context.Background(), "db")
	tx := db.WithContext(ctx)
	tx.Error = gorm.ErrRecordNotFound

	annotateSpan(tx, time.Second)
	span.End()

	assert.NotEqual(t, codes.Error, sr.Ended()[0].Status().Code)
}

func TestRegisterDBTracing(t *testing.T) {
	setupTestTracer(t)
	logger := zaptest.NewLogger(t)

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{Logger: gormlogger.Discard})
	require.NoError(t, err)

	require.NoError(t, RegisterDBTracing(db, DBTracingConfig{Enabled: false}, logger))

	cfg := DefaultDBTracingConfig()
	cfg.Enabled = true
	require.NoError(t, RegisterDBTracing(db, cfg, logger))

	type row struct {
		ID   uint
		Name string
	}
	require.NoError(t, db.AutoMigrate(&row{}))
	assert.NoError(t, db.Create(&row{Name: "a"}).Error)
}
