package telemetry

import (
	"context"
	"fmt"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// TracerName is the instrumentation scope of spans started here
const TracerName = "edusaas-backend"

// Attribute keys shared by the application services
const (
	SpanAttrInstitutionID  = "institution_id"
	SpanAttrClassID        = "class_id"
	SpanAttrClassName      = "class_name"
	SpanAttrEventID        = "stripe.event_id"
	SpanAttrEventType      = "stripe.event_type"
	SpanAttrSubscriptionID = "stripe.subscription_id"
	SpanAttrOutcome        = "outcome"
)

// StartSpan starts an internal span on the global provider unless opts say
// otherwise. Callers must End it.
func StartSpan(ctx context.Context, name string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	opts = append([]trace.SpanStartOption{trace.WithSpanKind(trace.SpanKindInternal)}, opts...)
	return otel.Tracer(TracerName).Start(ctx, name, opts...)
}

// StartServiceSpan names the span "<service>.<operation>", e.g. "class.create"
func StartServiceSpan(ctx context.Context, service, operation string, opts ...trace.SpanStartOption) (context.Context, trace.Span) {
	return StartSpan(ctx, service+"."+operation, opts...)
}

// SetAttributes takes alternating keys and values. Pairs whose key is not a
// string are dropped.
func SetAttributes(span trace.Span, kv ...any) {
	if span == nil {
		return
	}
	span.SetAttributes(attrs(kv)...)
}

// AddEvent records a named event with alternating key/value attributes
func AddEvent(span trace.Span, name string, kv ...any) {
	if span == nil {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs(kv)...))
}

// RecordError marks span failed with err as its description. A nil err is a no-op.
func RecordError(span trace.Span, err error, opts ...trace.EventOption) {
	if span == nil || err == nil {
		return
	}
	span.RecordError(err, opts...)
	span.SetStatus(codes.Error, err.Error())
}

func attrs(kv []any) []attribute.KeyValue {
	out := make([]attribute.KeyValue, 0, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		if key, ok := kv[i].(string); ok {
			out = append(out, Attr(key, kv[i+1]))
		}
	}
	return out
}

// Attr converts a Go value to the closest attribute type, falling back to
// its string form
func Attr(key string, value any) attribute.KeyValue {
	switch v := value.(type) {
	case string:
		return attribute.String(key, v)
	case bool:
		return attribute.Bool(key, v)
	case int:
		return attribute.Int(key, v)
	case int64:
		return attribute.Int64(key, v)
	case float64:
		return attribute.Float64(key, v)
	case []string:
		return attribute.StringSlice(key, v)
	case fmt.Stringer:
		return attribute.String(key, v.String())
	}
	return attribute.String(key, fmt.Sprint(value))
}
