package logger

import (
	"context"

	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

type loggerKey struct{}

type correlationKey struct{}

// correlation is copied on every With*, so a context never sees later writes
type correlation struct {
	requestID     string
	institutionID string
	userID        string
	eventID       string
}

func (c correlation) fields() []zap.Field {
	var fs []zap.Field
	for _, kv := range [...][2]string{
		{"request_id", c.requestID},
		{"institution_id", c.institutionID},
		{"user_id", c.userID},
		{"event_id", c.eventID},
	} {
		if kv[1] != "" {
			fs = append(fs, zap.String(kv[0], kv[1]))
		}
	}
	return fs
}

func correlationOf(ctx context.Context) correlation {
	c, _ := ctx.Value(correlationKey{}).(correlation)
	return c
}

func withCorrelation(ctx context.Context, set func(*correlation)) context.Context {
	c := correlationOf(ctx)
	set(&c)
	return context.WithValue(ctx, correlationKey{}, c)
}

func WithContext(ctx context.Context, logger *zap.Logger) context.Context {
	return context.WithValue(ctx, loggerKey{}, logger)
}

// FromContext returns the stored logger as is, or a no-op logger
func FromContext(ctx context.Context) *zap.Logger {
	if logger, ok := ctx.Value(loggerKey{}).(*zap.Logger); ok && logger != nil {
		return logger
	}
	return zap.NewNop()
}

func WithRequestID(ctx context.Context, id string) context.Context {
	return withCorrelation(ctx, func(c *correlation) { c.requestID = id })
}

// WithInstitutionID records the tenant the request acts for
func WithInstitutionID(ctx context.Context, id string) context.Context {
	return withCorrelation(ctx, func(c *correlation) { c.institutionID = id })
}

func WithUserID(ctx context.Context, id string) context.Context {
	return withCorrelation(ctx, func(c *correlation) { c.userID = id })
}

// WithEventID records the Stripe event being reconciled
func WithEventID(ctx context.Context, id string) context.Context {
	return withCorrelation(ctx, func(c *correlation) { c.eventID = id })
}

func GetRequestID(ctx context.Context) string     { return correlationOf(ctx).requestID }
func GetInstitutionID(ctx context.Context) string { return correlationOf(ctx).institutionID }
func GetUserID(ctx context.Context) string        { return correlationOf(ctx).userID }
func GetEventID(ctx context.Context) string       { return correlationOf(ctx).eventID }

// L is the context's logger with trace and correlation fields attached:
//
//	logger.L(ctx).Info("class created", zap.String("class_id", id))
func L(ctx context.Context) *zap.Logger {
	return WithLogger(ctx, FromContext(ctx))
}

// WithLogger attaches ctx's trace and correlation fields to base
func WithLogger(ctx context.Context, base *zap.Logger) *zap.Logger {
	if base == nil {
		return zap.NewNop()
	}
	fields := correlationOf(ctx).fields()
	if sc := trace.SpanContextFromContext(ctx); sc.IsValid() {
		fields = append(fields,
			zap.String("trace_id", sc.TraceID().String()),
			zap.String("span_id", sc.SpanID().String()),
		)
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}
