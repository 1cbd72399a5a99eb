// Package telemetry ships traces, metrics, and logs to an OTLP collector and
// runs the Pyroscope profiler. Every provider degrades to a no-op when its
// signal is disabled so callers never nil-check.
package telemetry

import (
	"context"
	"fmt"
	"time"

	"go.opentelemetry.io/otel/sdk/resource"
	semconv "go.opentelemetry.io/otel/semconv/v1.37.0"
	"go.uber.org/zap"
)

// ServiceVersion is reported as service.version on every exported signal.
const ServiceVersion = "1.0.0"

const shutdownTimeout = 10 * time.Second

// lifecycle is the flush/shutdown pair shared by the OTLP-backed providers.
// A zero lifecycle belongs to a disabled signal and every call is a no-op.
type lifecycle struct {
	signal   string
	logger   *zap.Logger
	flush    func(context.Context) error
	shutdown func(context.Context) error
}

func (l *lifecycle) active() bool {
	return l.shutdown != nil
}

// ForceFlush exports everything buffered so far.
func (l *lifecycle) ForceFlush(ctx context.Context) error {
	if l.flush == nil {
		return nil
	}
	return l.flush(ctx)
}

// Shutdown flushes and releases the exporter, waiting at most shutdownTimeout.
func (l *lifecycle) Shutdown(ctx context.Context) error {
	if !l.active() {
		return nil
	}
	ctx, cancel := context.WithTimeout(ctx, shutdownTimeout)
	defer cancel()

	l.logger.Info("Shutting down telemetry provider", zap.String("signal", l.signal))
	if err := l.shutdown(ctx); err != nil {
		l.logger.Error("Telemetry provider shutdown failed", zap.String("signal", l.signal), zap.Error(err))
		return fmt.Errorf("shutdown %s provider: %w", l.signal, err)
	}
	return nil
}

// newResource describes this service to the collector.
func newResource(serviceName string) (*resource.Resource, error) {
	res, err := resource.Merge(resource.Default(), resource.NewWithAttributes(
		semconv.SchemaURL,
		semconv.ServiceName(serviceName),
		semconv.ServiceVersion(ServiceVersion),
	))
	if err != nil {
		return nil, fmt.Errorf("build otel resource: %w", err)
	}
	return res, nil
}
