package telemetry

import (
	"context"
	"errors"
	"time"

	"github.com/edusaas/backend/internal/domain/billing"
	"go.opentelemetry.io/otel/metric"
)

// ErrMeterNil is returned when a metrics constructor receives a nil meter.
var ErrMeterNil = errors.New("meter cannot be nil")

// WebhookMetrics records how payment webhooks are resolved.
//
//	stripe_webhook_events_total{event_type, outcome}
//	stripe_webhook_skipped_total{event_type, reason}
//	stripe_webhook_duration_seconds{event_type, outcome}
type WebhookMetrics struct {
	events   *Counter
	skipped  *Counter
	duration *Histogram
}

// NewWebhookMetrics creates the webhook instruments on meter.
func NewWebhookMetrics(meter metric.Meter) (*WebhookMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	events, err := NewCounter(meter,
		"stripe_webhook_events_total",
		"Verified payment webhook events by type and outcome",
		"{event}",
	)
	if err != nil {
		return nil, err
	}

	skipped, err := NewCounter(meter,
		"stripe_webhook_skipped_total",
		"Skipped payment webhook events by reason",
		"{event}",
	)
	if err != nil {
		return nil, err
	}

	duration, err := NewHistogram(meter, HistogramOpts{
		Name:        "stripe_webhook_duration_seconds",
		Description: "Time spent dispatching a verified webhook event",
		Unit:        "s",
		Boundaries:  WebhookDurationBuckets,
	})
	if err != nil {
		return nil, err
	}

	return &WebhookMetrics{events: events, skipped: skipped, duration: duration}, nil
}

// RecordOutcome counts one dispatched event. A nil receiver is a no-op.
func (m *WebhookMetrics) RecordOutcome(ctx context.Context, eventType string, outcome billing.Outcome, elapsed time.Duration) {
	if m == nil {
		return
	}
	kind := outcome.Kind.String()
	m.events.Inc(ctx, AttrEventType.String(eventType), AttrOutcome.String(kind))
	m.duration.RecordDuration(ctx, elapsed, AttrEventType.String(eventType), AttrOutcome.String(kind))
	if outcome.IsSkipped() {
		m.skipped.Inc(ctx, AttrEventType.String(eventType), AttrReason.String(outcome.Reason))
	}
}
