// Package billing reconciles payment provider webhooks with local subscriber records.
package billing

import (
	"context"
	"fmt"
	"time"

	"github.com/edusaas/backend/internal/domain/academy"
	"github.com/edusaas/backend/internal/domain/billing"
	"github.com/edusaas/backend/internal/domain/shared"
	"github.com/edusaas/backend/internal/infrastructure/logger"
	"github.com/edusaas/backend/internal/infrastructure/telemetry"
	"go.opentelemetry.io/otel/trace"
	"go.uber.org/zap"
)

// EventVerifier authenticates a raw webhook body and decodes it.
// Implementations return errors wrapping billing.ErrMissingSignature,
// billing.ErrInvalidSignature or billing.ErrUndecodableEvent.
type EventVerifier interface {
	Verify(payload []byte, signatureHeader string) (billing.Event, error)
}

// WebhookResult describes how one verified event was handled
type WebhookResult struct {
	EventID   string
	EventType string
	Outcome   billing.Outcome
}

// WebhookService verifies payment webhooks and dispatches them by event kind
type WebhookService struct {
	verifier    EventVerifier
	resolver    *MetadataResolver
	enrollments *EnrollmentWriter
	statuses    *StatusSynchronizer
	idempotency shared.IdempotencyStore
	idemTTL     time.Duration
	metrics     *telemetry.WebhookMetrics
	logger      *zap.Logger
}

// WebhookServiceConfig contains the dependencies of WebhookService.
// IdempotencyStore, EventBus and Metrics are optional.
type WebhookServiceConfig struct {
	Verifier         EventVerifier
	PaymentLinks     billing.PaymentLinkReader
	Classes          academy.ClassRepository
	Students         academy.StudentRepository
	IdempotencyStore shared.IdempotencyStore
	IdempotencyTTL   time.Duration
	EventBus         shared.EventPublisher
	Metrics          *telemetry.WebhookMetrics
	Logger           *zap.Logger
}

// NewWebhookService creates a new WebhookService
func NewWebhookService(cfg WebhookServiceConfig) *WebhookService {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	ttl := cfg.IdempotencyTTL
	if ttl <= 0 {
		ttl = shared.DefaultIdempotencyTTL
	}
	return &WebhookService{
		verifier:    cfg.Verifier,
		resolver:    NewMetadataResolver(cfg.PaymentLinks, log),
		enrollments: NewEnrollmentWriter(cfg.Classes, cfg.Students, cfg.EventBus, log),
		statuses:    NewStatusSynchronizer(cfg.Students, cfg.EventBus, log),
		idempotency: cfg.IdempotencyStore,
		idemTTL:     ttl,
		metrics:     cfg.Metrics,
		logger:      log,
	}
}

// ProcessWebhook verifies payload and handles the event it carries.
// A verification or decoding error means nothing was written.
func (s *WebhookService) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*WebhookResult, error) {
	event, err := s.verifier.Verify(payload, signature)
	if err != nil {
		s.logger.Warn("Rejected webhook", zap.Error(err))
		return nil, err
	}

	ctx = logger.WithEventID(ctx, event.EventID())
	ctx, span := telemetry.StartServiceSpan(ctx, "stripe_webhook", "handle",
		trace.WithSpanKind(trace.SpanKindServer))
	defer span.End()
	telemetry.SetAttributes(span,
		telemetry.SpanAttrEventID, event.EventID(),
		telemetry.SpanAttrEventType, event.EventType(),
	)

	start := time.Now()
	var outcome billing.Outcome
	telemetry.WithProfilingLabels(ctx, map[string]string{
		telemetry.ProfilingLabelOperation: "stripe_webhook",
		telemetry.ProfilingLabelEventType: event.EventType(),
	}, func(ctx context.Context) {
		outcome = s.handle(ctx, event)
	})

	s.metrics.RecordOutcome(ctx, event.EventType(), outcome, time.Since(start))
	telemetry.SetAttributes(span, telemetry.SpanAttrOutcome, outcome.Kind.String())

	log := logger.WithLogger(ctx, s.logger).With(
		zap.String("event_type", event.EventType()),
		zap.String("outcome", outcome.Kind.String()),
	)
	switch outcome.Kind {
	case billing.OutcomeFatal:
		telemetry.RecordError(span, outcome.Cause)
		log.Error("Webhook event failed", zap.Error(outcome.Cause))
	case billing.OutcomeSkipped:
		log.Info("Webhook event skipped", zap.String("reason", outcome.Reason))
	default:
		log.Info("Webhook event processed")
	}

	return &WebhookResult{
		EventID:   event.EventID(),
		EventType: event.EventType(),
		Outcome:   outcome,
	}, nil
}

// handle applies the optional duplicate guard around Dispatch.
func (s *WebhookService) handle(ctx context.Context, event billing.Event) billing.Outcome {
	if s.idempotency == nil || event.EventID() == "" {
		return s.Dispatch(ctx, event)
	}

	// The claim is taken before dispatch so overlapping deliveries of one
	// event cannot both apply it.
	eventID := event.EventID()
	claimed, err := s.idempotency.MarkProcessed(ctx, eventID, s.idemTTL)
	if err != nil {
		s.logger.Warn("Idempotency claim failed, processing anyway",
			zap.String("event_id", eventID), zap.Error(err))
		return s.Dispatch(ctx, event)
	}
	if !claimed {
		return billing.Skipped(billing.ReasonDuplicateEvent)
	}

	// A fatal outcome or a panic gives the claim back so a provider retry
	// can succeed.
	defer func() {
		if r := recover(); r != nil {
			s.forget(ctx, eventID)
			panic(r)
		}
	}()
	outcome := s.Dispatch(ctx, event)
	if outcome.IsFatal() {
		s.forget(ctx, eventID)
	}
	return outcome
}

func (s *WebhookService) forget(ctx context.Context, eventID string) {
	if err := s.idempotency.Forget(context.WithoutCancel(ctx), eventID); err != nil {
		s.logger.Warn("Failed to release idempotency claim",
			zap.String("event_id", eventID), zap.Error(err))
	}
}

// Dispatch routes a verified event to its handler.
func (s *WebhookService) Dispatch(ctx context.Context, event billing.Event) billing.Outcome {
	switch e := event.(type) {
	case billing.CheckoutCompleted:
		target, outcome := s.resolver.Resolve(ctx, e.Session)
		if !outcome.IsOK() {
			return outcome
		}
		return s.enrollments.Enroll(ctx, e.Session, target)

	case billing.SubscriptionDeleted:
		return s.statuses.Sync(ctx, e.SubscriptionID, academy.SubscriptionStatusCanceled)

	case billing.SubscriptionUpdated:
		return s.statuses.Sync(ctx, e.SubscriptionID, academy.MapProviderStatus(e.ProviderStatus))

	case billing.Unhandled:
		s.logger.Debug("Unhandled webhook event type", zap.String("event_type", e.Type))
		return billing.Skipped(billing.ReasonUnhandledEvent)

	default:
		panic(fmt.Sprintf("billing: unexpected event variant %T", event))
	}
}
