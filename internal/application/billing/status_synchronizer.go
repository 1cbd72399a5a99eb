package billing

import (
	"context"

	"github.com/edusaas/backend/internal/domain/academy"
	"github.com/edusaas/backend/internal/domain/billing"
	"github.com/edusaas/backend/internal/domain/shared"
	"go.uber.org/zap"
)

// StatusSynchronizer mirrors provider subscription state onto Student rows.
// It only updates; it never creates a row.
type StatusSynchronizer struct {
	students academy.StudentRepository
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewStatusSynchronizer creates a StatusSynchronizer. events may be nil.
func NewStatusSynchronizer(students academy.StudentRepository, events shared.EventPublisher, logger *zap.Logger) *StatusSynchronizer {
	return &StatusSynchronizer{students: students, events: events, logger: logger}
}

// Sync sets status on every student with exactly this subscription id.
// A canceled student is reactivated if a later update says so.
func (s *StatusSynchronizer) Sync(ctx context.Context, subscriptionID string, status academy.SubscriptionStatus) billing.Outcome {
	if subscriptionID == "" {
		return billing.Skipped(billing.ReasonNoSubscriber)
	}

	rows, err := s.students.UpdateStatusBySubscriptionID(ctx, subscriptionID, status)
	if err != nil {
		return billing.Fatal(err)
	}
	if rows == 0 {
		s.logger.Info("No subscriber for subscription",
			zap.String("stripe_subscription_id", subscriptionID),
			zap.String("status", status.String()))
		return billing.Skipped(billing.ReasonNoSubscriber)
	}

	s.logger.Info("Subscription status synchronized",
		zap.String("stripe_subscription_id", subscriptionID),
		zap.String("status", status.String()),
		zap.Int64("rows", rows))

	publish(ctx, s.events, s.logger, academy.NewSubscriptionStatusChangedEvent(subscriptionID, status, rows))
	return billing.OK()
}
