package billing

import (
	"context"
	"errors"
	"fmt"

	"github.com/edusaas/backend/internal/domain/academy"
	"github.com/edusaas/backend/internal/domain/billing"
	"github.com/edusaas/backend/internal/domain/shared"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// EnrollmentWriter turns a resolved checkout into a Student row
type EnrollmentWriter struct {
	classes  academy.ClassRepository
	students academy.StudentRepository
	events   shared.EventPublisher
	logger   *zap.Logger
}

// NewEnrollmentWriter creates an EnrollmentWriter. events may be nil.
func NewEnrollmentWriter(classes academy.ClassRepository, students academy.StudentRepository, events shared.EventPublisher, logger *zap.Logger) *EnrollmentWriter {
	return &EnrollmentWriter{classes: classes, students: students, events: events, logger: logger}
}

// Enroll inserts an active student for the class named by target.
// Every call inserts a new row; redelivered checkouts are not merged.
func (w *EnrollmentWriter) Enroll(ctx context.Context, session billing.CheckoutSession, target EnrollmentTarget) billing.Outcome {
	institutionID, err := uuid.Parse(target.InstitutionID)
	if err != nil {
		w.logger.Warn("Payment link metadata carries a malformed institution id",
			zap.String("institution_id", target.InstitutionID),
			zap.String("class_name", target.ClassName))
		return billing.Skipped(billing.ReasonClassNotFound)
	}

	class, err := w.classes.FindByInstitutionAndName(ctx, institutionID, target.ClassName)
	if err != nil {
		if !errors.Is(err, shared.ErrNotFound) {
			w.logger.Error("Class lookup failed", zap.Error(err))
		}
		w.logger.Warn("Class not found for checkout",
			zap.String("institution_id", target.InstitutionID),
			zap.String("class_name", target.ClassName),
			zap.String("checkout_session_id", session.ID))
		return billing.Skipped(billing.ReasonClassNotFound)
	}

	student, err := academy.NewStudent(academy.Enrollment{
		ClassID:              class.ID,
		Name:                 session.CustomerName,
		Email:                session.CustomerEmail,
		Phone:                session.CustomerPhone,
		StripeCustomerID:     session.CustomerID,
		StripeSubscriptionID: session.SubscriptionID,
	})
	if err != nil {
		return billing.Fatal(fmt.Errorf("build student: %w", err))
	}

	if err := w.students.Create(ctx, student); err != nil {
		return billing.Fatal(err)
	}

	w.logger.Info("Student enrolled",
		zap.String("student_id", student.ID.String()),
		zap.String("class_id", class.ID.String()),
		zap.String("stripe_subscription_id", student.StripeSubscriptionID))

	publish(ctx, w.events, w.logger, academy.NewStudentEnrolledEvent(student, class.InstitutionID))
	return billing.OK()
}

// publish hands events to the bus; bus failures never change an outcome.
func publish(ctx context.Context, events shared.EventPublisher, logger *zap.Logger, evts ...shared.DomainEvent) {
	if events == nil {
		return
	}
	if err := events.Publish(ctx, evts...); err != nil {
		logger.Warn("Failed to publish domain events", zap.Error(err))
	}
}
