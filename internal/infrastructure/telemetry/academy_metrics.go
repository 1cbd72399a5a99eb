package telemetry

import (
	"context"
	"strconv"

	"github.com/edusaas/backend/internal/domain/academy"
	"github.com/edusaas/backend/internal/domain/identity"
	"github.com/edusaas/backend/internal/domain/shared"
	"go.opentelemetry.io/otel/metric"
)

// AcademyMetrics counts domain events published on the event bus. It is
// registered as a shared.EventHandler so services stay unaware of metrics.
type AcademyMetrics struct {
	institutions  *Counter
	classes       *Counter
	enrollments   *Counter
	statusChanges *Counter
}

// NewAcademyMetrics creates the academy counters on meter.
func NewAcademyMetrics(meter metric.Meter) (*AcademyMetrics, error) {
	if meter == nil {
		return nil, ErrMeterNil
	}

	institutions, err := NewCounter(meter, "institutions_registered_total", "Institutions created through signup", "{institution}")
	if err != nil {
		return nil, err
	}
	classes, err := NewCounter(meter, "classes_created_total", "Classes created, by whether a payment link was provisioned", "{class}")
	if err != nil {
		return nil, err
	}
	enrollments, err := NewCounter(meter, "student_enrollments_total", "Students enrolled from completed checkouts", "{student}")
	if err != nil {
		return nil, err
	}
	statusChanges, err := NewCounter(meter, "subscription_status_changes_total", "Subscriber rows updated by status synchronization", "{student}")
	if err != nil {
		return nil, err
	}

	return &AcademyMetrics{
		institutions:  institutions,
		classes:       classes,
		enrollments:   enrollments,
		statusChanges: statusChanges,
	}, nil
}

// EventTypes implements shared.EventHandler.
func (m *AcademyMetrics) EventTypes() []string {
	return []string{
		identity.EventTypeInstitutionRegistered,
		academy.EventTypeClassCreated,
		academy.EventTypeStudentEnrolled,
		academy.EventTypeSubscriptionStatusChanged,
	}
}

// Handle implements shared.EventHandler.
func (m *AcademyMetrics) Handle(ctx context.Context, event shared.DomainEvent) error {
	switch e := event.(type) {
	case *identity.InstitutionRegisteredEvent:
		m.institutions.Inc(ctx)
	case *academy.ClassCreatedEvent:
		m.classes.Inc(ctx,
			AttrInstitutionID.String(e.InstitutionID().String()),
			AttrProvisioned.String(strconv.FormatBool(e.HasPaymentLink)),
		)
	case *academy.StudentEnrolledEvent:
		m.enrollments.Inc(ctx, AttrInstitutionID.String(e.InstitutionID().String()))
	case *academy.SubscriptionStatusChangedEvent:
		m.statusChanges.Add(ctx, e.RowsAffected, AttrSubscriptionStatus.String(string(e.Status)))
	}
	return nil
}

var _ shared.EventHandler = (*AcademyMetrics)(nil)
