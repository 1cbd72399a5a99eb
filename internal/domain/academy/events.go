package academy

import (
	"github.com/edusaas/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// Aggregate type constants
const (
	AggregateTypeClass   = "Class"
	AggregateTypeStudent = "Student"
)

// Event type constants
const (
	EventTypeClassCreated              = "ClassCreated"
	EventTypeStudentEnrolled           = "StudentEnrolled"
	EventTypeSubscriptionStatusChanged = "SubscriptionStatusChanged"
)

// ClassCreatedEvent is published when an admin creates a class
type ClassCreatedEvent struct {
	shared.BaseDomainEvent
	Name           string `json:"name"`
	MonthlyPrice   string `json:"monthly_price"`
	HasPaymentLink bool   `json:"has_payment_link"`
}

// NewClassCreatedEvent creates a new ClassCreatedEvent
func NewClassCreatedEvent(class *Class) *ClassCreatedEvent {
	return &ClassCreatedEvent{
		BaseDomainEvent: shared.NewBaseDomainEvent(EventTypeClassCreated, AggregateTypeClass, class.ID, class.InstitutionID),
		Name:            class.Name,
		MonthlyPrice:    class.MonthlyPrice.String(),
		HasPaymentLink:  class.HasPaymentLink(),
	}
}

// StudentEnrolledEvent is published after a checkout created a student row
type StudentEnrolledEvent struct {
	shared.BaseDomainEvent
	ClassID              uuid.UUID `json:"class_id"`
	StripeSubscriptionID string    `json:"stripe_subscription_id"`
}

// NewStudentEnrolledEvent creates a new StudentEnrolledEvent
func NewStudentEnrolledEvent(student *Student, institutionID uuid.UUID) *StudentEnrolledEvent {
	return &StudentEnrolledEvent{
		BaseDomainEvent:      shared.NewBaseDomainEvent(EventTypeStudentEnrolled, AggregateTypeStudent, student.ID, institutionID),
		ClassID:              student.ClassID,
		StripeSubscriptionID: student.StripeSubscriptionID,
	}
}

// SubscriptionStatusChangedEvent is published after a status sync touched at least one row
type SubscriptionStatusChangedEvent struct {
	shared.BaseDomainEvent
	StripeSubscriptionID string             `json:"stripe_subscription_id"`
	Status               SubscriptionStatus `json:"status"`
	RowsAffected         int64              `json:"rows_affected"`
}

// NewSubscriptionStatusChangedEvent creates a new SubscriptionStatusChangedEvent.
// The sync is keyed by subscription id only, so no aggregate or institution id is known.
func NewSubscriptionStatusChangedEvent(subscriptionID string, status SubscriptionStatus, rows int64) *SubscriptionStatusChangedEvent {
	return &SubscriptionStatusChangedEvent{
		BaseDomainEvent:      shared.NewBaseDomainEvent(EventTypeSubscriptionStatusChanged, AggregateTypeStudent, uuid.Nil, uuid.Nil),
		StripeSubscriptionID: subscriptionID,
		Status:               status,
		RowsAffected:         rows,
	}
}
