package academy

import (
	"strings"
	"time"

	"github.com/edusaas/backend/internal/domain/shared"
	"github.com/google/uuid"
)

// UnknownStudentName is stored when the checkout carried no purchaser name
const UnknownStudentName = "Unknown"

// Student is an end customer subscribed to a class
type Student struct {
	shared.BaseEntity
	ClassID              uuid.UUID
	Name                 string
	Email                string
	Phone                *string
	StripeCustomerID     string
	StripeSubscriptionID string
	SubscriptionStatus   SubscriptionStatus
	SubscribedSince      time.Time
}

// Enrollment carries the purchaser details copied from a completed checkout
type Enrollment struct {
	ClassID              uuid.UUID
	Name                 string
	Email                string
	Phone                string
	StripeCustomerID     string
	StripeSubscriptionID string
}

// NewStudent creates an active student from a completed checkout.
// Missing name falls back to UnknownStudentName, missing phone is stored as NULL.
func NewStudent(e Enrollment) (*Student, error) {
	if e.ClassID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_CLASS", "Class ID cannot be empty")
	}
	if e.StripeCustomerID == "" || e.StripeSubscriptionID == "" {
		return nil, shared.NewDomainError("INVALID_SUBSCRIPTION", "Customer and subscription IDs are required")
	}

	name := e.Name
	if strings.TrimSpace(name) == "" {
		name = UnknownStudentName
	}

	var phone *string
	if e.Phone != "" {
		p := e.Phone
		phone = &p
	}

	base := shared.NewBaseEntity()
	return &Student{
		BaseEntity:           base,
		ClassID:              e.ClassID,
		Name:                 name,
		Email:                e.Email,
		Phone:                phone,
		StripeCustomerID:     e.StripeCustomerID,
		StripeSubscriptionID: e.StripeSubscriptionID,
		SubscriptionStatus:   SubscriptionStatusActive,
		SubscribedSince:      base.CreatedAt,
	}, nil
}

// IsActive reports whether the subscription is currently active
func (s *Student) IsActive() bool {
	return s.SubscriptionStatus == SubscriptionStatusActive
}

// StatusCounts tallies students per subscription status
type StatusCounts struct {
	Active   int `json:"active"`
	Paused   int `json:"paused"`
	Canceled int `json:"canceled"`
}

// CountByStatus tallies the given students
func CountByStatus(students []Student) StatusCounts {
	var counts StatusCounts
	for _, s := range students {
		switch s.SubscriptionStatus {
		case SubscriptionStatusActive:
			counts.Active++
		case SubscriptionStatusPaused:
			counts.Paused++
		case SubscriptionStatusCanceled:
			counts.Canceled++
		}
	}
	return counts
}
