package academy

import (
	"time"

	"github.com/edusaas/backend/internal/domain/academy"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClassResponse is the API view of a class
type ClassResponse struct {
	ID                uuid.UUID       `json:"id"`
	InstitutionID     uuid.UUID       `json:"institution_id"`
	Name              string          `json:"name"`
	MonthlyPrice      decimal.Decimal `json:"monthly_price"`
	Currency          string          `json:"currency"`
	StripeProductID   *string         `json:"stripe_product_id"`
	StripePriceID     *string         `json:"stripe_price_id"`
	StripePaymentLink *string         `json:"stripe_payment_link"`
	CreatedAt         time.Time       `json:"created_at"`
	UpdatedAt         time.Time       `json:"updated_at"`
}

// StudentResponse is the API view of a student
type StudentResponse struct {
	ID                   uuid.UUID `json:"id"`
	ClassID              uuid.UUID `json:"class_id"`
	Name                 string    `json:"name"`
	Email                string    `json:"email"`
	Phone                *string   `json:"phone"`
	StripeCustomerID     string    `json:"stripe_customer_id"`
	StripeSubscriptionID string    `json:"stripe_subscription_id"`
	SubscriptionStatus   string    `json:"subscription_status"`
	SubscribedSince      time.Time `json:"subscribed_since"`
}

// ClassDetailResponse is a class with its students and their status tally
type ClassDetailResponse struct {
	Class    ClassResponse       `json:"class"`
	Students []StudentResponse   `json:"students"`
	Counts   academy.StatusCounts `json:"counts"`
}

// CreateClassInput contains the input for creating a class
type CreateClassInput struct {
	UserID               uuid.UUID
	InstitutionID        uuid.UUID
	Name                 string
	MonthlyPrice         decimal.Decimal
	ProvisionPaymentLink bool
}

// CreateClassResult is returned after a class is created
type CreateClassResult struct {
	Class       ClassResponse `json:"class"`
	PaymentLink *string       `json:"payment_link"`
}

// ToClassResponse converts a domain Class
func ToClassResponse(c *academy.Class) ClassResponse {
	return ClassResponse{
		ID:                c.ID,
		InstitutionID:     c.InstitutionID,
		Name:              c.Name,
		MonthlyPrice:      c.MonthlyPrice.Amount(),
		Currency:          string(c.MonthlyPrice.Currency()),
		StripeProductID:   optional(c.StripeProductID),
		StripePriceID:     optional(c.StripePriceID),
		StripePaymentLink: optional(c.StripePaymentLink),
		CreatedAt:         c.CreatedAt,
		UpdatedAt:         c.UpdatedAt,
	}
}

// ToStudentResponse converts a domain Student
func ToStudentResponse(s *academy.Student) StudentResponse {
	return StudentResponse{
		ID:                   s.ID,
		ClassID:              s.ClassID,
		Name:                 s.Name,
		Email:                s.Email,
		Phone:                s.Phone,
		StripeCustomerID:     s.StripeCustomerID,
		StripeSubscriptionID: s.StripeSubscriptionID,
		SubscriptionStatus:   s.SubscriptionStatus.String(),
		SubscribedSince:      s.SubscribedSince,
	}
}

func optional(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}
