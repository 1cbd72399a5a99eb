package academy

import (
	"strings"

	"github.com/edusaas/backend/internal/domain/shared"
	"github.com/edusaas/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"golang.org/x/text/unicode/norm"
)

// Class is a recurring-billing offering owned by an institution.
// Price and payment link are fixed once the class exists.
type Class struct {
	shared.BaseAggregateRoot
	InstitutionID     uuid.UUID
	Name              string
	MonthlyPrice      valueobject.Money
	StripeProductID   string
	StripePriceID     string
	StripePaymentLink string
}

// PaymentLinkInfo carries the provider objects created for a class
type PaymentLinkInfo struct {
	ProductID      string
	PriceID        string
	PaymentLinkURL string
}

// NewClass creates a class. Pass a zero PaymentLinkInfo for a class without provider billing.
func NewClass(institutionID uuid.UUID, name string, monthlyPrice valueobject.Money, link PaymentLinkInfo) (*Class, error) {
	if institutionID == uuid.Nil {
		return nil, shared.NewDomainError("INVALID_INSTITUTION", "Institution ID cannot be empty")
	}
	name = NormalizeClassName(name)
	if err := ValidateClassName(name); err != nil {
		return nil, err
	}
	if err := ValidateMonthlyPrice(monthlyPrice); err != nil {
		return nil, err
	}

	class := &Class{
		BaseAggregateRoot: shared.NewBaseAggregateRoot(),
		InstitutionID:     institutionID,
		Name:              name,
		MonthlyPrice:      monthlyPrice.Round(),
		StripeProductID:   link.ProductID,
		StripePriceID:     link.PriceID,
		StripePaymentLink: link.PaymentLinkURL,
	}

	class.AddDomainEvent(NewClassCreatedEvent(class))

	return class, nil
}

// HasPaymentLink reports whether students can subscribe through the provider
func (c *Class) HasPaymentLink() bool {
	return c.StripePaymentLink != ""
}

// BelongsTo reports whether the class is owned by the institution
func (c *Class) BelongsTo(institutionID uuid.UUID) bool {
	return c.InstitutionID == institutionID
}

// NormalizeClassName trims and NFC-normalizes a class name. The stored name is
// what goes into payment link metadata, so enrollment lookups match it exactly.
func NormalizeClassName(name string) string {
	return norm.NFC.String(strings.TrimSpace(name))
}

// ValidateClassName checks the class name length rules
func ValidateClassName(name string) error {
	n := len([]rune(name))
	if n < 2 {
		return shared.NewDomainError("INVALID_NAME", "Class name must be at least 2 characters")
	}
	if n > 100 {
		return shared.NewDomainError("INVALID_NAME", "Class name cannot exceed 100 characters")
	}
	return nil
}

// ValidateMonthlyPrice requires a positive price of at least one cent
func ValidateMonthlyPrice(price valueobject.Money) error {
	if !price.IsPositive() || price.MinorUnits() < 1 {
		return shared.NewDomainError("INVALID_PRICE", "Price must be greater than 0")
	}
	return nil
}
