package models

import (
	"time"

	"github.com/edusaas/backend/internal/domain/academy"
	"github.com/edusaas/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// ClassModel is the persistence model for the Class aggregate
type ClassModel struct {
	VersionedRecord
	InstitutionID     uuid.UUID       `gorm:"type:uuid;not null;uniqueIndex:idx_classes_institution_name"`
	Name              string          `gorm:"type:varchar(100);not null;uniqueIndex:idx_classes_institution_name"`
	MonthlyPrice      decimal.Decimal `gorm:"type:decimal(10,2);not null"`
	Currency          string          `gorm:"type:varchar(3);not null;default:'usd'"`
	StripeProductID   string          `gorm:"type:varchar(255)"`
	StripePriceID     string          `gorm:"type:varchar(255)"`
	StripePaymentLink string          `gorm:"type:varchar(500)"`
}

// TableName returns the table name for GORM
func (ClassModel) TableName() string {
	return "classes"
}

// ToDomain converts the persistence model to a domain Class.
// A stored code that is not three letters falls back to the default
// currency rather than failing the read.
func (m *ClassModel) ToDomain() *academy.Class {
	currency, err := valueobject.ParseCurrency(m.Currency)
	if err != nil {
		currency = valueobject.DefaultCurrency
	}
	price, err := valueobject.NewMoney(m.MonthlyPrice, currency)
	if err != nil {
		price, _ = valueobject.NewMoney(decimal.Zero, currency)
	}
	return &academy.Class{
		BaseAggregateRoot: m.aggregate(),
		InstitutionID:     m.InstitutionID,
		Name:              m.Name,
		MonthlyPrice:      price,
		StripeProductID:   m.StripeProductID,
		StripePriceID:     m.StripePriceID,
		StripePaymentLink: m.StripePaymentLink,
	}
}

// ClassModelFromDomain creates a new persistence model from a domain Class
func ClassModelFromDomain(c *academy.Class) *ClassModel {
	m := &ClassModel{
		InstitutionID:     c.InstitutionID,
		Name:              c.Name,
		MonthlyPrice:      c.MonthlyPrice.Amount(),
		Currency:          string(c.MonthlyPrice.Currency()),
		StripeProductID:   c.StripeProductID,
		StripePriceID:     c.StripePriceID,
		StripePaymentLink: c.StripePaymentLink,
	}
	m.setAggregate(c.BaseAggregateRoot)
	return m
}

// StudentModel is the persistence model for enrolled students.
// stripe_subscription_id is indexed but deliberately not unique: redelivered
// checkouts produce additional rows.
type StudentModel struct {
	Record
	ClassID              uuid.UUID                  `gorm:"type:uuid;not null;index"`
	Name                 string                     `gorm:"type:varchar(255);not null"`
	Email                string                     `gorm:"type:varchar(255);not null;default:''"`
	Phone                *string                    `gorm:"type:varchar(50)"`
	StripeCustomerID     string                     `gorm:"type:varchar(255);not null"`
	StripeSubscriptionID string                     `gorm:"type:varchar(255);not null;index"`
	SubscriptionStatus   academy.SubscriptionStatus `gorm:"type:varchar(20);not null;default:'active'"`
	SubscribedSince      time.Time                  `gorm:"not null"`
}

// TableName returns the table name for GORM
func (StudentModel) TableName() string {
	return "students"
}

// ToDomain converts the persistence model to a domain Student
func (m *StudentModel) ToDomain() *academy.Student {
	return &academy.Student{
		BaseEntity:           m.Record.entity(),
		ClassID:              m.ClassID,
		Name:                 m.Name,
		Email:                m.Email,
		Phone:                m.Phone,
		StripeCustomerID:     m.StripeCustomerID,
		StripeSubscriptionID: m.StripeSubscriptionID,
		SubscriptionStatus:   m.SubscriptionStatus,
		SubscribedSince:      m.SubscribedSince,
	}
}

// StudentModelFromDomain creates a new persistence model from a domain Student
func StudentModelFromDomain(s *academy.Student) *StudentModel {
	m := &StudentModel{
		ClassID:              s.ClassID,
		Name:                 s.Name,
		Email:                s.Email,
		Phone:                s.Phone,
		StripeCustomerID:     s.StripeCustomerID,
		StripeSubscriptionID: s.StripeSubscriptionID,
		SubscriptionStatus:   s.SubscriptionStatus,
		SubscribedSince:      s.SubscribedSince,
	}
	m.setEntity(s.BaseEntity)
	return m
}
