package models

import (
	"time"

	"github.com/edusaas/backend/internal/domain/identity"
	"github.com/google/uuid"
)

// InstitutionModel is the persistence model for the Institution aggregate.
// Subdomain is nullable so that the unique index ignores unclaimed rows.
type InstitutionModel struct {
	VersionedRecord
	Name         string  `gorm:"type:varchar(100);not null"`
	ContactEmail string  `gorm:"type:varchar(255);not null"`
	LogoURL      string  `gorm:"type:varchar(500)"`
	Subdomain    *string `gorm:"type:varchar(30);uniqueIndex"`
}

// TableName returns the table name for GORM
func (InstitutionModel) TableName() string {
	return "institutions"
}

// ToDomain converts the persistence model to a domain Institution
func (m *InstitutionModel) ToDomain() *identity.Institution {
	inst := &identity.Institution{
		BaseAggregateRoot: m.aggregate(),
		Name:              m.Name,
		ContactEmail:      m.ContactEmail,
		LogoURL:           m.LogoURL,
	}
	if m.Subdomain != nil {
		inst.Subdomain = *m.Subdomain
	}
	return inst
}

// FromDomain populates the persistence model from a domain Institution
func (m *InstitutionModel) FromDomain(i *identity.Institution) {
	m.setAggregate(i.BaseAggregateRoot)
	m.Name = i.Name
	m.ContactEmail = i.ContactEmail
	m.LogoURL = i.LogoURL
	m.Subdomain = nil
	if i.Subdomain != "" {
		sub := i.Subdomain
		m.Subdomain = &sub
	}
}

// InstitutionModelFromDomain creates a new persistence model from a domain Institution
func InstitutionModelFromDomain(i *identity.Institution) *InstitutionModel {
	m := &InstitutionModel{}
	m.FromDomain(i)
	return m
}

// AdminAccountModel is the persistence model for staff accounts
type AdminAccountModel struct {
	Record
	InstitutionID uuid.UUID `gorm:"type:uuid;not null;index"`
	Email         string    `gorm:"type:varchar(255);not null;uniqueIndex"`
	FullName      string    `gorm:"type:varchar(100);not null"`
	PasswordHash  string    `gorm:"type:varchar(255);not null"`
	LastLoginAt   *time.Time
}

// TableName returns the table name for GORM
func (AdminAccountModel) TableName() string {
	return "admin_accounts"
}

// ToDomain converts the persistence model to a domain AdminAccount
func (m *AdminAccountModel) ToDomain() *identity.AdminAccount {
	return &identity.AdminAccount{
		BaseEntity:    m.Record.entity(),
		InstitutionID: m.InstitutionID,
		Email:         m.Email,
		FullName:      m.FullName,
		PasswordHash:  m.PasswordHash,
		LastLoginAt:   m.LastLoginAt,
	}
}

// AdminAccountModelFromDomain creates a new persistence model from a domain AdminAccount
func AdminAccountModelFromDomain(a *identity.AdminAccount) *AdminAccountModel {
	m := &AdminAccountModel{
		InstitutionID: a.InstitutionID,
		Email:         a.Email,
		FullName:      a.FullName,
		PasswordHash:  a.PasswordHash,
		LastLoginAt:   a.LastLoginAt,
	}
	m.setEntity(a.BaseEntity)
	return m
}

// UserRoleModel is the persistence model for role grants
type UserRoleModel struct {
	ID            uuid.UUID     `gorm:"type:uuid;primary_key"`
	UserID        uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_user_roles_user_institution_role"`
	InstitutionID uuid.UUID     `gorm:"type:uuid;not null;uniqueIndex:idx_user_roles_user_institution_role"`
	Role          identity.Role `gorm:"type:varchar(50);not null;uniqueIndex:idx_user_roles_user_institution_role"`
	CreatedAt     time.Time     `gorm:"not null"`
}

// TableName returns the table name for GORM
func (UserRoleModel) TableName() string {
	return "user_roles"
}

// ToDomain converts the persistence model to a domain UserRole
func (m *UserRoleModel) ToDomain() identity.UserRole {
	return identity.UserRole{
		ID:            m.ID,
		UserID:        m.UserID,
		InstitutionID: m.InstitutionID,
		Role:          m.Role,
		CreatedAt:     m.CreatedAt,
	}
}

// UserRoleModelFromDomain creates a new persistence model from a domain UserRole
func UserRoleModelFromDomain(r *identity.UserRole) *UserRoleModel {
	return &UserRoleModel{
		ID:            r.ID,
		UserID:        r.UserID,
		InstitutionID: r.InstitutionID,
		Role:          r.Role,
		CreatedAt:     r.CreatedAt,
	}
}
