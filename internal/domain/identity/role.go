package identity

import (
	"time"

	"github.com/google/uuid"
)

// Role names a permission level an account holds within an institution
type Role string

const (
	RoleInstitutionAdmin Role = "institution_admin"
)

// IsValid reports whether the role is known
func (r Role) IsValid() bool {
	return r == RoleInstitutionAdmin
}

// UserRole grants an account a role within one institution
type UserRole struct {
	ID            uuid.UUID
	UserID        uuid.UUID
	InstitutionID uuid.UUID
	Role          Role
	CreatedAt     time.Time
}

// NewUserRole creates a role grant
func NewUserRole(userID, institutionID uuid.UUID, role Role) *UserRole {
	return &UserRole{
		ID:            uuid.New(),
		UserID:        userID,
		InstitutionID: institutionID,
		Role:          role,
		CreatedAt:     time.Now(),
	}
}
