package identity

import (
	"context"

	"github.com/google/uuid"
)

// InstitutionRepository defines the interface for institution persistence
type InstitutionRepository interface {
	// FindByID finds an institution by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Institution, error)

	// FindBySubdomain finds an institution by its claimed subdomain
	FindBySubdomain(ctx context.Context, subdomain string) (*Institution, error)

	// ExistsBySubdomain checks whether any institution holds the subdomain
	ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error)

	// Save creates or updates an institution
	Save(ctx context.Context, institution *Institution) error
}

// AdminAccountRepository defines the interface for admin account persistence
type AdminAccountRepository interface {
	FindByID(ctx context.Context, id uuid.UUID) (*AdminAccount, error)
	FindByEmail(ctx context.Context, email string) (*AdminAccount, error)
	ExistsByEmail(ctx context.Context, email string) (bool, error)
	Save(ctx context.Context, account *AdminAccount) error
}

// UserRoleRepository defines the interface for role grant persistence
type UserRoleRepository interface {
	// FindByUser lists every role grant held by the user
	FindByUser(ctx context.Context, userID uuid.UUID) ([]UserRole, error)

	// HasRole checks whether the user holds the role within the institution
	HasRole(ctx context.Context, userID, institutionID uuid.UUID, role Role) (bool, error)

	Save(ctx context.Context, role *UserRole) error
}

// RegistrationRepository persists a new institution together with its first
// admin account and role grant, all or nothing.
type RegistrationRepository interface {
	Register(ctx context.Context, institution *Institution, account *AdminAccount, role *UserRole) error
}
