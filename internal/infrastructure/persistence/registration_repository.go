package persistence

import (
	"context"

	"github.com/edusaas/backend/internal/domain/identity"
	"github.com/edusaas/backend/internal/infrastructure/persistence/models"
	"gorm.io/gorm"
)

// GormRegistrationRepository writes a signup's three rows in one transaction
type GormRegistrationRepository struct {
	db *gorm.DB
}

// NewGormRegistrationRepository creates a new GormRegistrationRepository
func NewGormRegistrationRepository(db *gorm.DB) *GormRegistrationRepository {
	return &GormRegistrationRepository{db: db}
}

// Register inserts the institution, its first admin account and the admin role
// grant. A duplicate email or subdomain surfaces as shared.ErrAlreadyExists and
// nothing is written.
func (r *GormRegistrationRepository) Register(ctx context.Context, institution *identity.Institution, account *identity.AdminAccount, role *identity.UserRole) error {
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(models.InstitutionModelFromDomain(institution)).Error; err != nil {
			return err
		}
		if err := tx.Create(models.AdminAccountModelFromDomain(account)).Error; err != nil {
			return err
		}
		return tx.Create(models.UserRoleModelFromDomain(role)).Error
	})
	if err != nil {
		return translateError(err)
	}
	institution.MarkPersisted()
	return nil
}

var _ identity.RegistrationRepository = (*GormRegistrationRepository)(nil)
