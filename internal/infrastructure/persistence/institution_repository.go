package persistence

import (
	"context"

	"github.com/edusaas/backend/internal/domain/identity"
	"github.com/edusaas/backend/internal/domain/shared"
	"github.com/edusaas/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormInstitutionRepository implements identity.InstitutionRepository using GORM
type GormInstitutionRepository struct {
	db *gorm.DB
}

// NewGormInstitutionRepository creates a new GormInstitutionRepository
func NewGormInstitutionRepository(db *gorm.DB) *GormInstitutionRepository {
	return &GormInstitutionRepository{db: db}
}

// FindByID finds an institution by its ID
func (r *GormInstitutionRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Institution, error) {
	var model models.InstitutionModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindBySubdomain finds an institution by its claimed subdomain
func (r *GormInstitutionRepository) FindBySubdomain(ctx context.Context, subdomain string) (*identity.Institution, error) {
	var model models.InstitutionModel
	if err := r.db.WithContext(ctx).
		Where("subdomain = ?", subdomain).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// ExistsBySubdomain checks whether any institution holds the subdomain
func (r *GormInstitutionRepository) ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.InstitutionModel{}).
		Where("subdomain = ?", subdomain).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save inserts a new institution or updates a stored one. An update only
// applies when the row still carries the version the aggregate was loaded
// at; otherwise ErrConcurrencyConflict is returned and nothing is written.
func (r *GormInstitutionRepository) Save(ctx context.Context, institution *identity.Institution) error {
	model := models.InstitutionModelFromDomain(institution)
	loaded := institution.PersistedVersion()

	if loaded == 0 {
		if err := r.db.WithContext(ctx).Create(model).Error; err != nil {
			return translateError(err)
		}
		institution.MarkPersisted()
		return nil
	}
	if institution.Version == loaded {
		return nil
	}

	result := r.db.WithContext(ctx).Model(&models.InstitutionModel{}).
		Where("id = ? AND version = ?", model.ID, loaded).
		Select("name", "contact_email", "logo_url", "subdomain", "version", "updated_at").
		Updates(model)
	if result.Error != nil {
		return translateError(result.Error)
	}
	if result.RowsAffected == 0 {
		return shared.ErrConcurrencyConflict
	}
	institution.MarkPersisted()
	return nil
}

var _ identity.InstitutionRepository = (*GormInstitutionRepository)(nil)
