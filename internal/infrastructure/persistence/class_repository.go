package persistence

import (
	"context"

	"github.com/edusaas/backend/internal/domain/academy"
	"github.com/edusaas/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormClassRepository implements academy.ClassRepository using GORM
type GormClassRepository struct {
	db *gorm.DB
}

// NewGormClassRepository creates a new GormClassRepository
func NewGormClassRepository(db *gorm.DB) *GormClassRepository {
	return &GormClassRepository{db: db}
}

// FindByID finds a class by its ID
func (r *GormClassRepository) FindByID(ctx context.Context, id uuid.UUID) (*academy.Class, error) {
	var model models.ClassModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByInstitutionAndName matches the name exactly: no trimming, no case folding.
func (r *GormClassRepository) FindByInstitutionAndName(ctx context.Context, institutionID uuid.UUID, name string) (*academy.Class, error) {
	var model models.ClassModel
	if err := r.db.WithContext(ctx).
		Scopes(InstitutionScope(institutionID)).
		Where("name = ?", name).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByInstitution lists an institution's classes, newest first
func (r *GormClassRepository) FindByInstitution(ctx context.Context, institutionID uuid.UUID) ([]academy.Class, error) {
	var classModels []models.ClassModel
	if err := r.db.WithContext(ctx).
		Scopes(InstitutionScope(institutionID)).
		Order("created_at DESC").
		Find(&classModels).Error; err != nil {
		return nil, err
	}

	classes := make([]academy.Class, len(classModels))
	for i := range classModels {
		classes[i] = *classModels[i].ToDomain()
	}
	return classes, nil
}

func (r *GormClassRepository) ExistsByInstitutionAndName(ctx context.Context, institutionID uuid.UUID, name string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ClassModel{}).
		Scopes(InstitutionScope(institutionID)).
		Where("name = ?", name).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

// Save creates or updates a class
func (r *GormClassRepository) Save(ctx context.Context, class *academy.Class) error {
	model := models.ClassModelFromDomain(class)
	return translateError(r.db.WithContext(ctx).Save(model).Error)
}

// Count counts all classes across institutions
func (r *GormClassRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.ClassModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

var _ academy.ClassRepository = (*GormClassRepository)(nil)
