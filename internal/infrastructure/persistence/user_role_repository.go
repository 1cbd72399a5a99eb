package persistence

import (
	"context"

	"github.com/edusaas/backend/internal/domain/identity"
	"github.com/edusaas/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormUserRoleRepository implements identity.UserRoleRepository using GORM
type GormUserRoleRepository struct {
	db *gorm.DB
}

// NewGormUserRoleRepository creates a new GormUserRoleRepository
func NewGormUserRoleRepository(db *gorm.DB) *GormUserRoleRepository {
	return &GormUserRoleRepository{db: db}
}

// FindByUser lists every role grant held by the user, oldest first
func (r *GormUserRoleRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]identity.UserRole, error) {
	var roleModels []models.UserRoleModel
	if err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		Find(&roleModels).Error; err != nil {
		return nil, err
	}

	roles := make([]identity.UserRole, len(roleModels))
	for i := range roleModels {
		roles[i] = roleModels[i].ToDomain()
	}
	return roles, nil
}

// HasRole checks whether the user holds the role within the institution
func (r *GormUserRoleRepository) HasRole(ctx context.Context, userID, institutionID uuid.UUID, role identity.Role) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.UserRoleModel{}).
		Where("user_id = ? AND institution_id = ? AND role = ?", userID, institutionID, role).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormUserRoleRepository) Save(ctx context.Context, role *identity.UserRole) error {
	return translateError(r.db.WithContext(ctx).Create(models.UserRoleModelFromDomain(role)).Error)
}

var _ identity.UserRoleRepository = (*GormUserRoleRepository)(nil)
