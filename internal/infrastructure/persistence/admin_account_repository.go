package persistence

import (
	"context"
	"strings"

	"github.com/edusaas/backend/internal/domain/identity"
	"github.com/edusaas/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormAdminAccountRepository implements identity.AdminAccountRepository using GORM
type GormAdminAccountRepository struct {
	db *gorm.DB
}

// NewGormAdminAccountRepository creates a new GormAdminAccountRepository
func NewGormAdminAccountRepository(db *gorm.DB) *GormAdminAccountRepository {
	return &GormAdminAccountRepository{db: db}
}

func (r *GormAdminAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.AdminAccount, error) {
	var model models.AdminAccountModel
	if err := r.db.WithContext(ctx).First(&model, "id = ?", id).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

// FindByEmail looks up an account by email, case-insensitively
func (r *GormAdminAccountRepository) FindByEmail(ctx context.Context, email string) (*identity.AdminAccount, error) {
	var model models.AdminAccountModel
	if err := r.db.WithContext(ctx).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		First(&model).Error; err != nil {
		return nil, translateError(err)
	}
	return model.ToDomain(), nil
}

func (r *GormAdminAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.AdminAccountModel{}).
		Where("email = ?", strings.ToLower(strings.TrimSpace(email))).
		Count(&count).Error; err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *GormAdminAccountRepository) Save(ctx context.Context, account *identity.AdminAccount) error {
	model := models.AdminAccountModelFromDomain(account)
	return translateError(r.db.WithContext(ctx).Save(model).Error)
}

var _ identity.AdminAccountRepository = (*GormAdminAccountRepository)(nil)
