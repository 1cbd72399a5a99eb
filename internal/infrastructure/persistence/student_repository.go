package persistence

import (
	"context"
	"time"

	"github.com/edusaas/backend/internal/domain/academy"
	"github.com/edusaas/backend/internal/infrastructure/persistence/models"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// GormStudentRepository implements academy.StudentRepository using GORM
type GormStudentRepository struct {
	db *gorm.DB
}

// NewGormStudentRepository creates a new GormStudentRepository
func NewGormStudentRepository(db *gorm.DB) *GormStudentRepository {
	return &GormStudentRepository{db: db}
}

// Create inserts a new student row
func (r *GormStudentRepository) Create(ctx context.Context, student *academy.Student) error {
	return r.db.WithContext(ctx).Create(models.StudentModelFromDomain(student)).Error
}

// FindByClass lists a class's students, most recently subscribed first
func (r *GormStudentRepository) FindByClass(ctx context.Context, classID uuid.UUID) ([]academy.Student, error) {
	var studentModels []models.StudentModel
	if err := r.db.WithContext(ctx).
		Where("class_id = ?", classID).
		Order("subscribed_since DESC").
		Find(&studentModels).Error; err != nil {
		return nil, err
	}
	return toStudents(studentModels), nil
}

// FindBySubscriptionID lists every row carrying the provider subscription id
func (r *GormStudentRepository) FindBySubscriptionID(ctx context.Context, subscriptionID string) ([]academy.Student, error) {
	var studentModels []models.StudentModel
	if err := r.db.WithContext(ctx).
		Where("stripe_subscription_id = ?", subscriptionID).
		Order("subscribed_since DESC").
		Find(&studentModels).Error; err != nil {
		return nil, err
	}
	return toStudents(studentModels), nil
}

// UpdateStatusBySubscriptionID sets the status on every matching row and
// reports how many rows matched
func (r *GormStudentRepository) UpdateStatusBySubscriptionID(ctx context.Context, subscriptionID string, status academy.SubscriptionStatus) (int64, error) {
	result := r.db.WithContext(ctx).Model(&models.StudentModel{}).
		Where("stripe_subscription_id = ?", subscriptionID).
		Updates(map[string]any{
			"subscription_status": status,
			"updated_at":          time.Now(),
		})
	if result.Error != nil {
		return 0, result.Error
	}
	return result.RowsAffected, nil
}

// Count counts all students across classes
func (r *GormStudentRepository) Count(ctx context.Context) (int64, error) {
	var count int64
	if err := r.db.WithContext(ctx).Model(&models.StudentModel{}).Count(&count).Error; err != nil {
		return 0, err
	}
	return count, nil
}

func toStudents(studentModels []models.StudentModel) []academy.Student {
	students := make([]academy.Student, len(studentModels))
	for i := range studentModels {
		students[i] = *studentModels[i].ToDomain()
	}
	return students
}

var _ academy.StudentRepository = (*GormStudentRepository)(nil)
