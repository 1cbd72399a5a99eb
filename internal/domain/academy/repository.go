package academy

import (
	"context"

	"github.com/google/uuid"
)

// ClassRepository defines the interface for class persistence
type ClassRepository interface {
	// FindByID finds a class by its ID
	FindByID(ctx context.Context, id uuid.UUID) (*Class, error)

	// FindByInstitutionAndName finds the class with exactly this name in the institution
	FindByInstitutionAndName(ctx context.Context, institutionID uuid.UUID, name string) (*Class, error)

	// FindByInstitution lists an institution's classes, newest first
	FindByInstitution(ctx context.Context, institutionID uuid.UUID) ([]Class, error)

	// ExistsByInstitutionAndName checks for a name clash within the institution
	ExistsByInstitutionAndName(ctx context.Context, institutionID uuid.UUID, name string) (bool, error)

	// Save creates or updates a class
	Save(ctx context.Context, class *Class) error

	// Count counts all classes
	Count(ctx context.Context) (int64, error)
}

// StudentRepository defines the interface for student persistence
type StudentRepository interface {
	// Create inserts a new student row. It never merges with an existing
	// row for the same subscription.
	Create(ctx context.Context, student *Student) error

	// FindByClass lists a class's students, most recently subscribed first
	FindByClass(ctx context.Context, classID uuid.UUID) ([]Student, error)

	// FindBySubscriptionID lists every row carrying the provider subscription id
	FindBySubscriptionID(ctx context.Context, subscriptionID string) ([]Student, error)

	// UpdateStatusBySubscriptionID sets the status on every row with exactly
	// this subscription id and returns the number of rows changed
	UpdateStatusBySubscriptionID(ctx context.Context, subscriptionID string, status SubscriptionStatus) (int64, error)

	// Count counts all students
	Count(ctx context.Context) (int64, error)
}
