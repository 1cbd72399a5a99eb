package academy

import (
	"context"

	"github.com/edusaas/backend/internal/domain/academy"
	"github.com/edusaas/backend/internal/domain/identity"
	"github.com/edusaas/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

// MockClassRepository is a mock implementation of academy.ClassRepository
type MockClassRepository struct {
	mock.Mock
}

func (m *MockClassRepository) FindByID(ctx context.Context, id uuid.UUID) (*academy.Class, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academy.Class), args.Error(1)
}

func (m *MockClassRepository) FindByInstitutionAndName(ctx context.Context, institutionID uuid.UUID, name string) (*academy.Class, error) {
	args := m.Called(ctx, institutionID, name)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academy.Class), args.Error(1)
}

func (m *MockClassRepository) FindByInstitution(ctx context.Context, institutionID uuid.UUID) ([]academy.Class, error) {
	args := m.Called(ctx, institutionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]academy.Class), args.Error(1)
}

func (m *MockClassRepository) ExistsByInstitutionAndName(ctx context.Context, institutionID uuid.UUID, name string) (bool, error) {
	args := m.Called(ctx, institutionID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockClassRepository) Save(ctx context.Context, class *academy.Class) error {
	return m.Called(ctx, class).Error(0)
}

func (m *MockClassRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockStudentRepository is a mock implementation of academy.StudentRepository
type MockStudentRepository struct {
	mock.Mock
}

func (m *MockStudentRepository) Create(ctx context.Context, student *academy.Student) error {
	return m.Called(ctx, student).Error(0)
}

func (m *MockStudentRepository) FindByClass(ctx context.Context, classID uuid.UUID) ([]academy.Student, error) {
	args := m.Called(ctx, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]academy.Student), args.Error(1)
}

func (m *MockStudentRepository) FindBySubscriptionID(ctx context.Context, subscriptionID string) ([]academy.Student, error) {
	args := m.Called(ctx, subscriptionID)
	return args.Get(0).([]academy.Student), args.Error(1)
}

func (m *MockStudentRepository) UpdateStatusBySubscriptionID(ctx context.Context, subscriptionID string, status academy.SubscriptionStatus) (int64, error) {
	args := m.Called(ctx, subscriptionID, status)
	return args.Get(0).(int64), args.Error(1)
}

func (m *MockStudentRepository) Count(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

// MockInstitutionRepository is a mock implementation of identity.InstitutionRepository
type MockInstitutionRepository struct {
	mock.Mock
}

func (m *MockInstitutionRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.Institution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Institution), args.Error(1)
}

func (m *MockInstitutionRepository) FindBySubdomain(ctx context.Context, subdomain string) (*identity.Institution, error) {
	args := m.Called(ctx, subdomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.Institution), args.Error(1)
}

func (m *MockInstitutionRepository) ExistsBySubdomain(ctx context.Context, subdomain string) (bool, error) {
	args := m.Called(ctx, subdomain)
	return args.Bool(0), args.Error(1)
}

func (m *MockInstitutionRepository) Save(ctx context.Context, institution *identity.Institution) error {
	return m.Called(ctx, institution).Error(0)
}

// MockUserRoleRepository is a mock implementation of identity.UserRoleRepository
type MockUserRoleRepository struct {
	mock.Mock
}

func (m *MockUserRoleRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]identity.UserRole, error) {
	args := m.Called(ctx, userID)
	return args.Get(0).([]identity.UserRole), args.Error(1)
}

func (m *MockUserRoleRepository) HasRole(ctx context.Context, userID, institutionID uuid.UUID, role identity.Role) (bool, error) {
	args := m.Called(ctx, userID, institutionID, role)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRoleRepository) Save(ctx context.Context, role *identity.UserRole) error {
	return m.Called(ctx, role).Error(0)
}

// MockPaymentLinkProvisioner is a mock implementation of academy.PaymentLinkProvisioner
type MockPaymentLinkProvisioner struct {
	mock.Mock
}

func (m *MockPaymentLinkProvisioner) ProvisionPaymentLink(ctx context.Context, req academy.ProvisionRequest) (academy.PaymentLinkInfo, error) {
	args := m.Called(ctx, req)
	return args.Get(0).(academy.PaymentLinkInfo), args.Error(1)
}

// recordingPublisher collects published events
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}
