package identity

import (
	"context"
	"time"

	"github.com/edusaas/backend/internal/domain/identity"
	"github.com/edusaas/backend/internal/domain/shared"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

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

// MockAdminAccountRepository is a mock implementation of identity.AdminAccountRepository
type MockAdminAccountRepository struct {
	mock.Mock
}

func (m *MockAdminAccountRepository) FindByID(ctx context.Context, id uuid.UUID) (*identity.AdminAccount, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.AdminAccount), args.Error(1)
}

func (m *MockAdminAccountRepository) FindByEmail(ctx context.Context, email string) (*identity.AdminAccount, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.AdminAccount), args.Error(1)
}

func (m *MockAdminAccountRepository) ExistsByEmail(ctx context.Context, email string) (bool, error) {
	args := m.Called(ctx, email)
	return args.Bool(0), args.Error(1)
}

func (m *MockAdminAccountRepository) Save(ctx context.Context, account *identity.AdminAccount) error {
	return m.Called(ctx, account).Error(0)
}

// MockUserRoleRepository is a mock implementation of identity.UserRoleRepository
type MockUserRoleRepository struct {
	mock.Mock
}

func (m *MockUserRoleRepository) FindByUser(ctx context.Context, userID uuid.UUID) ([]identity.UserRole, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]identity.UserRole), args.Error(1)
}

func (m *MockUserRoleRepository) HasRole(ctx context.Context, userID, institutionID uuid.UUID, role identity.Role) (bool, error) {
	args := m.Called(ctx, userID, institutionID, role)
	return args.Bool(0), args.Error(1)
}

func (m *MockUserRoleRepository) Save(ctx context.Context, role *identity.UserRole) error {
	return m.Called(ctx, role).Error(0)
}

// MockRegistrationRepository is a mock implementation of identity.RegistrationRepository
type MockRegistrationRepository struct {
	mock.Mock
}

func (m *MockRegistrationRepository) Register(ctx context.Context, institution *identity.Institution, account *identity.AdminAccount, role *identity.UserRole) error {
	return m.Called(ctx, institution, account, role).Error(0)
}

// recordingPublisher collects published events
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

// fakeLogoStorage records the last presign request
type fakeLogoStorage struct {
	key         string
	contentType string
	expiresIn   time.Duration
	err         error
}

func (f *fakeLogoStorage) GenerateUploadURL(_ context.Context, storageKey, contentType string, expiresIn time.Duration) (string, time.Time, error) {
	if f.err != nil {
		return "", time.Time{}, f.err
	}
	f.key, f.contentType, f.expiresIn = storageKey, contentType, expiresIn
	return "https://uploads.test/" + storageKey, time.Now().Add(expiresIn), nil
}

func (f *fakeLogoStorage) PublicURL(storageKey string) string {
	return "https://cdn.test/" + storageKey
}
