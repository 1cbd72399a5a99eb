package handler

import (
	"context"

	"github.com/edusaas/backend/internal/application/academy"
	billingapp "github.com/edusaas/backend/internal/application/billing"
	"github.com/edusaas/backend/internal/application/diagnostics"
	"github.com/edusaas/backend/internal/application/identity"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"
)

type mockAuthService struct {
	mock.Mock
}

func (m *mockAuthService) Signup(ctx context.Context, input identity.SignupInput) (*identity.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.AuthResult), args.Error(1)
}

func (m *mockAuthService) Login(ctx context.Context, input identity.LoginInput) (*identity.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.AuthResult), args.Error(1)
}

func (m *mockAuthService) RefreshToken(ctx context.Context, input identity.RefreshTokenInput) (*identity.AuthResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.AuthResult), args.Error(1)
}

func (m *mockAuthService) Logout(ctx context.Context, input identity.LogoutInput) error {
	return m.Called(ctx, input).Error(0)
}

func (m *mockAuthService) Me(ctx context.Context, userID uuid.UUID) (*identity.AdminInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.AdminInfo), args.Error(1)
}

type mockInstitutionService struct {
	mock.Mock
}

func (m *mockInstitutionService) CheckSubdomainAvailability(ctx context.Context, subdomain string) (*identity.SubdomainAvailability, error) {
	args := m.Called(ctx, subdomain)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.SubdomainAvailability), args.Error(1)
}

func (m *mockInstitutionService) GetCurrent(ctx context.Context, userID uuid.UUID) (*identity.InstitutionInfo, error) {
	args := m.Called(ctx, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.InstitutionInfo), args.Error(1)
}

func (m *mockInstitutionService) UpdateCurrent(ctx context.Context, userID uuid.UUID, input identity.UpdateInstitutionInput) (*identity.InstitutionInfo, error) {
	args := m.Called(ctx, userID, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.InstitutionInfo), args.Error(1)
}

func (m *mockInstitutionService) CreateLogoUploadURL(ctx context.Context, userID uuid.UUID, contentType string) (*identity.LogoUploadResult, error) {
	args := m.Called(ctx, userID, contentType)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*identity.LogoUploadResult), args.Error(1)
}

type mockClassService struct {
	mock.Mock
}

func (m *mockClassService) ListClasses(ctx context.Context, institutionID uuid.UUID) ([]academy.ClassResponse, error) {
	args := m.Called(ctx, institutionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]academy.ClassResponse), args.Error(1)
}

func (m *mockClassService) GetClassDetail(ctx context.Context, institutionID, classID uuid.UUID) (*academy.ClassDetailResponse, error) {
	args := m.Called(ctx, institutionID, classID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academy.ClassDetailResponse), args.Error(1)
}

func (m *mockClassService) CreateClass(ctx context.Context, input academy.CreateClassInput) (*academy.CreateClassResult, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*academy.CreateClassResult), args.Error(1)
}

type mockDiagnostics struct {
	mock.Mock
}

func (m *mockDiagnostics) Run(ctx context.Context, caller diagnostics.Caller) []diagnostics.Check {
	return m.Called(ctx, caller).Get(0).([]diagnostics.Check)
}

type mockWebhookProcessor struct {
	mock.Mock
}

func (m *mockWebhookProcessor) ProcessWebhook(ctx context.Context, payload []byte, signature string) (*billingapp.WebhookResult, error) {
	args := m.Called(ctx, payload, signature)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*billingapp.WebhookResult), args.Error(1)
}
