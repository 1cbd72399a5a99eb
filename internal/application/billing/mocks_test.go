package billing

import (
	"context"
	"time"

	"github.com/edusaas/backend/internal/domain/academy"
	"github.com/edusaas/backend/internal/domain/billing"
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
	return args.Get(0).([]academy.Class), args.Error(1)
}

func (m *MockClassRepository) ExistsByInstitutionAndName(ctx context.Context, institutionID uuid.UUID, name string) (bool, error) {
	args := m.Called(ctx, institutionID, name)
	return args.Bool(0), args.Error(1)
}

func (m *MockClassRepository) Save(ctx context.Context, class *academy.Class) error {
	args := m.Called(ctx, class)
	return args.Error(0)
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
	args := m.Called(ctx, student)
	return args.Error(0)
}

func (m *MockStudentRepository) FindByClass(ctx context.Context, classID uuid.UUID) ([]academy.Student, error) {
	args := m.Called(ctx, classID)
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

// MockPaymentLinkReader is a mock implementation of billing.PaymentLinkReader
type MockPaymentLinkReader struct {
	mock.Mock
}

func (m *MockPaymentLinkReader) PaymentLinkMetadata(ctx context.Context, paymentLinkID string) (map[string]string, error) {
	args := m.Called(ctx, paymentLinkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string]string), args.Error(1)
}

// MockIdempotencyStore is a mock implementation of shared.IdempotencyStore
type MockIdempotencyStore struct {
	mock.Mock
}

func (m *MockIdempotencyStore) MarkProcessed(ctx context.Context, eventID string, ttl time.Duration) (bool, error) {
	args := m.Called(ctx, eventID, ttl)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) IsProcessed(ctx context.Context, eventID string) (bool, error) {
	args := m.Called(ctx, eventID)
	return args.Bool(0), args.Error(1)
}

func (m *MockIdempotencyStore) Forget(ctx context.Context, eventID string) error {
	return m.Called(ctx, eventID).Error(0)
}

func (m *MockIdempotencyStore) Close() error {
	return m.Called().Error(0)
}

// recordingPublisher collects published events
type recordingPublisher struct {
	events []shared.DomainEvent
}

func (p *recordingPublisher) Publish(_ context.Context, events ...shared.DomainEvent) error {
	p.events = append(p.events, events...)
	return nil
}

// stubVerifier returns a fixed event or error
type stubVerifier struct {
	event billing.Event
	err   error
}

func (v stubVerifier) Verify([]byte, string) (billing.Event, error) {
	return v.event, v.err
}
