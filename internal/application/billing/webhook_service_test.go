package billing

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/edusaas/backend/internal/domain/academy"
	"github.com/edusaas/backend/internal/domain/billing"
	"github.com/edusaas/backend/internal/domain/shared"
	"github.com/edusaas/backend/internal/domain/shared/valueobject"
	infrabilling "github.com/edusaas/backend/internal/infrastructure/billing"
	"github.com/edusaas/backend/internal/infrastructure/cache"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81/webhook"
	"go.uber.org/zap"
)

const testWebhookSecret = "whsec_test_secret"

type webhookFixture struct {
	classes  *MockClassRepository
	students *MockStudentRepository
	links    *MockPaymentLinkReader
	bus      *recordingPublisher
}

func newFixture() *webhookFixture {
	return &webhookFixture{
		classes:  new(MockClassRepository),
		students: new(MockStudentRepository),
		links:    new(MockPaymentLinkReader),
		bus:      &recordingPublisher{},
	}
}

func (f *webhookFixture) service(verifier EventVerifier, store *cache.InMemoryIdempotencyStore) *WebhookService {
	cfg := WebhookServiceConfig{
		Verifier:     verifier,
		PaymentLinks: f.links,
		Classes:      f.classes,
		Students:     f.students,
		EventBus:     f.bus,
		Logger:       zap.NewNop(),
	}
	if store != nil {
		cfg.IdempotencyStore = store
	}
	return NewWebhookService(cfg)
}

func newTestClass(t *testing.T, institutionID uuid.UUID, name string) *academy.Class {
	t.Helper()
	price, err := valueobject.NewMoneyFromString("49.99", valueobject.USD)
	require.NoError(t, err)
	class, err := academy.NewClass(institutionID, name, price, academy.PaymentLinkInfo{
		ProductID: "prod_1", PriceID: "price_1", PaymentLinkURL: "https://buy.stripe.com/test",
	})
	require.NoError(t, err)
	return class
}

func checkoutEvent(id string) billing.CheckoutCompleted {
	return billing.CheckoutCompleted{
		ID: id,
		Session: billing.CheckoutSession{
			ID:             "cs_1",
			PaymentLinkID:  "plink_1",
			CustomerID:     "cus_1",
			SubscriptionID: "sub_1",
			CustomerName:   "Ada Lovelace",
			CustomerEmail:  "ada@example.com",
			CustomerPhone:  "+15550100",
		},
	}
}

func signedCheckout(t *testing.T, body []byte) ([]byte, string) {
	t.Helper()
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   body,
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func TestWebhookService_TamperedBodyMakesNoRepositoryCall(t *testing.T) {
	f := newFixture()
	svc := f.service(infrabilling.NewWebhookVerifier(testWebhookSecret), nil)

	body, err := json.Marshal(map[string]any{
		"id": "evt_1", "object": "event", "type": "checkout.session.completed",
		"data": map[string]any{"object": map[string]any{"id": "cs_1", "object": "checkout.session"}},
	})
	require.NoError(t, err)
	payload, header := signedCheckout(t, body)

	tampered := append([]byte{}, payload...)
	tampered[len(tampered)-2] = ' '

	result, err := svc.ProcessWebhook(context.Background(), tampered, header)
	assert.Nil(t, result)
	assert.ErrorIs(t, err, billing.ErrInvalidSignature)

	_, err = svc.ProcessWebhook(context.Background(), payload, "")
	assert.ErrorIs(t, err, billing.ErrMissingSignature)

	f.links.AssertNotCalled(t, "PaymentLinkMetadata", mock.Anything, mock.Anything)
	f.classes.AssertNotCalled(t, "FindByInstitutionAndName", mock.Anything, mock.Anything, mock.Anything)
	f.students.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	f.students.AssertNotCalled(t, "UpdateStatusBySubscriptionID", mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookService_SignedCheckoutEnrollsStudent(t *testing.T) {
	f := newFixture()
	institutionID := uuid.New()
	class := newTestClass(t, institutionID, "Piano Basics")
	svc := f.service(infrabilling.NewWebhookVerifier(testWebhookSecret), nil)

	body, err := json.Marshal(map[string]any{
		"id": "evt_checkout", "object": "event", "type": "checkout.session.completed",
		"data": map[string]any{"object": map[string]any{
			"id":           "cs_1",
			"object":       "checkout.session",
			"payment_link": "plink_1",
			"customer":     "cus_1",
			"subscription": "sub_1",
			"customer_details": map[string]any{
				"name": "Ada Lovelace", "email": "ada@example.com", "phone": "+15550100",
			},
		}},
	})
	require.NoError(t, err)
	payload, header := signedCheckout(t, body)

	f.links.On("PaymentLinkMetadata", mock.Anything, "plink_1").Return(map[string]string{
		billing.MetadataInstitutionID: institutionID.String(),
		billing.MetadataClassName:     "Piano Basics",
	}, nil)
	f.classes.On("FindByInstitutionAndName", mock.Anything, institutionID, "Piano Basics").Return(class, nil)

	var created *academy.Student
	f.students.On("Create", mock.Anything, mock.AnythingOfType("*academy.Student")).
		Run(func(args mock.Arguments) { created = args.Get(1).(*academy.Student) }).
		Return(nil).Once()

	result, err := svc.ProcessWebhook(context.Background(), payload, header)
	require.NoError(t, err)
	assert.Equal(t, "evt_checkout", result.EventID)
	assert.True(t, result.Outcome.IsOK())

	require.NotNil(t, created)
	assert.Equal(t, class.ID, created.ClassID)
	assert.Equal(t, "Ada Lovelace", created.Name)
	assert.Equal(t, "ada@example.com", created.Email)
	require.NotNil(t, created.Phone)
	assert.Equal(t, "+15550100", *created.Phone)
	assert.Equal(t, "cus_1", created.StripeCustomerID)
	assert.Equal(t, "sub_1", created.StripeSubscriptionID)
	assert.Equal(t, academy.SubscriptionStatusActive, created.SubscriptionStatus)
	assert.False(t, created.SubscribedSince.IsZero())

	require.Len(t, f.bus.events, 1)
	assert.Equal(t, academy.EventTypeStudentEnrolled, f.bus.events[0].EventType())
	assert.Equal(t, institutionID, f.bus.events[0].InstitutionID())
	f.students.AssertNumberOfCalls(t, "Create", 1)
}

func TestWebhookService_CheckoutDefaults(t *testing.T) {
	f := newFixture()
	institutionID := uuid.New()
	class := newTestClass(t, institutionID, "Choir")

	event := checkoutEvent("evt_defaults")
	event.Session.CustomerName = ""
	event.Session.CustomerEmail = ""
	event.Session.CustomerPhone = ""

	f.links.On("PaymentLinkMetadata", mock.Anything, "plink_1").Return(map[string]string{
		billing.MetadataInstitutionID: institutionID.String(),
		billing.MetadataClassName:     "Choir",
	}, nil)
	f.classes.On("FindByInstitutionAndName", mock.Anything, institutionID, "Choir").Return(class, nil)
	f.students.On("Create", mock.Anything, mock.MatchedBy(func(s *academy.Student) bool {
		return s.Name == academy.UnknownStudentName && s.Email == "" && s.Phone == nil
	})).Return(nil).Once()

	outcome := f.service(stubVerifier{}, nil).Dispatch(context.Background(), event)
	assert.True(t, outcome.IsOK())
	f.students.AssertExpectations(t)
}

func TestWebhookService_CheckoutForMissingClassWritesNothing(t *testing.T) {
	f := newFixture()
	institutionID := uuid.New()

	f.links.On("PaymentLinkMetadata", mock.Anything, "plink_1").Return(map[string]string{
		billing.MetadataInstitutionID: institutionID.String(),
		billing.MetadataClassName:     "Deleted Class",
	}, nil)
	f.classes.On("FindByInstitutionAndName", mock.Anything, institutionID, "Deleted Class").
		Return(nil, shared.ErrNotFound)

	svc := f.service(stubVerifier{event: checkoutEvent("evt_missing")}, nil)
	result, err := svc.ProcessWebhook(context.Background(), []byte("{}"), "sig")
	require.NoError(t, err)

	assert.True(t, result.Outcome.IsSkipped())
	assert.Equal(t, billing.ReasonClassNotFound, result.Outcome.Reason)
	f.students.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	assert.Empty(t, f.bus.events)
}

func TestWebhookService_MalformedInstitutionIDIsClassNotFound(t *testing.T) {
	f := newFixture()
	f.links.On("PaymentLinkMetadata", mock.Anything, "plink_1").Return(map[string]string{
		billing.MetadataInstitutionID: "not-a-uuid",
		billing.MetadataClassName:     "Piano",
	}, nil)

	outcome := f.service(stubVerifier{}, nil).Dispatch(context.Background(), checkoutEvent("evt_bad"))
	assert.Equal(t, billing.Skipped(billing.ReasonClassNotFound), outcome)
	f.classes.AssertNotCalled(t, "FindByInstitutionAndName", mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookService_InsertFailureIsFatal(t *testing.T) {
	f := newFixture()
	institutionID := uuid.New()
	class := newTestClass(t, institutionID, "Piano")
	insertErr := errors.New("connection reset")

	f.links.On("PaymentLinkMetadata", mock.Anything, "plink_1").Return(map[string]string{
		billing.MetadataInstitutionID: institutionID.String(),
		billing.MetadataClassName:     "Piano",
	}, nil)
	f.classes.On("FindByInstitutionAndName", mock.Anything, institutionID, "Piano").Return(class, nil)
	f.students.On("Create", mock.Anything, mock.Anything).Return(insertErr)

	svc := f.service(stubVerifier{event: checkoutEvent("evt_fatal")}, nil)
	result, err := svc.ProcessWebhook(context.Background(), nil, "sig")
	require.NoError(t, err)
	assert.True(t, result.Outcome.IsFatal())
	assert.ErrorIs(t, result.Outcome.Cause, insertErr)
	assert.Empty(t, f.bus.events)
}

func TestWebhookService_RedeliveryCreatesTwoRows(t *testing.T) {
	f := newFixture()
	institutionID := uuid.New()
	class := newTestClass(t, institutionID, "Piano")

	f.links.On("PaymentLinkMetadata", mock.Anything, "plink_1").Return(map[string]string{
		billing.MetadataInstitutionID: institutionID.String(),
		billing.MetadataClassName:     "Piano",
	}, nil)
	f.classes.On("FindByInstitutionAndName", mock.Anything, institutionID, "Piano").Return(class, nil)

	var rows []*academy.Student
	f.students.On("Create", mock.Anything, mock.Anything).
		Run(func(args mock.Arguments) { rows = append(rows, args.Get(1).(*academy.Student)) }).
		Return(nil)

	svc := f.service(stubVerifier{event: checkoutEvent("evt_same")}, nil)
	for range 2 {
		result, err := svc.ProcessWebhook(context.Background(), nil, "sig")
		require.NoError(t, err)
		assert.True(t, result.Outcome.IsOK())
	}

	require.Len(t, rows, 2)
	assert.NotEqual(t, rows[0].ID, rows[1].ID)
	assert.Equal(t, rows[0].StripeSubscriptionID, rows[1].StripeSubscriptionID)
}

func TestWebhookService_IdempotencyGuardSkipsDuplicates(t *testing.T) {
	f := newFixture()
	institutionID := uuid.New()
	class := newTestClass(t, institutionID, "Piano")
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	f.links.On("PaymentLinkMetadata", mock.Anything, "plink_1").Return(map[string]string{
		billing.MetadataInstitutionID: institutionID.String(),
		billing.MetadataClassName:     "Piano",
	}, nil)
	f.classes.On("FindByInstitutionAndName", mock.Anything, institutionID, "Piano").Return(class, nil)
	f.students.On("Create", mock.Anything, mock.Anything).Return(nil).Once()

	svc := f.service(stubVerifier{event: checkoutEvent("evt_dup")}, store)

	first, err := svc.ProcessWebhook(context.Background(), nil, "sig")
	require.NoError(t, err)
	assert.True(t, first.Outcome.IsOK())

	second, err := svc.ProcessWebhook(context.Background(), nil, "sig")
	require.NoError(t, err)
	assert.Equal(t, billing.Skipped(billing.ReasonDuplicateEvent), second.Outcome)

	f.students.AssertNumberOfCalls(t, "Create", 1)
}

func TestWebhookService_IdempotencyGuardReleasesFatal(t *testing.T) {
	f := newFixture()
	store := new(MockIdempotencyStore)
	store.On("MarkProcessed", mock.Anything, "evt_retry", 24*time.Hour).Return(true, nil)
	store.On("Forget", mock.Anything, "evt_retry").Return(nil)
	f.students.On("UpdateStatusBySubscriptionID", mock.Anything, "sub_1", academy.SubscriptionStatusCanceled).
		Return(int64(0), errors.New("db down"))

	svc := NewWebhookService(WebhookServiceConfig{
		Verifier:         stubVerifier{event: billing.SubscriptionDeleted{ID: "evt_retry", SubscriptionID: "sub_1"}},
		Students:         f.students,
		IdempotencyStore: store,
		Logger:           zap.NewNop(),
	})

	result, err := svc.ProcessWebhook(context.Background(), nil, "sig")
	require.NoError(t, err)
	assert.True(t, result.Outcome.IsFatal())
	store.AssertExpectations(t)
}

func TestWebhookService_IdempotencyGuardRetryAfterFatal(t *testing.T) {
	f := newFixture()
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	f.students.On("UpdateStatusBySubscriptionID", mock.Anything, "sub_1", academy.SubscriptionStatusCanceled).
		Return(int64(0), errors.New("db down")).Once()
	f.students.On("UpdateStatusBySubscriptionID", mock.Anything, "sub_1", academy.SubscriptionStatusCanceled).
		Return(int64(1), nil).Once()

	svc := f.service(stubVerifier{event: billing.SubscriptionDeleted{ID: "evt_retry", SubscriptionID: "sub_1"}}, store)

	first, err := svc.ProcessWebhook(context.Background(), nil, "sig")
	require.NoError(t, err)
	assert.True(t, first.Outcome.IsFatal())

	retry, err := svc.ProcessWebhook(context.Background(), nil, "sig")
	require.NoError(t, err)
	assert.True(t, retry.Outcome.IsOK())

	again, err := svc.ProcessWebhook(context.Background(), nil, "sig")
	require.NoError(t, err)
	assert.Equal(t, billing.Skipped(billing.ReasonDuplicateEvent), again.Outcome)
	f.students.AssertNumberOfCalls(t, "UpdateStatusBySubscriptionID", 2)
}

func TestWebhookService_IdempotencyGuardOverlappingDeliveries(t *testing.T) {
	f := newFixture()
	institutionID := uuid.New()
	class := newTestClass(t, institutionID, "Piano")
	store := cache.NewInMemoryIdempotencyStore()
	t.Cleanup(func() { _ = store.Close() })

	f.links.On("PaymentLinkMetadata", mock.Anything, "plink_1").Return(map[string]string{
		billing.MetadataInstitutionID: institutionID.String(),
		billing.MetadataClassName:     "Piano",
	}, nil)
	f.classes.On("FindByInstitutionAndName", mock.Anything, institutionID, "Piano").Return(class, nil)
	// a slow insert keeps the first delivery in flight while the rest arrive
	f.students.On("Create", mock.Anything, mock.Anything).After(50 * time.Millisecond).Return(nil)

	svc := f.service(stubVerifier{event: checkoutEvent("evt_burst")}, store)

	const deliveries = 8
	var (
		wg      sync.WaitGroup
		skipped atomic.Int32
		start   = make(chan struct{})
	)
	for range deliveries {
		wg.Add(1)
		go func() {
			defer wg.Done()
			<-start
			result, err := svc.ProcessWebhook(context.Background(), nil, "sig")
			if err == nil && result.Outcome.IsSkipped() {
				skipped.Add(1)
			}
		}()
	}
	close(start)
	wg.Wait()

	f.students.AssertNumberOfCalls(t, "Create", 1)
	assert.Equal(t, int32(deliveries-1), skipped.Load())
}

func TestWebhookService_IdempotencyClaimErrorFailsOpen(t *testing.T) {
	f := newFixture()
	store := new(MockIdempotencyStore)
	store.On("MarkProcessed", mock.Anything, "evt_open", 24*time.Hour).Return(false, errors.New("redis down"))
	f.students.On("UpdateStatusBySubscriptionID", mock.Anything, "sub_1", academy.SubscriptionStatusPaused).
		Return(int64(1), nil)

	svc := NewWebhookService(WebhookServiceConfig{
		Verifier:         stubVerifier{event: billing.SubscriptionUpdated{ID: "evt_open", SubscriptionID: "sub_1", ProviderStatus: "paused"}},
		Students:         f.students,
		IdempotencyStore: store,
		Logger:           zap.NewNop(),
	})

	result, err := svc.ProcessWebhook(context.Background(), nil, "sig")
	require.NoError(t, err)
	assert.True(t, result.Outcome.IsOK())
	store.AssertExpectations(t)
	store.AssertNotCalled(t, "Forget", mock.Anything, mock.Anything)
}

func TestWebhookService_SubscriptionDeleted(t *testing.T) {
	t.Run("existing subscriber is canceled", func(t *testing.T) {
		f := newFixture()
		f.students.On("UpdateStatusBySubscriptionID", mock.Anything, "sub_1", academy.SubscriptionStatusCanceled).
			Return(int64(1), nil).Once()

		outcome := f.service(stubVerifier{}, nil).Dispatch(context.Background(),
			billing.SubscriptionDeleted{ID: "evt_del", SubscriptionID: "sub_1"})

		assert.True(t, outcome.IsOK())
		f.students.AssertExpectations(t)
		require.Len(t, f.bus.events, 1)
		changed := f.bus.events[0].(*academy.SubscriptionStatusChangedEvent)
		assert.Equal(t, academy.SubscriptionStatusCanceled, changed.Status)
	})

	t.Run("missing subscriber is a no-op", func(t *testing.T) {
		f := newFixture()
		f.students.On("UpdateStatusBySubscriptionID", mock.Anything, "sub_unknown", academy.SubscriptionStatusCanceled).
			Return(int64(0), nil).Once()

		outcome := f.service(stubVerifier{}, nil).Dispatch(context.Background(),
			billing.SubscriptionDeleted{ID: "evt_del", SubscriptionID: "sub_unknown"})

		assert.Equal(t, billing.Skipped(billing.ReasonNoSubscriber), outcome)
		f.students.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
		assert.Empty(t, f.bus.events)
	})
}

func TestWebhookService_SubscriptionUpdatedStatusMap(t *testing.T) {
	cases := map[string]academy.SubscriptionStatus{
		"canceled":           academy.SubscriptionStatusCanceled,
		"incomplete_expired": academy.SubscriptionStatusCanceled,
		"paused":             academy.SubscriptionStatusPaused,
		"active":             academy.SubscriptionStatusActive,
		"trialing":           academy.SubscriptionStatusActive,
	}

	for providerStatus, want := range cases {
		t.Run(providerStatus, func(t *testing.T) {
			f := newFixture()
			f.students.On("UpdateStatusBySubscriptionID", mock.Anything, "sub_1", want).
				Return(int64(1), nil).Once()

			outcome := f.service(stubVerifier{}, nil).Dispatch(context.Background(),
				billing.SubscriptionUpdated{ID: "evt_upd", SubscriptionID: "sub_1", ProviderStatus: providerStatus})

			assert.True(t, outcome.IsOK())
			f.students.AssertExpectations(t)
		})
	}
}

func TestWebhookService_UnhandledEventIsSkipped(t *testing.T) {
	f := newFixture()
	svc := f.service(stubVerifier{event: billing.Unhandled{ID: "evt_inv", Type: "invoice.paid"}}, nil)

	result, err := svc.ProcessWebhook(context.Background(), nil, "sig")
	require.NoError(t, err)
	assert.Equal(t, "invoice.paid", result.EventType)
	assert.Equal(t, billing.Skipped(billing.ReasonUnhandledEvent), result.Outcome)

	f.links.AssertNotCalled(t, "PaymentLinkMetadata", mock.Anything, mock.Anything)
	f.students.AssertNotCalled(t, "UpdateStatusBySubscriptionID", mock.Anything, mock.Anything, mock.Anything)
}

func TestWebhookService_UndecodableEventIsReturned(t *testing.T) {
	f := newFixture()
	svc := f.service(stubVerifier{err: billing.ErrUndecodableEvent}, nil)

	result, err := svc.ProcessWebhook(context.Background(), nil, "sig")
	assert.Nil(t, result)
	assert.ErrorIs(t, err, billing.ErrUndecodableEvent)
}

func TestWebhookService_DispatchPanicsOnNilEvent(t *testing.T) {
	svc := newFixture().service(stubVerifier{}, nil)
	assert.Panics(t, func() { svc.Dispatch(context.Background(), nil) })
}
