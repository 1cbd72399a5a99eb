package billing

import (
	"encoding/json"
	"testing"
	"time"

	domainbilling "github.com/edusaas/backend/internal/domain/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
)

const testWebhookSecret = "whsec_test_secret"

func signedPayload(t *testing.T, event map[string]any) ([]byte, string) {
	t.Helper()
	payload, err := json.Marshal(event)
	require.NoError(t, err)
	signed := webhook.GenerateTestSignedPayload(&webhook.UnsignedPayload{
		Payload:   payload,
		Secret:    testWebhookSecret,
		Timestamp: time.Now(),
	})
	return signed.Payload, signed.Header
}

func eventJSON(id, eventType string, object map[string]any) map[string]any {
	return map[string]any{
		"id":     id,
		"object": "event",
		"type":   eventType,
		"data":   map[string]any{"object": object},
	}
}

func TestWebhookVerifier_Verify(t *testing.T) {
	verifier := NewWebhookVerifier(testWebhookSecret)

	t.Run("missing header", func(t *testing.T) {
		_, err := verifier.Verify([]byte(`{}`), "")
		assert.ErrorIs(t, err, ErrMissingSignature)
	})

	t.Run("tampered body", func(t *testing.T) {
		payload, header := signedPayload(t, eventJSON("evt_1", "customer.subscription.deleted", map[string]any{
			"id": "sub_1", "object": "subscription",
		}))
		tampered := append([]byte{}, payload...)
		tampered[len(tampered)-2] = ' '

		_, err := verifier.Verify(tampered, header)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("wrong secret", func(t *testing.T) {
		payload, header := signedPayload(t, eventJSON("evt_1", "ping", map[string]any{}))

		_, err := NewWebhookVerifier("whsec_other").Verify(payload, header)
		assert.ErrorIs(t, err, ErrInvalidSignature)
	})

	t.Run("checkout completed", func(t *testing.T) {
		payload, header := signedPayload(t, eventJSON("evt_cs", "checkout.session.completed", map[string]any{
			"id":           "cs_1",
			"object":       "checkout.session",
			"payment_link": "plink_1",
			"customer":     "cus_1",
			"subscription": "sub_1",
			"customer_details": map[string]any{
				"name":  "Ann Lee",
				"email": "ann@example.com",
				"phone": "+15550001",
			},
		}))

		event, err := verifier.Verify(payload, header)
		require.NoError(t, err)
		completed, ok := event.(domainbilling.CheckoutCompleted)
		require.True(t, ok)
		assert.Equal(t, "evt_cs", completed.EventID())
		assert.Equal(t, domainbilling.CheckoutSession{
			ID:             "cs_1",
			PaymentLinkID:  "plink_1",
			CustomerID:     "cus_1",
			SubscriptionID: "sub_1",
			CustomerName:   "Ann Lee",
			CustomerEmail:  "ann@example.com",
			CustomerPhone:  "+15550001",
		}, completed.Session)
	})

	t.Run("subscription updated", func(t *testing.T) {
		payload, header := signedPayload(t, eventJSON("evt_up", "customer.subscription.updated", map[string]any{
			"id": "sub_9", "object": "subscription", "status": "incomplete_expired",
		}))

		event, err := verifier.Verify(payload, header)
		require.NoError(t, err)
		assert.Equal(t, domainbilling.SubscriptionUpdated{ID: "evt_up", SubscriptionID: "sub_9", ProviderStatus: "incomplete_expired"}, event)
	})

	t.Run("subscription deleted", func(t *testing.T) {
		payload, header := signedPayload(t, eventJSON("evt_del", "customer.subscription.deleted", map[string]any{
			"id": "sub_9", "object": "subscription", "status": "canceled",
		}))

		event, err := verifier.Verify(payload, header)
		require.NoError(t, err)
		assert.Equal(t, domainbilling.SubscriptionDeleted{ID: "evt_del", SubscriptionID: "sub_9"}, event)
	})

	t.Run("other types are unhandled", func(t *testing.T) {
		payload, header := signedPayload(t, eventJSON("evt_inv", "invoice.paid", map[string]any{"id": "in_1"}))

		event, err := verifier.Verify(payload, header)
		require.NoError(t, err)
		assert.Equal(t, domainbilling.Unhandled{ID: "evt_inv", Type: "invoice.paid"}, event)
	})
}

func TestDecodeEvent_UndecodableObject(t *testing.T) {
	event := stripe.Event{
		ID:   "evt_bad",
		Type: stripe.EventType(domainbilling.EventTypeCustomerSubscriptionUpdated),
		Data: &stripe.EventData{Raw: json.RawMessage(`"not-an-object"`)},
	}

	_, err := DecodeEvent(event)
	assert.ErrorIs(t, err, ErrUndecodableEvent)

	for _, raw := range []string{`"sub_1"`, `null`, `[1]`, `{"id": 5}`} {
		_, err = DecodeEvent(stripe.Event{
			ID:   "evt_bad",
			Type: stripe.EventType(domainbilling.EventTypeCustomerSubscriptionDeleted),
			Data: &stripe.EventData{Raw: json.RawMessage(raw)},
		})
		assert.ErrorIs(t, err, ErrUndecodableEvent, raw)
	}

	_, err = DecodeEvent(stripe.Event{ID: "evt_empty", Type: stripe.EventType(domainbilling.EventTypeCheckoutSessionCompleted)})
	assert.ErrorIs(t, err, ErrUndecodableEvent)
}
