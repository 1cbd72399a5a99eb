package billing

import (
	"bytes"
	"encoding/json"
	"fmt"

	domainbilling "github.com/edusaas/backend/internal/domain/billing"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/webhook"
)

// Aliases of the domain verification errors
var (
	ErrMissingSignature = domainbilling.ErrMissingSignature
	ErrInvalidSignature = domainbilling.ErrInvalidSignature
	ErrUndecodableEvent = domainbilling.ErrUndecodableEvent
)

// WebhookVerifier checks Stripe-Signature headers and decodes events
type WebhookVerifier struct {
	secret string
}

// NewWebhookVerifier creates a verifier bound to the endpoint signing secret
func NewWebhookVerifier(secret string) *WebhookVerifier {
	return &WebhookVerifier{secret: secret}
}

// Verify authenticates payload against the signature header and decodes it.
// payload must be the raw request body exactly as received.
func (v *WebhookVerifier) Verify(payload []byte, signatureHeader string) (domainbilling.Event, error) {
	if signatureHeader == "" {
		return nil, ErrMissingSignature
	}

	event, err := webhook.ConstructEventWithOptions(payload, signatureHeader, v.secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}

	return DecodeEvent(event)
}

// DecodeEvent converts a verified Stripe event into the closed event variant set
func DecodeEvent(event stripe.Event) (domainbilling.Event, error) {
	switch string(event.Type) {
	case domainbilling.EventTypeCheckoutSessionCompleted:
		var cs stripe.CheckoutSession
		if err := unmarshalObject(event, &cs); err != nil {
			return nil, err
		}
		return domainbilling.CheckoutCompleted{ID: event.ID, Session: checkoutSession(&cs)}, nil

	case domainbilling.EventTypeCustomerSubscriptionDeleted:
		var sub stripe.Subscription
		if err := unmarshalObject(event, &sub); err != nil {
			return nil, err
		}
		return domainbilling.SubscriptionDeleted{ID: event.ID, SubscriptionID: sub.ID}, nil

	case domainbilling.EventTypeCustomerSubscriptionUpdated:
		var sub stripe.Subscription
		if err := unmarshalObject(event, &sub); err != nil {
			return nil, err
		}
		return domainbilling.SubscriptionUpdated{
			ID:             event.ID,
			SubscriptionID: sub.ID,
			ProviderStatus: string(sub.Status),
		}, nil

	default:
		return domainbilling.Unhandled{ID: event.ID, Type: string(event.Type)}, nil
	}
}

func unmarshalObject(event stripe.Event, v any) error {
	if event.Data == nil || len(event.Data.Raw) == 0 {
		return fmt.Errorf("%w: %s has no data object", ErrUndecodableEvent, event.ID)
	}
	// stripe-go accepts a bare id string for expandable types; an event
	// object must be the full JSON object
	if raw := bytes.TrimSpace(event.Data.Raw); len(raw) == 0 || raw[0] != '{' {
		return fmt.Errorf("%w: %s data is not an object", ErrUndecodableEvent, event.ID)
	}
	if err := json.Unmarshal(event.Data.Raw, v); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrUndecodableEvent, event.ID, err)
	}
	return nil
}

func checkoutSession(cs *stripe.CheckoutSession) domainbilling.CheckoutSession {
	out := domainbilling.CheckoutSession{ID: cs.ID}
	if cs.PaymentLink != nil {
		out.PaymentLinkID = cs.PaymentLink.ID
	}
	if cs.Customer != nil {
		out.CustomerID = cs.Customer.ID
	}
	if cs.Subscription != nil {
		out.SubscriptionID = cs.Subscription.ID
	}
	if cs.CustomerDetails != nil {
		out.CustomerName = cs.CustomerDetails.Name
		out.CustomerEmail = cs.CustomerDetails.Email
		out.CustomerPhone = cs.CustomerDetails.Phone
	}
	return out
}
