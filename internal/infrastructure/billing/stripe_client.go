package billing

import (
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
)

// ClientOption customizes the Stripe API client
type ClientOption func(*stripe.Backends)

// WithBackend routes every Stripe API call through b
func WithBackend(b stripe.Backend) ClientOption {
	return func(backends *stripe.Backends) {
		backends.API = b
		backends.Connect = b
		backends.Uploads = b
	}
}

// NewStripeClient constructs an API client bound to the configured key.
// The package-level stripe.Key is never touched, so each caller owns its client.
func NewStripeClient(cfg *StripeConfig, opts ...ClientOption) *client.API {
	sc := &client.API{}
	if len(opts) == 0 {
		sc.Init(cfg.SecretKey, nil)
		return sc
	}

	backends := &stripe.Backends{
		API:     stripe.GetBackend(stripe.APIBackend),
		Connect: stripe.GetBackend(stripe.ConnectBackend),
		Uploads: stripe.GetBackend(stripe.UploadsBackend),
	}
	for _, opt := range opts {
		opt(backends)
	}
	sc.Init(cfg.SecretKey, backends)
	return sc
}
