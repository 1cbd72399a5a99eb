package billing

import (
	"fmt"
	"strings"

	"github.com/edusaas/backend/internal/infrastructure/config"
)

// StripeConfig holds configuration for Stripe integration
type StripeConfig struct {
	// SecretKey is the Stripe secret API key (sk_test_xxx or sk_live_xxx)
	SecretKey string

	// WebhookSecret is the signing secret for verifying webhook payloads (whsec_xxx)
	WebhookSecret string

	// IsTestMode indicates if using Stripe test mode
	IsTestMode bool

	// DefaultCurrency is the lowercase ISO currency for class prices
	DefaultCurrency string
}

// NewStripeConfig builds the integration config from application settings
func NewStripeConfig(cfg config.StripeConfig) *StripeConfig {
	currency := strings.ToLower(cfg.Currency)
	if currency == "" {
		currency = "usd"
	}
	return &StripeConfig{
		SecretKey:       cfg.SecretKey,
		WebhookSecret:   cfg.WebhookSecret,
		IsTestMode:      cfg.TestMode,
		DefaultCurrency: currency,
	}
}

// IsConfigured reports whether both the API key and the webhook secret are set
func (c *StripeConfig) IsConfigured() bool {
	return c != nil && c.SecretKey != "" && c.WebhookSecret != ""
}

// Validate validates the Stripe configuration
func (c *StripeConfig) Validate() error {
	if c.SecretKey == "" {
		return fmt.Errorf("stripe: secret key is required")
	}

	if c.IsTestMode {
		if !strings.HasPrefix(c.SecretKey, "sk_test") && !strings.HasPrefix(c.SecretKey, "rk_test") {
			return fmt.Errorf("stripe: test mode enabled but secret key is not a test key")
		}
	} else {
		if !strings.HasPrefix(c.SecretKey, "sk_live") && !strings.HasPrefix(c.SecretKey, "rk_live") {
			return fmt.Errorf("stripe: live mode enabled but secret key is not a live key")
		}
	}

	if c.WebhookSecret == "" {
		return fmt.Errorf("stripe: webhook secret is required")
	}

	if c.DefaultCurrency == "" {
		return fmt.Errorf("stripe: default currency is required")
	}

	return nil
}
