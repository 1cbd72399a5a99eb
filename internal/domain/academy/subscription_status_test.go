package academy

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapProviderStatus(t *testing.T) {
	tests := []struct {
		provider string
		want     SubscriptionStatus
	}{
		{"canceled", SubscriptionStatusCanceled},
		{"incomplete_expired", SubscriptionStatusCanceled},
		{"paused", SubscriptionStatusPaused},
		{"active", SubscriptionStatusActive},
		{"trialing", SubscriptionStatusActive},
		{"past_due", SubscriptionStatusActive},
		{"incomplete", SubscriptionStatusActive},
		{"unpaid", SubscriptionStatusActive},
		{"", SubscriptionStatusActive},
	}

	for _, tt := range tests {
		t.Run(tt.provider, func(t *testing.T) {
			assert.Equal(t, tt.want, MapProviderStatus(tt.provider))
		})
	}
}

func TestSubscriptionStatus_IsValid(t *testing.T) {
	assert.True(t, SubscriptionStatusActive.IsValid())
	assert.True(t, SubscriptionStatusPaused.IsValid())
	assert.True(t, SubscriptionStatusCanceled.IsValid())
	assert.False(t, SubscriptionStatus("trialing").IsValid())
}
