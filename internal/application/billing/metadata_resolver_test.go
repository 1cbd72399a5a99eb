package billing

import (
	"context"
	"errors"
	"testing"

	"github.com/edusaas/backend/internal/domain/billing"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"go.uber.org/zap"
)

func TestMetadataResolver_Resolve(t *testing.T) {
	complete := billing.CheckoutSession{
		ID:             "cs_1",
		PaymentLinkID:  "plink_1",
		CustomerID:     "cus_1",
		SubscriptionID: "sub_1",
	}

	tests := []struct {
		name     string
		session  func() billing.CheckoutSession
		metadata map[string]string
		linkErr  error
		want     billing.Outcome
		target   EnrollmentTarget
	}{
		{
			name:    "missing subscription",
			session: func() billing.CheckoutSession { s := complete; s.SubscriptionID = ""; return s },
			want:    billing.Skipped(billing.ReasonMissingSubscriptionOrCustomer),
		},
		{
			name:    "missing customer",
			session: func() billing.CheckoutSession { s := complete; s.CustomerID = ""; return s },
			want:    billing.Skipped(billing.ReasonMissingSubscriptionOrCustomer),
		},
		{
			name:    "missing payment link",
			session: func() billing.CheckoutSession { s := complete; s.PaymentLinkID = ""; return s },
			want:    billing.Skipped(billing.ReasonMissingPaymentLink),
		},
		{
			name:    "lookup failure",
			session: func() billing.CheckoutSession { return complete },
			linkErr: errors.New("stripe unavailable"),
			want:    billing.Skipped(billing.ReasonPaymentLinkLookupFailed),
		},
		{
			name:     "missing class name",
			session:  func() billing.CheckoutSession { return complete },
			metadata: map[string]string{billing.MetadataInstitutionID: "inst"},
			want:     billing.Skipped(billing.ReasonMissingMetadata),
		},
		{
			name:     "blank institution",
			session:  func() billing.CheckoutSession { return complete },
			metadata: map[string]string{billing.MetadataInstitutionID: " ", billing.MetadataClassName: "Piano"},
			want:     billing.Skipped(billing.ReasonMissingMetadata),
		},
		{
			name:     "resolved",
			session:  func() billing.CheckoutSession { return complete },
			metadata: map[string]string{billing.MetadataInstitutionID: "inst", billing.MetadataClassName: "Piano"},
			want:     billing.OK(),
			target:   EnrollmentTarget{InstitutionID: "inst", ClassName: "Piano"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			links := new(MockPaymentLinkReader)
			if tt.linkErr != nil {
				links.On("PaymentLinkMetadata", mock.Anything, "plink_1").Return(nil, tt.linkErr)
			} else {
				links.On("PaymentLinkMetadata", mock.Anything, "plink_1").Return(tt.metadata, nil)
			}

			target, outcome := NewMetadataResolver(links, zap.NewNop()).Resolve(context.Background(), tt.session())
			assert.Equal(t, tt.want, outcome)
			assert.Equal(t, tt.target, target)
		})
	}
}
