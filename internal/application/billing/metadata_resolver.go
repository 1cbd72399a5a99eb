package billing

import (
	"context"
	"strings"

	"github.com/edusaas/backend/internal/domain/billing"
	"go.uber.org/zap"
)

// EnrollmentTarget identifies the class a checkout paid for
type EnrollmentTarget struct {
	InstitutionID string
	ClassName     string
}

// MetadataResolver recovers the institution and class behind a checkout from
// the metadata stored on its payment link.
type MetadataResolver struct {
	links  billing.PaymentLinkReader
	logger *zap.Logger
}

// NewMetadataResolver creates a resolver reading payment links through links
func NewMetadataResolver(links billing.PaymentLinkReader, logger *zap.Logger) *MetadataResolver {
	return &MetadataResolver{links: links, logger: logger}
}

// Resolve returns the enrollment target, or a Skipped outcome explaining why
// the checkout cannot be attributed to a class.
func (r *MetadataResolver) Resolve(ctx context.Context, session billing.CheckoutSession) (EnrollmentTarget, billing.Outcome) {
	if session.SubscriptionID == "" || session.CustomerID == "" {
		return EnrollmentTarget{}, billing.Skipped(billing.ReasonMissingSubscriptionOrCustomer)
	}
	if session.PaymentLinkID == "" {
		return EnrollmentTarget{}, billing.Skipped(billing.ReasonMissingPaymentLink)
	}

	metadata, err := r.links.PaymentLinkMetadata(ctx, session.PaymentLinkID)
	if err != nil {
		r.logger.Error("Failed to retrieve payment link",
			zap.String("payment_link_id", session.PaymentLinkID),
			zap.String("checkout_session_id", session.ID),
			zap.Error(err))
		return EnrollmentTarget{}, billing.Skipped(billing.ReasonPaymentLinkLookupFailed)
	}

	target := EnrollmentTarget{
		InstitutionID: strings.TrimSpace(metadata[billing.MetadataInstitutionID]),
		ClassName:     metadata[billing.MetadataClassName],
	}
	if target.InstitutionID == "" || strings.TrimSpace(target.ClassName) == "" {
		return EnrollmentTarget{}, billing.Skipped(billing.ReasonMissingMetadata)
	}

	return target, billing.OK()
}
