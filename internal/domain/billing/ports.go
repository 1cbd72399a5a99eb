package billing

import "context"

// Metadata keys attached to every class payment link
const (
	MetadataInstitutionID = "institution_id"
	MetadataClassName     = "class_name"
)

// PaymentLinkReader fetches the metadata attached to a payment link.
// It is read-only: this system never mutates provider billing state from a webhook.
type PaymentLinkReader interface {
	PaymentLinkMetadata(ctx context.Context, paymentLinkID string) (map[string]string, error)
}
