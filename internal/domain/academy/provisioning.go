package academy

import (
	"context"

	"github.com/edusaas/backend/internal/domain/shared/valueobject"
	"github.com/google/uuid"
)

// ProvisionRequest describes the billing objects to create for a new class
type ProvisionRequest struct {
	InstitutionID   uuid.UUID
	InstitutionName string
	ClassName       string
	MonthlyPrice    valueobject.Money
}

// PaymentLinkProvisioner creates the recurring product, price and hosted
// payment link for a class at the payment provider.
type PaymentLinkProvisioner interface {
	ProvisionPaymentLink(ctx context.Context, req ProvisionRequest) (PaymentLinkInfo, error)
}
