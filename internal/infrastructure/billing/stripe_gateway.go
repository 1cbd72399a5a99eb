package billing

import (
	"context"
	"fmt"

	"github.com/edusaas/backend/internal/domain/academy"
	domainbilling "github.com/edusaas/backend/internal/domain/billing"
	"github.com/stripe/stripe-go/v81"
	"github.com/stripe/stripe-go/v81/client"
	"go.uber.org/zap"
)

// StripeGateway talks to the Stripe API on behalf of classes and webhooks
type StripeGateway struct {
	api      *client.API
	currency string
	logger   *zap.Logger
}

// NewStripeGateway creates a gateway using an already constructed client
func NewStripeGateway(api *client.API, cfg *StripeConfig, logger *zap.Logger) *StripeGateway {
	return &StripeGateway{
		api:      api,
		currency: cfg.DefaultCurrency,
		logger:   logger.Named("stripe"),
	}
}

// PaymentLinkMetadata retrieves the metadata attached to a payment link
func (g *StripeGateway) PaymentLinkMetadata(ctx context.Context, paymentLinkID string) (map[string]string, error) {
	params := &stripe.PaymentLinkParams{}
	params.Context = ctx

	link, err := g.api.PaymentLinks.Get(paymentLinkID, params)
	if err != nil {
		return nil, fmt.Errorf("stripe: failed to get payment link %s: %w", paymentLinkID, err)
	}
	if link.Metadata == nil {
		return map[string]string{}, nil
	}
	return link.Metadata, nil
}

// ProvisionPaymentLink creates a product, a monthly recurring price and a
// hosted payment link whose metadata points back at the class.
func (g *StripeGateway) ProvisionPaymentLink(ctx context.Context, req academy.ProvisionRequest) (academy.PaymentLinkInfo, error) {
	log := g.logger.With(
		zap.String("institution_id", req.InstitutionID.String()),
		zap.String("class_name", req.ClassName),
	)

	productParams := &stripe.ProductParams{
		Name:        stripe.String(fmt.Sprintf("%s - %s", req.InstitutionName, req.ClassName)),
		Description: stripe.String(fmt.Sprintf("Monthly subscription for %s", req.ClassName)),
	}
	productParams.Context = ctx
	product, err := g.api.Products.New(productParams)
	if err != nil {
		log.Error("Failed to create Stripe product", zap.Error(err))
		return academy.PaymentLinkInfo{}, fmt.Errorf("stripe: failed to create product: %w", err)
	}

	currency := string(req.MonthlyPrice.Currency())
	if currency == "" {
		currency = g.currency
	}
	priceParams := &stripe.PriceParams{
		Product:    stripe.String(product.ID),
		UnitAmount: stripe.Int64(req.MonthlyPrice.MinorUnits()),
		Currency:   stripe.String(currency),
		Recurring: &stripe.PriceRecurringParams{
			Interval: stripe.String(string(stripe.PriceRecurringIntervalMonth)),
		},
	}
	priceParams.Context = ctx
	price, err := g.api.Prices.New(priceParams)
	if err != nil {
		log.Error("Failed to create Stripe price", zap.String("product_id", product.ID), zap.Error(err))
		return academy.PaymentLinkInfo{}, fmt.Errorf("stripe: failed to create price: %w", err)
	}

	linkParams := &stripe.PaymentLinkParams{
		LineItems: []*stripe.PaymentLinkLineItemParams{
			{
				Price:    stripe.String(price.ID),
				Quantity: stripe.Int64(1),
			},
		},
		AfterCompletion: &stripe.PaymentLinkAfterCompletionParams{
			Type: stripe.String(string(stripe.PaymentLinkAfterCompletionTypeHostedConfirmation)),
			HostedConfirmation: &stripe.PaymentLinkAfterCompletionHostedConfirmationParams{
				CustomMessage: stripe.String(fmt.Sprintf("Thank you for subscribing to %s!", req.ClassName)),
			},
		},
		PhoneNumberCollection: &stripe.PaymentLinkPhoneNumberCollectionParams{
			Enabled: stripe.Bool(true),
		},
	}
	linkParams.AddMetadata(domainbilling.MetadataInstitutionID, req.InstitutionID.String())
	linkParams.AddMetadata(domainbilling.MetadataClassName, req.ClassName)
	linkParams.Context = ctx

	link, err := g.api.PaymentLinks.New(linkParams)
	if err != nil {
		log.Error("Failed to create Stripe payment link", zap.String("price_id", price.ID), zap.Error(err))
		return academy.PaymentLinkInfo{}, fmt.Errorf("stripe: failed to create payment link: %w", err)
	}

	log.Info("Provisioned Stripe payment link",
		zap.String("product_id", product.ID),
		zap.String("price_id", price.ID),
		zap.String("payment_link_id", link.ID))

	return academy.PaymentLinkInfo{
		ProductID:      product.ID,
		PriceID:        price.ID,
		PaymentLinkURL: link.URL,
	}, nil
}

var (
	_ domainbilling.PaymentLinkReader = (*StripeGateway)(nil)
	_ academy.PaymentLinkProvisioner  = (*StripeGateway)(nil)
)
