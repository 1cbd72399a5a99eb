package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"runtime/debug"

	billingapp "github.com/edusaas/backend/internal/application/billing"
	"github.com/edusaas/backend/internal/domain/billing"
	"github.com/edusaas/backend/internal/infrastructure/logger"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// Maximum webhook payload size (64KB - Stripe webhooks are typically small)
const maxWebhookPayloadSize = 65536

// StripeSignatureHeader carries the provider's HMAC signature
const StripeSignatureHeader = "Stripe-Signature"

// WebhookProcessor verifies and handles one raw webhook delivery
type WebhookProcessor interface {
	ProcessWebhook(ctx context.Context, payload []byte, signature string) (*billingapp.WebhookResult, error)
}

// StripeWebhookHandler handles Stripe webhook endpoints.
// These endpoints are called by Stripe and do not require authentication.
type StripeWebhookHandler struct {
	processor WebhookProcessor
	debug     bool
	logger    *zap.Logger
}

// StripeWebhookHandlerConfig configures StripeWebhookHandler. A nil Processor
// means the provider keys are not configured and every delivery answers 500.
type StripeWebhookHandlerConfig struct {
	Processor WebhookProcessor
	Debug     bool
	Logger    *zap.Logger
}

// NewStripeWebhookHandler creates a new StripeWebhookHandler
func NewStripeWebhookHandler(cfg StripeWebhookHandlerConfig) *StripeWebhookHandler {
	log := cfg.Logger
	if log == nil {
		log = zap.NewNop()
	}
	return &StripeWebhookHandler{
		processor: cfg.Processor,
		debug:     cfg.Debug,
		logger:    log,
	}
}

// StripeWebhookResponse is the provider-facing acknowledgement body
//
//	@Description	Stripe webhook response
type StripeWebhookResponse struct {
	Received bool   `json:"received,omitempty" example:"true"`
	Warning  string `json:"warning,omitempty" example:"Student enrollment failed"`
	Error    string `json:"error,omitempty"`
	Details  string `json:"details,omitempty"`
	Stack    string `json:"stack,omitempty"`
}

// HandleStripeWebhook godoc
//
//	@ID				handleStripeWebhook
//	@Summary		Handle Stripe webhook
//	@Description	Verify a Stripe delivery and reconcile class enrollments and subscription statuses
//	@Tags			webhooks
//	@Accept			json
//	@Produce		json
//	@Param			Stripe-Signature	header		string					true	"Stripe webhook signature"
//	@Success		200					{object}	StripeWebhookResponse	"Event received"
//	@Failure		400					{object}	StripeWebhookResponse	"Missing or invalid signature"
//	@Failure		413					{object}	StripeWebhookResponse	"Payload too large"
//	@Failure		500					{object}	StripeWebhookResponse	"Not configured or internal fault"
//	@Router			/webhooks/stripe [post]
func (h *StripeWebhookHandler) HandleStripeWebhook(c *gin.Context) {
	log := logger.GetGinLogger(c)

	if h.processor == nil {
		log.Error("Stripe webhook received but provider keys are not configured")
		c.JSON(http.StatusInternalServerError, StripeWebhookResponse{Error: "stripe keys not configured"})
		return
	}

	defer func() {
		if r := recover(); r != nil {
			stack := debug.Stack()
			log.Error("Panic while handling Stripe webhook",
				zap.Any("panic", r),
				zap.ByteString("stack", stack))
			resp := StripeWebhookResponse{Error: fmt.Sprint(r)}
			if h.debug {
				resp.Stack = string(stack)
			}
			c.AbortWithStatusJSON(http.StatusInternalServerError, resp)
		}
	}()

	// Stripe requires the raw body for signature verification
	payload, err := io.ReadAll(io.LimitReader(c.Request.Body, maxWebhookPayloadSize+1))
	if err != nil {
		c.JSON(http.StatusBadRequest, StripeWebhookResponse{Error: "Failed to read request body"})
		return
	}
	if len(payload) > maxWebhookPayloadSize {
		c.JSON(http.StatusRequestEntityTooLarge, StripeWebhookResponse{Error: "Payload too large"})
		return
	}

	signature := c.GetHeader(StripeSignatureHeader)
	if signature == "" {
		c.JSON(http.StatusBadRequest, StripeWebhookResponse{Error: "No stripe signature found"})
		return
	}

	result, err := h.processor.ProcessWebhook(c.Request.Context(), payload, signature)
	if err != nil {
		if errors.Is(err, billing.ErrInvalidSignature) || errors.Is(err, billing.ErrMissingSignature) {
			c.JSON(http.StatusBadRequest, StripeWebhookResponse{
				Error:   "Webhook signature verification failed",
				Details: err.Error(),
			})
			return
		}
		log.Error("Stripe webhook could not be processed", zap.Error(err))
		c.JSON(http.StatusInternalServerError, StripeWebhookResponse{Error: err.Error()})
		return
	}

	// Only a failed enrollment is reported back; a failed status update is
	// acknowledged plainly and left to the service log.
	resp := StripeWebhookResponse{Received: true}
	if result.Outcome.IsFatal() && result.EventType == billing.EventTypeCheckoutSessionCompleted {
		resp.Warning = "Student enrollment failed"
		if result.Outcome.Cause != nil {
			resp.Error = result.Outcome.Cause.Error()
		}
	}
	c.JSON(http.StatusOK, resp)
}
