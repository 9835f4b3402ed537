package handler

import (
	"context"
	"encoding/json"
	"io"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/BrandkitHQ/brandkit_api/pkg/stripe"
)

// StripeWebhookHandler handles incoming Stripe webhook events.
type StripeWebhookHandler struct {
	billingService interface {
		HandleEvent(ctx context.Context, event *stripe.Event) error
	}
	webhookSecret string
}

// NewStripeWebhookHandler constructs a StripeWebhookHandler.
func NewStripeWebhookHandler(billingService interface {
	HandleEvent(ctx context.Context, event *stripe.Event) error
}, webhookSecret string) *StripeWebhookHandler {
	return &StripeWebhookHandler{billingService: billingService, webhookSecret: webhookSecret}
}

// HandleStripeEvent handles POST /webhook/stripe
func (h *StripeWebhookHandler) HandleStripeEvent(c *gin.Context) {
	body, err := io.ReadAll(c.Request.Body)
	if err != nil {
		c.JSON(400, gin.H{"error": "Invalid body"})
		return
	}

	signature := c.GetHeader("Stripe-Signature")
	if err := stripe.VerifySignature(body, signature, h.webhookSecret); err != nil {
		log.Warn().Err(err).Str("ip", c.ClientIP()).Msg("Rejected Stripe webhook")
		c.JSON(400, gin.H{"error": "Invalid signature"})
		return
	}

	var event stripe.Event
	if err := json.Unmarshal(body, &event); err != nil {
		c.JSON(400, gin.H{"error": "Invalid JSON"})
		return
	}

	if err := h.billingService.HandleEvent(c.Request.Context(), &event); err != nil {
		log.Error().Err(err).Str("event_id", event.ID).Str("type", event.Type).Msg("Failed to process Stripe event")
		c.JSON(500, gin.H{"error": "Processing failed"})
		return
	}

	c.JSON(200, gin.H{"received": true})
}
