package handler

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/BrandkitHQ/brandkit_api/pkg/stripe"
)

const webhookTestSecret = "whsec_handler_test"

type fakeBillingProcessor struct {
	events []stripe.Event
	err    error
}

func (f *fakeBillingProcessor) HandleEvent(_ context.Context, event *stripe.Event) error {
	if f.err != nil {
		return f.err
	}
	f.events = append(f.events, *event)
	return nil
}

func webhookTestRouter(processor *fakeBillingProcessor) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	h := NewStripeWebhookHandler(processor, webhookTestSecret)
	router.POST("/webhook/stripe", h.HandleStripeEvent)
	return router
}

func postWebhook(router *gin.Engine, payload []byte, signature string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/webhook/stripe", bytes.NewReader(payload))
	if signature != "" {
		req.Header.Set("Stripe-Signature", signature)
	}
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestWebhookAcceptsSignedEvent(t *testing.T) {
	processor := &fakeBillingProcessor{}
	router := webhookTestRouter(processor)

	payload := []byte(`{"id":"evt_1","type":"invoice.paid","data":{"object":{"id":"in_1"}}}`)
	w := postWebhook(router, payload, stripe.SignPayload(payload, webhookTestSecret, time.Now()))

	assert.Equal(t, 200, w.Code)
	assert.Len(t, processor.events, 1)
	assert.Equal(t, "evt_1", processor.events[0].ID)
}

func TestWebhookRejectsBadSignature(t *testing.T) {
	processor := &fakeBillingProcessor{}
	router := webhookTestRouter(processor)

	payload := []byte(`{"id":"evt_1","type":"invoice.paid"}`)

	// Missing header.
	w := postWebhook(router, payload, "")
	assert.Equal(t, 400, w.Code)

	// Signed with the wrong secret.
	w = postWebhook(router, payload, stripe.SignPayload(payload, "whsec_wrong", time.Now()))
	assert.Equal(t, 400, w.Code)

	// Valid signature over a different payload.
	w = postWebhook(router, payload, stripe.SignPayload([]byte(`{"id":"evt_9"}`), webhookTestSecret, time.Now()))
	assert.Equal(t, 400, w.Code)

	// Stale signature.
	w = postWebhook(router, payload, stripe.SignPayload(payload, webhookTestSecret, time.Now().Add(-time.Hour)))
	assert.Equal(t, 400, w.Code)

	assert.Empty(t, processor.events)
}

func TestWebhookRejectsInvalidJSON(t *testing.T) {
	processor := &fakeBillingProcessor{}
	router := webhookTestRouter(processor)

	payload := []byte(`{not json`)
	w := postWebhook(router, payload, stripe.SignPayload(payload, webhookTestSecret, time.Now()))
	assert.Equal(t, 400, w.Code)
}

func TestWebhookProcessingFailure(t *testing.T) {
	processor := &fakeBillingProcessor{err: errors.New("db down")}
	router := webhookTestRouter(processor)

	payload := []byte(`{"id":"evt_1","type":"invoice.paid"}`)
	w := postWebhook(router, payload, stripe.SignPayload(payload, webhookTestSecret, time.Now()))
	assert.Equal(t, 500, w.Code)
}
