package service

import (
	"context"
	"encoding/json"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandkitHQ/brandkit_api/internal/config"
	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
	"github.com/BrandkitHQ/brandkit_api/pkg/stripe"
)

type fakeBillingStores struct {
	user *models.User

	upserted  []models.Subscription
	planCalls []models.PlanSpec
	resets    []int64
	catalog   []models.SubscriptionPlan
	audit     []models.AuditEntry
}

func (f *fakeBillingStores) GetByStripeCustomerID(_ context.Context, customerID string) (*models.User, error) {
	if f.user == nil || f.user.StripeCustomerID.String != customerID {
		return nil, utils.ErrUserNotFound
	}
	return f.user, nil
}

func (f *fakeBillingStores) Upsert(_ context.Context, sub *models.Subscription) error {
	f.upserted = append(f.upserted, *sub)
	return nil
}

func (f *fakeBillingStores) ChangePlanWithAudit(_ context.Context, _ int64, spec models.PlanSpec, entry *models.AuditEntry) error {
	f.planCalls = append(f.planCalls, spec)
	f.audit = append(f.audit, *entry)
	return nil
}

func (f *fakeBillingStores) ResetUsageWithAudit(_ context.Context, userID int64, entry *models.AuditEntry) error {
	f.resets = append(f.resets, userID)
	f.audit = append(f.audit, *entry)
	return nil
}

type fakeCatalog struct {
	rows []models.SubscriptionPlan
}

func (f *fakeCatalog) Upsert(_ context.Context, plan *models.SubscriptionPlan) error {
	f.rows = append(f.rows, *plan)
	return nil
}

type fakeStripeAPI struct {
	products []stripe.Product
	prices   []stripe.Price
}

func (f *fakeStripeAPI) ListProducts(_ context.Context, _ int) ([]stripe.Product, error) {
	return f.products, nil
}

func (f *fakeStripeAPI) ListPrices(_ context.Context, _ int) ([]stripe.Price, error) {
	return f.prices, nil
}

func billingFixture() (*BillingService, *fakeBillingStores, *fakeCatalog, *fakeAuditStore) {
	stores := &fakeBillingStores{
		user: &models.User{ID: 42},
	}
	stores.user.StripeCustomerID.String = "cus_123"
	stores.user.StripeCustomerID.Valid = true

	catalog := &fakeCatalog{}
	auditStore := &fakeAuditStore{}
	cfg := &config.StripeConfig{
		PriceStarter: "price_starter",
		PriceGrowth:  "price_growth",
		PriceScale:   "price_scale",
	}
	api := &fakeStripeAPI{
		products: []stripe.Product{{ID: "prod_g", Name: "Growth", Active: true}},
		prices: []stripe.Price{
			{ID: "price_growth", Product: "prod_g", UnitAmount: 4900, Currency: "usd", Active: true},
			{ID: "price_other", Product: "prod_x", UnitAmount: 100, Currency: "usd", Active: true},
		},
	}
	svc := NewBillingService(cfg, api, stores, stores, stores, catalog, NewAuditService(auditStore))
	return svc, stores, catalog, auditStore
}

func subscriptionEvent(eventType, priceID, status string) *stripe.Event {
	payload := fmt.Sprintf(`{
		"id": "sub_1",
		"customer": "cus_123",
		"status": %q,
		"current_period_end": 1767225600,
		"items": {"data": [{"id": "si_1", "price": {"id": %q}}]}
	}`, status, priceID)

	event := &stripe.Event{ID: "evt_1", Type: eventType}
	event.Data.Object = json.RawMessage(payload)
	return event
}

func TestHandleSubscriptionCreatedAppliesPlan(t *testing.T) {
	svc, stores, _, _ := billingFixture()

	err := svc.HandleEvent(context.Background(), subscriptionEvent(stripe.EventSubscriptionCreated, "price_growth", models.SubscriptionActive))
	require.NoError(t, err)

	require.Len(t, stores.upserted, 1)
	assert.Equal(t, "sub_1", stores.upserted[0].StripeSubscriptionID)
	assert.Equal(t, models.PlanGrowth, stores.upserted[0].PlanName)

	require.Len(t, stores.planCalls, 1)
	assert.Equal(t, 200, stores.planCalls[0].CreditsLimit)
	assert.Equal(t, 5, stores.planCalls[0].SeatCount)

	require.Len(t, stores.audit, 1)
	assert.Equal(t, models.AuditSubscriptionSynced, stores.audit[0].Action)
	assert.Equal(t, models.SystemActorID, stores.audit[0].ActorAdminID)
}

func TestHandleSubscriptionPastDueSkipsPlan(t *testing.T) {
	svc, stores, _, _ := billingFixture()

	err := svc.HandleEvent(context.Background(), subscriptionEvent(stripe.EventSubscriptionUpdated, "price_growth", models.SubscriptionPastDue))
	require.NoError(t, err)

	// The subscription mirror still updates, but the allowance does not move.
	assert.Len(t, stores.upserted, 1)
	assert.Empty(t, stores.planCalls)
}

func TestHandleSubscriptionDeletedDowngrades(t *testing.T) {
	svc, stores, _, _ := billingFixture()

	err := svc.HandleEvent(context.Background(), subscriptionEvent(stripe.EventSubscriptionDeleted, "price_growth", models.SubscriptionCanceled))
	require.NoError(t, err)

	require.Len(t, stores.planCalls, 1)
	assert.Equal(t, models.PlanStarter, stores.planCalls[0].Name)
	assert.Equal(t, 50, stores.planCalls[0].CreditsLimit)
}

func TestHandleInvoicePaidResetsUsage(t *testing.T) {
	svc, stores, _, _ := billingFixture()

	event := &stripe.Event{ID: "evt_2", Type: stripe.EventInvoicePaid}
	event.Data.Object = json.RawMessage(`{"id": "in_1", "customer": "cus_123", "amount_paid": 4900}`)

	err := svc.HandleEvent(context.Background(), event)
	require.NoError(t, err)

	require.Len(t, stores.resets, 1)
	assert.Equal(t, int64(42), stores.resets[0])
	require.Len(t, stores.audit, 1)
	assert.Equal(t, models.AuditUsageReset, stores.audit[0].Action)
}

func TestHandleUnknownEventIsAcked(t *testing.T) {
	svc, stores, _, _ := billingFixture()

	event := &stripe.Event{ID: "evt_3", Type: "customer.created"}
	err := svc.HandleEvent(context.Background(), event)
	require.NoError(t, err)
	assert.Empty(t, stores.upserted)
	assert.Empty(t, stores.planCalls)
	assert.Empty(t, stores.resets)
}

func TestHandleSubscriptionUnknownCustomer(t *testing.T) {
	svc, stores, _, _ := billingFixture()
	stores.user = nil

	err := svc.HandleEvent(context.Background(), subscriptionEvent(stripe.EventSubscriptionCreated, "price_growth", models.SubscriptionActive))
	assert.Error(t, err)
}

func TestSyncPlansMirrorsConfiguredPrices(t *testing.T) {
	svc, _, catalog, auditStore := billingFixture()

	synced, err := svc.SyncPlans(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, synced)

	// Only the configured growth price lands in the catalog.
	require.Len(t, catalog.rows, 1)
	row := catalog.rows[0]
	assert.Equal(t, models.PlanGrowth, row.Name)
	assert.Equal(t, "price_growth", row.StripePriceID)
	assert.Equal(t, int64(4900), row.UnitAmount)
	assert.Equal(t, 200, row.CreditsLimit)

	require.Len(t, auditStore.entries, 1)
	assert.Equal(t, models.AuditPlanCatalogSynced, auditStore.entries[0].Action)
}
