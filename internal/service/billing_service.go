package service

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BrandkitHQ/brandkit_api/internal/config"
	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/pkg/stripe"
)

// stripeAPI is the slice of the Stripe client billing depends on.
type stripeAPI interface {
	ListProducts(ctx context.Context, limit int) ([]stripe.Product, error)
	ListPrices(ctx context.Context, limit int) ([]stripe.Price, error)
}

// billingUserStore resolves Stripe customers to platform users.
type billingUserStore interface {
	GetByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error)
}

// subscriptionStore mirrors Stripe subscription state.
type subscriptionStore interface {
	Upsert(ctx context.Context, sub *models.Subscription) error
}

// billingCreditStore is the transactional mutation surface billing uses.
type billingCreditStore interface {
	ChangePlanWithAudit(ctx context.Context, userID int64, spec models.PlanSpec, entry *models.AuditEntry) error
	ResetUsageWithAudit(ctx context.Context, userID int64, entry *models.AuditEntry) error
}

// planCatalogStore mirrors the Stripe product/price catalog.
type planCatalogStore interface {
	Upsert(ctx context.Context, plan *models.SubscriptionPlan) error
}

// BillingService keeps local plan and credit state in sync with the
// payments processor. It is driven by webhook events and by the periodic
// catalog sync.
type BillingService struct {
	stripeCfg *config.StripeConfig
	api       stripeAPI
	users     billingUserStore
	subs      subscriptionStore
	credits   billingCreditStore
	catalog   planCatalogStore
	audit     *AuditService
}

// NewBillingService constructs a BillingService.
func NewBillingService(
	stripeCfg *config.StripeConfig,
	api stripeAPI,
	users billingUserStore,
	subs subscriptionStore,
	credits billingCreditStore,
	catalog planCatalogStore,
	audit *AuditService,
) *BillingService {
	return &BillingService{
		stripeCfg: stripeCfg,
		api:       api,
		users:     users,
		subs:      subs,
		credits:   credits,
		catalog:   catalog,
		audit:     audit,
	}
}

// HandleEvent dispatches one verified webhook event. Unhandled event types
// are logged and acknowledged without error; processing failures propagate
// so the processor redelivers.
func (s *BillingService) HandleEvent(ctx context.Context, event *stripe.Event) error {
	switch event.Type {
	case stripe.EventSubscriptionCreated, stripe.EventSubscriptionUpdated:
		return s.handleSubscriptionChange(ctx, event)
	case stripe.EventSubscriptionDeleted:
		return s.handleSubscriptionDeleted(ctx, event)
	case stripe.EventInvoicePaid:
		return s.handleInvoicePaid(ctx, event)
	default:
		log.Info().Str("event_id", event.ID).Str("type", event.Type).Msg("Ignoring unhandled Stripe event")
		return nil
	}
}

func (s *BillingService) handleSubscriptionChange(ctx context.Context, event *stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Object, &sub); err != nil {
		return fmt.Errorf("decode subscription: %w", err)
	}

	user, err := s.users.GetByStripeCustomerID(ctx, sub.Customer)
	if err != nil {
		return fmt.Errorf("resolve customer %s: %w", sub.Customer, err)
	}

	planName := s.stripeCfg.PlanForPrice(sub.PriceID())
	if planName == "" {
		log.Warn().
			Str("event_id", event.ID).
			Str("price_id", sub.PriceID()).
			Msg("Subscription references unconfigured price, skipping plan assignment")
	}

	if err := s.subs.Upsert(ctx, &models.Subscription{
		UserID:               user.ID,
		StripeSubscriptionID: sub.ID,
		StripeCustomerID:     sub.Customer,
		PlanName:             planName,
		Status:               sub.Status,
		CurrentPeriodEnd:     unixToNullTime(sub.CurrentPeriodEnd),
	}); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	// Only a paid-up subscription moves the user's allowance.
	if planName == "" || (sub.Status != models.SubscriptionActive && sub.Status != models.SubscriptionTrialing) {
		return nil
	}

	spec, ok := models.PlanByName(planName)
	if !ok {
		return fmt.Errorf("plan %q missing from tier table", planName)
	}

	entry := &models.AuditEntry{
		ActorAdminID: models.SystemActorID,
		TargetUserID: &user.ID,
		Action:       models.AuditSubscriptionSynced,
		Details: models.AuditDetails{
			"stripeSubscriptionId": sub.ID,
			"plan":                 spec.Name,
			"status":               sub.Status,
		},
	}
	if err := s.credits.ChangePlanWithAudit(ctx, user.ID, spec, entry); err != nil {
		return fmt.Errorf("apply plan: %w", err)
	}

	log.Info().
		Int64("user_id", user.ID).
		Str("plan", spec.Name).
		Str("status", sub.Status).
		Msg("Subscription synced")
	return nil
}

func (s *BillingService) handleSubscriptionDeleted(ctx context.Context, event *stripe.Event) error {
	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Object, &sub); err != nil {
		return fmt.Errorf("decode subscription: %w", err)
	}

	user, err := s.users.GetByStripeCustomerID(ctx, sub.Customer)
	if err != nil {
		return fmt.Errorf("resolve customer %s: %w", sub.Customer, err)
	}

	if err := s.subs.Upsert(ctx, &models.Subscription{
		UserID:               user.ID,
		StripeSubscriptionID: sub.ID,
		StripeCustomerID:     sub.Customer,
		PlanName:             models.PlanStarter,
		Status:               models.SubscriptionCanceled,
		CurrentPeriodEnd:     unixToNullTime(sub.CurrentPeriodEnd),
	}); err != nil {
		return fmt.Errorf("upsert subscription: %w", err)
	}

	// Cancellation drops the user back to the starter allowance.
	spec, _ := models.PlanByName(models.PlanStarter)
	entry := &models.AuditEntry{
		ActorAdminID: models.SystemActorID,
		TargetUserID: &user.ID,
		Action:       models.AuditSubscriptionSynced,
		Details: models.AuditDetails{
			"stripeSubscriptionId": sub.ID,
			"plan":                 spec.Name,
			"status":               models.SubscriptionCanceled,
		},
	}
	if err := s.credits.ChangePlanWithAudit(ctx, user.ID, spec, entry); err != nil {
		return fmt.Errorf("apply downgrade: %w", err)
	}

	log.Info().Int64("user_id", user.ID).Msg("Subscription canceled, downgraded to starter")
	return nil
}

func (s *BillingService) handleInvoicePaid(ctx context.Context, event *stripe.Event) error {
	var invoice stripe.Invoice
	if err := json.Unmarshal(event.Data.Object, &invoice); err != nil {
		return fmt.Errorf("decode invoice: %w", err)
	}

	user, err := s.users.GetByStripeCustomerID(ctx, invoice.Customer)
	if err != nil {
		return fmt.Errorf("resolve customer %s: %w", invoice.Customer, err)
	}

	// A paid invoice opens a fresh billing period: usage starts over.
	entry := &models.AuditEntry{
		ActorAdminID: models.SystemActorID,
		TargetUserID: &user.ID,
		Action:       models.AuditUsageReset,
		Details: models.AuditDetails{
			"stripeInvoiceId": invoice.ID,
			"amountPaid":      invoice.AmountPaid,
		},
	}
	if err := s.credits.ResetUsageWithAudit(ctx, user.ID, entry); err != nil {
		return fmt.Errorf("reset usage: %w", err)
	}

	log.Info().Int64("user_id", user.ID).Str("invoice_id", invoice.ID).Msg("Usage reset for new billing period")
	return nil
}

// SyncPlans mirrors the configured Stripe prices (and their products) into
// the local catalog. Prices that do not match a configured tier are skipped.
func (s *BillingService) SyncPlans(ctx context.Context) (int, error) {
	prices, err := s.api.ListPrices(ctx, 100)
	if err != nil {
		return 0, fmt.Errorf("list prices: %w", err)
	}
	products, err := s.api.ListProducts(ctx, 100)
	if err != nil {
		return 0, fmt.Errorf("list products: %w", err)
	}

	productNames := make(map[string]string, len(products))
	for _, p := range products {
		productNames[p.ID] = p.Name
	}

	synced := 0
	for _, price := range prices {
		planName := s.stripeCfg.PlanForPrice(price.ID)
		if planName == "" {
			continue
		}
		spec, ok := models.PlanByName(planName)
		if !ok {
			continue
		}

		plan := &models.SubscriptionPlan{
			Name:            spec.Name,
			StripeProductID: price.Product,
			StripePriceID:   price.ID,
			UnitAmount:      price.UnitAmount,
			Currency:        price.Currency,
			CreditsLimit:    spec.CreditsLimit,
			SeatCount:       spec.SeatCount,
			IsActive:        price.Active,
		}
		if err := s.catalog.Upsert(ctx, plan); err != nil {
			return synced, fmt.Errorf("upsert plan %s: %w", spec.Name, err)
		}
		synced++

		if name, ok := productNames[price.Product]; ok {
			log.Debug().Str("plan", spec.Name).Str("product", name).Msg("Plan catalog row synced")
		}
	}

	s.audit.Record(ctx, models.SystemActorID, nil, models.AuditPlanCatalogSynced, models.AuditDetails{
		"synced": synced,
	})
	return synced, nil
}

func unixToNullTime(ts int64) sql.NullTime {
	if ts == 0 {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: time.Unix(ts, 0).UTC(), Valid: true}
}
