package repository

import (
	"context"

	"github.com/jmoiron/sqlx"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
)

// PlanRepository handles data access for the mirrored Stripe plan catalog.
type PlanRepository struct {
	db *sqlx.DB
}

// NewPlanRepository creates a new PlanRepository.
func NewPlanRepository(db *sqlx.DB) *PlanRepository {
	return &PlanRepository{db: db}
}

// List returns all catalog rows, active first.
func (r *PlanRepository) List(ctx context.Context) ([]models.SubscriptionPlan, error) {
	var plans []models.SubscriptionPlan
	err := r.db.SelectContext(ctx, &plans, `
		SELECT id, name, stripe_product_id, stripe_price_id, unit_amount,
		       currency, credits_limit, seat_count, is_active, updated_at
		FROM subscription_plans
		ORDER BY is_active DESC, credits_limit ASC
	`)
	if err != nil {
		return nil, err
	}
	if plans == nil {
		plans = []models.SubscriptionPlan{}
	}
	return plans, nil
}

// Upsert mirrors one Stripe product/price pair into the catalog, keyed by
// plan name.
func (r *PlanRepository) Upsert(ctx context.Context, plan *models.SubscriptionPlan) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO subscription_plans
			(name, stripe_product_id, stripe_price_id, unit_amount, currency,
			 credits_limit, seat_count, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		ON CONFLICT (name) DO UPDATE
		SET stripe_product_id = EXCLUDED.stripe_product_id,
		    stripe_price_id = EXCLUDED.stripe_price_id,
		    unit_amount = EXCLUDED.unit_amount,
		    currency = EXCLUDED.currency,
		    credits_limit = EXCLUDED.credits_limit,
		    seat_count = EXCLUDED.seat_count,
		    is_active = EXCLUDED.is_active,
		    updated_at = NOW()
		RETURNING id, updated_at
	`, plan.Name, plan.StripeProductID, plan.StripePriceID, plan.UnitAmount,
		plan.Currency, plan.CreditsLimit, plan.SeatCount, plan.IsActive).
		Scan(&plan.ID, &plan.UpdatedAt)
}
