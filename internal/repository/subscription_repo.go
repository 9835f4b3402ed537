package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
)

// SubscriptionRepository handles data access for mirrored Stripe
// subscriptions.
type SubscriptionRepository struct {
	db *sqlx.DB
}

// NewSubscriptionRepository creates a new SubscriptionRepository.
func NewSubscriptionRepository(db *sqlx.DB) *SubscriptionRepository {
	return &SubscriptionRepository{db: db}
}

// GetByUserID returns the latest subscription for a user, or nil when the
// user has none.
func (r *SubscriptionRepository) GetByUserID(ctx context.Context, userID int64) (*models.Subscription, error) {
	var sub models.Subscription
	err := r.db.GetContext(ctx, &sub, `
		SELECT id, user_id, stripe_subscription_id, stripe_customer_id,
		       plan_name, status, current_period_end, created_at, updated_at
		FROM subscriptions
		WHERE user_id = $1
		ORDER BY updated_at DESC
		LIMIT 1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &sub, nil
}

// Upsert mirrors a subscription keyed by its Stripe subscription id.
func (r *SubscriptionRepository) Upsert(ctx context.Context, sub *models.Subscription) error {
	return r.db.QueryRowContext(ctx, `
		INSERT INTO subscriptions
			(user_id, stripe_subscription_id, stripe_customer_id, plan_name, status, current_period_end)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (stripe_subscription_id) DO UPDATE
		SET plan_name = EXCLUDED.plan_name,
		    status = EXCLUDED.status,
		    current_period_end = EXCLUDED.current_period_end,
		    updated_at = NOW()
		RETURNING id, created_at, updated_at
	`, sub.UserID, sub.StripeSubscriptionID, sub.StripeCustomerID,
		sub.PlanName, sub.Status, sub.CurrentPeriodEnd).
		Scan(&sub.ID, &sub.CreatedAt, &sub.UpdatedAt)
}

// CountActive returns subscriptions currently in an active state.
func (r *SubscriptionRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM subscriptions WHERE status IN ('active', 'trialing')
	`)
	return count, err
}
