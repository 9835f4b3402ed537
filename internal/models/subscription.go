package models

import (
	"database/sql"
	"time"
)

// Subscription statuses mirrored from Stripe.
const (
	SubscriptionActive   = "active"
	SubscriptionPastDue  = "past_due"
	SubscriptionCanceled = "canceled"
	SubscriptionTrialing = "trialing"
)

// Subscription mirrors the user's Stripe subscription state. Rows are
// upserted from webhook events, keyed by the Stripe subscription id.
type Subscription struct {
	ID                   int64        `db:"id" json:"id"`
	UserID               int64        `db:"user_id" json:"userId"`
	StripeSubscriptionID string       `db:"stripe_subscription_id" json:"stripeSubscriptionId"`
	StripeCustomerID     string       `db:"stripe_customer_id" json:"stripeCustomerId"`
	PlanName             string       `db:"plan_name" json:"planName"`
	Status               string       `db:"status" json:"status"`
	CurrentPeriodEnd     sql.NullTime `db:"current_period_end" json:"currentPeriodEnd,omitempty"`
	CreatedAt            time.Time    `db:"created_at" json:"createdAt"`
	UpdatedAt            time.Time    `db:"updated_at" json:"updatedAt"`
}
