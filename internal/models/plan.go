package models

import "time"

// Plan tier names. The tier table is fixed; plan changes against any other
// name are rejected outright.
const (
	PlanStarter = "starter"
	PlanGrowth  = "growth"
	PlanScale   = "scale"
)

// PlanSpec is the fixed allowance attached to a plan tier.
type PlanSpec struct {
	Name         string `json:"name"`
	CreditsLimit int    `json:"creditsLimit"`
	SeatCount    int    `json:"seatCount"`
}

var planTable = map[string]PlanSpec{
	PlanStarter: {Name: PlanStarter, CreditsLimit: 50, SeatCount: 1},
	PlanGrowth:  {Name: PlanGrowth, CreditsLimit: 200, SeatCount: 5},
	PlanScale:   {Name: PlanScale, CreditsLimit: 1000, SeatCount: 20},
}

// PlanByName looks up a tier in the static plan table.
func PlanByName(name string) (PlanSpec, bool) {
	spec, ok := planTable[name]
	return spec, ok
}

// PlanNames returns the known tier names in ascending order of allowance.
func PlanNames() []string {
	return []string{PlanStarter, PlanGrowth, PlanScale}
}

// SubscriptionPlan mirrors a Stripe product/price pair into the database so
// the console can render the catalog without calling Stripe.
type SubscriptionPlan struct {
	ID              int64     `db:"id" json:"id"`
	Name            string    `db:"name" json:"name"`
	StripeProductID string    `db:"stripe_product_id" json:"stripeProductId"`
	StripePriceID   string    `db:"stripe_price_id" json:"stripePriceId"`
	UnitAmount      int64     `db:"unit_amount" json:"unitAmount"`
	Currency        string    `db:"currency" json:"currency"`
	CreditsLimit    int       `db:"credits_limit" json:"creditsLimit"`
	SeatCount       int       `db:"seat_count" json:"seatCount"`
	IsActive        bool      `db:"is_active" json:"isActive"`
	UpdatedAt       time.Time `db:"updated_at" json:"updatedAt"`
}
