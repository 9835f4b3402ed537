package models

import (
	"database/sql"
	"time"
)

// User is an end user of the platform.
type User struct {
	ID               int64          `db:"id" json:"id"`
	Email            string         `db:"email" json:"email"`
	Name             string         `db:"name" json:"name"`
	StripeCustomerID sql.NullString `db:"stripe_customer_id" json:"stripeCustomerId,omitempty"`
	IsActive         bool           `db:"is_active" json:"isActive"`
	CreatedAt        time.Time      `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time      `db:"updated_at" json:"updatedAt"`
}

// UserDetail aggregates the account view the console renders for one user.
type UserDetail struct {
	User         User           `json:"user"`
	Credits      *CreditBalance `json:"credits,omitempty"`
	Plan         *UserPlan      `json:"plan,omitempty"`
	Subscription *Subscription  `json:"subscription,omitempty"`
}
