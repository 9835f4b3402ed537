package models

import "time"

// CreditBalance is a user's monthly content-generation quota.
type CreditBalance struct {
	UserID       int64     `db:"user_id" json:"userId"`
	CreditsUsed  int       `db:"credits_used" json:"creditsUsed"`
	CreditsLimit int       `db:"credits_limit" json:"creditsLimit"`
	PeriodStart  time.Time `db:"period_start" json:"periodStart"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Remaining returns the credits left in the current period, never negative.
func (b *CreditBalance) Remaining() int {
	if b.CreditsUsed >= b.CreditsLimit {
		return 0
	}
	return b.CreditsLimit - b.CreditsUsed
}

// ClampCreditUsage applies a delta to the used counter, flooring at zero.
// Usage is never driven negative regardless of how large a refund is.
func ClampCreditUsage(used, delta int) int {
	next := used + delta
	if next < 0 {
		return 0
	}
	return next
}

// UserPlan is the tier currently assigned to a user.
type UserPlan struct {
	UserID    int64     `db:"user_id" json:"userId"`
	PlanName  string    `db:"plan_name" json:"planName"`
	SeatCount int       `db:"seat_count" json:"seatCount"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`
}
