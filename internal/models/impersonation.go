package models

import (
	"database/sql"
	"time"
)

// DefaultImpersonationDuration is applied when an issue request does not
// specify how long the session should live.
const DefaultImpersonationDuration = 60 * time.Minute

// ImpersonationSession binds an admin to a target user for a limited time.
// Only the SHA-256 hash of the opaque token is stored; the plaintext token
// is returned to the caller exactly once at issuance.
type ImpersonationSession struct {
	ID           int64        `db:"id" json:"id"`
	TokenHash    string       `db:"token_hash" json:"-"`
	AdminID      int64        `db:"admin_id" json:"adminId"`
	TargetUserID int64        `db:"target_user_id" json:"targetUserId"`
	ExpiresAt    time.Time    `db:"expires_at" json:"expiresAt"`
	IsActive     bool         `db:"is_active" json:"isActive"`
	EndedAt      sql.NullTime `db:"ended_at" json:"endedAt,omitempty"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
}

// Expired reports whether the session has passed its expiry at the given
// instant. Expiry is purely a clock comparison; no state is mutated.
func (s *ImpersonationSession) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
