package models

import (
	"database/sql"
	"time"
)

// AdminUser represents an operator of the admin console. Admins are
// deactivated rather than deleted so audit references stay resolvable.
type AdminUser struct {
	ID           int64         `db:"id" json:"id"`
	UserID       int64         `db:"user_id" json:"userId"`
	Email        string        `db:"email" json:"email"`
	PasswordHash string        `db:"password_hash" json:"-"`
	Name         string        `db:"name" json:"name"`
	Role         AdminRole     `db:"role" json:"role"`
	Permissions  PermissionSet `db:"permissions" json:"permissions"`
	IsActive     bool          `db:"is_active" json:"isActive"`
	LastLoginAt  sql.NullTime  `db:"last_login_at" json:"lastLoginAt,omitempty"`
	CreatedAt    time.Time     `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time     `db:"updated_at" json:"updatedAt"`
}

// EffectivePermissions returns the admin's explicit capability set, falling
// back to the role defaults when none were stored.
func (a *AdminUser) EffectivePermissions() PermissionSet {
	if len(a.Permissions) > 0 {
		return a.Permissions
	}
	return DefaultPermissions(a.Role)
}

// AccessCheck is the result of a permission lookup for a user id.
// Non-admins (and failed lookups) get the zero value with an empty set.
type AccessCheck struct {
	IsAdmin     bool          `json:"isAdmin"`
	AdminID     int64         `json:"adminId,omitempty"`
	Role        AdminRole     `json:"role,omitempty"`
	Permissions PermissionSet `json:"permissions"`
}
