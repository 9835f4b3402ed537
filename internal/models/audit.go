package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

// SystemActorID is the actor recorded for mutations driven by the platform
// itself (webhook processing, workers) rather than a console admin.
const SystemActorID int64 = 0

// Audit action tags. Free-text per row, but writers stick to this set so the
// console can filter on them.
const (
	AuditImpersonationStart = "impersonation_start"
	AuditImpersonationEnd   = "impersonation_end"
	AuditCreditsAdjusted    = "credits_adjusted"
	AuditPlanChanged        = "plan_changed"
	AuditAdminCreated       = "admin_created"
	AuditAdminUpdated       = "admin_updated"
	AuditAdminDeactivated   = "admin_deactivated"
	AuditSubscriptionSynced = "subscription_synced"
	AuditUsageReset         = "usage_reset"
	AuditPlanCatalogSynced  = "plan_catalog_synced"
)

// AuditDetails is the free-form key/value payload attached to an audit entry,
// stored as JSONB.
type AuditDetails map[string]interface{}

// Value implements driver.Valuer.
func (d AuditDetails) Value() (driver.Value, error) {
	if d == nil {
		d = AuditDetails{}
	}
	return json.Marshal(d)
}

// Scan implements sql.Scanner.
func (d *AuditDetails) Scan(src interface{}) error {
	if src == nil {
		*d = AuditDetails{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into AuditDetails", src)
	}
	if len(b) == 0 {
		*d = AuditDetails{}
		return nil
	}
	return json.Unmarshal(b, d)
}

// AuditEntry is one administrative action. Entries are append-only: once
// written they are never updated or deleted.
type AuditEntry struct {
	ID           int64        `db:"id" json:"id"`
	ActorAdminID int64        `db:"actor_admin_id" json:"actorAdminId"`
	TargetUserID *int64       `db:"target_user_id" json:"targetUserId,omitempty"`
	Action       string       `db:"action" json:"action"`
	Details      AuditDetails `db:"details" json:"details"`
	CreatedAt    time.Time    `db:"created_at" json:"createdAt"`
}
