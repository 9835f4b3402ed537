package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
)

// AdminRole is the administrative role assigned to an admin user.
type AdminRole string

const (
	RoleSuperAdmin AdminRole = "super_admin"
	RoleAdmin      AdminRole = "admin"
	RoleSupport    AdminRole = "support"
)

// Valid reports whether the role is one of the known roles.
func (r AdminRole) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleAdmin, RoleSupport:
		return true
	}
	return false
}

// Permission is a single administrative capability. The set of permissions
// is closed: unknown names are rejected at the edge instead of being carried
// around as free-form strings.
type Permission string

const (
	PermManageAdmins   Permission = "manage_admins"
	PermManageUsers    Permission = "manage_users"
	PermManagePlans    Permission = "manage_plans"
	PermManageCredits  Permission = "manage_credits"
	PermImpersonate    Permission = "impersonate"
	PermViewAuditLog   Permission = "view_audit_log"
	PermRunDiagnostics Permission = "run_diagnostics"
)

// AllPermissions lists every known permission.
var AllPermissions = []Permission{
	PermManageAdmins,
	PermManageUsers,
	PermManagePlans,
	PermManageCredits,
	PermImpersonate,
	PermViewAuditLog,
	PermRunDiagnostics,
}

// ParsePermission converts a raw string into a Permission.
func ParsePermission(s string) (Permission, error) {
	p := Permission(s)
	for _, known := range AllPermissions {
		if p == known {
			return p, nil
		}
	}
	return "", fmt.Errorf("unknown permission %q", s)
}

// PermissionSet is the capability set granted to an admin user. It is stored
// as a JSONB object of permission name -> bool.
type PermissionSet map[Permission]bool

// Has reports whether the permission is granted.
func (s PermissionSet) Has(p Permission) bool {
	return s[p]
}

// Value implements driver.Valuer for JSONB storage.
func (s PermissionSet) Value() (driver.Value, error) {
	if s == nil {
		s = PermissionSet{}
	}
	return json.Marshal(s)
}

// Scan implements sql.Scanner for JSONB storage.
func (s *PermissionSet) Scan(src interface{}) error {
	if src == nil {
		*s = PermissionSet{}
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("cannot scan %T into PermissionSet", src)
	}
	if len(b) == 0 {
		*s = PermissionSet{}
		return nil
	}
	return json.Unmarshal(b, s)
}

// DefaultPermissions returns the capability set granted to a role when no
// explicit per-admin overrides are set.
func DefaultPermissions(role AdminRole) PermissionSet {
	switch role {
	case RoleSuperAdmin:
		set := make(PermissionSet, len(AllPermissions))
		for _, p := range AllPermissions {
			set[p] = true
		}
		return set
	case RoleAdmin:
		return PermissionSet{
			PermManageUsers:    true,
			PermManagePlans:    true,
			PermManageCredits:  true,
			PermImpersonate:    true,
			PermViewAuditLog:   true,
			PermRunDiagnostics: true,
		}
	case RoleSupport:
		return PermissionSet{
			PermImpersonate:  true,
			PermViewAuditLog: true,
		}
	default:
		return PermissionSet{}
	}
}
