package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

// adminLookup is the store surface the permission checker needs.
type adminLookup interface {
	GetActiveByUserID(ctx context.Context, userID int64) (*models.AdminUser, error)
}

// PermissionService resolves a platform user id to an admin capability set.
type PermissionService struct {
	admins adminLookup
}

// NewPermissionService constructs a PermissionService.
func NewPermissionService(admins adminLookup) *PermissionService {
	return &PermissionService{admins: admins}
}

// Check looks up the caller's admin record. Missing, inactive, and failed
// lookups all come back as "not an admin" with an empty capability set;
// lookup failures are logged but never surfaced to callers.
func (s *PermissionService) Check(ctx context.Context, userID int64) models.AccessCheck {
	notAdmin := models.AccessCheck{Permissions: models.PermissionSet{}}

	admin, err := s.admins.GetActiveByUserID(ctx, userID)
	if err != nil {
		if !errors.Is(err, utils.ErrAdminNotFound) {
			log.Warn().Err(err).Int64("user_id", userID).Msg("Admin lookup failed, treating as non-admin")
		}
		return notAdmin
	}

	return models.AccessCheck{
		IsAdmin:     true,
		AdminID:     admin.ID,
		Role:        admin.Role,
		Permissions: admin.EffectivePermissions(),
	}
}

// Require returns the admin record when the user is an active admin holding
// the permission; otherwise utils.ErrNotAuthorized. Used by mutating paths
// that need a hard answer instead of the swallowing Check.
func (s *PermissionService) Require(ctx context.Context, userID int64, perm models.Permission) (*models.AdminUser, error) {
	admin, err := s.admins.GetActiveByUserID(ctx, userID)
	if err != nil {
		if errors.Is(err, utils.ErrAdminNotFound) {
			return nil, utils.ErrNotAuthorized
		}
		return nil, err
	}
	if !admin.EffectivePermissions().Has(perm) {
		return nil, utils.ErrNotAuthorized
	}
	return admin, nil
}
