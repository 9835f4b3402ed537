package service

import (
	"context"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

// adminUserStore is the store surface admin management needs.
type adminUserStore interface {
	GetByID(ctx context.Context, id int64) (*models.AdminUser, error)
	Create(ctx context.Context, admin *models.AdminUser) error
	Update(ctx context.Context, id int64, name string, role models.AdminRole, permissions models.PermissionSet) error
	Deactivate(ctx context.Context, id int64) error
	List(ctx context.Context) ([]models.AdminUser, error)
}

// AdminUserService manages admin console operators. Every mutation is
// audited with the acting admin as the actor.
type AdminUserService struct {
	admins adminUserStore
	audit  *AuditService
}

// NewAdminUserService constructs an AdminUserService.
func NewAdminUserService(admins adminUserStore, audit *AuditService) *AdminUserService {
	return &AdminUserService{admins: admins, audit: audit}
}

// CreateAdminParams are the inputs for creating an admin.
type CreateAdminParams struct {
	UserID      int64
	Email       string
	Password    string
	Name        string
	Role        models.AdminRole
	Permissions models.PermissionSet
}

// Create adds a new admin. When no explicit permission set is given the
// role defaults apply.
func (s *AdminUserService) Create(ctx context.Context, actorAdminID int64, params CreateAdminParams) (*models.AdminUser, error) {
	if !params.Role.Valid() {
		return nil, utils.ErrNotAuthorized
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(params.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	permissions := params.Permissions
	if len(permissions) == 0 {
		permissions = models.DefaultPermissions(params.Role)
	}

	admin := &models.AdminUser{
		UserID:       params.UserID,
		Email:        params.Email,
		PasswordHash: string(hashed),
		Name:         params.Name,
		Role:         params.Role,
		Permissions:  permissions,
		IsActive:     true,
	}
	if err := s.admins.Create(ctx, admin); err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorAdminID, &admin.UserID, models.AuditAdminCreated, models.AuditDetails{
		"adminId": admin.ID,
		"email":   admin.Email,
		"role":    string(admin.Role),
	})

	log.Info().Int64("admin_id", admin.ID).Str("role", string(admin.Role)).Msg("Admin created")
	return admin, nil
}

// Update changes an admin's name, role, and permission set.
func (s *AdminUserService) Update(ctx context.Context, actorAdminID, adminID int64, name string, role models.AdminRole, permissions models.PermissionSet) (*models.AdminUser, error) {
	if !role.Valid() {
		return nil, utils.ErrNotAuthorized
	}
	if len(permissions) == 0 {
		permissions = models.DefaultPermissions(role)
	}

	if err := s.admins.Update(ctx, adminID, name, role, permissions); err != nil {
		return nil, err
	}

	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return nil, err
	}

	s.audit.Record(ctx, actorAdminID, &admin.UserID, models.AuditAdminUpdated, models.AuditDetails{
		"adminId": adminID,
		"role":    string(role),
	})
	return admin, nil
}

// Deactivate disables an admin rather than deleting the record.
func (s *AdminUserService) Deactivate(ctx context.Context, actorAdminID, adminID int64) error {
	admin, err := s.admins.GetByID(ctx, adminID)
	if err != nil {
		return err
	}

	if err := s.admins.Deactivate(ctx, adminID); err != nil {
		return err
	}

	s.audit.Record(ctx, actorAdminID, &admin.UserID, models.AuditAdminDeactivated, models.AuditDetails{
		"adminId": adminID,
		"email":   admin.Email,
	})

	log.Info().Int64("admin_id", adminID).Msg("Admin deactivated")
	return nil
}

// List returns all admins.
func (s *AdminUserService) List(ctx context.Context) ([]models.AdminUser, error) {
	return s.admins.List(ctx)
}
