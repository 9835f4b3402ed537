package service

import (
	"context"
	"errors"

	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

// adminAuthStore is the store surface login needs.
type adminAuthStore interface {
	adminLookup
	GetByEmail(ctx context.Context, email string) (*models.AdminUser, error)
	UpdateLastLogin(ctx context.Context, id int64) error
}

// AdminAuthService authenticates console admins.
type AdminAuthService struct {
	admins adminAuthStore
}

// NewAdminAuthService constructs an AdminAuthService.
func NewAdminAuthService(admins adminAuthStore) *AdminAuthService {
	return &AdminAuthService{admins: admins}
}

// Login verifies credentials and returns a signed session token. All
// credential failures collapse into the same error so the response does not
// reveal whether the email exists.
func (s *AdminAuthService) Login(ctx context.Context, email, password string) (string, error) {
	admin, err := s.admins.GetByEmail(ctx, email)
	if err != nil {
		if !errors.Is(err, utils.ErrAdminNotFound) {
			log.Error().Err(err).Str("email", email).Msg("Admin lookup failed during login")
		}
		return "", utils.ErrInvalidCredential
	}

	if !admin.IsActive {
		log.Warn().Str("email", email).Msg("Login attempt for inactive admin")
		return "", utils.ErrAccountInactive
	}

	if err := bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte(password)); err != nil {
		log.Warn().Str("email", email).Msg("Password verification failed")
		return "", utils.ErrInvalidCredential
	}

	token, err := utils.GenerateJWT(admin.ID, admin.Email)
	if err != nil {
		return "", err
	}

	if err := s.admins.UpdateLastLogin(ctx, admin.ID); err != nil {
		log.Warn().Err(err).Int64("admin_id", admin.ID).Msg("Failed to stamp last login")
	}

	log.Info().Str("email", email).Int64("admin_id", admin.ID).Msg("Admin login successful")
	return token, nil
}
