package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

const adminUserColumns = `
	id, user_id, email, password_hash, name, role, permissions,
	is_active, last_login_at, created_at, updated_at`

// AdminUserRepository handles data access for admin users.
type AdminUserRepository struct {
	db *sqlx.DB
}

// NewAdminUserRepository creates a new AdminUserRepository.
func NewAdminUserRepository(db *sqlx.DB) *AdminUserRepository {
	return &AdminUserRepository{db: db}
}

// GetActiveByUserID returns the active admin record bound to a platform user
// id. Returns utils.ErrAdminNotFound when no active record exists.
func (r *AdminUserRepository) GetActiveByUserID(ctx context.Context, userID int64) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := r.db.GetContext(ctx, &admin, `
		SELECT `+adminUserColumns+`
		FROM admin_users
		WHERE user_id = $1 AND is_active = TRUE
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByID returns an admin record by its own id, active or not.
func (r *AdminUserRepository) GetByID(ctx context.Context, id int64) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := r.db.GetContext(ctx, &admin, `
		SELECT `+adminUserColumns+`
		FROM admin_users
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// GetByEmail returns an admin record by email for login.
func (r *AdminUserRepository) GetByEmail(ctx context.Context, email string) (*models.AdminUser, error) {
	var admin models.AdminUser
	err := r.db.GetContext(ctx, &admin, `
		SELECT `+adminUserColumns+`
		FROM admin_users
		WHERE email = $1
	`, email)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrAdminNotFound
	}
	if err != nil {
		return nil, err
	}
	return &admin, nil
}

// Create inserts a new admin user.
func (r *AdminUserRepository) Create(ctx context.Context, admin *models.AdminUser) error {
	err := r.db.QueryRowContext(ctx, `
		INSERT INTO admin_users (user_id, email, password_hash, name, role, permissions, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, created_at, updated_at
	`, admin.UserID, admin.Email, admin.PasswordHash, admin.Name, admin.Role, admin.Permissions, admin.IsActive).
		Scan(&admin.ID, &admin.CreatedAt, &admin.UpdatedAt)

	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == "23505" { // unique_violation
		return utils.ErrDuplicateAdmin
	}
	return err
}

// Update changes an admin's name, role, and permission set.
func (r *AdminUserRepository) Update(ctx context.Context, id int64, name string, role models.AdminRole, permissions models.PermissionSet) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE admin_users
		SET name = $2, role = $3, permissions = $4, updated_at = NOW()
		WHERE id = $1
	`, id, name, role, permissions)
	if err != nil {
		return err
	}
	return requireRow(result, utils.ErrAdminNotFound)
}

// Deactivate disables an admin. Admin records are never deleted so audit
// entries keep resolving.
func (r *AdminUserRepository) Deactivate(ctx context.Context, id int64) error {
	result, err := r.db.ExecContext(ctx, `
		UPDATE admin_users
		SET is_active = FALSE, updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE
	`, id)
	if err != nil {
		return err
	}
	return requireRow(result, utils.ErrAdminNotFound)
}

// UpdateLastLogin stamps a successful login.
func (r *AdminUserRepository) UpdateLastLogin(ctx context.Context, id int64) error {
	_, err := r.db.ExecContext(ctx, `
		UPDATE admin_users SET last_login_at = NOW() WHERE id = $1
	`, id)
	return err
}

// List returns all admin users, newest first.
func (r *AdminUserRepository) List(ctx context.Context) ([]models.AdminUser, error) {
	var admins []models.AdminUser
	err := r.db.SelectContext(ctx, &admins, `
		SELECT `+adminUserColumns+`
		FROM admin_users
		ORDER BY created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	if admins == nil {
		admins = []models.AdminUser{}
	}
	return admins, nil
}

// requireRow converts a zero-rows-affected result into notFound.
func requireRow(result sql.Result, notFound error) error {
	n, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if n == 0 {
		return notFound
	}
	return nil
}
