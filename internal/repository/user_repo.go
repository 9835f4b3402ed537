package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

// UserRepository handles data access for end users.
type UserRepository struct {
	db *sqlx.DB
}

// NewUserRepository creates a new UserRepository.
func NewUserRepository(db *sqlx.DB) *UserRepository {
	return &UserRepository{db: db}
}

// GetByID returns one user.
func (r *UserRepository) GetByID(ctx context.Context, id int64) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `
		SELECT id, email, name, stripe_customer_id, is_active, created_at, updated_at
		FROM users
		WHERE id = $1
	`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// GetByStripeCustomerID resolves a Stripe customer id to a user.
func (r *UserRepository) GetByStripeCustomerID(ctx context.Context, customerID string) (*models.User, error) {
	var user models.User
	err := r.db.GetContext(ctx, &user, `
		SELECT id, email, name, stripe_customer_id, is_active, created_at, updated_at
		FROM users
		WHERE stripe_customer_id = $1
	`, customerID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// UserFilter holds search and pagination parameters for user listings.
type UserFilter struct {
	Search *string
	Page   int
	Limit  int
}

// UserListResult contains paginated user results.
type UserListResult struct {
	Users      []models.User
	TotalItems int
	TotalPages int
	Page       int
	Limit      int
}

// List returns users for the console with search and pagination.
func (r *UserRepository) List(ctx context.Context, filter *UserFilter) (*UserListResult, error) {
	baseQ := `FROM users WHERE 1=1`

	args := []interface{}{}
	argIdx := 1

	if filter.Search != nil && *filter.Search != "" {
		baseQ += fmt.Sprintf(" AND (email ILIKE $%d OR name ILIKE $%d)", argIdx, argIdx)
		args = append(args, "%"+*filter.Search+"%")
		argIdx++
	}

	countQ := "SELECT COUNT(*) " + baseQ
	var total int
	if err := r.db.GetContext(ctx, &total, countQ, args...); err != nil {
		return nil, err
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Limit > 100 {
		filter.Limit = 100
	}
	offset := (filter.Page - 1) * filter.Limit
	totalPages := (total + filter.Limit - 1) / filter.Limit

	selectQ := fmt.Sprintf(`
		SELECT id, email, name, stripe_customer_id, is_active, created_at, updated_at
		%s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d`, baseQ, argIdx, argIdx+1)
	args = append(args, filter.Limit, offset)

	var users []models.User
	if err := r.db.SelectContext(ctx, &users, selectQ, args...); err != nil {
		return nil, err
	}
	if users == nil {
		users = []models.User{}
	}

	return &UserListResult{
		Users:      users,
		TotalItems: total,
		TotalPages: totalPages,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// Count returns the total number of users.
func (r *UserRepository) Count(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `SELECT COUNT(*) FROM users`)
	return count, err
}

// CountRecent returns users created within the trailing number of days.
func (r *UserRepository) CountRecent(ctx context.Context, days int) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*) FROM users
		WHERE created_at > NOW() - ($1 || ' days')::interval
	`, days)
	return count, err
}
