package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/jmoiron/sqlx"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

// CreditRepository handles data access for user credits and plan
// assignments. Mutations land atomically with their audit entry; two
// concurrent adjustments serialize on the row lock instead of losing one.
type CreditRepository struct {
	db *sqlx.DB
}

// NewCreditRepository creates a new CreditRepository.
func NewCreditRepository(db *sqlx.DB) *CreditRepository {
	return &CreditRepository{db: db}
}

// GetBalance returns the credit balance for a user.
func (r *CreditRepository) GetBalance(ctx context.Context, userID int64) (*models.CreditBalance, error) {
	var balance models.CreditBalance
	err := r.db.GetContext(ctx, &balance, `
		SELECT user_id, credits_used, credits_limit, period_start, updated_at
		FROM user_credits
		WHERE user_id = $1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// GetPlan returns the plan assignment for a user.
func (r *CreditRepository) GetPlan(ctx context.Context, userID int64) (*models.UserPlan, error) {
	var plan models.UserPlan
	err := r.db.GetContext(ctx, &plan, `
		SELECT user_id, plan_name, seat_count, updated_at
		FROM user_plans
		WHERE user_id = $1
	`, userID)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrUserNotFound
	}
	if err != nil {
		return nil, err
	}
	return &plan, nil
}

// AdjustWithAudit applies a delta to the used counter (floored at zero) and
// appends the audit entry in the same transaction. The row is locked for the
// read-modify-write so concurrent adjustments cannot lose an update.
func (r *CreditRepository) AdjustWithAudit(ctx context.Context, userID int64, delta int, entry *models.AuditEntry) (*models.CreditBalance, error) {
	var balance models.CreditBalance
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.GetContext(ctx, &balance, `
			SELECT user_id, credits_used, credits_limit, period_start, updated_at
			FROM user_credits
			WHERE user_id = $1
			FOR UPDATE
		`, userID)
		if errors.Is(err, sql.ErrNoRows) {
			return utils.ErrUserNotFound
		}
		if err != nil {
			return err
		}

		balance.CreditsUsed = models.ClampCreditUsage(balance.CreditsUsed, delta)

		err = tx.QueryRowContext(ctx, `
			UPDATE user_credits
			SET credits_used = $2, updated_at = NOW()
			WHERE user_id = $1
			RETURNING updated_at
		`, userID, balance.CreditsUsed).Scan(&balance.UpdatedAt)
		if err != nil {
			return err
		}

		return insertAuditTx(ctx, tx, entry)
	})
	if err != nil {
		return nil, err
	}
	return &balance, nil
}

// ChangePlanWithAudit overwrites the user's plan assignment and credit limit
// per the tier spec and appends the audit entry, all in one transaction.
func (r *CreditRepository) ChangePlanWithAudit(ctx context.Context, userID int64, spec models.PlanSpec, entry *models.AuditEntry) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user_plans (user_id, plan_name, seat_count)
			VALUES ($1, $2, $3)
			ON CONFLICT (user_id) DO UPDATE
			SET plan_name = EXCLUDED.plan_name,
			    seat_count = EXCLUDED.seat_count,
			    updated_at = NOW()
		`, userID, spec.Name, spec.SeatCount); err != nil {
			return err
		}

		if _, err := tx.ExecContext(ctx, `
			INSERT INTO user_credits (user_id, credits_used, credits_limit)
			VALUES ($1, 0, $2)
			ON CONFLICT (user_id) DO UPDATE
			SET credits_limit = EXCLUDED.credits_limit,
			    updated_at = NOW()
		`, userID, spec.CreditsLimit); err != nil {
			return err
		}

		return insertAuditTx(ctx, tx, entry)
	})
}

// ResetUsageWithAudit zeroes the used counter at the start of a new billing
// period and appends the audit entry in the same transaction.
func (r *CreditRepository) ResetUsageWithAudit(ctx context.Context, userID int64, entry *models.AuditEntry) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE user_credits
			SET credits_used = 0, period_start = NOW(), updated_at = NOW()
			WHERE user_id = $1
		`, userID)
		if err != nil {
			return err
		}
		if err := requireRow(result, utils.ErrUserNotFound); err != nil {
			return err
		}

		return insertAuditTx(ctx, tx, entry)
	})
}

// TotalUsed sums credits consumed across all users.
func (r *CreditRepository) TotalUsed(ctx context.Context) (int, error) {
	var total int
	err := r.db.GetContext(ctx, &total, `
		SELECT COALESCE(SUM(credits_used), 0) FROM user_credits
	`)
	return total, err
}
