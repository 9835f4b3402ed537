package repository

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

// ImpersonationRepository handles data access for impersonation sessions.
type ImpersonationRepository struct {
	db *sqlx.DB
}

// NewImpersonationRepository creates a new ImpersonationRepository.
func NewImpersonationRepository(db *sqlx.DB) *ImpersonationRepository {
	return &ImpersonationRepository{db: db}
}

// CreateWithAudit inserts a session and its impersonation_start audit entry
// in one transaction.
func (r *ImpersonationRepository) CreateWithAudit(ctx context.Context, session *models.ImpersonationSession, entry *models.AuditEntry) error {
	return withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		err := tx.QueryRowContext(ctx, `
			INSERT INTO impersonation_sessions (token_hash, admin_id, target_user_id, expires_at, is_active)
			VALUES ($1, $2, $3, $4, TRUE)
			RETURNING id, created_at
		`, session.TokenHash, session.AdminID, session.TargetUserID, session.ExpiresAt).
			Scan(&session.ID, &session.CreatedAt)
		if err != nil {
			return err
		}
		session.IsActive = true

		return insertAuditTx(ctx, tx, entry)
	})
}

// GetByTokenHash returns the session for a token hash regardless of state.
// Returns utils.ErrSessionNotFound when no such session exists.
func (r *ImpersonationRepository) GetByTokenHash(ctx context.Context, tokenHash string) (*models.ImpersonationSession, error) {
	var session models.ImpersonationSession
	err := r.db.GetContext(ctx, &session, `
		SELECT id, token_hash, admin_id, target_user_id, expires_at, is_active, ended_at, created_at
		FROM impersonation_sessions
		WHERE token_hash = $1
	`, tokenHash)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, utils.ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	return &session, nil
}

// EndWithAudit flips an active session to ended and writes the
// impersonation_end audit entry, both in one transaction. It is idempotent:
// when the session was already ended (or never existed) it reports false and
// writes nothing.
func (r *ImpersonationRepository) EndWithAudit(ctx context.Context, tokenHash string, entry *models.AuditEntry) (bool, error) {
	ended := false
	err := withTx(ctx, r.db, func(tx *sqlx.Tx) error {
		result, err := tx.ExecContext(ctx, `
			UPDATE impersonation_sessions
			SET is_active = FALSE, ended_at = NOW()
			WHERE token_hash = $1 AND is_active = TRUE
		`, tokenHash)
		if err != nil {
			return err
		}
		n, err := result.RowsAffected()
		if err != nil {
			return err
		}
		if n == 0 {
			return nil // nothing to end, nothing to audit
		}
		ended = true

		return insertAuditTx(ctx, tx, entry)
	})
	return ended, err
}

// CountActive returns sessions that are active and unexpired right now.
func (r *ImpersonationRepository) CountActive(ctx context.Context) (int, error) {
	var count int
	err := r.db.GetContext(ctx, &count, `
		SELECT COUNT(*)
		FROM impersonation_sessions
		WHERE is_active = TRUE AND expires_at > NOW()
	`)
	return count, err
}

// DeleteStale removes ended or expired sessions older than the retention
// window and returns how many rows were swept.
func (r *ImpersonationRepository) DeleteStale(ctx context.Context, retention time.Duration) (int64, error) {
	cutoff := time.Now().Add(-retention)
	result, err := r.db.ExecContext(ctx, `
		DELETE FROM impersonation_sessions
		WHERE (is_active = FALSE OR expires_at < NOW())
		  AND created_at < $1
	`, cutoff)
	if err != nil {
		return 0, err
	}
	return result.RowsAffected()
}
