package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
)

// AuditLogRepository handles data access for the append-only admin audit log.
// There are deliberately no update or delete statements here.
type AuditLogRepository struct {
	db *sqlx.DB
}

// NewAuditLogRepository creates a new AuditLogRepository.
func NewAuditLogRepository(db *sqlx.DB) *AuditLogRepository {
	return &AuditLogRepository{db: db}
}

const insertAuditQuery = `
	INSERT INTO admin_audit_log (actor_admin_id, target_user_id, action, details)
	VALUES ($1, $2, $3, $4)
	RETURNING id, created_at`

// Insert appends one audit entry with a server-assigned timestamp.
func (r *AuditLogRepository) Insert(ctx context.Context, entry *models.AuditEntry) error {
	return r.db.QueryRowContext(ctx, insertAuditQuery,
		entry.ActorAdminID, entry.TargetUserID, entry.Action, entry.Details,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// InsertTx appends one audit entry inside an existing transaction, so a
// mutation and its audit record commit or roll back together.
func (r *AuditLogRepository) InsertTx(ctx context.Context, tx *sqlx.Tx, entry *models.AuditEntry) error {
	return insertAuditTx(ctx, tx, entry)
}

func insertAuditTx(ctx context.Context, tx *sqlx.Tx, entry *models.AuditEntry) error {
	return tx.QueryRowContext(ctx, insertAuditQuery,
		entry.ActorAdminID, entry.TargetUserID, entry.Action, entry.Details,
	).Scan(&entry.ID, &entry.CreatedAt)
}

// AuditFilter holds equality filters and pagination for audit queries.
type AuditFilter struct {
	ActorAdminID *int64
	TargetUserID *int64
	Action       *string
	Limit        int
	Offset       int
}

// List returns audit entries newest-first with equality filters and
// offset/limit pagination, plus the unpaginated total for the filter.
func (r *AuditLogRepository) List(ctx context.Context, filter *AuditFilter) ([]models.AuditEntry, int, error) {
	baseQ := `FROM admin_audit_log WHERE 1=1`

	args := []interface{}{}
	argIdx := 1

	if filter.ActorAdminID != nil {
		baseQ += fmt.Sprintf(" AND actor_admin_id = $%d", argIdx)
		args = append(args, *filter.ActorAdminID)
		argIdx++
	}
	if filter.TargetUserID != nil {
		baseQ += fmt.Sprintf(" AND target_user_id = $%d", argIdx)
		args = append(args, *filter.TargetUserID)
		argIdx++
	}
	if filter.Action != nil && *filter.Action != "" {
		baseQ += fmt.Sprintf(" AND action = $%d", argIdx)
		args = append(args, *filter.Action)
		argIdx++
	}

	countQ := "SELECT COUNT(*) " + baseQ
	var total int
	if err := r.db.GetContext(ctx, &total, countQ, args...); err != nil {
		return nil, 0, err
	}

	limit := filter.Limit
	if limit < 1 {
		limit = 50
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	selectQ := fmt.Sprintf(`
		SELECT id, actor_admin_id, target_user_id, action, details, created_at
		%s
		ORDER BY created_at DESC, id DESC
		LIMIT $%d OFFSET $%d`, baseQ, argIdx, argIdx+1)
	args = append(args, limit, offset)

	var entries []models.AuditEntry
	if err := r.db.SelectContext(ctx, &entries, selectQ, args...); err != nil {
		return nil, 0, err
	}
	if entries == nil {
		entries = []models.AuditEntry{}
	}
	return entries, total, nil
}
