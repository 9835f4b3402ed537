package service

import (
	"context"

	"github.com/rs/zerolog/log"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/repository"
)

// auditStore is the store surface the audit logger needs.
type auditStore interface {
	Insert(ctx context.Context, entry *models.AuditEntry) error
	List(ctx context.Context, filter *repository.AuditFilter) ([]models.AuditEntry, int, error)
}

// AuditService appends and queries the admin audit log.
type AuditService struct {
	store auditStore
}

// NewAuditService constructs an AuditService.
func NewAuditService(store auditStore) *AuditService {
	return &AuditService{store: store}
}

// Record appends one audit entry, best-effort. A failed write is logged to
// the diagnostic log and swallowed; callers never fail because auditing did.
// Mutations that must not be under-audited go through the repositories'
// transactional paths instead of this method.
func (s *AuditService) Record(ctx context.Context, actorAdminID int64, targetUserID *int64, action string, details models.AuditDetails) {
	entry := &models.AuditEntry{
		ActorAdminID: actorAdminID,
		TargetUserID: targetUserID,
		Action:       action,
		Details:      details,
	}
	if err := s.store.Insert(ctx, entry); err != nil {
		log.Error().Err(err).
			Int64("actor_admin_id", actorAdminID).
			Str("action", action).
			Msg("Failed to write audit entry")
	}
}

// MaxAuditPageSize caps how many entries one query may return.
const MaxAuditPageSize = 200

// List returns audit entries newest-first with equality filters and
// offset/limit pagination.
func (s *AuditService) List(ctx context.Context, filter *repository.AuditFilter) ([]models.AuditEntry, int, error) {
	if filter.Limit < 1 {
		filter.Limit = 50
	}
	if filter.Limit > MaxAuditPageSize {
		filter.Limit = MaxAuditPageSize
	}
	if filter.Offset < 0 {
		filter.Offset = 0
	}
	return s.store.List(ctx, filter)
}
