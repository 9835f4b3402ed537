package service

import (
	"context"
	"errors"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

// impersonationStore is the store surface the session manager needs.
type impersonationStore interface {
	CreateWithAudit(ctx context.Context, session *models.ImpersonationSession, entry *models.AuditEntry) error
	GetByTokenHash(ctx context.Context, tokenHash string) (*models.ImpersonationSession, error)
	EndWithAudit(ctx context.Context, tokenHash string, entry *models.AuditEntry) (bool, error)
	DeleteStale(ctx context.Context, retention time.Duration) (int64, error)
}

// ImpersonationService issues, validates, and ends impersonation sessions.
type ImpersonationService struct {
	store           impersonationStore
	defaultDuration time.Duration
	now             func() time.Time
}

// NewImpersonationService constructs an ImpersonationService.
func NewImpersonationService(store impersonationStore, defaultDuration time.Duration) *ImpersonationService {
	if defaultDuration <= 0 {
		defaultDuration = models.DefaultImpersonationDuration
	}
	return &ImpersonationService{
		store:           store,
		defaultDuration: defaultDuration,
		now:             time.Now,
	}
}

// Issue creates an active session binding actor admin to target user and
// returns the opaque token. duration nil applies the default; zero or
// negative durations produce a session that is expired on arrival.
// The session row and its impersonation_start audit entry commit together.
func (s *ImpersonationService) Issue(ctx context.Context, actorAdminID, targetUserID int64, duration *time.Duration) (string, *models.ImpersonationSession, error) {
	d := s.defaultDuration
	if duration != nil {
		d = *duration
	}

	token, err := utils.GenerateImpersonationToken()
	if err != nil {
		return "", nil, err
	}

	session := &models.ImpersonationSession{
		TokenHash:    utils.HashToken(token),
		AdminID:      actorAdminID,
		TargetUserID: targetUserID,
		ExpiresAt:    s.now().Add(d),
	}
	entry := &models.AuditEntry{
		ActorAdminID: actorAdminID,
		TargetUserID: &targetUserID,
		Action:       models.AuditImpersonationStart,
		Details: models.AuditDetails{
			"durationMinutes": int(d / time.Minute),
			"expiresAt":       session.ExpiresAt.UTC().Format(time.RFC3339),
		},
	}

	if err := s.store.CreateWithAudit(ctx, session, entry); err != nil {
		return "", nil, err
	}

	log.Info().
		Int64("admin_id", actorAdminID).
		Int64("target_user_id", targetUserID).
		Time("expires_at", session.ExpiresAt).
		Msg("Impersonation session issued")

	return token, session, nil
}

// Validate resolves a token to its target user id. It never mutates session
// state. Not-found, ended, and expired outcomes are distinct sentinel errors
// for logging and tests; the HTTP layer collapses all three into "no match".
func (s *ImpersonationService) Validate(ctx context.Context, token string) (int64, error) {
	if token == "" {
		return 0, utils.ErrSessionNotFound
	}

	session, err := s.store.GetByTokenHash(ctx, utils.HashToken(token))
	if err != nil {
		return 0, err
	}
	if !session.IsActive {
		return 0, utils.ErrSessionEnded
	}
	if session.Expired(s.now()) {
		return 0, utils.ErrSessionExpired
	}
	return session.TargetUserID, nil
}

// End transitions an active session to ended, idempotently. It reports
// whether a session was actually ended; ending an unknown or already-ended
// token is not an error. The state flip and its impersonation_end audit
// entry commit together, so a successful End is visible to every subsequent
// Validate.
func (s *ImpersonationService) End(ctx context.Context, actorAdminID int64, token string) (bool, error) {
	if token == "" {
		return false, nil
	}

	hash := utils.HashToken(token)

	// The audit entry needs the target user id, which only the stored
	// session knows.
	session, err := s.store.GetByTokenHash(ctx, hash)
	if err != nil {
		if errors.Is(err, utils.ErrSessionNotFound) {
			return false, nil
		}
		return false, err
	}

	entry := &models.AuditEntry{
		ActorAdminID: actorAdminID,
		TargetUserID: &session.TargetUserID,
		Action:       models.AuditImpersonationEnd,
		Details: models.AuditDetails{
			"issuedBy": session.AdminID,
		},
	}

	ended, err := s.store.EndWithAudit(ctx, hash, entry)
	if err != nil {
		return false, err
	}
	if ended {
		log.Info().
			Int64("admin_id", actorAdminID).
			Int64("target_user_id", session.TargetUserID).
			Msg("Impersonation session ended")
	}
	return ended, nil
}

// Sweep deletes ended and expired sessions older than the retention window.
func (s *ImpersonationService) Sweep(ctx context.Context, retention time.Duration) (int64, error) {
	return s.store.DeleteStale(ctx, retention)
}
