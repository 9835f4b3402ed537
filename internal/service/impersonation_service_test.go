package service

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

// fakeImpersonationStore keeps sessions in memory and records every audit
// entry its transactional methods would have committed.
type fakeImpersonationStore struct {
	sessions map[string]*models.ImpersonationSession
	audit    []models.AuditEntry
	nextID   int64
}

func newFakeImpersonationStore() *fakeImpersonationStore {
	return &fakeImpersonationStore{sessions: map[string]*models.ImpersonationSession{}}
}

func (f *fakeImpersonationStore) CreateWithAudit(_ context.Context, session *models.ImpersonationSession, entry *models.AuditEntry) error {
	f.nextID++
	session.ID = f.nextID
	session.IsActive = true
	session.CreatedAt = time.Now()
	copied := *session
	f.sessions[session.TokenHash] = &copied
	f.audit = append(f.audit, *entry)
	return nil
}

func (f *fakeImpersonationStore) GetByTokenHash(_ context.Context, tokenHash string) (*models.ImpersonationSession, error) {
	session, ok := f.sessions[tokenHash]
	if !ok {
		return nil, utils.ErrSessionNotFound
	}
	copied := *session
	return &copied, nil
}

func (f *fakeImpersonationStore) EndWithAudit(_ context.Context, tokenHash string, entry *models.AuditEntry) (bool, error) {
	session, ok := f.sessions[tokenHash]
	if !ok || !session.IsActive {
		return false, nil
	}
	session.IsActive = false
	now := time.Now()
	session.EndedAt.Time = now
	session.EndedAt.Valid = true
	f.audit = append(f.audit, *entry)
	return true, nil
}

func (f *fakeImpersonationStore) DeleteStale(_ context.Context, _ time.Duration) (int64, error) {
	var deleted int64
	for hash, session := range f.sessions {
		if !session.IsActive || session.Expired(time.Now()) {
			delete(f.sessions, hash)
			deleted++
		}
	}
	return deleted, nil
}

func minutes(n int) *time.Duration {
	d := time.Duration(n) * time.Minute
	return &d
}

func TestIssueThenValidate(t *testing.T) {
	store := newFakeImpersonationStore()
	svc := NewImpersonationService(store, time.Hour)

	token, session, err := svc.Issue(context.Background(), 7, 42, nil)
	require.NoError(t, err)
	require.NotNil(t, session)

	assert.True(t, strings.HasPrefix(token, "imp_"))
	assert.Len(t, token, len("imp_")+64)
	// Only the hash is stored.
	assert.NotContains(t, store.sessions, token)
	assert.Contains(t, store.sessions, utils.HashToken(token))

	targetID, err := svc.Validate(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, int64(42), targetID)
}

func TestValidateUnknownToken(t *testing.T) {
	svc := NewImpersonationService(newFakeImpersonationStore(), time.Hour)

	_, err := svc.Validate(context.Background(), "imp_deadbeef")
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)

	_, err = svc.Validate(context.Background(), "")
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)
}

func TestEndIsIdempotent(t *testing.T) {
	store := newFakeImpersonationStore()
	svc := NewImpersonationService(store, time.Hour)

	token, _, err := svc.Issue(context.Background(), 7, 42, nil)
	require.NoError(t, err)

	ended, err := svc.End(context.Background(), 7, token)
	require.NoError(t, err)
	assert.True(t, ended)

	// Every Validate after a successful End misses.
	_, err = svc.Validate(context.Background(), token)
	assert.ErrorIs(t, err, utils.ErrSessionEnded)

	// A second End is a no-op, not an error, and writes no second entry.
	ended, err = svc.End(context.Background(), 7, token)
	require.NoError(t, err)
	assert.False(t, ended)

	ended, err = svc.End(context.Background(), 7, "imp_never_issued")
	require.NoError(t, err)
	assert.False(t, ended)
}

func TestZeroDurationExpiresOnArrival(t *testing.T) {
	store := newFakeImpersonationStore()
	svc := NewImpersonationService(store, time.Hour)

	token, _, err := svc.Issue(context.Background(), 7, 42, minutes(0))
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), token)
	assert.ErrorIs(t, err, utils.ErrSessionExpired)
}

func TestIssueEndAuditTrail(t *testing.T) {
	store := newFakeImpersonationStore()
	svc := NewImpersonationService(store, time.Hour)

	token, _, err := svc.Issue(context.Background(), 7, 42, minutes(30))
	require.NoError(t, err)

	_, err = svc.Validate(context.Background(), token)
	require.NoError(t, err)

	ended, err := svc.End(context.Background(), 9, token)
	require.NoError(t, err)
	require.True(t, ended)

	// Exactly one start and one end entry, both referencing the target.
	require.Len(t, store.audit, 2)

	start := store.audit[0]
	assert.Equal(t, models.AuditImpersonationStart, start.Action)
	assert.Equal(t, int64(7), start.ActorAdminID)
	require.NotNil(t, start.TargetUserID)
	assert.Equal(t, int64(42), *start.TargetUserID)
	assert.Equal(t, 30, start.Details["durationMinutes"])

	end := store.audit[1]
	assert.Equal(t, models.AuditImpersonationEnd, end.Action)
	assert.Equal(t, int64(9), end.ActorAdminID)
	require.NotNil(t, end.TargetUserID)
	assert.Equal(t, int64(42), *end.TargetUserID)
}

func TestSweepDropsDeadSessions(t *testing.T) {
	store := newFakeImpersonationStore()
	svc := NewImpersonationService(store, time.Hour)

	live, _, err := svc.Issue(context.Background(), 7, 1, nil)
	require.NoError(t, err)
	expired, _, err := svc.Issue(context.Background(), 7, 2, minutes(0))
	require.NoError(t, err)
	endedToken, _, err := svc.Issue(context.Background(), 7, 3, nil)
	require.NoError(t, err)
	_, err = svc.End(context.Background(), 7, endedToken)
	require.NoError(t, err)

	deleted, err := svc.Sweep(context.Background(), 24*time.Hour)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	_, err = svc.Validate(context.Background(), live)
	assert.NoError(t, err)
	_, err = svc.Validate(context.Background(), expired)
	assert.ErrorIs(t, err, utils.ErrSessionNotFound)
}
