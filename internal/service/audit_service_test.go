package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/repository"
)

type fakeAuditStore struct {
	entries   []models.AuditEntry
	insertErr error
	lastQuery *repository.AuditFilter
}

func (f *fakeAuditStore) Insert(_ context.Context, entry *models.AuditEntry) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	f.entries = append(f.entries, *entry)
	return nil
}

func (f *fakeAuditStore) List(_ context.Context, filter *repository.AuditFilter) ([]models.AuditEntry, int, error) {
	f.lastQuery = filter
	limit := filter.Limit
	if limit > len(f.entries) {
		limit = len(f.entries)
	}
	return f.entries[:limit], len(f.entries), nil
}

func TestRecordAppendsEntry(t *testing.T) {
	store := &fakeAuditStore{}
	svc := NewAuditService(store)

	target := int64(42)
	svc.Record(context.Background(), 7, &target, models.AuditCreditsAdjusted, models.AuditDetails{"delta": -5})

	require.Len(t, store.entries, 1)
	assert.Equal(t, int64(7), store.entries[0].ActorAdminID)
	assert.Equal(t, models.AuditCreditsAdjusted, store.entries[0].Action)
}

func TestRecordSwallowsInsertFailure(t *testing.T) {
	store := &fakeAuditStore{insertErr: errors.New("disk full")}
	svc := NewAuditService(store)

	// Must not panic and must not propagate.
	svc.Record(context.Background(), 7, nil, models.AuditUsageReset, nil)
	assert.Empty(t, store.entries)
}

func TestListClampsPagination(t *testing.T) {
	store := &fakeAuditStore{}
	for i := 0; i < 30; i++ {
		store.entries = append(store.entries, models.AuditEntry{ID: int64(i + 1)})
	}
	svc := NewAuditService(store)
	ctx := context.Background()

	entries, total, err := svc.List(ctx, &repository.AuditFilter{Limit: 20})
	require.NoError(t, err)
	assert.Len(t, entries, 20)
	assert.Equal(t, 30, total)

	// Zero and negative limits get the default.
	_, _, err = svc.List(ctx, &repository.AuditFilter{})
	require.NoError(t, err)
	assert.Equal(t, 50, store.lastQuery.Limit)

	// Oversized limits are capped.
	_, _, err = svc.List(ctx, &repository.AuditFilter{Limit: 10000, Offset: -3})
	require.NoError(t, err)
	assert.Equal(t, MaxAuditPageSize, store.lastQuery.Limit)
	assert.Equal(t, 0, store.lastQuery.Offset)
}
