package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

type fakeAdminUserStore struct {
	byID   map[int64]*models.AdminUser
	nextID int64
}

func newFakeAdminUserStore() *fakeAdminUserStore {
	return &fakeAdminUserStore{byID: map[int64]*models.AdminUser{}}
}

func (f *fakeAdminUserStore) GetByID(_ context.Context, id int64) (*models.AdminUser, error) {
	admin, ok := f.byID[id]
	if !ok {
		return nil, utils.ErrAdminNotFound
	}
	return admin, nil
}

func (f *fakeAdminUserStore) Create(_ context.Context, admin *models.AdminUser) error {
	f.nextID++
	admin.ID = f.nextID
	copied := *admin
	f.byID[admin.ID] = &copied
	return nil
}

func (f *fakeAdminUserStore) Update(_ context.Context, id int64, name string, role models.AdminRole, permissions models.PermissionSet) error {
	admin, ok := f.byID[id]
	if !ok {
		return utils.ErrAdminNotFound
	}
	admin.Name = name
	admin.Role = role
	admin.Permissions = permissions
	return nil
}

func (f *fakeAdminUserStore) Deactivate(_ context.Context, id int64) error {
	admin, ok := f.byID[id]
	if !ok {
		return utils.ErrAdminNotFound
	}
	admin.IsActive = false
	return nil
}

func (f *fakeAdminUserStore) List(_ context.Context) ([]models.AdminUser, error) {
	admins := make([]models.AdminUser, 0, len(f.byID))
	for _, a := range f.byID {
		admins = append(admins, *a)
	}
	return admins, nil
}

func TestCreateAdminDefaultsPermissions(t *testing.T) {
	store := newFakeAdminUserStore()
	auditStore := &fakeAuditStore{}
	svc := NewAdminUserService(store, NewAuditService(auditStore))

	admin, err := svc.Create(context.Background(), 1, CreateAdminParams{
		UserID:   42,
		Email:    "support@brandkit.io",
		Password: "correct horse",
		Name:     "Support Sam",
		Role:     models.RoleSupport,
	})
	require.NoError(t, err)

	assert.True(t, admin.IsActive)
	assert.True(t, admin.Permissions.Has(models.PermImpersonate))
	assert.False(t, admin.Permissions.Has(models.PermManageAdmins))

	// The password is stored hashed, never verbatim.
	assert.NotEqual(t, "correct horse", admin.PasswordHash)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(admin.PasswordHash), []byte("correct horse")))

	require.Len(t, auditStore.entries, 1)
	assert.Equal(t, models.AuditAdminCreated, auditStore.entries[0].Action)
	assert.Equal(t, int64(1), auditStore.entries[0].ActorAdminID)
}

func TestCreateAdminExplicitPermissions(t *testing.T) {
	store := newFakeAdminUserStore()
	svc := NewAdminUserService(store, NewAuditService(&fakeAuditStore{}))

	admin, err := svc.Create(context.Background(), 1, CreateAdminParams{
		UserID:      43,
		Email:       "billing@brandkit.io",
		Password:    "pw",
		Role:        models.RoleSupport,
		Permissions: models.PermissionSet{models.PermManageCredits: true},
	})
	require.NoError(t, err)

	assert.True(t, admin.Permissions.Has(models.PermManageCredits))
	assert.False(t, admin.Permissions.Has(models.PermImpersonate))
}

func TestCreateAdminRejectsBadRole(t *testing.T) {
	svc := NewAdminUserService(newFakeAdminUserStore(), NewAuditService(&fakeAuditStore{}))

	_, err := svc.Create(context.Background(), 1, CreateAdminParams{
		UserID: 44,
		Role:   models.AdminRole("owner"),
	})
	assert.Error(t, err)
}

func TestDeactivateAdminAudits(t *testing.T) {
	store := newFakeAdminUserStore()
	auditStore := &fakeAuditStore{}
	svc := NewAdminUserService(store, NewAuditService(auditStore))

	admin, err := svc.Create(context.Background(), 1, CreateAdminParams{
		UserID: 42, Email: "x@brandkit.io", Password: "pw", Role: models.RoleAdmin,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Deactivate(context.Background(), 1, admin.ID))
	assert.False(t, store.byID[admin.ID].IsActive)

	require.Len(t, auditStore.entries, 2)
	assert.Equal(t, models.AuditAdminDeactivated, auditStore.entries[1].Action)

	assert.ErrorIs(t, svc.Deactivate(context.Background(), 1, 999), utils.ErrAdminNotFound)
}
