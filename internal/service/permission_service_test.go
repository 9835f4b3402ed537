package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

type fakeAdminLookup struct {
	admins map[int64]*models.AdminUser
	err    error
}

func (f *fakeAdminLookup) GetActiveByUserID(_ context.Context, userID int64) (*models.AdminUser, error) {
	if f.err != nil {
		return nil, f.err
	}
	admin, ok := f.admins[userID]
	if !ok {
		return nil, utils.ErrAdminNotFound
	}
	return admin, nil
}

func TestCheckNonAdmin(t *testing.T) {
	svc := NewPermissionService(&fakeAdminLookup{admins: map[int64]*models.AdminUser{}})

	access := svc.Check(context.Background(), 12345)

	assert.False(t, access.IsAdmin)
	assert.NotNil(t, access.Permissions)
	assert.Empty(t, access.Permissions)
}

func TestCheckLookupFailureIsNonAdmin(t *testing.T) {
	svc := NewPermissionService(&fakeAdminLookup{err: errors.New("connection refused")})

	access := svc.Check(context.Background(), 42)

	assert.False(t, access.IsAdmin)
	assert.Empty(t, access.Permissions)
}

func TestCheckAdmin(t *testing.T) {
	svc := NewPermissionService(&fakeAdminLookup{admins: map[int64]*models.AdminUser{
		42: {ID: 7, UserID: 42, Role: models.RoleAdmin, IsActive: true},
	}})

	access := svc.Check(context.Background(), 42)

	assert.True(t, access.IsAdmin)
	assert.Equal(t, int64(7), access.AdminID)
	assert.Equal(t, models.RoleAdmin, access.Role)
	assert.True(t, access.Permissions.Has(models.PermManageUsers))
	assert.False(t, access.Permissions.Has(models.PermManageAdmins))
}

func TestRequire(t *testing.T) {
	lookup := &fakeAdminLookup{admins: map[int64]*models.AdminUser{
		42: {ID: 7, UserID: 42, Role: models.RoleSupport, IsActive: true},
	}}
	svc := NewPermissionService(lookup)
	ctx := context.Background()

	admin, err := svc.Require(ctx, 42, models.PermImpersonate)
	require.NoError(t, err)
	assert.Equal(t, int64(7), admin.ID)

	_, err = svc.Require(ctx, 42, models.PermManageCredits)
	assert.ErrorIs(t, err, utils.ErrNotAuthorized)

	_, err = svc.Require(ctx, 99, models.PermImpersonate)
	assert.ErrorIs(t, err, utils.ErrNotAuthorized)
}
