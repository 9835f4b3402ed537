package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

type fakeAdminStore struct {
	admins map[int64]*models.AdminUser
}

func (f *fakeAdminStore) GetByID(_ context.Context, id int64) (*models.AdminUser, error) {
	admin, ok := f.admins[id]
	if !ok {
		return nil, utils.ErrAdminNotFound
	}
	return admin, nil
}

func permTestRouter(store *fakeAdminStore, adminID int64, perm models.Permission) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	mw := NewPermissionMiddleware(store)
	router.GET("/guarded",
		func(c *gin.Context) {
			if adminID != 0 {
				c.Set("admin_id", adminID)
			}
		},
		mw.Require(perm),
		func(c *gin.Context) { c.JSON(200, gin.H{"ok": true}) },
	)
	return router
}

func TestRequirePermissionAllows(t *testing.T) {
	store := &fakeAdminStore{admins: map[int64]*models.AdminUser{
		7: {ID: 7, Role: models.RoleAdmin, IsActive: true},
	}}
	router := permTestRouter(store, 7, models.PermManageCredits)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	assert.Equal(t, 200, w.Code)
}

func TestRequirePermissionDeniesMissingCapability(t *testing.T) {
	store := &fakeAdminStore{admins: map[int64]*models.AdminUser{
		7: {ID: 7, Role: models.RoleSupport, IsActive: true},
	}}
	router := permTestRouter(store, 7, models.PermManageAdmins)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	assert.Equal(t, 403, w.Code)
}

func TestRequirePermissionDeniesInactiveAdmin(t *testing.T) {
	store := &fakeAdminStore{admins: map[int64]*models.AdminUser{
		7: {ID: 7, Role: models.RoleSuperAdmin, IsActive: false},
	}}
	router := permTestRouter(store, 7, models.PermManageAdmins)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	assert.Equal(t, 403, w.Code)
}

func TestRequirePermissionDeniesUnknownAdmin(t *testing.T) {
	store := &fakeAdminStore{admins: map[int64]*models.AdminUser{}}
	router := permTestRouter(store, 99, models.PermViewAuditLog)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	assert.Equal(t, 403, w.Code)
}

func TestRequirePermissionDeniesWithoutIdentity(t *testing.T) {
	store := &fakeAdminStore{admins: map[int64]*models.AdminUser{}}
	router := permTestRouter(store, 0, models.PermViewAuditLog)

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/guarded", nil))
	assert.Equal(t, 401, w.Code)
}
