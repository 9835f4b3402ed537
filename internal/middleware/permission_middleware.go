package middleware

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

// adminStore loads admin records for capability checks.
type adminStore interface {
	GetByID(ctx context.Context, id int64) (*models.AdminUser, error)
}

// PermissionMiddleware gates admin routes on the caller's capability set.
// It runs after the JWT middleware, which puts the admin id in context.
type PermissionMiddleware struct {
	admins adminStore
}

// NewPermissionMiddleware constructs a PermissionMiddleware.
func NewPermissionMiddleware(admins adminStore) *PermissionMiddleware {
	return &PermissionMiddleware{admins: admins}
}

// Require returns a gin middleware that rejects callers missing the
// permission. Deactivated admins are rejected regardless of their stored
// capability set.
func (m *PermissionMiddleware) Require(perm models.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		adminID := AdminID(c)
		if adminID == 0 {
			utils.Error(c, 401, "UNAUTHORIZED", "Missing admin identity")
			c.Abort()
			return
		}

		admin, err := m.admins.GetByID(c.Request.Context(), adminID)
		if err != nil {
			log.Warn().Err(err).Int64("admin_id", adminID).Msg("Admin lookup failed in permission check")
			utils.Error(c, 403, "FORBIDDEN", "Insufficient permissions")
			c.Abort()
			return
		}
		if !admin.IsActive || !admin.EffectivePermissions().Has(perm) {
			utils.Error(c, 403, "FORBIDDEN", "Insufficient permissions")
			c.Abort()
			return
		}

		c.Set("admin_role", string(admin.Role))
		c.Next()
	}
}
