package handler

import (
	"context"
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/repository"
	"github.com/BrandkitHQ/brandkit_api/internal/service"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

type diagAdminLookup interface {
	GetActiveByUserID(ctx context.Context, userID int64) (*models.AdminUser, error)
}

// DiagnosticsHandler serves the admin test page aggregate.
type DiagnosticsHandler struct {
	diagSvc  *service.DiagnosticsService
	permSvc  *service.PermissionService
	adminSvc *service.AdminUserService
	auditSvc *service.AuditService
	admins   diagAdminLookup
}

// NewDiagnosticsHandler constructs a DiagnosticsHandler.
func NewDiagnosticsHandler(
	diagSvc *service.DiagnosticsService,
	permSvc *service.PermissionService,
	adminSvc *service.AdminUserService,
	auditSvc *service.AuditService,
	admins diagAdminLookup,
) *DiagnosticsHandler {
	return &DiagnosticsHandler{
		diagSvc:  diagSvc,
		permSvc:  permSvc,
		adminSvc: adminSvc,
		auditSvc: auditSvc,
		admins:   admins,
	}
}

// RunTests handles GET /v1/admin/tests. The page exercises the platform's
// admin functions against a given user id and reports every result, so a
// single failing dependency never blanks the whole response.
func (h *DiagnosticsHandler) RunTests(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Query("userId"), 10, 64)
	if err != nil || userID < 1 {
		utils.Error(c, 400, "INVALID_ID", "userId must be a positive integer")
		return
	}

	ctx := c.Request.Context()

	results := h.diagSvc.Run(ctx, userID)
	access := h.permSvc.Check(ctx, userID)

	var dbPermissions models.PermissionSet
	if admin, err := h.admins.GetActiveByUserID(ctx, userID); err == nil {
		dbPermissions = admin.Permissions
	} else if !errors.Is(err, utils.ErrAdminNotFound) {
		log.Warn().Err(err).Int64("user_id", userID).Msg("Admin row lookup failed on test page")
	}

	adminUsers, err := h.adminSvc.List(ctx)
	if err != nil {
		log.Warn().Err(err).Msg("Admin list failed on test page")
	}

	auditLog, _, err := h.auditSvc.List(ctx, &repository.AuditFilter{Limit: 20})
	if err != nil {
		log.Warn().Err(err).Msg("Audit list failed on test page")
	}

	utils.Success(c, 200, "Diagnostics complete", gin.H{
		"functionResults": results,
		"permissions":     access,
		"dbPermissions":   dbPermissions,
		"adminUsers":      adminUsers,
		"auditLog":        auditLog,
	})
}
