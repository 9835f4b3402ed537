package handler

import (
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BrandkitHQ/brandkit_api/internal/repository"
	"github.com/BrandkitHQ/brandkit_api/internal/service"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

// AuditHandler exposes the audit trail to the console.
type AuditHandler struct {
	auditSvc *service.AuditService
}

// NewAuditHandler constructs an AuditHandler.
func NewAuditHandler(auditSvc *service.AuditService) *AuditHandler {
	return &AuditHandler{auditSvc: auditSvc}
}

// ListAuditLog handles GET /v1/admin/audit
func (h *AuditHandler) ListAuditLog(c *gin.Context) {
	var filter repository.AuditFilter

	if actor := c.Query("actorAdminId"); actor != "" {
		if id, err := strconv.ParseInt(actor, 10, 64); err == nil {
			filter.ActorAdminID = &id
		}
	}
	if target := c.Query("targetUserId"); target != "" {
		if id, err := strconv.ParseInt(target, 10, 64); err == nil {
			filter.TargetUserID = &id
		}
	}
	if action := c.Query("action"); action != "" {
		filter.Action = &action
	}

	filter.Limit = 50
	if limit := c.Query("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil && l > 0 {
			filter.Limit = l
		}
	}
	if offset := c.Query("offset"); offset != "" {
		if o, err := strconv.Atoi(offset); err == nil && o >= 0 {
			filter.Offset = o
		}
	}

	entries, total, err := h.auditSvc.List(c.Request.Context(), &filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve audit log")
		return
	}

	page := filter.Offset/filter.Limit + 1
	utils.SuccessWithPagination(c, 200, "Audit log retrieved", entries, page, filter.Limit, total)
}
