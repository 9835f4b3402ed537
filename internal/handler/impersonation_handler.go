package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/BrandkitHQ/brandkit_api/internal/middleware"
	"github.com/BrandkitHQ/brandkit_api/internal/service"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

// ImpersonationHandler handles impersonation session endpoints.
type ImpersonationHandler struct {
	impSvc *service.ImpersonationService
}

// NewImpersonationHandler constructs an ImpersonationHandler.
func NewImpersonationHandler(impSvc *service.ImpersonationService) *ImpersonationHandler {
	return &ImpersonationHandler{impSvc: impSvc}
}

type issueImpersonationRequest struct {
	TargetUserID    int64 `json:"targetUserId" binding:"required"`
	DurationMinutes *int  `json:"durationMinutes"`
}

// Issue handles POST /v1/admin/impersonation
func (h *ImpersonationHandler) Issue(c *gin.Context) {
	var req issueImpersonationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	var duration *time.Duration
	if req.DurationMinutes != nil {
		d := time.Duration(*req.DurationMinutes) * time.Minute
		duration = &d
	}

	token, session, err := h.impSvc.Issue(c.Request.Context(), middleware.AdminID(c), req.TargetUserID, duration)
	if err != nil {
		log.Error().Err(err).Int64("target_user_id", req.TargetUserID).Msg("Failed to issue impersonation token")
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to issue impersonation token")
		return
	}

	// The plaintext token is returned exactly once; only its hash is stored.
	utils.Success(c, 201, "Impersonation token issued", gin.H{
		"token":        token,
		"targetUserId": session.TargetUserID,
		"expiresAt":    session.ExpiresAt,
	})
}

type impersonationTokenRequest struct {
	Token string `json:"token" binding:"required"`
}

// Validate handles POST /v1/impersonation/validate. The token itself is
// the credential, so the route is outside the JWT-protected group.
func (h *ImpersonationHandler) Validate(c *gin.Context) {
	var req impersonationTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	targetUserID, err := h.impSvc.Validate(c.Request.Context(), req.Token)
	if err != nil {
		// Not-found, expired and ended all collapse to the same answer so
		// the response never leaks session state to a token holder.
		utils.Error(c, 401, "INVALID_TOKEN", "No matching impersonation session")
		return
	}

	utils.Success(c, 200, "Token valid", gin.H{"targetUserId": targetUserID})
}

// End handles DELETE /v1/admin/impersonation
func (h *ImpersonationHandler) End(c *gin.Context) {
	var req impersonationTokenRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	ended, err := h.impSvc.End(c.Request.Context(), middleware.AdminID(c), req.Token)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to end impersonation session")
		return
	}

	utils.Success(c, 200, "Impersonation session ended", gin.H{"ended": ended})
}
