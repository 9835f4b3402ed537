package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BrandkitHQ/brandkit_api/internal/middleware"
	"github.com/BrandkitHQ/brandkit_api/internal/service"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

// CreditHandler handles credit and plan adjustment endpoints.
type CreditHandler struct {
	creditSvc *service.CreditService
}

// NewCreditHandler constructs a CreditHandler.
func NewCreditHandler(creditSvc *service.CreditService) *CreditHandler {
	return &CreditHandler{creditSvc: creditSvc}
}

type adjustCreditsRequest struct {
	Delta  int    `json:"delta" binding:"required"`
	Reason string `json:"reason" binding:"required"`
}

// AdjustCredits handles POST /v1/admin/users/:id/credits
func (h *CreditHandler) AdjustCredits(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID < 1 {
		utils.Error(c, 400, "INVALID_ID", "User ID must be a positive integer")
		return
	}

	var req adjustCreditsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Delta and reason are required")
		return
	}

	balance, err := h.creditSvc.AdjustCredits(c.Request.Context(), middleware.AdminID(c), userID, req.Delta, req.Reason)
	if err != nil {
		if errors.Is(err, utils.ErrUserNotFound) {
			utils.Error(c, 404, "USER_NOT_FOUND", "User not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to adjust credits")
		return
	}
	utils.Success(c, 200, "Credits adjusted", balance)
}

type changePlanRequest struct {
	PlanName string `json:"planName" binding:"required"`
}

// ChangePlan handles PUT /v1/admin/users/:id/plan
func (h *CreditHandler) ChangePlan(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID < 1 {
		utils.Error(c, 400, "INVALID_ID", "User ID must be a positive integer")
		return
	}

	var req changePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Plan name is required")
		return
	}

	spec, err := h.creditSvc.ChangePlan(c.Request.Context(), middleware.AdminID(c), userID, req.PlanName)
	if err != nil {
		if errors.Is(err, utils.ErrUnknownPlan) {
			utils.Error(c, 400, "UNKNOWN_PLAN", "Unknown plan name")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to change plan")
		return
	}
	utils.Success(c, 200, "Plan changed", spec)
}
