package handler

import (
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"github.com/BrandkitHQ/brandkit_api/internal/service"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

// PlanHandler handles the subscription plan catalog endpoints.
type PlanHandler struct {
	planSvc    *service.PlanService
	billingSvc *service.BillingService
}

// NewPlanHandler constructs a PlanHandler.
func NewPlanHandler(planSvc *service.PlanService, billingSvc *service.BillingService) *PlanHandler {
	return &PlanHandler{planSvc: planSvc, billingSvc: billingSvc}
}

// ListPlans handles GET /v1/admin/plans
func (h *PlanHandler) ListPlans(c *gin.Context) {
	plans, err := h.planSvc.List(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve plans")
		return
	}
	utils.Success(c, 200, "Plans retrieved", plans)
}

// SyncPlans handles POST /v1/admin/plans/sync, mirroring Stripe
// products/prices into the local catalog on demand.
func (h *PlanHandler) SyncPlans(c *gin.Context) {
	count, err := h.billingSvc.SyncPlans(c.Request.Context())
	if err != nil {
		log.Error().Err(err).Msg("Manual plan sync failed")
		utils.Error(c, 502, "SYNC_FAILED", "Failed to sync plans from Stripe")
		return
	}
	utils.Success(c, 200, "Plans synced", gin.H{"synced": count})
}
