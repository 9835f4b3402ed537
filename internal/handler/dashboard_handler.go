package handler

import (
	"github.com/gin-gonic/gin"

	"github.com/BrandkitHQ/brandkit_api/internal/service"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

// DashboardHandler serves console dashboard statistics.
type DashboardHandler struct {
	dashboardSvc *service.DashboardService
}

// NewDashboardHandler constructs a DashboardHandler.
func NewDashboardHandler(dashboardSvc *service.DashboardService) *DashboardHandler {
	return &DashboardHandler{dashboardSvc: dashboardSvc}
}

// GetDashboard handles GET /v1/admin/dashboard
func (h *DashboardHandler) GetDashboard(c *gin.Context) {
	stats, err := h.dashboardSvc.Stats(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve dashboard stats")
		return
	}
	utils.Success(c, 200, "Dashboard stats retrieved", stats)
}
