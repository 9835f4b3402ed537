package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BrandkitHQ/brandkit_api/internal/repository"
	"github.com/BrandkitHQ/brandkit_api/internal/service"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

// UserHandler handles end-user management endpoints for the console.
type UserHandler struct {
	userSvc *service.UserService
}

// NewUserHandler constructs a UserHandler.
func NewUserHandler(userSvc *service.UserService) *UserHandler {
	return &UserHandler{userSvc: userSvc}
}

// ListUsers handles GET /v1/admin/users
func (h *UserHandler) ListUsers(c *gin.Context) {
	var filter repository.UserFilter

	if search := c.Query("search"); search != "" {
		filter.Search = &search
	}
	if page := c.Query("page"); page != "" {
		if p, err := strconv.Atoi(page); err == nil {
			filter.Page = p
		}
	}
	if limit := c.Query("limit"); limit != "" {
		if l, err := strconv.Atoi(limit); err == nil {
			filter.Limit = l
		}
	}

	result, err := h.userSvc.List(c.Request.Context(), &filter)
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve users")
		return
	}
	utils.SuccessWithPagination(c, 200, "Users retrieved", result.Users, result.Page, result.Limit, result.TotalItems)
}

// GetUser handles GET /v1/admin/users/:id
func (h *UserHandler) GetUser(c *gin.Context) {
	userID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || userID < 1 {
		utils.Error(c, 400, "INVALID_ID", "User ID must be a positive integer")
		return
	}

	detail, err := h.userSvc.Detail(c.Request.Context(), userID)
	if err != nil {
		if errors.Is(err, utils.ErrUserNotFound) {
			utils.Error(c, 404, "USER_NOT_FOUND", "User not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve user")
		return
	}
	utils.Success(c, 200, "User retrieved", detail)
}
