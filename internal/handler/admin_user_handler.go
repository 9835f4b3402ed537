package handler

import (
	"errors"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/BrandkitHQ/brandkit_api/internal/middleware"
	"github.com/BrandkitHQ/brandkit_api/internal/models"
	"github.com/BrandkitHQ/brandkit_api/internal/service"
	"github.com/BrandkitHQ/brandkit_api/internal/utils"
)

// AdminUserHandler handles admin account management endpoints.
type AdminUserHandler struct {
	adminSvc *service.AdminUserService
}

// NewAdminUserHandler constructs an AdminUserHandler.
func NewAdminUserHandler(adminSvc *service.AdminUserService) *AdminUserHandler {
	return &AdminUserHandler{adminSvc: adminSvc}
}

// ListAdmins handles GET /v1/admin/admins
func (h *AdminUserHandler) ListAdmins(c *gin.Context) {
	admins, err := h.adminSvc.List(c.Request.Context())
	if err != nil {
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to retrieve admins")
		return
	}
	utils.Success(c, 200, "Admins retrieved", admins)
}

type createAdminRequest struct {
	UserID      int64    `json:"userId" binding:"required"`
	Email       string   `json:"email" binding:"required,email"`
	Password    string   `json:"password" binding:"required,min=8"`
	Name        string   `json:"name" binding:"required"`
	Role        string   `json:"role" binding:"required"`
	Permissions []string `json:"permissions"`
}

// CreateAdmin handles POST /v1/admin/admins
func (h *AdminUserHandler) CreateAdmin(c *gin.Context) {
	var req createAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	role := models.AdminRole(req.Role)
	if !role.Valid() {
		utils.Error(c, 400, "INVALID_ROLE", "Unknown admin role")
		return
	}

	perms, err := parsePermissions(req.Permissions)
	if err != nil {
		utils.Error(c, 400, "INVALID_PERMISSION", err.Error())
		return
	}

	admin, err := h.adminSvc.Create(c.Request.Context(), middleware.AdminID(c), service.CreateAdminParams{
		UserID:      req.UserID,
		Email:       req.Email,
		Password:    req.Password,
		Name:        req.Name,
		Role:        role,
		Permissions: perms,
	})
	if err != nil {
		if errors.Is(err, utils.ErrDuplicateAdmin) {
			utils.Error(c, 409, "DUPLICATE_ADMIN", "Admin already exists for this user or email")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to create admin")
		return
	}
	utils.Success(c, 201, "Admin created", admin)
}

type updateAdminRequest struct {
	Name        string   `json:"name" binding:"required"`
	Role        string   `json:"role" binding:"required"`
	Permissions []string `json:"permissions"`
}

// UpdateAdmin handles PUT /v1/admin/admins/:id
func (h *AdminUserHandler) UpdateAdmin(c *gin.Context) {
	adminID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || adminID < 1 {
		utils.Error(c, 400, "INVALID_ID", "Admin ID must be a positive integer")
		return
	}

	var req updateAdminRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		utils.Error(c, 400, "INVALID_REQUEST", "Invalid request body")
		return
	}

	role := models.AdminRole(req.Role)
	if !role.Valid() {
		utils.Error(c, 400, "INVALID_ROLE", "Unknown admin role")
		return
	}

	perms, err := parsePermissions(req.Permissions)
	if err != nil {
		utils.Error(c, 400, "INVALID_PERMISSION", err.Error())
		return
	}

	admin, err := h.adminSvc.Update(c.Request.Context(), middleware.AdminID(c), adminID, req.Name, role, perms)
	if err != nil {
		if errors.Is(err, utils.ErrAdminNotFound) {
			utils.Error(c, 404, "ADMIN_NOT_FOUND", "Admin not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to update admin")
		return
	}
	utils.Success(c, 200, "Admin updated", admin)
}

// DeactivateAdmin handles DELETE /v1/admin/admins/:id
func (h *AdminUserHandler) DeactivateAdmin(c *gin.Context) {
	adminID, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || adminID < 1 {
		utils.Error(c, 400, "INVALID_ID", "Admin ID must be a positive integer")
		return
	}

	if err := h.adminSvc.Deactivate(c.Request.Context(), middleware.AdminID(c), adminID); err != nil {
		if errors.Is(err, utils.ErrAdminNotFound) {
			utils.Error(c, 404, "ADMIN_NOT_FOUND", "Admin not found")
			return
		}
		utils.Error(c, 500, "INTERNAL_ERROR", "Failed to deactivate admin")
		return
	}
	utils.Success(c, 200, "Admin deactivated", nil)
}

func parsePermissions(names []string) (models.PermissionSet, error) {
	if len(names) == 0 {
		return nil, nil
	}
	perms := make(models.PermissionSet, len(names))
	for _, name := range names {
		perm, err := models.ParsePermission(name)
		if err != nil {
			return nil, err
		}
		perms[perm] = true
	}
	return perms, nil
}
