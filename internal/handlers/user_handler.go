package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/pawhome/pawhome-api/internal/middleware"
	"github.com/pawhome/pawhome-api/internal/models"
	"github.com/pawhome/pawhome-api/internal/services"
)

// UserHandler handles user profile and administration endpoints
type UserHandler struct {
	users *services.UserService
}

// NewUserHandler creates a new user handler
func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

// UpdateProfile godoc
// @Summary Update the caller's profile
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param input body services.UpdateProfileInput true "Profile fields"
// @Success 200 {object} models.UserResponse
// @Router /users/me [put]
func (h *UserHandler) UpdateProfile(c *gin.Context) {
	var input services.UpdateProfileInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "請確認輸入欄位", "code": services.CodeValidation})
		return
	}

	user, err := h.users.UpdateProfile(c.Request.Context(), middleware.GetUserID(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, user.ToResponse())
}

// List godoc
// @Summary List users
// @Tags admin
// @Produce json
// @Security BearerAuth
// @Param search query string false "Search name, email or phone"
// @Param role query string false "Role filter"
// @Param status query string false "Status filter"
// @Success 200 {object} map[string]interface{}
// @Failure 403 {object} map[string]interface{}
// @Router /admin/users [get]
func (h *UserHandler) List(c *gin.Context) {
	query := listQueryFrom(c)
	if v := c.Query("role"); v != "" {
		query.Filters["role"] = v
	}
	if v := c.Query("status"); v != "" {
		query.Filters["status"] = v
	}

	users, total, err := h.users.List(c.Request.Context(), query)
	if err != nil {
		respondError(c, err)
		return
	}

	items := make([]models.UserResponse, 0, len(users))
	for i := range users {
		items = append(items, users[i].ToResponse())
	}
	c.JSON(http.StatusOK, gin.H{"users": items, "total": total})
}

type statusChangeRequest struct {
	Reason *string `json:"reason"`
}

// Suspend godoc
// @Summary Suspend an account
// @Description Blocks the account from logging in. Audited.
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param input body statusChangeRequest false "Reason"
// @Success 200 {object} models.UserResponse
// @Failure 403 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /admin/users/{id}/suspend [post]
func (h *UserHandler) Suspend(c *gin.Context) {
	h.setStatus(c, true)
}

// Unsuspend godoc
// @Summary Restore a suspended account
// @Tags admin
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "User ID"
// @Param input body statusChangeRequest false "Reason"
// @Success 200 {object} models.UserResponse
// @Failure 403 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /admin/users/{id}/unsuspend [post]
func (h *UserHandler) Unsuspend(c *gin.Context) {
	h.setStatus(c, false)
}

func (h *UserHandler) setStatus(c *gin.Context, suspend bool) {
	id, err := strconv.ParseUint(c.Param("id"), 10, 32)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "無效的編號", "code": services.CodeValidation})
		return
	}

	var req statusChangeRequest
	_ = c.ShouldBindJSON(&req)

	admin := adminFromContext(c)
	var user *models.User
	if suspend {
		user, err = h.users.Suspend(c.Request.Context(), admin, uint(id), req.Reason)
	} else {
		user, err = h.users.Unsuspend(c.Request.Context(), admin, uint(id), req.Reason)
	}
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user.ToResponse())
}
