package controller

import (
	"github.com/gin-gonic/gin"

	"store_rating/internal/api/dto"
	"store_rating/internal/service"
)

// ==================== UserController ====================

// UserController admin account management. Every route is gated on manage_users.
type UserController struct {
	userService *service.UserService
}

func NewUserController(userService *service.UserService) *UserController {
	return &UserController{userService: userService}
}

// ListUsers
// @Summary List accounts
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param name query string false "name contains"
// @Param email query string false "email contains"
// @Param address query string false "address contains"
// @Param role query string false "exact role"
// @Param sort_by query string false "id|name|email|address|role|created_at"
// @Param sort_order query string false "asc|desc"
// @Param page query int false "page" default(1)
// @Param page_size query int false "page size" default(20)
// @Success 200 {object} dto.UserListResponse
// @Failure 403 {object} map[string]interface{}
// @Router /users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	var req dto.UserListRequest
	if err := ctx.ShouldBindQuery(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	resp, err := c.userService.ListUsers(ctx.Request.Context(), &req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	ok(ctx, "ok", resp)
}

// CreateUser
// @Summary Create an account of any role
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.CreateUserRequest true "account"
// @Success 201 {object} dto.UserInfo
// @Failure 400 {object} map[string]interface{}
// @Failure 409 {object} map[string]interface{}
// @Router /users [post]
func (c *UserController) CreateUser(ctx *gin.Context) {
	var req dto.CreateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	user, err := c.userService.CreateUser(ctx.Request.Context(), &req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	created(ctx, "user created", user)
}

// GetUser
// @Summary Account detail
// @Description Store owners include their stores and the average across them.
// @Tags Users
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Success 200 {object} dto.UserDetail
// @Failure 404 {object} map[string]interface{}
// @Router /users/{id} [get]
func (c *UserController) GetUser(ctx *gin.Context) {
	id, valid := parseID(ctx, "id")
	if !valid {
		return
	}

	user, err := c.userService.GetUser(ctx.Request.Context(), id)
	if err != nil {
		handleError(ctx, err)
		return
	}
	ok(ctx, "ok", user)
}

// UpdateUser
// @Summary Update name, address or role
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Param request body dto.UpdateUserRequest true "changes"
// @Success 200 {object} dto.UserInfo
// @Failure 400 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /users/{id} [put]
func (c *UserController) UpdateUser(ctx *gin.Context) {
	id, valid := parseID(ctx, "id")
	if !valid {
		return
	}

	var req dto.UpdateUserRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	user, err := c.userService.UpdateUser(ctx.Request.Context(), id, &req)
	if err != nil {
		handleError(ctx, err)
		return
	}
	ok(ctx, "user updated", user)
}

// ResetPassword
// @Summary Reset an account password
// @Tags Users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path int true "user id"
// @Param request body dto.ResetPasswordRequest true "new password"
// @Success 200 {object} map[string]interface{}
// @Failure 404 {object} map[string]interface{}
// @Router /users/{id}/password [put]
func (c *UserController) ResetPassword(ctx *gin.Context) {
	id, valid := parseID(ctx, "id")
	if !valid {
		return
	}

	var req dto.ResetPasswordRequest
	if err := ctx.ShouldBindJSON(&req); err != nil {
		badRequest(ctx, err)
		return
	}

	if err := c.userService.ResetPassword(ctx.Request.Context(), id, req.NewPassword); err != nil {
		handleError(ctx, err)
		return
	}
	ok(ctx, "password reset", nil)
}
