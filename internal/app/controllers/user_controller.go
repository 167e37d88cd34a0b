package controllers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/yigit/scholarhub/internal/app/models/dto"
	"github.com/yigit/scholarhub/internal/app/services"
	"github.com/yigit/scholarhub/internal/middleware"
	"github.com/yigit/scholarhub/internal/pkg/helpers"
)

// UserController handles user-related operations
type UserController struct {
	userService services.UserService
}

// NewUserController creates a new user controller
func NewUserController(userService services.UserService) *UserController {
	return &UserController{
		userService: userService,
	}
}

// UpsertUser records a login of the verified caller
// @Summary Register or refresh the current user
// @Description Creates the user as a student on first login, otherwise updates lastLoggedIn
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param request body dto.UpsertUserRequest false "Profile"
// @Success 201 {object} dto.APIResponse{data=models.User} "User created"
// @Success 200 {object} dto.APIResponse{data=models.User} "User refreshed"
// @Failure 400 {object} dto.ErrorResponse "Invalid email"
// @Failure 401 {object} dto.ErrorResponse "Unauthorized"
// @Router /users [post]
func (c *UserController) UpsertUser(ctx *gin.Context) {
	identity, ok := middleware.CurrentIdentity(ctx)
	if !ok {
		errorDetail := dto.NewErrorDetail(dto.ErrorCodeUnauthorized, "Authentication required")
		ctx.JSON(http.StatusUnauthorized, dto.NewErrorResponse(errorDetail))
		return
	}

	var req dto.UpsertUserRequest
	if ctx.Request.ContentLength > 0 && !middleware.BindJSON(ctx, &req) {
		return
	}
	name := req.Name
	if name == "" {
		name = identity.Name
	}
	photo := req.PhotoURL
	if photo == "" {
		photo = identity.Picture
	}

	user, created, err := c.userService.UpsertUser(ctx.Request.Context(), identity.Email, name, photo)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	ctx.JSON(status, dto.NewSuccessResponse(user))
}

// GetUserRole returns the role stored for an email
// @Summary Get user role
// @Tags users
// @Produce json
// @Param email path string true "User email"
// @Success 200 {object} dto.APIResponse{data=dto.RoleResponse} "Role"
// @Failure 400 {object} dto.ErrorResponse "Invalid email"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /user-role/{email} [get]
func (c *UserController) GetUserRole(ctx *gin.Context) {
	email, ok := middleware.RequireParam(ctx, "email")
	if !ok {
		return
	}

	user, err := c.userService.GetUserByEmail(ctx.Request.Context(), email)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.RoleResponse{Email: user.Email, Role: string(user.Role)}))
}

// ListUsers pages through the user directory
// @Summary List users (admin)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param role query string false "student, moderator, admin or all"
// @Param page query int false "Page number" default(1)
// @Param size query int false "Page size" default(10)
// @Success 200 {object} dto.APIResponse{data=dto.PaginatedResponse{items=[]models.User}} "Users"
// @Failure 400 {object} dto.ErrorResponse "Unknown role"
// @Failure 403 {object} dto.ErrorResponse "Forbidden"
// @Router /admin/users [get]
func (c *UserController) ListUsers(ctx *gin.Context) {
	page, size := helpers.ParsePaginationParams(ctx)

	users, total, err := c.userService.ListUsers(ctx.Request.Context(), ctx.Query("role"), page, size)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewSuccessResponse(dto.PaginatedResponse{
		Items:      users,
		Pagination: helpers.NewPaginationInfo(total, page, size),
	}))
}

// UpdateRole changes a user's role
// @Summary Change user role (admin)
// @Tags users
// @Accept json
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Param request body dto.UpdateRoleRequest true "Role"
// @Success 200 {object} dto.APIResponse{data=models.User} "Role updated"
// @Failure 400 {object} dto.ErrorResponse "Unknown role"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id}/role [patch]
func (c *UserController) UpdateRole(ctx *gin.Context) {
	id, ok := middleware.RequireParam(ctx, "id")
	if !ok {
		return
	}
	var req dto.UpdateRoleRequest
	if !middleware.BindJSON(ctx, &req) {
		return
	}

	user, err := c.userService.UpdateRole(ctx.Request.Context(), id, req.Role)
	if err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("Role updated", user))
}

// DeleteUser removes a user
// @Summary Delete user (admin)
// @Tags users
// @Produce json
// @Security BearerAuth
// @Param id path string true "User ID"
// @Success 200 {object} dto.APIResponse "User deleted"
// @Failure 404 {object} dto.ErrorResponse "User not found"
// @Router /users/{id} [delete]
func (c *UserController) DeleteUser(ctx *gin.Context) {
	id, ok := middleware.RequireParam(ctx, "id")
	if !ok {
		return
	}

	if err := c.userService.DeleteUser(ctx.Request.Context(), id); err != nil {
		middleware.HandleAPIError(ctx, err)
		return
	}

	ctx.JSON(http.StatusOK, dto.NewMessageResponse("User deleted", nil))
}
