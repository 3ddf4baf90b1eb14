package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/praaneshanandan/Investment-Approval/internal/core/ports"
)

// UserHandler handles HTTP requests for hierarchy administration.
type UserHandler struct {
	service ports.UserService
}

func NewUserHandler(service ports.UserService) *UserHandler {
	return &UserHandler{service: service}
}

type setRoleRequest struct {
	UserID   string `json:"user_id"   validate:"required"`
	RoleName string `json:"role_name" validate:"required"`
}

type setManagerRequest struct {
	UserID string `json:"user_id" validate:"required"`
	// ManagerID empty clears the manager reference.
	ManagerID string `json:"manager_id"`
}

// List handles GET /v1/users. Admins see every user, managers see their
// direct subordinates.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  errorResponse
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	users, err := h.service.ListUsers(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Subordinates handles GET /v1/users/subordinates.
//
// @Summary      List the caller's direct subordinates
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   domain.User
// @Failure      403  {object}  errorResponse
// @Router       /v1/users/subordinates [get]
func (h *UserHandler) Subordinates(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	users, err := h.service.Subordinates(c.Request().Context(), username)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, users)
}

// Get handles GET /v1/users/:id.
//
// @Summary      Get a user by id
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Param        id   path      string  true  "User id"
// @Success      200  {object}  domain.User
// @Failure      404  {object}  errorResponse
// @Router       /v1/users/{id} [get]
func (h *UserHandler) Get(c echo.Context) error {
	user, err := h.service.GetUserByID(c.Request().Context(), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// SetRole handles PUT /v1/users/role.
//
// @Summary      Replace a user's role set with a single role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      setRoleRequest  true  "Target user and new role"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Router       /v1/users/role [put]
func (h *UserHandler) SetRole(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req setRoleRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.SetRole(c.Request().Context(), username, req.UserID, req.RoleName)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}

// SetManager handles PUT /v1/users/manager. An empty manager_id clears the
// target's manager reference.
//
// @Summary      Assign or clear a user's manager
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      setManagerRequest  true  "Target user and manager"
// @Success      200   {object}  domain.User
// @Failure      400   {object}  errorResponse
// @Failure      403   {object}  errorResponse
// @Failure      404   {object}  errorResponse
// @Failure      422   {object}  errorResponse
// @Router       /v1/users/manager [put]
func (h *UserHandler) SetManager(c echo.Context) error {
	username, err := ctxUsername(c)
	if err != nil {
		return err
	}

	var req setManagerRequest
	if err := c.Bind(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, "invalid payload")
	}
	if err := c.Validate(&req); err != nil {
		return echo.NewHTTPError(http.StatusBadRequest, err.Error())
	}

	user, err := h.service.SetManager(c.Request().Context(), username, req.UserID, req.ManagerID)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, user)
}
