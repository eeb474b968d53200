package handler

import (
	"net/http"

	"github.com/labstack/echo/v4"

	"github.com/flujo/pos-system/internal/core/ports"
)

type UserHandler struct {
	service ports.CatalogService
}

func NewUserHandler(service ports.CatalogService) *UserHandler {
	return &UserHandler{service: service}
}

// List handles GET /v1/users.
//
// @Summary      List users
// @Tags         users
// @Produce      json
// @Security     BearerAuth
// @Success      200  {array}   userResponse
// @Failure      403  {object}  map[string]string
// @Router       /v1/users [get]
func (h *UserHandler) List(c echo.Context) error {
	users, err := h.service.ListUsers(c.Request().Context())
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponses(users))
}

// Create handles POST /v1/users.
//
// @Summary      Create a user
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        body  body      userRequest  true  "User"
// @Success      201   {object}  userResponse
// @Failure      400   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/users [post]
func (h *UserHandler) Create(c echo.Context) error {
	var req userRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	u, err := h.service.CreateUser(c.Request().Context(), toUserInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusCreated, toUserResponse(*u))
}

// Update handles PUT /v1/users/:id.
//
// @Summary      Replace a user's name, email and role
// @Tags         users
// @Accept       json
// @Produce      json
// @Security     BearerAuth
// @Param        id    path      string       true  "User id"
// @Param        body  body      userRequest  true  "User"
// @Success      200   {object}  userResponse
// @Failure      404   {object}  map[string]string
// @Failure      409   {object}  map[string]string
// @Failure      422   {object}  map[string]string
// @Router       /v1/users/{id} [put]
func (h *UserHandler) Update(c echo.Context) error {
	var req userRequest
	if err := bindAndValidate(c, &req); err != nil {
		return err
	}

	u, err := h.service.UpdateUser(c.Request().Context(), c.Param("id"), toUserInput(req))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, toUserResponse(*u))
}

// Delete handles DELETE /v1/users/:id.
//
// @Summary      Delete a user
// @Description  Tickets keep the seller name they were issued with.
// @Tags         users
// @Security     BearerAuth
// @Param        id  path  string  true  "User id"
// @Success      204
// @Failure      404  {object}  map[string]string
// @Router       /v1/users/{id} [delete]
func (h *UserHandler) Delete(c echo.Context) error {
	if err := h.service.DeleteUser(c.Request().Context(), c.Param("id")); err != nil {
		return err
	}
	return c.NoContent(http.StatusNoContent)
}
