package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-service/internal/api/dto"
	"github.com/spec-kit/staff-service/internal/service"
)

// RolesHandler exposes the role catalog.
type RolesHandler struct {
	roles *service.RoleService
}

// NewRolesHandler constructs handler.
func NewRolesHandler(roles *service.RoleService) *RolesHandler {
	return &RolesHandler{roles: roles}
}

// List handles GET /roles.
func (h *RolesHandler) List(c *fiber.Ctx) error {
	args, err := connectionArgs(c)
	if err != nil {
		return err
	}
	conn, err := h.roles.Roles(c.UserContext(), service.RolesQuery{
		ID:     optionalQuery(c, "id"),
		UserID: optionalQuery(c, "userId"),
		Args:   args,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewConnection(conn, dto.NewRoleResponse))
}

// Create handles POST /roles.
func (h *RolesHandler) Create(c *fiber.Ctx) error {
	var in service.RoleInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	role, err := h.roles.CreateRole(c.UserContext(), in)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewRoleResponse(*role))
}

// Update handles PUT /roles/:id.
func (h *RolesHandler) Update(c *fiber.Ctx) error {
	var in service.UpdateRoleInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	in.ID = c.Params("id")
	role, err := h.roles.UpdateRole(c.UserContext(), in)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewRoleResponse(*role))
}

// Delete handles DELETE /roles/:id.
func (h *RolesHandler) Delete(c *fiber.Ctx) error {
	role, err := h.roles.DeleteRole(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewRoleResponse(*role))
}
