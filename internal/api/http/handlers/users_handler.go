package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-service/internal/api/dto"
	"github.com/spec-kit/staff-service/internal/service"
)

// UsersHandler exposes the user directory.
type UsersHandler struct {
	users *service.UserService
}

// NewUsersHandler constructs handler.
func NewUsersHandler(users *service.UserService) *UsersHandler {
	return &UsersHandler{users: users}
}

// List handles GET /users.
func (h *UsersHandler) List(c *fiber.Ctx) error {
	args, err := connectionArgs(c)
	if err != nil {
		return err
	}
	withoutTeam, err := boolQuery(c, "withoutTeam")
	if err != nil {
		return err
	}
	conn, err := h.users.Users(c.UserContext(), service.UsersQuery{
		ID:          optionalQuery(c, "id"),
		WithoutTeam: withoutTeam,
		Args:        args,
	})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewConnection(conn, dto.NewUserResponse))
}

// Create handles POST /users.
func (h *UsersHandler) Create(c *fiber.Ctx) error {
	var in service.CreateUserInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	user, err := h.users.CreateUser(c.UserContext(), in)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewUserResponse(*user))
}

// Update handles PUT /users/:id.
func (h *UsersHandler) Update(c *fiber.Ctx) error {
	var in service.UpdateUserInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	in.ID = c.Params("id")
	user, err := h.users.UpdateUser(c.UserContext(), in)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponse(*user))
}

// Delete handles DELETE /users/:id.
func (h *UsersHandler) Delete(c *fiber.Ctx) error {
	user, err := h.users.DeleteUser(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponse(*user))
}

// AssignRole handles POST /users/:id/roles/:roleId.
func (h *UsersHandler) AssignRole(c *fiber.Ctx) error {
	user, err := h.users.AssignRole(c.UserContext(), service.RoleAssignmentInput{UserID: c.Params("id"), RoleID: c.Params("roleId")})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponse(*user))
}

// UnassignRole handles DELETE /users/:id/roles/:roleId.
func (h *UsersHandler) UnassignRole(c *fiber.Ctx) error {
	user, err := h.users.UnassignRole(c.UserContext(), service.RoleAssignmentInput{UserID: c.Params("id"), RoleID: c.Params("roleId")})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewUserResponse(*user))
}

// AvatarUpload handles POST /users/:id/avatar-upload.
func (h *UsersHandler) AvatarUpload(c *fiber.Ctx) error {
	var req dto.AvatarUploadRequest
	if err := parseBody(c, &req); err != nil {
		return err
	}
	upload, err := h.users.AvatarUpload(c.UserContext(), service.AvatarUploadInput{UserID: c.Params("id"), ContentType: req.ContentType})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewAvatarUploadResponse(upload))
}
