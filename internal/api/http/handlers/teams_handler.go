package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/staff-service/internal/api/dto"
	"github.com/spec-kit/staff-service/internal/service"
)

// TeamsHandler exposes teams and their membership.
type TeamsHandler struct {
	teams *service.TeamService
}

// NewTeamsHandler constructs handler.
func NewTeamsHandler(teams *service.TeamService) *TeamsHandler {
	return &TeamsHandler{teams: teams}
}

// List handles GET /teams.
func (h *TeamsHandler) List(c *fiber.Ctx) error {
	args, err := connectionArgs(c)
	if err != nil {
		return err
	}
	conn, err := h.teams.Teams(c.UserContext(), service.TeamsQuery{ID: optionalQuery(c, "id"), Args: args})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewConnection(conn, dto.NewTeamResponse))
}

// Create handles POST /teams.
func (h *TeamsHandler) Create(c *fiber.Ctx) error {
	var in service.TeamInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	team, err := h.teams.CreateTeam(c.UserContext(), in)
	if err != nil {
		return err
	}
	return data(c, http.StatusCreated, dto.NewTeamResponse(*team))
}

// Update handles PUT /teams/:id.
func (h *TeamsHandler) Update(c *fiber.Ctx) error {
	var in service.UpdateTeamInput
	if err := parseBody(c, &in); err != nil {
		return err
	}
	in.ID = c.Params("id")
	team, err := h.teams.UpdateTeam(c.UserContext(), in)
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewTeamResponse(*team))
}

// Delete handles DELETE /teams/:id.
func (h *TeamsHandler) Delete(c *fiber.Ctx) error {
	team, err := h.teams.DeleteTeam(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewTeamResponse(*team))
}

// AddMember handles POST /teams/:id/members/:userId.
func (h *TeamsHandler) AddMember(c *fiber.Ctx) error {
	team, err := h.teams.AddMember(c.UserContext(), service.TeamMemberInput{TeamID: c.Params("id"), UserID: c.Params("userId")})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewTeamResponse(*team))
}

// RemoveMember handles DELETE /teams/:id/members/:userId.
func (h *TeamsHandler) RemoveMember(c *fiber.Ctx) error {
	team, err := h.teams.RemoveMember(c.UserContext(), service.TeamMemberInput{TeamID: c.Params("id"), UserID: c.Params("userId")})
	if err != nil {
		return err
	}
	return data(c, http.StatusOK, dto.NewTeamResponse(*team))
}
