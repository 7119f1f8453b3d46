package dto

import (
	"time"

	"github.com/spec-kit/staff-service/internal/domain"
)

// TeamMemberResponse is a member listed on a team.
type TeamMemberResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// TeamResponse is the wire shape of a team.
type TeamResponse struct {
	ID        string               `json:"id"`
	Name      string               `json:"name"`
	ManagerID *string              `json:"managerId"`
	Members   []TeamMemberResponse `json:"members"`
	CreatedAt time.Time            `json:"createdAt"`
	UpdatedAt time.Time            `json:"updatedAt"`
}

// NewTeamResponse converts a domain team.
func NewTeamResponse(t domain.Team) TeamResponse {
	members := make([]TeamMemberResponse, 0, len(t.Members))
	for _, m := range t.Members {
		members = append(members, TeamMemberResponse{ID: m.ID, Name: m.Name})
	}
	return TeamResponse{
		ID:        t.ID,
		Name:      t.Name,
		ManagerID: t.ManagerID,
		Members:   members,
		CreatedAt: t.CreatedAt,
		UpdatedAt: t.UpdatedAt,
	}
}
