package dto

import "github.com/spec-kit/staff-service/internal/domain"

// RoleResponse is the wire shape of a role.
type RoleResponse struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Acronym     string `json:"acronym"`
	Description string `json:"description"`
}

// NewRoleResponse converts a domain role.
func NewRoleResponse(r domain.Role) RoleResponse {
	return RoleResponse{ID: r.ID, Name: r.Name, Acronym: r.Acronym, Description: r.Description}
}
