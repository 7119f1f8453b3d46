package domain

import "time"

// Profile is the closed role classification of a user.
type Profile string

const (
	ProfileAdmin      Profile = "ADMIN"
	ProfileManager    Profile = "MANAGER"
	ProfileTeamMember Profile = "TEAM_MEMBER"
)

// Valid reports whether p is one of the known profiles.
func (p Profile) Valid() bool {
	switch p {
	case ProfileAdmin, ProfileManager, ProfileTeamMember:
		return true
	}
	return false
}

// User is a staff member tracked by the directory.
type User struct {
	ID        string
	Name      string
	Email     string
	Profile   Profile
	Image     *string
	TeamID    *string
	Roles     []Role
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasTeam reports whether the user currently belongs to a team.
func (u *User) HasTeam() bool {
	return u.TeamID != nil && *u.TeamID != ""
}
