package domain

import "time"

// TeamMember is the projection of a User listed on a team.
type TeamMember struct {
	ID   string
	Name string
}

// Team groups users under a manager. It references its members, it does not own them.
// ManagerID is nil only after the managing user was deleted.
type Team struct {
	ID        string
	Name      string
	ManagerID *string
	Members   []TeamMember
	CreatedAt time.Time
	UpdatedAt time.Time
}
