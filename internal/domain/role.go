package domain

import "time"

// Role is a job role that can be assigned to users.
type Role struct {
	ID          string
	Name        string
	Acronym     string
	Description string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}
