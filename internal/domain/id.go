package domain

import "github.com/google/uuid"

// NewID returns a time-ordered identifier, so ordering by id follows creation order.
func NewID() string {
	return uuid.Must(uuid.NewV7()).String()
}
