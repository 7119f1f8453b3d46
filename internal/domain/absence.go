package domain

import "time"

// AbsenceType classifies absences (vacation, sick leave...).
type AbsenceType struct {
	ID        string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Absence is a period during which a user is unavailable.
type Absence struct {
	ID            string
	Title         string
	Description   string
	StartDateAt   time.Time
	EndDateAt     time.Time
	StartTimeAt   *time.Time
	EndTimeAt     *time.Time
	IsAllDay      bool
	UserID        string
	AbsenceTypeID string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}
