package dto

import (
	"time"

	"github.com/spec-kit/staff-service/internal/domain"
)

// AbsenceResponse is the wire shape of an absence.
type AbsenceResponse struct {
	ID            string     `json:"id"`
	Title         string     `json:"title"`
	Description   string     `json:"description"`
	StartDateAt   time.Time  `json:"startDateAt"`
	EndDateAt     time.Time  `json:"endDateAt"`
	StartTimeAt   *time.Time `json:"startTimeAt"`
	EndTimeAt     *time.Time `json:"endTimeAt"`
	IsAllDay      bool       `json:"isAllDay"`
	UserID        string     `json:"userId"`
	AbsenceTypeID string     `json:"absenceTypeId"`
}

// NewAbsenceResponse converts a domain absence.
func NewAbsenceResponse(a domain.Absence) AbsenceResponse {
	return AbsenceResponse{
		ID:            a.ID,
		Title:         a.Title,
		Description:   a.Description,
		StartDateAt:   a.StartDateAt,
		EndDateAt:     a.EndDateAt,
		StartTimeAt:   a.StartTimeAt,
		EndTimeAt:     a.EndTimeAt,
		IsAllDay:      a.IsAllDay,
		UserID:        a.UserID,
		AbsenceTypeID: a.AbsenceTypeID,
	}
}

// AbsenceTypeResponse is the wire shape of an absence type.
type AbsenceTypeResponse struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// NewAbsenceTypeResponse converts a domain absence type.
func NewAbsenceTypeResponse(t domain.AbsenceType) AbsenceTypeResponse {
	return AbsenceTypeResponse{ID: t.ID, Name: t.Name}
}
