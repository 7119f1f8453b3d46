package events

import (
	"time"

	"github.com/google/uuid"

	"github.com/spec-kit/staff-service/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventUserCreated        EventType = "user.created"
	EventUserUpdated        EventType = "user.updated"
	EventUserDeleted        EventType = "user.deleted"
	EventUserRoleAssigned   EventType = "user.role_assigned"
	EventUserRoleUnassigned EventType = "user.role_unassigned"

	EventTeamCreated       EventType = "team.created"
	EventTeamUpdated       EventType = "team.updated"
	EventTeamDeleted       EventType = "team.deleted"
	EventTeamMemberAdded   EventType = "team.member_added"
	EventTeamMemberRemoved EventType = "team.member_removed"

	EventRoleCreated EventType = "role.created"
	EventRoleUpdated EventType = "role.updated"
	EventRoleDeleted EventType = "role.deleted"

	EventAbsenceCreated EventType = "absence.created"
	EventAbsenceUpdated EventType = "absence.updated"
	EventAbsenceDeleted EventType = "absence.deleted"

	EventAbsenceTypeCreated EventType = "absence_type.created"
	EventAbsenceTypeUpdated EventType = "absence_type.updated"
	EventAbsenceTypeDeleted EventType = "absence_type.deleted"
)

// AllEventTypes lists every event the services emit.
var AllEventTypes = []EventType{
	EventUserCreated, EventUserUpdated, EventUserDeleted, EventUserRoleAssigned, EventUserRoleUnassigned,
	EventTeamCreated, EventTeamUpdated, EventTeamDeleted, EventTeamMemberAdded, EventTeamMemberRemoved,
	EventRoleCreated, EventRoleUpdated, EventRoleDeleted,
	EventAbsenceCreated, EventAbsenceUpdated, EventAbsenceDeleted,
	EventAbsenceTypeCreated, EventAbsenceTypeUpdated, EventAbsenceTypeDeleted,
}

// Event represents a committed change to the directory.
type Event struct {
	ID        string    `json:"id"`
	Type      EventType `json:"type"`
	EntityID  string    `json:"entity_id"`
	Timestamp time.Time `json:"timestamp"`
	Payload   any       `json:"payload"`
}

// New stamps an event with an id and the current time.
func New(eventType EventType, entityID string, payload any) Event {
	return Event{
		ID:        uuid.NewString(),
		Type:      eventType,
		EntityID:  entityID,
		Timestamp: time.Now().UTC(),
		Payload:   payload,
	}
}

// UserPayload payload.
type UserPayload struct {
	Name    string         `json:"name"`
	Email   string         `json:"email"`
	Profile domain.Profile `json:"profile"`
	TeamID  *string        `json:"team_id,omitempty"`
}

// TeamPayload payload.
type TeamPayload struct {
	Name      string  `json:"name"`
	ManagerID *string `json:"manager_id"`
}

// TeamMemberPayload payload.
type TeamMemberPayload struct {
	TeamID string `json:"team_id"`
	UserID string `json:"user_id"`
}

// RolePayload payload.
type RolePayload struct {
	Name    string `json:"name"`
	Acronym string `json:"acronym"`
}

// RoleAssignmentPayload payload.
type RoleAssignmentPayload struct {
	UserID string `json:"user_id"`
	RoleID string `json:"role_id"`
}

// AbsencePayload payload.
type AbsencePayload struct {
	UserID        string    `json:"user_id"`
	AbsenceTypeID string    `json:"absence_type_id"`
	StartDateAt   time.Time `json:"start_date_at"`
	EndDateAt     time.Time `json:"end_date_at"`
	IsAllDay      bool      `json:"is_all_day"`
}

// AbsenceTypePayload payload.
type AbsenceTypePayload struct {
	Name string `json:"name"`
}

func UserEvent(t EventType, u *domain.User) Event {
	return New(t, u.ID, UserPayload{Name: u.Name, Email: u.Email, Profile: u.Profile, TeamID: u.TeamID})
}

func TeamEvent(t EventType, team *domain.Team) Event {
	return New(t, team.ID, TeamPayload{Name: team.Name, ManagerID: team.ManagerID})
}

func RoleEvent(t EventType, r *domain.Role) Event {
	return New(t, r.ID, RolePayload{Name: r.Name, Acronym: r.Acronym})
}

func AbsenceEvent(t EventType, a *domain.Absence) Event {
	return New(t, a.ID, AbsencePayload{
		UserID:        a.UserID,
		AbsenceTypeID: a.AbsenceTypeID,
		StartDateAt:   a.StartDateAt,
		EndDateAt:     a.EndDateAt,
		IsAllDay:      a.IsAllDay,
	})
}

func AbsenceTypeEvent(t EventType, at *domain.AbsenceType) Event {
	return New(t, at.ID, AbsenceTypePayload{Name: at.Name})
}
