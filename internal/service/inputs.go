package service

import (
	"time"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/pagination"
)

// CreateUserInput is the argument bag of createUser.
type CreateUserInput struct {
	Name    string         `json:"name" validate:"required"`
	Email   string         `json:"email" validate:"required"`
	Profile domain.Profile `json:"profile" validate:"required,oneof=ADMIN MANAGER TEAM_MEMBER"`
	Image   *string        `json:"image"`
}

// UpdateUserInput replaces every mutable field of a user.
type UpdateUserInput struct {
	ID string `json:"id" validate:"required"`
	CreateUserInput
}

// TeamInput is the argument bag of createTeam.
type TeamInput struct {
	Name      string `json:"name" validate:"required"`
	ManagerID string `json:"managerId" validate:"required"`
}

// UpdateTeamInput is the argument bag of updateTeam.
type UpdateTeamInput struct {
	ID string `json:"id" validate:"required"`
	TeamInput
}

// TeamMemberInput identifies a membership.
type TeamMemberInput struct {
	TeamID string `json:"teamId" validate:"required"`
	UserID string `json:"userId" validate:"required"`
}

// RoleInput is the argument bag of createRole.
type RoleInput struct {
	Name        string `json:"name" validate:"required"`
	Acronym     string `json:"acronym" validate:"required"`
	Description string `json:"description"`
}

// UpdateRoleInput is the argument bag of updateRole.
type UpdateRoleInput struct {
	ID string `json:"id" validate:"required"`
	RoleInput
}

// RoleAssignmentInput identifies a user role assignment.
type RoleAssignmentInput struct {
	UserID string `json:"userId" validate:"required"`
	RoleID string `json:"roleId" validate:"required"`
}

// AbsenceInput is the argument bag of createAbsence.
type AbsenceInput struct {
	Title         string     `json:"title" validate:"required"`
	Description   string     `json:"description"`
	StartDateAt   time.Time  `json:"startDateAt" validate:"required"`
	EndDateAt     time.Time  `json:"endDateAt" validate:"required,gtefield=StartDateAt"`
	StartTimeAt   *time.Time `json:"startTimeAt"`
	EndTimeAt     *time.Time `json:"endTimeAt"`
	IsAllDay      bool       `json:"isAllDay"`
	UserID        string     `json:"userId" validate:"required"`
	AbsenceTypeID string     `json:"absenceTypeId" validate:"required"`
}

// UpdateAbsenceInput is the argument bag of updateAbsence.
type UpdateAbsenceInput struct {
	ID string `json:"id" validate:"required"`
	AbsenceInput
}

// AbsenceTypeInput is the argument bag of createAbsenceType.
type AbsenceTypeInput struct {
	Name string `json:"name" validate:"required"`
}

// UpdateAbsenceTypeInput is the argument bag of updateAbsenceType.
type UpdateAbsenceTypeInput struct {
	ID string `json:"id" validate:"required"`
	AbsenceTypeInput
}

// AvatarUploadInput requests a presigned avatar upload.
type AvatarUploadInput struct {
	UserID      string `json:"userId" validate:"required"`
	ContentType string `json:"contentType" validate:"required,oneof=image/png image/jpeg image/webp"`
}

// UsersQuery filters the users connection. ID takes precedence over WithoutTeam.
type UsersQuery struct {
	ID          *string
	WithoutTeam bool
	pagination.Args
}

// TeamsQuery filters the teams connection.
type TeamsQuery struct {
	ID *string
	pagination.Args
}

// RolesQuery filters the roles connection.
type RolesQuery struct {
	ID     *string
	UserID *string
	pagination.Args
}

// AbsencesQuery filters the absences connection.
type AbsencesQuery struct {
	ID            *string
	UserID        *string
	AbsenceTypeID *string
	pagination.Args
}

// AbsenceTypesQuery filters the absence types connection.
type AbsenceTypesQuery struct {
	ID *string
	pagination.Args
}
