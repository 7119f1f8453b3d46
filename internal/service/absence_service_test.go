package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/events"
	"github.com/spec-kit/staff-service/internal/repository"
	apperrors "github.com/spec-kit/staff-service/pkg/util/errorutil"
)

func absenceInput(userID, typeID string) AbsenceInput {
	start := time.Date(2026, 8, 3, 0, 0, 0, 0, time.UTC)
	return AbsenceInput{
		Title:         "Summer break",
		StartDateAt:   start,
		EndDateAt:     start.AddDate(0, 0, 10),
		IsAllDay:      true,
		UserID:        userID,
		AbsenceTypeID: typeID,
	}
}

func TestAbsenceLifecycle(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.user(t, "Ann", "ann@x.com")
	vacation, err := f.absences.CreateAbsenceType(ctx, AbsenceTypeInput{Name: "Vacation"})
	require.NoError(t, err)

	absence, err := f.absences.CreateAbsence(ctx, absenceInput(ann.ID, vacation.ID))
	require.NoError(t, err)

	in := UpdateAbsenceInput{ID: absence.ID, AbsenceInput: absenceInput(ann.ID, vacation.ID)}
	in.Title = "Long summer break"
	updated, err := f.absences.UpdateAbsence(ctx, in)
	require.NoError(t, err)
	assert.Equal(t, "Long summer break", updated.Title)

	conn, err := f.absences.Absences(ctx, AbsencesQuery{UserID: &ann.ID})
	require.NoError(t, err)
	require.Len(t, conn.Edges, 1)
	assert.Equal(t, "Long summer break", conn.Edges[0].Node.Title)

	_, err = f.absences.DeleteAbsence(ctx, absence.ID)
	require.NoError(t, err)
	_, err = f.absences.DeleteAbsence(ctx, absence.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	assert.Equal(t, []events.EventType{
		events.EventUserCreated,
		events.EventAbsenceTypeCreated,
		events.EventAbsenceCreated,
		events.EventAbsenceUpdated,
		events.EventAbsenceDeleted,
	}, f.recorder.types())
}

func TestCreateAbsenceValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.user(t, "Ann", "ann@x.com")
	sick, err := f.absences.CreateAbsenceType(ctx, AbsenceTypeInput{Name: "Sick leave"})
	require.NoError(t, err)

	backwards := absenceInput(ann.ID, sick.ID)
	backwards.EndDateAt = backwards.StartDateAt.Add(-time.Hour)
	_, err = f.absences.CreateAbsence(ctx, backwards)
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = f.absences.CreateAbsence(ctx, absenceInput(domain.NewID(), sick.ID))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.absences.CreateAbsence(ctx, absenceInput(ann.ID, domain.NewID()))
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	untitled := absenceInput(ann.ID, sick.ID)
	untitled.Title = ""
	_, err = f.absences.CreateAbsence(ctx, untitled)
	assert.ErrorIs(t, err, apperrors.ErrValidationRequired)
}

func TestAbsenceTypeInUse(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.user(t, "Ann", "ann@x.com")
	vacation, err := f.absences.CreateAbsenceType(ctx, AbsenceTypeInput{Name: "Vacation"})
	require.NoError(t, err)
	_, err = f.absences.CreateAbsence(ctx, absenceInput(ann.ID, vacation.ID))
	require.NoError(t, err)

	_, err = f.absences.DeleteAbsenceType(ctx, vacation.ID)
	require.ErrorIs(t, err, apperrors.ErrAbsenceTypeInUse)

	_, err = f.users.DeleteUser(ctx, ann.ID)
	require.NoError(t, err)

	conn, err := f.absences.Absences(ctx, AbsencesQuery{AbsenceTypeID: &vacation.ID})
	require.NoError(t, err)
	assert.Empty(t, conn.Edges, "absences go with their user")

	_, err = f.absences.DeleteAbsenceType(ctx, vacation.ID)
	assert.NoError(t, err)

	types, err := f.absences.AbsenceTypes(ctx, AbsenceTypesQuery{})
	require.NoError(t, err)
	assert.Empty(t, types.Edges)
}

// unseenAbsences hides absences from the in-use pre-check, as when one is
// inserted after the check but before the delete.
type unseenAbsences struct {
	repository.AbsenceRepository
}

func (unseenAbsences) CountByType(context.Context, string) (int, error) { return 0, nil }

func TestAbsenceTypeDeleteRestrictedByStore(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.user(t, "Ann", "ann@x.com")
	vacation, err := f.absences.CreateAbsenceType(ctx, AbsenceTypeInput{Name: "Vacation"})
	require.NoError(t, err)
	_, err = f.absences.CreateAbsence(ctx, absenceInput(ann.ID, vacation.ID))
	require.NoError(t, err)

	store := *f.deps.Store
	store.Absences = unseenAbsences{AbsenceRepository: store.Absences}
	deps := f.deps
	deps.Store = &store

	_, err = NewAbsenceService(deps).DeleteAbsenceType(ctx, vacation.ID)
	require.ErrorIs(t, err, apperrors.ErrAbsenceTypeInUse)
	de := apperrors.ToDomainError(err)
	require.NotNil(t, de)
	assert.Equal(t, vacation.ID, de.Details["absence_type_id"])
	assert.NotContains(t, f.recorder.types(), events.EventAbsenceTypeDeleted)
}

func TestRoleCatalog(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.user(t, "Ann", "ann@x.com")

	role, err := f.roles.CreateRole(ctx, RoleInput{Name: "Product Owner", Acronym: "PO"})
	require.NoError(t, err)

	_, err = f.roles.CreateRole(ctx, RoleInput{Name: "No acronym"})
	assert.ErrorIs(t, err, apperrors.ErrValidationRequired)

	updated, err := f.roles.UpdateRole(ctx, UpdateRoleInput{ID: role.ID, RoleInput: RoleInput{Name: "Product Owner", Acronym: "PO", Description: "Owns the backlog"}})
	require.NoError(t, err)
	assert.Equal(t, "Owns the backlog", updated.Description)

	_, err = f.users.AssignRole(ctx, RoleAssignmentInput{UserID: ann.ID, RoleID: role.ID})
	require.NoError(t, err)

	_, err = f.roles.DeleteRole(ctx, role.ID)
	require.NoError(t, err)

	conn, err := f.users.Users(ctx, UsersQuery{ID: &ann.ID})
	require.NoError(t, err)
	require.Len(t, conn.Edges, 1)
	assert.Empty(t, conn.Edges[0].Node.Roles)
}
