package service

import (
	"context"
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/pagination"
	"github.com/spec-kit/staff-service/internal/repository"
	apperrors "github.com/spec-kit/staff-service/pkg/util/errorutil"
)

// MutationValidator checks every cross-entity invariant a write would violate.
// It only reads from the store. Callers run it inside the transaction that
// performs the write; rows it returns are locked until that transaction ends.
type MutationValidator struct {
	store    *repository.Store
	validate *validator.Validate
}

// NewMutationValidator builds a validator reading from store.
func NewMutationValidator(store *repository.Store) *MutationValidator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" || name == "" {
			return fld.Name
		}
		return name
	})
	return &MutationValidator{store: store, validate: v}
}

// Struct runs the structural checks declared on in.
func (v *MutationValidator) Struct(in any) error {
	err := v.validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) || len(verrs) == 0 {
		return apperrors.NewInternalError(err)
	}
	fe := verrs[0]
	if fe.Tag() == "required" {
		return apperrors.NewRequiredError(fe.Field())
	}
	details := map[string]any{"field": fe.Field(), "rule": fe.Tag()}
	if fe.Param() != "" {
		details["param"] = fe.Param()
	}
	return apperrors.NewValidationError(fmt.Sprintf("%s failed the %s check", fe.Field(), fe.Tag()), details)
}

func requireID(field, id string) error {
	if strings.TrimSpace(id) == "" {
		return apperrors.NewRequiredError(field)
	}
	return nil
}

func notFound(resource, field, id string, err error) error {
	if repository.IsNotFound(err) {
		return apperrors.NewNotFound(resource, map[string]any{field: id})
	}
	return err
}

func (v *MutationValidator) lockUser(ctx context.Context, field, id string) (*domain.User, error) {
	user, err := v.store.Users.GetForUpdate(ctx, id)
	if err != nil {
		return nil, notFound("user", field, id, err)
	}
	return user, nil
}

func (v *MutationValidator) lockTeam(ctx context.Context, field, id string) (*domain.Team, error) {
	team, err := v.store.Teams.GetForUpdate(ctx, id)
	if err != nil {
		return nil, notFound("team", field, id, err)
	}
	return team, nil
}

func (v *MutationValidator) emailAvailable(ctx context.Context, email, exceptID string) error {
	existing, err := v.store.Users.GetByEmail(ctx, email)
	switch {
	case repository.IsNotFound(err):
		return nil
	case err != nil:
		return err
	case existing.ID != exceptID:
		return apperrors.NewDuplicateEmail(email)
	}
	return nil
}

// managerAvailable rejects a manager that already runs a team other than teamID.
func (v *MutationValidator) managerAvailable(ctx context.Context, managerID, teamID string) error {
	teams, err := v.store.Teams.List(ctx, repository.TeamFilter{ManagerID: &managerID}, pagination.Window{})
	if err != nil {
		return err
	}
	for _, t := range teams {
		if t.ID != teamID {
			return apperrors.NewUserManagesTeam(managerID, t.ID, t.Name)
		}
	}
	return nil
}

// CreateUser rejects an email that is already taken.
func (v *MutationValidator) CreateUser(ctx context.Context, in CreateUserInput) error {
	if err := v.Struct(in); err != nil {
		return err
	}
	return v.emailAvailable(ctx, in.Email, "")
}

// UpdateUser returns the current user. Keeping one's own email is allowed.
func (v *MutationValidator) UpdateUser(ctx context.Context, in UpdateUserInput) (*domain.User, error) {
	if err := requireID("id", in.ID); err != nil {
		return nil, err
	}
	if err := v.Struct(in); err != nil {
		return nil, err
	}
	user, err := v.lockUser(ctx, "id", in.ID)
	if err != nil {
		return nil, err
	}
	if in.Email != user.Email {
		if err := v.emailAvailable(ctx, in.Email, user.ID); err != nil {
			return nil, err
		}
	}
	return user, nil
}

// lockManagedTeams locks the teams run by managerID in id order. Deleting the
// manager clears those rows, and team writers lock the team before the user.
func (v *MutationValidator) lockManagedTeams(ctx context.Context, managerID string) error {
	teams, err := v.store.Teams.List(ctx, repository.TeamFilter{ManagerID: &managerID}, pagination.Window{})
	if err != nil {
		return err
	}
	for _, t := range teams {
		if _, err := v.store.Teams.GetForUpdate(ctx, t.ID); err != nil && !repository.IsNotFound(err) {
			return err
		}
	}
	return nil
}

// DeleteUser rejects users that still belong to a team.
func (v *MutationValidator) DeleteUser(ctx context.Context, id string) (*domain.User, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	if err := v.lockManagedTeams(ctx, id); err != nil {
		return nil, err
	}
	user, err := v.lockUser(ctx, "id", id)
	if err != nil {
		return nil, err
	}
	if user.HasTeam() {
		teamName := ""
		if team, err := v.store.Teams.GetByID(ctx, *user.TeamID); err == nil {
			teamName = team.Name
		} else if !repository.IsNotFound(err) {
			return nil, err
		}
		return nil, apperrors.NewUserHasTeam(user.ID, *user.TeamID, teamName)
	}
	return user, nil
}

// CreateTeam requires an existing manager that runs no other team.
func (v *MutationValidator) CreateTeam(ctx context.Context, in TeamInput) error {
	if err := v.Struct(in); err != nil {
		return err
	}
	if _, err := v.lockUser(ctx, "managerId", in.ManagerID); err != nil {
		return err
	}
	return v.managerAvailable(ctx, in.ManagerID, "")
}

// UpdateTeam returns the current team.
func (v *MutationValidator) UpdateTeam(ctx context.Context, in UpdateTeamInput) (*domain.Team, error) {
	if err := requireID("id", in.ID); err != nil {
		return nil, err
	}
	if err := v.Struct(in); err != nil {
		return nil, err
	}
	team, err := v.lockTeam(ctx, "id", in.ID)
	if err != nil {
		return nil, err
	}
	if _, err := v.lockUser(ctx, "managerId", in.ManagerID); err != nil {
		return nil, err
	}
	if err := v.managerAvailable(ctx, in.ManagerID, team.ID); err != nil {
		return nil, err
	}
	return team, nil
}

// DeleteTeam returns the team about to be deleted.
func (v *MutationValidator) DeleteTeam(ctx context.Context, id string) (*domain.Team, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return v.lockTeam(ctx, "id", id)
}

// AddTeamMember rejects users that already belong to another team. The
// returned flag reports that the user is already a member of this team.
func (v *MutationValidator) AddTeamMember(ctx context.Context, in TeamMemberInput) (*domain.Team, bool, error) {
	if err := v.Struct(in); err != nil {
		return nil, false, err
	}
	team, err := v.lockTeam(ctx, "teamId", in.TeamID)
	if err != nil {
		return nil, false, err
	}
	user, err := v.lockUser(ctx, "userId", in.UserID)
	if err != nil {
		return nil, false, err
	}
	if !user.HasTeam() {
		return team, false, nil
	}
	if *user.TeamID == team.ID {
		return team, true, nil
	}
	current, err := v.store.Teams.GetByID(ctx, *user.TeamID)
	if err != nil {
		return nil, false, err
	}
	return nil, false, apperrors.NewUserHasTeam(user.ID, current.ID, current.Name)
}

// RemoveTeamMember requires the user to be a member of the team.
func (v *MutationValidator) RemoveTeamMember(ctx context.Context, in TeamMemberInput) (*domain.Team, error) {
	if err := v.Struct(in); err != nil {
		return nil, err
	}
	team, err := v.lockTeam(ctx, "teamId", in.TeamID)
	if err != nil {
		return nil, err
	}
	user, err := v.lockUser(ctx, "userId", in.UserID)
	if err != nil {
		return nil, err
	}
	if !user.HasTeam() || *user.TeamID != team.ID {
		return nil, apperrors.NewNotFound("team member", map[string]any{"teamId": team.ID, "userId": user.ID})
	}
	return team, nil
}

// CreateRole only checks the argument bag.
func (v *MutationValidator) CreateRole(_ context.Context, in RoleInput) error {
	return v.Struct(in)
}

// UpdateRole returns the current role.
func (v *MutationValidator) UpdateRole(ctx context.Context, in UpdateRoleInput) (*domain.Role, error) {
	if err := requireID("id", in.ID); err != nil {
		return nil, err
	}
	if err := v.Struct(in); err != nil {
		return nil, err
	}
	return v.lockRole(ctx, "id", in.ID)
}

// DeleteRole returns the role about to be deleted.
func (v *MutationValidator) DeleteRole(ctx context.Context, id string) (*domain.Role, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return v.lockRole(ctx, "id", id)
}

func (v *MutationValidator) lockRole(ctx context.Context, field, id string) (*domain.Role, error) {
	role, err := v.store.Roles.GetForUpdate(ctx, id)
	if err != nil {
		return nil, notFound("role", field, id, err)
	}
	return role, nil
}

// AssignRole requires both the user and the role to exist.
func (v *MutationValidator) AssignRole(ctx context.Context, in RoleAssignmentInput) error {
	if err := v.Struct(in); err != nil {
		return err
	}
	if _, err := v.lockUser(ctx, "userId", in.UserID); err != nil {
		return err
	}
	_, err := v.lockRole(ctx, "roleId", in.RoleID)
	return err
}

// UnassignRole requires the assignment to exist.
func (v *MutationValidator) UnassignRole(ctx context.Context, in RoleAssignmentInput) error {
	if err := v.AssignRole(ctx, in); err != nil {
		return err
	}
	held, err := v.store.Roles.Contains(ctx, repository.RoleFilter{UserID: &in.UserID}, in.RoleID)
	if err != nil {
		return err
	}
	if !held {
		return apperrors.NewNotFound("role assignment", map[string]any{"userId": in.UserID, "roleId": in.RoleID})
	}
	return nil
}

func (v *MutationValidator) absenceRefs(ctx context.Context, in AbsenceInput) error {
	if _, err := v.lockUser(ctx, "userId", in.UserID); err != nil {
		return err
	}
	_, err := v.lockAbsenceType(ctx, "absenceTypeId", in.AbsenceTypeID)
	return err
}

// CreateAbsence requires the owning user and the absence type to exist.
func (v *MutationValidator) CreateAbsence(ctx context.Context, in AbsenceInput) error {
	if err := v.Struct(in); err != nil {
		return err
	}
	return v.absenceRefs(ctx, in)
}

// UpdateAbsence additionally requires the absence to exist.
func (v *MutationValidator) UpdateAbsence(ctx context.Context, in UpdateAbsenceInput) (*domain.Absence, error) {
	if err := requireID("id", in.ID); err != nil {
		return nil, err
	}
	if err := v.Struct(in); err != nil {
		return nil, err
	}
	absence, err := v.lockAbsence(ctx, "id", in.ID)
	if err != nil {
		return nil, err
	}
	if err := v.absenceRefs(ctx, in.AbsenceInput); err != nil {
		return nil, err
	}
	return absence, nil
}

// DeleteAbsence returns the absence about to be deleted.
func (v *MutationValidator) DeleteAbsence(ctx context.Context, id string) (*domain.Absence, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	return v.lockAbsence(ctx, "id", id)
}

func (v *MutationValidator) lockAbsence(ctx context.Context, field, id string) (*domain.Absence, error) {
	absence, err := v.store.Absences.GetForUpdate(ctx, id)
	if err != nil {
		return nil, notFound("absence", field, id, err)
	}
	return absence, nil
}

func (v *MutationValidator) lockAbsenceType(ctx context.Context, field, id string) (*domain.AbsenceType, error) {
	t, err := v.store.AbsenceTypes.GetForUpdate(ctx, id)
	if err != nil {
		return nil, notFound("absence type", field, id, err)
	}
	return t, nil
}

// CreateAbsenceType only checks the argument bag.
func (v *MutationValidator) CreateAbsenceType(_ context.Context, in AbsenceTypeInput) error {
	return v.Struct(in)
}

// UpdateAbsenceType returns the current absence type.
func (v *MutationValidator) UpdateAbsenceType(ctx context.Context, in UpdateAbsenceTypeInput) (*domain.AbsenceType, error) {
	if err := requireID("id", in.ID); err != nil {
		return nil, err
	}
	if err := v.Struct(in); err != nil {
		return nil, err
	}
	return v.lockAbsenceType(ctx, "id", in.ID)
}

// DeleteAbsenceType rejects types that absences still reference.
func (v *MutationValidator) DeleteAbsenceType(ctx context.Context, id string) (*domain.AbsenceType, error) {
	if err := requireID("id", id); err != nil {
		return nil, err
	}
	t, err := v.lockAbsenceType(ctx, "id", id)
	if err != nil {
		return nil, err
	}
	used, err := v.store.Absences.CountByType(ctx, id)
	if err != nil {
		return nil, err
	}
	if used > 0 {
		return nil, apperrors.NewAbsenceTypeInUse(t.ID, t.Name)
	}
	return t, nil
}
