package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/events"
	"github.com/spec-kit/staff-service/internal/pagination"
	apperrors "github.com/spec-kit/staff-service/pkg/util/errorutil"
)

func TestCreateUserValidation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	tests := []struct {
		name string
		in   CreateUserInput
		code string
	}{
		{name: "missing name", in: CreateUserInput{Email: "a@x.com", Profile: domain.ProfileAdmin}, code: apperrors.CodeValidationRequired},
		{name: "missing email", in: CreateUserInput{Name: "Ann", Profile: domain.ProfileAdmin}, code: apperrors.CodeValidationRequired},
		{name: "unknown profile", in: CreateUserInput{Name: "Ann", Email: "a@x.com", Profile: "OWNER"}, code: apperrors.CodeValidationFailed},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.users.CreateUser(ctx, tt.in)
			assert.Equal(t, tt.code, code(err))
		})
	}

	_, err := f.users.CreateUser(ctx, CreateUserInput{Email: "a@x.com", Profile: domain.ProfileAdmin})
	de := apperrors.ToDomainError(err)
	assert.Equal(t, "name", de.Details["field"])
}

func TestCreateUserRejectsDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.user(t, "Ann", "ann@x.com")

	_, err := f.users.CreateUser(context.Background(), CreateUserInput{Name: "Other", Email: "ann@x.com", Profile: domain.ProfileManager})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)
	assert.Equal(t, []events.EventType{events.EventUserCreated}, f.recorder.types())
}

func TestConcurrentCreatesWithSameEmail(t *testing.T) {
	f := newFixture(t)

	const n = 16
	var (
		wg        sync.WaitGroup
		mu        sync.Mutex
		succeeded int
		conflicts int
	)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := f.users.CreateUser(context.Background(), CreateUserInput{
				Name: fmt.Sprintf("user %d", i), Email: "same@x.com", Profile: domain.ProfileTeamMember,
			})
			mu.Lock()
			defer mu.Unlock()
			switch code(err) {
			case "":
				succeeded++
			case apperrors.CodeDuplicateEmail:
				conflicts++
			}
		}(i)
	}
	wg.Wait()

	assert.Equal(t, 1, succeeded)
	assert.Equal(t, n-1, conflicts)
}

func TestUpdateUserEmailRules(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.user(t, "Ann", "ann@x.com")
	f.user(t, "Bob", "bob@x.com")

	updated, err := f.users.UpdateUser(ctx, UpdateUserInput{ID: ann.ID, CreateUserInput: CreateUserInput{
		Name: "Ann B.", Email: "ann@x.com", Profile: domain.ProfileManager,
	}})
	require.NoError(t, err)
	assert.Equal(t, "Ann B.", updated.Name)
	assert.Equal(t, domain.ProfileManager, updated.Profile)

	_, err = f.users.UpdateUser(ctx, UpdateUserInput{ID: ann.ID, CreateUserInput: CreateUserInput{
		Name: "Ann", Email: "bob@x.com", Profile: domain.ProfileManager,
	}})
	assert.ErrorIs(t, err, apperrors.ErrDuplicateEmail)

	_, err = f.users.UpdateUser(ctx, UpdateUserInput{ID: domain.NewID(), CreateUserInput: CreateUserInput{
		Name: "Ghost", Email: "ghost@x.com", Profile: domain.ProfileManager,
	}})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.users.UpdateUser(ctx, UpdateUserInput{CreateUserInput: CreateUserInput{
		Name: "Ann", Email: "ann@x.com", Profile: domain.ProfileManager,
	}})
	assert.ErrorIs(t, err, apperrors.ErrValidationRequired)
}

func TestDeleteUserThatBelongsToATeam(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	manager := f.user(t, "Mia", "mia@x.com")
	member := f.user(t, "Ann", "ann@x.com")
	team := f.team(t, "Platform", manager.ID)

	_, err := f.teams.AddMember(ctx, TeamMemberInput{TeamID: team.ID, UserID: member.ID})
	require.NoError(t, err)

	_, err = f.users.DeleteUser(ctx, member.ID)
	require.ErrorIs(t, err, apperrors.ErrUserHasTeam)
	assert.Contains(t, err.Error(), "Platform")

	_, err = f.teams.RemoveMember(ctx, TeamMemberInput{TeamID: team.ID, UserID: member.ID})
	require.NoError(t, err)

	deleted, err := f.users.DeleteUser(ctx, member.ID)
	require.NoError(t, err)
	assert.Equal(t, member.ID, deleted.ID)

	_, err = f.users.DeleteUser(ctx, member.ID)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestUsersFilters(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	manager := f.user(t, "Mia", "mia@x.com")
	inTeam := f.user(t, "Ann", "ann@x.com")
	loner := f.user(t, "Bob", "bob@x.com")
	team := f.team(t, "Platform", manager.ID)
	_, err := f.teams.AddMember(ctx, TeamMemberInput{TeamID: team.ID, UserID: inTeam.ID})
	require.NoError(t, err)

	conn, err := f.users.Users(ctx, UsersQuery{WithoutTeam: true})
	require.NoError(t, err)
	ids := []string{}
	for _, u := range conn.Nodes() {
		ids = append(ids, u.ID)
	}
	assert.Equal(t, []string{manager.ID, loner.ID}, ids)

	conn, err = f.users.Users(ctx, UsersQuery{ID: &inTeam.ID, WithoutTeam: true})
	require.NoError(t, err)
	require.Len(t, conn.Edges, 1, "id wins over withoutTeam")
	assert.Equal(t, inTeam.ID, conn.Edges[0].Node.ID)

	conn, err = f.users.Users(ctx, UsersQuery{ID: strPtr(domain.NewID())})
	require.NoError(t, err)
	assert.Empty(t, conn.Edges)
	assert.False(t, conn.PageInfo.HasNextPage)
}

func TestUsersPagination(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		f.user(t, fmt.Sprintf("user %d", i), fmt.Sprintf("u%d@x.com", i))
	}

	var seen []string
	q := UsersQuery{Args: pagination.Args{First: intPtr(2)}}
	for {
		conn, err := f.users.Users(ctx, q)
		require.NoError(t, err)
		for _, u := range conn.Nodes() {
			seen = append(seen, u.Email)
		}
		if !conn.PageInfo.HasNextPage {
			break
		}
		q.After = conn.PageInfo.EndCursor
	}
	assert.Equal(t, []string{"u0@x.com", "u1@x.com", "u2@x.com", "u3@x.com", "u4@x.com"}, seen)

	_, err := f.users.Users(ctx, UsersQuery{Args: pagination.Args{First: intPtr(51)}})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	bad := "not a cursor"
	_, err = f.users.Users(ctx, UsersQuery{Args: pagination.Args{After: &bad}})
	assert.ErrorIs(t, err, apperrors.ErrInvalidCursor)
}

func TestRoleAssignment(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.user(t, "Ann", "ann@x.com")
	role, err := f.roles.CreateRole(ctx, RoleInput{Name: "Site Reliability Engineer", Acronym: "SRE"})
	require.NoError(t, err)

	for i := 0; i < 2; i++ {
		user, err := f.users.AssignRole(ctx, RoleAssignmentInput{UserID: ann.ID, RoleID: role.ID})
		require.NoError(t, err)
		require.Len(t, user.Roles, 1)
		assert.Equal(t, "SRE", user.Roles[0].Acronym)
	}

	conn, err := f.users.Users(ctx, UsersQuery{ID: &ann.ID})
	require.NoError(t, err)
	require.Len(t, conn.Edges, 1)
	assert.Len(t, conn.Edges[0].Node.Roles, 1)

	held, err := f.roles.Roles(ctx, RolesQuery{UserID: &ann.ID})
	require.NoError(t, err)
	assert.Len(t, held.Edges, 1)

	user, err := f.users.UnassignRole(ctx, RoleAssignmentInput{UserID: ann.ID, RoleID: role.ID})
	require.NoError(t, err)
	assert.Empty(t, user.Roles)

	_, err = f.users.UnassignRole(ctx, RoleAssignmentInput{UserID: ann.ID, RoleID: role.ID})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)

	_, err = f.users.AssignRole(ctx, RoleAssignmentInput{UserID: ann.ID, RoleID: domain.NewID()})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

type fakeAvatars struct {
	keys []string
}

func (f *fakeAvatars) PresignPut(_ context.Context, key, contentType string) (string, time.Time, error) {
	f.keys = append(f.keys, key)
	return "https://upload.example/" + key + "?ct=" + contentType, time.Now().Add(time.Minute), nil
}

func (f *fakeAvatars) PublicURL(key string) string {
	return "https://cdn.example/" + key
}

func TestAvatarUpload(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	ann := f.user(t, "Ann", "ann@x.com")

	_, err := f.users.AvatarUpload(ctx, AvatarUploadInput{UserID: ann.ID, ContentType: "image/png"})
	assert.ErrorIs(t, err, apperrors.ErrUnavailable)

	avatars := &fakeAvatars{}
	users := NewUserService(f.deps, avatars)

	upload, err := users.AvatarUpload(ctx, AvatarUploadInput{UserID: ann.ID, ContentType: "image/png"})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(upload.Key, "avatars/"+ann.ID+"/"))
	assert.True(t, strings.HasSuffix(upload.Key, ".png"))
	assert.Equal(t, "https://cdn.example/"+upload.Key, upload.ImageURL)

	_, err = users.AvatarUpload(ctx, AvatarUploadInput{UserID: ann.ID, ContentType: "image/gif"})
	assert.ErrorIs(t, err, apperrors.ErrValidationFailed)

	_, err = users.AvatarUpload(ctx, AvatarUploadInput{UserID: domain.NewID(), ContentType: "image/png"})
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	assert.Len(t, avatars.keys, 1)
}
