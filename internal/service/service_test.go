package service

import (
	"context"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/staff-service/internal/config"
	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/events"
	"github.com/spec-kit/staff-service/internal/repository/memory"
	apperrors "github.com/spec-kit/staff-service/pkg/util/errorutil"
)

type recorder struct {
	mu     sync.Mutex
	events []events.Event
}

func (r *recorder) handle(_ context.Context, e events.Event) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, e)
	return nil
}

func (r *recorder) types() []events.EventType {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]events.EventType, 0, len(r.events))
	for _, e := range r.events {
		out = append(out, e.Type)
	}
	return out
}

type fixture struct {
	deps     Dependencies
	users    *UserService
	teams    *TeamService
	roles    *RoleService
	absences *AbsenceService
	recorder *recorder
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	dispatcher := events.NewInMemoryDispatcher()
	rec := &recorder{}
	for _, et := range events.AllEventTypes {
		dispatcher.Subscribe(et, rec.handle)
	}
	deps := Dependencies{
		Store:      memory.NewStore(),
		Dispatcher: dispatcher,
		Logger:     zap.NewNop(),
		Pagination: config.PaginationConfig{MaxFirst: 50},
	}
	return &fixture{
		deps:     deps,
		users:    NewUserService(deps, nil),
		teams:    NewTeamService(deps),
		roles:    NewRoleService(deps),
		absences: NewAbsenceService(deps),
		recorder: rec,
	}
}

func (f *fixture) user(t *testing.T, name, email string) *domain.User {
	t.Helper()
	u, err := f.users.CreateUser(context.Background(), CreateUserInput{Name: name, Email: email, Profile: domain.ProfileTeamMember})
	require.NoError(t, err)
	return u
}

func (f *fixture) team(t *testing.T, name, managerID string) *domain.Team {
	t.Helper()
	team, err := f.teams.CreateTeam(context.Background(), TeamInput{Name: name, ManagerID: managerID})
	require.NoError(t, err)
	return team
}

func code(err error) string {
	if de := apperrors.ToDomainError(err); de != nil {
		return de.Code
	}
	return ""
}

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }
