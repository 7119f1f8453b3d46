package memory

import (
	"context"
	"strings"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/pagination"
	"github.com/spec-kit/staff-service/internal/repository"
)

type teamRepository struct {
	db *DB
}

// checkManager enforces the manager foreign key and its uniqueness across teams.
func checkManager(st *state, team *domain.Team) error {
	if team.ManagerID == nil {
		return nil
	}
	if _, ok := st.users[*team.ManagerID]; !ok {
		return foreignKey(repository.ConstraintTeamsManager)
	}
	for id, other := range st.teams {
		if id != team.ID && other.ManagerID != nil && *other.ManagerID == *team.ManagerID {
			return unique(repository.ConstraintTeamsManages)
		}
	}
	return nil
}

func cloneTeam(t domain.Team) domain.Team {
	t.ManagerID = cloneString(t.ManagerID)
	t.Members = nil
	return t
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	return r.db.write(ctx, func(st *state) error {
		if err := checkManager(st, team); err != nil {
			return err
		}
		now := r.db.now()
		team.CreatedAt, team.UpdatedAt = now, now
		st.teams[strings.Clone(team.ID)] = cloneTeam(*team)
		return nil
	})
}

func (r *teamRepository) Update(ctx context.Context, team *domain.Team) error {
	return r.db.write(ctx, func(st *state) error {
		existing, ok := st.teams[team.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if err := checkManager(st, team); err != nil {
			return err
		}
		existing.Name = team.Name
		existing.ManagerID = cloneString(team.ManagerID)
		existing.UpdatedAt = r.db.now()
		st.teams[strings.Clone(team.ID)] = existing
		team.UpdatedAt = existing.UpdatedAt
		return nil
	})
}

// Delete clears the team reference of its members.
func (r *teamRepository) Delete(ctx context.Context, id string) error {
	return r.db.write(ctx, func(st *state) error {
		if _, ok := st.teams[id]; !ok {
			return repository.ErrNotFound
		}
		for userID, user := range st.users {
			if user.TeamID != nil && *user.TeamID == id {
				user.TeamID = nil
				st.users[userID] = user
			}
		}
		delete(st.teams, id)
		return nil
	})
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	var out *domain.Team
	err := r.db.read(ctx, func(st *state) error {
		team, ok := st.teams[id]
		if !ok {
			return repository.ErrNotFound
		}
		t := cloneTeam(team)
		out = &t
		return nil
	})
	return out, err
}

func (r *teamRepository) GetForUpdate(ctx context.Context, id string) (*domain.Team, error) {
	return r.GetByID(ctx, id)
}

func (r *teamRepository) List(ctx context.Context, filter repository.TeamFilter, w pagination.Window) ([]domain.Team, error) {
	var out []domain.Team
	err := r.db.read(ctx, func(st *state) error {
		matched := make([]domain.Team, 0, len(st.teams))
		for _, team := range st.teams {
			if teamMatches(team, filter) {
				matched = append(matched, cloneTeam(team))
			}
		}
		out = page(matched, func(t domain.Team) string { return t.ID }, w)
		return nil
	})
	return out, err
}

func (r *teamRepository) Contains(ctx context.Context, filter repository.TeamFilter, id string) (bool, error) {
	var found bool
	err := r.db.read(ctx, func(st *state) error {
		team, ok := st.teams[id]
		found = ok && teamMatches(team, filter)
		return nil
	})
	return found, err
}

func teamMatches(team domain.Team, filter repository.TeamFilter) bool {
	if filter.ID != nil && team.ID != *filter.ID {
		return false
	}
	if filter.ManagerID != nil && (team.ManagerID == nil || *team.ManagerID != *filter.ManagerID) {
		return false
	}
	return true
}
