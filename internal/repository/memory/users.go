package memory

import (
	"context"
	"strings"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/pagination"
	"github.com/spec-kit/staff-service/internal/repository"
)

type userRepository struct {
	db *DB
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	return r.db.write(ctx, func(st *state) error {
		if emailTaken(st, user.Email, "") {
			return unique(repository.ConstraintUsersEmail)
		}
		if user.TeamID != nil {
			if _, ok := st.teams[*user.TeamID]; !ok {
				return foreignKey(repository.ConstraintUsersTeam)
			}
		}
		now := r.db.now()
		user.CreatedAt, user.UpdatedAt = now, now
		st.users[strings.Clone(user.ID)] = cloneUser(*user)
		return nil
	})
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	return r.db.write(ctx, func(st *state) error {
		existing, ok := st.users[user.ID]
		if !ok {
			return repository.ErrNotFound
		}
		if emailTaken(st, user.Email, user.ID) {
			return unique(repository.ConstraintUsersEmail)
		}
		existing.Name = user.Name
		existing.Email = user.Email
		existing.Profile = user.Profile
		existing.Image = cloneString(user.Image)
		existing.UpdatedAt = r.db.now()
		st.users[strings.Clone(user.ID)] = existing
		user.UpdatedAt = existing.UpdatedAt
		return nil
	})
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	return r.db.write(ctx, func(st *state) error {
		if _, ok := st.users[id]; !ok {
			return repository.ErrNotFound
		}
		for teamID, team := range st.teams {
			if team.ManagerID != nil && *team.ManagerID == id {
				team.ManagerID = nil
				st.teams[teamID] = team
			}
		}
		for absenceID, a := range st.absences {
			if a.UserID == id {
				delete(st.absences, absenceID)
			}
		}
		delete(st.userRoles, id)
		delete(st.users, id)
		return nil
	})
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	var out *domain.User
	err := r.db.read(ctx, func(st *state) error {
		user, ok := st.users[id]
		if !ok {
			return repository.ErrNotFound
		}
		u := cloneUser(user)
		out = &u
		return nil
	})
	return out, err
}

// GetForUpdate needs no row lock: writers are already serialized.
func (r *userRepository) GetForUpdate(ctx context.Context, id string) (*domain.User, error) {
	return r.GetByID(ctx, id)
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	var out *domain.User
	err := r.db.read(ctx, func(st *state) error {
		for _, user := range st.users {
			if user.Email == email {
				u := cloneUser(user)
				out = &u
				return nil
			}
		}
		return repository.ErrNotFound
	})
	return out, err
}

func (r *userRepository) SetTeam(ctx context.Context, userID string, teamID *string) error {
	return r.db.write(ctx, func(st *state) error {
		user, ok := st.users[userID]
		if !ok {
			return repository.ErrNotFound
		}
		if teamID != nil {
			if _, ok := st.teams[*teamID]; !ok {
				return foreignKey(repository.ConstraintUsersTeam)
			}
		}
		user.TeamID = cloneString(teamID)
		user.UpdatedAt = r.db.now()
		st.users[strings.Clone(userID)] = user
		return nil
	})
}

func (r *userRepository) List(ctx context.Context, filter repository.UserFilter, w pagination.Window) ([]domain.User, error) {
	var out []domain.User
	err := r.db.read(ctx, func(st *state) error {
		matched := make([]domain.User, 0, len(st.users))
		for _, user := range st.users {
			if userMatches(user, filter) {
				matched = append(matched, cloneUser(user))
			}
		}
		out = page(matched, func(u domain.User) string { return u.ID }, w)
		return nil
	})
	return out, err
}

func (r *userRepository) Contains(ctx context.Context, filter repository.UserFilter, id string) (bool, error) {
	var found bool
	err := r.db.read(ctx, func(st *state) error {
		user, ok := st.users[id]
		found = ok && userMatches(user, filter)
		return nil
	})
	return found, err
}

func (r *userRepository) MembersOf(ctx context.Context, teamIDs []string) (map[string][]domain.TeamMember, error) {
	out := make(map[string][]domain.TeamMember, len(teamIDs))
	err := r.db.read(ctx, func(st *state) error {
		wanted := make(map[string]struct{}, len(teamIDs))
		for _, id := range teamIDs {
			wanted[id] = struct{}{}
		}
		var members []domain.User
		for _, user := range st.users {
			if user.TeamID == nil {
				continue
			}
			if _, ok := wanted[*user.TeamID]; ok {
				members = append(members, user)
			}
		}
		for _, user := range page(members, func(u domain.User) string { return u.ID }, pagination.Window{}) {
			out[*user.TeamID] = append(out[*user.TeamID], domain.TeamMember{ID: user.ID, Name: user.Name})
		}
		return nil
	})
	return out, err
}

func userMatches(user domain.User, filter repository.UserFilter) bool {
	if filter.ID != nil && user.ID != *filter.ID {
		return false
	}
	if filter.TeamID != nil && (user.TeamID == nil || *user.TeamID != *filter.TeamID) {
		return false
	}
	if filter.WithoutTeam && user.TeamID != nil {
		return false
	}
	return true
}

func emailTaken(st *state, email, exceptID string) bool {
	for id, user := range st.users {
		if id != exceptID && user.Email == email {
			return true
		}
	}
	return false
}
