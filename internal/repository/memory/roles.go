package memory

import (
	"context"
	"strings"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/pagination"
	"github.com/spec-kit/staff-service/internal/repository"
)

type roleRepository struct {
	db *DB
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	return r.db.write(ctx, func(st *state) error {
		now := r.db.now()
		role.CreatedAt, role.UpdatedAt = now, now
		st.roles[strings.Clone(role.ID)] = *role
		return nil
	})
}

func (r *roleRepository) Update(ctx context.Context, role *domain.Role) error {
	return r.db.write(ctx, func(st *state) error {
		existing, ok := st.roles[role.ID]
		if !ok {
			return repository.ErrNotFound
		}
		existing.Name = role.Name
		existing.Acronym = role.Acronym
		existing.Description = role.Description
		existing.UpdatedAt = r.db.now()
		st.roles[strings.Clone(role.ID)] = existing
		role.UpdatedAt = existing.UpdatedAt
		return nil
	})
}

// Delete also drops the role from every user holding it.
func (r *roleRepository) Delete(ctx context.Context, id string) error {
	return r.db.write(ctx, func(st *state) error {
		if _, ok := st.roles[id]; !ok {
			return repository.ErrNotFound
		}
		for _, set := range st.userRoles {
			delete(set, id)
		}
		delete(st.roles, id)
		return nil
	})
}

func (r *roleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	var out *domain.Role
	err := r.db.read(ctx, func(st *state) error {
		role, ok := st.roles[id]
		if !ok {
			return repository.ErrNotFound
		}
		out = &role
		return nil
	})
	return out, err
}

func (r *roleRepository) GetForUpdate(ctx context.Context, id string) (*domain.Role, error) {
	return r.GetByID(ctx, id)
}

func (r *roleRepository) List(ctx context.Context, filter repository.RoleFilter, w pagination.Window) ([]domain.Role, error) {
	var out []domain.Role
	err := r.db.read(ctx, func(st *state) error {
		matched := make([]domain.Role, 0, len(st.roles))
		for _, role := range st.roles {
			if roleMatches(st, role, filter) {
				matched = append(matched, role)
			}
		}
		out = page(matched, func(role domain.Role) string { return role.ID }, w)
		return nil
	})
	return out, err
}

func (r *roleRepository) Contains(ctx context.Context, filter repository.RoleFilter, id string) (bool, error) {
	var found bool
	err := r.db.read(ctx, func(st *state) error {
		role, ok := st.roles[id]
		found = ok && roleMatches(st, role, filter)
		return nil
	})
	return found, err
}

func (r *roleRepository) Assign(ctx context.Context, userID, roleID string) error {
	return r.db.write(ctx, func(st *state) error {
		if _, ok := st.users[userID]; !ok {
			return foreignKey(repository.ConstraintUserRolesUser)
		}
		if _, ok := st.roles[roleID]; !ok {
			return foreignKey(repository.ConstraintUserRolesRole)
		}
		set, ok := st.userRoles[userID]
		if !ok {
			set = map[string]struct{}{}
			st.userRoles[strings.Clone(userID)] = set
		}
		set[strings.Clone(roleID)] = struct{}{}
		return nil
	})
}

func (r *roleRepository) Unassign(ctx context.Context, userID, roleID string) error {
	return r.db.write(ctx, func(st *state) error {
		set := st.userRoles[userID]
		if _, ok := set[roleID]; !ok {
			return repository.ErrNotFound
		}
		delete(set, roleID)
		return nil
	})
}

func (r *roleRepository) ForUsers(ctx context.Context, userIDs []string) (map[string][]domain.Role, error) {
	out := make(map[string][]domain.Role, len(userIDs))
	err := r.db.read(ctx, func(st *state) error {
		for _, userID := range userIDs {
			var roles []domain.Role
			for roleID := range st.userRoles[userID] {
				if role, ok := st.roles[roleID]; ok {
					roles = append(roles, role)
				}
			}
			if len(roles) > 0 {
				out[userID] = page(roles, func(role domain.Role) string { return role.ID }, pagination.Window{})
			}
		}
		return nil
	})
	return out, err
}

func roleMatches(st *state, role domain.Role, filter repository.RoleFilter) bool {
	if filter.ID != nil && role.ID != *filter.ID {
		return false
	}
	if filter.UserID != nil {
		if _, ok := st.userRoles[*filter.UserID][role.ID]; !ok {
			return false
		}
	}
	return true
}
