// Package repository holds the persistence contracts of the staff directory and
// their PostgreSQL implementations.
package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/pagination"
)

// UserFilter narrows user listings. Zero value matches every user.
type UserFilter struct {
	ID          *string
	TeamID      *string
	WithoutTeam bool
}

// TeamFilter narrows team listings.
type TeamFilter struct {
	ID        *string
	ManagerID *string
}

// RoleFilter narrows role listings.
type RoleFilter struct {
	ID     *string
	UserID *string
}

// AbsenceFilter narrows absence listings.
type AbsenceFilter struct {
	ID            *string
	UserID        *string
	AbsenceTypeID *string
}

// AbsenceTypeFilter narrows absence type listings.
type AbsenceTypeFilter struct {
	ID *string
}

// UserRepository persists users and their team membership.
type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.User, error)
	// GetForUpdate loads the user and locks it until the transaction ends.
	GetForUpdate(ctx context.Context, id string) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	SetTeam(ctx context.Context, userID string, teamID *string) error
	List(ctx context.Context, filter UserFilter, w pagination.Window) ([]domain.User, error)
	Contains(ctx context.Context, filter UserFilter, id string) (bool, error)
	// MembersOf returns members per team id, ordered by user id.
	MembersOf(ctx context.Context, teamIDs []string) (map[string][]domain.TeamMember, error)
}

// TeamRepository persists teams.
type TeamRepository interface {
	Create(ctx context.Context, team *domain.Team) error
	Update(ctx context.Context, team *domain.Team) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Team, error)
	GetForUpdate(ctx context.Context, id string) (*domain.Team, error)
	List(ctx context.Context, filter TeamFilter, w pagination.Window) ([]domain.Team, error)
	Contains(ctx context.Context, filter TeamFilter, id string) (bool, error)
}

// RoleRepository persists roles and user role assignments.
type RoleRepository interface {
	Create(ctx context.Context, role *domain.Role) error
	Update(ctx context.Context, role *domain.Role) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Role, error)
	GetForUpdate(ctx context.Context, id string) (*domain.Role, error)
	List(ctx context.Context, filter RoleFilter, w pagination.Window) ([]domain.Role, error)
	Contains(ctx context.Context, filter RoleFilter, id string) (bool, error)
	Assign(ctx context.Context, userID, roleID string) error
	Unassign(ctx context.Context, userID, roleID string) error
	// ForUsers returns assigned roles per user id, ordered by role id.
	ForUsers(ctx context.Context, userIDs []string) (map[string][]domain.Role, error)
}

// AbsenceRepository persists absences.
type AbsenceRepository interface {
	Create(ctx context.Context, absence *domain.Absence) error
	Update(ctx context.Context, absence *domain.Absence) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.Absence, error)
	GetForUpdate(ctx context.Context, id string) (*domain.Absence, error)
	List(ctx context.Context, filter AbsenceFilter, w pagination.Window) ([]domain.Absence, error)
	Contains(ctx context.Context, filter AbsenceFilter, id string) (bool, error)
	CountByType(ctx context.Context, absenceTypeID string) (int, error)
}

// AbsenceTypeRepository persists absence types.
type AbsenceTypeRepository interface {
	Create(ctx context.Context, absenceType *domain.AbsenceType) error
	Update(ctx context.Context, absenceType *domain.AbsenceType) error
	Delete(ctx context.Context, id string) error
	GetByID(ctx context.Context, id string) (*domain.AbsenceType, error)
	GetForUpdate(ctx context.Context, id string) (*domain.AbsenceType, error)
	List(ctx context.Context, filter AbsenceTypeFilter, w pagination.Window) ([]domain.AbsenceType, error)
	Contains(ctx context.Context, filter AbsenceTypeFilter, id string) (bool, error)
}

// Store bundles the repositories with the transactor that scopes them.
type Store struct {
	Tx           Transactor
	Users        UserRepository
	Teams        TeamRepository
	Roles        RoleRepository
	Absences     AbsenceRepository
	AbsenceTypes AbsenceTypeRepository
	// Ping reports whether the backing store is reachable.
	Ping func(ctx context.Context) error
}

// NewPostgresStore wires the pgx repositories around pool.
func NewPostgresStore(pool *pgxpool.Pool) *Store {
	return &Store{
		Tx:           NewTransactor(pool),
		Users:        NewUserRepository(pool),
		Teams:        NewTeamRepository(pool),
		Roles:        NewRoleRepository(pool),
		Absences:     NewAbsenceRepository(pool),
		AbsenceTypes: NewAbsenceTypeRepository(pool),
		Ping:         pool.Ping,
	}
}
