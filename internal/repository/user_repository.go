package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/pagination"
)

const userColumns = `id, name, email, profile, image, team_id, created_at, updated_at`

type userRepository struct {
	pool *pgxpool.Pool
}

// NewUserRepository constructs the repository.
func NewUserRepository(pool *pgxpool.Pool) UserRepository {
	return &userRepository{pool: pool}
}

func (r *userRepository) Create(ctx context.Context, user *domain.User) error {
	const query = `
        INSERT INTO users (id, name, email, profile, image, team_id)
        VALUES ($1,$2,$3,$4,$5,$6)
        RETURNING created_at, updated_at`

	err := conn(ctx, r.pool).QueryRow(ctx, query,
		user.ID,
		user.Name,
		user.Email,
		user.Profile,
		user.Image,
		user.TeamID,
	).Scan(&user.CreatedAt, &user.UpdatedAt)
	return translate(err)
}

func (r *userRepository) Update(ctx context.Context, user *domain.User) error {
	const query = `
        UPDATE users SET name=$1, email=$2, profile=$3, image=$4, updated_at=NOW()
        WHERE id=$5
        RETURNING updated_at`

	err := conn(ctx, r.pool).QueryRow(ctx, query,
		user.Name,
		user.Email,
		user.Profile,
		user.Image,
		user.ID,
	).Scan(&user.UpdatedAt)
	return translate(err)
}

func (r *userRepository) Delete(ctx context.Context, id string) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM users WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) GetByID(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1`
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *userRepository) GetForUpdate(ctx context.Context, id string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE id=$1 FOR UPDATE`
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *userRepository) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	const query = `SELECT ` + userColumns + ` FROM users WHERE email=$1`
	return scanUser(conn(ctx, r.pool).QueryRow(ctx, query, email))
}

func (r *userRepository) SetTeam(ctx context.Context, userID string, teamID *string) error {
	const query = `UPDATE users SET team_id=$1, updated_at=NOW() WHERE id=$2`

	cmd, err := conn(ctx, r.pool).Exec(ctx, query, teamID, userID)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *userRepository) List(ctx context.Context, filter UserFilter, w pagination.Window) ([]domain.User, error) {
	c := userConditions(filter)
	tail := c.keyset(w, "id")
	query := `SELECT ` + userColumns + ` FROM users` + c.where() + tail

	rows, err := conn(ctx, r.pool).Query(ctx, query, c.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var result []domain.User
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *user)
	}
	return result, translate(rows.Err())
}

func (r *userRepository) Contains(ctx context.Context, filter UserFilter, id string) (bool, error) {
	return exists(ctx, r.pool, "users", userConditions(filter), id)
}

func (r *userRepository) MembersOf(ctx context.Context, teamIDs []string) (map[string][]domain.TeamMember, error) {
	result := make(map[string][]domain.TeamMember, len(teamIDs))
	if len(teamIDs) == 0 {
		return result, nil
	}

	const query = `SELECT id, name, team_id FROM users WHERE team_id = ANY($1) ORDER BY id ASC`
	rows, err := conn(ctx, r.pool).Query(ctx, query, teamIDs)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			member domain.TeamMember
			teamID string
		)
		if err := rows.Scan(&member.ID, &member.Name, &teamID); err != nil {
			return nil, err
		}
		result[teamID] = append(result[teamID], member)
	}
	return result, translate(rows.Err())
}

func userConditions(filter UserFilter) conditions {
	var c conditions
	if filter.ID != nil {
		c.add("id = $%d", *filter.ID)
	}
	if filter.TeamID != nil {
		c.add("team_id = $%d", *filter.TeamID)
	}
	if filter.WithoutTeam {
		c.raw("team_id IS NULL")
	}
	return c
}

func scanUser(row pgx.Row) (*domain.User, error) {
	var user domain.User
	if err := row.Scan(
		&user.ID,
		&user.Name,
		&user.Email,
		&user.Profile,
		&user.Image,
		&user.TeamID,
		&user.CreatedAt,
		&user.UpdatedAt,
	); err != nil {
		return nil, translate(err)
	}
	return &user, nil
}
