package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/pagination"
)

const teamColumns = `id, name, manager_id, created_at, updated_at`

type teamRepository struct {
	pool *pgxpool.Pool
}

// NewTeamRepository constructs the repository. Members are not loaded here,
// see UserRepository.MembersOf.
func NewTeamRepository(pool *pgxpool.Pool) TeamRepository {
	return &teamRepository{pool: pool}
}

func (r *teamRepository) Create(ctx context.Context, team *domain.Team) error {
	const query = `
        INSERT INTO teams (id, name, manager_id)
        VALUES ($1,$2,$3)
        RETURNING created_at, updated_at`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		team.ID,
		team.Name,
		team.ManagerID,
	).Scan(&team.CreatedAt, &team.UpdatedAt)
	return translate(err)
}

func (r *teamRepository) Update(ctx context.Context, team *domain.Team) error {
	const query = `
        UPDATE teams SET name=$1, manager_id=$2, updated_at=NOW()
        WHERE id=$3
        RETURNING updated_at`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		team.Name,
		team.ManagerID,
		team.ID,
	).Scan(&team.UpdatedAt)
	return translate(err)
}

func (r *teamRepository) Delete(ctx context.Context, id string) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM teams WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *teamRepository) GetByID(ctx context.Context, id string) (*domain.Team, error) {
	const query = `SELECT ` + teamColumns + ` FROM teams WHERE id=$1`
	return scanTeam(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *teamRepository) GetForUpdate(ctx context.Context, id string) (*domain.Team, error) {
	const query = `SELECT ` + teamColumns + ` FROM teams WHERE id=$1 FOR UPDATE`
	return scanTeam(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *teamRepository) List(ctx context.Context, filter TeamFilter, w pagination.Window) ([]domain.Team, error) {
	c := teamConditions(filter)
	tail := c.keyset(w, "id")
	query := `SELECT ` + teamColumns + ` FROM teams` + c.where() + tail

	rows, err := conn(ctx, r.pool).Query(ctx, query, c.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var result []domain.Team
	for rows.Next() {
		team, err := scanTeam(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *team)
	}
	return result, translate(rows.Err())
}

func (r *teamRepository) Contains(ctx context.Context, filter TeamFilter, id string) (bool, error) {
	return exists(ctx, r.pool, "teams", teamConditions(filter), id)
}

func teamConditions(filter TeamFilter) conditions {
	var c conditions
	if filter.ID != nil {
		c.add("id = $%d", *filter.ID)
	}
	if filter.ManagerID != nil {
		c.add("manager_id = $%d", *filter.ManagerID)
	}
	return c
}

func scanTeam(row pgx.Row) (*domain.Team, error) {
	var team domain.Team
	if err := row.Scan(&team.ID, &team.Name, &team.ManagerID, &team.CreatedAt, &team.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &team, nil
}
