package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/pagination"
)

const roleColumns = `id, name, acronym, description, created_at, updated_at`

type roleRepository struct {
	pool *pgxpool.Pool
}

// NewRoleRepository constructs the repository.
func NewRoleRepository(pool *pgxpool.Pool) RoleRepository {
	return &roleRepository{pool: pool}
}

func (r *roleRepository) Create(ctx context.Context, role *domain.Role) error {
	const query = `
        INSERT INTO roles (id, name, acronym, description)
        VALUES ($1,$2,$3,$4)
        RETURNING created_at, updated_at`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		role.ID,
		role.Name,
		role.Acronym,
		role.Description,
	).Scan(&role.CreatedAt, &role.UpdatedAt)
	return translate(err)
}

func (r *roleRepository) Update(ctx context.Context, role *domain.Role) error {
	const query = `
        UPDATE roles SET name=$1, acronym=$2, description=$3, updated_at=NOW()
        WHERE id=$4
        RETURNING updated_at`
	err := conn(ctx, r.pool).QueryRow(ctx, query,
		role.Name,
		role.Acronym,
		role.Description,
		role.ID,
	).Scan(&role.UpdatedAt)
	return translate(err)
}

func (r *roleRepository) Delete(ctx context.Context, id string) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM roles WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roleRepository) GetByID(ctx context.Context, id string) (*domain.Role, error) {
	const query = `SELECT ` + roleColumns + ` FROM roles WHERE id=$1`
	return scanRole(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *roleRepository) GetForUpdate(ctx context.Context, id string) (*domain.Role, error) {
	const query = `SELECT ` + roleColumns + ` FROM roles WHERE id=$1 FOR UPDATE`
	return scanRole(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *roleRepository) List(ctx context.Context, filter RoleFilter, w pagination.Window) ([]domain.Role, error) {
	c := roleConditions(filter)
	tail := c.keyset(w, "id")
	query := `SELECT ` + roleColumns + ` FROM roles` + c.where() + tail

	rows, err := conn(ctx, r.pool).Query(ctx, query, c.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var result []domain.Role
	for rows.Next() {
		role, err := scanRole(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *role)
	}
	return result, translate(rows.Err())
}

func (r *roleRepository) Contains(ctx context.Context, filter RoleFilter, id string) (bool, error) {
	return exists(ctx, r.pool, "roles", roleConditions(filter), id)
}

// Assign is idempotent.
func (r *roleRepository) Assign(ctx context.Context, userID, roleID string) error {
	const query = `
        INSERT INTO user_roles (user_id, role_id) VALUES ($1,$2)
        ON CONFLICT (user_id, role_id) DO NOTHING`
	_, err := conn(ctx, r.pool).Exec(ctx, query, userID, roleID)
	return translate(err)
}

func (r *roleRepository) Unassign(ctx context.Context, userID, roleID string) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM user_roles WHERE user_id=$1 AND role_id=$2`, userID, roleID)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *roleRepository) ForUsers(ctx context.Context, userIDs []string) (map[string][]domain.Role, error) {
	result := make(map[string][]domain.Role, len(userIDs))
	if len(userIDs) == 0 {
		return result, nil
	}

	const query = `
        SELECT ur.user_id, r.id, r.name, r.acronym, r.description, r.created_at, r.updated_at
        FROM user_roles ur
        JOIN roles r ON r.id = ur.role_id
        WHERE ur.user_id = ANY($1)
        ORDER BY r.id ASC`
	rows, err := conn(ctx, r.pool).Query(ctx, query, userIDs)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			userID string
			role   domain.Role
		)
		if err := rows.Scan(&userID, &role.ID, &role.Name, &role.Acronym, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
			return nil, err
		}
		result[userID] = append(result[userID], role)
	}
	return result, translate(rows.Err())
}

func roleConditions(filter RoleFilter) conditions {
	var c conditions
	if filter.ID != nil {
		c.add("id = $%d", *filter.ID)
	}
	if filter.UserID != nil {
		c.add("id IN (SELECT role_id FROM user_roles WHERE user_id = $%d)", *filter.UserID)
	}
	return c
}

func scanRole(row pgx.Row) (*domain.Role, error) {
	var role domain.Role
	if err := row.Scan(&role.ID, &role.Name, &role.Acronym, &role.Description, &role.CreatedAt, &role.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &role, nil
}
