package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/spec-kit/staff-service/internal/domain"
	"github.com/spec-kit/staff-service/internal/pagination"
)

type absenceTypeRepository struct {
	pool *pgxpool.Pool
}

// NewAbsenceTypeRepository constructs the repository.
func NewAbsenceTypeRepository(pool *pgxpool.Pool) AbsenceTypeRepository {
	return &absenceTypeRepository{pool: pool}
}

func (r *absenceTypeRepository) Create(ctx context.Context, t *domain.AbsenceType) error {
	const query = `
        INSERT INTO absence_types (id, name) VALUES ($1,$2)
        RETURNING created_at, updated_at`
	err := conn(ctx, r.pool).QueryRow(ctx, query, t.ID, t.Name).Scan(&t.CreatedAt, &t.UpdatedAt)
	return translate(err)
}

func (r *absenceTypeRepository) Update(ctx context.Context, t *domain.AbsenceType) error {
	const query = `
        UPDATE absence_types SET name=$1, updated_at=NOW() WHERE id=$2
        RETURNING updated_at`
	err := conn(ctx, r.pool).QueryRow(ctx, query, t.Name, t.ID).Scan(&t.UpdatedAt)
	return translate(err)
}

func (r *absenceTypeRepository) Delete(ctx context.Context, id string) error {
	cmd, err := conn(ctx, r.pool).Exec(ctx, `DELETE FROM absence_types WHERE id=$1`, id)
	if err != nil {
		return translate(err)
	}
	if cmd.RowsAffected() == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *absenceTypeRepository) GetByID(ctx context.Context, id string) (*domain.AbsenceType, error) {
	const query = `SELECT id, name, created_at, updated_at FROM absence_types WHERE id=$1`
	return scanAbsenceType(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *absenceTypeRepository) GetForUpdate(ctx context.Context, id string) (*domain.AbsenceType, error) {
	const query = `SELECT id, name, created_at, updated_at FROM absence_types WHERE id=$1 FOR UPDATE`
	return scanAbsenceType(conn(ctx, r.pool).QueryRow(ctx, query, id))
}

func (r *absenceTypeRepository) List(ctx context.Context, filter AbsenceTypeFilter, w pagination.Window) ([]domain.AbsenceType, error) {
	c := absenceTypeConditions(filter)
	tail := c.keyset(w, "id")
	query := `SELECT id, name, created_at, updated_at FROM absence_types` + c.where() + tail

	rows, err := conn(ctx, r.pool).Query(ctx, query, c.args...)
	if err != nil {
		return nil, translate(err)
	}
	defer rows.Close()

	var result []domain.AbsenceType
	for rows.Next() {
		t, err := scanAbsenceType(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, *t)
	}
	return result, translate(rows.Err())
}

func (r *absenceTypeRepository) Contains(ctx context.Context, filter AbsenceTypeFilter, id string) (bool, error) {
	return exists(ctx, r.pool, "absence_types", absenceTypeConditions(filter), id)
}

func absenceTypeConditions(filter AbsenceTypeFilter) conditions {
	var c conditions
	if filter.ID != nil {
		c.add("id = $%d", *filter.ID)
	}
	return c
}

func scanAbsenceType(row pgx.Row) (*domain.AbsenceType, error) {
	var t domain.AbsenceType
	if err := row.Scan(&t.ID, &t.Name, &t.CreatedAt, &t.UpdatedAt); err != nil {
		return nil, translate(err)
	}
	return &t, nil
}
